package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouyilab/hexquiz/internal/quiz"
	"github.com/zhouyilab/hexquiz/internal/quiz/deck"
	"github.com/zhouyilab/hexquiz/internal/quiz/options"
	"github.com/zhouyilab/hexquiz/internal/srs"
)

func newQuizCommand() *cobra.Command {
	var (
		noReinforce bool
		length      int
	)
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Run an interactive practice session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if length == 0 {
				length = a.cfg.Quiz.SessionLength
			}
			if length <= 0 || length > deck.BlockSize {
				length = deck.BlockSize
			}

			sess, err := a.quiz.StartSession(cmd.Context(), quiz.SessionOptions{
				Reinforcement: a.cfg.Quiz.Reinforcement && !noReinforce,
				Seed:          a.cfg.Quiz.Seed,
				Mode:          quiz.ModePractice,
			})
			if err != nil {
				return err
			}
			return runQuizLoop(cmd.Context(), cmd, sess, length, nextFromDeck(sess))
		},
	}
	cmd.Flags().BoolVar(&noReinforce, "no-reinforcement", false, "disable the missed-hexagram bias for this session")
	cmd.Flags().IntVarP(&length, "count", "n", 0, "questions to ask (default: one full 64-question block)")
	return cmd
}

// questionSource yields the next question, or nil when the run is over.
type questionSource func(ctx context.Context) (*quiz.Question, error)

func nextFromDeck(sess *quiz.Session) questionSource {
	return func(ctx context.Context) (*quiz.Question, error) {
		return sess.NextQuestion(ctx)
	}
}

// runQuizLoop drives the ask/answer cycle on the terminal until the source is
// exhausted, the count is reached or the user quits.
func runQuizLoop(ctx context.Context, cmd *cobra.Command, sess *quiz.Session, count int, next questionSource) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewScanner(cmd.InOrStdin())

	asked, correct := 0, 0
	for asked < count {
		q, err := next(ctx)
		if err != nil {
			return err
		}
		if q == nil {
			break
		}

		fmt.Fprintf(out, "\n第 %d 题：上%s下%s（%s%s）是哪一卦？\n",
			asked+1, q.Target.UpperTrigram, q.Target.LowerTrigram,
			q.Target.UpperElement, q.Target.LowerElement)
		for slot, h := range q.Options {
			fmt.Fprintf(out, "  %s. %s\n", options.SlotLabel(slot), h.DisplayName())
		}
		fmt.Fprint(out, "选择 (a-d, q 退出): ")

		slot, quitRequested, err := readSlot(reader)
		if err != nil {
			return err
		}
		if quitRequested {
			break
		}

		res, err := sess.SubmitAnswer(ctx, slot)
		if err != nil {
			return err
		}
		asked++
		if res.Correct {
			correct++
			fmt.Fprintln(out, "✓ 正确！")
		} else {
			fmt.Fprintf(out, "✗ 错误。正确答案是 %s. %s（%s）\n",
				options.SlotLabel(res.CorrectSlot), res.CorrectItem.DisplayName(), res.CorrectItem.FullName())
		}
		fmt.Fprintf(out, "  复习安排：第%d盒，%s\n", res.Review.Bucket, srs.IntervalDescription(res.Review.Bucket))
	}

	if asked > 0 {
		fmt.Fprintf(out, "\n本次共答 %d 题，答对 %d 题（%.0f%%）。\n",
			asked, correct, float64(correct)/float64(asked)*100)
	}
	return nil
}

// readSlot parses one answer line; returns quitRequested on q/quit or EOF.
func readSlot(reader *bufio.Scanner) (slot int, quitRequested bool, err error) {
	for {
		if !reader.Scan() {
			if err := reader.Err(); err != nil {
				return 0, false, err
			}
			return 0, true, nil
		}
		input := strings.ToLower(strings.TrimSpace(reader.Text()))
		switch input {
		case "q", "quit", "exit":
			return 0, true, nil
		case "a", "b", "c", "d":
			return int(input[0] - 'a'), false, nil
		default:
			continue
		}
	}
}

