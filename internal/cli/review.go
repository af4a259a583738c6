package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhouyilab/hexquiz/internal/quiz"
)

func newReviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Quiz the hexagrams that are due, most urgent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			now := nowMillis()
			due, err := a.quiz.DueItems(cmd.Context(), now)
			if err != nil {
				return err
			}
			if len(due) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "当前没有到期的复习项目。")
				return nil
			}

			sess, err := a.quiz.StartSession(cmd.Context(), quiz.SessionOptions{
				Seed: a.cfg.Quiz.Seed,
				Mode: quiz.ModeReview,
			})
			if err != nil {
				return err
			}

			idx := 0
			next := func(ctx context.Context) (*quiz.Question, error) {
				for idx < len(due) {
					state := due[idx]
					idx++
					q, err := sess.QuestionFor(ctx, state.HexagramID)
					if err == nil {
						if err := a.wrongBook.MarkReviewed(ctx, state.HexagramID, nowMillis()); err != nil {
							a.logger.Warn().Err(err).Int("hexagram_id", state.HexagramID).Msg("marking wrong-book entry reviewed")
						}
						return q, nil
					}
					// A stored id with no catalog entry is skipped, not fatal.
					a.logger.Warn().Err(err).Int("hexagram_id", state.HexagramID).Msg("skipping review item")
				}
				return nil, nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "共有 %d 个到期项目。\n", len(due))
			return runQuizLoop(cmd.Context(), cmd, sess, len(due), next)
		},
	}
	return cmd
}
