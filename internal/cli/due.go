package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhouyilab/hexquiz/internal/srs"
)

func newDueCommand() *cobra.Command {
	var today bool
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List hexagrams waiting for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			now := nowMillis()
			var due []srs.State
			if today {
				due, err = a.quiz.DueToday(cmd.Context(), now, time.Local)
			} else {
				due, err = a.quiz.DueItems(cmd.Context(), now)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(due) == 0 {
				fmt.Fprintln(out, "没有到期的复习项目。")
				return nil
			}

			for _, state := range due {
				h, ok := a.quiz.Catalog().ByID(state.HexagramID)
				if !ok {
					a.logger.Warn().Int("hexagram_id", state.HexagramID).Msg("stored review state has no catalog entry")
					continue
				}
				overdue := ""
				if wait := srs.TimeUntilDue(state, now); wait == 0 {
					overdue = "（已到期）"
				}
				fmt.Fprintf(out, "第%d盒  %-12s due %s %s\n",
					state.Bucket, h.DisplayName(),
					time.UnixMilli(state.DueAt).Local().Format("2006-01-02 15:04"), overdue)
			}
			fmt.Fprintf(out, "共 %d 项。\n", len(due))
			return nil
		},
	}
	cmd.Flags().BoolVar(&today, "today", false, "include everything due by the end of today")
	return cmd
}
