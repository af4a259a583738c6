package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhouyilab/hexquiz/internal/srs"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show learning progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			summary, err := a.stats.Summarize(cmd.Context(), nowMillis(), time.Local)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "答题总数：%d（答对 %d，正确率 %.1f%%）\n",
				summary.TotalAttempts, summary.CorrectAttempts, summary.Accuracy*100)
			fmt.Fprintf(out, "连续练习：%d 天\n", summary.StreakDays)
			fmt.Fprintf(out, "已掌握：%d / 64\n", summary.Mastered)
			fmt.Fprintf(out, "待复习：%d（今日内 %d）\n", summary.DueNow, summary.DueToday)
			fmt.Fprintf(out, "错题本：%d 项\n", summary.WrongBookSize)

			fmt.Fprintln(out, "盒子分布：")
			for bucket := srs.MinBucket; bucket <= srs.MaxBucket; bucket++ {
				fmt.Fprintf(out, "  第%d盒（%s）：%d\n",
					bucket, srs.IntervalDescription(bucket), summary.BucketCounts[bucket])
			}
			return nil
		},
	}
}
