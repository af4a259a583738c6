package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResetCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all learning records (review states, attempts, wrong book)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "确定要清空全部学习记录吗？(y/N): ")
				reader := bufio.NewScanner(cmd.InOrStdin())
				if !reader.Scan() || strings.ToLower(strings.TrimSpace(reader.Text())) != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "已取消。")
					return nil
				}
			}

			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.db.ResetAll(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "学习记录已清空。")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
