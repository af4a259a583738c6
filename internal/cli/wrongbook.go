package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newWrongBookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wrongbook",
		Short: "List the most-missed hexagrams",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			entries, err := a.wrongBook.Entries(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "错题本是空的。")
				return nil
			}
			for _, e := range entries {
				h, ok := a.quiz.Catalog().ByID(e.HexagramID)
				if !ok {
					continue
				}
				fmt.Fprintf(out, "%-12s 错 %d 次，最近 %s\n",
					h.DisplayName(), e.WrongCount,
					time.UnixMilli(e.LastWrongAt).Local().Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <hexagram-id>",
		Short: "Remove one entry from the wrong book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 1 || id > 64 {
				return fmt.Errorf("hexagram id must be 1..64, got %q", args[0])
			}

			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.wrongBook.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已从错题本移除 %d。\n", id)
			return nil
		},
	})
	return cmd
}
