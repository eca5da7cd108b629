package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

func newFindCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "find QUERY...",
		Short: "Rank launchable favorites by label",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := openCore(cmd, opts)
			if err != nil {
				return err
			}
			defer core.Close()

			res := view.Search(core.Store.Snapshot(), strings.Join(args, " "), time.Now(), limit)
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			if len(res) == 0 {
				return fmt.Errorf("no favorite matches %q", strings.Join(args, " "))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range res {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\n", c.Entry.ID, c.Entry.Label, c.Entry.Kind, c.TotalScore)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", view.DefaultSearchLimit, "Maximum number of results")
	return cmd
}
