package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/storage"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

func newDeadLinksCmd(opts *options) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "dead-links",
		Short: "List file favorites whose path no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := openCore(cmd, opts)
			if err != nil {
				return err
			}
			defer core.Close()

			var dead []domain.Entry
			if prune {
				dead = core.Store.RemoveDeadLinks(cmd.Context(), core.Probe.Exists)
			} else {
				dead = view.DeadLinks(core.Store.Snapshot(), core.Probe)
			}
			if dead == nil {
				dead = []domain.Entry{}
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), dead)
			}
			for _, e := range dead {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.ID, e.Path)
			}
			if prune {
				fmt.Fprintf(cmd.ErrOrStderr(), "removed %d dead links\n", len(dead))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Remove the dead entries")
	return cmd
}

type scopeInfo struct {
	Scope   storage.Scope `json:"scope"`
	Entries int           `json:"entries"`
	Active  bool          `json:"active"`
}

func newScopesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scopes",
		Short: "Show how many entries each storage scope holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := openCore(cmd, opts)
			if err != nil {
				return err
			}
			defer core.Close()

			counts := core.CountScopes(cmd.Context())
			active := core.Store.Scope()

			infos := make([]scopeInfo, 0, len(storage.Scopes))
			for _, scope := range storage.Scopes {
				infos = append(infos, scopeInfo{Scope: scope, Entries: counts[scope], Active: scope == active})
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), infos)
			}
			for _, info := range infos {
				mark := " "
				if info.Active {
					mark = "*"
				}
				count := fmt.Sprint(info.Entries)
				if info.Entries < 0 {
					count = "unreadable"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %s\n", mark, info.Scope, count)
			}
			return nil
		},
	}
}
