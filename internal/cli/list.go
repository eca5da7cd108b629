package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/view"
)

type listOptions struct {
	Filter string
	Sort   string
	Recent bool
}

func newListCmd(opts *options) *cobra.Command {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the favorites tree",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vo := view.Options{Filter: lo.Filter, ShowRecent: lo.Recent, RecentLimit: view.DefaultRecentLimit}
			mode, ok := view.ParseSort(lo.Sort)
			if !ok {
				return fmt.Errorf("unknown sort %q (manual|alpha|type|lastUsed)", lo.Sort)
			}
			vo.Sort = mode

			core, err := openCore(cmd, opts)
			if err != nil {
				return err
			}
			defer core.Close()

			tree := buildTree(view.NewProjector(core.Probe), core.Store.Snapshot(), vo)
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), tree)
			}
			return printTree(cmd.OutOrStdout(), tree)
		},
	}

	cmd.Flags().StringVarP(&lo.Filter, "filter", "f", "", "Only show entries whose label, path or note contains this text")
	cmd.Flags().StringVarP(&lo.Sort, "sort", "s", string(view.SortManual), "Sort mode: manual|alpha|type|lastUsed")
	cmd.Flags().BoolVar(&lo.Recent, "recent", false, "Include the Recent pseudo-group")

	return cmd
}

// treeNode is a projected node with its children expanded.
type treeNode struct {
	view.Node
	Items []treeNode `json:"items,omitempty"`
}

func buildTree(p *view.Projector, entries []domain.Entry, opts view.Options) []treeNode {
	var walk func(nodes []view.Node) []treeNode
	walk = func(nodes []view.Node) []treeNode {
		out := make([]treeNode, 0, len(nodes))
		for _, n := range nodes {
			tn := treeNode{Node: n}
			if n.Kind == view.NodeRecent || (n.Entry != nil && n.Entry.Kind == domain.KindGroup) {
				tn.Items = walk(p.Children(entries, n.ID, opts))
			}
			out = append(out, tn)
		}
		return out
	}
	return walk(p.Root(entries, opts))
}

func printTree(w io.Writer, tree []treeNode) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	var walk func(nodes []treeNode, depth int)
	walk = func(nodes []treeNode, depth int) {
		for _, n := range nodes {
			fmt.Fprintf(tw, "%s%s\t%s\t%s\n", strings.Repeat("  ", depth), nodeLabel(n.Node), nodeKind(n.Node), nodeDetail(n.Node))
			walk(n.Items, depth+1)
		}
	}
	walk(tree, 0)
	return tw.Flush()
}

func nodeLabel(n view.Node) string {
	label := n.Label
	if n.Entry != nil && n.Entry.Pinned {
		label = "* " + label
	}
	if n.Entry != nil && n.Entry.Kind == domain.KindSeparator && label == "" {
		label = "────"
	}
	return label
}

func nodeKind(n view.Node) string {
	if n.Entry == nil {
		return string(n.Kind)
	}
	return string(n.Entry.Kind)
}

func nodeDetail(n view.Node) string {
	e := n.Entry
	if e == nil {
		return ""
	}
	switch e.Kind {
	case domain.KindFile:
		if n.Missing {
			return e.Path + " (missing)"
		}
		return e.Path
	case domain.KindCommand:
		return e.CommandID
	case domain.KindMacro:
		return fmt.Sprintf("%d steps", len(e.Steps()))
	case domain.KindWorkspace:
		return e.WorkspacePath
	case domain.KindGroup:
		return fmt.Sprintf("%d items", n.Children)
	}
	return ""
}
