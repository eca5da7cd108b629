package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/transfer"
)

func newExportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := openCore(cmd, opts)
			if err != nil {
				return err
			}
			defer core.Close()

			entries := core.Store.Snapshot()
			if output == "" || output == "-" {
				return transfer.Export(cmd.OutOrStdout(), entries)
			}

			f, err := core.Fs.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := transfer.Export(f, entries); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d entries to %s\n", len(entries), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Target file (default: stdout)")
	return cmd
}

type importResult struct {
	Mode       transfer.Mode `json:"mode"`
	Total      int           `json:"total"`
	New        int           `json:"new"`
	Duplicates int           `json:"duplicates"`
	Imported   int           `json:"imported"`
}

func newImportCmd(opts *options) *cobra.Command {
	var modeName string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge or replace the collection from an exported file",
		Long: `Reads a favorites export ("-" for stdin).

  preview  report new and duplicate entries, change nothing
  merge    append the entries not already present (default)
  replace  discard the collection and adopt the file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := transfer.ParseMode(modeName)
			if err != nil {
				return err
			}

			core, err := openCore(cmd, opts)
			if err != nil {
				return err
			}
			defer core.Close()

			data, err := readInput(cmd, core.Fs, args[0])
			if err != nil {
				return err
			}
			imported, err := transfer.Parse(data)
			if err != nil {
				return err
			}

			s := core.Store
			plan := transfer.Classify(s.Snapshot(), imported)
			res := importResult{
				Mode:       mode,
				Total:      plan.Total,
				New:        len(plan.New),
				Duplicates: len(plan.Duplicates),
			}

			switch mode {
			case transfer.ModePreview:
			case transfer.ModeReplace:
				if err := s.ReplaceAll(cmd.Context(), transfer.Replace(imported, s.NewID)); err != nil {
					return err
				}
				res.Imported = len(imported)
			default:
				err := s.Transform(cmd.Context(), "import", func(live []domain.Entry) ([]domain.Entry, error) {
					out, n, err := transfer.Merge(live, imported, s.NewID)
					res.Imported = n
					return out, err
				})
				if err != nil {
					return err
				}
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries, %d new, %d duplicates, %d imported\n",
				res.Mode, res.Total, res.New, res.Duplicates, res.Imported)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeName, "mode", "m", string(transfer.ModeMerge), "Import mode: preview|merge|replace")
	return cmd
}

func readInput(cmd *cobra.Command, fs afero.Fs, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no such file: %s", path)
		}
		return nil, err
	}
	return data, nil
}
