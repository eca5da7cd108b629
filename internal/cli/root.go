package cli

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/favlauncher/internal/app"
	"github.com/MrSnakeDoc/favlauncher/internal/config"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/version"
)

// options are the persistent flags shared by every command. Flags
// override the FAV_* environment.
type options struct {
	Workspace string
	Scope     string
	Verbose   bool
	JSON      bool
}

// NewRootCmd builds the favlauncher command tree. Without a subcommand
// it serves the API.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "favlauncher",
		Short:        "Favorites and launcher for a workspace",
		SilenceUsage: true,
		Version:      version.Version,
		Example: strings.TrimSpace(`
  # Serve the API for the current directory
  favlauncher

  # Print the tree, alphabetically
  favlauncher list --sort alpha

  # Back up and restore
  favlauncher export -o favorites.json
  favlauncher import favorites.json --mode merge
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.SetVersionTemplate("favlauncher " + version.String() + "\n")

	cmd.PersistentFlags().StringVar(&opts.Workspace, "workspace", "", "Workspace root (default: FAV_WORKSPACE_DIR or the current directory)")
	cmd.PersistentFlags().StringVar(&opts.Scope, "scope", "", "Storage scope: workspace|global|team (default: FAV_STORAGE_SCOPE)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log at info level in one-shot commands")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Print JSON instead of text")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newFindCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newDeadLinksCmd(opts))
	cmd.AddCommand(newScopesCmd(opts))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(opts *options) *config.Config {
	cfg := config.Load()
	if opts.Workspace != "" {
		cfg.WorkspaceDir = opts.Workspace
	}
	if opts.Scope != "" {
		cfg.StorageScope = opts.Scope
	}
	return cfg
}

// openCore opens the collection for a one-shot command. Those log at
// warn unless --verbose, so stdout stays clean for pipes.
func openCore(cmd *cobra.Command, opts *options) (*app.Core, error) {
	cfg := loadConfig(opts)
	level := "warn"
	if opts.Verbose {
		level = cfg.LogLevel
	}
	return app.OpenCore(cmd.Context(), cfg, logger.New(level, cfg.PrettyLog))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
