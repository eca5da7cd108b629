package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/favlauncher/internal/app"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the favorites API (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg := loadConfig(opts)
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	a, err := app.New(cmd.Context(), cfg, loggerClient)
	if err != nil {
		loggerClient.Error("failed to start", logger.Error(err))
		return err
	}
	return a.Run(cmd.Context())
}
