package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/MrSnakeDoc/favlauncher/internal/command"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
	"github.com/MrSnakeDoc/favlauncher/internal/transfer"
)

// Built-in command ids available to command entries and macro steps.
const (
	CmdRefresh          = "favorites.refresh"
	CmdUndo             = "favorites.undo"
	CmdRemoveDeadLinks  = "favorites.removeDeadLinks"
	CmdRemoveDuplicates = "favorites.removeDuplicates"
	CmdResetStyles      = "favorites.resetStyles"
	CmdExport           = "favorites.export"
	CmdReloadTeam       = "favorites.reloadTeam"
)

// registerBuiltins binds the collection maintenance operations to
// command ids. teamTrigger may be nil.
func registerBuiltins(reg *command.Registry, c *Core, teamTrigger chan<- struct{}) {
	s := c.Store

	reg.Register(CmdRefresh, func(context.Context, ...any) error {
		s.Refresh()
		return nil
	})
	reg.Register(CmdUndo, func(ctx context.Context, _ ...any) error {
		s.Undo(ctx)
		return nil
	})
	reg.Register(CmdRemoveDeadLinks, func(ctx context.Context, _ ...any) error {
		removed := s.RemoveDeadLinks(ctx, c.Probe.Exists)
		c.Logger.Info("dead links removed", logger.Int("count", len(removed)))
		return nil
	})
	reg.Register(CmdRemoveDuplicates, func(ctx context.Context, _ ...any) error {
		s.RemoveDuplicates(ctx)
		return nil
	})
	// optional arg: entry id
	reg.Register(CmdResetStyles, func(ctx context.Context, args ...any) error {
		id := ""
		if a := command.StringArgs(args); len(a) > 0 {
			id = a[0]
		}
		s.ResetStyles(ctx, id)
		return nil
	})
	// optional arg: target file, defaults to favorites-DATE.json in the workspace
	reg.Register(CmdExport, func(_ context.Context, args ...any) error {
		path := filepath.Join(c.Config.WorkspaceDir, fmt.Sprintf("favorites-%s.json", time.Now().Format("2006-01-02")))
		if a := command.StringArgs(args); len(a) > 0 && a[0] != "" {
			path = a[0]
		}
		return exportFile(c, path)
	})
	reg.Register(CmdReloadTeam, func(ctx context.Context, _ ...any) error {
		if teamTrigger == nil {
			_, err := s.Reload(ctx)
			return err
		}
		select {
		case teamTrigger <- struct{}{}:
		default:
		}
		return nil
	})
}

// exportFile writes the collection to path on the core filesystem.
func exportFile(c *Core, path string) error {
	f, err := c.Fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := transfer.Export(f, c.Store.Snapshot()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	c.Logger.Info("favorites exported", logger.String("path", path))
	return nil
}
