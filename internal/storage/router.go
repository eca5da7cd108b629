package storage

import (
	"context"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
)

// Router dispatches each scope to its backend: workspace and global
// live in KV slots, team lives in the shared file.
type Router struct {
	slots Backend
	team  Backend
}

func NewRouter(slots, team Backend) *Router {
	return &Router{slots: slots, team: team}
}

func (r *Router) backend(scope Scope) (Backend, error) {
	switch scope {
	case ScopeWorkspace, ScopeGlobal:
		return r.slots, nil
	case ScopeTeam:
		return r.team, nil
	}
	return nil, ErrUnknownScope
}

func (r *Router) Load(ctx context.Context, scope Scope) ([]domain.Entry, error) {
	b, err := r.backend(scope)
	if err != nil {
		return nil, err
	}
	return b.Load(ctx, scope)
}

func (r *Router) Save(ctx context.Context, scope Scope, entries []domain.Entry) error {
	b, err := r.backend(scope)
	if err != nil {
		return err
	}
	return b.Save(ctx, scope, entries)
}

// Version reports the content version of the scope, empty for
// backends that do not track versions.
func (r *Router) Version(ctx context.Context, scope Scope) (string, error) {
	b, err := r.backend(scope)
	if err != nil {
		return "", err
	}
	if v, ok := b.(Versioned); ok {
		return v.Version(ctx, scope)
	}
	return "", nil
}
