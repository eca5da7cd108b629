package preset

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/favlauncher/internal/domain"
	"github.com/MrSnakeDoc/favlauncher/internal/transfer"
)

// Target is the collection a preset is merged into.
type Target interface {
	NewID() string
	Transform(ctx context.Context, op string, fn func(live []domain.Entry) ([]domain.Entry, error)) error
}

// Apply merges preset entries into target, skipping entries the
// collection already holds. It returns how many were added.
func Apply(ctx context.Context, target Target, entries []domain.Entry) (int, error) {
	var added int
	err := target.Transform(ctx, "preset", func(live []domain.Entry) ([]domain.Entry, error) {
		out, n, err := transfer.Merge(live, entries, target.NewID)
		if err != nil {
			return nil, err
		}
		added = n
		return out, nil
	})
	if errors.Is(err, transfer.ErrNothingToImport) {
		return 0, nil
	}
	return added, err
}
