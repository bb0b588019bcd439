package draft

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("draft not found")

// Store persists drafts across page navigations. Implementations are
// injectable so flows can run in parallel and tests can swap in memory.
// Writes are last-write-wins; no cross-writer reconciliation.
type Store interface {
	Create(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Update(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, id string) error
}
