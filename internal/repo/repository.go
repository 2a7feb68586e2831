package repo

import (
	"context"

	"github.com/hamed0406/sessionkeeper/internal/domain"
)

// CycleStore keeps recent cycle records for the status API.
type CycleStore interface {
	Append(ctx context.Context, c *domain.Cycle) error
	// Latest returns nil, nil before the first cycle.
	Latest(ctx context.Context) (*domain.Cycle, error)
	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.Cycle, error)
}
