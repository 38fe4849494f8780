package snapshot

import (
	"context"

	"pos-terminal/internal/domain"
)

// Repository persists one cart snapshot per order context key.
type Repository interface {
	Save(ctx context.Context, key string, snap domain.CartSnapshot) error
	Load(ctx context.Context, key string) (domain.CartSnapshot, bool, error)
	Clear(ctx context.Context, key string) error
}
