package purchase

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores purchase records. Records are append-only.
type Repository interface {
	Create(ctx context.Context, p domain.Purchase) (*domain.Purchase, error)
	// ListRecent returns purchases newest first. limit <= 0 returns all of them.
	ListRecent(ctx context.Context, limit int) ([]domain.Purchase, error)
}
