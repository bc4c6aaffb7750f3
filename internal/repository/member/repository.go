package member

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists and fetches members.
type Repository interface {
	Create(ctx context.Context, m domain.Member) (*domain.Member, error)
	GetByAccount(ctx context.Context, account string) (*domain.Member, error)
	CountByAccount(ctx context.Context, account string) (int, error)
	Delete(ctx context.Context, id string) error
	UpdateProfileImage(ctx context.Context, id, path string) error
}
