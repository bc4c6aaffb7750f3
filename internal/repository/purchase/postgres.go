package purchase

import (
	"context"
	"io"
	"log"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Purchase) (*domain.Purchase, error) {
	const q = `
INSERT INTO purchases (name, price, image, purchased_at)
VALUES ($1, $2, $3, $4)
RETURNING id::text, name, price, image, purchased_at
`
	var out domain.Purchase
	err := r.pool.QueryRow(ctx, q, p.Name, p.Price, p.Image, p.PurchasedAt).Scan(
		&out.ID,
		&out.Name,
		&out.Price,
		&out.Image,
		&out.PurchasedAt,
	)
	if err != nil {
		r.logger.Printf("purchase repo: create name=%s error=%v", p.Name, err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]domain.Purchase, error) {
	const q = `
SELECT id::text, name, price, image, purchased_at
FROM purchases
ORDER BY purchased_at DESC, id
LIMIT NULLIF($1, 0)
`
	if limit < 0 {
		limit = 0
	}
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		r.logger.Printf("purchase repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.PurchasedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("purchase repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}
