package product

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
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

// List returns the catalog in display order.
func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id::text, image, name, price, description, created_at
FROM products
ORDER BY position ASC, created_at ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Image, &p.Name, &p.Price, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Quantity = 1
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, image, name, price, description, created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Image, &p.Name, &p.Price, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	p.Quantity = 1
	return &p, nil
}

// Upsert inserts or replaces a product by id. An empty id lets Postgres assign one and
// appends the product to the end of the display order.
func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, image, name, price, description, position)
VALUES (
    COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5,
    (SELECT COALESCE(MAX(position), 0) + 1 FROM products)
)
ON CONFLICT (id) DO UPDATE SET
    image = EXCLUDED.image,
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    description = EXCLUDED.description
RETURNING id::text, created_at
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.ID,
		product.Image,
		product.Name,
		product.Price,
		product.Description,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert name=%s error=%v", product.Name, err)
		return nil, err
	}
	res.Quantity = 1
	res.Selected = false
	r.logger.Printf("product repo: upserted name=%s id=%s", res.Name, res.ID)
	return &res, nil
}
