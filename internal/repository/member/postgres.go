package member

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const memberColumns = `id::text, account, password_hash, name, age, birthday, email, gender, profile_image_path, created_at`

func (r *postgresRepo) Create(ctx context.Context, m domain.Member) (*domain.Member, error) {
	const q = `
INSERT INTO members (account, password_hash, name, age, birthday, email, gender, profile_image_path)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + memberColumns

	created, err := r.scanMember(r.pool.QueryRow(
		ctx,
		q,
		m.Account,
		m.PasswordHash,
		m.Name,
		m.Age,
		m.Birthday,
		m.Email,
		string(m.Gender),
		m.ProfileImagePath,
	))
	if err != nil {
		return nil, err
	}
	r.logger.Printf("member repo: created account=%s id=%s", created.Account, created.ID)
	return created, nil
}

// GetByAccount matches the account exactly; accounts are case-sensitive.
func (r *postgresRepo) GetByAccount(ctx context.Context, account string) (*domain.Member, error) {
	const q = `
SELECT ` + memberColumns + `
FROM members
WHERE account = $1
LIMIT 1
`
	return r.scanMember(r.pool.QueryRow(ctx, q, account))
}

func (r *postgresRepo) CountByAccount(ctx context.Context, account string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM members WHERE account = $1`, account).Scan(&n); err != nil {
		r.logger.Printf("member repo: count account=%s error=%v", account, err)
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("member repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("member repo: deleted id=%s", id)
	return nil
}

func (r *postgresRepo) UpdateProfileImage(ctx context.Context, id, path string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE members SET profile_image_path = $1 WHERE id = $2`, path, id)
	if err != nil {
		r.logger.Printf("member repo: update image id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanMember(row pgx.Row) (*domain.Member, error) {
	var (
		m        domain.Member
		gender   string
		birthday *time.Time
	)
	err := row.Scan(
		&m.ID,
		&m.Account,
		&m.PasswordHash,
		&m.Name,
		&m.Age,
		&birthday,
		&m.Email,
		&gender,
		&m.ProfileImagePath,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("member repo: scan error=%v", err)
		return nil, err
	}
	m.Gender = domain.ParseGender(gender)
	m.Birthday = birthday
	return &m, nil
}
