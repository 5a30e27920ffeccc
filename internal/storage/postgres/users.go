package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uptrack-app/uptrack/internal/models"
	"github.com/uptrack-app/uptrack/internal/storage"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   name,
                   email,
                   password,
                   token,
                   confirmed,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.pool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.Token,
		user.Confirmed,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return storage.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT name,
       email,
       password,
       token,
       confirmed,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	user := &models.User{ID: id}
	err := r.pool.QueryRow(
		ctx,
		selectUserByIDQuery,
		id,
	).Scan(
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Token,
		&user.Confirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = `
SELECT id,
       name,
       password,
       token,
       confirmed,
       created_at,
       updated_at
FROM users
WHERE email = $1
`
	user := &models.User{Email: email}
	err := r.pool.QueryRow(
		ctx,
		selectUserByEmailQuery,
		email,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Password,
		&user.Token,
		&user.Confirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	// Consumed tokens are stored as the empty string and
	// must never resolve to a user.
	if token == "" {
		return nil, storage.ErrNotFound
	}

	const selectUserByTokenQuery = `
SELECT id,
       name,
       email,
       password,
       confirmed,
       created_at,
       updated_at
FROM users
WHERE token = $1
`
	user := &models.User{Token: token}
	err := r.pool.QueryRow(
		ctx,
		selectUserByTokenQuery,
		token,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Confirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	const updateUserQuery = `
UPDATE users
SET name = $1,
    email = $2,
    password = $3,
    token = $4,
    confirmed = $5,
    updated_at = $6
WHERE id = $7
`
	tag, err := r.pool.Exec(
		ctx,
		updateUserQuery,
		user.Name,
		user.Email,
		user.Password,
		user.Token,
		user.Confirmed,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
