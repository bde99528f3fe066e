package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcos-nsantos/accounts-backend/internal/domain"
	"github.com/marcos-nsantos/accounts-backend/internal/domain/entity"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/pagination"
)

const (
	emailConstraint = "users_email_key"

	userColumns = `id, email, password_hash, first_name, last_name, phone, created_at, updated_at`
)

// sortColumns maps the public sort field names onto columns. Anything
// outside this map is never interpolated into SQL.
var sortColumns = map[string]string{
	"id":        "id",
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.Email, user.PasswordHash,
		nullableString(user.FirstName), nullableString(user.LastName), nullableString(user.Phone),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, emailConstraint) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepo) scanUser(row pgx.Row) (*entity.User, error) {
	user, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return user, nil
}

func scanUserRow(row pgx.Row) (*entity.User, error) {
	var user entity.User
	var firstName, lastName, phone *string

	if err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash,
		&firstName, &lastName, &phone,
		&user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	user.FirstName = derefString(firstName)
	user.LastName = derefString(lastName)
	user.Phone = derefString(phone)
	return &user, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return exists, nil
}

// Update writes every mutable column and stamps updated_at. created_at and
// id are never part of the SET list.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5, phone = $6,
			updated_at = GREATEST(NOW(), created_at)
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash,
		nullableString(user.FirstName), nullableString(user.LastName), nullableString(user.Phone),
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if isUniqueViolation(err, emailConstraint) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context, params pagination.Params) ([]entity.User, *pagination.Info, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, nil, fmt.Errorf("counting users: %w", err)
	}

	column, ok := sortColumns[params.Sort.Field]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if params.Sort.Direction == pagination.Desc {
		direction = "DESC"
	}

	// id breaks ties so equal sort keys still page deterministically.
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		ORDER BY %s %s NULLS LAST, id %s
		LIMIT $1 OFFSET $2
	`, userColumns, column, direction, direction)

	rows, err := r.pool.Query(ctx, query, params.Limit(), params.Offset())
	if err != nil {
		return nil, nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	users := make([]entity.User, 0, params.Limit())
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating users: %w", err)
	}

	pageInfo := pagination.NewInfo(params.Page, params.Size, total)
	return users, pageInfo, nil
}
