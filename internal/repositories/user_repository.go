package repositories

import (
	"context"
	"errors"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, COALESCE(phone, ''), password_hash, role, totp_enabled, is_active, created_at, updated_at`

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Role,
		&u.TOTPEnabled,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		user.Name, user.Email, user.Phone, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("email %s already registered", user.Email)
		}
		return apperrors.Storage("create user", err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user %d not found", id)
		}
		return nil, apperrors.Storage("get user", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user %s not found", email)
		}
		return nil, apperrors.Storage("get user by email", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.Storage("list users", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.Storage("list users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list users", err)
	}

	return users, nil
}

// ListByRole returns users with the given role, used for the customer
// picklist on the billing screens.
func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name`, role)
	if err != nil {
		return nil, apperrors.Storage("list users by role", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.Storage("list users by role", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list users by role", err)
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE users
		SET name = $2, email = $3, phone = $4, password_hash = $5, role = $6,
		    is_active = $7, updated_at = NOW()
		WHERE id = $1
	`, user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("email %s already registered", user.Email)
		}
		return apperrors.Storage("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", user.ID)
	}
	return nil
}

func (r *UserRepository) SetTOTPEnabled(ctx context.Context, id int, enabled bool) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE users SET totp_enabled = $2, updated_at = NOW() WHERE id = $1
	`, id, enabled)
	if err != nil {
		return apperrors.Storage("set totp enabled", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", id)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperrors.Storage("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user %d not found", id)
	}
	return nil
}
