package repositories

import (
	"context"
	"errors"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TOTPRepository struct {
	DB *pgxpool.Pool
}

func NewTOTPRepository(db *pgxpool.Pool) *TOTPRepository {
	return &TOTPRepository{DB: db}
}

func (r *TOTPRepository) Get(ctx context.Context, userID int) (*models.TOTPSecret, error) {
	secret := &models.TOTPSecret{}
	err := r.DB.QueryRow(ctx, `
		SELECT user_id, secret, enabled, created_at FROM totp_secrets WHERE user_id = $1
	`, userID).Scan(&secret.UserID, &secret.Secret, &secret.Enabled, &secret.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("no 2FA enrollment for user %d", userID)
		}
		return nil, apperrors.Storage("get totp secret", err)
	}
	return secret, nil
}

// Save replaces any previous enrollment; re-running setup restarts it.
func (r *TOTPRepository) Save(ctx context.Context, userID int, secret string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO totp_secrets (user_id, secret, enabled)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id) DO UPDATE SET secret = EXCLUDED.secret, enabled = FALSE
	`, userID, secret)
	if err != nil {
		return apperrors.Storage("save totp secret", err)
	}
	return nil
}

func (r *TOTPRepository) Enable(ctx context.Context, userID int) error {
	tag, err := r.DB.Exec(ctx, `UPDATE totp_secrets SET enabled = TRUE WHERE user_id = $1`, userID)
	if err != nil {
		return apperrors.Storage("enable totp", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("no 2FA enrollment for user %d", userID)
	}
	return nil
}

func (r *TOTPRepository) Delete(ctx context.Context, userID int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM totp_secrets WHERE user_id = $1`, userID)
	if err != nil {
		return apperrors.Storage("delete totp secret", err)
	}
	return nil
}
