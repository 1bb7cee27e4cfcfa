package repositories

import (
	"context"
	"errors"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InquiryRepository struct {
	DB *pgxpool.Pool
}

func NewInquiryRepository(db *pgxpool.Pool) *InquiryRepository {
	return &InquiryRepository{DB: db}
}

const inquiryColumns = `id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(subject, ''), message, status, created_at, updated_at`

func (r *InquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO inquiries (name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`, inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Subject, inquiry.Message).
		Scan(&inquiry.ID, &inquiry.Status, &inquiry.CreatedAt, &inquiry.UpdatedAt)
	if err != nil {
		return apperrors.Storage("create inquiry", err)
	}
	return nil
}

func (r *InquiryRepository) Get(ctx context.Context, id int) (*models.Inquiry, error) {
	inquiry := &models.Inquiry{}
	err := r.DB.QueryRow(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE id = $1`, id).Scan(
		&inquiry.ID, &inquiry.Name, &inquiry.Email, &inquiry.Phone,
		&inquiry.Subject, &inquiry.Message, &inquiry.Status,
		&inquiry.CreatedAt, &inquiry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("inquiry %d not found", id)
		}
		return nil, apperrors.Storage("get inquiry", err)
	}
	return inquiry, nil
}

func (r *InquiryRepository) List(ctx context.Context) ([]*models.Inquiry, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+inquiryColumns+` FROM inquiries ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.Storage("list inquiries", err)
	}
	defer rows.Close()

	var inquiries []*models.Inquiry
	for rows.Next() {
		inquiry := &models.Inquiry{}
		err := rows.Scan(
			&inquiry.ID, &inquiry.Name, &inquiry.Email, &inquiry.Phone,
			&inquiry.Subject, &inquiry.Message, &inquiry.Status,
			&inquiry.CreatedAt, &inquiry.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Storage("list inquiries", err)
		}
		inquiries = append(inquiries, inquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list inquiries", err)
	}

	return inquiries, nil
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE inquiries SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return apperrors.Storage("update inquiry status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("inquiry %d not found", id)
	}
	return nil
}

func (r *InquiryRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	if err != nil {
		return apperrors.Storage("delete inquiry", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("inquiry %d not found", id)
	}
	return nil
}
