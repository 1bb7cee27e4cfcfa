package repositories

import (
	"context"
	"errors"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContentPageRepository struct {
	DB *pgxpool.Pool
}

func NewContentPageRepository(db *pgxpool.Pool) *ContentPageRepository {
	return &ContentPageRepository{DB: db}
}

func (r *ContentPageRepository) GetBySlug(ctx context.Context, slug string) (*models.ContentPage, error) {
	page := &models.ContentPage{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, slug, title, body, COALESCE(updated_by, 0), created_at, updated_at
		FROM content_pages WHERE slug = $1
	`, slug).Scan(
		&page.ID, &page.Slug, &page.Title, &page.Body,
		&page.UpdatedBy, &page.CreatedAt, &page.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("page %s not found", slug)
		}
		return nil, apperrors.Storage("get content page", err)
	}
	return page, nil
}

func (r *ContentPageRepository) List(ctx context.Context) ([]*models.ContentPage, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, slug, title, body, COALESCE(updated_by, 0), created_at, updated_at
		FROM content_pages ORDER BY slug
	`)
	if err != nil {
		return nil, apperrors.Storage("list content pages", err)
	}
	defer rows.Close()

	var pages []*models.ContentPage
	for rows.Next() {
		page := &models.ContentPage{}
		err := rows.Scan(
			&page.ID, &page.Slug, &page.Title, &page.Body,
			&page.UpdatedBy, &page.CreatedAt, &page.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Storage("list content pages", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list content pages", err)
	}

	return pages, nil
}

// Upsert creates the page on first save and replaces it afterwards.
func (r *ContentPageRepository) Upsert(ctx context.Context, page *models.ContentPage) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO content_pages (slug, title, body, updated_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE
		SET title = EXCLUDED.title, body = EXCLUDED.body,
		    updated_by = EXCLUDED.updated_by, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, page.Slug, page.Title, page.Body, page.UpdatedBy).
		Scan(&page.ID, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		return apperrors.Storage("upsert content page", err)
	}
	return nil
}
