package repositories

import (
	"context"
	"errors"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SiteRepository struct {
	DB *pgxpool.Pool
}

func NewSiteRepository(db *pgxpool.Pool) *SiteRepository {
	return &SiteRepository{DB: db}
}

// Create inserts the site and its line items in one transaction. A
// failure on any item rolls the site back too; a site with a partial
// item list is never committed.
func (r *SiteRepository) Create(ctx context.Context, site *models.Site, items []models.SiteLineItem) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return apperrors.Storage("create site", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO sites (name, customer_id, location, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`,
		site.Name,
		site.CustomerID,
		site.Location,
		site.Status,
		site.Notes,
	).Scan(&site.ID, &site.CreatedAt, &site.UpdatedAt)
	if err != nil {
		return apperrors.Storage("create site", err)
	}

	for i := range items {
		items[i].SiteID = site.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO site_items (site_id, product_name, quantity, unit_price, amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, items[i].SiteID, items[i].ProductName, items[i].Quantity, items[i].UnitPrice, items[i].Amount).
			Scan(&items[i].ID, &items[i].CreatedAt)
		if err != nil {
			return apperrors.Storage("create site line item", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Storage("create site", err)
	}
	return nil
}

func (r *SiteRepository) GetByID(ctx context.Context, id int) (*models.Site, error) {
	query := `
		SELECT s.id, s.name, s.customer_id, COALESCE(s.location, ''), s.status,
		       COALESCE(s.notes, ''), COALESCE(u.name, ''), s.created_at, s.updated_at
		FROM sites s
		LEFT JOIN users u ON s.customer_id = u.id
		WHERE s.id = $1
	`

	site := &models.Site{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&site.ID,
		&site.Name,
		&site.CustomerID,
		&site.Location,
		&site.Status,
		&site.Notes,
		&site.CustomerName,
		&site.CreatedAt,
		&site.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("site %d not found", id)
		}
		return nil, apperrors.Storage("get site", err)
	}

	images, err := r.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	site.Images = images

	return site, nil
}

func (r *SiteRepository) List(ctx context.Context) ([]*models.Site, error) {
	query := `
		SELECT s.id, s.name, s.customer_id, COALESCE(s.location, ''), s.status,
		       COALESCE(s.notes, ''), COALESCE(u.name, ''), s.created_at, s.updated_at
		FROM sites s
		LEFT JOIN users u ON s.customer_id = u.id
		ORDER BY s.created_at DESC
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Storage("list sites", err)
	}
	defer rows.Close()

	var sites []*models.Site
	for rows.Next() {
		site := &models.Site{}
		err := rows.Scan(
			&site.ID,
			&site.Name,
			&site.CustomerID,
			&site.Location,
			&site.Status,
			&site.Notes,
			&site.CustomerName,
			&site.CreatedAt,
			&site.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Storage("list sites", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list sites", err)
	}

	return sites, nil
}

func (r *SiteRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Site, error) {
	query := `
		SELECT id, name, customer_id, COALESCE(location, ''), status,
		       COALESCE(notes, ''), created_at, updated_at
		FROM sites
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.Query(ctx, query, customerID)
	if err != nil {
		return nil, apperrors.Storage("list sites by customer", err)
	}
	defer rows.Close()

	var sites []*models.Site
	for rows.Next() {
		site := &models.Site{}
		err := rows.Scan(
			&site.ID,
			&site.Name,
			&site.CustomerID,
			&site.Location,
			&site.Status,
			&site.Notes,
			&site.CreatedAt,
			&site.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Storage("list sites by customer", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list sites by customer", err)
	}

	return sites, nil
}

func (r *SiteRepository) Update(ctx context.Context, site *models.Site) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE sites
		SET name = $2, customer_id = $3, location = $4, status = $5, notes = $6, updated_at = NOW()
		WHERE id = $1
	`, site.ID, site.Name, site.CustomerID, site.Location, site.Status, site.Notes)
	if err != nil {
		return apperrors.Storage("update site", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("site %d not found", site.ID)
	}
	return nil
}

// Delete removes a site together with its images, line items and
// payments in one transaction. Any failure rolls the whole thing back;
// a partially deleted site is never left behind.
func (r *SiteRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return apperrors.Storage("delete site", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM site_images WHERE site_id = $1`, id); err != nil {
		return apperrors.Storage("delete site images", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM site_items WHERE site_id = $1`, id); err != nil {
		return apperrors.Storage("delete site items", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE site_id = $1`, id); err != nil {
		return apperrors.Storage("delete site payments", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		return apperrors.Storage("delete site", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("site %d not found", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Storage("delete site", err)
	}
	return nil
}

func (r *SiteRepository) AddImage(ctx context.Context, image *models.SiteImage) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO site_images (site_id, url) VALUES ($1, $2)
		RETURNING id, created_at
	`, image.SiteID, image.URL).Scan(&image.ID, &image.CreatedAt)
	if err != nil {
		return apperrors.Storage("add site image", err)
	}
	return nil
}

func (r *SiteRepository) ListImages(ctx context.Context, siteID int) ([]models.SiteImage, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, site_id, url, created_at FROM site_images WHERE site_id = $1 ORDER BY id
	`, siteID)
	if err != nil {
		return nil, apperrors.Storage("list site images", err)
	}
	defer rows.Close()

	var images []models.SiteImage
	for rows.Next() {
		var img models.SiteImage
		if err := rows.Scan(&img.ID, &img.SiteID, &img.URL, &img.CreatedAt); err != nil {
			return nil, apperrors.Storage("list site images", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list site images", err)
	}

	return images, nil
}

// ListLineItemsByCustomer returns the priced lines across all of a
// customer's sites, for the "billable for this customer" picklist.
func (r *SiteRepository) ListLineItemsByCustomer(ctx context.Context, customerID int) ([]models.SiteLineItem, error) {
	query := `
		SELECT i.id, i.site_id, i.product_name, i.quantity, i.unit_price, i.amount,
		       s.name, i.created_at
		FROM site_items i
		JOIN sites s ON i.site_id = s.id
		WHERE s.customer_id = $1
		ORDER BY i.created_at DESC
	`

	rows, err := r.DB.Query(ctx, query, customerID)
	if err != nil {
		return nil, apperrors.Storage("list line items by customer", err)
	}
	defer rows.Close()

	var items []models.SiteLineItem
	for rows.Next() {
		var item models.SiteLineItem
		err := rows.Scan(
			&item.ID,
			&item.SiteID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.Amount,
			&item.SiteName,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Storage("list line items by customer", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list line items by customer", err)
	}

	return items, nil
}
