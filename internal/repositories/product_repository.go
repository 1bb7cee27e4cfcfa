package repositories

import (
	"context"
	"errors"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, name, COALESCE(category, ''), COALESCE(description, ''), price, COALESCE(image_url, ''), is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Description,
		&p.Price,
		&p.ImageURL,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products (name, category, description, price, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, updated_at
	`, product.Name, product.Category, product.Description, product.Price, product.ImageURL).
		Scan(&product.ID, &product.IsActive, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return apperrors.Storage("create product", err)
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product %d not found", id)
		}
		return nil, apperrors.Storage("get product", err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products WHERE is_active ORDER BY category, name`)
	if err != nil {
		return nil, apperrors.Storage("list products", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.Storage("list products", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list products", err)
	}

	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE products
		SET name = $2, category = $3, description = $4, price = $5, image_url = $6,
		    is_active = $7, updated_at = NOW()
		WHERE id = $1
	`, product.ID, product.Name, product.Category, product.Description, product.Price,
		product.ImageURL, product.IsActive)
	if err != nil {
		return apperrors.Storage("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product %d not found", product.ID)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return apperrors.Storage("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product %d not found", id)
	}
	return nil
}
