package services

import (
	"context"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/repositories"
)

type ProductService struct {
	Repo *repositories.ProductRepository
}

func NewProductService(repo *repositories.ProductRepository) *ProductService {
	return &ProductService{Repo: repo}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if req.Price < 0 {
		return nil, apperrors.Validation("price must not be negative")
	}

	product := &models.Product{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}

	if err := s.Repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.Repo.List(ctx)
}

func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product.Name == "" {
		return apperrors.Validation("name is required")
	}
	return s.Repo.Update(ctx, product)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
