package services

import (
	"context"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/repositories"
)

type ContentService struct {
	Repo *repositories.ContentPageRepository
}

func NewContentService(repo *repositories.ContentPageRepository) *ContentService {
	return &ContentService{Repo: repo}
}

func (s *ContentService) GetPage(ctx context.Context, slug string) (*models.ContentPage, error) {
	return s.Repo.GetBySlug(ctx, slug)
}

func (s *ContentService) ListPages(ctx context.Context) ([]*models.ContentPage, error) {
	return s.Repo.List(ctx)
}

func (s *ContentService) SavePage(ctx context.Context, actor models.Actor, slug string, req *models.UpsertContentPageRequest) (*models.ContentPage, error) {
	if slug == "" || req.Title == "" {
		return nil, apperrors.Validation("slug and title are required")
	}

	page := &models.ContentPage{
		Slug:      slug,
		Title:     req.Title,
		Body:      req.Body,
		UpdatedBy: actor.UserID,
	}

	if err := s.Repo.Upsert(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}
