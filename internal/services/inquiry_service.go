package services

import (
	"context"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/repositories"
)

type InquiryService struct {
	Repo *repositories.InquiryRepository
}

func NewInquiryService(repo *repositories.InquiryRepository) *InquiryService {
	return &InquiryService{Repo: repo}
}

func (s *InquiryService) CreateInquiry(ctx context.Context, req *models.CreateInquiryRequest) (*models.Inquiry, error) {
	if req.Name == "" || req.Message == "" {
		return nil, apperrors.Validation("name and message are required")
	}
	if req.Email == "" && req.Phone == "" {
		return nil, apperrors.Validation("email or phone is required")
	}

	inquiry := &models.Inquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}

	if err := s.Repo.Create(ctx, inquiry); err != nil {
		return nil, err
	}
	return inquiry, nil
}

func (s *InquiryService) GetInquiry(ctx context.Context, id int) (*models.Inquiry, error) {
	return s.Repo.Get(ctx, id)
}

func (s *InquiryService) ListInquiries(ctx context.Context) ([]*models.Inquiry, error) {
	return s.Repo.List(ctx)
}

func (s *InquiryService) UpdateStatus(ctx context.Context, id int, status string) error {
	if status != models.InquiryNew && status != models.InquiryContacted && status != models.InquiryClosed {
		return apperrors.Validation("invalid status %q", status)
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

func (s *InquiryService) DeleteInquiry(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
