package services

import (
	"context"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"
)

// SiteStore is the persistence surface the site service needs.
// *repositories.SiteRepository satisfies it; tests plug in a fake.
type SiteStore interface {
	Create(ctx context.Context, site *models.Site, items []models.SiteLineItem) error
	GetByID(ctx context.Context, id int) (*models.Site, error)
	List(ctx context.Context) ([]*models.Site, error)
	ListByCustomer(ctx context.Context, customerID int) ([]*models.Site, error)
	ListLineItemsByCustomer(ctx context.Context, customerID int) ([]models.SiteLineItem, error)
	Update(ctx context.Context, site *models.Site) error
	Delete(ctx context.Context, id int) error
	AddImage(ctx context.Context, image *models.SiteImage) error
}

type SiteService struct {
	Store SiteStore
}

func NewSiteService(store SiteStore) *SiteService {
	return &SiteService{Store: store}
}

// CreateSite persists the site together with its line items as one
// atomic write; an item failing to insert means no site is created.
// An item with no explicit amount gets quantity times unit price.
func (s *SiteService) CreateSite(ctx context.Context, req *models.CreateSiteRequest) (*models.Site, error) {
	if req.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if req.CustomerID == 0 {
		return nil, apperrors.Validation("customer_id is required")
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	site := &models.Site{
		Name:       req.Name,
		CustomerID: req.CustomerID,
		Location:   req.Location,
		Status:     status,
		Notes:      req.Notes,
	}

	items := make([]models.SiteLineItem, len(req.Items))
	copy(items, req.Items)
	for i := range items {
		if items[i].Amount == 0 {
			items[i].Amount = float64(items[i].Quantity) * items[i].UnitPrice
		}
	}

	if err := s.Store.Create(ctx, site, items); err != nil {
		return nil, err
	}

	return site, nil
}

func (s *SiteService) GetSite(ctx context.Context, id int) (*models.Site, error) {
	return s.Store.GetByID(ctx, id)
}

func (s *SiteService) ListSites(ctx context.Context) ([]*models.Site, error) {
	return s.Store.List(ctx)
}

func (s *SiteService) ListSitesByCustomer(ctx context.Context, customerID int) ([]*models.Site, error) {
	return s.Store.ListByCustomer(ctx, customerID)
}

func (s *SiteService) ListLineItemsByCustomer(ctx context.Context, customerID int) ([]models.SiteLineItem, error) {
	return s.Store.ListLineItemsByCustomer(ctx, customerID)
}

func (s *SiteService) UpdateSite(ctx context.Context, site *models.Site) error {
	if site.Name == "" {
		return apperrors.Validation("name is required")
	}
	return s.Store.Update(ctx, site)
}

// DeleteSite removes the site and everything hanging off it (images,
// line items, payments) atomically.
func (s *SiteService) DeleteSite(ctx context.Context, id int) error {
	return s.Store.Delete(ctx, id)
}

func (s *SiteService) AddImage(ctx context.Context, siteID int, url string) (*models.SiteImage, error) {
	if _, err := s.Store.GetByID(ctx, siteID); err != nil {
		return nil, err
	}
	image := &models.SiteImage{SiteID: siteID, URL: url}
	if err := s.Store.AddImage(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}
