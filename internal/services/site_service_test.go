package services

import (
	"context"
	"testing"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"
)

// fakeSiteStore records the single atomic Create call the service is
// expected to make.
type fakeSiteStore struct {
	createCalls  int
	createdSite  *models.Site
	createdItems []models.SiteLineItem
	createErr    error
}

func (f *fakeSiteStore) Create(ctx context.Context, site *models.Site, items []models.SiteLineItem) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	site.ID = 1
	f.createdSite = site
	f.createdItems = items
	return nil
}

func (f *fakeSiteStore) GetByID(ctx context.Context, id int) (*models.Site, error) {
	if f.createdSite != nil && f.createdSite.ID == id {
		return f.createdSite, nil
	}
	return nil, apperrors.NotFound("site %d not found", id)
}

func (f *fakeSiteStore) List(ctx context.Context) ([]*models.Site, error) { return nil, nil }

func (f *fakeSiteStore) ListByCustomer(ctx context.Context, customerID int) ([]*models.Site, error) {
	return nil, nil
}

func (f *fakeSiteStore) ListLineItemsByCustomer(ctx context.Context, customerID int) ([]models.SiteLineItem, error) {
	return nil, nil
}

func (f *fakeSiteStore) Update(ctx context.Context, site *models.Site) error { return nil }

func (f *fakeSiteStore) Delete(ctx context.Context, id int) error { return nil }

func (f *fakeSiteStore) AddImage(ctx context.Context, image *models.SiteImage) error { return nil }

func TestCreateSiteWithItems(t *testing.T) {
	store := &fakeSiteStore{}
	svc := NewSiteService(store)

	site, err := svc.CreateSite(context.Background(), &models.CreateSiteRequest{
		Name:       "Hilltop Office",
		CustomerID: 4,
		Items: []models.SiteLineItem{
			{ProductName: "Frosted glass panel", Quantity: 3, UnitPrice: 1500},
			{ProductName: "Installation", Amount: 2000},
		},
	})
	if err != nil {
		t.Fatalf("CreateSite: %v", err)
	}
	if site.Status != "active" {
		t.Errorf("status = %q, want default active", site.Status)
	}

	// Site and items go to the store in one call so the repository can
	// commit them in a single transaction.
	if store.createCalls != 1 {
		t.Errorf("store.Create called %d times, want 1", store.createCalls)
	}
	if len(store.createdItems) != 2 {
		t.Fatalf("items = %d, want 2", len(store.createdItems))
	}
	if store.createdItems[0].Amount != 4500 {
		t.Errorf("item amount = %v, want quantity*unit_price 4500", store.createdItems[0].Amount)
	}
	if store.createdItems[1].Amount != 2000 {
		t.Errorf("explicit amount = %v, want preserved 2000", store.createdItems[1].Amount)
	}
}

func TestCreateSiteStoreFailure(t *testing.T) {
	store := &fakeSiteStore{createErr: apperrors.Storage("create site", context.DeadlineExceeded)}
	svc := NewSiteService(store)

	_, err := svc.CreateSite(context.Background(), &models.CreateSiteRequest{
		Name:       "Hilltop Office",
		CustomerID: 4,
		Items:      []models.SiteLineItem{{ProductName: "Panel", Quantity: 1, UnitPrice: 100}},
	})
	if apperrors.KindOf(err) != apperrors.KindStorage {
		t.Errorf("expected storage error, got %v", err)
	}
	if store.createdSite != nil {
		t.Error("site recorded despite failed create")
	}
}

func TestCreateSiteValidation(t *testing.T) {
	svc := NewSiteService(&fakeSiteStore{})
	ctx := context.Background()

	if _, err := svc.CreateSite(ctx, &models.CreateSiteRequest{CustomerID: 1}); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("missing name: expected validation error, got %v", err)
	}
	if _, err := svc.CreateSite(ctx, &models.CreateSiteRequest{Name: "X"}); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("missing customer: expected validation error, got %v", err)
	}
}
