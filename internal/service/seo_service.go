package service

import (
	"context"

	"vendora/internal/cache"
	"vendora/internal/models"
	"vendora/internal/repository"
)

// SeoService provides SEO settings business logic.
type SeoService struct {
	seoRepo     repository.SeoRepository
	productRepo repository.ProductRepository
}

// NewSeoService returns a new SeoService.
func NewSeoService(seoRepo repository.SeoRepository, productRepo repository.ProductRepository) *SeoService {
	return &SeoService{seoRepo: seoRepo, productRepo: productRepo}
}

// GetStoreSettings returns the store's SEO settings, or sensible defaults
// when nothing has been configured yet.
func (s *SeoService) GetStoreSettings(ctx context.Context, storeID string) (*models.StoreSeoSettings, error) {
	settings, err := s.seoRepo.GetStoreSettings(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &models.StoreSeoSettings{
			StoreID:         storeID,
			RobotsDirective: "index,follow",
			SitemapEnabled:  true,
		}, nil
	}
	return settings, nil
}

// UpdateStoreSettings merges field updates into the store's SEO settings,
// creating the row on first write.
func (s *SeoService) UpdateStoreSettings(ctx context.Context, storeID string, fields map[string]interface{}) (*models.StoreSeoSettings, error) {
	settings, err := s.seoRepo.UpsertStoreSettings(ctx, storeID, fields)
	if err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.StoreSeoKey(storeID))
	return settings, nil
}

// GetProductSettings returns a product's SEO settings. The product must
// exist; absent settings come back as zero-valued defaults.
func (s *SeoService) GetProductSettings(ctx context.Context, storeID, productID string) (*models.ProductSeoSettings, error) {
	if _, err := s.productRepo.GetByID(ctx, storeID, productID); err != nil {
		return nil, err
	}

	settings, err := s.seoRepo.GetProductSettings(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &models.ProductSeoSettings{StoreID: storeID, ProductID: productID}, nil
	}
	return settings, nil
}

// UpdateProductSettings merges field updates into a product's SEO settings.
func (s *SeoService) UpdateProductSettings(ctx context.Context, storeID, productID string, fields map[string]interface{}) (*models.ProductSeoSettings, error) {
	if _, err := s.productRepo.GetByID(ctx, storeID, productID); err != nil {
		return nil, err
	}
	return s.seoRepo.UpsertProductSettings(ctx, storeID, productID, fields)
}

// SitemapEntry is one URL slot in the public sitemap data.
type SitemapEntry struct {
	Path      string `json:"path"`
	UpdatedAt string `json:"updated_at"`
}

// SitemapData returns sitemap entries for a store's active products. Returns
// an empty list when the store disabled its sitemap.
func (s *SeoService) SitemapData(ctx context.Context, storeID string) ([]SitemapEntry, error) {
	settings, err := s.GetStoreSettings(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !settings.SitemapEnabled {
		return []SitemapEntry{}, nil
	}

	products, err := s.productRepo.List(ctx, storeID, 100, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]SitemapEntry, 0, len(products))
	for _, p := range products {
		if p.Status != models.ProductStatusActive {
			continue
		}
		path := "/products/" + p.ID
		if p.Slug != "" {
			path = "/products/" + p.Slug
		}
		entries = append(entries, SitemapEntry{
			Path:      path,
			UpdatedAt: p.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}
	return entries, nil
}
