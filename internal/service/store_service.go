package service

import (
	"context"
	"strings"

	"vendora/internal/cache"
	"vendora/internal/models"
	"vendora/internal/repository"
	"vendora/internal/validation"
)

// StoreService provides store provisioning and management business logic.
type StoreService struct {
	storeRepo repository.StoreRepository
}

// NewStoreService returns a new StoreService.
func NewStoreService(storeRepo repository.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// CreateStore provisions a new store owned by the caller. Ownership is set
// from the authenticated user, never from the request body.
func (s *StoreService) CreateStore(ctx context.Context, ownerID string, store *models.Store) (*models.Store, error) {
	if strings.TrimSpace(store.Name) == "" {
		return nil, models.NewValidationError("Store name is required")
	}
	if store.ContactEmail != "" {
		if err := validation.ValidateEmail(store.ContactEmail); err != nil {
			return nil, models.NewValidationError("Invalid contact email")
		}
	}

	store.OwnerID = ownerID
	if store.Currency == "" {
		store.Currency = "USD"
	}
	store.Status = models.StoreStatusActive

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// GetStore returns a store by id.
func (s *StoreService) GetStore(ctx context.Context, id string) (*models.Store, error) {
	return s.storeRepo.GetByID(ctx, id)
}

// GetStoreCached returns a store for public storefront reads, served from
// cache when possible.
func (s *StoreService) GetStoreCached(ctx context.Context, id string) (*models.Store, error) {
	key := cache.StoreKey(id)

	var cached models.Store
	if cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, key, store, cache.StoreTTL)
	return store, nil
}

// UpdateStore applies field updates and invalidates the public cache.
func (s *StoreService) UpdateStore(ctx context.Context, id string, fields map[string]interface{}) (*models.Store, error) {
	if rawEmail, ok := fields["contact_email"]; ok {
		email, isString := rawEmail.(string)
		if !isString || validation.ValidateEmail(email) != nil {
			return nil, models.NewValidationError("Invalid contact email")
		}
	}
	// Ownership cannot be transferred through a field update.
	delete(fields, "owner_id")

	if err := s.storeRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	cache.InvalidateStore(ctx, id)
	return s.storeRepo.GetByID(ctx, id)
}

// DeleteStore removes a store and drops its cached reads.
func (s *StoreService) DeleteStore(ctx context.Context, id string) error {
	if err := s.storeRepo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateStore(ctx, id)
	return nil
}
