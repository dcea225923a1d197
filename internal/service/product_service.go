package service

import (
	"context"
	"strings"

	"vendora/internal/cache"
	"vendora/internal/models"
	"vendora/internal/repository"
	"vendora/internal/validation"
)

// ProductService provides product catalog business logic.
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService returns a new ProductService.
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProduct validates and creates a product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.validateProduct(product); err != nil {
		return nil, err
	}
	if product.Status == "" {
		product.Status = models.ProductStatusDraft
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	cache.InvalidateProduct(ctx, product.StoreID, product.ID)
	return product, nil
}

// GetProduct returns one product.
func (s *ProductService) GetProduct(ctx context.Context, storeID, id string) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, storeID, id)
}

// ListProducts returns a page of the store's products.
func (s *ProductService) ListProducts(ctx context.Context, storeID string, limit, offset int) ([]models.Product, error) {
	return s.productRepo.List(ctx, storeID, limit, offset)
}

// UpdateProduct applies field updates and invalidates cached reads.
func (s *ProductService) UpdateProduct(ctx context.Context, storeID, id string, fields map[string]interface{}) (*models.Product, error) {
	if rawSlug, ok := fields["slug"]; ok {
		slug, isString := rawSlug.(string)
		if !isString || validation.ValidateSlug(slug) != nil {
			return nil, models.NewValidationError("Invalid product slug")
		}
	}
	if rawPrice, ok := fields["price"]; ok {
		price, isFloat := rawPrice.(float64)
		if !isFloat || price < 0 {
			return nil, models.NewValidationError("Price cannot be negative")
		}
	}

	if err := s.productRepo.Update(ctx, storeID, id, fields); err != nil {
		return nil, err
	}
	cache.InvalidateProduct(ctx, storeID, id)
	return s.productRepo.GetByID(ctx, storeID, id)
}

// DeleteProduct removes a product and drops its cached reads.
func (s *ProductService) DeleteProduct(ctx context.Context, storeID, id string) error {
	if err := s.productRepo.Delete(ctx, storeID, id); err != nil {
		return err
	}
	cache.InvalidateProduct(ctx, storeID, id)
	return nil
}

func (s *ProductService) validateProduct(product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return models.NewValidationError("Product name is required")
	}
	if product.Price < 0 {
		return models.NewValidationError("Price cannot be negative")
	}
	if product.Stock < 0 {
		return models.NewValidationError("Stock cannot be negative")
	}
	if product.Slug != "" {
		if err := validation.ValidateSlug(product.Slug); err != nil {
			return models.NewValidationError(err.Error())
		}
	}
	return nil
}
