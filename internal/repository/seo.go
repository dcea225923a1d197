package repository

import (
	"context"
	"errors"

	"vendora/internal/models"

	"gorm.io/gorm"
)

// SeoRepository defines the interface for SEO settings data operations.
// Updates merge into the existing row, creating it on first write.
type SeoRepository interface {
	GetStoreSettings(ctx context.Context, storeID string) (*models.StoreSeoSettings, error)
	UpsertStoreSettings(ctx context.Context, storeID string, fields map[string]interface{}) (*models.StoreSeoSettings, error)
	GetProductSettings(ctx context.Context, storeID, productID string) (*models.ProductSeoSettings, error)
	UpsertProductSettings(ctx context.Context, storeID, productID string, fields map[string]interface{}) (*models.ProductSeoSettings, error)
}

type seoRepository struct {
	db *gorm.DB
}

// NewSeoRepository creates a new SEO repository
func NewSeoRepository(db *gorm.DB) SeoRepository {
	return &seoRepository{db: db}
}

func (r *seoRepository) GetStoreSettings(ctx context.Context, storeID string) (*models.StoreSeoSettings, error) {
	var settings models.StoreSeoSettings
	err := readDB(r.db).WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &settings, nil
}

func (r *seoRepository) UpsertStoreSettings(ctx context.Context, storeID string, fields map[string]interface{}) (*models.StoreSeoSettings, error) {
	var settings models.StoreSeoSettings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("store_id = ?", storeID).First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = models.StoreSeoSettings{StoreID: storeID}
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if err := tx.Model(&settings).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("store_id = ?", storeID).First(&settings).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &settings, nil
}

func (r *seoRepository) GetProductSettings(ctx context.Context, storeID, productID string) (*models.ProductSeoSettings, error) {
	var settings models.ProductSeoSettings
	err := readDB(r.db).WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &settings, nil
}

func (r *seoRepository) UpsertProductSettings(ctx context.Context, storeID, productID string, fields map[string]interface{}) (*models.ProductSeoSettings, error) {
	var settings models.ProductSeoSettings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("store_id = ? AND product_id = ?", storeID, productID).First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = models.ProductSeoSettings{StoreID: storeID, ProductID: productID}
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if err := tx.Model(&settings).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("store_id = ? AND product_id = ?", storeID, productID).First(&settings).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &settings, nil
}
