package repository

import (
	"context"
	"errors"

	"vendora/internal/models"

	"gorm.io/gorm"
)

// IntegrationRepository defines the interface for widget and tracking data operations
type IntegrationRepository interface {
	CreateWidget(ctx context.Context, widget *models.Widget) error
	GetWidget(ctx context.Context, storeID, id string) (*models.Widget, error)
	ListWidgets(ctx context.Context, storeID string) ([]models.Widget, error)
	UpdateWidget(ctx context.Context, storeID, id string, fields map[string]interface{}) error
	DeleteWidget(ctx context.Context, storeID, id string) error

	UpsertTracking(ctx context.Context, tracking *models.TrackingIntegration) error
	ListTracking(ctx context.Context, storeID string) ([]models.TrackingIntegration, error)
	DeleteTracking(ctx context.Context, storeID string, provider models.TrackingProvider) error
}

type integrationRepository struct {
	db *gorm.DB
}

// NewIntegrationRepository creates a new integration repository
func NewIntegrationRepository(db *gorm.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

func (r *integrationRepository) CreateWidget(ctx context.Context, widget *models.Widget) error {
	if err := r.db.WithContext(ctx).Create(widget).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *integrationRepository) GetWidget(ctx context.Context, storeID, id string) (*models.Widget, error) {
	var widget models.Widget
	err := readDB(r.db).WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&widget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Widget", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &widget, nil
}

func (r *integrationRepository) ListWidgets(ctx context.Context, storeID string) ([]models.Widget, error) {
	var widgets []models.Widget
	if err := readDB(r.db).WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("position ASC, created_at ASC").
		Find(&widgets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return widgets, nil
}

func (r *integrationRepository) UpdateWidget(ctx context.Context, storeID, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Widget{}).
		Where("store_id = ? AND id = ?", storeID, id).
		Updates(fields)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Widget", id)
	}
	return nil
}

func (r *integrationRepository) DeleteWidget(ctx context.Context, storeID, id string) error {
	res := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&models.Widget{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Widget", id)
	}
	return nil
}

func (r *integrationRepository) UpsertTracking(ctx context.Context, tracking *models.TrackingIntegration) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.TrackingIntegration
		err := tx.Where("store_id = ? AND provider = ?", tracking.StoreID, tracking.Provider).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(tracking).Error
		}
		if err != nil {
			return err
		}
		tracking.ID = existing.ID
		return tx.Model(&existing).Updates(map[string]interface{}{
			"tracking_id": tracking.TrackingID,
			"enabled":     tracking.Enabled,
		}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *integrationRepository) ListTracking(ctx context.Context, storeID string) ([]models.TrackingIntegration, error) {
	var tracking []models.TrackingIntegration
	if err := readDB(r.db).WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("provider ASC").
		Find(&tracking).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tracking, nil
}

func (r *integrationRepository) DeleteTracking(ctx context.Context, storeID string, provider models.TrackingProvider) error {
	res := r.db.WithContext(ctx).
		Where("store_id = ? AND provider = ?", storeID, provider).
		Delete(&models.TrackingIntegration{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Tracking integration", string(provider))
	}
	return nil
}
