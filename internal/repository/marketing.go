package repository

import (
	"context"
	"errors"
	"strings"

	"vendora/internal/models"

	"gorm.io/gorm"
)

// SubscriberRepository defines the interface for newsletter subscriber data operations
type SubscriberRepository interface {
	Create(ctx context.Context, sub *models.Subscriber) error
	GetByID(ctx context.Context, storeID, id string) (*models.Subscriber, error)
	GetByEmail(ctx context.Context, storeID, email string) (*models.Subscriber, error)
	List(ctx context.Context, storeID string, limit, offset int) ([]models.Subscriber, error)
	Unsubscribe(ctx context.Context, storeID, email string) error
	// Resubscribe flips an unsubscribed record back to active and returns it.
	Resubscribe(ctx context.Context, storeID, id string) (*models.Subscriber, error)
	Delete(ctx context.Context, storeID, id string) error
}

type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *subscriberRepository) Create(ctx context.Context, sub *models.Subscriber) error {
	sub.Email = normalizeEmail(sub.Email)
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriberRepository) GetByID(ctx context.Context, storeID, id string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := readDB(r.db).WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Subscriber", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &sub, nil
}

func (r *subscriberRepository) GetByEmail(ctx context.Context, storeID, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := readDB(r.db).WithContext(ctx).
		Where("store_id = ? AND email = ?", storeID, normalizeEmail(email)).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &sub, nil
}

func (r *subscriberRepository) List(ctx context.Context, storeID string, limit, offset int) ([]models.Subscriber, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var subs []models.Subscriber
	if err := readDB(r.db).WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("subscribed_at DESC").
		Limit(limit).Offset(offset).
		Find(&subs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

func (r *subscriberRepository) Unsubscribe(ctx context.Context, storeID, email string) error {
	res := r.db.WithContext(ctx).Model(&models.Subscriber{}).
		Where("store_id = ? AND email = ? AND status = ?",
			storeID, normalizeEmail(email), models.SubscriberStatusActive).
		Updates(map[string]interface{}{
			"status":          models.SubscriberStatusUnsubscribed,
			"unsubscribed_at": nowUTC(),
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Subscriber", email)
	}
	return nil
}

func (r *subscriberRepository) Resubscribe(ctx context.Context, storeID, id string) (*models.Subscriber, error) {
	res := r.db.WithContext(ctx).Model(&models.Subscriber{}).
		Where("store_id = ? AND id = ? AND status = ?",
			storeID, id, models.SubscriberStatusUnsubscribed).
		Updates(map[string]interface{}{
			"status":          models.SubscriberStatusActive,
			"unsubscribed_at": nil,
			"subscribed_at":   nowUTC(),
		})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Subscriber", id)
	}
	return r.GetByID(ctx, storeID, id)
}

func (r *subscriberRepository) Delete(ctx context.Context, storeID, id string) error {
	res := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&models.Subscriber{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Subscriber", id)
	}
	return nil
}

// CampaignRepository defines the interface for email campaign data operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.EmailCampaign) error
	GetByID(ctx context.Context, storeID, id string) (*models.EmailCampaign, error)
	List(ctx context.Context, storeID string) ([]models.EmailCampaign, error)
	Update(ctx context.Context, storeID, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, storeID, id string) error
}

type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *models.EmailCampaign) error {
	// Stats always start from zero; clients cannot seed delivery counts.
	campaign.Stats = models.CampaignStats{}
	if err := r.db.WithContext(ctx).Create(campaign).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, storeID, id string) (*models.EmailCampaign, error) {
	var campaign models.EmailCampaign
	err := readDB(r.db).WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Campaign", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &campaign, nil
}

func (r *campaignRepository) List(ctx context.Context, storeID string) ([]models.EmailCampaign, error) {
	var campaigns []models.EmailCampaign
	if err := readDB(r.db).WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return campaigns, nil
}

func (r *campaignRepository) Update(ctx context.Context, storeID, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.EmailCampaign{}).
		Where("store_id = ? AND id = ?", storeID, id).
		Updates(fields)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Campaign", id)
	}
	return nil
}

func (r *campaignRepository) Delete(ctx context.Context, storeID, id string) error {
	res := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&models.EmailCampaign{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Campaign", id)
	}
	return nil
}
