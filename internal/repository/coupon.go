package repository

import (
	"context"
	"errors"

	"vendora/internal/models"

	"gorm.io/gorm"
)

// CouponRepository defines the interface for coupon data operations.
// Redemption bookkeeping lives in the coupon engine, not here; this
// repository covers dashboard CRUD and audit reads.
type CouponRepository interface {
	// CreateUnique inserts the coupon after verifying no active coupon in
	// the store carries the same code, in one transaction.
	CreateUnique(ctx context.Context, coupon *models.Coupon) error
	GetByID(ctx context.Context, storeID, id string) (*models.Coupon, error)
	GetActiveByCode(ctx context.Context, storeID, code string) (*models.Coupon, error)
	List(ctx context.Context, storeID string) ([]models.Coupon, error)
	// UpdateUnique applies fields; when the code changes it re-checks
	// uniqueness among the store's active coupons inside the transaction.
	UpdateUnique(ctx context.Context, storeID, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, storeID, id string) error
	ListUsages(ctx context.Context, storeID, couponID string) ([]models.CouponUsage, error)
}

// ErrCouponCodeTaken is returned when an active coupon already uses a code.
var ErrCouponCodeTaken = models.NewValidationError("Coupon code already exists")

type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func activeCodeCount(tx *gorm.DB, storeID, code, excludeID string) (int64, error) {
	q := tx.Model(&models.Coupon{}).
		Where("store_id = ? AND code = ? AND status = ?", storeID, code, models.CouponStatusActive)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *couponRepository) CreateUnique(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = models.CanonicalCouponCode(coupon.Code)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := activeCodeCount(tx, coupon.StoreID, coupon.Code, "")
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCouponCodeTaken
		}
		return tx.Create(coupon).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *couponRepository) GetByID(ctx context.Context, storeID, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := readDB(r.db).WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Coupon", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &coupon, nil
}

func (r *couponRepository) GetActiveByCode(ctx context.Context, storeID, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := readDB(r.db).WithContext(ctx).
		Where("store_id = ? AND code = ? AND status = ?",
			storeID, models.CanonicalCouponCode(code), models.CouponStatusActive).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &coupon, nil
}

func (r *couponRepository) List(ctx context.Context, storeID string) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := readDB(r.db).WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&coupons).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return coupons, nil
}

func (r *couponRepository) UpdateUnique(ctx context.Context, storeID, id string, fields map[string]interface{}) error {
	if code, ok := fields["code"].(string); ok {
		fields["code"] = models.CanonicalCouponCode(code)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if code, ok := fields["code"].(string); ok {
			count, err := activeCodeCount(tx, storeID, code, id)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrCouponCodeTaken
			}
		}
		res := tx.Model(&models.Coupon{}).
			Where("store_id = ? AND id = ?", storeID, id).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Coupon", id)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, storeID, id string) error {
	res := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&models.Coupon{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Coupon", id)
	}
	return nil
}

func (r *couponRepository) ListUsages(ctx context.Context, storeID, couponID string) ([]models.CouponUsage, error) {
	var usages []models.CouponUsage
	if err := readDB(r.db).WithContext(ctx).
		Where("store_id = ? AND coupon_id = ?", storeID, couponID).
		Order("used_at DESC").
		Find(&usages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return usages, nil
}
