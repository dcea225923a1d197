package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vendora/internal/models"
	"vendora/internal/repository"
	"vendora/internal/validation"
)

func emailsEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// MarketingService provides subscriber, campaign, and coupon business logic.
type MarketingService struct {
	subscriberRepo repository.SubscriberRepository
	campaignRepo   repository.CampaignRepository
	couponRepo     repository.CouponRepository
	logger         *slog.Logger
	now            func() time.Time
}

// NewMarketingService returns a new MarketingService.
func NewMarketingService(
	subscriberRepo repository.SubscriberRepository,
	campaignRepo repository.CampaignRepository,
	couponRepo repository.CouponRepository,
	logger *slog.Logger,
) *MarketingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketingService{
		subscriberRepo: subscriberRepo,
		campaignRepo:   campaignRepo,
		couponRepo:     couponRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// AddSubscriber subscribes an email to the store's list. Re-subscribing an
// unsubscribed address flips it back to active.
func (s *MarketingService) AddSubscriber(ctx context.Context, storeID, email, name string, tags []string) (*models.Subscriber, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}

	existing, err := s.subscriberRepo.GetByEmail(ctx, storeID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.SubscriberStatusActive {
			return nil, models.NewValidationError("Email is already subscribed")
		}
		return s.subscriberRepo.Resubscribe(ctx, storeID, existing.ID)
	}

	sub := &models.Subscriber{
		StoreID: storeID,
		Email:   email,
		Name:    name,
		Tags:    tags,
		Status:  models.SubscriberStatusActive,
	}
	if err := s.subscriberRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubscribers returns a page of the store's subscribers.
func (s *MarketingService) ListSubscribers(ctx context.Context, storeID string, limit, offset int) ([]models.Subscriber, error) {
	return s.subscriberRepo.List(ctx, storeID, limit, offset)
}

// Unsubscribe opts an email out of the store's list.
func (s *MarketingService) Unsubscribe(ctx context.Context, storeID, email string) error {
	return s.subscriberRepo.Unsubscribe(ctx, storeID, email)
}

// DeleteSubscriber removes a subscriber record entirely.
func (s *MarketingService) DeleteSubscriber(ctx context.Context, storeID, id string) error {
	return s.subscriberRepo.Delete(ctx, storeID, id)
}

// CreateCampaign creates a draft campaign. Stats always start at zero; any
// client-supplied counts are discarded by the repository.
func (s *MarketingService) CreateCampaign(ctx context.Context, campaign *models.EmailCampaign) (*models.EmailCampaign, error) {
	if strings.TrimSpace(campaign.Name) == "" {
		return nil, models.NewValidationError("Campaign name is required")
	}
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusDraft
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// GetCampaign returns one campaign.
func (s *MarketingService) GetCampaign(ctx context.Context, storeID, id string) (*models.EmailCampaign, error) {
	return s.campaignRepo.GetByID(ctx, storeID, id)
}

// ListCampaigns returns the store's campaigns.
func (s *MarketingService) ListCampaigns(ctx context.Context, storeID string) ([]models.EmailCampaign, error) {
	return s.campaignRepo.List(ctx, storeID)
}

// UpdateCampaign applies field updates to a campaign.
func (s *MarketingService) UpdateCampaign(ctx context.Context, storeID, id string, fields map[string]interface{}) (*models.EmailCampaign, error) {
	if err := s.campaignRepo.Update(ctx, storeID, id, fields); err != nil {
		return nil, err
	}
	return s.campaignRepo.GetByID(ctx, storeID, id)
}

// DeleteCampaign removes a campaign.
func (s *MarketingService) DeleteCampaign(ctx context.Context, storeID, id string) error {
	return s.campaignRepo.Delete(ctx, storeID, id)
}

// CreateCoupon validates and creates a coupon. The active-code uniqueness
// check and the insert happen in a single transaction so two concurrent
// creates of the same code cannot both succeed.
func (s *MarketingService) CreateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	coupon.Code = models.CanonicalCouponCode(coupon.Code)
	if err := s.validateCoupon(coupon); err != nil {
		return nil, err
	}
	if coupon.Status == "" {
		coupon.Status = models.CouponStatusActive
	}
	coupon.UsedCount = 0

	if err := s.couponRepo.CreateUnique(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// GetCoupon returns one coupon.
func (s *MarketingService) GetCoupon(ctx context.Context, storeID, id string) (*models.Coupon, error) {
	return s.couponRepo.GetByID(ctx, storeID, id)
}

// ListCoupons returns the store's coupons.
func (s *MarketingService) ListCoupons(ctx context.Context, storeID string) ([]models.Coupon, error) {
	return s.couponRepo.List(ctx, storeID)
}

// UpdateCoupon applies field updates. A changed code is re-canonicalized and
// re-checked for uniqueness among the store's active coupons in the same
// transaction as the write.
func (s *MarketingService) UpdateCoupon(ctx context.Context, storeID, id string, fields map[string]interface{}) (*models.Coupon, error) {
	if rawCode, ok := fields["code"]; ok {
		code, isString := rawCode.(string)
		if !isString {
			return nil, models.NewValidationError("Coupon code must be a string")
		}
		canonical := models.CanonicalCouponCode(code)
		if err := validation.ValidateCouponCode(canonical); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["code"] = canonical
	}
	if rawType, ok := fields["type"]; ok {
		t, isString := rawType.(string)
		if !isString || !models.CouponType(t).Valid() {
			return nil, models.NewValidationError("Invalid coupon type")
		}
	}

	if err := s.couponRepo.UpdateUnique(ctx, storeID, id, fields); err != nil {
		return nil, err
	}
	return s.couponRepo.GetByID(ctx, storeID, id)
}

// DeleteCoupon removes a coupon. Usage records stay for the audit trail.
func (s *MarketingService) DeleteCoupon(ctx context.Context, storeID, id string) error {
	return s.couponRepo.Delete(ctx, storeID, id)
}

// ListCouponUsages returns the redemption history for a coupon.
func (s *MarketingService) ListCouponUsages(ctx context.Context, storeID, couponID string) ([]models.CouponUsage, error) {
	return s.couponRepo.ListUsages(ctx, storeID, couponID)
}

func (s *MarketingService) validateCoupon(coupon *models.Coupon) error {
	if err := validation.ValidateCouponCode(coupon.Code); err != nil {
		return models.NewValidationError(err.Error())
	}
	if !coupon.Type.Valid() {
		return models.NewValidationError("Invalid coupon type")
	}

	switch coupon.Type {
	case models.CouponTypePercentage:
		if coupon.Value <= 0 || coupon.Value > 100 {
			return models.NewValidationError("Percentage value must be between 0 and 100")
		}
	case models.CouponTypeFixed:
		if coupon.Value <= 0 {
			return models.NewValidationError("Fixed discount value must be positive")
		}
	}

	if coupon.StartDate.IsZero() {
		return models.NewValidationError("Start date is required")
	}
	if coupon.EndDate != nil && !coupon.EndDate.After(coupon.StartDate) {
		return models.NewValidationError("End date must be after start date")
	}
	if coupon.MinPurchase != nil && *coupon.MinPurchase < 0 {
		return models.NewValidationError("Minimum purchase cannot be negative")
	}
	if coupon.MaxDiscount != nil && *coupon.MaxDiscount <= 0 {
		return models.NewValidationError("Maximum discount must be positive")
	}
	if coupon.UsageLimit != nil && *coupon.UsageLimit <= 0 {
		return models.NewValidationError("Usage limit must be positive")
	}
	return nil
}
