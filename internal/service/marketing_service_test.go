package service

import (
	"context"
	"testing"
	"time"

	"vendora/internal/models"
	"vendora/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type couponRepoStub struct {
	createUniqueFn    func(context.Context, *models.Coupon) error
	getByIDFn         func(context.Context, string, string) (*models.Coupon, error)
	getActiveByCodeFn func(context.Context, string, string) (*models.Coupon, error)
	listFn            func(context.Context, string) ([]models.Coupon, error)
	updateUniqueFn    func(context.Context, string, string, map[string]interface{}) error
	deleteFn          func(context.Context, string, string) error
	listUsagesFn      func(context.Context, string, string) ([]models.CouponUsage, error)
}

func (s *couponRepoStub) CreateUnique(ctx context.Context, coupon *models.Coupon) error {
	return s.createUniqueFn(ctx, coupon)
}
func (s *couponRepoStub) GetByID(ctx context.Context, storeID, id string) (*models.Coupon, error) {
	return s.getByIDFn(ctx, storeID, id)
}
func (s *couponRepoStub) GetActiveByCode(ctx context.Context, storeID, code string) (*models.Coupon, error) {
	return s.getActiveByCodeFn(ctx, storeID, code)
}
func (s *couponRepoStub) List(ctx context.Context, storeID string) ([]models.Coupon, error) {
	return s.listFn(ctx, storeID)
}
func (s *couponRepoStub) UpdateUnique(ctx context.Context, storeID, id string, fields map[string]interface{}) error {
	return s.updateUniqueFn(ctx, storeID, id, fields)
}
func (s *couponRepoStub) Delete(ctx context.Context, storeID, id string) error {
	return s.deleteFn(ctx, storeID, id)
}
func (s *couponRepoStub) ListUsages(ctx context.Context, storeID, couponID string) ([]models.CouponUsage, error) {
	return s.listUsagesFn(ctx, storeID, couponID)
}

func noopCouponRepo() *couponRepoStub {
	return &couponRepoStub{
		createUniqueFn: func(_ context.Context, cp *models.Coupon) error {
			cp.ID = "coupon-1"
			return nil
		},
		getByIDFn: func(_ context.Context, _, id string) (*models.Coupon, error) {
			return &models.Coupon{ID: id}, nil
		},
		getActiveByCodeFn: func(_ context.Context, _, _ string) (*models.Coupon, error) { return nil, nil },
		listFn:            func(_ context.Context, _ string) ([]models.Coupon, error) { return nil, nil },
		updateUniqueFn:    func(_ context.Context, _, _ string, _ map[string]interface{}) error { return nil },
		deleteFn:          func(_ context.Context, _, _ string) error { return nil },
		listUsagesFn:      func(_ context.Context, _, _ string) ([]models.CouponUsage, error) { return nil, nil },
	}
}

type subscriberRepoStub struct {
	createFn      func(context.Context, *models.Subscriber) error
	getByIDFn     func(context.Context, string, string) (*models.Subscriber, error)
	getByEmailFn  func(context.Context, string, string) (*models.Subscriber, error)
	listFn        func(context.Context, string, int, int) ([]models.Subscriber, error)
	unsubscribeFn func(context.Context, string, string) error
	resubscribeFn func(context.Context, string, string) (*models.Subscriber, error)
	deleteFn      func(context.Context, string, string) error
}

func (s *subscriberRepoStub) Create(ctx context.Context, sub *models.Subscriber) error {
	return s.createFn(ctx, sub)
}
func (s *subscriberRepoStub) GetByID(ctx context.Context, storeID, id string) (*models.Subscriber, error) {
	return s.getByIDFn(ctx, storeID, id)
}
func (s *subscriberRepoStub) GetByEmail(ctx context.Context, storeID, email string) (*models.Subscriber, error) {
	return s.getByEmailFn(ctx, storeID, email)
}
func (s *subscriberRepoStub) List(ctx context.Context, storeID string, limit, offset int) ([]models.Subscriber, error) {
	return s.listFn(ctx, storeID, limit, offset)
}
func (s *subscriberRepoStub) Unsubscribe(ctx context.Context, storeID, email string) error {
	return s.unsubscribeFn(ctx, storeID, email)
}
func (s *subscriberRepoStub) Resubscribe(ctx context.Context, storeID, id string) (*models.Subscriber, error) {
	return s.resubscribeFn(ctx, storeID, id)
}
func (s *subscriberRepoStub) Delete(ctx context.Context, storeID, id string) error {
	return s.deleteFn(ctx, storeID, id)
}

func noopSubscriberRepo() *subscriberRepoStub {
	return &subscriberRepoStub{
		createFn:      func(_ context.Context, _ *models.Subscriber) error { return nil },
		getByIDFn:     func(_ context.Context, _, _ string) (*models.Subscriber, error) { return nil, nil },
		getByEmailFn:  func(_ context.Context, _, _ string) (*models.Subscriber, error) { return nil, nil },
		listFn:        func(_ context.Context, _ string, _, _ int) ([]models.Subscriber, error) { return nil, nil },
		unsubscribeFn: func(_ context.Context, _, _ string) error { return nil },
		resubscribeFn: func(_ context.Context, _, _ string) (*models.Subscriber, error) {
			return &models.Subscriber{Status: models.SubscriberStatusActive}, nil
		},
		deleteFn: func(_ context.Context, _, _ string) error { return nil },
	}
}

type campaignRepoStub struct {
	createFn  func(context.Context, *models.EmailCampaign) error
	getByIDFn func(context.Context, string, string) (*models.EmailCampaign, error)
	listFn    func(context.Context, string) ([]models.EmailCampaign, error)
	updateFn  func(context.Context, string, string, map[string]interface{}) error
	deleteFn  func(context.Context, string, string) error
}

func (s *campaignRepoStub) Create(ctx context.Context, campaign *models.EmailCampaign) error {
	return s.createFn(ctx, campaign)
}
func (s *campaignRepoStub) GetByID(ctx context.Context, storeID, id string) (*models.EmailCampaign, error) {
	return s.getByIDFn(ctx, storeID, id)
}
func (s *campaignRepoStub) List(ctx context.Context, storeID string) ([]models.EmailCampaign, error) {
	return s.listFn(ctx, storeID)
}
func (s *campaignRepoStub) Update(ctx context.Context, storeID, id string, fields map[string]interface{}) error {
	return s.updateFn(ctx, storeID, id, fields)
}
func (s *campaignRepoStub) Delete(ctx context.Context, storeID, id string) error {
	return s.deleteFn(ctx, storeID, id)
}

func noopCampaignRepo() *campaignRepoStub {
	return &campaignRepoStub{
		createFn: func(_ context.Context, c *models.EmailCampaign) error {
			c.ID = "campaign-1"
			return nil
		},
		getByIDFn: func(_ context.Context, _, id string) (*models.EmailCampaign, error) {
			return &models.EmailCampaign{ID: id}, nil
		},
		listFn:   func(_ context.Context, _ string) ([]models.EmailCampaign, error) { return nil, nil },
		updateFn: func(_ context.Context, _, _ string, _ map[string]interface{}) error { return nil },
		deleteFn: func(_ context.Context, _, _ string) error { return nil },
	}
}

func newMarketingService(coupons *couponRepoStub, subs *subscriberRepoStub) *MarketingService {
	return NewMarketingService(subs, noopCampaignRepo(), coupons, nil)
}

func TestCreateCoupon_CanonicalizesCode(t *testing.T) {
	coupons := noopCouponRepo()
	var created *models.Coupon
	coupons.createUniqueFn = func(_ context.Context, cp *models.Coupon) error {
		created = cp
		return nil
	}
	svc := newMarketingService(coupons, noopSubscriberRepo())

	_, err := svc.CreateCoupon(context.Background(), &models.Coupon{
		StoreID:   "store-1",
		Code:      "  summer-10  ",
		Type:      models.CouponTypePercentage,
		Value:     10,
		StartDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER-10", created.Code)
	assert.Equal(t, models.CouponStatusActive, created.Status)
}

func TestCreateCoupon_ZeroesUsedCount(t *testing.T) {
	coupons := noopCouponRepo()
	var created *models.Coupon
	coupons.createUniqueFn = func(_ context.Context, cp *models.Coupon) error {
		created = cp
		return nil
	}
	svc := newMarketingService(coupons, noopSubscriberRepo())

	_, err := svc.CreateCoupon(context.Background(), &models.Coupon{
		StoreID:   "store-1",
		Code:      "WELCOME",
		Type:      models.CouponTypeFixed,
		Value:     5,
		UsedCount: 99,
		StartDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Zero(t, created.UsedCount)
}

func TestCreateCoupon_Validation(t *testing.T) {
	svc := newMarketingService(noopCouponRepo(), noopSubscriberRepo())

	tests := []struct {
		name   string
		coupon models.Coupon
	}{
		{"Bad Code", models.Coupon{Code: "x", Type: models.CouponTypeFixed, Value: 5, StartDate: time.Now()}},
		{"Bad Type", models.Coupon{Code: "CODE10", Type: "bogo", Value: 5, StartDate: time.Now()}},
		{"Percentage Over 100", models.Coupon{Code: "CODE10", Type: models.CouponTypePercentage, Value: 150, StartDate: time.Now()}},
		{"Negative Fixed", models.Coupon{Code: "CODE10", Type: models.CouponTypeFixed, Value: -1, StartDate: time.Now()}},
		{"Missing Start", models.Coupon{Code: "CODE10", Type: models.CouponTypeFixed, Value: 5}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCoupon(context.Background(), &tt.coupon)
			require.Error(t, err)
			appErr, ok := err.(*models.AppError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestCreateCoupon_EndBeforeStart(t *testing.T) {
	svc := newMarketingService(noopCouponRepo(), noopSubscriberRepo())

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := svc.CreateCoupon(context.Background(), &models.Coupon{
		Code: "CODE10", Type: models.CouponTypeFixed, Value: 5,
		StartDate: start, EndDate: &end,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after start date")
}

func TestCreateCoupon_PropagatesCodeTaken(t *testing.T) {
	coupons := noopCouponRepo()
	coupons.createUniqueFn = func(_ context.Context, _ *models.Coupon) error {
		return repository.ErrCouponCodeTaken
	}
	svc := newMarketingService(coupons, noopSubscriberRepo())

	_, err := svc.CreateCoupon(context.Background(), &models.Coupon{
		Code: "TAKEN", Type: models.CouponTypeFixed, Value: 5, StartDate: time.Now(),
	})
	assert.Equal(t, repository.ErrCouponCodeTaken, err)
}

func TestUpdateCoupon_RecanonicalizesCode(t *testing.T) {
	coupons := noopCouponRepo()
	var gotFields map[string]interface{}
	coupons.updateUniqueFn = func(_ context.Context, _, _ string, fields map[string]interface{}) error {
		gotFields = fields
		return nil
	}
	svc := newMarketingService(coupons, noopSubscriberRepo())

	_, err := svc.UpdateCoupon(context.Background(), "store-1", "coupon-1", map[string]interface{}{
		"code": " winter-20 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "WINTER-20", gotFields["code"])
}

func TestUpdateCoupon_RejectsInvalidType(t *testing.T) {
	svc := newMarketingService(noopCouponRepo(), noopSubscriberRepo())

	_, err := svc.UpdateCoupon(context.Background(), "store-1", "coupon-1", map[string]interface{}{
		"type": "bogo",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid coupon type")
}

func TestAddSubscriber_RejectsActiveDuplicate(t *testing.T) {
	subs := noopSubscriberRepo()
	subs.getByEmailFn = func(_ context.Context, _, _ string) (*models.Subscriber, error) {
		return &models.Subscriber{ID: "sub-1", Status: models.SubscriberStatusActive}, nil
	}
	svc := newMarketingService(noopCouponRepo(), subs)

	_, err := svc.AddSubscriber(context.Background(), "store-1", "shopper@example.com", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already subscribed")
}

func TestAddSubscriber_ResubscribesOptedOut(t *testing.T) {
	subs := noopSubscriberRepo()
	subs.getByEmailFn = func(_ context.Context, _, _ string) (*models.Subscriber, error) {
		return &models.Subscriber{ID: "sub-1", Status: models.SubscriberStatusUnsubscribed}, nil
	}
	resubscribed := false
	subs.resubscribeFn = func(_ context.Context, _, id string) (*models.Subscriber, error) {
		resubscribed = true
		return &models.Subscriber{ID: id, Status: models.SubscriberStatusActive}, nil
	}
	svc := newMarketingService(noopCouponRepo(), subs)

	sub, err := svc.AddSubscriber(context.Background(), "store-1", "shopper@example.com", "", nil)
	require.NoError(t, err)
	assert.True(t, resubscribed)
	assert.Equal(t, models.SubscriberStatusActive, sub.Status)
}

func TestAddSubscriber_RejectsInvalidEmail(t *testing.T) {
	svc := newMarketingService(noopCouponRepo(), noopSubscriberRepo())

	_, err := svc.AddSubscriber(context.Background(), "store-1", "not-an-email", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email")
}

func TestCreateCampaign_RequiresName(t *testing.T) {
	svc := newMarketingService(noopCouponRepo(), noopSubscriberRepo())

	_, err := svc.CreateCampaign(context.Background(), &models.EmailCampaign{StoreID: "store-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	campaign, err := svc.CreateCampaign(context.Background(), &models.EmailCampaign{
		StoreID: "store-1", Name: "Spring Launch",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusDraft, campaign.Status)
}
