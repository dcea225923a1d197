// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"vendora/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// backdate returns a timestamp up to maxDays in the past so listings don't
// all carry the same created_at.
func (f *Factory) backdate(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	return time.Now().UTC().
		Add(-time.Duration(f.rand.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(f.rand.Intn(24)) * time.Hour).
		Add(-time.Duration(f.rand.Intn(60)) * time.Minute)
}

// CreateUser constructs and persists a sample user. The password for all
// seeded users is "password" unless overridden.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.Name(),
		Password:    string(hashed),
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		CreatedAt:   f.backdate(365),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// CreateStore constructs and persists a store owned by the given user.
func (f *Factory) CreateStore(owner *models.User, overrides ...func(*models.Store)) (*models.Store, error) {
	store := &models.Store{
		Name:         gofakeit.Company(),
		Description:  gofakeit.Sentence(12),
		OwnerID:      owner.ID,
		ContactEmail: owner.Email,
		Currency:     "USD",
		LogoURL:      fmt.Sprintf("https://picsum.photos/seed/%s/256/256", gofakeit.UUID()),
		Status:       models.StoreStatusActive,
		CreatedAt:    f.backdate(180),
	}
	for _, override := range overrides {
		override(store)
	}
	if err := f.db.Create(store).Error; err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return store, nil
}

// CreateMembership joins a user to a store's team with the given role.
func (f *Factory) CreateMembership(store *models.Store, user *models.User, role models.Role) (*models.TeamMembership, error) {
	joined := f.backdate(60)
	membership := &models.TeamMembership{
		StoreID:   store.ID,
		UserID:    user.ID,
		Role:      role,
		InvitedBy: store.OwnerID,
		InvitedAt: joined.Add(-48 * time.Hour),
		JoinedAt:  joined,
	}
	if err := f.db.Create(membership).Error; err != nil {
		return nil, fmt.Errorf("create membership: %w", err)
	}
	return membership, nil
}

// CreateProduct constructs and persists a product in the given store.
func (f *Factory) CreateProduct(store *models.Store, overrides ...func(*models.Product)) (*models.Product, error) {
	name := gofakeit.ProductName()
	product := &models.Product{
		StoreID:     store.ID,
		Name:        name,
		Slug:        slugify(name),
		Description: gofakeit.ProductDescription(),
		Price:       round2(gofakeit.Price(4, 400)),
		SKU:         strings.ToUpper(gofakeit.LetterN(3)) + "-" + gofakeit.DigitN(5),
		Stock:       f.rand.Intn(250),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		Tags:        models.StringList{gofakeit.ProductCategory()},
		Status:      models.ProductStatusActive,
		CreatedBy:   store.OwnerID,
		CreatedAt:   f.backdate(120),
	}
	for _, override := range overrides {
		override(product)
	}
	if err := f.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// CreateCoupon constructs and persists an active coupon for the store.
func (f *Factory) CreateCoupon(store *models.Store, overrides ...func(*models.Coupon)) (*models.Coupon, error) {
	value := float64(5 * (1 + f.rand.Intn(6)))
	coupon := &models.Coupon{
		StoreID:   store.ID,
		Code:      strings.ToUpper(gofakeit.LetterN(6)) + gofakeit.DigitN(2),
		Type:      models.CouponTypePercentage,
		Value:     value,
		StartDate: time.Now().UTC().Add(-24 * time.Hour),
		Status:    models.CouponStatusActive,
		CreatedBy: store.OwnerID,
		CreatedAt: f.backdate(30),
	}
	for _, override := range overrides {
		override(coupon)
	}
	if err := f.db.Create(coupon).Error; err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return coupon, nil
}

// CreateSubscriber constructs and persists a newsletter subscriber.
func (f *Factory) CreateSubscriber(store *models.Store, overrides ...func(*models.Subscriber)) (*models.Subscriber, error) {
	sub := &models.Subscriber{
		StoreID:      store.ID,
		Email:        gofakeit.Email(),
		Name:         gofakeit.Name(),
		Tags:         models.StringList{"newsletter"},
		Status:       models.SubscriberStatusActive,
		SubscribedAt: f.backdate(200),
	}
	for _, override := range overrides {
		override(sub)
	}
	if err := f.db.Create(sub).Error; err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	return sub, nil
}

// CreateCampaign constructs and persists a draft email campaign.
func (f *Factory) CreateCampaign(store *models.Store, overrides ...func(*models.EmailCampaign)) (*models.EmailCampaign, error) {
	campaign := &models.EmailCampaign{
		StoreID:     store.ID,
		Name:        gofakeit.Slogan(),
		Subject:     gofakeit.Sentence(6),
		Body:        gofakeit.Paragraph(2, 4, 8, "\n\n"),
		SegmentTags: models.StringList{"newsletter"},
		Status:      models.CampaignStatusDraft,
		CreatedBy:   store.OwnerID,
		CreatedAt:   f.backdate(45),
	}
	for _, override := range overrides {
		override(campaign)
	}
	if err := f.db.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return campaign, nil
}

// CreateWidget constructs and persists an enabled storefront widget.
func (f *Factory) CreateWidget(store *models.Store, widgetType models.WidgetType, overrides ...func(*models.Widget)) (*models.Widget, error) {
	widget := &models.Widget{
		StoreID:   store.ID,
		Type:      widgetType,
		Name:      string(widgetType),
		Config:    `{"theme":"light"}`,
		Enabled:   true,
		CreatedBy: store.OwnerID,
	}
	for _, override := range overrides {
		override(widget)
	}
	if err := f.db.Create(widget).Error; err != nil {
		return nil, fmt.Errorf("create widget: %w", err)
	}
	return widget, nil
}

// CreateTrackingIntegration persists a tracking id for the provider.
func (f *Factory) CreateTrackingIntegration(store *models.Store, provider models.TrackingProvider) (*models.TrackingIntegration, error) {
	integration := &models.TrackingIntegration{
		StoreID:    store.ID,
		Provider:   provider,
		TrackingID: "UA-" + gofakeit.DigitN(8),
		Enabled:    true,
		CreatedBy:  store.OwnerID,
	}
	if err := f.db.Create(integration).Error; err != nil {
		return nil, fmt.Errorf("create tracking integration: %w", err)
	}
	return integration, nil
}

// CreateStoreSeo persists store-level search metadata.
func (f *Factory) CreateStoreSeo(store *models.Store) (*models.StoreSeoSettings, error) {
	settings := &models.StoreSeoSettings{
		StoreID:         store.ID,
		MetaTitle:       store.Name,
		MetaDescription: gofakeit.Sentence(14),
		Keywords:        models.StringList{gofakeit.ProductCategory(), gofakeit.ProductCategory()},
		RobotsDirective: "index,follow",
		SitemapEnabled:  true,
		UpdatedBy:       store.OwnerID,
	}
	if err := f.db.Create(settings).Error; err != nil {
		return nil, fmt.Errorf("create store seo settings: %w", err)
	}
	return settings, nil
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
