package seed

import (
	"fmt"
	"log"

	"vendora/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumMerchants     int
	StoresPerOwner   int
	ProductsPerStore int
	ShouldClean      bool
}

// DefaultOptions returns the counts used by the dev seeding command.
func DefaultOptions() Options {
	return Options{
		NumMerchants:     5,
		StoresPerOwner:   1,
		ProductsPerStore: 12,
	}
}

// Seed populates the database with a realistic development dataset: merchants
// with stores, cross-store team memberships, products, coupons, and marketing
// data. It is not idempotent; use ShouldClean to reset first.
func Seed(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
	}
	if opts.NumMerchants <= 0 {
		opts.NumMerchants = 5
	}
	if opts.StoresPerOwner <= 0 {
		opts.StoresPerOwner = 1
	}
	if opts.ProductsPerStore <= 0 {
		opts.ProductsPerStore = 12
	}

	factory := NewFactory(db)

	owners := make([]*models.User, 0, opts.NumMerchants)
	for i := 0; i < opts.NumMerchants; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return err
		}
		owners = append(owners, user)
	}

	var stores []*models.Store
	for _, owner := range owners {
		for i := 0; i < opts.StoresPerOwner; i++ {
			store, err := factory.CreateStore(owner)
			if err != nil {
				return err
			}
			stores = append(stores, store)
		}
	}

	// Each owner also works on the next owner's store, alternating roles, so
	// the permission matrix has data in every cell.
	for i, store := range stores {
		member := owners[(i+1)%len(owners)]
		if member.ID == store.OwnerID {
			continue
		}
		role := models.RoleEditor
		if i%2 == 1 {
			role = models.RoleViewer
		}
		if _, err := factory.CreateMembership(store, member, role); err != nil {
			return err
		}
	}

	for _, store := range stores {
		if err := populateStore(factory, store, opts.ProductsPerStore); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d users and %d stores", len(owners), len(stores))
	return nil
}

func populateStore(factory *Factory, store *models.Store, productCount int) error {
	for i := 0; i < productCount; i++ {
		if _, err := factory.CreateProduct(store); err != nil {
			return err
		}
	}
	for i := 0; i < 3; i++ {
		if _, err := factory.CreateCoupon(store); err != nil {
			return err
		}
	}
	for i := 0; i < 20; i++ {
		if _, err := factory.CreateSubscriber(store); err != nil {
			return err
		}
	}
	if _, err := factory.CreateCampaign(store); err != nil {
		return err
	}
	if _, err := factory.CreateWidget(store, models.WidgetTypeAnnouncement); err != nil {
		return err
	}
	if _, err := factory.CreateTrackingIntegration(store, models.TrackingProviderGoogleAnalytics); err != nil {
		return err
	}
	if _, err := factory.CreateStoreSeo(store); err != nil {
		return err
	}
	return nil
}

// clearData truncates every domain table. Child tables go first so foreign
// keys never dangle mid-way.
func clearData(db *gorm.DB) error {
	tables := []interface{}{
		&models.CouponUsage{},
		&models.Coupon{},
		&models.ProductSeoSettings{},
		&models.Product{},
		&models.EmailCampaign{},
		&models.Subscriber{},
		&models.Widget{},
		&models.TrackingIntegration{},
		&models.StoreSeoSettings{},
		&models.TeamInvitation{},
		&models.TeamMembership{},
		&models.Store{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
