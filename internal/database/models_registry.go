package database

import "vendora/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Store{},
		&models.TeamMembership{},
		&models.TeamInvitation{},
		&models.Product{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.Subscriber{},
		&models.EmailCampaign{},
		&models.StoreSeoSettings{},
		&models.ProductSeoSettings{},
		&models.Widget{},
		&models.TrackingIntegration{},
	}
}
