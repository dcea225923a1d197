package models

import (
	"time"

	"gorm.io/gorm"
)

// WidgetType defines the kind of embeddable storefront widget.
type WidgetType string

const (
	WidgetTypeInstagramFeed  WidgetType = "instagram_feed"
	WidgetTypeReviewCarousel WidgetType = "review_carousel"
	WidgetTypeChatBubble     WidgetType = "chat_bubble"
	WidgetTypeAnnouncement   WidgetType = "announcement_bar"
)

// Widget is an embeddable third-party block configured per store.
type Widget struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	StoreID   string     `gorm:"size:36;not null;index" json:"store_id"`
	Type      WidgetType `gorm:"type:varchar(30);not null" json:"type"`
	Name      string     `gorm:"size:120" json:"name"`
	Config    string     `gorm:"type:text" json:"config"`
	Enabled   bool       `gorm:"not null;default:true" json:"enabled"`
	Position  int        `gorm:"not null;default:0" json:"position"`
	CreatedBy string     `gorm:"size:36" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate assigns an opaque ID when none was provided.
func (w *Widget) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &w.ID)
	return nil
}

// TrackingProvider identifies an analytics or pixel provider.
type TrackingProvider string

const (
	TrackingProviderGoogleAnalytics TrackingProvider = "google_analytics"
	TrackingProviderMetaPixel       TrackingProvider = "meta_pixel"
	TrackingProviderTikTokPixel     TrackingProvider = "tiktok_pixel"
	TrackingProviderHotjar          TrackingProvider = "hotjar"
)

// TrackingIntegration stores a provider tracking id for a store. One row per
// (store, provider) pair.
type TrackingIntegration struct {
	ID         string           `gorm:"primaryKey;size:36" json:"id"`
	StoreID    string           `gorm:"size:36;not null;index:idx_tracking_store_provider" json:"store_id"`
	Provider   TrackingProvider `gorm:"type:varchar(30);not null;index:idx_tracking_store_provider" json:"provider"`
	TrackingID string           `gorm:"size:120;not null" json:"tracking_id"`
	Enabled    bool             `gorm:"not null;default:true" json:"enabled"`
	CreatedBy  string           `gorm:"size:36" json:"created_by"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// BeforeCreate assigns an opaque ID when none was provided.
func (t *TrackingIntegration) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &t.ID)
	return nil
}
