package models

import (
	"time"

	"gorm.io/gorm"
)

// StoreSeoSettings holds store-level metadata for search engines and social
// previews. One row per store; updates merge into the existing row.
type StoreSeoSettings struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	StoreID         string     `gorm:"size:36;not null;uniqueIndex" json:"store_id"`
	MetaTitle       string     `gorm:"size:255" json:"meta_title"`
	MetaDescription string     `gorm:"size:500" json:"meta_description"`
	Keywords        StringList `gorm:"type:text" json:"keywords,omitempty"`
	OgImageURL      string     `json:"og_image_url"`
	CanonicalDomain string     `gorm:"size:255" json:"canonical_domain"`
	RobotsDirective string     `gorm:"size:64;default:'index,follow'" json:"robots_directive"`
	SitemapEnabled  bool       `gorm:"not null;default:true" json:"sitemap_enabled"`
	UpdatedBy       string     `gorm:"size:36" json:"updated_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BeforeCreate assigns an opaque ID when none was provided.
func (s *StoreSeoSettings) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &s.ID)
	return nil
}

// ProductSeoSettings overrides search metadata for a single product.
type ProductSeoSettings struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	StoreID         string     `gorm:"size:36;not null;index" json:"store_id"`
	ProductID       string     `gorm:"size:36;not null;uniqueIndex" json:"product_id"`
	MetaTitle       string     `gorm:"size:255" json:"meta_title"`
	MetaDescription string     `gorm:"size:500" json:"meta_description"`
	Keywords        StringList `gorm:"type:text" json:"keywords,omitempty"`
	OgImageURL      string     `json:"og_image_url"`
	NoIndex         bool       `gorm:"not null;default:false" json:"no_index"`
	UpdatedBy       string     `gorm:"size:36" json:"updated_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BeforeCreate assigns an opaque ID when none was provided.
func (p *ProductSeoSettings) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &p.ID)
	return nil
}
