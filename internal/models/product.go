package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductStatus defines the visibility state of a product.
type ProductStatus string

const (
	// ProductStatusDraft indicates a product not yet published.
	ProductStatusDraft ProductStatus = "draft"
	// ProductStatusActive indicates a product visible on the storefront.
	ProductStatusActive ProductStatus = "active"
	// ProductStatusArchived indicates a product removed from sale.
	ProductStatusArchived ProductStatus = "archived"
)

// Product is a sellable item belonging to a single store.
type Product struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	StoreID     string        `gorm:"size:36;not null;index" json:"store_id"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Slug        string        `gorm:"size:255;index" json:"slug"`
	Description string        `gorm:"type:text" json:"description"`
	Price       float64       `gorm:"not null" json:"price"`
	SKU         string        `gorm:"size:64" json:"sku"`
	Stock       int           `gorm:"not null;default:0" json:"stock"`
	ImageURL    string        `json:"image_url"`
	Tags        StringList    `gorm:"type:text" json:"tags,omitempty"`
	Status      ProductStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	CreatedBy   string        `gorm:"size:36" json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// BeforeCreate assigns an opaque ID when none was provided.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &p.ID)
	return nil
}
