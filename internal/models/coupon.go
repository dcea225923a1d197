package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// CouponType defines how a coupon's value is applied to a cart.
type CouponType string

const (
	// CouponTypePercentage discounts a percentage (0-100) of the cart total.
	CouponTypePercentage CouponType = "percentage"
	// CouponTypeFixed discounts a fixed currency amount.
	CouponTypeFixed CouponType = "fixed"
	// CouponTypeFreeShipping waives shipping; the discount amount itself is zero.
	CouponTypeFreeShipping CouponType = "free_shipping"
)

// Valid reports whether t is one of the closed set of coupon types.
func (t CouponType) Valid() bool {
	switch t {
	case CouponTypePercentage, CouponTypeFixed, CouponTypeFreeShipping:
		return true
	}
	return false
}

// CouponStatus defines the lifecycle state of a coupon.
type CouponStatus string

const (
	// CouponStatusActive indicates the coupon is redeemable.
	CouponStatusActive CouponStatus = "active"
	// CouponStatusExpired indicates the coupon was retired by date.
	CouponStatusExpired CouponStatus = "expired"
	// CouponStatusDisabled indicates the coupon was turned off manually.
	CouponStatusDisabled CouponStatus = "disabled"
)

// Coupon represents a discount code scoped to a store. Codes are stored
// uppercase and compared case-insensitively; uniqueness is enforced among
// active coupons of the same store.
type Coupon struct {
	ID               string       `gorm:"primaryKey;size:36" json:"id"`
	StoreID          string       `gorm:"size:36;not null;index:idx_coupons_store_code" json:"store_id"`
	Code             string       `gorm:"size:64;not null;index:idx_coupons_store_code" json:"code"`
	Type             CouponType   `gorm:"type:varchar(20);not null" json:"type"`
	Value            float64      `gorm:"not null" json:"value"`
	MinPurchase      *float64     `json:"min_purchase,omitempty"`
	MaxDiscount      *float64     `json:"max_discount,omitempty"`
	StartDate        time.Time    `gorm:"not null" json:"start_date"`
	EndDate          *time.Time   `json:"end_date,omitempty"`
	UsageLimit       *int64       `json:"usage_limit,omitempty"`
	UsedCount        int64        `gorm:"not null;default:0" json:"used_count"`
	Products         StringList   `gorm:"type:text" json:"products,omitempty"`
	ExcludedProducts StringList   `gorm:"type:text" json:"excluded_products,omitempty"`
	CustomerEmails   StringList   `gorm:"type:text" json:"customer_emails,omitempty"`
	OneTimeUse       bool         `gorm:"not null;default:false" json:"one_time_use"`
	Status           CouponStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedBy        string       `gorm:"size:36" json:"created_by"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// BeforeCreate assigns an ID and canonicalizes the code.
func (cp *Coupon) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &cp.ID)
	cp.Code = CanonicalCouponCode(cp.Code)
	return nil
}

// CanonicalCouponCode normalizes a coupon code for storage and comparison.
func CanonicalCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponUsage is an append-only record of a single redemption. The existence
// of a (coupon, customer) pair is the mechanism enforcing one-time use.
type CouponUsage struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	StoreID        string    `gorm:"size:36;not null;index" json:"store_id"`
	CouponID       string    `gorm:"size:36;not null;index:idx_usages_coupon_customer" json:"coupon_id"`
	CouponCode     string    `gorm:"size:64;not null" json:"coupon_code"`
	OrderID        string    `gorm:"size:36;not null" json:"order_id"`
	CustomerID     string    `gorm:"size:36;not null;index:idx_usages_coupon_customer" json:"customer_id"`
	UsedAt         time.Time `json:"used_at"`
	DiscountAmount float64   `gorm:"not null" json:"discount_amount"`
	OrderTotal     float64   `gorm:"not null" json:"order_total"`
}

// BeforeCreate assigns an ID and stamps the redemption time.
func (u *CouponUsage) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &u.ID)
	if u.UsedAt.IsZero() {
		u.UsedAt = time.Now().UTC()
	}
	return nil
}
