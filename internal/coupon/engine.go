// Package coupon validates discount codes against a cart context and records
// redemptions under the usage-limit and one-time-use invariants.
package coupon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vendora/internal/models"
	"vendora/internal/observability"
)

// Gate failure messages, in gate order. These are returned verbatim to API
// clients; do not reword them.
const (
	MsgCouponNotFound      = "Coupon not found"
	MsgCouponNotActive     = "Coupon is not active"
	MsgCouponNotYetValid   = "Coupon is not valid yet"
	MsgCouponExpired       = "Coupon has expired"
	MsgUsageLimitReached   = "Coupon usage limit has been reached"
	MsgInvalidCustomer     = "Invalid customer"
	MsgCustomerNotEligible = "Coupon not available for this customer"
	MsgAlreadyUsed         = "Coupon has already been used by this customer"
	MsgProductsNotCovered  = "Coupon is not valid for these products"
	MsgProductsExcluded    = "Coupon is not valid for some products in your cart"
	MsgValidationFailed    = "Error validating coupon"
)

// ValidationResult is the outcome of a coupon check. Gate failures are
// values carried in Error, never Go errors.
type ValidationResult struct {
	Valid          bool           `json:"valid"`
	Coupon         *models.Coupon `json:"coupon,omitempty"`
	DiscountAmount float64        `json:"discount_amount"`
	Error          string         `json:"error,omitempty"`
}

// CustomerLookup resolves a customer's account for email-restricted coupons.
type CustomerLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Engine validates coupons and records redemptions. Validation is a pure
// read; RecordUsage is the single enforcement point for usageLimit and
// oneTimeUse under concurrent checkouts.
type Engine struct {
	db        *gorm.DB
	customers CustomerLookup
	logger    *slog.Logger
	now       func() time.Time
}

// NewEngine returns an Engine backed by the given database and lookups.
func NewEngine(db *gorm.DB, customers CustomerLookup, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{db: db, customers: customers, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// getByCode fetches the coupon for a canonicalized code. When a retired
// coupon shares a code with an active one, the active row wins.
func (e *Engine) getByCode(ctx context.Context, storeID, code string) (*models.Coupon, error) {
	var cp models.Coupon
	err := e.db.WithContext(ctx).
		Where("store_id = ? AND code = ?", storeID, models.CanonicalCouponCode(code)).
		Order("CASE WHEN status = 'active' THEN 0 ELSE 1 END").
		First(&cp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cp, nil
}

// Validate runs the gate sequence against a cart context and, when every
// gate passes, computes the discount. Gates short-circuit in a fixed order
// so error messages are deterministic.
func (e *Engine) Validate(ctx context.Context, storeID, code, customerID string, cartTotal float64, productIDs []string) ValidationResult {
	result := e.validate(ctx, storeID, code, customerID, cartTotal, productIDs)
	observability.CouponValidations.WithLabelValues(validationOutcome(result)).Inc()
	return result
}

func (e *Engine) validate(ctx context.Context, storeID, code, customerID string, cartTotal float64, productIDs []string) ValidationResult {
	cp, err := e.getByCode(ctx, storeID, code)
	if err != nil {
		e.logger.ErrorContext(ctx, "coupon lookup failed",
			"store_id", storeID, "code", code, "error", err)
		return ValidationResult{Error: MsgValidationFailed}
	}
	if cp == nil {
		return ValidationResult{Error: MsgCouponNotFound}
	}

	now := e.now()

	if cp.Status != models.CouponStatusActive {
		return ValidationResult{Error: MsgCouponNotActive}
	}
	if now.Before(cp.StartDate) {
		return ValidationResult{Error: MsgCouponNotYetValid}
	}
	if cp.EndDate != nil && now.After(*cp.EndDate) {
		return ValidationResult{Error: MsgCouponExpired}
	}
	if cp.UsageLimit != nil && cp.UsedCount >= *cp.UsageLimit {
		return ValidationResult{Error: MsgUsageLimitReached}
	}
	if cp.MinPurchase != nil && cartTotal < *cp.MinPurchase {
		return ValidationResult{Error: fmt.Sprintf("Minimum purchase amount of $%.2f required", *cp.MinPurchase)}
	}

	if len(cp.CustomerEmails) > 0 {
		customer, err := e.customers.GetByID(ctx, customerID)
		if err != nil || customer == nil {
			var appErr *models.AppError
			if err != nil && (!errors.As(err, &appErr) || appErr.Code != "NOT_FOUND") {
				e.logger.ErrorContext(ctx, "customer lookup failed",
					"customer_id", customerID, "error", err)
				return ValidationResult{Error: MsgValidationFailed}
			}
			return ValidationResult{Error: MsgInvalidCustomer}
		}
		if !emailListed(cp.CustomerEmails, customer.Email) {
			return ValidationResult{Error: MsgCustomerNotEligible}
		}
	}

	if cp.OneTimeUse {
		var count int64
		err := e.db.WithContext(ctx).Model(&models.CouponUsage{}).
			Where("coupon_id = ? AND customer_id = ?", cp.ID, customerID).
			Count(&count).Error
		if err != nil {
			e.logger.ErrorContext(ctx, "coupon usage lookup failed",
				"coupon_id", cp.ID, "customer_id", customerID, "error", err)
			return ValidationResult{Error: MsgValidationFailed}
		}
		if count > 0 {
			return ValidationResult{Error: MsgAlreadyUsed}
		}
	}

	if len(cp.Products) > 0 && len(productIDs) > 0 && !cp.Products.ContainsAny(productIDs) {
		return ValidationResult{Error: MsgProductsNotCovered}
	}
	if len(cp.ExcludedProducts) > 0 && len(productIDs) > 0 && cp.ExcludedProducts.ContainsAny(productIDs) {
		return ValidationResult{Error: MsgProductsExcluded}
	}

	return ValidationResult{
		Valid:          true,
		Coupon:         cp,
		DiscountAmount: discountFor(cp, cartTotal),
	}
}

// discountFor computes the discount for a coupon that passed every gate.
// Free-shipping coupons report 0; the caller waives shipping separately.
func discountFor(cp *models.Coupon, cartTotal float64) float64 {
	var discount float64
	switch cp.Type {
	case models.CouponTypePercentage:
		discount = cartTotal * cp.Value / 100
		if cp.MaxDiscount != nil && discount > *cp.MaxDiscount {
			discount = *cp.MaxDiscount
		}
	case models.CouponTypeFixed:
		discount = math.Min(cp.Value, cartTotal)
	case models.CouponTypeFreeShipping:
		discount = 0
	}
	return math.Round(discount*100) / 100
}

// RecordUsage appends a CouponUsage row and increments the coupon's
// usedCount in one transaction. The limit and one-time-use checks run again
// inside the transaction: validation alone cannot stop two concurrent
// checkouts from both consuming the last remaining use.
func (e *Engine) RecordUsage(ctx context.Context, storeID string, usage *models.CouponUsage) error {
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var cp models.Coupon
		if err := q.Where("store_id = ? AND id = ?", storeID, usage.CouponID).First(&cp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Coupon", usage.CouponID)
			}
			return err
		}

		if cp.UsageLimit != nil && cp.UsedCount >= *cp.UsageLimit {
			return models.NewValidationError(MsgUsageLimitReached)
		}
		if cp.OneTimeUse {
			var count int64
			if err := tx.Model(&models.CouponUsage{}).
				Where("coupon_id = ? AND customer_id = ?", cp.ID, usage.CustomerID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return models.NewValidationError(MsgAlreadyUsed)
			}
		}

		usage.StoreID = storeID
		usage.CouponCode = cp.Code
		if err := tx.Create(usage).Error; err != nil {
			return err
		}

		// Conditional increment guards the limit even where row locks are
		// unavailable (sqlite in tests).
		res := tx.Model(&models.Coupon{}).
			Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", cp.ID).
			UpdateColumn("used_count", gorm.Expr("used_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewValidationError(MsgUsageLimitReached)
		}
		return nil
	})
	if err == nil {
		observability.CouponRedemptions.WithLabelValues("recorded").Inc()
	} else {
		observability.CouponRedemptions.WithLabelValues("rejected").Inc()
	}
	return err
}

func validationOutcome(r ValidationResult) string {
	if r.Valid {
		return "valid"
	}
	if r.Error == MsgValidationFailed {
		return "error"
	}
	return "rejected"
}

func emailListed(list models.StringList, email string) bool {
	for _, candidate := range list {
		if strings.EqualFold(candidate, email) {
			return true
		}
	}
	return false
}
