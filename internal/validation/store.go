package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{2,63}$`)

// ValidateCouponCode validates a canonicalized coupon code. Codes are
// upper-cased and trimmed before storage, so validation runs on the
// canonical form.
func ValidateCouponCode(code string) error {
	if !couponCodeRegex.MatchString(code) {
		return fmt.Errorf("coupon code must be 3-64 characters and contain only uppercase letters, numbers, hyphens, and underscores")
	}
	return nil
}

var productSlugRegex = regexp.MustCompile(`^[a-z0-9-]{3,64}$`)

var reservedSlugs = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"auth":     {},
	"public":   {},
	"stores":   {},
	"products": {},
	"coupons":  {},
	"team":     {},
	"seo":      {},
	"sitemap":  {},
	"swagger":  {},
	"metrics":  {},
	"login":    {},
	"signup":   {},
}

// ValidateSlug validates a storefront slug's format and reserved names.
func ValidateSlug(slug string) error {
	if !productSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-64 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}
