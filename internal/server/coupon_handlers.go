package server

import (
	"vendora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCoupon handles POST /api/stores/:storeId/coupons
// @Summary Create coupon
// @Description Codes are canonicalized to uppercase; uniqueness is enforced among active coupons
// @Tags coupons
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param request body models.Coupon true "Coupon"
// @Success 201 {object} models.Coupon
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/coupons [post]
func (s *Server) CreateCoupon(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	var coupon models.Coupon
	if err := c.BodyParser(&coupon); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	coupon.StoreID = storeID
	coupon.CreatedBy = currentUserID(c)

	created, err := s.marketingService.CreateCoupon(c.Context(), &coupon)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetCoupons handles GET /api/stores/:storeId/coupons
// @Summary List coupons
// @Tags coupons
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {array} models.Coupon
// @Router /stores/{storeId}/coupons [get]
func (s *Server) GetCoupons(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	coupons, err := s.marketingService.ListCoupons(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(coupons)
}

// GetCoupon handles GET /api/stores/:storeId/coupons/:couponId
// @Summary Get coupon
// @Tags coupons
// @Produce json
// @Param storeId path string true "Store ID"
// @Param couponId path string true "Coupon ID"
// @Success 200 {object} models.Coupon
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/coupons/{couponId} [get]
func (s *Server) GetCoupon(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	couponID, err := s.parseID(c, "couponId")
	if err != nil {
		return nil
	}

	coupon, err := s.marketingService.GetCoupon(c.Context(), storeID, couponID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(coupon)
}

// UpdateCoupon handles PUT /api/stores/:storeId/coupons/:couponId
// @Summary Update coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param couponId path string true "Coupon ID"
// @Success 200 {object} models.Coupon
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/coupons/{couponId} [put]
func (s *Server) UpdateCoupon(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	couponID, err := s.parseID(c, "couponId")
	if err != nil {
		return nil
	}
	fields, err := parseFields(c)
	if err != nil {
		return nil
	}
	// Redemption counters are owned by the engine.
	delete(fields, "used_count")

	coupon, err := s.marketingService.UpdateCoupon(c.Context(), storeID, couponID, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(coupon)
}

// DeleteCoupon handles DELETE /api/stores/:storeId/coupons/:couponId
// @Summary Delete coupon
// @Tags coupons
// @Param storeId path string true "Store ID"
// @Param couponId path string true "Coupon ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/coupons/{couponId} [delete]
func (s *Server) DeleteCoupon(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	couponID, err := s.parseID(c, "couponId")
	if err != nil {
		return nil
	}

	if err := s.marketingService.DeleteCoupon(c.Context(), storeID, couponID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetCouponUsages handles GET /api/stores/:storeId/coupons/:couponId/usages
// @Summary List coupon redemptions
// @Tags coupons
// @Produce json
// @Param storeId path string true "Store ID"
// @Param couponId path string true "Coupon ID"
// @Success 200 {array} models.CouponUsage
// @Router /stores/{storeId}/coupons/{couponId}/usages [get]
func (s *Server) GetCouponUsages(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	couponID, err := s.parseID(c, "couponId")
	if err != nil {
		return nil
	}

	usages, err := s.marketingService.ListCouponUsages(c.Context(), storeID, couponID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(usages)
}

// couponCheckRequest is the cart context for validation and redemption.
type couponCheckRequest struct {
	Code       string   `json:"code"`
	CustomerID string   `json:"customer_id"`
	CartTotal  float64  `json:"cart_total"`
	ProductIDs []string `json:"product_ids"`
	OrderID    string   `json:"order_id"`
}

// ValidateCoupon handles POST /api/stores/:storeId/coupons/validate
// @Summary Validate coupon
// @Description Runs the gate sequence against the cart; gate failures are values, not HTTP errors
// @Tags coupons
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param request body couponCheckRequest true "Cart context"
// @Success 200 {object} coupon.ValidationResult
// @Router /stores/{storeId}/coupons/validate [post]
func (s *Server) ValidateCoupon(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	var req couponCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	customerID := req.CustomerID
	if customerID == "" {
		customerID = currentUserID(c)
	}

	result := s.couponEngine.Validate(c.Context(), storeID, req.Code, customerID, req.CartTotal, req.ProductIDs)
	return c.JSON(result)
}

// RedeemCoupon handles POST /api/stores/:storeId/coupons/redeem
// @Summary Redeem coupon
// @Description Validates and records the redemption; the usage limit is re-checked transactionally
// @Tags coupons
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param request body couponCheckRequest true "Cart context"
// @Success 201 {object} object{result=coupon.ValidationResult,usage=models.CouponUsage}
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/coupons/redeem [post]
func (s *Server) RedeemCoupon(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	var req couponCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.OrderID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Order ID is required"))
	}
	customerID := req.CustomerID
	if customerID == "" {
		customerID = currentUserID(c)
	}

	result := s.couponEngine.Validate(c.Context(), storeID, req.Code, customerID, req.CartTotal, req.ProductIDs)
	if !result.Valid {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(result.Error))
	}

	usage := &models.CouponUsage{
		CouponID:       result.Coupon.ID,
		OrderID:        req.OrderID,
		CustomerID:     customerID,
		DiscountAmount: result.DiscountAmount,
		OrderTotal:     req.CartTotal,
	}
	if err := s.couponEngine.RecordUsage(c.Context(), storeID, usage); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result": result,
		"usage":  usage,
	})
}
