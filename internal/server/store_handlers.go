package server

import (
	"vendora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateStore handles POST /api/stores
// @Summary Create store
// @Description Provision a new store owned by the caller
// @Tags stores
// @Accept json
// @Produce json
// @Param request body models.Store true "Store"
// @Success 201 {object} models.Store
// @Failure 400 {object} models.ErrorResponse
// @Router /stores [post]
func (s *Server) CreateStore(c *fiber.Ctx) error {
	var store models.Store
	if err := c.BodyParser(&store); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.storeService.CreateStore(c.Context(), currentUserID(c), &store)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetMyStores handles GET /api/me/stores
// @Summary List my stores
// @Description Stores the caller owns or belongs to as a team member
// @Tags stores
// @Produce json
// @Success 200 {array} models.Store
// @Router /me/stores [get]
func (s *Server) GetMyStores(c *fiber.Ctx) error {
	stores, err := s.teamService.ListUserStores(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stores)
}

// GetStore handles GET /api/stores/:storeId
// @Summary Get store
// @Tags stores
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {object} models.Store
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId} [get]
func (s *Server) GetStore(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	store, err := s.storeService.GetStore(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(store)
}

// GetPublicStore handles GET /api/public/stores/:storeId
// Storefront read path: cached, no auth, no team data.
func (s *Server) GetPublicStore(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	store, err := s.storeService.GetStoreCached(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	store.Owner = nil
	return c.JSON(store)
}

// UpdateStore handles PUT/PATCH /api/stores/:storeId
// @Summary Update store
// @Tags stores
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {object} models.Store
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId} [put]
func (s *Server) UpdateStore(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	fields, err := parseFields(c)
	if err != nil {
		return nil
	}
	fields["updated_by"] = currentUserID(c)

	store, err := s.storeService.UpdateStore(c.Context(), storeID, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(store)
}

// DeleteStore handles DELETE /api/stores/:storeId
// @Summary Delete store
// @Tags stores
// @Param storeId path string true "Store ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId} [delete]
func (s *Server) DeleteStore(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	if err := s.storeService.DeleteStore(c.Context(), storeID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
