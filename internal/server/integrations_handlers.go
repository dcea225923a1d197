package server

import (
	"vendora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateWidget handles POST /api/stores/:storeId/widgets
// @Summary Create widget
// @Tags integrations
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param request body models.Widget true "Widget"
// @Success 201 {object} models.Widget
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/widgets [post]
func (s *Server) CreateWidget(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	var widget models.Widget
	if err := c.BodyParser(&widget); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	widget.StoreID = storeID
	widget.CreatedBy = currentUserID(c)

	created, err := s.integrationsService.CreateWidget(c.Context(), &widget)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetWidgets handles GET /api/stores/:storeId/widgets
// @Summary List widgets
// @Tags integrations
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {array} models.Widget
// @Router /stores/{storeId}/widgets [get]
func (s *Server) GetWidgets(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	widgets, err := s.integrationsService.ListWidgets(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(widgets)
}

// GetWidget handles GET /api/stores/:storeId/widgets/:widgetId
// @Summary Get widget
// @Tags integrations
// @Produce json
// @Param storeId path string true "Store ID"
// @Param widgetId path string true "Widget ID"
// @Success 200 {object} models.Widget
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/widgets/{widgetId} [get]
func (s *Server) GetWidget(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	widgetID, err := s.parseID(c, "widgetId")
	if err != nil {
		return nil
	}

	widget, err := s.integrationsService.GetWidget(c.Context(), storeID, widgetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(widget)
}

// UpdateWidget handles PUT /api/stores/:storeId/widgets/:widgetId
// @Summary Update widget
// @Tags integrations
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param widgetId path string true "Widget ID"
// @Success 200 {object} models.Widget
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/widgets/{widgetId} [put]
func (s *Server) UpdateWidget(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	widgetID, err := s.parseID(c, "widgetId")
	if err != nil {
		return nil
	}
	fields, err := parseFields(c)
	if err != nil {
		return nil
	}

	widget, err := s.integrationsService.UpdateWidget(c.Context(), storeID, widgetID, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(widget)
}

// DeleteWidget handles DELETE /api/stores/:storeId/widgets/:widgetId
// @Summary Delete widget
// @Tags integrations
// @Param storeId path string true "Store ID"
// @Param widgetId path string true "Widget ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/widgets/{widgetId} [delete]
func (s *Server) DeleteWidget(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	widgetID, err := s.parseID(c, "widgetId")
	if err != nil {
		return nil
	}

	if err := s.integrationsService.DeleteWidget(c.Context(), storeID, widgetID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpsertTrackingIntegration handles PUT /api/stores/:storeId/tracking
// @Summary Set tracking integration
// @Description One row per (store, provider); repeated calls update in place
// @Tags integrations
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param request body models.TrackingIntegration true "Tracking integration"
// @Success 200 {object} models.TrackingIntegration
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/tracking [put]
func (s *Server) UpsertTrackingIntegration(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	var tracking models.TrackingIntegration
	if err := c.BodyParser(&tracking); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	tracking.StoreID = storeID
	tracking.CreatedBy = currentUserID(c)

	saved, err := s.integrationsService.UpsertTracking(c.Context(), &tracking)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(saved)
}

// GetTrackingIntegrations handles GET /api/stores/:storeId/tracking
// @Summary List tracking integrations
// @Tags integrations
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {array} models.TrackingIntegration
// @Router /stores/{storeId}/tracking [get]
func (s *Server) GetTrackingIntegrations(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	integrations, err := s.integrationsService.ListTracking(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(integrations)
}

// DeleteTrackingIntegration handles DELETE /api/stores/:storeId/tracking/:provider
// @Summary Remove tracking integration
// @Tags integrations
// @Param storeId path string true "Store ID"
// @Param provider path string true "Provider"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/tracking/{provider} [delete]
func (s *Server) DeleteTrackingIntegration(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	provider := c.Params("provider")
	if provider == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid provider"))
	}

	if err := s.integrationsService.DeleteTracking(c.Context(), storeID, models.TrackingProvider(provider)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFeatureFlags handles GET /api/me/feature-flags
// @Summary Evaluated feature flags for the caller
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /me/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(s.featureFlags.Snapshot(currentUserID(c)))
}
