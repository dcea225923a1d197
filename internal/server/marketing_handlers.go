package server

import (
	"vendora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddSubscriber handles POST /api/stores/:storeId/subscribers
// @Summary Add subscriber
// @Description Subscribes an email; re-subscribing an opted-out address reactivates it
// @Tags marketing
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param request body object{email=string,name=string,tags=[]string} true "Subscriber"
// @Success 201 {object} models.Subscriber
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/subscribers [post]
func (s *Server) AddSubscriber(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	var req struct {
		Email string   `json:"email"`
		Name  string   `json:"name"`
		Tags  []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	subscriber, err := s.marketingService.AddSubscriber(c.Context(), storeID, req.Email, req.Name, req.Tags)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(subscriber)
}

// GetSubscribers handles GET /api/stores/:storeId/subscribers
// @Summary List subscribers
// @Tags marketing
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {array} models.Subscriber
// @Router /stores/{storeId}/subscribers [get]
func (s *Server) GetSubscribers(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	subscribers, err := s.marketingService.ListSubscribers(c.Context(), storeID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subscribers)
}

// Unsubscribe handles POST /api/stores/:storeId/subscribers/unsubscribe
// @Summary Unsubscribe an email
// @Tags marketing
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param request body object{email=string} true "Email"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/subscribers/unsubscribe [post]
func (s *Server) Unsubscribe(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.marketingService.Unsubscribe(c.Context(), storeID, req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unsubscribed"})
}

// DeleteSubscriber handles DELETE /api/stores/:storeId/subscribers/:subscriberId
// @Summary Delete subscriber
// @Tags marketing
// @Param storeId path string true "Store ID"
// @Param subscriberId path string true "Subscriber ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/subscribers/{subscriberId} [delete]
func (s *Server) DeleteSubscriber(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	subscriberID, err := s.parseID(c, "subscriberId")
	if err != nil {
		return nil
	}

	if err := s.marketingService.DeleteSubscriber(c.Context(), storeID, subscriberID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateCampaign handles POST /api/stores/:storeId/campaigns
// @Summary Create campaign
// @Tags marketing
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param request body models.EmailCampaign true "Campaign"
// @Success 201 {object} models.EmailCampaign
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/campaigns [post]
func (s *Server) CreateCampaign(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	var campaign models.EmailCampaign
	if err := c.BodyParser(&campaign); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	campaign.StoreID = storeID
	campaign.CreatedBy = currentUserID(c)
	// Delivery stats are owned by the sending pipeline.
	campaign.Stats = models.CampaignStats{}

	created, err := s.marketingService.CreateCampaign(c.Context(), &campaign)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetCampaigns handles GET /api/stores/:storeId/campaigns
// @Summary List campaigns
// @Tags marketing
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {array} models.EmailCampaign
// @Router /stores/{storeId}/campaigns [get]
func (s *Server) GetCampaigns(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	campaigns, err := s.marketingService.ListCampaigns(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(campaigns)
}

// GetCampaign handles GET /api/stores/:storeId/campaigns/:campaignId
// @Summary Get campaign
// @Tags marketing
// @Produce json
// @Param storeId path string true "Store ID"
// @Param campaignId path string true "Campaign ID"
// @Success 200 {object} models.EmailCampaign
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/campaigns/{campaignId} [get]
func (s *Server) GetCampaign(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	campaignID, err := s.parseID(c, "campaignId")
	if err != nil {
		return nil
	}

	campaign, err := s.marketingService.GetCampaign(c.Context(), storeID, campaignID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(campaign)
}

// UpdateCampaign handles PUT /api/stores/:storeId/campaigns/:campaignId
// @Summary Update campaign
// @Tags marketing
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param campaignId path string true "Campaign ID"
// @Success 200 {object} models.EmailCampaign
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/campaigns/{campaignId} [put]
func (s *Server) UpdateCampaign(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	campaignID, err := s.parseID(c, "campaignId")
	if err != nil {
		return nil
	}
	fields, err := parseFields(c)
	if err != nil {
		return nil
	}
	// API clients cannot write delivery stats.
	for key := range fields {
		if len(key) > 6 && key[:6] == "stats_" || key == "stats" {
			delete(fields, key)
		}
	}

	campaign, err := s.marketingService.UpdateCampaign(c.Context(), storeID, campaignID, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(campaign)
}

// DeleteCampaign handles DELETE /api/stores/:storeId/campaigns/:campaignId
// @Summary Delete campaign
// @Tags marketing
// @Param storeId path string true "Store ID"
// @Param campaignId path string true "Campaign ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/campaigns/{campaignId} [delete]
func (s *Server) DeleteCampaign(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	campaignID, err := s.parseID(c, "campaignId")
	if err != nil {
		return nil
	}

	if err := s.marketingService.DeleteCampaign(c.Context(), storeID, campaignID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
