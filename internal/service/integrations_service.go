package service

import (
	"context"
	"encoding/json"
	"strings"

	"vendora/internal/cache"
	"vendora/internal/models"
	"vendora/internal/repository"
)

// IntegrationsService provides widget and tracking integration business logic.
type IntegrationsService struct {
	integrationRepo repository.IntegrationRepository
}

// NewIntegrationsService returns a new IntegrationsService.
func NewIntegrationsService(integrationRepo repository.IntegrationRepository) *IntegrationsService {
	return &IntegrationsService{integrationRepo: integrationRepo}
}

func validWidgetType(t models.WidgetType) bool {
	switch t {
	case models.WidgetTypeInstagramFeed, models.WidgetTypeReviewCarousel,
		models.WidgetTypeChatBubble, models.WidgetTypeAnnouncement:
		return true
	}
	return false
}

func validTrackingProvider(p models.TrackingProvider) bool {
	switch p {
	case models.TrackingProviderGoogleAnalytics, models.TrackingProviderMetaPixel,
		models.TrackingProviderTikTokPixel, models.TrackingProviderHotjar:
		return true
	}
	return false
}

// CreateWidget validates and creates a widget.
func (s *IntegrationsService) CreateWidget(ctx context.Context, widget *models.Widget) (*models.Widget, error) {
	if !validWidgetType(widget.Type) {
		return nil, models.NewValidationError("Invalid widget type")
	}
	if widget.Config != "" && !json.Valid([]byte(widget.Config)) {
		return nil, models.NewValidationError("Widget config must be valid JSON")
	}

	if err := s.integrationRepo.CreateWidget(ctx, widget); err != nil {
		return nil, err
	}
	cache.InvalidateWidgets(ctx, widget.StoreID)
	return widget, nil
}

// GetWidget returns one widget.
func (s *IntegrationsService) GetWidget(ctx context.Context, storeID, id string) (*models.Widget, error) {
	return s.integrationRepo.GetWidget(ctx, storeID, id)
}

// ListWidgets returns the store's widgets ordered by position.
func (s *IntegrationsService) ListWidgets(ctx context.Context, storeID string) ([]models.Widget, error) {
	return s.integrationRepo.ListWidgets(ctx, storeID)
}

// UpdateWidget applies field updates to a widget.
func (s *IntegrationsService) UpdateWidget(ctx context.Context, storeID, id string, fields map[string]interface{}) (*models.Widget, error) {
	if rawConfig, ok := fields["config"]; ok {
		config, isString := rawConfig.(string)
		if !isString || (config != "" && !json.Valid([]byte(config))) {
			return nil, models.NewValidationError("Widget config must be valid JSON")
		}
	}

	if err := s.integrationRepo.UpdateWidget(ctx, storeID, id, fields); err != nil {
		return nil, err
	}
	cache.InvalidateWidgets(ctx, storeID)
	return s.integrationRepo.GetWidget(ctx, storeID, id)
}

// DeleteWidget removes a widget.
func (s *IntegrationsService) DeleteWidget(ctx context.Context, storeID, id string) error {
	if err := s.integrationRepo.DeleteWidget(ctx, storeID, id); err != nil {
		return err
	}
	cache.InvalidateWidgets(ctx, storeID)
	return nil
}

// UpsertTracking sets a provider's tracking id for the store, one row per
// (store, provider) pair.
func (s *IntegrationsService) UpsertTracking(ctx context.Context, tracking *models.TrackingIntegration) (*models.TrackingIntegration, error) {
	if !validTrackingProvider(tracking.Provider) {
		return nil, models.NewValidationError("Invalid tracking provider")
	}
	if strings.TrimSpace(tracking.TrackingID) == "" {
		return nil, models.NewValidationError("Tracking ID is required")
	}

	if err := s.integrationRepo.UpsertTracking(ctx, tracking); err != nil {
		return nil, err
	}
	cache.InvalidateWidgets(ctx, tracking.StoreID)
	return tracking, nil
}

// ListTracking returns the store's tracking integrations.
func (s *IntegrationsService) ListTracking(ctx context.Context, storeID string) ([]models.TrackingIntegration, error) {
	return s.integrationRepo.ListTracking(ctx, storeID)
}

// DeleteTracking removes a provider's tracking integration.
func (s *IntegrationsService) DeleteTracking(ctx context.Context, storeID string, provider models.TrackingProvider) error {
	if err := s.integrationRepo.DeleteTracking(ctx, storeID, provider); err != nil {
		return err
	}
	cache.InvalidateWidgets(ctx, storeID)
	return nil
}
