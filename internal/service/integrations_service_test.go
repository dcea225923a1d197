package service

import (
	"context"
	"testing"

	"vendora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type integrationRepoStub struct {
	createWidgetFn   func(context.Context, *models.Widget) error
	getWidgetFn      func(context.Context, string, string) (*models.Widget, error)
	listWidgetsFn    func(context.Context, string) ([]models.Widget, error)
	updateWidgetFn   func(context.Context, string, string, map[string]interface{}) error
	deleteWidgetFn   func(context.Context, string, string) error
	upsertTrackingFn func(context.Context, *models.TrackingIntegration) error
	listTrackingFn   func(context.Context, string) ([]models.TrackingIntegration, error)
	deleteTrackingFn func(context.Context, string, models.TrackingProvider) error
}

func (s *integrationRepoStub) CreateWidget(ctx context.Context, widget *models.Widget) error {
	return s.createWidgetFn(ctx, widget)
}
func (s *integrationRepoStub) GetWidget(ctx context.Context, storeID, id string) (*models.Widget, error) {
	return s.getWidgetFn(ctx, storeID, id)
}
func (s *integrationRepoStub) ListWidgets(ctx context.Context, storeID string) ([]models.Widget, error) {
	return s.listWidgetsFn(ctx, storeID)
}
func (s *integrationRepoStub) UpdateWidget(ctx context.Context, storeID, id string, fields map[string]interface{}) error {
	return s.updateWidgetFn(ctx, storeID, id, fields)
}
func (s *integrationRepoStub) DeleteWidget(ctx context.Context, storeID, id string) error {
	return s.deleteWidgetFn(ctx, storeID, id)
}
func (s *integrationRepoStub) UpsertTracking(ctx context.Context, tracking *models.TrackingIntegration) error {
	return s.upsertTrackingFn(ctx, tracking)
}
func (s *integrationRepoStub) ListTracking(ctx context.Context, storeID string) ([]models.TrackingIntegration, error) {
	return s.listTrackingFn(ctx, storeID)
}
func (s *integrationRepoStub) DeleteTracking(ctx context.Context, storeID string, provider models.TrackingProvider) error {
	return s.deleteTrackingFn(ctx, storeID, provider)
}

func noopIntegrationRepo() *integrationRepoStub {
	return &integrationRepoStub{
		createWidgetFn: func(_ context.Context, w *models.Widget) error {
			w.ID = "widget-1"
			return nil
		},
		getWidgetFn: func(_ context.Context, _, id string) (*models.Widget, error) {
			return &models.Widget{ID: id}, nil
		},
		listWidgetsFn:    func(_ context.Context, _ string) ([]models.Widget, error) { return nil, nil },
		updateWidgetFn:   func(_ context.Context, _, _ string, _ map[string]interface{}) error { return nil },
		deleteWidgetFn:   func(_ context.Context, _, _ string) error { return nil },
		upsertTrackingFn: func(_ context.Context, _ *models.TrackingIntegration) error { return nil },
		listTrackingFn:   func(_ context.Context, _ string) ([]models.TrackingIntegration, error) { return nil, nil },
		deleteTrackingFn: func(_ context.Context, _ string, _ models.TrackingProvider) error { return nil },
	}
}

func TestCreateWidget_RejectsUnknownType(t *testing.T) {
	svc := NewIntegrationsService(noopIntegrationRepo())

	_, err := svc.CreateWidget(context.Background(), &models.Widget{
		StoreID: "store-1",
		Type:    "carousel-of-doom",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid widget type")
}

func TestCreateWidget_RejectsMalformedConfig(t *testing.T) {
	svc := NewIntegrationsService(noopIntegrationRepo())

	_, err := svc.CreateWidget(context.Background(), &models.Widget{
		StoreID: "store-1",
		Type:    models.WidgetTypeAnnouncement,
		Config:  "{not json",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid JSON")
}

func TestCreateWidget_AcceptsValidWidget(t *testing.T) {
	svc := NewIntegrationsService(noopIntegrationRepo())

	widget, err := svc.CreateWidget(context.Background(), &models.Widget{
		StoreID: "store-1",
		Type:    models.WidgetTypeInstagramFeed,
		Config:  `{"handle":"@acme"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "widget-1", widget.ID)
}

func TestUpsertTracking_Validation(t *testing.T) {
	svc := NewIntegrationsService(noopIntegrationRepo())

	_, err := svc.UpsertTracking(context.Background(), &models.TrackingIntegration{
		StoreID:    "store-1",
		Provider:   "carrier-pigeon",
		TrackingID: "XYZ",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid tracking provider")

	_, err = svc.UpsertTracking(context.Background(), &models.TrackingIntegration{
		StoreID:  "store-1",
		Provider: models.TrackingProviderGoogleAnalytics,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tracking ID is required")

	tracking, err := svc.UpsertTracking(context.Background(), &models.TrackingIntegration{
		StoreID:    "store-1",
		Provider:   models.TrackingProviderMetaPixel,
		TrackingID: "PX-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TrackingProviderMetaPixel, tracking.Provider)
}
