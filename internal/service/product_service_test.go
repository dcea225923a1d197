package service

import (
	"context"
	"testing"

	"vendora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productRepoStub struct {
	createFn  func(context.Context, *models.Product) error
	getByIDFn func(context.Context, string, string) (*models.Product, error)
	listFn    func(context.Context, string, int, int) ([]models.Product, error)
	updateFn  func(context.Context, string, string, map[string]interface{}) error
	deleteFn  func(context.Context, string, string) error
}

func (s *productRepoStub) Create(ctx context.Context, product *models.Product) error {
	return s.createFn(ctx, product)
}
func (s *productRepoStub) GetByID(ctx context.Context, storeID, id string) (*models.Product, error) {
	return s.getByIDFn(ctx, storeID, id)
}
func (s *productRepoStub) List(ctx context.Context, storeID string, limit, offset int) ([]models.Product, error) {
	return s.listFn(ctx, storeID, limit, offset)
}
func (s *productRepoStub) Update(ctx context.Context, storeID, id string, fields map[string]interface{}) error {
	return s.updateFn(ctx, storeID, id, fields)
}
func (s *productRepoStub) Delete(ctx context.Context, storeID, id string) error {
	return s.deleteFn(ctx, storeID, id)
}

func noopProductRepo() *productRepoStub {
	return &productRepoStub{
		createFn: func(_ context.Context, p *models.Product) error {
			p.ID = "product-1"
			return nil
		},
		getByIDFn: func(_ context.Context, _, id string) (*models.Product, error) {
			return &models.Product{ID: id}, nil
		},
		listFn:   func(_ context.Context, _ string, _, _ int) ([]models.Product, error) { return nil, nil },
		updateFn: func(_ context.Context, _, _ string, _ map[string]interface{}) error { return nil },
		deleteFn: func(_ context.Context, _, _ string) error { return nil },
	}
}

func TestCreateProduct_DefaultsToDraft(t *testing.T) {
	repo := noopProductRepo()
	var created *models.Product
	repo.createFn = func(_ context.Context, p *models.Product) error {
		created = p
		return nil
	}
	svc := NewProductService(repo)

	_, err := svc.CreateProduct(context.Background(), &models.Product{
		StoreID: "store-1",
		Name:    "Canvas Tote",
		Price:   24.99,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusDraft, created.Status)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewProductService(noopProductRepo())

	tests := []struct {
		name    string
		product models.Product
		wantMsg string
	}{
		{"Missing Name", models.Product{Price: 5}, "name is required"},
		{"Negative Price", models.Product{Name: "Tote", Price: -1}, "Price cannot be negative"},
		{"Negative Stock", models.Product{Name: "Tote", Price: 5, Stock: -2}, "Stock cannot be negative"},
		{"Bad Slug", models.Product{Name: "Tote", Price: 5, Slug: "Bad Slug!"}, "slug"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), &tt.product)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestUpdateProduct_RejectsNegativePrice(t *testing.T) {
	svc := NewProductService(noopProductRepo())

	_, err := svc.UpdateProduct(context.Background(), "store-1", "product-1", map[string]interface{}{
		"price": -10.0,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Price cannot be negative")
}
