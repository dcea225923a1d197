package seed

import (
	"testing"

	"vendora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_CreateProductDefaults(t *testing.T) {
	db := setupDB(t)
	f := NewFactory(db)

	owner, err := f.CreateUser()
	require.NoError(t, err)
	store, err := f.CreateStore(owner)
	require.NoError(t, err)

	product, err := f.CreateProduct(store)
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, store.ID, product.StoreID)
	assert.Equal(t, models.ProductStatusActive, product.Status)
	assert.Positive(t, product.Price)
	assert.NotEmpty(t, product.Slug)
}

func TestFactory_Overrides(t *testing.T) {
	db := setupDB(t)
	f := NewFactory(db)

	owner, err := f.CreateUser(func(u *models.User) {
		u.Email = "fixed@example.com"
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed@example.com", owner.Email)

	store, err := f.CreateStore(owner)
	require.NoError(t, err)

	coupon, err := f.CreateCoupon(store, func(c *models.Coupon) {
		c.Code = "  fixed-code  "
	})
	require.NoError(t, err)
	assert.Equal(t, "FIXED-CODE", coupon.Code, "codes are canonicalized on create")
}

func TestDemoStore_Idempotent(t *testing.T) {
	db := setupDB(t)

	require.NoError(t, DemoStore(db))
	require.NoError(t, DemoStore(db))

	var owners int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", DemoOwnerEmail).Count(&owners).Error)
	require.EqualValues(t, 1, owners)

	var stores int64
	require.NoError(t, db.Model(&models.Store{}).Where("name = ?", DemoStoreName).Count(&stores).Error)
	require.EqualValues(t, 1, stores)

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.EqualValues(t, 8, products)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "enamel-mug", slugify("Enamel Mug"))
	assert.Equal(t, "tea-2-go", slugify("  Tea 2 Go! "))
	assert.Equal(t, "", slugify("---"))
}
