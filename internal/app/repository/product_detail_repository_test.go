package repository

import (
	"context"
	"testing"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductDetailTest(t *testing.T) (*gorm.DB, ProductDetailRepository, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	product := &model.Product{Name: "Running Shoe", Sku: "RUN100"}
	require.NoError(t, NewProductRepository(testDB).Create(context.Background(), product))

	return testDB, NewProductDetailRepository(testDB), product
}

func TestProductDetailRepository_SkuVariantExists(t *testing.T) {
	_, repo, product := setupProductDetailTest(t)
	ctx := context.Background()

	active := &model.ProductDetail{ProductID: product.ID, SkuVariant: "RUN100-LAR", Price: 100}
	deleted := &model.ProductDetail{ProductID: product.ID, SkuVariant: "RUN100-SMA", Price: 100}
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, deleted))
	require.NoError(t, repo.Delete(ctx, deleted.ID))

	tests := []struct {
		name      string
		sku       string
		excludeID uint
		want      bool
	}{
		{"active variant", "RUN100-LAR", 0, true},
		{"soft-deleted variant still reserved", "RUN100-SMA", 0, true},
		{"unused sku", "RUN100-MED", 0, false},
		{"own row excluded", "RUN100-LAR", active.ID, false},
		{"other row not excluded", "RUN100-LAR", deleted.ID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := repo.SkuVariantExists(ctx, tt.sku, tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestProductDetailRepository_Create_DuplicateSku(t *testing.T) {
	_, repo, product := setupProductDetailTest(t)
	ctx := context.Background()

	first := &model.ProductDetail{ProductID: product.ID, SkuVariant: "RUN100-RED"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Delete(ctx, first.ID))

	err := repo.Create(ctx, &model.ProductDetail{ProductID: product.ID, SkuVariant: "RUN100-RED"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestProductDetailRepository_UpdateIdentifier(t *testing.T) {
	_, repo, product := setupProductDetailTest(t)
	ctx := context.Background()

	detail := &model.ProductDetail{ProductID: product.ID, SkuVariant: "RUN100-01", Price: 120, Stock: 4}
	require.NoError(t, repo.Create(ctx, detail))

	require.NoError(t, repo.UpdateIdentifier(ctx, detail.ID, "Red / Large"))

	found, err := repo.FindByID(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, "Red / Large", found.VariantIdentifier)
	assert.Equal(t, float64(120), found.Price)
	assert.Equal(t, 4, found.Stock)
}

func TestProductDetailRepository_ForceDeleteAndReferences(t *testing.T) {
	testDB, repo, product := setupProductDetailTest(t)
	ctx := context.Background()

	detail := &model.ProductDetail{ProductID: product.ID, SkuVariant: "RUN100-02"}
	require.NoError(t, repo.Create(ctx, detail))

	refs, err := repo.CountReferences(ctx, detail.ID)
	require.NoError(t, err)
	assert.Zero(t, refs)

	require.NoError(t, testDB.Create(&model.CartItem{UserID: 1, ProductDetailID: detail.ID, Quantity: 1}).Error)
	order := &model.OrderItem{OrderID: 1, ProductDetailID: detail.ID, Quantity: 1, Price: 10}
	require.NoError(t, testDB.Create(order).Error)
	require.NoError(t, testDB.Delete(order).Error)

	refs, err = repo.CountReferences(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), refs)

	require.NoError(t, repo.ForceDelete(ctx, detail.ID))
	exists, err := repo.SkuVariantExists(ctx, "RUN100-02", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductDetailRepository_FindInBatches(t *testing.T) {
	_, repo, product := setupProductDetailTest(t)
	ctx := context.Background()

	for _, sku := range []string{"A-1", "A-2", "A-3", "A-4", "A-5"} {
		require.NoError(t, repo.Create(ctx, &model.ProductDetail{ProductID: product.ID, SkuVariant: sku}))
	}

	var sizes []int
	var seen []string
	err := repo.FindInBatches(ctx, 2, func(batch []model.ProductDetail) error {
		sizes = append(sizes, len(batch))
		for _, d := range batch {
			seen = append(seen, d.SkuVariant)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, []string{"A-1", "A-2", "A-3", "A-4", "A-5"}, seen)

	listed, err := repo.FindByProductID(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 5)
}
