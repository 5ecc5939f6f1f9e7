package service

import (
	"context"
	"sync"
	"testing"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/internal/db"
	"github.com/ikkim/catalog-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryCache struct {
	mu          sync.Mutex
	entries     map[uint][]model.BoundAttribute
	hits        int
	invalidated []uint
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[uint][]model.BoundAttribute)}
}

func (c *memoryCache) GetCategoryAttributes(_ context.Context, categoryID uint) ([]model.BoundAttribute, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	attrs, ok := c.entries[categoryID]
	if ok {
		c.hits++
	}
	return attrs, ok, nil
}

func (c *memoryCache) SetCategoryAttributes(_ context.Context, categoryID uint, attrs []model.BoundAttribute) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[categoryID] = attrs
	return nil
}

func (c *memoryCache) InvalidateCategories(_ context.Context, categoryIDs ...uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range categoryIDs {
		delete(c.entries, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

type catalogFixture struct {
	db    *gorm.DB
	cache *memoryCache

	attributeRepo repository.AttributeRepository
	categoryRepo  repository.CategoryRepository
	bindingRepo   repository.CategoryAttributeRepository
	productRepo   repository.ProductRepository
	detailRepo    repository.ProductDetailRepository
	valueRepo     repository.VariantAttributeValueRepository

	attributes AttributeService
	categories CategoryService
	bindings   CategoryAttributeService
	values     VariantAttributeService
	variants   ProductDetailService
}

func setupCatalogTest(t *testing.T) *catalogFixture {
	return setupCatalogTestWith(t, true, nil)
}

func setupCatalogTestWith(t *testing.T, inheritParents bool, random util.RandomSource) *catalogFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	f := &catalogFixture{
		db:            testDB,
		cache:         newMemoryCache(),
		attributeRepo: repository.NewAttributeRepository(testDB),
		categoryRepo:  repository.NewCategoryRepository(testDB),
		bindingRepo:   repository.NewCategoryAttributeRepository(testDB),
		productRepo:   repository.NewProductRepository(testDB),
		detailRepo:    repository.NewProductDetailRepository(testDB),
		valueRepo:     repository.NewVariantAttributeValueRepository(testDB),
	}

	if random == nil {
		random = &util.FixedRandomSource{Values: []int{4, 2}}
	}

	f.attributes = NewAttributeService(f.attributeRepo, f.bindingRepo, f.cache)
	f.categories = NewCategoryService(f.categoryRepo, f.cache)
	f.bindings = NewCategoryAttributeService(f.attributeRepo, f.categoryRepo, f.bindingRepo, f.productRepo, f.cache, inheritParents)
	f.values = NewVariantAttributeService(testDB, f.detailRepo, f.attributeRepo, f.valueRepo)
	f.variants = NewProductDetailService(testDB, f.productRepo, f.detailRepo, f.attributeRepo, f.valueRepo, random, ProductDetailServiceConfig{
		SkuMaxAttempts:   5,
		ReindexBatchSize: 2,
	})
	return f
}

func (f *catalogFixture) attribute(t *testing.T, name string, isVariant bool) *model.AttributeDefinition {
	attr, err := f.attributes.CreateAttribute(context.Background(), AttributeInput{Name: name, IsVariant: isVariant})
	require.NoError(t, err)
	return attr
}

func (f *catalogFixture) category(t *testing.T, name string, parentID *uint) *model.Category {
	category, err := f.categories.CreateCategory(context.Background(), CategoryInput{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return category
}

func (f *catalogFixture) product(t *testing.T, sku string, categories ...model.Category) *model.Product {
	product := &model.Product{Name: "Product " + sku, Sku: sku, Categories: categories}
	require.NoError(t, f.productRepo.Create(context.Background(), product))
	return product
}

func (f *catalogFixture) variant(t *testing.T, productID uint, input VariantInput) *model.ProductDetail {
	detail, err := f.variants.CreateVariant(context.Background(), productID, input)
	require.NoError(t, err)
	return detail
}
