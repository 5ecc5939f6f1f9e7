package app

import (
	"github.com/ikkim/catalog-backend/config"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/internal/app/service"
	"github.com/ikkim/catalog-backend/pkg/util"
	"gorm.io/gorm"
)

type Options struct {
	Catalog config.CatalogConfig
	// Cache is optional; without it every list goes to the database.
	Cache  service.CategoryAttributeCache
	Random util.RandomSource
}

// Catalog holds the attribute and variant services built over one
// connection.
type Catalog struct {
	DB         *gorm.DB
	Attributes service.AttributeService
	Categories service.CategoryService
	Bindings   service.CategoryAttributeService
	Values     service.VariantAttributeService
	Variants   service.ProductDetailService
}

func New(conn *gorm.DB, opts Options) *Catalog {
	// Initialize repositories
	attributeRepo := repository.NewAttributeRepository(conn)
	categoryRepo := repository.NewCategoryRepository(conn)
	bindingRepo := repository.NewCategoryAttributeRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	detailRepo := repository.NewProductDetailRepository(conn)
	valueRepo := repository.NewVariantAttributeValueRepository(conn)

	// Initialize services
	return &Catalog{
		DB:         conn,
		Attributes: service.NewAttributeService(attributeRepo, bindingRepo, opts.Cache),
		Categories: service.NewCategoryService(categoryRepo, opts.Cache),
		Bindings: service.NewCategoryAttributeService(
			attributeRepo,
			categoryRepo,
			bindingRepo,
			productRepo,
			opts.Cache,
			opts.Catalog.InheritParentAttributes,
		),
		Values: service.NewVariantAttributeService(conn, detailRepo, attributeRepo, valueRepo),
		Variants: service.NewProductDetailService(
			conn,
			productRepo,
			detailRepo,
			attributeRepo,
			valueRepo,
			opts.Random,
			service.ProductDetailServiceConfig{
				SkuMaxAttempts:   opts.Catalog.SkuMaxAttempts,
				ReindexBatchSize: opts.Catalog.ReindexBatchSize,
			},
		),
	}
}
