package service

import (
	"context"

	"basti-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricedCatalogItem — каталожная позиция с действующими для региона ценами
type PricedCatalogItem struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	ImageURL    string              `json:"image_url,omitempty"`
	Price       *decimal.Decimal    `json:"price,omitempty"`
	SizesPrices models.SizePriceMap `json:"sizes_prices,omitempty"`
}

// PricedCatalog — витрина региона: только активные товары,
// цены уже с учётом региональных переопределений
type PricedCatalog struct {
	Featured    []PricedCatalogItem `json:"featured"`
	Predesigned []PricedCatalogItem `json:"predesigned"`
	Addons      []PricedCatalogItem `json:"addons"`
	Sweets      []PricedCatalogItem `json:"sweets"`
	Shapes      []PricedCatalogItem `json:"shapes"`
	Flavors     []PricedCatalogItem `json:"flavors"`
	Decorations []PricedCatalogItem `json:"decorations"`
}

type DesignedConfigInput struct {
	ShapeID         uuid.UUID
	FlavorID        uuid.UUID
	DecorationID    uuid.UUID
	FrostColorValue string
}

type SavePredesignedInput struct {
	Name        string
	Description string
	ImageURL    string
	Config      DesignedConfigInput
}

// ProductInput — создание (ID nil) или правка каталожной строки.
// SizesPrices допустимы только для featured_cake.
type ProductInput struct {
	ID          *uuid.UUID
	Kind        models.ProductKind
	Name        string
	Description string
	ImageURL    string
	Price       *decimal.Decimal
	SizesPrices models.SizePriceMap
}

type ProductSummary struct {
	ID          uuid.UUID           `json:"id"`
	Kind        models.ProductKind  `json:"kind"`
	Name        string              `json:"name"`
	Price       *decimal.Decimal    `json:"price,omitempty"`
	SizesPrices models.SizePriceMap `json:"sizes_prices,omitempty"`
	IsActive    bool                `json:"is_active"`
}

type SetOverrideInput struct {
	RegionID    uuid.UUID
	Kind        models.ProductKind
	ProductID   uuid.UUID
	Price       *decimal.Decimal
	SizesPrices models.SizePriceMap
}

type CatalogService interface {
	GetCatalog(ctx context.Context, regionID uuid.UUID) (*PricedCatalog, error)
	ListRegions(ctx context.Context) ([]models.Region, error)

	// Админские операции: каталожные строки, шаблоны и региональные цены.
	SaveProduct(ctx context.Context, in ProductInput) (*ProductSummary, error)
	SetProductActive(ctx context.Context, kind models.ProductKind, id uuid.UUID, active bool) error
	SavePredesigned(ctx context.Context, in SavePredesignedInput) (*models.PredesignedCake, error)
	SetOverride(ctx context.Context, in SetOverrideInput) (*models.RegionPriceOverride, error)
	DeleteOverride(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID) error
}
