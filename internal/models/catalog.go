package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Вид товара — дискриминатор для ссылок из корзины и региональных цен
type ProductKind string

const (
	ProductKindFeaturedCake    ProductKind = "featured_cake"
	ProductKindAddon           ProductKind = "addon"
	ProductKindSweet           ProductKind = "sweet"
	ProductKindPredesignedCake ProductKind = "predesigned_cake"
	ProductKindCustomCake      ProductKind = "custom_cake"

	// Примитивы, из которых собирается кастомный торт
	ProductKindCakeShape      ProductKind = "cake_shape"
	ProductKindCakeFlavor     ProductKind = "cake_flavor"
	ProductKindCakeDecoration ProductKind = "cake_decoration"
)

// Overridable reports whether a region price override row may exist for the kind.
func (k ProductKind) Overridable() bool {
	switch k {
	case ProductKindFeaturedCake, ProductKindAddon, ProductKindSweet:
		return true
	}
	return false
}

// UniquelyKeyed reports whether a user's cart may hold at most one line of
// (kind, product) — adds merge into the existing line instead of duplicating it.
func (k ProductKind) UniquelyKeyed() bool {
	switch k {
	case ProductKindFeaturedCake, ProductKindAddon, ProductKindSweet:
		return true
	}
	return false
}

// DirectlyPriced reports whether the kind has its own price column in the
// catalog (predesigned and custom cakes are priced from their parts instead).
func (k ProductKind) DirectlyPriced() bool {
	switch k {
	case ProductKindFeaturedCake, ProductKindAddon, ProductKindSweet,
		ProductKindCakeShape, ProductKindCakeFlavor, ProductKindCakeDecoration:
		return true
	}
	return false
}

// SizePriceMap хранится как jsonb: метка размера -> цена
type SizePriceMap map[string]decimal.Decimal

type Region struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string    `gorm:"type:text;not null;uniqueIndex"`
	IsActive bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Region) TableName() string { return "regions" }

type Addon struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"type:text;not null"`
	Description string          `gorm:"type:text"`
	ImageURL    string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive    bool            `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Addon) TableName() string { return "addons" }

type Sweet struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"type:text;not null"`
	Description string          `gorm:"type:text"`
	ImageURL    string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive    bool            `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Sweet) TableName() string { return "sweets" }

// FeaturedCake — готовый торт из каталога. Цена либо плоская, либо по размерам.
type FeaturedCake struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `gorm:"type:text;not null"`
	Description string           `gorm:"type:text"`
	ImageURL    string           `gorm:"type:text"`
	Price       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SizesPrices SizePriceMap     `gorm:"type:jsonb;serializer:json"`
	IsActive    bool             `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (FeaturedCake) TableName() string { return "featured_cakes" }

type CakeShape struct {
	ID       uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string          `gorm:"type:text;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive bool            `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (CakeShape) TableName() string { return "cake_shapes" }

type CakeFlavor struct {
	ID       uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string          `gorm:"type:text;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive bool            `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (CakeFlavor) TableName() string { return "cake_flavors" }

type CakeDecoration struct {
	ID       uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string          `gorm:"type:text;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive bool            `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (CakeDecoration) TableName() string { return "cake_decorations" }

// PredesignedCake — именованный шаблон кастомного торта. Цены не хранит:
// она всегда считается заново из частей конфигурации.
type PredesignedCake struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
	ImageURL    string    `gorm:"type:text"`
	IsActive    bool      `gorm:"not null;default:true;index"`

	Config DesignedCakeConfig `gorm:"foreignKey:PredesignedCakeID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (PredesignedCake) TableName() string { return "predesigned_cakes" }

type DesignedCakeConfig struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PredesignedCakeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ShapeID           uuid.UUID `gorm:"type:uuid;not null"`
	FlavorID          uuid.UUID `gorm:"type:uuid;not null"`
	DecorationID      uuid.UUID `gorm:"type:uuid;not null"`
	FrostColorValue   string    `gorm:"type:text;not null"`
}

func (DesignedCakeConfig) TableName() string { return "designed_cake_configs" }

// RegionPriceOverride — региональная цена поверх базовой цены каталога.
// Ключ (region, kind, product); допустимые kind ограничены CHECK-ограничением.
type RegionPriceOverride struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RegionID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:ux_region_price_overrides_key"`
	ProductKind ProductKind      `gorm:"type:text;not null;uniqueIndex:ux_region_price_overrides_key"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:ux_region_price_overrides_key"`
	Price       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SizesPrices SizePriceMap     `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (RegionPriceOverride) TableName() string { return "region_price_overrides" }
