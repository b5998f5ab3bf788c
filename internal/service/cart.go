package service

import (
	"context"

	"basti-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricedLine — строка корзины с ценой, разрешённой на момент чтения
type PricedLine struct {
	LineID          uuid.UUID           `json:"line_id"`
	Kind            models.ProductKind  `json:"kind"`
	ProductID       *uuid.UUID          `json:"product_id,omitempty"`
	Name            string              `json:"name"`
	ImageURL        string              `json:"image_url,omitempty"`
	Size            *string             `json:"size,omitempty"`
	Category        models.CartCategory `json:"category"`
	Quantity        int                 `json:"quantity"`
	IsIncluded      bool                `json:"is_included"`
	UnitPrice       decimal.Decimal     `json:"unit_price"`
	LineTotal       decimal.Decimal     `json:"line_total"`
	FrostColorValue string              `json:"frost_color_value,omitempty"`
	Message         string              `json:"message,omitempty"`
	Parts           []PricedPart        `json:"parts,omitempty"`
}

type CakeGroup struct {
	Featured    []PricedLine `json:"featured"`
	Predesigned []PricedLine `json:"predesigned"`
	Custom      []PricedLine `json:"custom"`
}

type OthersGroup struct {
	Sweets []PricedLine `json:"sweets"`
	Addons []PricedLine `json:"addons"`
}

// CategorizedCart — полный вид корзины: сгруппирован по категории и виду
// товара, пересчитывается на каждом чтении и никогда не кэшируется.
type CategorizedCart struct {
	BigCakes   CakeGroup       `json:"big_cakes"`
	SmallCakes CakeGroup       `json:"small_cakes"`
	Others     OthersGroup     `json:"others"`
	Total      decimal.Decimal `json:"total"`
}

type AddLineInput struct {
	RegionID     uuid.UUID
	Kind         models.ProductKind
	ProductID    *uuid.UUID
	CustomConfig *models.CustomCakeConfig
	Size         *string
	Category     models.CartCategory
	Quantity     int
}

type CartService interface {
	GetCart(ctx context.Context, regionID uuid.UUID) (*CategorizedCart, error)
	// GetSaved возвращает строки «отложено на потом» — они не входят
	// ни в одну группу корзины и ни в какие итоги.
	GetSaved(ctx context.Context, regionID uuid.UUID) ([]PricedLine, error)
	AddLine(ctx context.Context, in AddLineInput) (*CategorizedCart, error)
	UpdateQuantity(ctx context.Context, lineID, regionID uuid.UUID, qty int) (*CategorizedCart, error)
	ToggleInclusion(ctx context.Context, lineID, regionID uuid.UUID, included bool) (*CategorizedCart, error)
	DeleteLines(ctx context.Context, regionID uuid.UUID, lineIDs []uuid.UUID) (*CategorizedCart, error)
}
