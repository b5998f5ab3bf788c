package service

import (
	"context"
	"fmt"
	"sort"

	"basti-service/internal/models"
	"basti-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricedPart — одна оплачиваемая часть кастомного торта с разрешённой ценой
type PricedPart struct {
	Kind        models.ProductKind `json:"kind"`
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Price       decimal.Decimal    `json:"price"`
	LayerNumber *int               `json:"layer_number,omitempty"`
}

type PricedCustomCake struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Parts     []PricedPart    `json:"parts"`
}

// Composer валидирует и оценивает композицию форма + вкус + декор
// (+ дополнительные слои). У кастомного торта нет своей строки каталога:
// цена — сумма частей, цвет глазури бесплатный. Тот же путь используется
// и для шаблонов predesigned-тортов, поэтому их цена всегда совпадает
// с ценой кастомного торта из тех же частей.
type Composer interface {
	PriceAndValidate(ctx context.Context, regionID uuid.UUID, cfg models.CustomCakeConfig) (*PricedCustomCake, error)
	// ValidateParts проверяет существование и активность частей без оценки —
	// используется при сохранении шаблона, который цену не хранит.
	ValidateParts(ctx context.Context, shapeID, flavorID, decorationID uuid.UUID) error
}

type composer struct {
	catalog  repository.CatalogRepo
	resolver PriceResolver
}

func NewComposer(catalog repository.CatalogRepo, resolver PriceResolver) Composer {
	return &composer{catalog: catalog, resolver: resolver}
}

func (c *composer) PriceAndValidate(ctx context.Context, regionID uuid.UUID, cfg models.CustomCakeConfig) (*PricedCustomCake, error) {
	if err := validateLayers(cfg.Layers); err != nil {
		return nil, err
	}

	parts := []struct {
		kind  models.ProductKind
		id    uuid.UUID
		layer *int
	}{
		{models.ProductKindCakeShape, cfg.ShapeID, nil},
		{models.ProductKindCakeFlavor, cfg.FlavorID, nil},
		{models.ProductKindCakeDecoration, cfg.DecorationID, nil},
	}
	for i := range cfg.Layers {
		n := cfg.Layers[i].LayerNumber
		parts = append(parts, struct {
			kind  models.ProductKind
			id    uuid.UUID
			layer *int
		}{models.ProductKindCakeFlavor, cfg.Layers[i].FlavorID, &n})
	}

	out := &PricedCustomCake{UnitPrice: decimal.Zero}
	for _, p := range parts {
		priced, err := c.pricePart(ctx, regionID, p.kind, p.id, p.layer)
		if err != nil {
			return nil, err
		}
		out.Parts = append(out.Parts, priced)
		out.UnitPrice = out.UnitPrice.Add(priced.Price)
	}
	return out, nil
}

func (c *composer) ValidateParts(ctx context.Context, shapeID, flavorID, decorationID uuid.UUID) error {
	for _, p := range []struct {
		kind models.ProductKind
		id   uuid.UUID
	}{
		{models.ProductKindCakeShape, shapeID},
		{models.ProductKindCakeFlavor, flavorID},
		{models.ProductKindCakeDecoration, decorationID},
	} {
		src, err := c.catalog.PriceSource(ctx, p.kind, p.id)
		if err != nil {
			return fmt.Errorf("load %s: %w", p.kind, err)
		}
		if src == nil || !src.IsActive {
			return fmt.Errorf("%s %s: %w", p.kind, p.id, ErrProductNotFound)
		}
	}
	return nil
}

func (c *composer) pricePart(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, id uuid.UUID, layer *int) (PricedPart, error) {
	src, err := c.catalog.PriceSource(ctx, kind, id)
	if err != nil {
		return PricedPart{}, fmt.Errorf("load %s: %w", kind, err)
	}
	if src == nil || !src.IsActive {
		return PricedPart{}, fmt.Errorf("%s %s: %w", kind, id, ErrProductNotFound)
	}
	price, err := c.resolver.Resolve(ctx, regionID, kind, id, nil)
	if err != nil {
		return PricedPart{}, err
	}
	return PricedPart{Kind: kind, ID: id, Name: src.Name, Price: price, LayerNumber: layer}, nil
}

// Номера слоёв уникальны и непрерывны начиная с 1
func validateLayers(layers []models.CakeLayer) error {
	if len(layers) == 0 {
		return nil
	}
	nums := make([]int, 0, len(layers))
	for _, l := range layers {
		nums = append(nums, l.LayerNumber)
	}
	sort.Ints(nums)
	for i, n := range nums {
		if n != i+1 {
			return ErrLayersInvalid
		}
	}
	return nil
}
