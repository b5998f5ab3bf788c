package service

import (
	"context"
	"errors"
	"fmt"

	"basti-service/internal/models"
	"basti-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceResolver возвращает действующую цену товара в регионе.
// Порядок подбора строго фиксирован:
//  1. региональная цена размера,
//  2. региональная плоская цена,
//  3. каталожная цена размера,
//  4. каталожная плоская цена.
//
// Если ни один слой не дал цену — ошибка, а не ноль. Чистое чтение,
// безопасно для конкурентных и повторных вызовов.
type PriceResolver interface {
	Resolve(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID, size *string) (decimal.Decimal, error)
}

type priceResolver struct {
	catalog   repository.CatalogRepo
	overrides repository.OverrideRepo
}

func NewPriceResolver(catalog repository.CatalogRepo, overrides repository.OverrideRepo) PriceResolver {
	return &priceResolver{catalog: catalog, overrides: overrides}
}

func (r *priceResolver) Resolve(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID, size *string) (decimal.Decimal, error) {
	src, err := r.catalog.PriceSource(ctx, kind, productID)
	if err != nil {
		if errors.Is(err, repository.ErrUnpriceableKind) {
			return decimal.Zero, fmt.Errorf("%s: %w", kind, ErrUnresolvedPrice)
		}
		return decimal.Zero, fmt.Errorf("load price source: %w", err)
	}
	if src == nil || !src.IsActive {
		return decimal.Zero, fmt.Errorf("%s %s: %w", kind, productID, ErrProductNotFound)
	}

	var ov *models.RegionPriceOverride
	if kind.Overridable() {
		ov, err = r.overrides.Get(ctx, regionID, kind, productID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("load region override: %w", err)
		}
	}

	if size != nil {
		if ov != nil {
			if p, ok := ov.SizesPrices[*size]; ok {
				return p, nil
			}
			if ov.Price != nil {
				return *ov.Price, nil
			}
		}
		if p, ok := src.SizesPrices[*size]; ok {
			return p, nil
		}
		if src.Price != nil {
			return *src.Price, nil
		}
		return decimal.Zero, fmt.Errorf("%s %s size %q: %w", kind, productID, *size, ErrUnresolvedSize)
	}

	if ov != nil && ov.Price != nil {
		return *ov.Price, nil
	}
	if src.Price != nil {
		return *src.Price, nil
	}
	return decimal.Zero, fmt.Errorf("%s %s: %w", kind, productID, ErrUnresolvedPrice)
}
