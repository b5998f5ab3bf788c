package service

import (
	"context"
	"fmt"

	"basti-service/internal/models"
	"basti-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const customCakeName = "Custom cake"

// linePricer превращает строку корзины в оценённую строку. Общий для
// корзины и оформления заказа: заказ никогда не доверяет ценам клиента,
// а пересчитывает их тем же путём, что и чтение корзины.
type linePricer struct {
	catalog  repository.CatalogRepo
	resolver PriceResolver
	composer Composer
}

func newLinePricer(repo *repository.Repository) *linePricer {
	resolver := NewPriceResolver(repo.Catalog, repo.Overrides)
	return &linePricer{
		catalog:  repo.Catalog,
		resolver: resolver,
		composer: NewComposer(repo.Catalog, resolver),
	}
}

func (p *linePricer) price(ctx context.Context, regionID uuid.UUID, line models.CartLine) (PricedLine, error) {
	out := PricedLine{
		LineID:     line.ID,
		Kind:       line.ProductKind,
		ProductID:  line.ProductID,
		Size:       line.Size,
		Category:   line.Category,
		Quantity:   line.Quantity,
		IsIncluded: line.IsIncluded,
	}

	switch line.ProductKind {
	case models.ProductKindFeaturedCake, models.ProductKindAddon, models.ProductKindSweet:
		if line.ProductID == nil {
			return PricedLine{}, fmt.Errorf("line %s: %w", line.ID, ErrLineRefInvalid)
		}
		unit, err := p.resolver.Resolve(ctx, regionID, line.ProductKind, *line.ProductID, line.Size)
		if err != nil {
			return PricedLine{}, fmt.Errorf("line %s: %w", line.ID, err)
		}
		src, err := p.catalog.PriceSource(ctx, line.ProductKind, *line.ProductID)
		if err != nil {
			return PricedLine{}, fmt.Errorf("line %s: %w", line.ID, err)
		}
		out.Name = src.Name
		out.ImageURL = src.ImageURL
		out.UnitPrice = unit

	case models.ProductKindPredesignedCake:
		if line.ProductID == nil {
			return PricedLine{}, fmt.Errorf("line %s: %w", line.ID, ErrLineRefInvalid)
		}
		cake, err := p.catalog.GetPredesigned(ctx, *line.ProductID)
		if err != nil {
			return PricedLine{}, fmt.Errorf("line %s: %w", line.ID, err)
		}
		if cake == nil || !cake.IsActive {
			return PricedLine{}, fmt.Errorf("line %s: %w", line.ID, ErrProductNotFound)
		}
		priced, err := p.composer.PriceAndValidate(ctx, regionID, models.CustomCakeConfig{
			ShapeID:         cake.Config.ShapeID,
			FlavorID:        cake.Config.FlavorID,
			DecorationID:    cake.Config.DecorationID,
			FrostColorValue: cake.Config.FrostColorValue,
		})
		if err != nil {
			return PricedLine{}, fmt.Errorf("line %s: %w", line.ID, err)
		}
		out.Name = cake.Name
		out.ImageURL = cake.ImageURL
		out.FrostColorValue = cake.Config.FrostColorValue
		out.UnitPrice = priced.UnitPrice
		out.Parts = priced.Parts

	case models.ProductKindCustomCake:
		if line.CustomConfig == nil {
			return PricedLine{}, fmt.Errorf("line %s: %w", line.ID, ErrLineRefInvalid)
		}
		priced, err := p.composer.PriceAndValidate(ctx, regionID, *line.CustomConfig)
		if err != nil {
			return PricedLine{}, fmt.Errorf("line %s: %w", line.ID, err)
		}
		out.Name = customCakeName
		out.ImageURL = line.CustomConfig.ImageURL
		out.FrostColorValue = line.CustomConfig.FrostColorValue
		out.Message = line.CustomConfig.Message
		out.UnitPrice = priced.UnitPrice
		out.Parts = priced.Parts

	default:
		return PricedLine{}, fmt.Errorf("line %s: %w", line.ID, ErrLineRefInvalid)
	}

	out.LineTotal = out.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	return out, nil
}
