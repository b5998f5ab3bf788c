package service

import (
	"context"
	"errors"
	"strings"

	"basti-service/internal/models"
	"basti-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type catalogService struct {
	repo     *repository.Repository
	resolver PriceResolver
	composer Composer
}

func NewCatalogService(repo *repository.Repository) CatalogService {
	resolver := NewPriceResolver(repo.Catalog, repo.Overrides)
	return &catalogService{
		repo:     repo,
		resolver: resolver,
		composer: NewComposer(repo.Catalog, resolver),
	}
}

func (s *catalogService) GetCatalog(ctx context.Context, regionID uuid.UUID) (*PricedCatalog, error) {
	region, err := s.repo.Catalog.GetRegion(ctx, regionID)
	if err != nil {
		return nil, err
	}
	if region == nil || !region.IsActive {
		return nil, ErrRegionNotFound
	}

	overrides, err := s.repo.Overrides.ListForRegion(ctx, regionID)
	if err != nil {
		return nil, err
	}
	ovByKey := make(map[string]*models.RegionPriceOverride, len(overrides))
	for i := range overrides {
		ovByKey[overrideKey(overrides[i].ProductKind, overrides[i].ProductID)] = &overrides[i]
	}

	out := &PricedCatalog{}

	featured, err := s.repo.Catalog.ListFeatured(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, c := range featured {
		price, sizes := effectivePrices(c.Price, c.SizesPrices, ovByKey[overrideKey(models.ProductKindFeaturedCake, c.ID)])
		out.Featured = append(out.Featured, PricedCatalogItem{
			ID: c.ID, Name: c.Name, Description: c.Description, ImageURL: c.ImageURL,
			Price: price, SizesPrices: sizes,
		})
	}

	addons, err := s.repo.Catalog.ListAddons(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, a := range addons {
		p := a.Price
		price, _ := effectivePrices(&p, nil, ovByKey[overrideKey(models.ProductKindAddon, a.ID)])
		out.Addons = append(out.Addons, PricedCatalogItem{
			ID: a.ID, Name: a.Name, Description: a.Description, ImageURL: a.ImageURL, Price: price,
		})
	}

	sweets, err := s.repo.Catalog.ListSweets(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, sw := range sweets {
		p := sw.Price
		price, _ := effectivePrices(&p, nil, ovByKey[overrideKey(models.ProductKindSweet, sw.ID)])
		out.Sweets = append(out.Sweets, PricedCatalogItem{
			ID: sw.ID, Name: sw.Name, Description: sw.Description, ImageURL: sw.ImageURL, Price: price,
		})
	}

	// Примитивы композиции региональных переопределений не имеют
	shapes, err := s.repo.Catalog.ListShapes(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, sh := range shapes {
		p := sh.Price
		out.Shapes = append(out.Shapes, PricedCatalogItem{ID: sh.ID, Name: sh.Name, Price: &p})
	}
	flavors, err := s.repo.Catalog.ListFlavors(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, fl := range flavors {
		p := fl.Price
		out.Flavors = append(out.Flavors, PricedCatalogItem{ID: fl.ID, Name: fl.Name, Price: &p})
	}
	decorations, err := s.repo.Catalog.ListDecorations(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, d := range decorations {
		p := d.Price
		out.Decorations = append(out.Decorations, PricedCatalogItem{ID: d.ID, Name: d.Name, Price: &p})
	}

	// Шаблоны не хранят цену — считаем её через композитор, как для
	// кастомного торта из тех же частей
	predesigned, err := s.repo.Catalog.ListPredesigned(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, c := range predesigned {
		priced, err := s.composer.PriceAndValidate(ctx, regionID, models.CustomCakeConfig{
			ShapeID:         c.Config.ShapeID,
			FlavorID:        c.Config.FlavorID,
			DecorationID:    c.Config.DecorationID,
			FrostColorValue: c.Config.FrostColorValue,
		})
		if err != nil {
			// Шаблон с выбывшей частью не валит всю витрину — он просто
			// не показывается, пока админ не починит конфигурацию.
			// Оплата по-прежнему fail-closed: корзина и оформление такой
			// шаблон отвергнут
			if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrUnresolvedPrice) || errors.Is(err, ErrUnresolvedSize) {
				continue
			}
			return nil, err
		}
		price := priced.UnitPrice
		out.Predesigned = append(out.Predesigned, PricedCatalogItem{
			ID: c.ID, Name: c.Name, Description: c.Description, ImageURL: c.ImageURL, Price: &price,
		})
	}

	return out, nil
}

func (s *catalogService) ListRegions(ctx context.Context) ([]models.Region, error) {
	return s.repo.Catalog.ListRegions(ctx)
}

func (s *catalogService) SavePredesigned(ctx context.Context, in SavePredesignedInput) (*models.PredesignedCake, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if err := s.composer.ValidateParts(ctx, in.Config.ShapeID, in.Config.FlavorID, in.Config.DecorationID); err != nil {
		return nil, err
	}

	cake := &models.PredesignedCake{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    in.ImageURL,
		IsActive:    true,
		Config: models.DesignedCakeConfig{
			ShapeID:         in.Config.ShapeID,
			FlavorID:        in.Config.FlavorID,
			DecorationID:    in.Config.DecorationID,
			FrostColorValue: in.Config.FrostColorValue,
		},
	}
	if err := s.repo.Catalog.CreatePredesigned(ctx, cake); err != nil {
		return nil, err
	}
	return s.repo.Catalog.GetPredesigned(ctx, cake.ID)
}

func (s *catalogService) SaveProduct(ctx context.Context, in ProductInput) (*ProductSummary, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !in.Kind.DirectlyPriced() {
		return nil, ErrProductKindInvalid
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	// Таблица размеров есть только у featured_cake, остальным нужна плоская цена
	if in.Kind == models.ProductKindFeaturedCake {
		if in.Price == nil && len(in.SizesPrices) == 0 {
			return nil, ErrPriceMissing
		}
	} else {
		if len(in.SizesPrices) > 0 {
			return nil, ErrPriceInvalid
		}
		if in.Price == nil {
			return nil, ErrPriceMissing
		}
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, ErrPriceInvalid
	}
	for _, p := range in.SizesPrices {
		if p.IsNegative() {
			return nil, ErrPriceInvalid
		}
	}

	rec := &repository.ProductRecord{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    in.ImageURL,
		Price:       in.Price,
		SizesPrices: in.SizesPrices,
	}
	if in.ID != nil {
		src, err := s.repo.Catalog.PriceSource(ctx, in.Kind, *in.ID)
		if err != nil {
			return nil, err
		}
		if src == nil {
			return nil, ErrProductNotFound
		}
		rec.ID = *in.ID
	}
	if err := s.repo.Catalog.SaveProduct(ctx, in.Kind, rec); err != nil {
		return nil, err
	}
	return &ProductSummary{
		ID: rec.ID, Kind: in.Kind, Name: rec.Name,
		Price: rec.Price, SizesPrices: rec.SizesPrices, IsActive: rec.IsActive,
	}, nil
}

// SetProductActive скрывает товар с витрины и из добавления в корзину;
// уже оформленные заказы хранят собственные снимки и не затрагиваются
func (s *catalogService) SetProductActive(ctx context.Context, kind models.ProductKind, id uuid.UUID, active bool) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if !kind.DirectlyPriced() {
		return ErrProductKindInvalid
	}
	affected, err := s.repo.Catalog.SetProductActive(ctx, kind, id, active)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *catalogService) SetOverride(ctx context.Context, in SetOverrideInput) (*models.RegionPriceOverride, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !in.Kind.Overridable() {
		return nil, ErrOverrideKindInvalid
	}
	if in.Price == nil && len(in.SizesPrices) == 0 {
		return nil, ErrOverridePriceMissing
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, ErrPriceInvalid
	}
	for _, p := range in.SizesPrices {
		if p.IsNegative() {
			return nil, ErrPriceInvalid
		}
	}

	region, err := s.repo.Catalog.GetRegion(ctx, in.RegionID)
	if err != nil {
		return nil, err
	}
	if region == nil {
		return nil, ErrRegionNotFound
	}
	src, err := s.repo.Catalog.PriceSource(ctx, in.Kind, in.ProductID)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrProductNotFound
	}

	ov := &models.RegionPriceOverride{
		RegionID:    in.RegionID,
		ProductKind: in.Kind,
		ProductID:   in.ProductID,
		Price:       in.Price,
		SizesPrices: in.SizesPrices,
	}
	if err := s.repo.Overrides.Upsert(ctx, ov); err != nil {
		return nil, err
	}
	return s.repo.Overrides.Get(ctx, in.RegionID, in.Kind, in.ProductID)
}

// DeleteOverride возвращает товару базовую цену каталога, сам товар не трогает
func (s *catalogService) DeleteOverride(ctx context.Context, regionID uuid.UUID, kind models.ProductKind, productID uuid.UUID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	deleted, err := s.repo.Overrides.DeleteByKey(ctx, regionID, kind, productID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

func overrideKey(kind models.ProductKind, id uuid.UUID) string {
	return string(kind) + ":" + id.String()
}

// effectivePrices накладывает региональное переопределение на каталожные
// цены: плоская цена замещается, таблица размеров сливается поразмерно
func effectivePrices(base *decimal.Decimal, baseSizes models.SizePriceMap, ov *models.RegionPriceOverride) (*decimal.Decimal, models.SizePriceMap) {
	price := base
	sizes := baseSizes
	if ov == nil {
		return price, sizes
	}
	if ov.Price != nil {
		price = ov.Price
	}
	if len(ov.SizesPrices) > 0 {
		merged := make(models.SizePriceMap, len(baseSizes)+len(ov.SizesPrices))
		for k, v := range baseSizes {
			merged[k] = v
		}
		for k, v := range ov.SizesPrices {
			merged[k] = v
		}
		sizes = merged
	}
	return price, sizes
}
