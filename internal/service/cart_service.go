package service

import (
	"context"
	"fmt"

	"basti-service/internal/models"
	"basti-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cartService struct {
	repo   *repository.Repository
	pricer *linePricer
}

func NewCartService(repo *repository.Repository) CartService {
	return &cartService{
		repo:   repo,
		pricer: newLinePricer(repo),
	}
}

func (s *cartService) GetCart(ctx context.Context, regionID uuid.UUID) (*CategorizedCart, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, userID, regionID)
}

func (s *cartService) GetSaved(ctx context.Context, regionID uuid.UUID) ([]PricedLine, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.checkRegion(ctx, regionID); err != nil {
		return nil, err
	}

	lines, err := s.repo.Carts.ListForUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	out := make([]PricedLine, 0, len(lines))
	for _, line := range lines {
		pl, err := s.pricer.price(ctx, regionID, line)
		if err != nil {
			return nil, err
		}
		out = append(out, pl)
	}
	return out, nil
}

func (s *cartService) AddLine(ctx context.Context, in AddLineInput) (*CategorizedCart, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, ErrQuantityInvalid
	}
	if err := validateLineRef(in.Kind, in.ProductID, in.CustomConfig); err != nil {
		return nil, err
	}
	if err := validateCategory(in.Kind, in.Category); err != nil {
		return nil, err
	}
	if err := s.checkRegion(ctx, in.RegionID); err != nil {
		return nil, err
	}

	line := models.CartLine{
		UserID:       userID,
		ProductKind:  in.Kind,
		ProductID:    in.ProductID,
		CustomConfig: in.CustomConfig,
		Size:         in.Size,
		Category:     in.Category,
		Quantity:     in.Quantity,
		IsIncluded:   true,
	}

	// Оцениваем строку до записи: несуществующий товар или неразрешимая
	// цена отклоняются сразу, а не при следующем чтении корзины
	if _, err := s.pricer.price(ctx, in.RegionID, line); err != nil {
		return nil, err
	}

	if in.Kind.UniquelyKeyed() {
		// Дубликат однозначно ключуемого товара — не ошибка, а слияние.
		// Upsert в базе закрывает и гонку двух одинаковых добавлений:
		// проигравший вставку прибавляет своё количество к строке победителя
		if err := s.repo.Carts.UpsertLine(ctx, &line); err != nil {
			return nil, err
		}
		return s.aggregate(ctx, userID, in.RegionID)
	}

	if err := s.repo.Carts.Create(ctx, &line); err != nil {
		return nil, err
	}
	return s.aggregate(ctx, userID, in.RegionID)
}

func (s *cartService) UpdateQuantity(ctx context.Context, lineID, regionID uuid.UUID, qty int) (*CategorizedCart, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if qty < 1 {
		return nil, ErrQuantityInvalid
	}
	if err := s.checkRegion(ctx, regionID); err != nil {
		return nil, err
	}

	line, err := s.repo.Carts.GetByIDForUser(ctx, lineID, userID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrLineNotFound
	}
	if err := s.repo.Carts.UpdateQuantity(ctx, line.ID, qty); err != nil {
		return nil, err
	}
	return s.aggregate(ctx, userID, regionID)
}

func (s *cartService) ToggleInclusion(ctx context.Context, lineID, regionID uuid.UUID, included bool) (*CategorizedCart, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.checkRegion(ctx, regionID); err != nil {
		return nil, err
	}

	line, err := s.repo.Carts.GetByIDForUser(ctx, lineID, userID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrLineNotFound
	}
	if err := s.repo.Carts.SetIncluded(ctx, line.ID, included); err != nil {
		return nil, err
	}
	return s.aggregate(ctx, userID, regionID)
}

func (s *cartService) DeleteLines(ctx context.Context, regionID uuid.UUID, lineIDs []uuid.UUID) (*CategorizedCart, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if len(lineIDs) == 0 {
		return nil, ErrLineNotFound
	}
	if err := s.checkRegion(ctx, regionID); err != nil {
		return nil, err
	}

	ids := dedupeIDs(lineIDs)

	// Пакет удаляется целиком или не удаляется вовсе: одна отсутствующая
	// (или чужая) строка откатывает весь батч
	err = s.repo.Carts.WithTx(ctx, func(tx *repository.Repository) error {
		rows, err := tx.Carts.ListByIDsForUser(ctx, userID, ids)
		if err != nil {
			return err
		}
		if len(rows) != len(ids) {
			return ErrLineNotFound
		}
		_, err = tx.Carts.DeleteByIDsForUser(ctx, userID, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, userID, regionID)
}

func (s *cartService) checkRegion(ctx context.Context, regionID uuid.UUID) error {
	region, err := s.repo.Catalog.GetRegion(ctx, regionID)
	if err != nil {
		return err
	}
	if region == nil || !region.IsActive {
		return ErrRegionNotFound
	}
	return nil
}

// aggregate пересобирает корзину с нуля: заново разрешает цену каждой
// включённой строки и группирует по категории и виду товара
func (s *cartService) aggregate(ctx context.Context, userID, regionID uuid.UUID) (*CategorizedCart, error) {
	if err := s.checkRegion(ctx, regionID); err != nil {
		return nil, err
	}

	lines, err := s.repo.Carts.ListForUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	cart := &CategorizedCart{Total: decimal.Zero}
	for _, line := range lines {
		pl, err := s.pricer.price(ctx, regionID, line)
		if err != nil {
			return nil, err
		}

		switch line.Category {
		case models.CartCategoryBigCakes:
			appendCakeLine(&cart.BigCakes, pl)
		case models.CartCategorySmallCakes:
			appendCakeLine(&cart.SmallCakes, pl)
		case models.CartCategoryOthers:
			switch line.ProductKind {
			case models.ProductKindSweet:
				cart.Others.Sweets = append(cart.Others.Sweets, pl)
			case models.ProductKindAddon:
				cart.Others.Addons = append(cart.Others.Addons, pl)
			}
		}
		cart.Total = cart.Total.Add(pl.LineTotal)
	}
	return cart, nil
}

func appendCakeLine(g *CakeGroup, pl PricedLine) {
	switch pl.Kind {
	case models.ProductKindFeaturedCake:
		g.Featured = append(g.Featured, pl)
	case models.ProductKindPredesignedCake:
		g.Predesigned = append(g.Predesigned, pl)
	case models.ProductKindCustomCake:
		g.Custom = append(g.Custom, pl)
	}
}

// Ровно одна ссылка на товар: kind — дискриминатор
func validateLineRef(kind models.ProductKind, productID *uuid.UUID, cfg *models.CustomCakeConfig) error {
	switch kind {
	case models.ProductKindCustomCake:
		if cfg == nil || productID != nil {
			return ErrLineRefInvalid
		}
	case models.ProductKindFeaturedCake, models.ProductKindAddon,
		models.ProductKindSweet, models.ProductKindPredesignedCake:
		if productID == nil || cfg != nil {
			return ErrLineRefInvalid
		}
	default:
		return fmt.Errorf("kind %q: %w", kind, ErrLineRefInvalid)
	}
	return nil
}

// Категория задаётся клиентом, но обязана сочетаться с видом товара:
// торты живут в big/small, сладости и дополнения — в others
func validateCategory(kind models.ProductKind, cat models.CartCategory) error {
	switch cat {
	case models.CartCategoryBigCakes, models.CartCategorySmallCakes:
		switch kind {
		case models.ProductKindFeaturedCake, models.ProductKindPredesignedCake, models.ProductKindCustomCake:
			return nil
		}
		return ErrCategoryMismatch
	case models.CartCategoryOthers:
		switch kind {
		case models.ProductKindSweet, models.ProductKindAddon:
			return nil
		}
		return ErrCategoryMismatch
	default:
		return ErrCategoryInvalid
	}
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
