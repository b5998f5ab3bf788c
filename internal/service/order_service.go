package service

import (
	"context"
	"fmt"
	"time"

	"basti-service/internal/models"
	"basti-service/internal/repository"

	"github.com/google/uuid"
	"github.com/nanorand/nanorand"
	"github.com/shopspring/decimal"
)

type orderService struct {
	repo      *repository.Repository
	events    EventBus
	now       func() time.Time
	newNumber func() (string, error)
}

func NewOrderService(repo *repository.Repository, events EventBus) OrderService {
	return &orderService{
		repo:   repo,
		events: events,
		now:    time.Now,
		newNumber: func() (string, error) {
			code, err := nanorand.Gen(10)
			if err != nil {
				return "", err
			}
			return "BSTN" + code, nil
		},
	}
}

// Допустимые переходы статуса; отмена доступна из любого нетерминального
var statusTransitions = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.OrderStatusPending:        {models.OrderStatusConfirmed: true},
	models.OrderStatusConfirmed:      {models.OrderStatusPreparing: true},
	models.OrderStatusPreparing:      {models.OrderStatusReady: true},
	models.OrderStatusReady:          {models.OrderStatusOutForDelivery: true},
	models.OrderStatusOutForDelivery: {models.OrderStatusDelivered: true},
}

func knownStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusPreparing,
		models.OrderStatusReady, models.OrderStatusOutForDelivery,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return true
	}
	return false
}

func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if in.DiscountAmount.IsNegative() {
		return nil, ErrDiscountInvalid
	}

	region, err := s.repo.Catalog.GetRegion(ctx, in.RegionID)
	if err != nil {
		return nil, err
	}
	if region == nil || !region.IsActive {
		return nil, ErrRegionNotFound
	}

	number, err := s.newNumber()
	if err != nil {
		return nil, fmt.Errorf("generate order number: %w", err)
	}

	var order *models.Order
	now := s.now()

	// Чтение цен, запись заказа и чистка корзины — одна транзакция.
	// Любой сбой до коммита оставляет корзину нетронутой и заказ несозданным.
	err = s.repo.Carts.WithTx(ctx, func(tx *repository.Repository) error {
		lines, err := s.collectLines(ctx, tx, userID, in.LineIDs)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		pricer := newLinePricer(tx)

		total := decimal.Zero
		itemsDB := make([]models.OrderItem, 0, len(lines))
		consumed := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			// Цене клиента не верим: пересчитываем так же, как корзина
			pl, err := pricer.price(ctx, in.RegionID, line)
			if err != nil {
				return err
			}
			total = total.Add(pl.LineTotal)
			itemsDB = append(itemsDB, snapshotItem(pl))
			consumed = append(consumed, line.ID)
		}

		if in.DiscountAmount.GreaterThan(total) {
			return ErrDiscountInvalid
		}

		order = &models.Order{
			Number:          number,
			UserID:          userID,
			RegionID:        in.RegionID,
			LocationID:      in.LocationID,
			PaymentMethodID: in.PaymentMethodID,
			Status:          models.OrderStatusPending,
			TotalPrice:      total,
			DiscountAmount:  in.DiscountAmount,
			FinalPrice:      total.Sub(in.DiscountAmount),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		for i := range itemsDB {
			itemsDB[i].OrderID = order.ID
			itemsDB[i].CreatedAt = now
		}
		if err := tx.OrderItems.BulkCreate(ctx, itemsDB); err != nil {
			return err
		}

		// Удаляем только строки, всё ещё включённые на момент коммита:
		// конкурентное «отложить на потом» не должно быть молча затёрто
		deleted, err := tx.Carts.DeleteIncludedByIDs(ctx, userID, consumed)
		if err != nil {
			return err
		}
		if deleted != int64(len(consumed)) {
			return ErrCheckoutConflict
		}

		ordWith, err := tx.Orders.GetByID(ctx, order.ID)
		if err != nil {
			return err
		}
		order = ordWith
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		evItems := make([]OrderItemEvent, 0, len(order.Items))
		for _, it := range order.Items {
			evItems = append(evItems, OrderItemEvent{
				Kind:      it.ProductKind,
				Name:      it.Name,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				LineTotal: it.LineTotal,
			})
		}
		_ = s.events.PublishOrderPlaced(ctx, OrderPlacedEvent{
			OrderID:    order.ID,
			Number:     order.Number,
			UserID:     order.UserID,
			RegionID:   order.RegionID,
			Items:      evItems,
			TotalPrice: order.TotalPrice,
			FinalPrice: order.FinalPrice,
			CreatedAt:  order.CreatedAt,
		})
	}

	return order, nil
}

// collectLines выбирает оформляемые строки: явное подмножество или вся
// включённая корзина. Отсутствующая строка валит весь запрос.
func (s *orderService) collectLines(ctx context.Context, tx *repository.Repository, userID uuid.UUID, lineIDs []uuid.UUID) ([]models.CartLine, error) {
	if lineIDs == nil {
		return tx.Carts.ListForUser(ctx, userID, true)
	}

	ids := dedupeIDs(lineIDs)
	rows, err := tx.Carts.ListByIDsForUser(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(ids) {
		return nil, ErrLineNotFound
	}
	for _, row := range rows {
		if !row.IsIncluded {
			return nil, fmt.Errorf("line %s: %w", row.ID, ErrLineNotIncluded)
		}
	}
	return rows, nil
}

// snapshotItem копирует оценённую строку в позицию заказа: цена и описание
// замораживаются, последующие правки каталога на них не влияют
func snapshotItem(pl PricedLine) models.OrderItem {
	item := models.OrderItem{
		ProductKind: pl.Kind,
		ProductID:   pl.ProductID,
		Name:        pl.Name,
		ImageURL:    pl.ImageURL,
		Size:        pl.Size,
		UnitPrice:   pl.UnitPrice,
		Quantity:    pl.Quantity,
		LineTotal:   pl.LineTotal,
	}
	if len(pl.Parts) > 0 || pl.FrostColorValue != "" || pl.Message != "" {
		item.Options = &models.OrderItemOptions{
			FrostColorValue: pl.FrostColorValue,
			Message:         pl.Message,
			Parts:           orderItemParts(pl.Parts),
		}
	}
	return item
}

func orderItemParts(parts []PricedPart) []models.OrderItemPart {
	out := make([]models.OrderItemPart, 0, len(parts))
	for _, p := range parts {
		out = append(out, models.OrderItemPart{
			Kind:        p.Kind,
			Name:        p.Name,
			Price:       p.Price,
			LayerNumber: p.LayerNumber,
		})
	}
	return out
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var ord *models.Order
	if role == RoleAdmin {
		ord, err = s.repo.Orders.GetByID(ctx, id)
	} else {
		ord, err = s.repo.Orders.GetByIDForUser(ctx, id, userID)
	}
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *orderService) ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}

	if role != RoleAdmin {
		f.UserID = &userID
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	ordersPtr, total, err := s.repo.Orders.List(ctx, repository.OrderListFilter{
		UserID: f.UserID,
		Status: f.Status,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
	if err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, len(ordersPtr))
	for i, o := range ordersPtr {
		orders[i] = *o
	}
	return orders, total, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !knownStatus(status) {
		return nil, ErrStatusInvalid
	}

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.transition(ctx, ord, status); err != nil {
		return nil, err
	}
	return s.repo.Orders.GetByID(ctx, id)
}

func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if role != RoleAdmin && ord.UserID != userID {
		// не раскрываем чужие заказы
		return nil, ErrOrderNotFound
	}

	if err := s.transition(ctx, ord, models.OrderStatusCancelled); err != nil {
		return nil, err
	}
	return s.repo.Orders.GetByID(ctx, id)
}

func (s *orderService) transition(ctx context.Context, ord *models.Order, to models.OrderStatus) error {
	if ord.Status.Terminal() {
		return ErrStatusTerminal
	}
	if to != models.OrderStatusCancelled && !statusTransitions[ord.Status][to] {
		return ErrTransitionNotAllowed
	}
	if err := s.repo.Orders.UpdateStatus(ctx, ord.ID, to); err != nil {
		return err
	}

	if s.events != nil {
		_ = s.events.PublishOrderStatusChanged(ctx, OrderStatusChangedEvent{
			OrderID:   ord.ID,
			UserID:    ord.UserID,
			From:      ord.Status,
			To:        to,
			ChangedAt: s.now(),
		})
	}
	return nil
}
