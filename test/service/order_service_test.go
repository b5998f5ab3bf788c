package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"basti-service/internal/models"
	"basti-service/internal/repository"
	"basti-service/internal/service"

	"github.com/google/uuid"
)

// Стенд оформления заказа: каталог, включённые строки корзины и захват
// того, что транзакция записала и удалила
type checkoutFixture struct {
	repo         *repository.Repository
	createdOrder *models.Order
	createdItems []models.OrderItem
	deletedIDs   []uuid.UUID
}

func newCheckoutFixture(t *testing.T, sources map[uuid.UUID]*repository.PriceSource, lines []models.CartLine) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{}

	catalog := fixtureCatalog(sources)
	byID := make(map[uuid.UUID]models.CartLine, len(lines))
	for _, l := range lines {
		byID[l.ID] = l
	}

	carts := &MockCartRepo{
		ListForUserFunc: func(ctx context.Context, uid uuid.UUID, included bool) ([]models.CartLine, error) {
			var out []models.CartLine
			for _, l := range lines {
				if l.IsIncluded == included {
					out = append(out, l)
				}
			}
			return out, nil
		},
		ListByIDsForUserFunc: func(ctx context.Context, uid uuid.UUID, ids []uuid.UUID) ([]models.CartLine, error) {
			var out []models.CartLine
			for _, id := range ids {
				if l, ok := byID[id]; ok && l.UserID == uid {
					out = append(out, l)
				}
			}
			return out, nil
		},
		DeleteIncludedByIDsFunc: func(ctx context.Context, uid uuid.UUID, ids []uuid.UUID) (int64, error) {
			var n int64
			for _, id := range ids {
				if l, ok := byID[id]; ok && l.IsIncluded {
					f.deletedIDs = append(f.deletedIDs, id)
					n++
				}
			}
			return n, nil
		},
	}

	orders := &MockOrderRepo{
		CreateFunc: func(ctx context.Context, o *models.Order) error {
			o.ID = uuid.New()
			f.createdOrder = o
			return nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			if f.createdOrder == nil || f.createdOrder.ID != id {
				return nil, nil
			}
			withItems := *f.createdOrder
			withItems.Items = f.createdItems
			return &withItems, nil
		},
	}

	items := &MockOrderItemRepo{
		BulkCreateFunc: func(ctx context.Context, batch []models.OrderItem) error {
			f.createdItems = batch
			return nil
		},
	}

	f.repo = newTestRepository(catalog, nil, carts, orders, items)
	return f
}

func TestOrderService_PlaceOrder_SnapshotsAndClearsCart(t *testing.T) {
	userID := uuid.New()
	regionID := uuid.New()
	featuredID, sweetID := uuid.New(), uuid.New()
	line1, line2 := uuid.New(), uuid.New()

	f := newCheckoutFixture(t, map[uuid.UUID]*repository.PriceSource{
		featuredID: fixtureSource(models.ProductKindFeaturedCake, featuredID, "Red velvet", "100"),
		sweetID:    fixtureSource(models.ProductKindSweet, sweetID, "Brownie", "30"),
	}, []models.CartLine{
		{ID: line1, UserID: userID, ProductKind: models.ProductKindFeaturedCake, ProductID: &featuredID,
			Category: models.CartCategoryBigCakes, Quantity: 2, IsIncluded: true},
		{ID: line2, UserID: userID, ProductKind: models.ProductKindSweet, ProductID: &sweetID,
			Category: models.CartCategoryOthers, Quantity: 1, IsIncluded: true},
	})

	var placed *service.OrderPlacedEvent
	events := &MockEventBus{
		PublishOrderPlacedFunc: func(ctx context.Context, e service.OrderPlacedEvent) error {
			placed = &e
			return nil
		},
	}

	svc := service.NewOrderService(f.repo, events)
	order, err := svc.PlaceOrder(customerCtx(userID), service.PlaceOrderInput{
		RegionID: regionID, LocationID: uuid.New(), PaymentMethodID: uuid.New(),
		DiscountAmount: dec("30"),
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	// 2*100 + 30 = 230, скидка 30
	if !order.TotalPrice.Equal(dec("230")) {
		t.Errorf("total expected 230, got %s", order.TotalPrice)
	}
	if !order.FinalPrice.Equal(dec("200")) {
		t.Errorf("final expected 200, got %s", order.FinalPrice)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("expected pending, got %s", order.Status)
	}
	if !strings.HasPrefix(order.Number, "BSTN") || len(order.Number) == len("BSTN") {
		t.Errorf("expected BSTN-prefixed order number, got %q", order.Number)
	}

	if len(f.createdItems) != 2 {
		t.Fatalf("expected 2 snapshot items, got %d", len(f.createdItems))
	}
	first := f.createdItems[0]
	if first.Name != "Red velvet" || !first.UnitPrice.Equal(dec("100")) || !first.LineTotal.Equal(dec("200")) {
		t.Errorf("snapshot mismatch: %+v", first)
	}

	if len(f.deletedIDs) != 2 {
		t.Errorf("expected both lines consumed, got %d", len(f.deletedIDs))
	}

	if placed == nil {
		t.Fatal("expected order placed event")
	}
	if !placed.FinalPrice.Equal(dec("200")) || len(placed.Items) != 2 {
		t.Errorf("event mismatch: %+v", placed)
	}
}

func TestOrderService_PlaceOrder_CustomCakeSnapshotKeepsParts(t *testing.T) {
	userID := uuid.New()
	regionID := uuid.New()
	shapeID, flavorID, decorationID := uuid.New(), uuid.New(), uuid.New()
	lineID := uuid.New()

	f := newCheckoutFixture(t, map[uuid.UUID]*repository.PriceSource{
		shapeID:      fixtureSource(models.ProductKindCakeShape, shapeID, "Round", "10"),
		flavorID:     fixtureSource(models.ProductKindCakeFlavor, flavorID, "Vanilla", "5"),
		decorationID: fixtureSource(models.ProductKindCakeDecoration, decorationID, "Sprinkles", "7"),
	}, []models.CartLine{
		{ID: lineID, UserID: userID, ProductKind: models.ProductKindCustomCake,
			CustomConfig: &models.CustomCakeConfig{
				ShapeID: shapeID, FlavorID: flavorID, DecorationID: decorationID,
				FrostColorValue: "#AA00FF", Message: "Happy birthday",
				Layers: []models.CakeLayer{{LayerNumber: 1, FlavorID: flavorID}},
			},
			Category: models.CartCategorySmallCakes, Quantity: 1, IsIncluded: true},
	})

	svc := service.NewOrderService(f.repo, nil)
	order, err := svc.PlaceOrder(customerCtx(userID), service.PlaceOrderInput{
		RegionID: regionID, LocationID: uuid.New(), PaymentMethodID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	// 10 + 5 + 7 + слой (5)
	if !order.TotalPrice.Equal(dec("27")) {
		t.Errorf("total expected 27, got %s", order.TotalPrice)
	}

	item := f.createdItems[0]
	if item.Options == nil {
		t.Fatal("expected snapshot options for custom cake")
	}
	if item.Options.FrostColorValue != "#AA00FF" || item.Options.Message != "Happy birthday" {
		t.Errorf("options mismatch: %+v", item.Options)
	}
	if len(item.Options.Parts) != 4 {
		t.Errorf("expected 4 snapshot parts, got %d", len(item.Options.Parts))
	}
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	userID := uuid.New()
	f := newCheckoutFixture(t, nil, nil)

	svc := service.NewOrderService(f.repo, nil)
	_, err := svc.PlaceOrder(customerCtx(userID), service.PlaceOrderInput{
		RegionID: uuid.New(), LocationID: uuid.New(), PaymentMethodID: uuid.New(),
	})
	if !errors.Is(err, service.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestOrderService_PlaceOrder_DiscountValidation(t *testing.T) {
	userID := uuid.New()
	sweetID, lineID := uuid.New(), uuid.New()

	f := newCheckoutFixture(t, map[uuid.UUID]*repository.PriceSource{
		sweetID: fixtureSource(models.ProductKindSweet, sweetID, "Brownie", "30"),
	}, []models.CartLine{
		{ID: lineID, UserID: userID, ProductKind: models.ProductKindSweet, ProductID: &sweetID,
			Category: models.CartCategoryOthers, Quantity: 1, IsIncluded: true},
	})
	svc := service.NewOrderService(f.repo, nil)

	_, err := svc.PlaceOrder(customerCtx(userID), service.PlaceOrderInput{
		RegionID: uuid.New(), LocationID: uuid.New(), PaymentMethodID: uuid.New(),
		DiscountAmount: dec("-1"),
	})
	if !errors.Is(err, service.ErrDiscountInvalid) {
		t.Fatalf("negative discount: expected ErrDiscountInvalid, got %v", err)
	}

	_, err = svc.PlaceOrder(customerCtx(userID), service.PlaceOrderInput{
		RegionID: uuid.New(), LocationID: uuid.New(), PaymentMethodID: uuid.New(),
		DiscountAmount: dec("31"),
	})
	if !errors.Is(err, service.ErrDiscountInvalid) {
		t.Fatalf("discount above total: expected ErrDiscountInvalid, got %v", err)
	}
}

func TestOrderService_PlaceOrder_SubsetValidation(t *testing.T) {
	userID := uuid.New()
	sweetID := uuid.New()
	includedID, savedID := uuid.New(), uuid.New()

	f := newCheckoutFixture(t, map[uuid.UUID]*repository.PriceSource{
		sweetID: fixtureSource(models.ProductKindSweet, sweetID, "Brownie", "30"),
	}, []models.CartLine{
		{ID: includedID, UserID: userID, ProductKind: models.ProductKindSweet, ProductID: &sweetID,
			Category: models.CartCategoryOthers, Quantity: 1, IsIncluded: true},
		{ID: savedID, UserID: userID, ProductKind: models.ProductKindSweet, ProductID: &sweetID,
			Category: models.CartCategoryOthers, Quantity: 1, IsIncluded: false},
	})
	svc := service.NewOrderService(f.repo, nil)

	_, err := svc.PlaceOrder(customerCtx(userID), service.PlaceOrderInput{
		RegionID: uuid.New(), LocationID: uuid.New(), PaymentMethodID: uuid.New(),
		LineIDs: []uuid.UUID{includedID, uuid.New()},
	})
	if !errors.Is(err, service.ErrLineNotFound) {
		t.Fatalf("ghost line: expected ErrLineNotFound, got %v", err)
	}

	_, err = svc.PlaceOrder(customerCtx(userID), service.PlaceOrderInput{
		RegionID: uuid.New(), LocationID: uuid.New(), PaymentMethodID: uuid.New(),
		LineIDs: []uuid.UUID{savedID},
	})
	if !errors.Is(err, service.ErrLineNotIncluded) {
		t.Fatalf("saved line: expected ErrLineNotIncluded, got %v", err)
	}
}

func TestOrderService_PlaceOrder_ConcurrentToggleAborts(t *testing.T) {
	userID := uuid.New()
	sweetID, lineID := uuid.New(), uuid.New()

	f := newCheckoutFixture(t, map[uuid.UUID]*repository.PriceSource{
		sweetID: fixtureSource(models.ProductKindSweet, sweetID, "Brownie", "30"),
	}, []models.CartLine{
		{ID: lineID, UserID: userID, ProductKind: models.ProductKindSweet, ProductID: &sweetID,
			Category: models.CartCategoryOthers, Quantity: 1, IsIncluded: true},
	})

	// Между чтением и удалением строку отложили конкурентным запросом
	carts := f.repo.Carts.(*MockCartRepo)
	carts.DeleteIncludedByIDsFunc = func(ctx context.Context, uid uuid.UUID, ids []uuid.UUID) (int64, error) {
		return 0, nil
	}

	svc := service.NewOrderService(f.repo, nil)
	_, err := svc.PlaceOrder(customerCtx(userID), service.PlaceOrderInput{
		RegionID: uuid.New(), LocationID: uuid.New(), PaymentMethodID: uuid.New(),
	})
	if !errors.Is(err, service.ErrCheckoutConflict) {
		t.Fatalf("expected ErrCheckoutConflict, got %v", err)
	}
}

// Сбой записи позиций обязан всплыть из транзакции: заказ не создан,
// событие не опубликовано, корзина останется нетронутой после отката
func TestOrderService_PlaceOrder_ItemWriteFailureAborts(t *testing.T) {
	userID := uuid.New()
	sweetID := uuid.New()
	lineID := uuid.New()

	f := newCheckoutFixture(t, map[uuid.UUID]*repository.PriceSource{
		sweetID: fixtureSource(models.ProductKindSweet, sweetID, "Brownie", "30"),
	}, []models.CartLine{
		{ID: lineID, UserID: userID, ProductKind: models.ProductKindSweet, ProductID: &sweetID,
			Category: models.CartCategoryOthers, Quantity: 1, IsIncluded: true},
	})

	boom := errors.New("bulk insert failed")
	f.repo.OrderItems.(*MockOrderItemRepo).BulkCreateFunc = func(ctx context.Context, batch []models.OrderItem) error {
		return boom
	}
	events := &MockEventBus{
		PublishOrderPlacedFunc: func(ctx context.Context, e service.OrderPlacedEvent) error {
			t.Error("event must not be published for an aborted checkout")
			return nil
		},
	}

	svc := service.NewOrderService(f.repo, events)
	_, err := svc.PlaceOrder(customerCtx(userID), service.PlaceOrderInput{
		RegionID: uuid.New(), LocationID: uuid.New(), PaymentMethodID: uuid.New(),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected insert failure to propagate, got %v", err)
	}
}

func TestOrderService_PlaceOrder_InactiveRegion(t *testing.T) {
	userID := uuid.New()
	catalog := &MockCatalogRepo{
		GetRegionFunc: func(ctx context.Context, id uuid.UUID) (*models.Region, error) {
			return nil, nil
		},
	}
	repo := newTestRepository(catalog, nil, &MockCartRepo{}, nil, nil)
	svc := service.NewOrderService(repo, nil)

	_, err := svc.PlaceOrder(customerCtx(userID), service.PlaceOrderInput{
		RegionID: uuid.New(), LocationID: uuid.New(), PaymentMethodID: uuid.New(),
	})
	if !errors.Is(err, service.ErrRegionNotFound) {
		t.Fatalf("expected ErrRegionNotFound, got %v", err)
	}
}

func statusFixture(status models.OrderStatus, ownerID uuid.UUID) (*repository.Repository, *models.Order) {
	ord := &models.Order{ID: uuid.New(), Number: "TEST123456", UserID: ownerID,
		Status: status, TotalPrice: dec("100"), FinalPrice: dec("100")}
	orders := &MockOrderRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			if id == ord.ID {
				cp := *ord
				return &cp, nil
			}
			return nil, nil
		},
		GetByIDForUserFunc: func(ctx context.Context, id, uid uuid.UUID) (*models.Order, error) {
			if id == ord.ID && uid == ord.UserID {
				cp := *ord
				return &cp, nil
			}
			return nil, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id uuid.UUID, st models.OrderStatus) error {
			ord.Status = st
			return nil
		},
	}
	return newTestRepository(nil, nil, nil, orders, nil), ord
}

func TestOrderService_UpdateStatus_HappyPath(t *testing.T) {
	ownerID := uuid.New()
	repo, ord := statusFixture(models.OrderStatusPending, ownerID)
	svc := service.NewOrderService(repo, nil)
	ctx := adminCtx(uuid.New())

	chain := []models.OrderStatus{
		models.OrderStatusConfirmed, models.OrderStatusPreparing, models.OrderStatusReady,
		models.OrderStatusOutForDelivery, models.OrderStatusDelivered,
	}
	for _, next := range chain {
		got, err := svc.UpdateStatus(ctx, ord.ID, next)
		if err != nil {
			t.Fatalf("UpdateStatus to %s: %v", next, err)
		}
		if got.Status != next {
			t.Fatalf("expected %s, got %s", next, got.Status)
		}
	}
}

func TestOrderService_UpdateStatus_Invalid(t *testing.T) {
	ownerID := uuid.New()

	t.Run("skip in chain", func(t *testing.T) {
		repo, ord := statusFixture(models.OrderStatusPending, ownerID)
		svc := service.NewOrderService(repo, nil)
		_, err := svc.UpdateStatus(adminCtx(uuid.New()), ord.ID, models.OrderStatusReady)
		if !errors.Is(err, service.ErrTransitionNotAllowed) {
			t.Fatalf("expected ErrTransitionNotAllowed, got %v", err)
		}
	})

	t.Run("terminal", func(t *testing.T) {
		repo, ord := statusFixture(models.OrderStatusDelivered, ownerID)
		svc := service.NewOrderService(repo, nil)
		_, err := svc.UpdateStatus(adminCtx(uuid.New()), ord.ID, models.OrderStatusConfirmed)
		if !errors.Is(err, service.ErrStatusTerminal) {
			t.Fatalf("expected ErrStatusTerminal, got %v", err)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		repo, ord := statusFixture(models.OrderStatusPending, ownerID)
		svc := service.NewOrderService(repo, nil)
		_, err := svc.UpdateStatus(adminCtx(uuid.New()), ord.ID, "shipped")
		if !errors.Is(err, service.ErrStatusInvalid) {
			t.Fatalf("expected ErrStatusInvalid, got %v", err)
		}
	})

	t.Run("customer forbidden", func(t *testing.T) {
		repo, ord := statusFixture(models.OrderStatusPending, ownerID)
		svc := service.NewOrderService(repo, nil)
		_, err := svc.UpdateStatus(customerCtx(ownerID), ord.ID, models.OrderStatusConfirmed)
		if !errors.Is(err, service.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestOrderService_CancelOrder(t *testing.T) {
	ownerID := uuid.New()

	t.Run("owner cancels mid-delivery", func(t *testing.T) {
		repo, ord := statusFixture(models.OrderStatusOutForDelivery, ownerID)
		var event *service.OrderStatusChangedEvent
		events := &MockEventBus{
			PublishOrderStatusChangedFunc: func(ctx context.Context, e service.OrderStatusChangedEvent) error {
				event = &e
				return nil
			},
		}
		svc := service.NewOrderService(repo, events)
		got, err := svc.CancelOrder(customerCtx(ownerID), ord.ID)
		if err != nil {
			t.Fatalf("CancelOrder: %v", err)
		}
		if got.Status != models.OrderStatusCancelled {
			t.Fatalf("expected cancelled, got %s", got.Status)
		}
		if event == nil || event.To != models.OrderStatusCancelled {
			t.Errorf("expected status changed event, got %+v", event)
		}
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		repo, ord := statusFixture(models.OrderStatusDelivered, ownerID)
		svc := service.NewOrderService(repo, nil)
		_, err := svc.CancelOrder(customerCtx(ownerID), ord.ID)
		if !errors.Is(err, service.ErrStatusTerminal) {
			t.Fatalf("expected ErrStatusTerminal, got %v", err)
		}
	})

	t.Run("foreign order hidden", func(t *testing.T) {
		repo, ord := statusFixture(models.OrderStatusPending, ownerID)
		svc := service.NewOrderService(repo, nil)
		_, err := svc.CancelOrder(customerCtx(uuid.New()), ord.ID)
		if !errors.Is(err, service.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

func TestOrderService_GetOrder_Visibility(t *testing.T) {
	ownerID := uuid.New()
	repo, ord := statusFixture(models.OrderStatusPending, ownerID)
	svc := service.NewOrderService(repo, nil)

	if _, err := svc.GetOrder(customerCtx(ownerID), ord.ID); err != nil {
		t.Fatalf("owner GetOrder: %v", err)
	}
	if _, err := svc.GetOrder(adminCtx(uuid.New()), ord.ID); err != nil {
		t.Fatalf("admin GetOrder: %v", err)
	}
	if _, err := svc.GetOrder(customerCtx(uuid.New()), ord.ID); !errors.Is(err, service.ErrOrderNotFound) {
		t.Fatalf("stranger GetOrder: expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_ListOrders_CustomerScopedToSelf(t *testing.T) {
	userID := uuid.New()
	orders := &MockOrderRepo{
		ListFunc: func(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
			if f.UserID == nil || *f.UserID != userID {
				t.Errorf("customer list must be scoped to self, got %v", f.UserID)
			}
			return []*models.Order{{ID: uuid.New(), UserID: userID}}, 1, nil
		},
	}
	repo := newTestRepository(nil, nil, nil, orders, nil)
	svc := service.NewOrderService(repo, nil)

	other := uuid.New()
	got, total, err := svc.ListOrders(customerCtx(userID), service.ListFilter{UserID: &other})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if total != 1 || len(got) != 1 {
		t.Errorf("expected 1 order, got %d/%d", len(got), total)
	}
}
