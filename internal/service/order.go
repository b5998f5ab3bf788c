package service

import (
	"context"

	"basti-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlaceOrderInput struct {
	RegionID        uuid.UUID
	LocationID      uuid.UUID
	PaymentMethodID uuid.UUID
	// LineIDs — подмножество корзины для частичного оформления;
	// nil означает всю включённую корзину
	LineIDs        []uuid.UUID
	DiscountAmount decimal.Decimal
}

type ListFilter struct {
	UserID *uuid.UUID
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type OrderService interface {
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
}
