package service

import (
	"context"
	"time"

	"basti-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemEvent struct {
	Kind      models.ProductKind `json:"kind"`
	Name      string             `json:"name"`
	Quantity  int                `json:"quantity"`
	UnitPrice decimal.Decimal    `json:"unit_price"`
	LineTotal decimal.Decimal    `json:"line_total"`
}

type OrderPlacedEvent struct {
	OrderID    uuid.UUID        `json:"order_id"`
	Number     string           `json:"number"`
	UserID     uuid.UUID        `json:"user_id"`
	RegionID   uuid.UUID        `json:"region_id"`
	Items      []OrderItemEvent `json:"items"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	FinalPrice decimal.Decimal  `json:"final_price"`
	CreatedAt  time.Time        `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID          `json:"order_id"`
	UserID    uuid.UUID          `json:"user_id"`
	From      models.OrderStatus `json:"from"`
	To        models.OrderStatus `json:"to"`
	ChangedAt time.Time          `json:"changed_at"`
}

// EventBus — порт для внешней доставки уведомлений; nil отключает публикацию
type EventBus interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, e OrderStatusChangedEvent) error
}
