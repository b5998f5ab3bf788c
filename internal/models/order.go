package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Terminal: дальнейшие переходы статуса и правки позиций запрещены
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Number          string          `gorm:"type:text;not null;uniqueIndex"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	RegionID        uuid.UUID       `gorm:"type:uuid;not null"`
	LocationID      uuid.UUID       `gorm:"type:uuid;not null"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null"`
	Status          OrderStatus     `gorm:"type:text;not null;default:'pending';index"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FinalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"` // каскад на позиции
}

func (Order) TableName() string { return "orders" }

// OrderItemPart — снимок одной оплачиваемой части кастомного торта
type OrderItemPart struct {
	Kind        ProductKind     `json:"kind"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	LayerNumber *int            `json:"layer_number,omitempty"`
}

// OrderItemOptions — описательный снимок выбранных опций позиции заказа
type OrderItemOptions struct {
	FrostColorValue string          `json:"frost_color_value,omitempty"`
	Message         string          `json:"message,omitempty"`
	Parts           []OrderItemPart `json:"parts,omitempty"`
}

// OrderItem — копия строки корзины на момент оформления. ProductID хранится
// только для справки, внешнего ключа на каталог нет: историческая правда
// заказа не зависит от последующих правок каталога.
type OrderItem struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductKind ProductKind       `gorm:"type:text;not null"`
	ProductID   *uuid.UUID        `gorm:"type:uuid"`
	Name        string            `gorm:"type:text;not null"`
	ImageURL    string            `gorm:"type:text"`
	Size        *string           `gorm:"type:text"`
	Options     *OrderItemOptions `gorm:"type:jsonb;serializer:json"`
	UnitPrice   decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	Quantity    int               `gorm:"type:int;not null"`
	LineTotal   decimal.Decimal   `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }
