package models

import (
	"time"

	"github.com/google/uuid"
)

// Группировка строк корзины, задаётся клиентом при добавлении
type CartCategory string

const (
	CartCategoryBigCakes   CartCategory = "big_cakes"
	CartCategorySmallCakes CartCategory = "small_cakes"
	CartCategoryOthers     CartCategory = "others"
)

type CakeLayer struct {
	LayerNumber int       `json:"layer_number"`
	FlavorID    uuid.UUID `json:"flavor_id"`
}

// CustomCakeConfig — inline-конфигурация кастомного торта в строке корзины.
// Цвет глазури бесплатный, на цену влияют только форма, вкус, декор и слои.
type CustomCakeConfig struct {
	ShapeID         uuid.UUID   `json:"shape_id"`
	FlavorID        uuid.UUID   `json:"flavor_id"`
	DecorationID    uuid.UUID   `json:"decoration_id"`
	FrostColorValue string      `json:"frost_color_value"`
	Layers          []CakeLayer `json:"layers,omitempty"`
	Message         string      `json:"message,omitempty"`
	ImageURL        string      `json:"image_url,omitempty"`
}

// CartLine ссылается ровно на один товар: kind — дискриминатор,
// ProductID заполнен для каталожных видов, CustomConfig — для custom_cake.
type CartLine struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductKind  ProductKind       `gorm:"type:text;not null"`
	ProductID    *uuid.UUID        `gorm:"type:uuid"`
	CustomConfig *CustomCakeConfig `gorm:"type:jsonb;serializer:json"`
	Size         *string           `gorm:"type:text"`
	Category     CartCategory      `gorm:"type:text;not null"`
	Quantity     int               `gorm:"type:int;not null;default:1"`
	IsIncluded   bool              `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (CartLine) TableName() string { return "cart_lines" }
