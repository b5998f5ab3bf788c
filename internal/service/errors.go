package service

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// NotFound используется и для чужих строк корзины / заказов,
	// чтобы не раскрывать существование чужих данных
	ErrRegionNotFound   = errors.New("region not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrLineNotFound     = errors.New("cart line not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOverrideNotFound = errors.New("region price override not found")

	ErrQuantityInvalid  = errors.New("quantity must be >= 1")
	ErrCategoryInvalid  = errors.New("unknown cart category")
	ErrCategoryMismatch = errors.New("category does not fit product kind")
	ErrLineRefInvalid   = errors.New("cart line must reference exactly one product")
	ErrLayersInvalid    = errors.New("layer numbers must be unique and contiguous from 1")
	ErrLineNotIncluded  = errors.New("cart line is saved for later")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrDiscountInvalid  = errors.New("discount must be >= 0 and <= order total")
	ErrPriceInvalid     = errors.New("price must be >= 0")
	ErrPriceMissing     = errors.New("product must define a price or a size table")
	ErrNameRequired     = errors.New("name is required")

	// Размещаемые админом каталожные строки: шесть видов с прямой ценой
	ErrProductKindInvalid = errors.New("product kind is not managed by this catalog")

	// Цена не разрешима ни через региональное переопределение, ни через
	// каталог — всегда фатально, ноль по умолчанию запрещён
	ErrUnresolvedPrice = errors.New("price cannot be resolved")
	ErrUnresolvedSize  = errors.New("requested size has no resolvable price")

	ErrOverrideKindInvalid  = errors.New("region price override allowed only for addon, featured cake or sweet")
	ErrOverridePriceMissing = errors.New("region price override must define a price or a size table")

	ErrStatusInvalid        = errors.New("unknown order status")
	ErrStatusTerminal       = errors.New("order is in a terminal status")
	ErrTransitionNotAllowed = errors.New("order status transition not allowed")

	// Корзина изменилась между чтением и коммитом оформления —
	// транзакция откатывается целиком
	ErrCheckoutConflict = errors.New("cart changed during checkout")
)
