package http

// BaseError универсальный корневой формат ошибки
// Code — машинно-ориентированный код (snake_case)
// Message — краткое человеко-читаемое описание
// Details — дополнительная строка (пояснение)
type BaseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Семантические обёртки — совместимы по JSON, нужны для читаемости swagger
type ValidationErrorResponse BaseError
type UnauthorizedErrorResponse BaseError
type ForbiddenErrorResponse BaseError
type NotFoundErrorResponse BaseError
type ConflictErrorResponse BaseError
type UnprocessableErrorResponse BaseError
type InternalErrorResponse BaseError

func NewValidationError(msg string) ValidationErrorResponse {
	return ValidationErrorResponse(BaseError{Code: "validation_error", Message: msg})
}
func NewUnauthorizedError(msg string) UnauthorizedErrorResponse {
	return UnauthorizedErrorResponse(BaseError{Code: "unauthorized", Message: msg})
}
func NewForbiddenError(msg string) ForbiddenErrorResponse {
	return ForbiddenErrorResponse(BaseError{Code: "forbidden", Message: msg})
}
func NewNotFoundError(msg string) NotFoundErrorResponse {
	return NotFoundErrorResponse(BaseError{Code: "not_found", Message: msg})
}
func NewConflictError(msg string) ConflictErrorResponse {
	return ConflictErrorResponse(BaseError{Code: "conflict", Message: msg})
}

// Цена не разрешилась ни в одном слое — запрос корректен, но не выполним
func NewUnprocessableError(msg string) UnprocessableErrorResponse {
	return UnprocessableErrorResponse(BaseError{Code: "unresolved_price", Message: msg})
}
func NewInternalError(details string) InternalErrorResponse {
	return InternalErrorResponse(BaseError{Code: "internal_error", Message: "internal server error", Details: details})
}

type CakeLayerRequest struct {
	LayerNumber int    `json:"layer_number" binding:"required,min=1"`
	FlavorID    string `json:"flavor_id" binding:"required,uuid"`
}

type CustomConfigRequest struct {
	ShapeID         string             `json:"shape_id" binding:"required,uuid"`
	FlavorID        string             `json:"flavor_id" binding:"required,uuid"`
	DecorationID    string             `json:"decoration_id" binding:"required,uuid"`
	FrostColorValue string             `json:"frost_color_value"`
	Layers          []CakeLayerRequest `json:"layers"`
	Message         string             `json:"message"`
	ImageURL        string             `json:"image_url"`
}

type AddLineRequest struct {
	RegionID     string               `json:"region_id" binding:"required,uuid"`
	Kind         string               `json:"kind" binding:"required"`
	ProductID    *string              `json:"product_id" binding:"omitempty,uuid"`
	CustomConfig *CustomConfigRequest `json:"custom_config"`
	Size         *string              `json:"size"`
	Category     string               `json:"category" binding:"required"`
	Quantity     int                  `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityRequest struct {
	RegionID string `json:"region_id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type ToggleInclusionRequest struct {
	RegionID   string `json:"region_id" binding:"required,uuid"`
	IsIncluded *bool  `json:"is_included" binding:"required"`
}

type BulkDeleteRequest struct {
	RegionID string   `json:"region_id" binding:"required,uuid"`
	LineIDs  []string `json:"line_ids" binding:"required,min=1,dive,uuid"`
}

type PlaceOrderRequest struct {
	RegionID        string   `json:"region_id" binding:"required,uuid"`
	LocationID      string   `json:"location_id" binding:"required,uuid"`
	PaymentMethodID string   `json:"payment_method_id" binding:"required,uuid"`
	LineIDs         []string `json:"line_ids" binding:"omitempty,dive,uuid"`
	DiscountAmount  string   `json:"discount_amount"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SavePredesignedRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Config      struct {
		ShapeID         string `json:"shape_id" binding:"required,uuid"`
		FlavorID        string `json:"flavor_id" binding:"required,uuid"`
		DecorationID    string `json:"decoration_id" binding:"required,uuid"`
		FrostColorValue string `json:"frost_color_value"`
	} `json:"config" binding:"required"`
}

type SaveProductRequest struct {
	Kind        string            `json:"kind" binding:"required"`
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	ImageURL    string            `json:"image_url"`
	Price       *string           `json:"price"`
	SizesPrices map[string]string `json:"sizes_prices"`
}

type SetProductActiveRequest struct {
	Kind     string `json:"kind" binding:"required"`
	IsActive *bool  `json:"is_active" binding:"required"`
}

type SetOverrideRequest struct {
	RegionID    string            `json:"region_id" binding:"required,uuid"`
	Kind        string            `json:"kind" binding:"required"`
	ProductID   string            `json:"product_id" binding:"required,uuid"`
	Price       *string           `json:"price"`
	SizesPrices map[string]string `json:"sizes_prices"`
}
