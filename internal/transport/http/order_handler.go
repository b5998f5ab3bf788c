package http

import (
	"net/http"
	"strconv"

	"basti-service/internal/models"
	"basti-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

type orderListResponse struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}

// PlaceOrder godoc
// @Summary Оформить заказ
// @Description Переоценивает строки корзины в транзакции, пишет снапшот заказа и удаляет оформленные строки
// @Tags orders
// @Accept json
// @Produce json
// @Param input body PlaceOrderRequest true "Параметры заказа"
// @Success 201 {object} models.Order
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 409 {object} ConflictErrorResponse
// @Failure 422 {object} UnprocessableErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	var in service.PlaceOrderInput
	var err error
	if in.RegionID, err = uuid.Parse(req.RegionID); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid region_id"))
		return
	}
	if in.LocationID, err = uuid.Parse(req.LocationID); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid location_id"))
		return
	}
	if in.PaymentMethodID, err = uuid.Parse(req.PaymentMethodID); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid payment_method_id"))
		return
	}
	for _, raw := range req.LineIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewValidationError("invalid line id: "+raw))
			return
		}
		in.LineIDs = append(in.LineIDs, id)
	}
	discount, ok := parseDecimal(c, req.DiscountAmount, "discount_amount")
	if !ok {
		return
	}
	in.DiscountAmount = discount

	order, err := h.orders.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("заказ оформлен",
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.Number),
	)
	c.JSON(http.StatusCreated, order)
}

// GetOrder godoc
// @Summary Заказ по ID
// @Description Владелец видит свой заказ, админ — любой
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} models.Order
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrders godoc
// @Summary Список заказов
// @Description Пользователь видит свои заказы; админ может фильтровать по user_id и статусу
// @Tags orders
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param user_id query string false "Фильтр по пользователю (только админ)"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} orderListResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var f service.ListFilter
	if raw := c.Query("status"); raw != "" {
		st := models.OrderStatus(raw)
		f.Status = &st
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewValidationError("invalid user_id"))
			return
		}
		f.UserID = &id
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, total, err := h.orders.ListOrders(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orderListResponse{Orders: orders, Total: total})
}

// UpdateStatus godoc
// @Summary Сменить статус заказа
// @Description Только админ; допускаются только переходы по жизненному циклу
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID заказа"
// @Param input body UpdateOrderStatusRequest true "Новый статус"
// @Success 200 {object} models.Order
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 403 {object} ForbiddenErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 409 {object} ConflictErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder godoc
// @Summary Отменить заказ
// @Description Доступно владельцу и админу из любого нетерминального статуса
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} models.Order
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 409 {object} ConflictErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.CancelOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
