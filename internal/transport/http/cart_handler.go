package http

import (
	"net/http"

	"basti-service/internal/models"
	"basti-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts service.CartService
	log   *zap.Logger
}

func NewCartHandler(carts service.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, log: log}
}

// GetCart godoc
// @Summary Корзина пользователя
// @Description Возвращает корзину, сгруппированную по категориям, с ценами на момент чтения
// @Tags cart
// @Produce json
// @Param region_id query string true "ID региона"
// @Success 200 {object} service.CategorizedCart
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	regionID, ok := queryUUID(c, "region_id")
	if !ok {
		return
	}
	cart, err := h.carts.GetCart(c.Request.Context(), regionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// GetSaved godoc
// @Summary Отложенные строки
// @Description Строки «отложено на потом»: исключены из корзины и из итогов
// @Tags cart
// @Produce json
// @Param region_id query string true "ID региона"
// @Success 200 {array} service.PricedLine
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /cart/saved [get]
func (h *CartHandler) GetSaved(c *gin.Context) {
	regionID, ok := queryUUID(c, "region_id")
	if !ok {
		return
	}
	lines, err := h.carts.GetSaved(c.Request.Context(), regionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// AddLine godoc
// @Summary Добавить строку в корзину
// @Description Добавляет товар или кастомный торт; одинаковые каталожные строки сливаются по количеству
// @Tags cart
// @Accept json
// @Produce json
// @Param input body AddLineRequest true "Строка корзины"
// @Success 200 {object} service.CategorizedCart
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 422 {object} UnprocessableErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /cart/lines [post]
func (h *CartHandler) AddLine(c *gin.Context) {
	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	in := service.AddLineInput{
		Kind:     models.ProductKind(req.Kind),
		Size:     req.Size,
		Category: models.CartCategory(req.Category),
		Quantity: req.Quantity,
	}
	var err error
	if in.RegionID, err = uuid.Parse(req.RegionID); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid region_id"))
		return
	}
	if req.ProductID != nil {
		id, err := uuid.Parse(*req.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewValidationError("invalid product_id"))
			return
		}
		in.ProductID = &id
	}
	if req.CustomConfig != nil {
		cfg, err := customConfigFromRequest(req.CustomConfig)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
			return
		}
		in.CustomConfig = cfg
	}

	cart, err := h.carts.AddLine(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateQuantity godoc
// @Summary Изменить количество
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "ID строки"
// @Param input body UpdateQuantityRequest true "Новое количество"
// @Success 200 {object} service.CategorizedCart
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /cart/lines/{id}/quantity [patch]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	lineID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}
	regionID, err := uuid.Parse(req.RegionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid region_id"))
		return
	}

	cart, err := h.carts.UpdateQuantity(c.Request.Context(), lineID, regionID, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ToggleInclusion godoc
// @Summary Включить или отложить строку
// @Description Отложенная строка не участвует ни в корзине, ни в оформлении заказа
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "ID строки"
// @Param input body ToggleInclusionRequest true "Флаг включения"
// @Success 200 {object} service.CategorizedCart
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /cart/lines/{id}/toggle [patch]
func (h *CartHandler) ToggleInclusion(c *gin.Context) {
	lineID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req ToggleInclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}
	regionID, err := uuid.Parse(req.RegionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid region_id"))
		return
	}

	cart, err := h.carts.ToggleInclusion(c.Request.Context(), lineID, regionID, *req.IsIncluded)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// DeleteLine godoc
// @Summary Удалить строку
// @Tags cart
// @Produce json
// @Param id path string true "ID строки"
// @Param region_id query string true "ID региона"
// @Success 200 {object} service.CategorizedCart
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /cart/lines/{id} [delete]
func (h *CartHandler) DeleteLine(c *gin.Context) {
	lineID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	regionID, ok := queryUUID(c, "region_id")
	if !ok {
		return
	}
	cart, err := h.carts.DeleteLines(c.Request.Context(), regionID, []uuid.UUID{lineID})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// BulkDelete godoc
// @Summary Удалить несколько строк
// @Description Атомарно: либо удаляются все строки, либо ни одной
// @Tags cart
// @Accept json
// @Produce json
// @Param input body BulkDeleteRequest true "ID строк"
// @Success 200 {object} service.CategorizedCart
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /cart/bulk-delete [post]
func (h *CartHandler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}
	regionID, err := uuid.Parse(req.RegionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid region_id"))
		return
	}
	ids := make([]uuid.UUID, 0, len(req.LineIDs))
	for _, raw := range req.LineIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewValidationError("invalid line id: "+raw))
			return
		}
		ids = append(ids, id)
	}

	cart, err := h.carts.DeleteLines(c.Request.Context(), regionID, ids)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func customConfigFromRequest(req *CustomConfigRequest) (*models.CustomCakeConfig, error) {
	cfg := &models.CustomCakeConfig{
		FrostColorValue: req.FrostColorValue,
		Message:         req.Message,
		ImageURL:        req.ImageURL,
	}
	var err error
	if cfg.ShapeID, err = uuid.Parse(req.ShapeID); err != nil {
		return nil, err
	}
	if cfg.FlavorID, err = uuid.Parse(req.FlavorID); err != nil {
		return nil, err
	}
	if cfg.DecorationID, err = uuid.Parse(req.DecorationID); err != nil {
		return nil, err
	}
	for _, l := range req.Layers {
		flavorID, err := uuid.Parse(l.FlavorID)
		if err != nil {
			return nil, err
		}
		cfg.Layers = append(cfg.Layers, models.CakeLayer{LayerNumber: l.LayerNumber, FlavorID: flavorID})
	}
	return cfg, nil
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func parseDecimal(c *gin.Context, raw, name string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid "+name))
		return decimal.Zero, false
	}
	return d, true
}
