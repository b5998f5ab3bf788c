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

type CatalogHandler struct {
	catalog service.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

// GetCatalog godoc
// @Summary Витрина региона
// @Description Активные товары с ценами, пересчитанными под регион
// @Tags catalog
// @Produce json
// @Param region_id query string true "ID региона"
// @Success 200 {object} service.PricedCatalog
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /catalog [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	regionID, ok := queryUUID(c, "region_id")
	if !ok {
		return
	}
	catalog, err := h.catalog.GetCatalog(c.Request.Context(), regionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// ListRegions godoc
// @Summary Список регионов
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Region
// @Failure 500 {object} InternalErrorResponse
// @Router /catalog/regions [get]
func (h *CatalogHandler) ListRegions(c *gin.Context) {
	regions, err := h.catalog.ListRegions(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, regions)
}

// SavePredesigned godoc
// @Summary Создать шаблонный торт
// @Description Только админ; цена шаблона всегда считается из частей конфигурации
// @Tags admin
// @Accept json
// @Produce json
// @Param input body SavePredesignedRequest true "Шаблон"
// @Success 201 {object} models.PredesignedCake
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 403 {object} ForbiddenErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /admin/predesigned [post]
func (h *CatalogHandler) SavePredesigned(c *gin.Context) {
	var req SavePredesignedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	in := service.SavePredesignedInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Config:      service.DesignedConfigInput{FrostColorValue: req.Config.FrostColorValue},
	}
	var err error
	if in.Config.ShapeID, err = uuid.Parse(req.Config.ShapeID); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid shape_id"))
		return
	}
	if in.Config.FlavorID, err = uuid.Parse(req.Config.FlavorID); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid flavor_id"))
		return
	}
	if in.Config.DecorationID, err = uuid.Parse(req.Config.DecorationID); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid decoration_id"))
		return
	}

	cake, err := h.catalog.SavePredesigned(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("шаблон создан", zap.String("id", cake.ID.String()), zap.String("name", cake.Name))
	c.JSON(http.StatusCreated, cake)
}

// CreateProduct godoc
// @Summary Создать каталожную строку
// @Description Только админ; featured_cake может нести таблицу размеров, остальные виды — плоскую цену
// @Tags admin
// @Accept json
// @Produce json
// @Param input body SaveProductRequest true "Товар"
// @Success 201 {object} service.ProductSummary
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 403 {object} ForbiddenErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /admin/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	h.saveProduct(c, nil)
}

// UpdateProduct godoc
// @Summary Изменить каталожную строку
// @Description Только админ; поля перезаписываются целиком
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param input body SaveProductRequest true "Товар"
// @Success 200 {object} service.ProductSummary
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 403 {object} ForbiddenErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /admin/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	h.saveProduct(c, &id)
}

func (h *CatalogHandler) saveProduct(c *gin.Context, id *uuid.UUID) {
	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	in := service.ProductInput{
		ID:          id,
		Kind:        models.ProductKind(req.Kind),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.Price != nil {
		p, err := decimal.NewFromString(*req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewValidationError("invalid price"))
			return
		}
		in.Price = &p
	}
	if len(req.SizesPrices) > 0 {
		in.SizesPrices = make(models.SizePriceMap, len(req.SizesPrices))
		for size, raw := range req.SizesPrices {
			p, err := decimal.NewFromString(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, NewValidationError("invalid price for size "+size))
				return
			}
			in.SizesPrices[size] = p
		}
	}

	product, err := h.catalog.SaveProduct(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if id == nil {
		h.log.Info("товар создан", zap.String("id", product.ID.String()), zap.String("kind", string(product.Kind)))
		c.JSON(http.StatusCreated, product)
		return
	}
	c.JSON(http.StatusOK, product)
}

// SetProductActive godoc
// @Summary Включить или скрыть товар
// @Description Только админ; скрытый товар пропадает с витрины, снимки заказов не меняются
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param input body SetProductActiveRequest true "Вид товара и флаг активности"
// @Success 204 "No Content"
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 403 {object} ForbiddenErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /admin/products/{id}/active [patch]
func (h *CatalogHandler) SetProductActive(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req SetProductActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	err := h.catalog.SetProductActive(c.Request.Context(), models.ProductKind(req.Kind), id, *req.IsActive)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetOverride godoc
// @Summary Задать региональную цену
// @Description Только админ; upsert по ключу (регион, вид товара, товар)
// @Tags admin
// @Accept json
// @Produce json
// @Param input body SetOverrideRequest true "Переопределение цены"
// @Success 200 {object} models.RegionPriceOverride
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 403 {object} ForbiddenErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /admin/overrides [put]
func (h *CatalogHandler) SetOverride(c *gin.Context) {
	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError(err.Error()))
		return
	}

	in := service.SetOverrideInput{Kind: models.ProductKind(req.Kind)}
	var err error
	if in.RegionID, err = uuid.Parse(req.RegionID); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid region_id"))
		return
	}
	if in.ProductID, err = uuid.Parse(req.ProductID); err != nil {
		c.JSON(http.StatusBadRequest, NewValidationError("invalid product_id"))
		return
	}
	if req.Price != nil {
		p, err := decimal.NewFromString(*req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewValidationError("invalid price"))
			return
		}
		in.Price = &p
	}
	if len(req.SizesPrices) > 0 {
		in.SizesPrices = make(models.SizePriceMap, len(req.SizesPrices))
		for size, raw := range req.SizesPrices {
			p, err := decimal.NewFromString(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, NewValidationError("invalid price for size "+size))
				return
			}
			in.SizesPrices[size] = p
		}
	}

	ov, err := h.catalog.SetOverride(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

// DeleteOverride godoc
// @Summary Удалить региональную цену
// @Description Только админ; товар возвращается к каталожной цене
// @Tags admin
// @Produce json
// @Param region_id query string true "ID региона"
// @Param kind query string true "Вид товара"
// @Param product_id query string true "ID товара"
// @Success 204 "No Content"
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} UnauthorizedErrorResponse
// @Failure 403 {object} ForbiddenErrorResponse
// @Failure 404 {object} NotFoundErrorResponse
// @Failure 500 {object} InternalErrorResponse
// @Router /admin/overrides [delete]
func (h *CatalogHandler) DeleteOverride(c *gin.Context) {
	regionID, ok := queryUUID(c, "region_id")
	if !ok {
		return
	}
	productID, ok := queryUUID(c, "product_id")
	if !ok {
		return
	}
	kind := models.ProductKind(c.Query("kind"))

	if err := h.catalog.DeleteOverride(c.Request.Context(), regionID, kind, productID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
