// Package http exposes the catalog use cases over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/metalsdesk/admin-api/internal/domains/catalog/adapters/http/mapper"
	"github.com/metalsdesk/admin-api/internal/domains/catalog/domain"
	"github.com/metalsdesk/admin-api/internal/domains/catalog/ports"
	sharederrors "github.com/metalsdesk/admin-api/internal/shared/errors"
	"github.com/metalsdesk/admin-api/internal/shared/identity"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

// Handler serves the product catalog routes.
type Handler struct {
	service   ports.Service
	responder *sharederrors.Responder
}

func NewHandler(service ports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewResponder("", mapCatalogError),
	}
}

// Register mounts the catalog routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/products", h.List)
	rg.GET("/products/:id", h.Get)
	rg.GET("/products/by-sku/:sku", h.GetBySKU)
	rg.POST("/products", h.Create)
	rg.PATCH("/products/:id", h.Update)
	rg.DELETE("/products/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var payload mapper.CreateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, "invalid request body")
		return
	}
	created, err := h.service.CreateProduct(c.Request.Context(), mapper.ToCreateInput(payload), identity.FromContext(c))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomain(created))
}

func (h *Handler) Update(c *gin.Context) {
	var payload mapper.UpdateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, "invalid request body")
		return
	}
	updated, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), mapper.ToUpdateInput(payload), identity.FromContext(c))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomain(updated))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id"), identity.FromContext(c)); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Get(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomain(product))
}

func (h *Handler) GetBySKU(c *gin.Context) {
	product, err := h.service.GetProductBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomain(product))
}

func (h *Handler) List(c *gin.Context) {
	filter := ports.ListFilter{
		Search:    c.Query("search"),
		MetalCode: domain.MetalCode(c.Query("metalCode")),
		Currency:  c.Query("currency"),
	}
	page, err := parsePageQuery(c)
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.ListProducts(c.Request.Context(), filter, page)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.PageResponse{
		Items: mapper.FromDomainList(result.Items),
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

func parsePageQuery(c *gin.Context) (pagination.PageRequest, error) {
	var page pagination.PageRequest
	var err error
	if page.Page, err = queryInt(c, "page"); err != nil {
		return page, err
	}
	if page.Limit, err = queryInt(c, "limit"); err != nil {
		return page, err
	}
	return page, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return value, nil
}

func mapCatalogError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrSKUConflict):
		return sharederrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrNotFound):
		return sharederrors.ErrNotFound.WithDetail("product not found"), true
	case isDomainValidation(err):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	}
	return sharederrors.ProblemDetail{}, false
}

func isDomainValidation(err error) bool {
	for _, sentinel := range []error{
		domain.ErrSKURequired,
		domain.ErrNameRequired,
		domain.ErrUnknownMetal,
		domain.ErrWeightNotPositive,
		domain.ErrPurityOutOfRange,
		domain.ErrPriceNotPositive,
		domain.ErrCurrencyRequired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
