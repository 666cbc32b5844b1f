// Package http exposes the custody use cases over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/metalsdesk/admin-api/internal/domains/custody/adapters/http/mapper"
	"github.com/metalsdesk/admin-api/internal/domains/custody/application"
	"github.com/metalsdesk/admin-api/internal/domains/custody/domain"
	"github.com/metalsdesk/admin-api/internal/domains/custody/ports"
	sharederrors "github.com/metalsdesk/admin-api/internal/shared/errors"
	"github.com/metalsdesk/admin-api/internal/shared/identity"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

// Handler serves the custody service routes.
type Handler struct {
	service   ports.Service
	responder *sharederrors.Responder
}

// NewHandler wires the handler with the custody error mapping.
func NewHandler(service ports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewResponder("", mapCustodyError),
	}
}

// Register mounts the custody routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/custody-services", h.List)
	rg.GET("/custody-services/default", h.GetDefault)
	rg.GET("/custody-services/by-custodian", h.GroupByCustodian)
	rg.GET("/custody-services/:id", h.Get)
	rg.POST("/custody-services", h.Create)
	rg.PATCH("/custody-services/:id", h.Update)
	rg.DELETE("/custody-services/:id", h.Delete)
	rg.GET("/custodians/:custodianId/custody-services", h.ListByCustodian)
}

func (h *Handler) Create(c *gin.Context) {
	var payload mapper.CreateServiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, "invalid request body")
		return
	}
	created, err := h.service.CreateService(c.Request.Context(), mapper.ToCreateRequest(payload), identity.FromContext(c))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomain(created))
}

func (h *Handler) Update(c *gin.Context) {
	var payload mapper.UpdateServiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, "invalid request body")
		return
	}
	updated, err := h.service.UpdateService(c.Request.Context(), c.Param("id"), mapper.ToUpdateRequest(payload), identity.FromContext(c))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomain(updated))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.DeleteService(c.Request.Context(), c.Param("id"), identity.FromContext(c)); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Get(c *gin.Context) {
	svc, err := h.service.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomain(svc))
}

func (h *Handler) List(c *gin.Context) {
	filter, page, err := parseListQuery(c)
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.ListServices(c.Request.Context(), filter, page)
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

func (h *Handler) ListByCustodian(c *gin.Context) {
	services, err := h.service.ListByCustodian(c.Request.Context(), c.Param("custodianId"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainList(services))
}

func (h *Handler) GetDefault(c *gin.Context) {
	svc, err := h.service.GetDefaultService(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomain(svc))
}

func (h *Handler) GroupByCustodian(c *gin.Context) {
	groups, err := h.service.GroupByCustodian(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromGroups(groups))
}

func parseListQuery(c *gin.Context) (ports.ListFilter, pagination.PageRequest, error) {
	filter := ports.ListFilter{
		Search:           c.Query("search"),
		CustodianID:      c.Query("custodianId"),
		PaymentFrequency: domain.PaymentFrequency(c.Query("paymentFrequency")),
		Currency:         c.Query("currency"),
	}
	var err error
	if filter.MinFee, err = queryDecimal(c, "minFee"); err != nil {
		return filter, pagination.PageRequest{}, err
	}
	if filter.MaxFee, err = queryDecimal(c, "maxFee"); err != nil {
		return filter, pagination.PageRequest{}, err
	}

	var page pagination.PageRequest
	if page.Page, err = queryInt(c, "page"); err != nil {
		return filter, page, err
	}
	if page.Limit, err = queryInt(c, "limit"); err != nil {
		return filter, page, err
	}
	return filter, page, nil
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

func queryDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.New(key + " must be a decimal number")
	}
	return &value, nil
}

// mapCustodyError translates the custody failure classes to problem details.
func mapCustodyError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrValidation):
		return sharederrors.ErrValidation.WithDetail(detailOf(err)), true
	case errors.Is(err, application.ErrReference):
		return sharederrors.ErrUnprocessable.WithDetail(detailOf(err)), true
	case errors.Is(err, application.ErrConflict):
		problem := sharederrors.ErrConflict.WithDetail(detailOf(err))
		var conflict *application.ConflictError
		if errors.As(err, &conflict) && conflict.ActivePositions > 0 {
			problem = problem.WithExtension("activePositionCount", conflict.ActivePositions)
		}
		return problem, true
	case errors.Is(err, ports.ErrNotFound):
		return sharederrors.ErrNotFound.WithDetail("custody service not found"), true
	}
	return sharederrors.ProblemDetail{}, false
}

func detailOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
