package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/chart"
	"backoffice/internal/infrastructure/http/v1/dto"
)

// ChartService is the part of chart.Service the handler uses.
type ChartService interface {
	Create(ctx context.Context, ownerID id.ID, account *chart.Account) error
	Get(ctx context.Context, ownerID, accountID id.ID) (*chart.Account, error)
	Update(ctx context.Context, ownerID id.ID, account *chart.Account) error
	Delete(ctx context.Context, ownerID, accountID id.ID) (int64, error)
	ListRoots(ctx context.Context, ownerID id.ID, q chart.ListQuery) ([]chart.Detail, error)
}

// ChartHandler serves /chart-of-accounts.
type ChartHandler struct {
	*BaseHandler
	service ChartService
}

// NewChartHandler creates a new chart of accounts handler.
func NewChartHandler(base *BaseHandler, service ChartService) *ChartHandler {
	return &ChartHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /chart-of-accounts?q=&companyId=
func (h *ChartHandler) List(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	var query dto.AccountListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	q, err := query.ToListQuery()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid companyId").WithDetail("companyId", query.CompanyID))
		return
	}

	trees, err := h.service.ListRoots(c.Request.Context(), ownerID, q)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, trees)
}

// Create handles POST /chart-of-accounts
func (h *ChartHandler) Create(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.AccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), ownerID, account); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, chart.FlatDetail(account))
}

// Get handles GET /chart-of-accounts/:id
func (h *ChartHandler) Get(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	accountID, ok := h.PathID(c)
	if !ok {
		return
	}

	account, err := h.service.Get(c.Request.Context(), ownerID, accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, chart.FlatDetail(account))
}

// Update handles PUT /chart-of-accounts/:id
func (h *ChartHandler) Update(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	accountID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.AccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	account, err := h.service.Get(ctx, ownerID, accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(account)

	if err := h.service.Update(ctx, ownerID, account); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, chart.FlatDetail(account))
}

// Delete handles DELETE /chart-of-accounts/:id. The response reports how many
// accounts the cascade removed.
func (h *ChartHandler) Delete(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	accountID, ok := h.PathID(c)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), ownerID, accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.DeletedResponse{Deleted: deleted})
}
