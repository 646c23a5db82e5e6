package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/id"
	"backoffice/internal/domain/company"
	"backoffice/internal/infrastructure/http/v1/dto"
)

// CompanyService is the part of company.Service the handler uses.
type CompanyService interface {
	Create(ctx context.Context, ownerID id.ID, c *company.Company) (*company.Detail, error)
	List(ctx context.Context, ownerID id.ID) ([]*company.Company, error)
	Get(ctx context.Context, ownerID id.ID, document string) (*company.Detail, error)
	Update(ctx context.Context, ownerID id.ID, document string, patch company.Patch) (*company.Detail, error)
	Delete(ctx context.Context, ownerID id.ID, document string) error
}

// CompanyHandler serves /companies.
type CompanyHandler struct {
	*BaseHandler
	service CompanyService
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(base *BaseHandler, service CompanyService) *CompanyHandler {
	return &CompanyHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	companies, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, companies)
}

// Create handles POST /companies. A PJ is enriched from the company registry.
func (h *CompanyHandler) Create(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.CreateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	detail, err := h.service.Create(c.Request.Context(), ownerID, req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, detail)
}

// Get handles GET /companies/:document
func (h *CompanyHandler) Get(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), ownerID, c.Param("document"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, detail)
}

// Update handles PUT /companies/:document
func (h *CompanyHandler) Update(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	detail, err := h.service.Update(c.Request.Context(), ownerID, c.Param("document"), req.ToPatch())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, detail)
}

// Delete handles DELETE /companies/:document
func (h *CompanyHandler) Delete(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, c.Param("document")); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
