package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/id"
	"backoffice/internal/domain/company"
	"backoffice/internal/infrastructure/http/v1/dto"
)

// PartnerService is the part of company.PartnerService the handler uses.
type PartnerService interface {
	List(ctx context.Context, ownerID id.ID, document string) ([]*company.Partner, error)
	Get(ctx context.Context, ownerID id.ID, document string, partnerID id.ID) (*company.Partner, error)
	Add(ctx context.Context, ownerID id.ID, document string, p *company.Partner) error
	Save(ctx context.Context, ownerID id.ID, document string, p *company.Partner) error
	Remove(ctx context.Context, ownerID id.ID, document string, partnerID id.ID) error
}

// PartnerHandler serves /companies/:document/partners.
type PartnerHandler struct {
	*BaseHandler
	service PartnerService
}

// NewPartnerHandler creates a new partner handler.
func NewPartnerHandler(base *BaseHandler, service PartnerService) *PartnerHandler {
	return &PartnerHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /companies/:document/partners
func (h *PartnerHandler) List(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	partners, err := h.service.List(c.Request.Context(), ownerID, c.Param("document"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, partners)
}

// Create handles POST /companies/:document/partners
func (h *PartnerHandler) Create(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.PartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	partner := req.ToEntity()
	if err := h.service.Add(c.Request.Context(), ownerID, c.Param("document"), partner); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, partner)
}

// Get handles GET /companies/:document/partners/:id
func (h *PartnerHandler) Get(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	partnerID, ok := h.PathID(c)
	if !ok {
		return
	}

	partner, err := h.service.Get(c.Request.Context(), ownerID, c.Param("document"), partnerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, partner)
}

// Update handles PUT /companies/:document/partners/:id
func (h *PartnerHandler) Update(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	partnerID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.PartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	document := c.Param("document")
	partner, err := h.service.Get(ctx, ownerID, document, partnerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(partner)

	if err := h.service.Save(ctx, ownerID, document, partner); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, partner)
}

// Delete handles DELETE /companies/:document/partners/:id
func (h *PartnerHandler) Delete(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	partnerID, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), ownerID, c.Param("document"), partnerID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
