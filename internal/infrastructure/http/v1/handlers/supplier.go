package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/id"
	"backoffice/internal/domain"
	"backoffice/internal/domain/supplier"
	"backoffice/internal/infrastructure/http/v1/dto"
)

// SupplierService is the part of supplier.Service the handler uses.
type SupplierService interface {
	Add(ctx context.Context, ownerID id.ID, sup *supplier.Supplier) error
	Get(ctx context.Context, ownerID, supplierID id.ID) (*supplier.Supplier, error)
	Save(ctx context.Context, ownerID id.ID, sup *supplier.Supplier) error
	Remove(ctx context.Context, ownerID, supplierID id.ID) error
	List(ctx context.Context, ownerID id.ID, filter domain.ListFilter) (domain.ListResult[*supplier.Supplier], error)
}

// SupplierHandler serves /suppliers.
type SupplierHandler struct {
	*BaseHandler
	service SupplierService
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service SupplierService) *SupplierHandler {
	return &SupplierHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /suppliers?q=&limit=&offset=
func (h *SupplierHandler) List(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	var query dto.SupplierListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToListFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Create handles POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup := req.ToEntity()
	if err := h.service.Add(c.Request.Context(), ownerID, sup); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, sup)
}

// Get handles GET /suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	supplierID, ok := h.PathID(c)
	if !ok {
		return
	}

	sup, err := h.service.Get(c.Request.Context(), ownerID, supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sup)
}

// Update handles PUT /suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	supplierID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	sup, err := h.service.Get(ctx, ownerID, supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(sup)

	if err := h.service.Save(ctx, ownerID, sup); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sup)
}

// Delete handles DELETE /suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	supplierID, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), ownerID, supplierID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
