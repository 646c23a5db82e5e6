package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/id"
	"backoffice/internal/domain/company"
	"backoffice/internal/infrastructure/http/v1/dto"
)

// ActivityService is the part of company.ActivityService the handler uses.
type ActivityService interface {
	List(ctx context.Context, ownerID id.ID, document string) ([]*company.Activity, error)
	Get(ctx context.Context, ownerID id.ID, document string, activityID id.ID) (*company.Activity, error)
	Create(ctx context.Context, ownerID id.ID, document string, a *company.Activity) error
	Update(ctx context.Context, ownerID id.ID, document string, a *company.Activity) error
	Delete(ctx context.Context, ownerID id.ID, document string, activityID id.ID) error
}

// ActivityHandler serves /companies/:document/activities.
type ActivityHandler struct {
	*BaseHandler
	service ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(base *BaseHandler, service ActivityService) *ActivityHandler {
	return &ActivityHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /companies/:document/activities
func (h *ActivityHandler) List(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	activities, err := h.service.List(c.Request.Context(), ownerID, c.Param("document"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, activities)
}

// Create handles POST /companies/:document/activities
func (h *ActivityHandler) Create(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req dto.ActivityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	activity := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), ownerID, c.Param("document"), activity); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, activity)
}

// Get handles GET /companies/:document/activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	activityID, ok := h.PathID(c)
	if !ok {
		return
	}

	activity, err := h.service.Get(c.Request.Context(), ownerID, c.Param("document"), activityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, activity)
}

// Update handles PUT /companies/:document/activities/:id
func (h *ActivityHandler) Update(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	activityID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.ActivityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	document := c.Param("document")
	activity, err := h.service.Get(ctx, ownerID, document, activityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(activity)

	if err := h.service.Update(ctx, ownerID, document, activity); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, activity)
}

// Delete handles DELETE /companies/:document/activities/:id
func (h *ActivityHandler) Delete(c *gin.Context) {
	ownerID, ok := h.UserID(c)
	if !ok {
		return
	}
	activityID, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, c.Param("document"), activityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
