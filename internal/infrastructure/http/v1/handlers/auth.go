package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/auth"
	"backoffice/internal/infrastructure/http/v1/dto"
)

// AuthService is the part of auth.Service the handler uses.
type AuthService interface {
	SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.Session, error)
	SignIn(ctx context.Context, creds auth.Credentials) (*auth.Session, error)
	Me(ctx context.Context, userID id.ID) (*auth.User, error)
	UpdateMe(ctx context.Context, userID id.ID, upd auth.ProfileUpdate) (*auth.User, error)
	View(user *auth.User) auth.View
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.SignUp(c.Request.Context(), req.ToAuthRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, session)
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.SignIn(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, session)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.service.View(user))
}

// UpdateMe handles PUT /auth/me (multipart/form-data with an optional "avatar" file).
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var form dto.UpdateMeForm
	if err := c.ShouldBind(&form); err != nil {
		h.Error(c, apperror.NewValidation("invalid form").WithDetail("error", err.Error()))
		return
	}
	upd := form.ToProfileUpdate()

	file, err := c.FormFile("avatar")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		h.Error(c, apperror.NewValidation("invalid avatar upload").WithDetail("error", err.Error()))
		return
	default:
		body, err := file.Open()
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid avatar upload").WithDetail("error", err.Error()))
			return
		}
		defer body.Close()

		upd.Avatar = &auth.Upload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Body:        body,
		}
	}

	user, err := h.service.UpdateMe(c.Request.Context(), userID, upd)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.service.View(user))
}
