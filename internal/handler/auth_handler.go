package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mergington/portal-gateway/internal/dto"
	"github.com/mergington/portal-gateway/internal/models"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
	"github.com/mergington/portal-gateway/pkg/response"
)

type sessionManager interface {
	Login(ctx context.Context, sess *models.Session, username, password string) (*models.Session, error)
	Logout(ctx context.Context, sess *models.Session) error
	Validate(ctx context.Context, sess *models.Session) (*models.Session, error)
}

// AuthHandler wires the login, logout and session endpoints.
type AuthHandler struct {
	manager sessionManager
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(manager sessionManager) *AuthHandler {
	return &AuthHandler{manager: manager}
}

// Login godoc
// @Summary Sign in as a teacher
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "username and password are required"))
		return
	}

	sess, err := h.manager.Login(c.Request.Context(), sess, req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.NewSessionView(sess))
}

// Logout godoc
// @Summary Sign out
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	if err := h.manager.Logout(c.Request.Context(), sess); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Session godoc
// @Summary Current session
// @Description Revalidates a restored session against the portal API and
// @Description returns the state driving the login/user-info controls.
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	sess, err := h.manager.Validate(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.NewSessionView(sess))
}
