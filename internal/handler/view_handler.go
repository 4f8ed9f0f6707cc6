package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mergington/portal-gateway/internal/dto"
	"github.com/mergington/portal-gateway/internal/models"
	"github.com/mergington/portal-gateway/internal/view"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
	"github.com/mergington/portal-gateway/pkg/response"
)

type sessionSaver interface {
	Save(ctx context.Context, s *models.Session) error
}

// ViewHandler exposes the per-session dialog state machine.
type ViewHandler struct {
	sessions sessionSaver
	now      func() time.Time
}

// NewViewHandler creates a new handler.
func NewViewHandler(sessions sessionSaver) *ViewHandler {
	return &ViewHandler{sessions: sessions, now: time.Now}
}

// State godoc
// @Summary Current view state
// @Tags View
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /view [get]
func (h *ViewHandler) State(c *gin.Context) {
	sess := sessionFromContext(c)
	now := h.now()

	modals := make(map[string]models.Modal, 4)
	for _, name := range []string{view.ModalRegistration, view.ModalLogin, view.ModalAnnouncements, view.ModalConfirmation} {
		modals[name] = view.Resolve(sess.Modals[name], now)
	}

	state := dto.ViewState{Modals: modals}
	if sess.PendingConfirm != nil {
		state.PendingConfirmation = &dto.PendingConfirmView{
			Action:   sess.PendingConfirm.Action,
			TargetID: sess.PendingConfirm.TargetID,
		}
	}
	response.JSON(c, http.StatusOK, state)
}

// Open godoc
// @Summary Open a dialog
// @Tags View
// @Produce json
// @Param name path string true "Modal name" Enums(registration, login, announcements, confirmation)
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /view/modals/{name}/open [post]
func (h *ViewHandler) Open(c *gin.Context) {
	sess := sessionFromContext(c)
	name := c.Param("name")
	if !view.KnownModal(name) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown dialog"))
		return
	}
	// the announcements manager is teacher-only; anonymous attempts get an
	// error and no modal
	if name == view.ModalAnnouncements && !sess.Authenticated() {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	modal, err := view.Open(sess.Modals[name], h.now())
	if err != nil {
		response.Error(c, err)
		return
	}
	sess.Modals[name] = modal

	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modal)
}

// Close godoc
// @Summary Close a dialog
// @Description Shared by the close control and the backdrop outside-click.
// @Tags View
// @Produce json
// @Param name path string true "Modal name" Enums(registration, login, announcements, confirmation)
// @Success 200 {object} response.Envelope
// @Router /view/modals/{name}/close [post]
func (h *ViewHandler) Close(c *gin.Context) {
	sess := sessionFromContext(c)
	name := c.Param("name")
	if !view.KnownModal(name) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown dialog"))
		return
	}

	modal := view.Close(sess.Modals[name], h.now())
	sess.Modals[name] = modal
	// closing the confirmation dialog discards its pending command
	if name == view.ModalConfirmation {
		sess.PendingConfirm = nil
	}

	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modal)
}
