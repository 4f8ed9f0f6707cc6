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

type announcementService interface {
	Banner(ctx context.Context) (*models.Announcement, error)
	List(ctx context.Context, sess *models.Session) ([]models.Announcement, error)
	Create(ctx context.Context, sess *models.Session, payload models.AnnouncementPayload) (*models.Announcement, error)
	Update(ctx context.Context, sess *models.Session, id string, payload models.AnnouncementPayload) (*models.Announcement, error)
	RequestDelete(ctx context.Context, sess *models.Session, id string) (*models.PendingConfirmation, error)
	Resolve(ctx context.Context, sess *models.Session, token string, confirm bool) (bool, error)
}

// AnnouncementHandler wires the banner and the manager surface.
type AnnouncementHandler struct {
	service announcementService
}

// NewAnnouncementHandler creates a new handler.
func NewAnnouncementHandler(svc announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: svc}
}

// Banner godoc
// @Summary Active announcement banner
// @Tags Announcements
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /announcements/banner [get]
func (h *AnnouncementHandler) Banner(c *gin.Context) {
	banner, err := h.service.Banner(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"announcement": banner})
}

// List godoc
// @Summary List all announcements
// @Tags Announcements
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Create godoc
// @Summary Create an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body models.AnnouncementPayload true "Announcement"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var payload models.AnnouncementPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid announcement payload"))
		return
	}

	created, err := h.service.Create(c.Request.Context(), sessionFromContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, created)
}

// Update godoc
// @Summary Update an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement id"
// @Param payload body models.AnnouncementPayload true "Announcement"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /announcements/{id} [put]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var payload models.AnnouncementPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid announcement payload"))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), sessionFromContext(c), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

// Delete godoc
// @Summary Request deletion of an announcement
// @Description Binds a pending command to the confirmation dialog; nothing is
// @Description deleted until the confirmation endpoint approves it.
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement id"
// @Success 202 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	pending, err := h.service.RequestDelete(c.Request.Context(), sessionFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, dto.ConfirmIssued{
		Token:    pending.Token,
		Action:   pending.Action,
		TargetID: pending.TargetID,
	})
}

// Confirm godoc
// @Summary Resolve a pending confirmation
// @Tags Announcements
// @Accept json
// @Produce json
// @Param token path string true "Confirmation token"
// @Param payload body dto.ConfirmRequest true "Confirm or cancel"
// @Success 200 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /confirmations/{token} [post]
func (h *AnnouncementHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid confirmation payload"))
		return
	}

	executed, err := h.service.Resolve(c.Request.Context(), sessionFromContext(c), c.Param("token"), req.Confirm)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"executed": executed})
}
