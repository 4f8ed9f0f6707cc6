package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mergington/portal-gateway/internal/models"
	"github.com/mergington/portal-gateway/internal/view"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
)

type announcementClient interface {
	ActiveAnnouncements(ctx context.Context) ([]models.Announcement, error)
	Announcements(ctx context.Context) ([]models.Announcement, error)
	CreateAnnouncement(ctx context.Context, payload models.AnnouncementPayload, teacherUsername string) (*models.Announcement, error)
	UpdateAnnouncement(ctx context.Context, id string, payload models.AnnouncementPayload, teacherUsername string) (*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id, teacherUsername string) error
}

// AnnouncementService backs the banner and the teacher-only manager modal.
// Mutations are validated locally before any upstream call, and delete runs
// through the confirmation dialog's pending-command flow.
type AnnouncementService struct {
	client    announcementClient
	sessions  sessionWriter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(client announcementClient, sessions sessionWriter, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{client: client, sessions: sessions, validator: validate, logger: logger, now: time.Now}
}

// Banner returns the announcement currently shown above the catalog: the
// first entry of the active list in upstream order, or nil when the list is
// empty. Ties are not broken; first element wins.
func (s *AnnouncementService) Banner(ctx context.Context) (*models.Announcement, error) {
	active, err := s.client.ActiveAnnouncements(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	return &active[0], nil
}

// List returns all announcements for the manager view.
func (s *AnnouncementService) List(ctx context.Context, sess *models.Session) ([]models.Announcement, error) {
	if !sess.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	return s.client.Announcements(ctx)
}

// Create validates the form locally and posts a new announcement.
func (s *AnnouncementService) Create(ctx context.Context, sess *models.Session, payload models.AnnouncementPayload) (*models.Announcement, error) {
	if !sess.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, message and expire date are required")
	}
	return s.client.CreateAnnouncement(ctx, payload, sess.Username())
}

// Update validates the form locally and replaces an existing announcement.
func (s *AnnouncementService) Update(ctx context.Context, sess *models.Session, id string, payload models.AnnouncementPayload) (*models.Announcement, error) {
	if !sess.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "announcement id is required")
	}
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, message and expire date are required")
	}
	return s.client.UpdateAnnouncement(ctx, id, payload, sess.Username())
}

// RequestDelete binds a pending delete command to the confirmation dialog
// instead of deleting immediately. Any previously pending command is
// discarded, and the confirmation modal starts opening.
func (s *AnnouncementService) RequestDelete(ctx context.Context, sess *models.Session, id string) (*models.PendingConfirmation, error) {
	if !sess.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "announcement id is required")
	}

	now := s.now()
	pending := view.BindConfirmation(models.ConfirmActionDeleteAnnouncement, id, now)
	sess.PendingConfirm = pending

	modal, err := view.Open(sess.Modals[view.ModalConfirmation], now)
	if err != nil {
		return nil, err
	}
	sess.Modals[view.ModalConfirmation] = modal

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return pending, nil
}

// Resolve settles a pending confirmation: execute on confirm, drop on cancel.
// Either way the command is consumed, so it runs at most once.
func (s *AnnouncementService) Resolve(ctx context.Context, sess *models.Session, token string, confirm bool) (bool, error) {
	if !sess.Authenticated() {
		return false, appErrors.ErrUnauthorized
	}

	pending := sess.PendingConfirm
	if pending == nil || pending.Token != token {
		return false, appErrors.ErrConfirmationExpired
	}

	now := s.now()
	sess.PendingConfirm = nil
	sess.Modals[view.ModalConfirmation] = view.Close(sess.Modals[view.ModalConfirmation], now)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return false, err
	}

	if !confirm {
		return false, nil
	}

	switch pending.Action {
	case models.ConfirmActionDeleteAnnouncement:
		if err := s.client.DeleteAnnouncement(ctx, pending.TargetID, sess.Username()); err != nil {
			return false, err
		}
		s.logger.Info("announcement deleted", zap.String("announcement_id", pending.TargetID), zap.String("by", sess.Username()))
		return true, nil
	default:
		return false, appErrors.Clone(appErrors.ErrValidation, "unknown confirmation action")
	}
}
