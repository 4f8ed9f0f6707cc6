package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/portal-gateway/internal/models"
	"github.com/mergington/portal-gateway/internal/session"
	"github.com/mergington/portal-gateway/internal/view"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
)

type announcementClientStub struct {
	active  []models.Announcement
	all     []models.Announcement
	created int
	updated int
	deleted []string
	err     error
}

func (s *announcementClientStub) ActiveAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return s.active, s.err
}

func (s *announcementClientStub) Announcements(ctx context.Context) ([]models.Announcement, error) {
	return s.all, s.err
}

func (s *announcementClientStub) CreateAnnouncement(ctx context.Context, payload models.AnnouncementPayload, teacherUsername string) (*models.Announcement, error) {
	s.created++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Announcement{ID: "ann-new", Title: payload.Title, Message: payload.Message, ExpireDate: payload.ExpireDate, CreatedBy: teacherUsername}, nil
}

func (s *announcementClientStub) UpdateAnnouncement(ctx context.Context, id string, payload models.AnnouncementPayload, teacherUsername string) (*models.Announcement, error) {
	s.updated++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Announcement{ID: id, Title: payload.Title, Message: payload.Message, ExpireDate: payload.ExpireDate}, nil
}

func (s *announcementClientStub) DeleteAnnouncement(ctx context.Context, id, teacherUsername string) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func newAnnouncementService(client *announcementClientStub) *AnnouncementService {
	return NewAnnouncementService(client, sessionsAdapter{session.NewMemoryStore()}, nil, nil)
}

func TestBannerShowsFirstActive(t *testing.T) {
	client := &announcementClientStub{active: []models.Announcement{
		{ID: "a-1", Title: "Spirit Week", ExpireDate: "2025-12-01"},
		{ID: "a-2", Title: "Book Fair", ExpireDate: "2025-12-01"},
	}}
	svc := newAnnouncementService(client)

	banner, err := svc.Banner(context.Background())
	require.NoError(t, err)
	require.NotNil(t, banner)
	assert.Equal(t, "a-1", banner.ID, "ties are not broken; first element wins")
}

func TestBannerEmptyList(t *testing.T) {
	svc := newAnnouncementService(&announcementClientStub{})
	banner, err := svc.Banner(context.Background())
	require.NoError(t, err)
	assert.Nil(t, banner)
}

func TestListRequiresAuthentication(t *testing.T) {
	svc := newAnnouncementService(&announcementClientStub{})
	_, err := svc.List(context.Background(), newTestSession(models.SessionAnonymous))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestCreateRejectsEmptyTitleLocally(t *testing.T) {
	client := &announcementClientStub{}
	svc := newAnnouncementService(client)

	_, err := svc.Create(context.Background(), newTestSession(models.SessionAuthenticated), models.AnnouncementPayload{
		Message:    "Dress up!",
		ExpireDate: "2025-12-31",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, client.created, "validation failures must not reach the network")
}

func TestCreateRejectsBadExpireDate(t *testing.T) {
	client := &announcementClientStub{}
	svc := newAnnouncementService(client)

	_, err := svc.Create(context.Background(), newTestSession(models.SessionAuthenticated), models.AnnouncementPayload{
		Title:      "Spirit Week",
		Message:    "Dress up!",
		ExpireDate: "12/31/2025",
	})
	require.Error(t, err)
	assert.Zero(t, client.created)
}

func TestCreateSuccess(t *testing.T) {
	client := &announcementClientStub{}
	svc := newAnnouncementService(client)

	out, err := svc.Create(context.Background(), newTestSession(models.SessionAuthenticated), models.AnnouncementPayload{
		Title:      "Spirit Week",
		Message:    "Dress up!",
		StartDate:  "2025-11-01",
		ExpireDate: "2025-12-31",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, client.created)
	assert.Equal(t, "mrodriguez", out.CreatedBy)
}

func TestUpdateRequiresID(t *testing.T) {
	svc := newAnnouncementService(&announcementClientStub{})
	_, err := svc.Update(context.Background(), newTestSession(models.SessionAuthenticated), "", models.AnnouncementPayload{
		Title: "T", Message: "M", ExpireDate: "2025-12-31",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeleteRunsThroughConfirmation(t *testing.T) {
	client := &announcementClientStub{}
	svc := newAnnouncementService(client)
	sess := newTestSession(models.SessionAuthenticated)

	pending, err := svc.RequestDelete(context.Background(), sess, "ann-1")
	require.NoError(t, err)
	assert.Empty(t, client.deleted, "delete must wait for confirmation")
	assert.Equal(t, models.ModalOpening, sess.Modals[view.ModalConfirmation].State)

	executed, err := svc.Resolve(context.Background(), sess, pending.Token, true)
	require.NoError(t, err)
	assert.True(t, executed)
	assert.Equal(t, []string{"ann-1"}, client.deleted)
	assert.Nil(t, sess.PendingConfirm)
}

func TestConfirmationTokenIsSingleUse(t *testing.T) {
	client := &announcementClientStub{}
	svc := newAnnouncementService(client)
	sess := newTestSession(models.SessionAuthenticated)

	pending, err := svc.RequestDelete(context.Background(), sess, "ann-1")
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), sess, pending.Token, true)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), sess, pending.Token, true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConfirmationExpired.Code, appErrors.FromError(err).Code)
	assert.Len(t, client.deleted, 1)
}

func TestCancelDiscardsCommand(t *testing.T) {
	client := &announcementClientStub{}
	svc := newAnnouncementService(client)
	sess := newTestSession(models.SessionAuthenticated)

	pending, err := svc.RequestDelete(context.Background(), sess, "ann-1")
	require.NoError(t, err)

	executed, err := svc.Resolve(context.Background(), sess, pending.Token, false)
	require.NoError(t, err)
	assert.False(t, executed)
	assert.Empty(t, client.deleted)
	assert.Nil(t, sess.PendingConfirm)
}

func TestRebindDiscardsPriorCommand(t *testing.T) {
	client := &announcementClientStub{}
	svc := newAnnouncementService(client)
	sess := newTestSession(models.SessionAuthenticated)

	first, err := svc.RequestDelete(context.Background(), sess, "ann-1")
	require.NoError(t, err)

	// retrigger settles the dialog past its opening transition first
	sess.Modals[view.ModalConfirmation] = models.Modal{State: models.ModalOpen}
	second, err := svc.RequestDelete(context.Background(), sess, "ann-2")
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), sess, first.Token, true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConfirmationExpired.Code, appErrors.FromError(err).Code)

	executed, err := svc.Resolve(context.Background(), sess, second.Token, true)
	require.NoError(t, err)
	assert.True(t, executed)
	assert.Equal(t, []string{"ann-2"}, client.deleted)
}

func TestRequestDeleteRequiresAuthentication(t *testing.T) {
	svc := newAnnouncementService(&announcementClientStub{})
	_, err := svc.RequestDelete(context.Background(), newTestSession(models.SessionAnonymous), "ann-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
