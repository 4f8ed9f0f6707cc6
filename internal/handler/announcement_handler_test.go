package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/portal-gateway/internal/models"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
)

type fakeAnnouncementSrv struct {
	banner   *models.Announcement
	items    []models.Announcement
	created  *models.Announcement
	pending  *models.PendingConfirmation
	executed bool

	createErr  error
	resolveErr error

	lastPayload models.AnnouncementPayload
	lastConfirm bool
}

func (f *fakeAnnouncementSrv) Banner(ctx context.Context) (*models.Announcement, error) {
	return f.banner, nil
}

func (f *fakeAnnouncementSrv) List(ctx context.Context, sess *models.Session) ([]models.Announcement, error) {
	return f.items, nil
}

func (f *fakeAnnouncementSrv) Create(ctx context.Context, sess *models.Session, payload models.AnnouncementPayload) (*models.Announcement, error) {
	f.lastPayload = payload
	return f.created, f.createErr
}

func (f *fakeAnnouncementSrv) Update(ctx context.Context, sess *models.Session, id string, payload models.AnnouncementPayload) (*models.Announcement, error) {
	f.lastPayload = payload
	return f.created, nil
}

func (f *fakeAnnouncementSrv) RequestDelete(ctx context.Context, sess *models.Session, id string) (*models.PendingConfirmation, error) {
	return f.pending, nil
}

func (f *fakeAnnouncementSrv) Resolve(ctx context.Context, sess *models.Session, token string, confirm bool) (bool, error) {
	f.lastConfirm = confirm
	if f.resolveErr != nil {
		return false, f.resolveErr
	}
	return f.executed, nil
}

func TestBannerEmptyWhenNothingActive(t *testing.T) {
	h := NewAnnouncementHandler(&fakeAnnouncementSrv{})

	c, rec := testContext(t, http.MethodGet, "/announcements/banner", "")
	h.Banner(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Announcement *models.Announcement `json:"announcement"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Data.Announcement)
}

func TestCreateForwardsPayload(t *testing.T) {
	srv := &fakeAnnouncementSrv{created: &models.Announcement{ID: "a1", Title: "Spring Fair"}}
	h := NewAnnouncementHandler(srv)

	body := `{"title": "Spring Fair", "message": "Sign up now", "start_date": "2026-03-01", "expire_date": "2026-03-15"}`
	c, rec := testContext(t, http.MethodPost, "/announcements", body)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Spring Fair", srv.lastPayload.Title)
	assert.Equal(t, "2026-03-15", srv.lastPayload.ExpireDate)
}

func TestCreatePropagatesValidationError(t *testing.T) {
	srv := &fakeAnnouncementSrv{createErr: appErrors.Clone(appErrors.ErrValidation, "title, message and expiration date are required")}
	h := NewAnnouncementHandler(srv)

	c, rec := testContext(t, http.MethodPost, "/announcements", `{"title": "", "message": "x", "expire_date": "2026-03-15"}`)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteIssuesConfirmation(t *testing.T) {
	srv := &fakeAnnouncementSrv{pending: &models.PendingConfirmation{
		Token:    "tok-1",
		Action:   models.ConfirmActionDeleteAnnouncement,
		TargetID: "a1",
	}}
	h := NewAnnouncementHandler(srv)

	c, rec := testContext(t, http.MethodDelete, "/announcements/a1", "")
	c.Params = gin.Params{{Key: "id", Value: "a1"}}
	h.Delete(c)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var envelope struct {
		Data struct {
			Token  string `json:"confirm_token"`
			Action string `json:"action"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "tok-1", envelope.Data.Token)
	assert.Equal(t, models.ConfirmActionDeleteAnnouncement, envelope.Data.Action)
}

func TestConfirmExecutes(t *testing.T) {
	srv := &fakeAnnouncementSrv{executed: true}
	h := NewAnnouncementHandler(srv)

	c, rec := testContext(t, http.MethodPost, "/confirmations/tok-1", `{"confirm": true}`)
	c.Params = gin.Params{{Key: "token", Value: "tok-1"}}
	h.Confirm(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.lastConfirm)
	var envelope struct {
		Data struct {
			Executed bool `json:"executed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Executed)
}

func TestConfirmStaleTokenGone(t *testing.T) {
	srv := &fakeAnnouncementSrv{resolveErr: appErrors.ErrConfirmationExpired}
	h := NewAnnouncementHandler(srv)

	c, rec := testContext(t, http.MethodPost, "/confirmations/tok-old", `{"confirm": true}`)
	c.Params = gin.Params{{Key: "token", Value: "tok-old"}}
	h.Confirm(c)

	assert.Equal(t, http.StatusGone, rec.Code)
}
