// Package session owns the browser session: a signed cookie naming a record
// in the store, a small state machine (anonymous, pending-validation,
// authenticated) and the login/logout/revalidation flows around it.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mergington/portal-gateway/internal/models"
	"github.com/mergington/portal-gateway/pkg/config"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
)

type authClient interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	CheckSession(ctx context.Context, username string) (*models.User, error)
}

// Manager drives session state transitions and their persistence.
type Manager struct {
	store  Store
	client authClient
	cfg    config.SessionConfig
	logger *zap.Logger
}

// NewManager constructs a manager.
func NewManager(store Store, client authClient, cfg config.SessionConfig, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, client: client, cfg: cfg, logger: logger}
}

// NewAnonymous starts a fresh anonymous session.
func (m *Manager) NewAnonymous() *models.Session {
	return &models.Session{
		ID:      uuid.NewString(),
		State:   models.SessionAnonymous,
		Filters: models.FilterState{Category: models.CategoryAll},
		Modals:  map[string]models.Modal{},
	}
}

// CookieToken signs a cookie value for the session.
func (m *Manager) CookieToken(sessionID string) (string, error) {
	return IssueToken(m.cfg.Secret, sessionID, m.cfg.TTL)
}

// Restore resolves a cookie value into a session record. An absent, invalid
// or corrupt record is logged and replaced with a fresh anonymous session;
// it is never surfaced as an error.
func (m *Manager) Restore(ctx context.Context, rawToken string) (sess *models.Session, fresh bool) {
	if rawToken == "" {
		return m.NewAnonymous(), true
	}

	id, err := ParseToken(m.cfg.Secret, rawToken)
	if err != nil {
		m.logger.Info("rejecting unparseable session cookie", zap.Error(err))
		return m.NewAnonymous(), true
	}

	record, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			m.logger.Warn("session record corrupt, forcing logout", zap.String("session_id", id))
		} else if !errors.Is(err, ErrNoRecord) {
			m.logger.Error("session store read failed", zap.String("session_id", id), zap.Error(err))
		}
		return m.NewAnonymous(), true
	}
	if record.Modals == nil {
		record.Modals = map[string]models.Modal{}
	}
	return record, false
}

// Login exchanges credentials for an authenticated session. The record is
// persisted only on success; a failed login leaves the session untouched.
func (m *Manager) Login(ctx context.Context, sess *models.Session, username, password string) (*models.Session, error) {
	user, err := m.client.Login(ctx, username, password)
	if err != nil {
		return sess, err
	}

	sess.User = user
	sess.State = models.SessionAuthenticated
	// registration affordances depend on identity; force a catalog refresh
	sess.Activities = nil
	if err := m.store.Save(ctx, sess); err != nil {
		return sess, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist session")
	}
	m.logger.Info("teacher signed in", zap.String("username", user.Username))
	return sess, nil
}

// Validate revalidates a restored identity against the server: pending or
// authenticated sessions are confirmed (and re-persisted) or demoted to
// anonymous. Anonymous sessions pass through unchanged.
func (m *Manager) Validate(ctx context.Context, sess *models.Session) (*models.Session, error) {
	if sess.User == nil {
		sess.State = models.SessionAnonymous
		return sess, nil
	}

	sess.State = models.SessionPendingValidation
	user, err := m.client.CheckSession(ctx, sess.User.Username)
	if err != nil {
		m.logger.Info("session revalidation failed", zap.String("username", sess.User.Username), zap.Error(err))
		if clearErr := m.clearIdentity(ctx, sess); clearErr != nil {
			return sess, clearErr
		}
		return sess, nil
	}

	sess.User = user
	sess.State = models.SessionAuthenticated
	if err := m.store.Save(ctx, sess); err != nil {
		return sess, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist session")
	}
	return sess, nil
}

// Logout drops the identity and every identity-gated leftover.
func (m *Manager) Logout(ctx context.Context, sess *models.Session) error {
	username := sess.Username()
	if err := m.clearIdentity(ctx, sess); err != nil {
		return err
	}
	if username != "" {
		m.logger.Info("teacher signed out", zap.String("username", username))
	}
	return nil
}

// Save persists the record without changing its authentication state. The
// catalog and view layers use it for snapshot, filter and modal updates.
func (m *Manager) Save(ctx context.Context, sess *models.Session) error {
	if err := m.store.Save(ctx, sess); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist session")
	}
	return nil
}

// Reload fetches the latest stored copy of a session record.
func (m *Manager) Reload(ctx context.Context, id string) (*models.Session, error) {
	record, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (m *Manager) clearIdentity(ctx context.Context, sess *models.Session) error {
	sess.User = nil
	sess.State = models.SessionAnonymous
	sess.PendingConfirm = nil
	sess.Activities = nil
	if err := m.store.Save(ctx, sess); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist session")
	}
	return nil
}
