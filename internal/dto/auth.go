package dto

import "github.com/mergington/portal-gateway/internal/models"

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionView describes the session to the front-end, driving the visibility
// of the login, user-info and manage-announcements controls.
type SessionView struct {
	State               models.SessionState `json:"state"`
	User                *models.User        `json:"user,omitempty"`
	CanManage           bool                `json:"can_manage_announcements"`
	RegistrationEnabled bool                `json:"registration_enabled"`
}

// NewSessionView projects a session record into its public shape.
func NewSessionView(s *models.Session) SessionView {
	return SessionView{
		State:               s.State,
		User:                s.User,
		CanManage:           s.Authenticated(),
		RegistrationEnabled: s.Authenticated(),
	}
}
