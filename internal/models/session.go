package models

import "time"

// SessionState is the authentication state of a browser session.
type SessionState string

const (
	// SessionAnonymous has no user attached.
	SessionAnonymous SessionState = "anonymous"
	// SessionPendingValidation was restored from the store and awaits a
	// server-side check before it is trusted again.
	SessionPendingValidation SessionState = "pending_validation"
	// SessionAuthenticated is confirmed by the upstream auth endpoints.
	SessionAuthenticated SessionState = "authenticated"
)

// User identifies the signed-in teacher.
type User struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Session is the per-browser state record: the current user, the selected
// filters, the last-fetched activity snapshot and the transient view state.
type Session struct {
	ID    string       `json:"id"`
	State SessionState `json:"state"`
	User  *User        `json:"user,omitempty"`

	Filters    FilterState         `json:"filters"`
	Activities map[string]Activity `json:"activities,omitempty"`
	// FetchSeq orders catalog refreshes so a slow, older upstream response
	// cannot overwrite a newer snapshot.
	FetchSeq uint64 `json:"fetch_seq"`

	Modals         map[string]Modal     `json:"modals,omitempty"`
	PendingConfirm *PendingConfirmation `json:"pending_confirm,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Authenticated reports whether the session carries a trusted teacher identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.State == SessionAuthenticated && s.User != nil
}

// Username returns the signed-in username, or "" for anonymous sessions.
func (s *Session) Username() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Username
}
