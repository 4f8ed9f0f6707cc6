package dto

import "github.com/mergington/portal-gateway/internal/models"

// ViewState is the response of the view endpoint: every modal's settled
// state plus whether a confirmation is pending.
type ViewState struct {
	Modals              map[string]models.Modal `json:"modals"`
	PendingConfirmation *PendingConfirmView     `json:"pending_confirmation,omitempty"`
}

// PendingConfirmView exposes the pending command without its token.
type PendingConfirmView struct {
	Action   string `json:"action"`
	TargetID string `json:"target_id"`
}

// ConfirmRequest resolves a pending confirmation.
type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

// ConfirmIssued is returned when a destructive action awaits confirmation.
type ConfirmIssued struct {
	Token    string `json:"confirm_token"`
	Action   string `json:"action"`
	TargetID string `json:"target_id"`
}
