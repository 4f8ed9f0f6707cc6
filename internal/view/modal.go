// Package view models the dialog lifecycle the front-end drives: each modal
// moves hidden → opening → open → closing → hidden, with a fixed settle delay
// for the animated transitions, and the reusable confirmation dialog holds a
// single pending command.
package view

import (
	"time"

	"github.com/google/uuid"

	"github.com/mergington/portal-gateway/internal/models"
	appErrors "github.com/mergington/portal-gateway/pkg/errors"
)

// TransitionDelay is how long opening and closing states last before they
// settle into open and hidden.
const TransitionDelay = 300 * time.Millisecond

// Known modal names.
const (
	ModalRegistration  = "registration"
	ModalLogin         = "login"
	ModalAnnouncements = "announcements"
	ModalConfirmation  = "confirmation"
)

// KnownModal reports whether name is one of the portal's dialogs.
func KnownModal(name string) bool {
	switch name {
	case ModalRegistration, ModalLogin, ModalAnnouncements, ModalConfirmation:
		return true
	}
	return false
}

// Resolve settles transitional states whose delay has elapsed.
func Resolve(m models.Modal, now time.Time) models.Modal {
	switch m.State {
	case models.ModalOpening:
		if !now.Before(m.Until) {
			return models.Modal{State: models.ModalOpen}
		}
	case models.ModalClosing:
		if !now.Before(m.Until) {
			return models.Modal{State: models.ModalHidden}
		}
	case "":
		return models.Modal{State: models.ModalHidden}
	}
	return m
}

// Open transitions a hidden modal to opening. While the modal is closing its
// inputs are frozen, so opening is rejected until it has settled.
func Open(m models.Modal, now time.Time) (models.Modal, error) {
	m = Resolve(m, now)
	switch m.State {
	case models.ModalHidden:
		return models.Modal{State: models.ModalOpening, Until: now.Add(TransitionDelay)}, nil
	case models.ModalClosing:
		return m, appErrors.ErrModalClosing
	default:
		// already visible; keep current state
		return m, nil
	}
}

// Close starts the animated close. Closing a hidden modal is a no-op, which
// is exactly what an outside-click on a settled backdrop does.
func Close(m models.Modal, now time.Time) models.Modal {
	m = Resolve(m, now)
	switch m.State {
	case models.ModalOpening, models.ModalOpen:
		return models.Modal{State: models.ModalClosing, Until: now.Add(TransitionDelay)}
	default:
		return m
	}
}

// BindConfirmation stores a new pending command for the confirmation dialog,
// discarding whatever was bound before.
func BindConfirmation(action, targetID string, now time.Time) *models.PendingConfirmation {
	return &models.PendingConfirmation{
		Token:    uuid.NewString(),
		Action:   action,
		TargetID: targetID,
		IssuedAt: now,
	}
}
