package models

import "time"

// ModalState tracks the lifecycle of one dialog.
type ModalState string

const (
	ModalHidden  ModalState = "hidden"
	ModalOpening ModalState = "opening"
	ModalOpen    ModalState = "open"
	ModalClosing ModalState = "closing"
)

// Modal is the persisted state of a single dialog. Until marks when a
// transitional state (opening, closing) settles.
type Modal struct {
	State ModalState `json:"state"`
	Until time.Time  `json:"until,omitempty"`
}

// PendingConfirmation is the stored command behind the reusable confirmation
// dialog: binding a new one discards the old, and it executes at most once.
type PendingConfirmation struct {
	Token    string    `json:"token"`
	Action   string    `json:"action"`
	TargetID string    `json:"target_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// ConfirmActionDeleteAnnouncement is the only command currently routed
// through the confirmation dialog.
const ConfirmActionDeleteAnnouncement = "delete_announcement"
