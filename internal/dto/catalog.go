package dto

import "github.com/mergington/portal-gateway/internal/models"

// ActivityCard is one rendered catalog entry.
type ActivityCard struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Schedule        string          `json:"schedule"`
	Category        models.Category `json:"category"`
	MaxParticipants int             `json:"max_participants"`
	Participants    []string        `json:"participants"`
	SpotsLeft       int             `json:"spots_left"`
	IsFull          bool            `json:"is_full"`
	// CanRegister gates the register/unregister affordances: it requires an
	// authenticated teacher and, for signup, a free spot.
	CanRegister bool `json:"can_register"`
}

// CatalogView is the response of the catalog endpoint.
type CatalogView struct {
	Activities []ActivityCard     `json:"activities"`
	Filters    models.FilterState `json:"filters"`
	Total      int                `json:"total"`
}

// RosterRequest is the signup/unregister body.
type RosterRequest struct {
	Email string `json:"email" binding:"required,email"`
}
