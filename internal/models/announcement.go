package models

// Announcement is a timed banner message owned by the portal backend.
// Dates are "YYYY-MM-DD" strings; StartDate may be empty, ExpireDate never is.
type Announcement struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	StartDate  string `json:"start_date,omitempty"`
	ExpireDate string `json:"expire_date"`
	CreatedBy  string `json:"created_by,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// AnnouncementPayload carries the editable announcement fields through the
// manager form, local validation and the upstream call.
type AnnouncementPayload struct {
	Title      string `json:"title" validate:"required"`
	Message    string `json:"message" validate:"required"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	ExpireDate string `json:"expire_date" validate:"required,datetime=2006-01-02"`
}
