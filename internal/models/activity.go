package models

// ScheduleDetails is the structured form of an activity schedule.
// Times are 24-hour "HH:MM"; Days keeps the upstream ordering.
type ScheduleDetails struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// Activity represents one extracurricular offering as returned by the portal API.
// Name is the unique key; Participants preserves registration order.
type Activity struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Schedule        string           `json:"schedule"`
	ScheduleDetails *ScheduleDetails `json:"schedule_details,omitempty"`
	MaxParticipants int              `json:"max_participants"`
	Participants    []string         `json:"participants"`
}

// IsFull reports whether the activity has reached its participant cap.
func (a Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// SpotsLeft returns the number of open seats, never negative.
func (a Activity) SpotsLeft() int {
	left := a.MaxParticipants - len(a.Participants)
	if left < 0 {
		return 0
	}
	return left
}
