// Package filterset applies the client-side catalog filters (category,
// weekend, free-text search) to the last-fetched activity set. Day and
// time-range narrowing happen upstream; see models.FilterState.
package filterset

import (
	"strings"

	"github.com/mergington/portal-gateway/internal/format"
	"github.com/mergington/portal-gateway/internal/models"
)

// Apply returns the activities matching the given filter state. The
// predicates are independent, but they are evaluated in the documented order
// so the weekend rule's partial-data caveat stays stable: activities without
// a structured schedule are never excluded by the weekend filter.
func Apply(activities []models.Activity, state models.FilterState) []models.Activity {
	result := make([]models.Activity, 0, len(activities))
	query := strings.ToLower(strings.TrimSpace(state.Query))

	for _, activity := range activities {
		if state.Category != "" && state.Category != models.CategoryAll {
			if format.Classify(activity.Name, activity.Description) != state.Category {
				continue
			}
		}

		if state.TimeRange == models.TimeRangeWeekend && !onWeekend(activity) {
			continue
		}

		if query != "" {
			corpus := strings.ToLower(activity.Name + " " + activity.Description + " " + format.Schedule(activity))
			if !strings.Contains(corpus, query) {
				continue
			}
		}

		result = append(result, activity)
	}

	return result
}

// onWeekend reports whether the activity meets on Saturday or Sunday.
// Activities lacking structured schedule data pass; only explicit weekday
// schedules are excluded.
func onWeekend(activity models.Activity) bool {
	details := activity.ScheduleDetails
	if details == nil || len(details.Days) == 0 {
		return true
	}
	for _, day := range details.Days {
		switch strings.ToLower(day) {
		case "saturday", "sunday":
			return true
		}
	}
	return false
}
