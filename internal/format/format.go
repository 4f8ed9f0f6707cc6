// Package format holds the pure display helpers for activity records:
// schedule rendering, category classification and HTML escaping.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mergington/portal-gateway/internal/models"
)

// categoryKeywords is an ordered rule list: the first group with a keyword
// found in the activity name or description wins. An activity matching both
// "soccer" and "art" is therefore sports, because sports is checked first.
var categoryKeywords = []struct {
	category models.Category
	keywords []string
}{
	{models.CategorySports, []string{"soccer", "basketball", "sport", "fitness", "gym", "swim", "track", "tennis", "volleyball"}},
	{models.CategoryArts, []string{"art", "music", "theater", "drama", "paint", "band", "choir", "craft"}},
	{models.CategoryAcademic, []string{"science", "math", "chess", "debate", "study", "academic", "book", "olympiad"}},
	{models.CategoryCommunity, []string{"volunteer", "community", "service", "charity", "environment"}},
	{models.CategoryTechnology, []string{"computer", "coding", "tech", "robot", "programming"}},
}

// Classify derives a category from the activity name and description.
// Unmatched activities default to academic.
func Classify(name, description string) models.Category {
	corpus := strings.ToLower(name) + " " + strings.ToLower(description)
	for _, group := range categoryKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(corpus, keyword) {
				return group.category
			}
		}
	}
	return models.CategoryAcademic
}

// Schedule renders the activity schedule for display. Structured schedules
// become "Day, Day, 1:00 PM - 3:30 PM"; otherwise the raw text is returned
// verbatim.
func Schedule(a models.Activity) string {
	details := a.ScheduleDetails
	if details == nil {
		return a.Schedule
	}

	times := Time12(details.StartTime) + " - " + Time12(details.EndTime)
	if len(details.Days) == 0 {
		return times
	}
	return strings.Join(details.Days, ", ") + ", " + times
}

// Time12 converts a 24-hour "HH:MM" string to 12-hour clock with an AM/PM
// suffix. Hour 0 renders as 12 AM and hour 12 as 12 PM. Malformed input is
// returned unchanged.
func Time12(hhmm string) string {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return hhmm
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return hhmm
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return hhmm
	}

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix)
}

// escapes lists the HTML entity replacements in application order; ampersand
// must come first so earlier replacements are not double-escaped.
var escapes = [][2]string{
	{"&", "&amp;"},
	{"<", "&lt;"},
	{">", "&gt;"},
	{`"`, "&quot;"},
	{"'", "&#39;"},
}

// EscapeHTML replaces the five significant HTML characters with their entity
// equivalents. Empty input yields an empty string.
func EscapeHTML(s string) string {
	for _, pair := range escapes {
		s = strings.ReplaceAll(s, pair[0], pair[1])
	}
	return s
}
