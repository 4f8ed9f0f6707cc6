package models

// Category buckets activities for filtering. Derived from text, never stored.
type Category string

const (
	CategoryAll        Category = "all"
	CategorySports     Category = "sports"
	CategoryArts       Category = "arts"
	CategoryAcademic   Category = "academic"
	CategoryCommunity  Category = "community"
	CategoryTechnology Category = "technology"
)

// TimeRange names the preset schedule windows offered by the catalog.
type TimeRange string

const (
	TimeRangeAny       TimeRange = ""
	TimeRangeMorning   TimeRange = "morning"
	TimeRangeAfternoon TimeRange = "afternoon"
	TimeRangeWeekend   TimeRange = "weekend"
)

// Window returns the start/end query parameters a time range contributes to
// the upstream activities call. Weekend contributes none; it is resolved
// client-side against the structured schedule days.
func (t TimeRange) Window() (start, end string) {
	switch t {
	case TimeRangeMorning:
		return "06:00", "08:00"
	case TimeRangeAfternoon:
		return "15:00", "18:00"
	default:
		return "", ""
	}
}

// FilterState holds the catalog filters currently selected in the UI.
// At most one value per group is active at any time.
type FilterState struct {
	Category  Category  `json:"category"`
	Day       string    `json:"day"`
	TimeRange TimeRange `json:"time_range"`
	Query     string    `json:"query"`
}

// NeedsRefetch reports whether moving from prev to f requires a fresh
// upstream fetch. Day and time-range narrow the server-side result set;
// category, search and the weekend day-intersection are applied locally.
func (f FilterState) NeedsRefetch(prev FilterState) bool {
	return f.Day != prev.Day || f.TimeRange != prev.TimeRange
}
