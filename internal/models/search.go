package models

import "time"

// SortMode names one of the total orders the listing supports.
type SortMode string

const (
	SortRelevance  SortMode = "relevance"
	SortDate       SortMode = "date"
	SortSalaryHigh SortMode = "salary-high"
	SortSalaryLow  SortMode = "salary-low"
)

// ParseSortMode returns the known mode for s. Anything unrecognised sorts by
// relevance, the same as an empty value.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortDate, SortSalaryHigh, SortSalaryLow:
		return SortMode(s)
	default:
		return SortRelevance
	}
}

// FilterCriteria is the active set of user constraints. Empty fields are
// "no constraint".
type FilterCriteria struct {
	Query      string `json:"query,omitempty"`
	Location   string `json:"location,omitempty"`
	Role       string `json:"role,omitempty"`
	Experience string `json:"experience,omitempty"`
	Type       string `json:"type,omitempty"`
	Salary     string `json:"salary,omitempty"`
}

// IsEmpty reports whether no dimension is constrained.
func (f FilterCriteria) IsEmpty() bool {
	return f == FilterCriteria{}
}

// RecentSearch is one entry of the capped, most-recent-first search history.
type RecentSearch struct {
	Query     string `json:"query"`
	Location  string `json:"location"`
	Timestamp int64  `json:"timestamp"`
}

// SavedSearch snapshots the full filter state of the listing view.
type SavedSearch struct {
	Filters   FilterCriteria `json:"filters"`
	Sort      SortMode       `json:"sort"`
	Timestamp int64          `json:"timestamp"`
}

// UnixMillis renders t the way stored timestamps are kept.
func UnixMillis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}
