package models

import "time"

// HistoryEntry is a persisted record of a past search. The id comes from the
// gateway's search response so a replay can fetch the same result set.
type HistoryEntry struct {
	ID     string    `json:"id"`
	UserID string    `json:"user"`
	Query  string    `json:"query"`
	Source Source    `json:"source"`
	Date   time.Time `json:"date"`
}

// HistoryPage is one page of a cursor-paginated history read. NextCursor is
// empty when there are no further pages.
type HistoryPage struct {
	Items      []*HistoryEntry `json:"items"`
	NextCursor string          `json:"next,omitempty"`
}
