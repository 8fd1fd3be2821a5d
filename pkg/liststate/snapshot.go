package liststate

import (
	"github.com/matst80/campsite-finder/pkg/query"
	"github.com/matst80/campsite-finder/pkg/types"
)

// Snapshot is a consistent copy of the controller state together with the
// values derived from it. Version increases with every change, so a
// consumer receiving snapshots from several goroutines keeps the highest.
type Snapshot struct {
	Version        uint64              `json:"version"`
	Page           int                 `json:"page"`
	Resolved       bool                `json:"resolved"`
	Filters        types.FilterState   `json:"filters"`
	Query          string              `json:"query,omitempty"`
	Fetching       bool                `json:"fetching"`
	Error          bool                `json:"error"`
	Result         *types.CampsiteList `json:"result,omitempty"`
	TotalPages     int                 `json:"total_pages"`
	ResultRange    string              `json:"result_range,omitempty"`
	Summary        string              `json:"summary"`
	AppliedFilters int                 `json:"applied_filters"`
	ShowPagination bool                `json:"show_pagination"`
	ResetDisabled  bool                `json:"reset_disabled"`

	identity query.Identity
}

// Identity is only available once the page is resolved.
func (s Snapshot) Identity() (query.Identity, bool) {
	return s.identity, s.Resolved
}
