package session

import (
	"encoding/json"

	"github.com/matst80/campsite-finder/pkg/liststate"
	"github.com/matst80/campsite-finder/pkg/types"
)

// Inbound message types.
const (
	TypeNavigate      = "navigate"
	TypeSetFilters    = "set_filters"
	TypeToggleSortDir = "toggle_sort_dir"
	TypeSetSortBy     = "set_sort_by"
	TypeSetPage       = "set_page"
	TypeClearFilters  = "clear_filters"
	TypeRetry         = "retry"
)

// Outbound message types.
const (
	TypeURL   = "url"
	TypeState = "state"
	TypeError = "error"
)

// Inbound is a message from the browser. The client sends navigate on
// first load and on history traversal only, never in response to a url
// message. Filters in set_filters replace the whole filter state.
type Inbound struct {
	Type    string          `json:"type"`
	Query   string          `json:"query,omitempty"`
	Filters json.RawMessage `json:"filters,omitempty"`
	SortBy  types.SortBy    `json:"sort_by,omitempty"`
	Page    int             `json:"page,omitempty"`
}

type Outbound struct {
	Type  string              `json:"type"`
	Mode  string              `json:"mode,omitempty"`
	Query string              `json:"query,omitempty"`
	State *liststate.Snapshot `json:"state,omitempty"`
	Error string              `json:"error,omitempty"`
}
