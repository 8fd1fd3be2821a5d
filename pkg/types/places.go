package types

import "github.com/google/uuid"

// Place is a named geographical location used to anchor campsite searches.
type Place struct {
	ID              uuid.UUID `json:"id"`
	GovtID          string    `json:"govt_id"`
	Name            string    `json:"name"`
	GenericCategory string    `json:"generic_category"`
	GenericTerm     string    `json:"generic_term"`
	County          *string   `json:"county"`
	StateProvince   State     `json:"state_province"`
	Country         Country   `json:"country"`
	Lat             float64   `json:"lat"`
	Lon             float64   `json:"lon"`
	PriorityOrder   int       `json:"priority_order"`
}

type PlaceFilters struct {
	StateProvince Opt[StateList] `json:"state_province"`
	Country       Opt[Country]   `json:"country"`
	SearchStrCt   Opt[string]    `json:"search_str__ct"`
}

func (f *PlaceFilters) Fields() []NamedField {
	return []NamedField{
		{Name: "state_province", Field: &f.StateProvince},
		{Name: "country", Field: &f.Country},
		{Name: "search_str__ct", Field: &f.SearchStrCt},
	}
}
