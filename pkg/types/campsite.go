package types

import "github.com/google/uuid"

type Campsite struct {
	ID                  uuid.UUID    `json:"id"`
	Code                string       `json:"code,omitempty"`
	Name                string       `json:"name"`
	State               State        `json:"state"`
	Country             Country      `json:"country"`
	CampsiteType        CampsiteType `json:"campsite_type,omitempty"`
	Lon                 float64      `json:"lon"`
	Lat                 float64      `json:"lat"`
	Composite           string       `json:"composite"`
	Comments            string       `json:"comments,omitempty"`
	Phone               string       `json:"phone,omitempty"`
	MonthOpen           *int         `json:"month_open,omitempty"`
	MonthClose          *int         `json:"month_close,omitempty"`
	ElevationFt         *int         `json:"elevation_ft,omitempty"`
	NumCampsites        *int         `json:"num_campsites,omitempty"`
	NearestTown         string       `json:"nearest_town,omitempty"`
	NearestTownDistance *float64     `json:"nearest_town_distance,omitempty"`
	NearestTownBearing  Bearing      `json:"nearest_town_bearing,omitempty"`

	HasRvHookup         *bool      `json:"has_rv_hookup,omitempty"`
	HasWaterHookup      *bool      `json:"has_water_hookup,omitempty"`
	HasElectricHookup   *bool      `json:"has_electric_hookup,omitempty"`
	HasSewerHookup      *bool      `json:"has_sewer_hookup,omitempty"`
	HasSanitaryDump     *bool      `json:"has_sanitary_dump,omitempty"`
	MaxRvLength         *int       `json:"max_rv_length,omitempty"`
	HasToilets          *bool      `json:"has_toilets,omitempty"`
	ToiletType          ToiletType `json:"toilet_type,omitempty"`
	HasDrinkingWater    *bool      `json:"has_drinking_water,omitempty"`
	HasShowers          *bool      `json:"has_showers,omitempty"`
	AcceptsReservations *bool      `json:"accepts_reservations,omitempty"`
	AcceptsPets         *bool      `json:"accepts_pets,omitempty"`
	LowNoFee            *bool      `json:"low_no_fee,omitempty"`
}

// CampsiteList is one page of search results.
type CampsiteList struct {
	Items           []Campsite `json:"items"`
	NumTotalResults int        `json:"num_total_results"`
}
