package types

// ItemsPerPage is the fixed page size of the campsite list.
const ItemsPerPage = 20

// FieldCount is the number of entries returned by FilterState.Fields.
const FieldCount = 29

// Field gives uniform access to one FilterState entry.
type Field interface {
	IsSet() bool
	// IsDefault reports whether the field is left out of shareable URLs.
	IsDefault() bool
	Any() any
	// Canonical is the JSON text of the value, or "" when unset.
	Canonical() string
	Decode(data []byte) error
	Reset()
}

type NamedField struct {
	Name  string
	Sort  bool
	Field Field
}

// FilterState is the complete set of campsite search constraints, sort
// order included.
type FilterState struct {
	SearchStrCt           Opt[string]           `json:"search_str__ct"`
	NameCt                Opt[string]           `json:"name__ct"`
	CodeCt                Opt[string]           `json:"code__ct"`
	State                 Opt[StateList]        `json:"state"`
	Country               Opt[Country]          `json:"country"`
	CampsiteType          Opt[CampsiteTypeList] `json:"campsite_type"`
	MonthOpenLt           Opt[int]              `json:"month_open__lt"`
	MonthCloseGt          Opt[int]              `json:"month_close__gt"`
	ElevationFtGt         Opt[int]              `json:"elevation_ft__gt"`
	ElevationFtLt         Opt[int]              `json:"elevation_ft__lt"`
	NumCampsitesGt        Opt[int]              `json:"num_campsites__gt"`
	NumCampsitesLt        Opt[int]              `json:"num_campsites__lt"`
	NearestTownDistanceLt Opt[float64]          `json:"nearest_town_distance__lt"`
	MaxRvLengthGt         Opt[int]              `json:"max_rv_length__gt"`
	ToiletType            Opt[ToiletTypeList]   `json:"toilet_type"`

	HasRvHookup         Opt[bool] `json:"has_rv_hookup"`
	HasWaterHookup      Opt[bool] `json:"has_water_hookup"`
	HasElectricHookup   Opt[bool] `json:"has_electric_hookup"`
	HasSewerHookup      Opt[bool] `json:"has_sewer_hookup"`
	HasSanitaryDump     Opt[bool] `json:"has_sanitary_dump"`
	HasToilets          Opt[bool] `json:"has_toilets"`
	HasDrinkingWater    Opt[bool] `json:"has_drinking_water"`
	HasShowers          Opt[bool] `json:"has_showers"`
	AcceptsReservations Opt[bool] `json:"accepts_reservations"`
	AcceptsPets         Opt[bool] `json:"accepts_pets"`
	LowNoFee            Opt[bool] `json:"low_no_fee"`

	Distance Opt[Distance] `json:"distance"`

	SortBy  SortBy  `json:"sort_by"`
	SortDir SortDir `json:"sort_dir"`
}

func DefaultFilterState() FilterState {
	return FilterState{
		SortBy:  DefaultSortBy,
		SortDir: DefaultSortDir,
	}
}

// Fields lists every entry in the declared order. The returned fields
// point into f.
func (f *FilterState) Fields() []NamedField {
	return []NamedField{
		{Name: "search_str__ct", Field: &f.SearchStrCt},
		{Name: "name__ct", Field: &f.NameCt},
		{Name: "code__ct", Field: &f.CodeCt},
		{Name: "state", Field: &f.State},
		{Name: "country", Field: &f.Country},
		{Name: "campsite_type", Field: &f.CampsiteType},
		{Name: "month_open__lt", Field: &f.MonthOpenLt},
		{Name: "month_close__gt", Field: &f.MonthCloseGt},
		{Name: "elevation_ft__gt", Field: &f.ElevationFtGt},
		{Name: "elevation_ft__lt", Field: &f.ElevationFtLt},
		{Name: "num_campsites__gt", Field: &f.NumCampsitesGt},
		{Name: "num_campsites__lt", Field: &f.NumCampsitesLt},
		{Name: "nearest_town_distance__lt", Field: &f.NearestTownDistanceLt},
		{Name: "max_rv_length__gt", Field: &f.MaxRvLengthGt},
		{Name: "toilet_type", Field: &f.ToiletType},
		{Name: "has_rv_hookup", Field: &f.HasRvHookup},
		{Name: "has_water_hookup", Field: &f.HasWaterHookup},
		{Name: "has_electric_hookup", Field: &f.HasElectricHookup},
		{Name: "has_sewer_hookup", Field: &f.HasSewerHookup},
		{Name: "has_sanitary_dump", Field: &f.HasSanitaryDump},
		{Name: "has_toilets", Field: &f.HasToilets},
		{Name: "has_drinking_water", Field: &f.HasDrinkingWater},
		{Name: "has_showers", Field: &f.HasShowers},
		{Name: "accepts_reservations", Field: &f.AcceptsReservations},
		{Name: "accepts_pets", Field: &f.AcceptsPets},
		{Name: "low_no_fee", Field: &f.LowNoFee},
		{Name: "distance", Field: &f.Distance},
		{Name: SortByKey, Sort: true, Field: sortField[SortBy]{ptr: &f.SortBy, def: DefaultSortBy}},
		{Name: SortDirKey, Sort: true, Field: sortField[SortDir]{ptr: &f.SortDir, def: DefaultSortDir}},
	}
}

// Lookup returns the named field, ok is false for unknown names.
func (f *FilterState) Lookup(name string) (Field, bool) {
	for _, nf := range f.Fields() {
		if nf.Name == name {
			return nf.Field, true
		}
	}
	return nil, false
}

// Equal compares every field by value.
func (f FilterState) Equal(other FilterState) bool {
	a, b := f.Fields(), other.Fields()
	for i := range a {
		if a[i].Field.Canonical() != b[i].Field.Canonical() {
			return false
		}
	}
	return true
}

func (f FilterState) IsDefault() bool {
	return f.Equal(DefaultFilterState())
}

// Normalize fills empty sort fields with their defaults.
func (f FilterState) Normalize() FilterState {
	if f.SortBy == "" {
		f.SortBy = DefaultSortBy
	}
	if f.SortDir == "" {
		f.SortDir = DefaultSortDir
	}
	return f
}
