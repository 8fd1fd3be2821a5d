package types

import "fmt"

type DistanceUnit string

const (
	DistanceMiles      DistanceUnit = "mi"
	DistanceKilometers DistanceUnit = "km"
)

// Distance limits results to campsites within Value Units of a point.
// It is only meaningful as a whole, so every part is required.
type Distance struct {
	Value float64      `json:"value"`
	Units DistanceUnit `json:"units"`
	Lat   float64      `json:"lat"`
	Lon   float64      `json:"lon"`
}

func (d Distance) Validate() error {
	switch {
	case d.Units != DistanceMiles && d.Units != DistanceKilometers:
		return fmt.Errorf("%w: distance units %q", ErrInvalidValue, string(d.Units))
	case d.Value <= 0:
		return fmt.Errorf("%w: distance value %v", ErrInvalidValue, d.Value)
	case d.Lat < -90 || d.Lat > 90:
		return fmt.Errorf("%w: distance lat %v", ErrInvalidValue, d.Lat)
	case d.Lon < -180 || d.Lon > 180:
		return fmt.Errorf("%w: distance lon %v", ErrInvalidValue, d.Lon)
	}
	return nil
}
