package types

import (
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidValue = errors.New("invalid filter value")

type Country string

const (
	CountryUS Country = "US"
	CountryCA Country = "CA"
)

func (c Country) Validate() error {
	if c != CountryUS && c != CountryCA {
		return fmt.Errorf("%w: country %q", ErrInvalidValue, string(c))
	}
	return nil
}

// State is a US state or Canadian province code.
type State string

var usStates = []State{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID", "IL",
	"IN", "IA", "KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE",
	"NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD",
	"TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var caProvinces = []State{
	"AB", "BC", "MB", "NB", "NL", "NS", "NT", "NU", "ON", "PE", "QC", "SK", "YT",
}

func (s State) Validate() error {
	if !slices.Contains(usStates, s) && !slices.Contains(caProvinces, s) {
		return fmt.Errorf("%w: state %q", ErrInvalidValue, string(s))
	}
	return nil
}

// Country returns the country the code belongs to. "CA" is California.
func (s State) Country() Country {
	if slices.Contains(usStates, s) {
		return CountryUS
	}
	return CountryCA
}

type StateList []State

func (l StateList) Validate() error {
	return validateAll(l)
}

func (l StateList) empty() bool {
	return len(l) == 0
}

type CampsiteType string

var campsiteTypes = []CampsiteType{
	"AMC", "AUTH", "BLM", "BOR", "CNP", "COE", "CP", "MIL", "NF", "NM", "NP", "NRA",
	"NS", "NWR", "PP", "PR", "RES", "SB", "SCA", "SF", "SFW", "SP", "SPR", "SR",
	"SRVA", "SRA", "TVA", "USFW", "UTIL",
}

func (c CampsiteType) Validate() error {
	if !slices.Contains(campsiteTypes, c) {
		return fmt.Errorf("%w: campsite type %q", ErrInvalidValue, string(c))
	}
	return nil
}

type CampsiteTypeList []CampsiteType

func (l CampsiteTypeList) Validate() error {
	return validateAll(l)
}

func (l CampsiteTypeList) empty() bool {
	return len(l) == 0
}

type ToiletType string

const (
	ToiletFlush ToiletType = "flush"
	ToiletVault ToiletType = "vault"
	ToiletMixed ToiletType = "mixed"
	ToiletPit   ToiletType = "pit"
)

func (t ToiletType) Validate() error {
	switch t {
	case ToiletFlush, ToiletVault, ToiletMixed, ToiletPit:
		return nil
	}
	return fmt.Errorf("%w: toilet type %q", ErrInvalidValue, string(t))
}

type ToiletTypeList []ToiletType

func (l ToiletTypeList) Validate() error {
	return validateAll(l)
}

func (l ToiletTypeList) empty() bool {
	return len(l) == 0
}

type Bearing string

func validateAll[T validator](values []T) error {
	for _, v := range values {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
