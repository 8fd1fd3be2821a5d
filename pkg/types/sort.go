package types

import (
	"fmt"
	"strings"

	"github.com/matst80/campsite-finder/pkg/common/jsoncompat"
)

const (
	SortByKey  = "sort_by"
	SortDirKey = "sort_dir"
)

type SortBy string

const (
	SortByName         SortBy = "name"
	SortByCode         SortBy = "code"
	SortByState        SortBy = "state"
	SortByCountry      SortBy = "country"
	SortByCampsiteType SortBy = "campsite_type"
)

var SortByOptions = []SortBy{SortByCode, SortByName, SortByState, SortByCountry, SortByCampsiteType}

func (s SortBy) Validate() error {
	for _, o := range SortByOptions {
		if o == s {
			return nil
		}
	}
	return fmt.Errorf("%w: sort_by %q", ErrInvalidValue, string(s))
}

// Label is the human readable name, "campsite type" for campsite_type.
func (s SortBy) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

func (d SortDir) Validate() error {
	if d != SortAsc && d != SortDesc {
		return fmt.Errorf("%w: sort_dir %q", ErrInvalidValue, string(d))
	}
	return nil
}

func (d SortDir) Toggle() SortDir {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

const (
	DefaultSortBy  = SortByName
	DefaultSortDir = SortAsc
)

type sortValue interface {
	~string
	Validate() error
}

// sortField adapts an always present sort value to Field. It is never
// unset; null or a missing key means the default.
type sortField[T sortValue] struct {
	ptr *T
	def T
}

func (s sortField[T]) IsSet() bool {
	return true
}

func (s sortField[T]) IsDefault() bool {
	return *s.ptr == s.def
}

func (s sortField[T]) Any() any {
	return *s.ptr
}

func (s sortField[T]) Canonical() string {
	return canonical(*s.ptr)
}

func (s sortField[T]) Decode(data []byte) error {
	if isNull(data) {
		*s.ptr = s.def
		return nil
	}
	var v T
	if err := jsoncompat.Unmarshal(data, &v); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*s.ptr = v
	return nil
}

func (s sortField[T]) Reset() {
	*s.ptr = s.def
}
