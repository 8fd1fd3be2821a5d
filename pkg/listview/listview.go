// Package listview derives the display values of the campsite list from
// the list state and the latest search result.
package listview

import (
	"fmt"

	"github.com/matst80/campsite-finder/pkg/types"
)

// TotalPages is 0 while there is no result (loading or failed).
func TotalPages(result *types.CampsiteList, itemsPerPage int) int {
	if result == nil || itemsPerPage <= 0 {
		return 0
	}
	return (result.NumTotalResults + itemsPerPage - 1) / itemsPerPage
}

// ResultRange formats "21-40 of 137". The upper bound is not clamped to
// total on the last page; callers that want "121-137" clamp themselves.
func ResultRange(page, itemsPerPage, total int) string {
	return fmt.Sprintf("%d-%d of %d", (page-1)*itemsPerPage+1, page*itemsPerPage, total)
}

// AppliedFilterCount counts set fields, sort fields excluded.
func AppliedFilterCount(f types.FilterState) int {
	n := 0
	for _, nf := range f.Fields() {
		if nf.Sort {
			continue
		}
		if nf.Field.IsSet() {
			n++
		}
	}
	return n
}

func ResultSummary(fetching bool, result *types.CampsiteList) string {
	if fetching || result == nil {
		return "Loading..."
	}
	return fmt.Sprintf("%d Results", result.NumTotalResults)
}

// ShowPagination is false while loading, after a failure and for empty
// results.
func ShowPagination(fetching, failed bool, result *types.CampsiteList) bool {
	return !fetching && !failed && result != nil && result.NumTotalResults > 0
}

func ResetDisabled(f types.FilterState) bool {
	return f.IsDefault()
}

func SortLabel(s types.SortBy) string {
	return "Sort by: " + s.Label()
}

func SortDirLabel(d types.SortDir) string {
	return fmt.Sprintf("Sort direction: %sending", d)
}
