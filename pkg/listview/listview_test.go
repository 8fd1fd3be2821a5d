package listview

import (
	"testing"

	"github.com/matst80/campsite-finder/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int
		want  int
	}{
		{0, 0},
		{1, 1},
		{20, 1},
		{21, 2},
		{137, 7},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TotalPages(&types.CampsiteList{NumTotalResults: tc.total}, types.ItemsPerPage), tc.total)
	}
	assert.Equal(t, 0, TotalPages(nil, types.ItemsPerPage))
}

func TestResultRange(t *testing.T) {
	assert.Equal(t, "1-20 of 137", ResultRange(1, 20, 137))
	assert.Equal(t, "21-40 of 137", ResultRange(2, 20, 137))
	assert.Equal(t, "121-140 of 137", ResultRange(7, 20, 137))
}

func TestAppliedFilterCount(t *testing.T) {
	f := types.DefaultFilterState()
	assert.Equal(t, 0, AppliedFilterCount(f))

	f.SearchStrCt = types.Set("lake")
	assert.Equal(t, 1, AppliedFilterCount(f))

	f.SortBy = types.SortByState
	f.SortDir = types.SortDesc
	assert.Equal(t, 1, AppliedFilterCount(f))

	f.LowNoFee = types.Set(false)
	f.State = types.Set(types.StateList{"OR", "WA"})
	assert.Equal(t, 3, AppliedFilterCount(f))
}

func TestSummaryAndPagination(t *testing.T) {
	result := &types.CampsiteList{NumTotalResults: 42}
	empty := &types.CampsiteList{}

	assert.Equal(t, "Loading...", ResultSummary(true, result))
	assert.Equal(t, "Loading...", ResultSummary(false, nil))
	assert.Equal(t, "42 Results", ResultSummary(false, result))

	assert.True(t, ShowPagination(false, false, result))
	assert.False(t, ShowPagination(true, false, result))
	assert.False(t, ShowPagination(false, true, nil))
	assert.False(t, ShowPagination(false, false, empty))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Sort by: campsite type", SortLabel(types.SortByCampsiteType))
	assert.Equal(t, "Sort direction: ascending", SortDirLabel(types.SortAsc))
	assert.Equal(t, "Sort direction: descending", SortDirLabel(types.SortDesc))

	f := types.DefaultFilterState()
	assert.True(t, ResetDisabled(f))
	f.SortDir = types.SortDesc
	assert.False(t, ResetDisabled(f))
}
