// Package query builds the identity used to key and deduplicate campsite
// searches.
package query

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/matst80/campsite-finder/pkg/types"
)

// Identity is the page plus the canonical value of every filter field in
// declared order. It is comparable, so == is value equality and an
// Identity can be used as a map key.
type Identity struct {
	page   int
	values [types.FieldCount]string
}

// Build never depends on how f was constructed, only on its field values.
func Build(page int, f types.FilterState) Identity {
	id := Identity{page: page}
	for i, nf := range f.Fields() {
		if i >= types.FieldCount {
			break
		}
		id.values[i] = nf.Field.Canonical()
	}
	return id
}

func (id Identity) Page() int {
	return id.page
}

// IsZero reports whether id was never built; a built identity always has
// sort values.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// Key is a stable string form, "campsites|<page>|<v1>|<v2>|...". Unset
// fields are empty segments. A "|" inside a value is written as its JSON
// escape so distinct identities never share a key.
func (id Identity) Key() string {
	var b strings.Builder
	b.WriteString("campsites|")
	b.WriteString(strconv.Itoa(id.page))
	for _, v := range id.values {
		b.WriteByte('|')
		b.WriteString(strings.ReplaceAll(v, "|", `\u007c`))
	}
	return b.String()
}

func (id Identity) Hash() uint64 {
	return xxhash.Sum64String(id.Key())
}

func (id Identity) String() string {
	return id.Key()
}
