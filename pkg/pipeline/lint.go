package pipeline

import (
	"fmt"
	"strings"

	"github.com/primed-bio/genanon/pkg/replacemap"
)

// Overlap describes a replacement-map entry pair where one key is contained
// in another key or in a value. Substitution clauses run in map order, so
// such pairs make the result order-dependent.
type Overlap struct {
	Key      string
	Other    string // the key or value containing Key
	OtherKey string // map key that Other belongs to
	InValue  bool   // Other is a value rather than a key
}

func (o Overlap) String() string {
	if o.InValue {
		return fmt.Sprintf("key %q is contained in the value %q of key %q", o.Key, o.Other, o.OtherKey)
	}
	return fmt.Sprintf("key %q is contained in key %q", o.Key, o.Other)
}

// LintMap reports every key that is a substring of another key or of any
// value. Synthesis does not resolve these; the report exists so a caller can
// warn before any process is spawned.
func LintMap(m *replacemap.Map) []Overlap {
	var overlaps []Overlap
	keys := m.Keys()
	for _, key := range keys {
		for _, other := range keys {
			if key == other {
				continue
			}
			if strings.Contains(other, key) {
				overlaps = append(overlaps, Overlap{Key: key, Other: other, OtherKey: other})
			}
			value, _ := m.Get(other)
			if strings.Contains(value, key) {
				overlaps = append(overlaps, Overlap{Key: key, Other: value, OtherKey: other, InValue: true})
			}
		}
	}
	return overlaps
}
