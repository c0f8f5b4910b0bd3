package pipeline

import (
	"gitlab.com/tozd/go/errors"

	"github.com/primed-bio/genanon/pkg/replacemap"
)

// ErrNoDelimiter is returned when every candidate punctuation character
// appears somewhere in the replacement map. There is no escaping fallback;
// synthesis for that map must be aborted.
var ErrNoDelimiter = errors.New("no safe substitution delimiter: every punctuation character collides with the replacement map")

// delimiterCandidates is the canonical candidate order: '/' first, then the
// remaining ASCII punctuation. Single quote and backslash are excluded: the
// rendered clause is single-quoted, so a quote delimiter would terminate its
// own quoting, and sed rejects backslash as an s-command separator.
const delimiterCandidates = "/!\"#$%&()*+,-.:;<=>?@[]^_`{|}~"

// SelectDelimiter returns the first candidate character that appears in none
// of the map's keys or values, so it can separate the fields of a generated
// substitution clause without colliding with substituted text.
func SelectDelimiter(m *replacemap.Map) (byte, error) {
	used := m.Charset()
	for i := 0; i < len(delimiterCandidates); i++ {
		c := delimiterCandidates[i]
		if !used[c] {
			return c, nil
		}
	}
	return 0, ErrNoDelimiter
}
