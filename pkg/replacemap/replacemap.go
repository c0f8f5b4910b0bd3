package replacemap

import (
	"bufio"
	"context"
	"math/rand"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// tokenAlphabet is the character set used for generated anonymous tokens.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultTokenLength is the length of generated tokens when none is configured.
const DefaultTokenLength = 16

// Map is an ordered literal key -> value substitution table. Keys are unique
// within one map; iteration order is insertion order. A Map is built once per
// batch (or per file) and treated as immutable afterwards.
type Map struct {
	keys   []string
	values map[string]string
}

// New creates an empty Map.
func New() *Map {
	return &Map{values: map[string]string{}}
}

// Set inserts or overwrites a key. Overwriting keeps the key's original
// position in the iteration order.
func (m *Map) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it is present.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Apply replaces every occurrence of each key in s with its value, one key at
// a time in insertion order. This is the in-process substitution used for
// file and directory names; file contents go through synthesized pipelines.
func (m *Map) Apply(s string) string {
	for _, k := range m.keys {
		s = strings.ReplaceAll(s, k, m.values[k])
	}
	return s
}

// Charset returns the set of bytes appearing in any key or value. The
// delimiter selector uses it to pick a separator that cannot collide with
// substituted text.
func (m *Map) Charset() map[byte]bool {
	set := map[byte]bool{}
	for _, k := range m.keys {
		for i := 0; i < len(k); i++ {
			set[k[i]] = true
		}
		v := m.values[k]
		for i := 0; i < len(v); i++ {
			set[v[i]] = true
		}
	}
	return set
}

// RandomToken returns a random token of n characters drawn from A-Z0-9.
// Tokens are anonymized labels, not secrets.
func RandomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	return string(b)
}

// Load reads a two-column tab-separated replacement table. The first column
// is the literal string to replace, the second its replacement. A line with
// no second column gets a freshly generated random token of tokenLength
// characters. Duplicate keys: the last occurrence wins, with a warning.
func Load(ctx context.Context, path string, tokenLength int) (*Map, error) {
	if tokenLength <= 0 {
		tokenLength = DefaultTokenLength
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening replacement file: %w", err)
	}
	defer f.Close()

	log := zerolog.Ctx(ctx)
	m := New()
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		key := fields[0]
		if key == "" {
			return nil, errors.Errorf("replacement file %s line %d: empty key", path, lineno)
		}
		var value string
		if len(fields) == 2 && fields[1] != "" {
			value = fields[1]
		} else {
			value = RandomToken(tokenLength)
		}
		if old, ok := m.Get(key); ok {
			log.Warn().
				Str("key", key).
				Str("previous", old).
				Str("replacement", value).
				Int("line", lineno).
				Msg("duplicate key in replacement file, last occurrence wins")
		}
		m.Set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading replacement file: %w", err)
	}
	return m, nil
}
