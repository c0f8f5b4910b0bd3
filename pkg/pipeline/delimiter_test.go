package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primed-bio/genanon/pkg/replacemap"
)

func TestSelectDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		entries [][2]string
		want    byte
		wantErr bool
	}{
		{
			name:    "alphanumeric_prefers_slash",
			entries: [][2]string{{"SAMPLE1", "ANON1"}},
			want:    '/',
		},
		{
			name:    "slash_in_value_falls_back",
			entries: [][2]string{{"a/b", "c"}},
			want:    '!',
		},
		{
			name:    "skips_every_used_candidate",
			entries: [][2]string{{"/!\"#", "$%&"}},
			want:    '(',
		},
		{
			// Never a single quote: the rendered clause is single-quoted.
			name:    "quote_is_not_a_candidate",
			entries: [][2]string{{"a/b!c\"d#e$f%g&h", "X"}},
			want:    '(',
		},
		{
			name:    "all_punctuation_used_fails",
			entries: [][2]string{{"/!\"#$%&()*+,-.", ":;<=>?@[]^_`{|}~"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := replacemap.New()
			for _, e := range tt.entries {
				m.Set(e[0], e[1])
			}
			got, err := SelectDelimiter(m)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoDelimiter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectDelimiter_EmptyMapPrefersSlash(t *testing.T) {
	got, err := SelectDelimiter(replacemap.New())
	require.NoError(t, err)
	assert.Equal(t, byte('/'), got)
}
