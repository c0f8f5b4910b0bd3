package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogFileOperation(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var console bytes.Buffer
	l := New(&console, zerolog.InfoLevel)

	l.LogFileOperation(context.Background(), FileOperation{
		Path:   "/data/SAMPLE1.bam",
		Format: "binary-alignment",
		Status: "prepared",
	})

	out := console.String()
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "/data/SAMPLE1.bam")
	assert.Contains(t, out, "binary-alignment")
	assert.Contains(t, out, "prepared")
}

func TestLogFileOperation_Symbols(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{"substituted", FileOperation{Path: "a.vcf", Status: "prepared"}, "✓"},
		{"passthrough", FileOperation{Path: "a.idat", IsPassed: true}, "-"},
		{"failed", FileOperation{Path: "a.bam", IsFailed: true}, "✗"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var console bytes.Buffer
			l := New(&console, zerolog.InfoLevel)
			l.LogFileOperation(context.Background(), tt.op)
			assert.Contains(t, console.String(), tt.want)
		})
	}
}

func TestHeader(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var console bytes.Buffer
	l := New(&console, zerolog.InfoLevel)
	l.Header("preparing batch")

	assert.Contains(t, console.String(), "genanon")
	assert.Contains(t, console.String(), "preparing batch")
}
