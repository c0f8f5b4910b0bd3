package pipeline

import (
	"fmt"
	"strings"

	"github.com/primed-bio/genanon/pkg/replacemap"
)

// Stage is one step of a transformation pipeline. Stages render to shell
// fragments; a Pipeline joins them with pipes and redirects into the target.
// Keeping stages as tagged values (instead of pre-baked command strings)
// lets delimiter and key-overlap problems surface before any process runs.
type Stage interface {
	Render() string
}

// decodeStage decodes a binary alignment container to its text
// header+record stream.
type decodeStage struct {
	source  string
	threads int
}

func (s decodeStage) Render() string {
	return fmt.Sprintf("samtools view -h -@ %d %s", s.threads, s.source)
}

// headerStage extracts only the header of a binary alignment container.
type headerStage struct {
	source string
}

func (s headerStage) Render() string {
	return fmt.Sprintf("samtools view -H %s", s.source)
}

// stripProgramStage drops provenance (@PG) lines from a header stream.
type stripProgramStage struct{}

func (s stripProgramStage) Render() string {
	return "grep -v '^@PG'"
}

// substituteStage applies a multi-clause substitution expression to a text
// stream, or directly to a source file when one is given.
type substituteStage struct {
	expression string
	source     string
}

func (s substituteStage) Render() string {
	if s.source != "" {
		return s.expression + " " + s.source
	}
	return s.expression
}

// encodeStage re-encodes a text header+record stream into the binary
// alignment container format.
type encodeStage struct {
	threads int
}

func (s encodeStage) Render() string {
	return fmt.Sprintf("samtools view -b -h -@ %d", s.threads)
}

// decompressStage expands a gzip-compressed source onto the stream.
type decompressStage struct {
	source string
}

func (s decompressStage) Render() string {
	return "gzip -cd " + s.source
}

// compressStage gzip-compresses the stream.
type compressStage struct{}

func (s compressStage) Render() string {
	return "gzip -c"
}

// Pipeline is an ordered stage list whose stdout is redirected into Target.
type Pipeline struct {
	Stages []Stage
	Target string
}

// Render joins the stages with pipes and redirects into the target path.
func (p Pipeline) Render() string {
	parts := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		parts[i] = s.Render()
	}
	cmd := strings.Join(parts, " | ")
	if p.Target != "" {
		cmd += " > " + p.Target
	}
	return cmd
}

// renderReheader combines a header sub-pipeline and a body sub-pipeline into
// one output container through the re-header tool, using process
// substitution so neither stream touches disk.
func renderReheader(header, body Pipeline, target string) string {
	return fmt.Sprintf("samtools reheader -P <(%s) <(%s) > %s", header.Render(), body.Render(), target)
}

// Expression builds the substitution expression shared by every template:
// one global s-clause per map entry, in map order, separated by the selected
// delimiter. Fails only when no safe delimiter exists.
func Expression(m *replacemap.Map) (string, error) {
	delim, err := SelectDelimiter(m)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("sed")
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		fmt.Fprintf(&sb, " -e 's%c%s%c%s%cg'", delim, key, delim, value, delim)
	}
	return sb.String(), nil
}
