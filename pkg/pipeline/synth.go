package pipeline

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/primed-bio/genanon/pkg/replacemap"
)

// Format tags how a file's contents must be transformed.
type Format string

const (
	// FormatBinaryAlignment is a header+record binary container that must be
	// decoded before, and re-encoded after, substitution.
	FormatBinaryAlignment Format = "binary-alignment"
	// FormatSequenceRead is a sequencing-read file whose contents are never
	// substituted, only its name.
	FormatSequenceRead Format = "sequence-read"
	// FormatVariantText is a variant call text file, possibly compressed.
	FormatVariantText Format = "variant-text"
	// FormatGenericText is any other text file, possibly compressed.
	FormatGenericText Format = "generic-text"
	// FormatPassthrough is copied or linked untouched.
	FormatPassthrough Format = "passthrough"
)

// FileEntry is one file scheduled for transformation: where it is, what it
// is, and where its transformed version goes. Produced by traversal and
// consumed exactly once by Synthesize.
type FileEntry struct {
	Source string
	Format Format
	Target string
}

// Options control the shape of synthesized commands.
type Options struct {
	// UseSymlink links instead of copying for passthrough files.
	UseSymlink bool
	// StripProgramHeaders drops provenance (@PG) header lines from binary
	// alignment containers and rewrites the header through a re-header step.
	StripProgramHeaders bool
	// EmitChecksum appends an md5 sidecar command for substituted outputs.
	EmitChecksum bool
	// Threads passed to the container codec.
	Threads int
}

func (o Options) threads() int {
	if o.Threads <= 0 {
		return 1
	}
	return o.Threads
}

// Synthesize produces the external command that transforms one file. It is
// pure: nothing is touched on disk, and the only failure mode is delimiter
// exhaustion in the replacement map.
func Synthesize(entry FileEntry, m *replacemap.Map, opts Options) (string, error) {
	var cmd string
	switch entry.Format {
	case FormatPassthrough, FormatSequenceRead:
		cmd = synthPassthrough(entry, opts)
	case FormatBinaryAlignment:
		c, err := synthAlignment(entry, m, opts)
		if err != nil {
			return "", err
		}
		cmd = c
	case FormatVariantText, FormatGenericText:
		c, err := synthText(entry, m)
		if err != nil {
			return "", err
		}
		cmd = c
	default:
		return "", errors.Errorf("unknown format %q for %s", entry.Format, entry.Source)
	}

	if opts.EmitChecksum && entry.Format != FormatPassthrough && entry.Format != FormatSequenceRead {
		cmd += fmt.Sprintf(" ; md5sum %s > %s.md5", entry.Target, entry.Target)
	}
	return cmd, nil
}

// synthPassthrough copies or links the file, plus its checksum sidecar when
// one sits next to the source. The sidecar is carried over as-is because the
// content is unchanged.
func synthPassthrough(entry FileEntry, opts Options) string {
	op := "cp"
	if opts.UseSymlink {
		op = "ln -s"
	}
	cmd := fmt.Sprintf("%s %s %s", op, entry.Source, entry.Target)
	cmd += fmt.Sprintf(" ; if [ -e %s.md5 ]; then %s %s.md5 %s.md5; fi", entry.Source, op, entry.Source, entry.Target)
	return cmd
}

// synthAlignment decodes the container, substitutes over the text stream and
// re-encodes. With StripProgramHeaders the header is rewritten separately so
// provenance lines disappear without disturbing the record stream.
func synthAlignment(entry FileEntry, m *replacemap.Map, opts Options) (string, error) {
	expr, err := Expression(m)
	if err != nil {
		return "", errors.Errorf("synthesizing alignment pipeline for %s: %w", entry.Source, err)
	}

	body := Pipeline{Stages: []Stage{
		decodeStage{source: entry.Source, threads: opts.threads()},
		substituteStage{expression: expr},
		encodeStage{threads: opts.threads()},
	}}

	if !opts.StripProgramHeaders {
		body.Target = entry.Target
		return body.Render(), nil
	}

	header := Pipeline{Stages: []Stage{
		headerStage{source: entry.Source},
		stripProgramStage{},
		substituteStage{expression: expr},
	}}
	return renderReheader(header, body, entry.Target), nil
}

// synthText substitutes over a plain or gzip-compressed text file. The
// compressed-stream boundary follows the file suffixes: a compressed source
// is expanded first, a compressed target is recompressed last.
func synthText(entry FileEntry, m *replacemap.Map) (string, error) {
	expr, err := Expression(m)
	if err != nil {
		return "", errors.Errorf("synthesizing text pipeline for %s: %w", entry.Source, err)
	}

	gzipped := strings.HasSuffix(entry.Source, ".gz")
	if !gzipped {
		p := Pipeline{
			Stages: []Stage{substituteStage{expression: expr, source: entry.Source}},
			Target: entry.Target,
		}
		return p.Render(), nil
	}

	p := Pipeline{
		Stages: []Stage{
			decompressStage{source: entry.Source},
			substituteStage{expression: expr},
			compressStage{},
		},
		Target: entry.Target,
	}
	return p.Render(), nil
}
