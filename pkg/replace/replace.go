// Package replace performs in-process literal substitution over a single
// text file, transparently handling gzip on either side. It backs the
// single-file subcommand; batch work goes through synthesized pipelines
// instead.
package replace

import (
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/primed-bio/genanon/pkg/replacemap"
)

// IsGzip sniffs the two gzip magic bytes (1f 8b). It reads them one at a
// time, so endianness never enters the picture. A concatenation of several
// gzip members still looks like gzip, which is what we want.
func IsGzip(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var magic [2]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, errors.Errorf("reading %s: %w", path, err)
	}
	return magic[0] == 0x1f && magic[1] == 0x8b, nil
}

// InFile replaces every map key with its value throughout the file at in,
// writing the result to out. A gzip-compressed input is expanded on the fly;
// the output is gzip-compressed when its name ends in .gz. An existing
// output file is overwritten with a warning.
//
// Compressed output is plain gzip, not BGZF, so indexing tools that need
// block boundaries (tabix, samtools index) cannot work on it directly;
// re-compress with bgzip first if the result must stay indexable.
func InFile(ctx context.Context, in, out string, m *replacemap.Map) error {
	log := zerolog.Ctx(ctx)

	gzipped, err := IsGzip(in)
	if err != nil {
		return err
	}

	src, err := os.Open(in)
	if err != nil {
		return errors.Errorf("opening input: %w", err)
	}
	defer src.Close()

	var reader io.Reader = src
	if gzipped {
		gz, err := gzip.NewReader(src)
		if err != nil {
			return errors.Errorf("reading gzip input: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	if _, err := os.Stat(out); err == nil {
		log.Warn().Str("target", out).Msg("overwriting existing file")
	}
	dst, err := os.Create(out)
	if err != nil {
		return errors.Errorf("creating output: %w", err)
	}
	defer dst.Close()

	var writer io.Writer = dst
	var gzw *gzip.Writer
	if strings.HasSuffix(strings.ToLower(out), ".gz") {
		gzw = gzip.NewWriter(dst)
		writer = gzw
	}

	// Lines keep their own terminators, so CRLF endings and a missing final
	// newline survive the rewrite untouched.
	bw := bufio.NewWriter(writer)
	br := bufio.NewReaderSize(reader, 64*1024)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if _, werr := bw.WriteString(m.Apply(line)); werr != nil {
				return errors.Errorf("writing output: %w", werr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return errors.Errorf("reading input: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Errorf("flushing output: %w", err)
	}
	if gzw != nil {
		if err := gzw.Close(); err != nil {
			return errors.Errorf("closing gzip output: %w", err)
		}
	}
	return nil
}
