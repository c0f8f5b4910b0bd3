// Package scan walks a source tree and decides, per file, whether and how it
// will be transformed: which format pipeline applies and where the renamed
// output goes.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/primed-bio/genanon/pkg/pipeline"
	"github.com/primed-bio/genanon/pkg/replacemap"
)

// Scanner enumerates the files of a batch. Include patterns restrict which
// files are considered at all; passthrough patterns mark files whose
// contents are never substituted (renamed and copied/linked only).
type Scanner struct {
	// Map renames files and directories on the way to the target path.
	Map *replacemap.Map
	// IncludePatterns restricts scanning to matching file names. Empty
	// means every file.
	IncludePatterns []string
	// PassthroughPatterns marks matching file names as passthrough.
	PassthroughPatterns []string
	// FileList, when non-empty, restricts scanning to these source paths
	// (absolute or relative to the source dir).
	FileList []string
}

// Scan walks sourceDir and produces one FileEntry per selected file. Target
// paths mirror the source layout under outDir with names rewritten through
// the replacement map. An already existing target is warned about, never
// fatal: the batch will overwrite it.
func (s *Scanner) Scan(ctx context.Context, sourceDir, outDir string) ([]pipeline.FileEntry, error) {
	log := zerolog.Ctx(ctx)

	allowed, err := s.allowedSet(sourceDir)
	if err != nil {
		return nil, err
	}

	var entries []pipeline.FileEntry
	err = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		if len(s.IncludePatterns) > 0 && !matchAny(s.IncludePatterns, name) {
			log.Debug().Str("file", path).Msg("skipped by include patterns")
			return nil
		}
		if allowed != nil {
			abs, err := filepath.Abs(path)
			if err != nil {
				return errors.Errorf("resolving %s: %w", path, err)
			}
			if !allowed[abs] {
				log.Debug().Str("file", path).Msg("not in file list")
				return nil
			}
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		target := filepath.Join(outDir, s.Map.Apply(rel))
		if _, err := os.Stat(target); err == nil {
			log.Warn().Str("target", target).Msg("target already exists and will be overwritten")
		}

		entries = append(entries, pipeline.FileEntry{
			Source: path,
			Format: s.classify(name),
			Target: target,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// classify maps a file name to its format tag. Passthrough patterns win over
// the extension table so operators can exempt anything.
func (s *Scanner) classify(name string) pipeline.Format {
	if matchAny(s.PassthroughPatterns, name) {
		return pipeline.FormatPassthrough
	}

	base := strings.TrimSuffix(name, ".gz")
	switch {
	case strings.HasSuffix(base, ".bam"):
		return pipeline.FormatBinaryAlignment
	case strings.HasSuffix(base, ".fastq"), strings.HasSuffix(base, ".fq"):
		return pipeline.FormatSequenceRead
	case strings.HasSuffix(base, ".vcf"):
		return pipeline.FormatVariantText
	default:
		return pipeline.FormatGenericText
	}
}

// allowedSet resolves the optional explicit file list to absolute paths.
func (s *Scanner) allowedSet(sourceDir string) (map[string]bool, error) {
	if len(s.FileList) == 0 {
		return nil, nil
	}
	allowed := map[string]bool{}
	for _, f := range s.FileList {
		if !filepath.IsAbs(f) {
			f = filepath.Join(sourceDir, f)
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, errors.Errorf("resolving file list entry %s: %w", f, err)
		}
		allowed[abs] = true
	}
	return allowed, nil
}

// matchAny matches name against each pattern, as a doublestar glob when the
// pattern contains glob metacharacters, as a plain suffix otherwise (so
// "bam" and "*.bam" both work).
func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if strings.ContainsAny(p, "*?[{") {
			if ok, err := doublestar.Match(p, name); err == nil && ok {
				return true
			}
			continue
		}
		if strings.HasSuffix(name, p) {
			return true
		}
	}
	return false
}

// EnsureTargetDirs creates the directory of every entry's target path.
func EnsureTargetDirs(entries []pipeline.FileEntry) error {
	for _, e := range entries {
		if err := os.MkdirAll(filepath.Dir(e.Target), 0o755); err != nil {
			return errors.Errorf("creating target directory for %s: %w", e.Target, err)
		}
	}
	return nil
}
