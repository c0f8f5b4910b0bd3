package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "prepare")
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "replace")
	assert.Contains(t, names, "version")
}

func TestPrepare_EndToEnd(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	work := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(src, "SAMPLE1.vcf"), []byte("SAMPLE1\tdata\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "SAMPLE1.bam"), []byte("fake"), 0o644))

	mapFile := filepath.Join(work, "map.tsv")
	require.NoError(t, os.WriteFile(mapFile, []byte("SAMPLE1\tANON1\n"), 0o644))
	commandFile := filepath.Join(work, "command_list.sh")

	root := NewRootCmd()
	root.SetArgs([]string{
		"prepare",
		"--source-dir", src,
		"--out-dir", out,
		"--replacement-file", mapFile,
		"--command-file", commandFile,
	})
	require.NoError(t, root.ExecuteContext(context.Background()))

	data, err := os.ReadFile(commandFile)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "sed -e 's/SAMPLE1/ANON1/g'")
	assert.Contains(t, content, "samtools view -h")
	assert.Contains(t, content, filepath.Join(out, "ANON1.vcf"))
	assert.Contains(t, content, filepath.Join(out, "ANON1.bam"))
}

// Re-running an identical batch against identical inputs with a fixed
// replacement map must produce byte-identical outputs.
func TestBatch_RerunIsByteIdentical(t *testing.T) {
	src := t.TempDir()
	work := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(src, "SAMPLE1.vcf"),
		[]byte("##source=test\nSAMPLE1\tchr1\t12345\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"),
		[]byte("belongs to SAMPLE1\n"), 0o644))

	mapFile := filepath.Join(work, "map.tsv")
	require.NoError(t, os.WriteFile(mapFile, []byte("SAMPLE1\tANON1\n"), 0o644))

	runBatch := func(out string) {
		commandFile := filepath.Join(out, "command_list.sh")

		prep := NewRootCmd()
		prep.SetArgs([]string{
			"prepare",
			"--source-dir", src,
			"--out-dir", out,
			"--replacement-file", mapFile,
			"--command-file", commandFile,
		})
		require.NoError(t, prep.ExecuteContext(context.Background()))

		run := NewRootCmd()
		run.SetArgs([]string{
			"run",
			"--command-file", commandFile,
			"--max-procs", "1",
		})
		require.NoError(t, run.ExecuteContext(context.Background()))
	}

	first := t.TempDir()
	second := t.TempDir()
	runBatch(first)
	runBatch(second)

	for _, name := range []string{"ANON1.vcf", "notes.txt"} {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, "%s differs between runs", name)
		assert.NotContains(t, string(a), "SAMPLE1")
	}
}

func TestReplace_EndToEnd(t *testing.T) {
	work := t.TempDir()
	in := filepath.Join(work, "in.txt")
	outPath := filepath.Join(work, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte("AAA\n"), 0o644))

	root := NewRootCmd()
	root.SetArgs([]string{
		"replace",
		"--in", in,
		"--out", outPath,
		"--old", "A",
		"--new", "B",
	})
	require.NoError(t, root.ExecuteContext(context.Background()))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "BBB\n", string(data))
}
