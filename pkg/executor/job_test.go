package executor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_String(t *testing.T) {
	assert.Equal(t, "WAITING", StateWaiting.String())
	assert.Equal(t, "RUNNING", StateRunning.String())
	assert.Equal(t, "COMPLETE", StateComplete.String())
}

func TestBatchResult(t *testing.T) {
	r := &BatchResult{ExitCodes: []int{0, 1, 0, 127}}
	assert.Equal(t, 2, r.Failures())
	assert.False(t, r.Failed(0))
	assert.True(t, r.Failed(1))
	assert.True(t, r.Failed(3))
}

func TestCommandFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "command_list.sh")
	commands := []string{
		"cp /in/a.idat /out/a.idat",
		"gzip -cd /in/c.vcf.gz | sed -e 's/A/B/g' | gzip -c > /out/c.vcf.gz",
	}

	require.NoError(t, WriteCommandFile(path, commands))

	jobs, err := ReadCommandFile(path)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, commands[0], jobs[0].Command)
	assert.Equal(t, commands[1], jobs[1].Command)
}

func TestReadCommandFile_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmds.sh")
	require.NoError(t, os.WriteFile(path, []byte("echo one\n\n  \necho two\n"), 0o644))

	jobs, err := ReadCommandFile(path)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "echo one", jobs[0].Command)
	assert.Equal(t, "echo two", jobs[1].Command)
}

func TestReadCommandFile_Missing(t *testing.T) {
	_, err := ReadCommandFile(filepath.Join(t.TempDir(), "nope.sh"))
	assert.Error(t, err)
}
