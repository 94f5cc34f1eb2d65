package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test-results.json")

	first := FullReport{SessionTime: "a", Benchmarks: []BenchmarkResult{{Implementation: "x", Throughput: 1}}}
	second := FullReport{SessionTime: "b"}

	require.NoError(t, Append(path, first))
	require.NoError(t, Append(path, second))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].SessionTime)
	assert.Equal(t, "x", got[0].Benchmarks[0].Implementation)
	assert.Equal(t, "b", got[1].SessionTime)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	require.Error(t, Append(bad, FullReport{}), "a corrupt file must not be overwritten")
}
