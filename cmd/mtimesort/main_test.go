package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, sec := range map[string]int64{"old.jpg": 1_600_000_000, "new.jpg": 1_700_000_000, "mid.jpg": 1_650_000_000} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		require.NoError(t, os.Chtimes(path, time.Unix(sec, 0), time.Unix(sec, 0)))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func order(out string, names ...string) []int {
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = strings.Index(out, n)
	}
	return idx
}

func TestListsByModificationTime(t *testing.T) {
	out, err := execute(t, setupDir(t), "--stats")
	require.NoError(t, err)

	pos := order(out, "old.jpg", "mid.jpg", "new.jpg")
	assert.Less(t, pos[0], pos[1])
	assert.Less(t, pos[1], pos[2])
	assert.Contains(t, out, "resolved   : 3")
	assert.NotContains(t, out, "unknown")
}

func TestListsByName(t *testing.T) {
	out, err := execute(t, setupDir(t), "--by-name")
	require.NoError(t, err)

	pos := order(out, "mid.jpg", "new.jpg", "old.jpg")
	assert.Less(t, pos[0], pos[1])
	assert.Less(t, pos[1], pos[2])
	assert.NotContains(t, out, "unknown", "name mode has no time column")
}

func TestRejectsBadFlags(t *testing.T) {
	_, err := execute(t, setupDir(t), "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
