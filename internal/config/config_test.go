package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// viper and C are process globals, so these tests do not run in parallel.

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestInit_Defaults(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, Init())
	assert.Equal(t, ".", C.Dir)
	assert.Equal(t, "text", C.Format)
	assert.Equal(t, "root", C.RootID)
	assert.Equal(t, 120*time.Millisecond, C.LockDuration)
	assert.False(t, C.Debug)
}

func TestInit_FileAndEnv(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keyinfo.yaml"),
		[]byte("dir: notes\nlock_duration: 300ms\nformat: json\n"), 0o644))
	t.Setenv("KEYINFO_FORMAT", "text")

	require.NoError(t, Init())
	assert.Equal(t, "notes", C.Dir)
	assert.Equal(t, 300*time.Millisecond, C.LockDuration)
	assert.Equal(t, "text", C.Format, "env overrides the file")
}

func TestConfig_Engine(t *testing.T) {
	var buf bytes.Buffer
	c := Config{Debug: true, RootID: "doc", LockDuration: time.Second}

	cfg := c.Engine(&buf)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "doc", cfg.RootID)
	assert.Equal(t, time.Second, cfg.LockDuration)
	require.NotNil(t, cfg.Logger)
	cfg.Logger.Debug("hello")
	assert.Contains(t, buf.String(), "hello")

	quiet := Config{}.Engine(nil)
	assert.Nil(t, quiet.Logger)
	assert.Equal(t, 120*time.Millisecond, quiet.LockDuration)
}

func TestExpandTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "notes"), expandTilde("~/notes"))
	assert.Equal(t, "/abs", expandTilde("/abs"))
	assert.Equal(t, "", expandTilde(""))
}
