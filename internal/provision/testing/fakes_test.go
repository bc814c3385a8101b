package testing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/keybatch/internal/keygen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeGenerator_WritesFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alpha")
	gen := NewFakeGenerator()

	require.NoError(t, gen.Generate(keygen.Options{Path: path, Comment: "c"}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(path + ".pub")
	assert.NoError(t, err)
	assert.Len(t, gen.Calls, 1)
}

func TestFakeGenerator_FailOn(t *testing.T) {
	dir := t.TempDir()
	gen := NewFakeGenerator().FailOn("alpha", errors.New("boom"))

	assert.EqualError(t, gen.Generate(keygen.Options{Path: filepath.Join(dir, "alpha")}), "boom")
	_, err := os.Stat(filepath.Join(dir, "alpha"))
	assert.True(t, os.IsNotExist(err))

	gen.SkipWrite = true
	require.NoError(t, gen.Generate(keygen.Options{Path: filepath.Join(dir, "beta")}))
	_, err = os.Stat(filepath.Join(dir, "beta"))
	assert.True(t, os.IsNotExist(err))
}

func TestFakeRegistrar(t *testing.T) {
	reg := NewFakeRegistrar().FailOn("beta", errors.New("no agent"))

	assert.NoError(t, reg.Register("/k/alpha", "pw"))
	assert.Error(t, reg.Register("/k/beta", ""))
	assert.Equal(t, []RegisterCall{{Path: "/k/alpha", Passphrase: "pw"}, {Path: "/k/beta"}}, reg.Calls)
}

func TestFakeAppender(t *testing.T) {
	app := NewFakeAppender("existing")

	added, err := app.EnsureHost("existing")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = app.EnsureHost("alpha")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = app.EnsureHost("alpha")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = app.EnsureHost("")
	assert.Error(t, err)
}

func TestRecordingReporter(t *testing.T) {
	r := &RecordingReporter{}
	r.Success("made alpha")
	r.Warn("lost beta")
	r.Skip("kept gamma")
	r.Info("fyi")

	assert.Equal(t, 1, r.Count("warn"))
	assert.True(t, r.Contains("skip", "gamma"))
	assert.False(t, r.Contains("success", "beta"))
	assert.Len(t, r.Lines, 4)
}
