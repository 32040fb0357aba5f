package project

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacadeLazyInstance(t *testing.T) {
	calls := 0
	root := t.TempDir()
	f := &Facade{NewFunc: func() (*ProjectIO, error) {
		calls++
		opts := DefaultOptions()
		opts.Root = root
		return New(opts)
	}}

	assert.False(t, f.Loaded())
	first, err := f.Instance()
	require.NoError(t, err)
	second, err := f.Instance()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	f.Reset()
	assert.False(t, f.Loaded())
	third, err := f.Instance()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, calls)
}

func TestFacadeBuildError(t *testing.T) {
	boom := errors.New("boom")
	f := &Facade{NewFunc: func() (*ProjectIO, error) { return nil, boom }}
	_, err := f.Root()
	assert.Same(t, boom, err)
	assert.False(t, f.Loaded())
}

func TestFacadeForwarding(t *testing.T) {
	p, root := newIO(t, nil)
	f := &Facade{}
	f.Set(p)

	got, err := f.Root()
	require.NoError(t, err)
	assert.Equal(t, root, got)

	require.NoError(t, f.SetUseDatestamp(false))
	assert.False(t, p.UseDatestamp())

	path, err := f.CheckpointPath("model", "", PathOptions{})
	require.NoError(t, err)
	assert.True(t, strings.Contains(path, "checkpoints"))

	path, err = f.LogPath("train", "r1", PathOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "logs", "r1", "train.log"), path)

	path, err = f.PathFor("outputs", "x.csv", PathOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "x.csv"), path)

	_, err = f.TrackProducer(filepath.Join(root, "x.csv"), filepath.Join(root, "s.py"), "", "")
	require.NoError(t, err)
	desc, err := f.Describe()
	require.NoError(t, err)
	assert.Equal(t, 1, desc.Producers)

	require.NoError(t, f.SetRoot(filepath.Join(root, "moved")))
	assert.Equal(t, filepath.Join(root, "moved"), p.Root())
}

func TestSharedDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	Reset()
	t.Cleanup(Reset)

	p, err := Default()
	require.NoError(t, err)
	assert.NotNil(t, p)
	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, p, again)

	custom, _ := newIO(t, nil)
	SetDefault(custom)
	got, err := Default()
	require.NoError(t, err)
	assert.Same(t, custom, got)
}
