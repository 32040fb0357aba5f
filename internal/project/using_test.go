package project

import (
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projio/internal/template"
)

func TestUsingRestoresValues(t *testing.T) {
	p, _ := newIO(t, func(o *Options) { o.UseDatestamp = true })

	err := p.Using(Overrides{UseDatestamp: template.Bool(false)}, func(io *ProjectIO) error {
		assert.Same(t, p, io)
		assert.False(t, io.UseDatestamp())
		return nil
	})
	require.NoError(t, err)
	assert.True(t, p.UseDatestamp())
}

func TestUsingKeepsChangesToOtherSettings(t *testing.T) {
	p, root := newIO(t, func(o *Options) { o.UseDatestamp = true })
	res := filepath.Join(root, "res")

	err := p.Using(Overrides{DryRun: template.Bool(true)}, func(io *ProjectIO) error {
		io.SetUseDatestamp(false)
		io.SetGitignore("")
		return io.SetResources(res)
	})
	require.NoError(t, err)

	assert.False(t, p.DryRun())
	assert.False(t, p.UseDatestamp())
	assert.Empty(t, p.GitignorePath())
	assert.Equal(t, res, p.Resources())
}

func TestUsingMultipleOverrides(t *testing.T) {
	p, root := newIO(t, func(o *Options) {
		o.UseDatestamp = true
		o.AutoCreate = true
	})
	other := filepath.Join(root, "elsewhere")
	placement := template.PlaceFiles

	err := p.Using(Overrides{
		UseDatestamp: template.Bool(false),
		AutoCreate:   template.Bool(false),
		DryRun:       template.Bool(true),
		Root:         &other,
		DatestampIn:  &placement,
	}, func(io *ProjectIO) error {
		assert.False(t, io.UseDatestamp())
		assert.False(t, io.AutoCreate())
		assert.True(t, io.DryRun())
		assert.Equal(t, other, io.Root())
		assert.Equal(t, other, io.Outputs())
		assert.Equal(t, template.PlaceFiles, io.DatestampIn())
		return nil
	})
	require.NoError(t, err)

	assert.True(t, p.UseDatestamp())
	assert.True(t, p.AutoCreate())
	assert.False(t, p.DryRun())
	assert.Equal(t, root, p.Root())
	assert.Equal(t, root, p.Outputs())
	assert.Equal(t, Inherited, p.OutputsState())
	assert.Equal(t, template.PlaceDirs, p.DatestampIn())
}

func TestUsingDryRunCreatesNothing(t *testing.T) {
	p, root := newIO(t, func(o *Options) { o.AutoCreate = true })

	err := p.Using(Overrides{DryRun: template.Bool(true)}, func(io *ProjectIO) error {
		_, err := io.Ensure(template.RootCache)
		return err
	})
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(root, "cache"))
	assert.False(t, p.DryRun())
}

func TestUsingRestoresOnError(t *testing.T) {
	p, _ := newIO(t, nil)
	boom := errors.New("boom")

	err := p.Using(Overrides{DryRun: template.Bool(true)}, func(*ProjectIO) error { return boom })
	assert.Same(t, boom, err)
	assert.False(t, p.DryRun())
}

func TestUsingRestoresOnPanic(t *testing.T) {
	p, _ := newIO(t, nil)

	assert.Panics(t, func() {
		_ = p.Using(Overrides{AutoCreate: template.Bool(true)}, func(*ProjectIO) error {
			panic("boom")
		})
	})
	assert.False(t, p.AutoCreate())
}

func TestUsingRejectsInvalidOverrides(t *testing.T) {
	p, root := newIO(t, nil)
	empty := ""
	bad := template.Placement("sideways")
	called := false
	fn := func(*ProjectIO) error {
		called = true
		return nil
	}

	assert.True(t, errors.Is(p.Using(Overrides{Root: &empty}, fn), ErrEmptyRoot))
	assert.Error(t, p.Using(Overrides{DryRun: template.Bool(true), DatestampIn: &bad}, fn))
	assert.False(t, called)
	assert.False(t, p.DryRun(), "partially applied overrides must be rolled back")
	assert.Equal(t, root, p.Root())
}
