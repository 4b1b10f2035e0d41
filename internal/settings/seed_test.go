// File: internal/settings/seed_test.go
package settings

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedLoader returns a Loader on fs whose warnings are captured.
func newObservedLoader(t *testing.T, fs afero.Fs, seed int) (*Loader, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	loader := NewLoader(zap.New(core),
		WithRandomSource(func() int { return seed }),
		WithSeedStore(NewFileSeedStore(fs)),
	)
	return loader, logs
}

func TestRandomSeed_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/run", 0o755))

	first, logs := newObservedLoader(t, fs, 111)
	saved, err := first.Load("<RunSettings/>")
	require.NoError(t, err)
	first.SaveRandomSeed(saved, "/run")

	content, err := afero.ReadFile(fs, filepath.Join("/run", RandomSeedFile))
	require.NoError(t, err)
	assert.Equal(t, "111", string(content))

	second, _ := newObservedLoader(t, fs, 222)
	restored, err := second.Load("<RunSettings/>")
	require.NoError(t, err)
	require.Equal(t, 222, restored.RandomSeed)

	assert.True(t, second.RestoreRandomSeed(restored, "/run"))
	assert.Equal(t, saved.RandomSeed, restored.RandomSeed)
	assert.False(t, restored.RandomSeedSpecified, "restoring does not mark the seed as specified")
	assert.Zero(t, logs.Len())
}

func TestRandomSeed_RoundTripOnDisk(t *testing.T) {
	dir := t.TempDir()
	loader, logs := newObservedLoader(t, afero.NewOsFs(), 31337)

	s, err := loader.Load("<RunSettings/>")
	require.NoError(t, err)
	loader.SaveRandomSeed(s, dir)

	fresh, err := NewLoader(zap.NewNop(), WithRandomSource(func() int { return 1 })).Load("<RunSettings/>")
	require.NoError(t, err)
	loader.RestoreRandomSeed(fresh, dir)

	assert.Equal(t, 31337, fresh.RandomSeed)
	assert.Zero(t, logs.Len())
}

func TestRestoreRandomSeed(t *testing.T) {
	t.Run("missing file leaves the seed unchanged", func(t *testing.T) {
		loader, logs := newObservedLoader(t, afero.NewMemMapFs(), 7)
		s, err := loader.Load("<RunSettings/>")
		require.NoError(t, err)

		assert.False(t, loader.RestoreRandomSeed(s, "/nowhere"))
		assert.Equal(t, 7, s.RandomSeed)
		assert.Zero(t, logs.Len(), "a missing seed file is not worth a warning")
	})

	for name, content := range map[string]string{
		"garbage":      "not-a-number\n",
		"empty file":   "",
		"out of range": "4294967296",
	} {
		t.Run(name+" logs a warning and keeps the seed", func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, filepath.Join("/run", RandomSeedFile), []byte(content), 0o644))
			loader, logs := newObservedLoader(t, fs, 7)
			s, err := loader.Load("<RunSettings/>")
			require.NoError(t, err)

			assert.False(t, loader.RestoreRandomSeed(s, "/run"))
			assert.Equal(t, 7, s.RandomSeed)
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, zapcore.WarnLevel, entry.Level)
			assert.Equal(t, "Unable to restore random seed.", entry.Message)
		})
	}

	t.Run("persisted seed equal to the generated one still counts as restored", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/run", RandomSeedFile), []byte("7"), 0o644))
		loader, logs := newObservedLoader(t, fs, 7)
		s, err := loader.Load("<RunSettings/>")
		require.NoError(t, err)

		assert.True(t, loader.RestoreRandomSeed(s, "/run"))
		assert.Equal(t, 7, s.RandomSeed)
		assert.Zero(t, logs.Len())
	})

	t.Run("only the first line is read", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/run", RandomSeedFile), []byte("  42 \nignored\n"), 0o644))
		loader, logs := newObservedLoader(t, fs, 7)
		s, err := loader.Load("<RunSettings/>")
		require.NoError(t, err)

		loader.RestoreRandomSeed(s, "/run")
		assert.Equal(t, 42, s.RandomSeed)
		assert.Zero(t, logs.Len())
	})

	t.Run("nil settings logs a warning", func(t *testing.T) {
		loader, logs := newObservedLoader(t, afero.NewMemMapFs(), 7)
		assert.NotPanics(t, func() { assert.False(t, loader.RestoreRandomSeed(nil, "/run")) })
		assert.Equal(t, 1, logs.FilterMessage("Unable to restore random seed.").Len())
	})
}

func TestSaveRandomSeed(t *testing.T) {
	t.Run("read only filesystem logs a warning", func(t *testing.T) {
		loader, logs := newObservedLoader(t, afero.NewReadOnlyFs(afero.NewMemMapFs()), 7)
		s, err := loader.Load("<RunSettings/>")
		require.NoError(t, err)

		assert.NotPanics(t, func() { loader.SaveRandomSeed(s, "/run") })
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Equal(t, "Failed to save random seed.", entry.Message)
		assert.Equal(t, "/run", entry.ContextMap()["directory"])
	})

	t.Run("missing directory on disk logs a warning", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "does", "not", "exist")
		loader, logs := newObservedLoader(t, afero.NewOsFs(), 7)
		s, err := loader.Load("<RunSettings/>")
		require.NoError(t, err)

		loader.SaveRandomSeed(s, dir)
		assert.Equal(t, 1, logs.FilterMessage("Failed to save random seed.").Len())
	})

	t.Run("overwrites a previous seed", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		path := filepath.Join("/run", RandomSeedFile)
		require.NoError(t, afero.WriteFile(fs, path, []byte("123456789"), 0o644))
		loader, _ := newObservedLoader(t, fs, 5)
		s, err := loader.Load("<RunSettings/>")
		require.NoError(t, err)

		loader.SaveRandomSeed(s, "/run")
		content, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		assert.Equal(t, "5", string(content))
	})

	t.Run("nil settings logs a warning", func(t *testing.T) {
		loader, logs := newObservedLoader(t, afero.NewMemMapFs(), 7)
		loader.SaveRandomSeed(nil, "/run")
		assert.Equal(t, 1, logs.FilterMessage("Failed to save random seed.").Len())
	})
}
