// File: internal/settings/seed.go
package settings

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// RandomSeedFile is the name of the file holding a persisted seed inside the caller's directory.
const RandomSeedFile = "nunit_random_seed.tmp"

// errEmptySeedFile is returned when a seed file exists but has no first line.
var errEmptySeedFile = errors.New("seed file is empty")

// SeedStore persists a single random seed per directory.
type SeedStore interface {
	// Save writes seed into dir, replacing any previous value.
	Save(dir string, seed int) error
	// Restore reads the seed stored in dir. found is false when nothing was saved there.
	Restore(dir string) (seed int, found bool, err error)
}

// FileSeedStore keeps the seed as decimal text in RandomSeedFile.
type FileSeedStore struct {
	fs afero.Fs
}

// NewFileSeedStore creates a FileSeedStore on fs.
func NewFileSeedStore(fs afero.Fs) *FileSeedStore {
	return &FileSeedStore{fs: fs}
}

// Save implements SeedStore.
func (s *FileSeedStore) Save(dir string, seed int) (err error) {
	f, err := s.fs.Create(filepath.Join(dir, RandomSeedFile))
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close seed file: %w", cerr)
		}
	}()

	if _, err := f.WriteString(strconv.Itoa(seed)); err != nil {
		return fmt.Errorf("failed to write seed file: %w", err)
	}
	return nil
}

// Restore implements SeedStore.
func (s *FileSeedStore) Restore(dir string) (int, bool, error) {
	path := filepath.Join(dir, RandomSeedFile)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return 0, false, fmt.Errorf("failed to stat seed file: %w", err)
	}
	if !exists {
		return 0, false, nil
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return 0, false, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, false, fmt.Errorf("failed to read seed file: %w", err)
		}
		return 0, false, errEmptySeedFile
	}
	seed, err := strconv.ParseInt(strings.TrimSpace(scanner.Text()), 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return int(seed), true, nil
}

// SaveRandomSeed persists s.RandomSeed into dir. Failures are logged and never returned.
func (l *Loader) SaveRandomSeed(s *Settings, dir string) {
	if s == nil {
		l.logger.Warn("Failed to save random seed.", zap.String("directory", dir), zap.Error(ErrInvalidArgument))
		return
	}
	if err := l.store.Save(dir, s.RandomSeed); err != nil {
		l.logger.Warn("Failed to save random seed.", zap.String("directory", dir), zap.Error(err))
	}
}

// RestoreRandomSeed overwrites s.RandomSeed with the seed persisted in dir, if any,
// and reports whether a persisted seed was applied. A missing seed file is not an error.
// Other failures are logged and leave the seed unchanged.
func (l *Loader) RestoreRandomSeed(s *Settings, dir string) bool {
	if s == nil {
		l.logger.Warn("Unable to restore random seed.", zap.String("directory", dir), zap.Error(ErrInvalidArgument))
		return false
	}
	seed, found, err := l.store.Restore(dir)
	if err != nil {
		l.logger.Warn("Unable to restore random seed.", zap.String("directory", dir), zap.Error(err))
		return false
	}
	if found {
		s.RandomSeed = seed
	}
	return found
}
