// Package file stores each snapshot as one JSON file in a directory, the
// on-disk counterpart of a browser's local storage.
package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/utils/safe"
)

// ErrInvalidKey is returned for keys that cannot be used as a file name
var ErrInvalidKey = goerr.New("invalid key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type Store struct {
	dir string
}

var _ interfaces.KVStore = &Store{}

// New creates the directory if needed
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create data directory", goerr.V("dir", dir))
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) (string, error) {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return "", goerr.Wrap(ErrInvalidKey, "key is not a plain file name", goerr.V("key", key))
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(interfaces.ErrKeyNotFound, "no snapshot saved", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to read snapshot", goerr.V("path", path))
	}
	return data, nil
}

// Save writes to a temporary file and renames it over the target so a
// crash never leaves a half-written snapshot.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file", goerr.V("dir", s.dir))
	}
	tmpName := tmp.Name()
	// no-op after a successful rename
	defer safe.Remove(ctx, tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write snapshot", goerr.V("path", tmpName))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to sync snapshot", goerr.V("path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close snapshot", goerr.V("path", tmpName))
	}

	if err := os.Rename(tmpName, path); err != nil {
		return goerr.Wrap(err, "failed to replace snapshot", goerr.V("path", path))
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
