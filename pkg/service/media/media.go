// Package media keeps captured images and hands out "blob:" locators for them.
package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
)

const (
	urlScheme = "blob:"

	// MaxDimension bounds the longer side of a normalized image
	MaxDimension = 1600

	// NormalizedContentType is the content type Normalize produces
	NormalizedContentType = "image/jpeg"
)

var (
	ErrBlobNotFound = goerr.New("blob not found")
	ErrInvalidImage = goerr.New("invalid image")
)

type blob struct {
	data        []byte
	contentType string
}

// Store keeps blobs in a directory, or in memory when no directory is given
type Store struct {
	dir string

	mu    sync.RWMutex
	blobs map[string]blob
}

var _ interfaces.MediaStore = &Store{}

// NewMemory creates a store that keeps images only for the lifetime of the process
func NewMemory() *Store {
	return &Store{blobs: make(map[string]blob)}
}

// NewDir creates a store that writes images under dir
func NewDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create media directory", goerr.V("dir", dir))
	}
	return &Store{dir: dir, blobs: make(map[string]blob)}, nil
}

func (s *Store) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	id := uuid.NewString()
	url := urlScheme + id

	if s.dir == "" {
		copied := make([]byte, len(data))
		copy(copied, data)

		s.mu.Lock()
		s.blobs[id] = blob{data: copied, contentType: contentType}
		s.mu.Unlock()
		return url, nil
	}

	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0o600); err != nil {
		return "", goerr.Wrap(err, "failed to write image", goerr.V("id", id))
	}
	if contentType != "" {
		if err := os.WriteFile(filepath.Join(s.dir, id+".type"), []byte(contentType), 0o600); err != nil {
			return "", goerr.Wrap(err, "failed to write image content type", goerr.V("id", id))
		}
	}
	return url, nil
}

// Open returns the image stored under url and its content type
func (s *Store) Open(ctx context.Context, url string) (io.ReadCloser, string, error) {
	id, ok := strings.CutPrefix(url, urlScheme)
	if !ok || uuid.Validate(id) != nil {
		return nil, "", goerr.Wrap(ErrBlobNotFound, "not a blob locator", goerr.V("url", url))
	}

	if s.dir == "" {
		s.mu.RLock()
		b, found := s.blobs[id]
		s.mu.RUnlock()
		if !found {
			return nil, "", goerr.Wrap(ErrBlobNotFound, "blob not found", goerr.V("url", url))
		}
		return io.NopCloser(bytes.NewReader(b.data)), b.contentType, nil
	}

	f, err := os.Open(filepath.Join(s.dir, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", goerr.Wrap(ErrBlobNotFound, "blob not found", goerr.V("url", url))
		}
		return nil, "", goerr.Wrap(err, "failed to open image", goerr.V("url", url))
	}

	contentType := "application/octet-stream"
	if ct, err := os.ReadFile(filepath.Join(s.dir, id+".type")); err == nil {
		contentType = string(ct)
	}
	return f, contentType, nil
}

// Normalize decodes any supported image, shrinks it to fit MaxDimension and
// re-encodes it as JPEG.
func Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidImage, err.Error(), goerr.V("size", len(data)))
	}

	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, goerr.Wrap(err, "failed to encode image")
	}
	return buf.Bytes(), nil
}
