package gcs

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/utils/safe"
	"google.golang.org/api/option"
)

// Store keeps one JSON object per key in a Cloud Storage bucket
type Store struct {
	client     *storage.Client
	bucket     string
	prefix     string
	clientOpts []option.ClientOption
}

var _ interfaces.KVStore = &Store{}

type Option func(*Store)

// WithPrefix places objects under prefix/ in the bucket
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithEndpoint talks to an unauthenticated storage emulator at endpoint
func WithEndpoint(endpoint string) Option {
	return func(s *Store) {
		if endpoint == "" {
			return
		}
		s.clientOpts = append(s.clientOpts,
			option.WithEndpoint(endpoint),
			option.WithoutAuthentication(),
		)
	}
}

func New(ctx context.Context, bucket string, opts ...Option) (*Store, error) {
	s := &Store{bucket: bucket}
	for _, opt := range opts {
		opt(s)
	}

	client, err := storage.NewClient(ctx, s.clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}
	s.client = client
	return s, nil
}

func (s *Store) object(key string) *storage.ObjectHandle {
	name := key + ".json"
	if s.prefix != "" {
		name = path.Join(s.prefix, name)
	}
	return s.client.Bucket(s.bucket).Object(name)
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	r, err := s.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(interfaces.ErrKeyNotFound, "no snapshot saved", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to open snapshot object", goerr.V("key", key), goerr.V("bucket", s.bucket))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read snapshot object", goerr.V("key", key))
	}
	return data, nil
}

// Save uploads the object in one request; Cloud Storage replaces it atomically.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	w := s.object(key).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write snapshot object", goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to commit snapshot object", goerr.V("key", key), goerr.V("bucket", s.bucket))
	}
	return nil
}

func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
