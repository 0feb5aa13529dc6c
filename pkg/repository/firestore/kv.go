package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const snapshotCollection = "snapshots"

type snapshotDocument struct {
	Key       string    `firestore:"key"`
	Data      []byte    `firestore:"data"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// Store keeps one document per key in the snapshots collection
type Store struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.KVStore = &Store{}

type Option func(*Store)

func WithCollectionPrefix(prefix string) Option {
	return func(s *Store) {
		s.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Store, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	s := &Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) collection() *firestore.CollectionRef {
	return s.client.Collection(s.collectionPrefix + snapshotCollection)
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.collection().Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrKeyNotFound, "no snapshot saved", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get snapshot", goerr.V("key", key))
	}

	var d snapshotDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal snapshot", goerr.V("key", key))
	}
	return d.Data, nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	d := &snapshotDocument{
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := s.collection().Doc(key).Set(ctx, d); err != nil {
		return goerr.Wrap(err, "failed to save snapshot", goerr.V("key", key))
	}
	return nil
}

func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
