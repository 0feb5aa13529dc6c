package interfaces

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// ErrKeyNotFound is returned by KVStore.Load when nothing was saved under the key
var ErrKeyNotFound = goerr.New("key not found")

// KVStore persists opaque snapshots under fixed keys.
// Save replaces the whole value stored under key.
type KVStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}
