package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
)

// KV is an in-process KVStore for tests and development
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ interfaces.KVStore = &KV{}

func New() *KV {
	return &KV{data: make(map[string][]byte)}
}

func (m *KV) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrKeyNotFound, "no snapshot saved", goerr.V("key", key))
	}

	copied := make([]byte, len(v))
	copy(copied, v)
	return copied, nil
}

func (m *KV) Save(ctx context.Context, key string, data []byte) error {
	copied := make([]byte, len(data))
	copy(copied, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = copied
	return nil
}

func (m *KV) Close() error {
	return nil
}
