package nvstore

import (
	"context"
	"sync"
)

// MemStore keeps the image in memory; it is the default when no persistent
// backend is configured.
type MemStore struct {
	mu    sync.Mutex
	image []byte
	saves int
}

func (ms *MemStore) Save(ctx context.Context, image []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.image = make([]byte, len(image))
	copy(ms.image, image)
	ms.saves++
	return nil
}

func (ms *MemStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.image == nil {
		return nil, ErrEmpty
	}
	return append([]byte(nil), ms.image...), nil
}

// Saves returns how many times Save has been called.
func (ms *MemStore) Saves() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.saves
}
