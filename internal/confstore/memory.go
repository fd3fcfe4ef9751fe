package confstore

import (
	"context"
	"sync"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
)

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	langs  map[string]map[int64]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		values: map[string]string{},
		langs:  map[string]map[int64]string{},
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[shop.PrefixKey(shop.ID(ctx), key)]
	return v, ok, nil
}

func (m *Memory) GetLang(ctx context.Context, key string, languageID int64) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries, ok := m.langs[shop.PrefixKey(shop.ID(ctx), key)]
	if !ok {
		return "", false, nil
	}
	v, ok := entries[languageID]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[shop.PrefixKey(shop.ID(ctx), key)] = value
	return nil
}

func (m *Memory) SetLang(ctx context.Context, key string, values map[int64]string) error {
	if len(values) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	scoped := shop.PrefixKey(shop.ID(ctx), key)
	entries, ok := m.langs[scoped]
	if !ok {
		entries = make(map[int64]string, len(values))
		m.langs[scoped] = entries
	}
	for id, v := range values {
		entries[id] = v
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	scoped := shop.PrefixKey(shop.ID(ctx), key)
	delete(m.values, scoped)
	delete(m.langs, scoped)
	return nil
}

// Keys returns the number of plain and language-keyed entries, for tests and diagnostics.
func (m *Memory) Keys() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values) + len(m.langs)
}
