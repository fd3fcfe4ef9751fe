package host

import (
	"context"
	"slices"
	"sync"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
)

// Memory is an in-process host implementing every registry. Installed modules and
// hook registrations are per shop; languages and currency assignments are shared by all shops.
type Memory struct {
	mu             sync.RWMutex
	currencies     map[int64]Currency
	moduleCurrency map[string][]int64
	languages      []Language
	hooks          map[string][]string
	installed      map[string]bool
}

// NewMemory returns a host seeded with the given languages and currencies.
func NewMemory(languages []Language, currencies []Currency) *Memory {
	m := &Memory{
		currencies:     make(map[int64]Currency, len(currencies)),
		moduleCurrency: map[string][]int64{},
		languages:      append([]Language(nil), languages...),
		hooks:          map[string][]string{},
		installed:      map[string]bool{},
	}
	for _, c := range currencies {
		m.currencies[c.ID] = c
	}
	return m
}

// AssignCurrencies sets the currencies a module accepts.
func (m *Memory) AssignCurrencies(module string, ids ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moduleCurrency[module] = append([]int64(nil), ids...)
}

func (m *Memory) SupportedCurrencies(_ context.Context, module string) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int64(nil), m.moduleCurrency[module]...), nil
}

func (m *Memory) CheckPaymentCurrencies(_ context.Context, module string) ([]Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Currency
	for _, id := range m.moduleCurrency[module] {
		if c, ok := m.currencies[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) Currency(_ context.Context, id int64) (Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.currencies[id]
	if !ok {
		return Currency{}, ErrCurrencyNotFound
	}
	return c, nil
}

func (m *Memory) Languages(context.Context) ([]Language, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Language(nil), m.languages...), nil
}

// shopModule keys per-shop module state by the shop on ctx.
func shopModule(ctx context.Context, module string) string {
	return shop.PrefixKey(shop.ID(ctx), module)
}

func (m *Memory) RegisterHook(ctx context.Context, module, hook string) error {
	key := shopModule(ctx, module)
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.hooks[key], hook) {
		m.hooks[key] = append(m.hooks[key], hook)
	}
	return nil
}

func (m *Memory) UnregisterHooks(ctx context.Context, module string) error {
	key := shopModule(ctx, module)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hooks, key)
	return nil
}

func (m *Memory) Hooks(ctx context.Context, module string) ([]string, error) {
	key := shopModule(ctx, module)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.hooks[key]...), nil
}

func (m *Memory) Install(ctx context.Context, module string) error {
	key := shopModule(ctx, module)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.installed[key] = true
	return nil
}

func (m *Memory) Uninstall(ctx context.Context, module string) error {
	key := shopModule(ctx, module)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.installed, key)
	return nil
}

func (m *Memory) IsActive(ctx context.Context, module string) (bool, error) {
	key := shopModule(ctx, module)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.installed[key], nil
}
