package filterstore

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bloomgo"
)

// Manager moves filters between memory and a Store using the bloomgo binary
// encoding. It is safe for concurrent use as long as no two goroutines save
// to the same name at once.
type Manager struct {
	store       Store
	logger      *bloomgo.Logger
	encodeOpts  []bloomgo.EncodeOption
	concurrency int
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger for store operations. Defaults to a noop
// logger.
func WithLogger(l *bloomgo.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithCompressedFilters stores filters zstd-compressed. Loading is
// unaffected; the encoding is self-describing.
func WithCompressedFilters() ManagerOption {
	return func(m *Manager) {
		m.encodeOpts = append(m.encodeOpts, bloomgo.WithCompression())
	}
}

// WithConcurrency bounds the number of parallel store calls made by SaveAll
// and LoadAll. Defaults to 8.
func WithConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:       store,
		logger:      bloomgo.NoopLogger(),
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Save encodes the filter and stores it under name.
func (m *Manager) Save(ctx context.Context, name string, f *bloomgo.Filter) error {
	var buf bytes.Buffer
	if err := f.Encode(&buf, m.encodeOpts...); err != nil {
		return fmt.Errorf("encode filter %q: %w", name, err)
	}
	if err := m.store.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("store filter %q: %w", name, err)
	}
	m.logger.WithName(name).DebugContext(ctx, "filter saved", "filter", f, "bytes", buf.Len())
	return nil
}

// Load fetches and decodes the filter stored under name. A missing name
// yields ErrNotFound.
func (m *Manager) Load(ctx context.Context, name string) (*bloomgo.Filter, error) {
	data, err := m.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	f, err := bloomgo.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode filter %q: %w", name, err)
	}
	m.logger.WithName(name).DebugContext(ctx, "filter loaded", "filter", f)
	return f, nil
}

// Delete removes the filter stored under name.
func (m *Manager) Delete(ctx context.Context, name string) error {
	return m.store.Delete(ctx, name)
}

// List returns the stored filter names with the given prefix, sorted.
func (m *Manager) List(ctx context.Context, prefix string) ([]string, error) {
	return m.store.List(ctx, prefix)
}

// SaveAll saves every filter in the map, fanning out across the store. The
// first error cancels the remaining saves; filters already written stay
// written.
func (m *Manager) SaveAll(ctx context.Context, filters map[string]*bloomgo.Filter) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for name, f := range filters {
		g.Go(func() error {
			return m.Save(ctx, name, f)
		})
	}
	return g.Wait()
}

// LoadAll loads every named filter. The first error cancels the remaining
// loads and is returned.
func (m *Manager) LoadAll(ctx context.Context, names []string) (map[string]*bloomgo.Filter, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	var mu sync.Mutex
	filters := make(map[string]*bloomgo.Filter, len(names))

	for _, name := range names {
		g.Go(func() error {
			f, err := m.Load(ctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			filters[name] = f
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return filters, nil
}
