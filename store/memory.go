package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process. It implements the same query
// semantics as the hosted adapters and backs the tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	colls map[string]map[string]Fields
	now   func() time.Time
	newID func() string
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock sets the clock used to resolve ServerTimestamp.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator overrides the auto-id generator used by Add.
func WithIDGenerator(gen func() string) MemoryOption {
	return func(s *MemoryStore) { s.newID = gen }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		colls: make(map[string]map[string]Fields),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *MemoryStore) Add(ctx context.Context, c Collection, data Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := s.newID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coll(c.Path())[id] = resolve(data, s.now())
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, d DocRef, data Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coll(d.Collection.Path())[d.ID] = resolve(data, s.now())
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, d DocRef, data Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.coll(d.Collection.Path())[d.ID]
	if !ok {
		return ErrNotFound
	}
	for k, v := range resolve(data, s.now()) {
		existing[k] = v
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, d DocRef) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.colls[d.Collection.Path()][d.ID]
	if !ok {
		return nil, ErrNotFound
	}
	return &Snapshot{Ref: d, Data: cloneValue(map[string]any(data)).(map[string]any)}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, d DocRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.colls[d.Collection.Path()], d.ID)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, q Query) ([]*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	var out []*Snapshot
	for id, data := range s.colls[q.Collection.Path()] {
		if !selected(data, q) {
			continue
		}
		out = append(out, &Snapshot{
			Ref:  q.Collection.Doc(id),
			Data: cloneValue(map[string]any(data)).(map[string]any),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range q.Orders {
			cmp, _ := compareValues(out[i].Data[o.Field], out[j].Data[o.Field])
			if cmp == 0 {
				continue
			}
			if o.Direction == Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return out[i].ID() < out[j].ID()
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// coll must be called with mu held for writing.
func (s *MemoryStore) coll(path string) map[string]Fields {
	c, ok := s.colls[path]
	if !ok {
		c = make(map[string]Fields)
		s.colls[path] = c
	}
	return c
}

// selected applies filters, and drops documents missing an ordered field.
func selected(data Fields, q Query) bool {
	for _, f := range q.Filters {
		if !matches(data, f) {
			return false
		}
	}
	for _, o := range q.Orders {
		if _, ok := data[o.Field]; !ok {
			return false
		}
	}
	return true
}
