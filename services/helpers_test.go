package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"nutrilog/store"

	"go.uber.org/zap/zaptest"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

type fixture struct {
	clock *fakeClock
	db    *store.MemoryStore
	meals *MealService
	foods *FoodService
	users *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := newFakeClock()
	db := store.NewMemoryStore(store.WithClock(clock.Now))
	log := zaptest.NewLogger(t)
	meals := NewMealService(db, log)
	meals.now = clock.Now
	return &fixture{
		clock: clock,
		db:    db,
		meals: meals,
		foods: NewFoodService(db, log),
		users: NewUserService(db, log),
	}
}

func ptr[T any](v T) *T { return &v }

// failingStore returns err from every call.
type failingStore struct{ err error }

func (f failingStore) Add(context.Context, store.Collection, store.Fields) (string, error) {
	return "", f.err
}
func (f failingStore) Set(context.Context, store.DocRef, store.Fields) error    { return f.err }
func (f failingStore) Update(context.Context, store.DocRef, store.Fields) error { return f.err }
func (f failingStore) Get(context.Context, store.DocRef) (*store.Snapshot, error) {
	return nil, f.err
}
func (f failingStore) Delete(context.Context, store.DocRef) error { return f.err }
func (f failingStore) Query(context.Context, store.Query) ([]*store.Snapshot, error) {
	return nil, f.err
}
func (f failingStore) Close() error { return nil }
