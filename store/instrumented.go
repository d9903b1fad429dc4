package store

import (
	"context"
	"errors"
	"time"

	"nutrilog/metrics"
)

// Instrumented decorates a Store with per-operation Prometheus metrics.
type Instrumented struct {
	inner   Store
	backend string
}

func NewInstrumented(inner Store, backend string) *Instrumented {
	return &Instrumented{inner: inner, backend: backend}
}

func (s *Instrumented) observe(op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	metrics.RecordStoreOp(s.backend, op, outcome, time.Since(start))
}

func (s *Instrumented) Add(ctx context.Context, c Collection, data Fields) (string, error) {
	start := time.Now()
	id, err := s.inner.Add(ctx, c, data)
	s.observe("add", start, err)
	return id, err
}

func (s *Instrumented) Set(ctx context.Context, d DocRef, data Fields) error {
	start := time.Now()
	err := s.inner.Set(ctx, d, data)
	s.observe("set", start, err)
	return err
}

func (s *Instrumented) Update(ctx context.Context, d DocRef, data Fields) error {
	start := time.Now()
	err := s.inner.Update(ctx, d, data)
	s.observe("update", start, err)
	return err
}

func (s *Instrumented) Get(ctx context.Context, d DocRef) (*Snapshot, error) {
	start := time.Now()
	snap, err := s.inner.Get(ctx, d)
	s.observe("get", start, err)
	return snap, err
}

func (s *Instrumented) Delete(ctx context.Context, d DocRef) error {
	start := time.Now()
	err := s.inner.Delete(ctx, d)
	s.observe("delete", start, err)
	return err
}

func (s *Instrumented) Query(ctx context.Context, q Query) ([]*Snapshot, error) {
	start := time.Now()
	snaps, err := s.inner.Query(ctx, q)
	s.observe("query", start, err)
	return snaps, err
}

func (s *Instrumented) Close() error {
	return s.inner.Close()
}
