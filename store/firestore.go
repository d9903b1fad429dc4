package store

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the Cloud Firestore adapter.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects using application default credentials.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) collection(c Collection) *firestore.CollectionRef {
	return s.client.Collection(c.Path())
}

func (s *FirestoreStore) doc(d DocRef) *firestore.DocumentRef {
	return s.collection(d.Collection).Doc(d.ID)
}

func (s *FirestoreStore) Add(ctx context.Context, c Collection, data Fields) (string, error) {
	ref, _, err := s.collection(c).Add(ctx, toFirestore(data))
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, d DocRef, data Fields) error {
	_, err := s.doc(d).Set(ctx, toFirestore(data))
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, d DocRef, data Fields) error {
	_, err := s.doc(d).Update(ctx, firestoreUpdates(data))
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) Get(ctx context.Context, d DocRef) (*Snapshot, error) {
	snap, err := s.doc(d).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Snapshot{Ref: d, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, d DocRef) error {
	_, err := s.doc(d).Delete(ctx)
	return err
}

func (s *FirestoreStore) Query(ctx context.Context, q Query) ([]*Snapshot, error) {
	fq := s.collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, string(f.Op), f.Value)
	}
	for _, o := range q.Orders {
		dir := firestore.Asc
		if o.Direction == Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(o.Field, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	it := fq.Documents(ctx)
	defer it.Stop()
	var out []*Snapshot
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, &Snapshot{Ref: q.Collection.Doc(snap.Ref.ID), Data: snap.Data()})
	}
	return out, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// toFirestore swaps the sentinel for the SDK's own server timestamp value.
func toFirestore(data Fields) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if IsServerTimestamp(v) {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

func firestoreUpdates(data Fields) []firestore.Update {
	ups := make([]firestore.Update, 0, len(data))
	for k, v := range toFirestore(data) {
		ups = append(ups, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	return ups
}
