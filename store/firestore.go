package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// countersCollection holds the sequence documents used by NextSequence.
const countersCollection = "counters"

// Firestore adapts a *firestore.Client to the Store interface.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore wraps an initialised Firestore client.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (s *Firestore) All(ctx context.Context, collection string) ([]Doc, error) {
	return drain(s.client.Collection(collection).Documents(ctx))
}

func (s *Firestore) Get(ctx context.Context, collection, id string) (*Doc, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &Doc{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *Firestore) Where(ctx context.Context, collection, field string, value any, limit int) ([]Doc, error) {
	q := s.client.Collection(collection).Where(field, "==", value)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return drain(q.Documents(ctx))
}

func (s *Firestore) WhereIn(ctx context.Context, collection, field string, values []any) ([]Doc, error) {
	if len(values) > MaxInValues {
		return nil, ErrTooManyInValues
	}
	if len(values) == 0 {
		return nil, nil
	}
	q := s.client.Collection(collection).Where(field, "in", values)
	return drain(q.Documents(ctx))
}

func (s *Firestore) Create(ctx context.Context, collection, id string, data map[string]any) (string, error) {
	ref := s.client.Collection(collection).Doc(id)
	if id == "" {
		ref = s.client.Collection(collection).NewDoc()
	}
	if _, err := ref.Set(ctx, translateSentinels(data)); err != nil {
		return "", fmt.Errorf("create %s/%s: %w", collection, ref.ID, err)
	}
	return ref.ID, nil
}

func (s *Firestore) Update(ctx context.Context, collection, id string, data map[string]any) error {
	ref := s.client.Collection(collection).Doc(id)
	if _, err := ref.Set(ctx, translateSentinels(data), firestore.MergeAll); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Firestore) NextSequence(ctx context.Context, name string, seed int64) (int64, error) {
	ref := s.client.Collection(countersCollection).Doc(name)
	var next int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
			next = seed
		case err != nil:
			return err
		default:
			cur, _ := snap.Data()["value"].(int64)
			next = cur + 1
		}
		return tx.Set(ref, map[string]any{"value": next})
	})
	if err != nil {
		return 0, fmt.Errorf("next sequence %q: %w", name, err)
	}
	return next, nil
}

// translateSentinels swaps ServerTimestamp markers for the Firestore one.
func translateSentinels(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

func drain(it *firestore.DocumentIterator) ([]Doc, error) {
	defer it.Stop()
	var docs []Doc
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
}
