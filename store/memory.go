package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests in place of Firestore. It
// keeps documents in insertion order so streamed reads are deterministic.
type Memory struct {
	mu    sync.Mutex
	docs  map[string]map[string]map[string]any
	order map[string][]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs:  make(map[string]map[string]map[string]any),
		order: make(map[string][]string),
	}
}

func (m *Memory) All(ctx context.Context, collection string) ([]Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Doc
	for _, id := range m.order[collection] {
		out = append(out, Doc{ID: id, Data: cloneMap(m.docs[collection][id])})
	}
	return out, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (*Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[collection][id]
	if !ok {
		return nil, nil
	}
	return &Doc{ID: id, Data: cloneMap(data)}, nil
}

func (m *Memory) Where(ctx context.Context, collection, field string, value any, limit int) ([]Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Doc
	for _, id := range m.order[collection] {
		data := m.docs[collection][id]
		if data[field] != value {
			continue
		}
		out = append(out, Doc{ID: id, Data: cloneMap(data)})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) WhereIn(ctx context.Context, collection, field string, values []any) ([]Doc, error) {
	if len(values) > MaxInValues {
		return nil, ErrTooManyInValues
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[any]struct{}, len(values))
	for _, v := range values {
		wanted[v] = struct{}{}
	}
	var out []Doc
	for _, id := range m.order[collection] {
		data := m.docs[collection][id]
		if _, ok := wanted[data[field]]; ok {
			out = append(out, Doc{ID: id, Data: cloneMap(data)})
		}
	}
	return out, nil
}

func (m *Memory) Create(ctx context.Context, collection, id string, data map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]map[string]any)
	}
	if _, exists := m.docs[collection][id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	m.docs[collection][id] = materialize(data)
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]map[string]any)
	}
	doc, ok := m.docs[collection][id]
	if !ok {
		doc = make(map[string]any)
		m.docs[collection][id] = doc
		m.order[collection] = append(m.order[collection], id)
	}
	for k, v := range materialize(data) {
		doc[k] = v
	}
	return nil
}

// NextSequence keeps its counters in the counters collection, mirroring the
// Firestore adapter, so Get can observe them the same way.
func (m *Memory) NextSequence(ctx context.Context, name string, seed int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := seed
	if doc, ok := m.docs["counters"][name]; ok {
		cur, _ := doc["value"].(int64)
		next = cur + 1
	}
	if m.docs["counters"] == nil {
		m.docs["counters"] = make(map[string]map[string]any)
	}
	if _, exists := m.docs["counters"][name]; !exists {
		m.order["counters"] = append(m.order["counters"], name)
	}
	m.docs["counters"][name] = map[string]any{"value": next}
	return next, nil
}

// materialize copies a document, replacing timestamp sentinels with the
// current wall clock the way Firestore would server-side.
func materialize(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = time.Now().UTC()
			continue
		}
		out[k] = v
	}
	return out
}

func cloneMap(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
