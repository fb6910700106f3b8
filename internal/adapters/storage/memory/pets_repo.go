package memory

import (
	"context"
	"strings"
	"sync"

	"petbot/internal/domain/pets"
)

// petRepo guarda documentos, igual que los stores SQL: así Override puede
// escribir claves fuera del esquema y los tipos se comportan igual.
type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Document
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Document),
	}
}

func (r *petRepo) Get(ctx context.Context, id string) (pets.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.byID[id]
	if !ok {
		return pets.Record{}, pets.ErrNotFound
	}
	return pets.FromDocument(doc), nil
}

func (r *petRepo) List(ctx context.Context) (map[string]pets.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]pets.Record, len(r.byID))
	for id, doc := range r.byID {
		out[id] = pets.FromDocument(doc)
	}
	return out, nil
}

func (r *petRepo) Set(ctx context.Context, id string, rec pets.Record) error {
	if strings.TrimSpace(id) == "" {
		return pets.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[id] = rec.Document()
	return nil
}

func (r *petRepo) Update(ctx context.Context, id string, p pets.Patch) error {
	return r.merge(id, p.Fields())
}

func (r *petRepo) Override(ctx context.Context, id, field string, value any) error {
	if strings.TrimSpace(field) == "" {
		return pets.ErrInvalidInput
	}
	return r.merge(id, pets.Document{field: value})
}

// merge crea el documento si no existe (mismo comportamiento que el upsert SQL).
func (r *petRepo) merge(id string, fields pets.Document) error {
	if strings.TrimSpace(id) == "" {
		return pets.ErrInvalidInput
	}
	if len(fields) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.byID[id]
	if !ok {
		doc = pets.Document{}
		r.byID[id] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}
