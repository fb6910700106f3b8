package pets

import (
	"context"
	"errors"
	"testing"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	docs map[string]Document

	updates   int
	overrides int
}

func newTestRepo() *testRepo {
	return &testRepo{docs: map[string]Document{}}
}

func (r *testRepo) Get(ctx context.Context, id string) (Record, error) {
	d, ok := r.docs[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return FromDocument(d), nil
}

func (r *testRepo) List(ctx context.Context) (map[string]Record, error) {
	out := map[string]Record{}
	for id, d := range r.docs {
		out[id] = FromDocument(d)
	}
	return out, nil
}

func (r *testRepo) Set(ctx context.Context, id string, rec Record) error {
	r.docs[id] = rec.Document()
	return nil
}

func (r *testRepo) Update(ctx context.Context, id string, p Patch) error {
	r.updates++
	d, ok := r.docs[id]
	if !ok {
		d = Document{}
		r.docs[id] = d
	}
	for k, v := range p.Fields() {
		d[k] = v
	}
	return nil
}

func (r *testRepo) Override(ctx context.Context, id, field string, value any) error {
	r.overrides++
	d, ok := r.docs[id]
	if !ok {
		d = Document{}
		r.docs[id] = d
	}
	d[field] = value
	return nil
}

// -------------------------
// Tests
// -------------------------

func newTestService(t *testing.T) (*Service, *testRepo) {
	t.Helper()
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	repo := newTestRepo()
	svc := NewService(repo, cat)
	svc.intn = func(n int) int { return n - 1 }
	return svc, repo
}

func TestService_Get_AbsentIsNotAnError(t *testing.T) {
	svc, _ := newTestService(t)

	_, ok, err := svc.Get(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Fatalf("expected absent record")
	}

	if _, _, err := svc.Get(context.Background(), "  "); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for blank id, got %v", err)
	}
}

func TestService_Adopt_ResetsRecordAndPicksColor(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	// registro previo escapado, con basura del override
	repo.docs["conv-1"] = Document{"species": "fox", "name": "Old", "hunger": 0, "ranAway": true, "junk": 1}

	r, err := svc.Adopt(ctx, "conv-1", "pokpok")
	if err != nil {
		t.Fatalf("Adopt error: %v", err)
	}
	// intn devuelve n-1 => última variante
	if r.Color != "yellow" {
		t.Fatalf("expected last pokpok color, got %s", r.Color)
	}

	got, _, _ := svc.Get(ctx, "conv-1")
	if got.Species != "pokpok" || got.Name != "" || got.RanAway || got.Hunger != 80 || got.Room != "bedroom" {
		t.Fatalf("expected fresh adoption, got %#v", got)
	}
	if _, ok := got.Extra["junk"]; ok {
		t.Fatalf("adoption must overwrite the whole document")
	}
}

func TestService_Adopt_UnknownSpecies(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Adopt(context.Background(), "conv-1", "dragon")
	if !errors.Is(err, ErrUnknownSpecies) {
		t.Fatalf("expected ErrUnknownSpecies, got %v", err)
	}
	if len(repo.docs) != 0 {
		t.Fatalf("unknown species must not write")
	}
}

func TestService_SetStat_Clamps(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Adopt(ctx, "conv-1", "fox")

	v, err := svc.SetStat(ctx, "conv-1", FieldHunger, 97+10)
	if err != nil {
		t.Fatalf("SetStat error: %v", err)
	}
	if v != 100 {
		t.Fatalf("expected clamp to 100, got %d", v)
	}
	if repo.docs["conv-1"]["hunger"] != 100 {
		t.Fatalf("expected stored 100, got %v", repo.docs["conv-1"]["hunger"])
	}

	if _, err := svc.SetStat(ctx, "conv-1", "name", 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non stat field, got %v", err)
	}
}

func TestService_Name_RejectsBlank(t *testing.T) {
	svc, repo := newTestService(t)

	if err := svc.Name(context.Background(), "conv-1", "   "); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("blank name must not write")
	}
}

func TestService_Override_NoValidation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	if err := svc.Override(ctx, "conv-1", "hunger", 250); err != nil {
		t.Fatalf("Override error: %v", err)
	}
	if err := svc.Override(ctx, "conv-1", "sparkles", "yes"); err != nil {
		t.Fatalf("Override error: %v", err)
	}
	r, _, _ := svc.Get(ctx, "conv-1")
	if r.Hunger != 250 {
		t.Fatalf("override must not clamp, got %d", r.Hunger)
	}
	if r.Extra["sparkles"] != "yes" {
		t.Fatalf("override must accept unknown fields, got %#v", r.Extra)
	}
	if repo.overrides != 2 {
		t.Fatalf("expected 2 overrides, got %d", repo.overrides)
	}
}
