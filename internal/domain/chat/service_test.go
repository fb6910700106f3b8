package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"petbot/internal/domain/pets"
	"petbot/internal/domain/reply"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu   sync.Mutex
	docs map[string]pets.Document

	writes int
}

func newTestRepo() *testRepo {
	return &testRepo{docs: map[string]pets.Document{}}
}

func (r *testRepo) Get(ctx context.Context, id string) (pets.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return pets.Record{}, pets.ErrNotFound
	}
	return pets.FromDocument(d), nil
}

func (r *testRepo) List(ctx context.Context) (map[string]pets.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]pets.Record{}
	for id, d := range r.docs {
		out[id] = pets.FromDocument(d)
	}
	return out, nil
}

func (r *testRepo) Set(ctx context.Context, id string, rec pets.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.docs[id] = rec.Document()
	return nil
}

func (r *testRepo) Update(ctx context.Context, id string, p pets.Patch) error {
	return r.merge(id, p.Fields())
}

func (r *testRepo) Override(ctx context.Context, id, field string, value any) error {
	return r.merge(id, pets.Document{field: value})
}

func (r *testRepo) merge(id string, fields pets.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	d, ok := r.docs[id]
	if !ok {
		d = pets.Document{}
		r.docs[id] = d
	}
	for k, v := range fields {
		d[k] = v
	}
	return nil
}

func (r *testRepo) put(id string, rec pets.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[id] = rec.Document()
}

func (r *testRepo) doc(id string) pets.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id]
}

func (r *testRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// -------------------------
// Test sender
// -------------------------

type sent struct {
	conversationID string
	msg            reply.Message
}

type testSender struct {
	mu   sync.Mutex
	out  []sent
	fail error
}

func (s *testSender) Send(ctx context.Context, conversationID string, msg reply.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.out = append(s.out, sent{conversationID: conversationID, msg: msg})
	return nil
}

func (s *testSender) messages() []sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sent(nil), s.out...)
}

// -------------------------
// Helpers
// -------------------------

const conv = "conv-1"

func newTestService(t *testing.T) (*Service, *testRepo, *testSender) {
	t.Helper()
	cat, err := pets.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	repo := newTestRepo()
	sender := &testSender{}
	svc := NewService(pets.NewService(repo, cat), sender, Options{})
	// Siempre el máximo del rango: resultados determinísticos.
	svc.intn = func(n int) int { return n - 1 }
	return svc, repo, sender
}

func handle(t *testing.T, svc *Service, text string) []reply.Message {
	t.Helper()
	msgs, err := svc.Handle(context.Background(), Inbound{
		ConversationID: conv,
		Text:           text,
		BaseURL:        "https://pets.example.com",
	})
	if err != nil {
		t.Fatalf("handle %q: %v", text, err)
	}
	return msgs
}

func named(species pets.Species, name string) pets.Record {
	r := pets.NewAdoption(species, "orange")
	r.Name = name
	return r
}

func mustCard(t *testing.T, m reply.Message) reply.StatusCard {
	t.Helper()
	card, ok := m.(reply.StatusCard)
	if !ok {
		t.Fatalf("expected StatusCard, got %T (%q)", m, m.Fallback())
	}
	return card
}

func mustText(t *testing.T, m reply.Message) reply.Text {
	t.Helper()
	txt, ok := m.(reply.Text)
	if !ok {
		t.Fatalf("expected Text, got %T (%q)", m, m.Fallback())
	}
	return txt
}

// -------------------------
// Tests
// -------------------------

func TestHandle_EndToEndAdoption(t *testing.T) {
	svc, repo, _ := newTestService(t)

	// start: onboarding + carrusel, sin crear registro
	msgs := handle(t, svc, "start")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	mustText(t, msgs[0])
	car, ok := msgs[1].(reply.Carousel)
	if !ok || len(car.Tiles) != 4 {
		t.Fatalf("expected carousel with 4 tiles, got %#v", msgs[1])
	}
	if repo.doc(conv) != nil {
		t.Fatalf("start must not create a record")
	}

	// choosepet fox
	msgs = handle(t, svc, "choosepet fox")
	if !strings.Contains(mustText(t, msgs[0]).Body, "name") {
		t.Fatalf("expected name prompt, got %q", msgs[0].Fallback())
	}
	rec := pets.FromDocument(repo.doc(conv))
	if rec.Species != "fox" || rec.Name != "" || rec.Color != "orange" {
		t.Fatalf("unexpected record after adoption %#v", rec)
	}
	if rec.Hunger != 80 || rec.Hygiene != 80 || rec.Happiness != 80 || rec.Room != "bedroom" {
		t.Fatalf("unexpected initial stats %#v", rec)
	}

	// nombre con mayúsculas tal cual
	msgs = handle(t, svc, "Sunny")
	p, ok := msgs[0].(reply.Prompt)
	if !ok || !strings.Contains(p.Body, "Sunny") || len(p.Suggestions) != 3 {
		t.Fatalf("unexpected name confirmation %#v", msgs[0])
	}
	if got := pets.FromDocument(repo.doc(conv)).Name; got != "Sunny" {
		t.Fatalf("expected name Sunny, got %q", got)
	}

	// feed sin argumento: 3 comidas distintas, sin escritura
	before := repo.writeCount()
	msgs = handle(t, svc, "feed")
	menu, ok := msgs[0].(reply.Prompt)
	if !ok || len(menu.Suggestions) != 3 {
		t.Fatalf("expected 3 food suggestions, got %#v", msgs[0])
	}
	seen := map[string]bool{}
	for _, s := range menu.Suggestions {
		if seen[s.Text] {
			t.Fatalf("duplicated food %q", s.Text)
		}
		seen[s.Text] = true
		if s.Postback != "feed "+s.Text {
			t.Fatalf("unexpected postback %q", s.Postback)
		}
	}
	if repo.writeCount() != before {
		t.Fatalf("feed menu must not write")
	}

	// feed con comida válida
	msgs = handle(t, svc, "feed 🍗")
	card := mustCard(t, msgs[0])
	rec = pets.FromDocument(repo.doc(conv))
	if rec.Hunger != 95 {
		t.Fatalf("expected hunger 80+15=95, got %d", rec.Hunger)
	}
	if card.Image.Mood != pets.Evaluate(rec).Mood || card.Image.Species != "fox" {
		t.Fatalf("card image not derived from updated record: %#v", card.Image)
	}
	if !strings.Contains(card.ImageURL, "https://pets.example.com/image.png?") {
		t.Fatalf("unexpected image url %q", card.ImageURL)
	}
}

func TestHandle_NameCaptureBeatsCommands(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.put(conv, pets.NewAdoption("fox", "orange"))

	handle(t, svc, "feed")

	rec := pets.FromDocument(repo.doc(conv))
	if rec.Name != "feed" || rec.Hunger != 80 {
		t.Fatalf("expected name capture, got %#v", rec)
	}
}

func TestHandle_ChoosePetWhenAlreadyAdopted(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.put(conv, named("slime", "Goo"))
	before := repo.writeCount()

	msgs := handle(t, svc, "choosepet fox")

	if !strings.Contains(mustText(t, msgs[0]).Body, "already adopted") {
		t.Fatalf("unexpected reply %q", msgs[0].Fallback())
	}
	if pets.FromDocument(repo.doc(conv)).Species != "slime" || repo.writeCount() != before {
		t.Fatalf("species must not change")
	}
}

func TestHandle_StartWhenAdoptedRefuses(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.put(conv, named("owl", "Hoot"))

	msgs := handle(t, svc, "start")
	if len(msgs) != 1 || !strings.Contains(mustText(t, msgs[0]).Body, "Hoot") {
		t.Fatalf("unexpected reply %#v", msgs)
	}
}

func TestHandle_ChoosePetUnknownSpecies(t *testing.T) {
	svc, repo, _ := newTestService(t)

	msgs := handle(t, svc, "choosepet dragon")

	if len(msgs) != 2 || mustText(t, msgs[0]).Body != textUnknownPet {
		t.Fatalf("unexpected reply %#v", msgs)
	}
	if _, ok := msgs[1].(reply.Carousel); !ok {
		t.Fatalf("expected carousel, got %T", msgs[1])
	}
	if repo.doc(conv) != nil {
		t.Fatalf("unknown species must not create a record")
	}
}

func TestHandle_FeedClampsAt100(t *testing.T) {
	svc, repo, _ := newTestService(t)
	svc.intn = func(n int) int { return 5 } // 5 + 5 = 10
	rec := named("fox", "Sunny")
	rec.Hunger = 97
	repo.put(conv, rec)

	msgs := handle(t, svc, "feed 🍕")

	mustCard(t, msgs[0])
	if got := pets.FromDocument(repo.doc(conv)).Hunger; got != 100 {
		t.Fatalf("expected hunger 100, got %d", got)
	}
	if !strings.Contains(msgs[0].Fallback(), "+10 food") {
		t.Fatalf("unexpected description %q", msgs[0].Fallback())
	}
}

func TestHandle_FeedWhenFull(t *testing.T) {
	svc, repo, _ := newTestService(t)
	rec := named("fox", "Sunny")
	rec.Hunger = 100
	repo.put(conv, rec)
	before := repo.writeCount()

	msgs := handle(t, svc, "feed 🍕")

	if !strings.Contains(mustCard(t, msgs[0]).Description, "too bloated") {
		t.Fatalf("unexpected reply %q", msgs[0].Fallback())
	}
	if repo.writeCount() != before {
		t.Fatalf("full pet must not be fed")
	}
}

func TestHandle_UnknownItems(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.put(conv, named("fox", "Sunny"))
	before := repo.writeCount()

	if got := mustText(t, handle(t, svc, "feed rocks")[0]).Body; got != "You don't have any rocks!" {
		t.Fatalf("unexpected feed reply %q", got)
	}
	if got := mustText(t, handle(t, svc, "play chess")[0]).Body; got != "You don't know how to play chess!" {
		t.Fatalf("unexpected play reply %q", got)
	}
	if repo.writeCount() != before {
		t.Fatalf("unknown items must not write")
	}
}

func TestHandle_PlayAndClean(t *testing.T) {
	svc, repo, _ := newTestService(t)
	rec := named("fox", "Sunny")
	rec.Happiness = 90
	rec.Hygiene = 10
	repo.put(conv, rec)

	msgs := handle(t, svc, "play")
	if p, ok := msgs[0].(reply.Prompt); !ok || len(p.Suggestions) != 3 {
		t.Fatalf("expected game menu, got %#v", msgs[0])
	}

	handle(t, svc, "play ⚽")
	if got := pets.FromDocument(repo.doc(conv)).Happiness; got != 100 {
		t.Fatalf("expected happiness clamped to 100, got %d", got)
	}

	card := mustCard(t, handle(t, svc, "clean")[0])
	if got := pets.FromDocument(repo.doc(conv)).Hygiene; got != 100 {
		t.Fatalf("expected hygiene 100, got %d", got)
	}
	if card.Image.PoopVisible {
		t.Fatalf("clean pet must not show poop")
	}
}

func TestHandle_Set(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.put(conv, named("fox", "Sunny"))

	if got := mustText(t, handle(t, svc, "set hunger 150")[0]).Body; got != "hunger set to 150" {
		t.Fatalf("unexpected reply %q", got)
	}
	if v, ok := repo.doc(conv)["hunger"].(int); !ok || v != 150 {
		t.Fatalf("expected raw int 150, got %#v", repo.doc(conv)["hunger"])
	}

	handle(t, svc, "set mood sleepy")
	if v := repo.doc(conv)["mood"]; v != "sleepy" {
		t.Fatalf("expected string field, got %#v", v)
	}

	handle(t, svc, "set name null")
	if v, ok := repo.doc(conv)["name"]; !ok || v != nil {
		t.Fatalf("expected literal null, got %#v", v)
	}

	before := repo.writeCount()
	for _, in := range []string{"set", "set hunger", "set hunger 1 2"} {
		// "set name null" dejó el nombre vacío: restaurarlo para no caer en captura
		repo.put(conv, named("fox", "Sunny"))
		if got := mustText(t, handle(t, svc, in)[0]).Body; got != textSetUsage {
			t.Fatalf("%q: unexpected reply %q", in, got)
		}
	}
	if repo.writeCount() != before {
		t.Fatalf("set usage must not write")
	}
}

func TestHandle_LazyEscape(t *testing.T) {
	svc, repo, _ := newTestService(t)
	rec := named("fox", "Sunny")
	rec.Hunger = 0
	repo.put(conv, rec)

	msgs := handle(t, svc, "feed 🍗")

	card := mustCard(t, msgs[0])
	if !card.Image.Escaped || len(card.Suggestions) != 1 || card.Suggestions[0].Postback != reply.PostbackStart {
		t.Fatalf("unexpected escaped card %#v", card)
	}
	got := pets.FromDocument(repo.doc(conv))
	if !got.RanAway || got.Hunger != 0 {
		t.Fatalf("expected ranAway flag and no feeding, got %#v", got)
	}

	// re-adopción permitida
	msgs = handle(t, svc, "start")
	if _, ok := msgs[1].(reply.Carousel); !ok || mustText(t, msgs[0]).Body != textWelcomeBack {
		t.Fatalf("unexpected onboarding %#v", msgs)
	}
	handle(t, svc, "choosepet slime")
	got = pets.FromDocument(repo.doc(conv))
	if got.Species != "slime" || got.RanAway || got.Hunger != 80 || got.Name != "" {
		t.Fatalf("expected fresh adoption, got %#v", got)
	}
}

func TestHandle_StatusHelpCreditsUnknown(t *testing.T) {
	svc, repo, _ := newTestService(t)
	rec := named("fox", "Sunny")
	rec.Hunger = 40
	repo.put(conv, rec)

	card := mustCard(t, handle(t, svc, "  STATUS ")[0])
	if card.Image.Mood != pets.MoodHungry || !strings.Contains(card.Description, "hungry") {
		t.Fatalf("unexpected status card %#v", card)
	}
	if got := mustText(t, handle(t, svc, "help")[0]).Body; got != textHelp {
		t.Fatalf("unexpected help %q", got)
	}
	if got := mustText(t, handle(t, svc, "credits")[0]).Body; got != textCredits {
		t.Fatalf("unexpected credits %q", got)
	}
	if got := mustText(t, handle(t, svc, "dance")[0]).Body; got != textUnknown {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestHandle_EmptyConversation(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Handle(context.Background(), Inbound{Text: "start"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProcess_SendsEveryMessage(t *testing.T) {
	svc, _, sender := newTestService(t)

	svc.Process(context.Background(), Inbound{ConversationID: conv, Text: "start"})

	out := sender.messages()
	if len(out) != 2 || out[0].conversationID != conv {
		t.Fatalf("unexpected sent messages %#v", out)
	}
}

func TestProcess_SendFailureKeepsState(t *testing.T) {
	svc, repo, sender := newTestService(t)
	sender.fail = errors.New("unavailable")

	svc.Dispatch(context.Background(), Inbound{ConversationID: conv, Text: "choosepet owl"})
	svc.Wait()

	if pets.FromDocument(repo.doc(conv)).Species != "owl" {
		t.Fatalf("mutation must persist even if the reply is dropped")
	}
	if len(sender.messages()) != 0 {
		t.Fatalf("expected no delivered messages")
	}
}

func TestCoerceValue(t *testing.T) {
	if v := CoerceValue("100"); v != 100 {
		t.Fatalf("expected int, got %#v", v)
	}
	if v := CoerceValue("null"); v != nil {
		t.Fatalf("expected nil, got %#v", v)
	}
	if v := CoerceValue("-3"); v != -3 {
		t.Fatalf("expected -3, got %#v", v)
	}
	if v := CoerceValue("blue"); v != "blue" {
		t.Fatalf("expected string, got %#v", v)
	}
}

func TestParse(t *testing.T) {
	cmd := Parse("  Feed   🍗  ")
	if cmd.Key != "feed" || cmd.Arg(0) != "🍗" || cmd.Arg(1) != "" || cmd.Raw != "  Feed   🍗  " {
		t.Fatalf("unexpected parse %#v", cmd)
	}
	if Parse("   ").Key != "" {
		t.Fatalf("blank input must have no key")
	}
}
