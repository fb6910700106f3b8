package reply

import (
	"net/url"
	"strings"
	"testing"

	"petbot/internal/domain/pets"
)

func TestImageFor_NilUsesDefaults(t *testing.T) {
	got := ImageFor(nil)
	want := ImageRequest{Room: "bedroom", Species: "pokpok", Color: "blue", Mood: pets.MoodNormal}
	if got != want {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestImageFor_DerivesMoodPoopAndEscape(t *testing.T) {
	r := pets.Record{Species: "fox", Color: "orange", Room: "kitchen", Hunger: 0, Hygiene: 70, Happiness: 90}
	got := ImageFor(&r)

	if got.Room != "kitchen" || got.Species != "fox" || got.Color != "orange" {
		t.Fatalf("unexpected identity fields: %#v", got)
	}
	if got.Mood != pets.MoodHungry {
		t.Fatalf("expected hungry, got %s", got.Mood)
	}
	if !got.PoopVisible {
		t.Fatalf("expected poop visible with hygiene 70")
	}
	if !got.Escaped {
		t.Fatalf("expected escaped with hunger 0")
	}
}

func TestImageFor_RanAwayFlagWins(t *testing.T) {
	r := pets.Record{Species: "fox", Hunger: 90, Hygiene: 90, Happiness: 90, RanAway: true}
	if !ImageFor(&r).Escaped {
		t.Fatalf("expected escaped when ranAway is set")
	}
}

func TestImageRequest_QueryRoundTrip(t *testing.T) {
	req := ImageRequest{Room: "bedroom", Species: "slime", Color: "green", Mood: pets.MoodBored, PoopVisible: true}
	q := req.Query()

	if q.Get("state") != "bored" || q.Get("poop") != "true" || q.Get("escaped") != "false" {
		t.Fatalf("unexpected query: %s", q.Encode())
	}
	if got := ParseImageQuery(q); got != req {
		t.Fatalf("expected %#v, got %#v", req, got)
	}
}

func TestParseImageQuery_MissingFieldsDefault(t *testing.T) {
	got := ParseImageQuery(url.Values{})
	if got != DefaultImage() {
		t.Fatalf("expected default image, got %#v", got)
	}
}

func TestSuggestions(t *testing.T) {
	escaped := Suggestions(true)
	if len(escaped) != 1 || escaped[0].Postback != PostbackStart {
		t.Fatalf("expected single adopt-again suggestion, got %#v", escaped)
	}

	normal := Suggestions(false)
	got := []string{}
	for _, s := range normal {
		got = append(got, s.Postback)
	}
	if strings.Join(got, ",") != "feed,clean,play" {
		t.Fatalf("expected feed,clean,play, got %v", got)
	}
}

func TestBuilder_StatusCard(t *testing.T) {
	b := NewBuilder("https://pets.example.com/")
	r := pets.Record{Species: "pokpok", Color: "pink", Room: "bedroom", Hunger: 85, Hygiene: 90, Happiness: 95}

	card := b.Status("hi", r)
	if card.Fallback() != "hi" {
		t.Fatalf("expected fallback to be description")
	}
	if card.Image.Mood != pets.MoodHappy {
		t.Fatalf("expected happy, got %s", card.Image.Mood)
	}
	if !strings.HasPrefix(card.ImageURL, "https://pets.example.com/image.png?") {
		t.Fatalf("unexpected image url %s", card.ImageURL)
	}
	if len(card.Suggestions) != 3 {
		t.Fatalf("expected default triad, got %#v", card.Suggestions)
	}
}

func TestBuilder_CarouselOneTilePerSpecies(t *testing.T) {
	cat, err := pets.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	c := NewBuilder("http://localhost:8080").Carousel(cat)

	if len(c.Tiles) != len(cat.Species()) {
		t.Fatalf("expected %d tiles, got %d", len(cat.Species()), len(c.Tiles))
	}
	first := c.Tiles[0]
	if first.Suggestion.Postback != "choosepet pokpok" {
		t.Fatalf("unexpected postback %q", first.Suggestion.Postback)
	}
	if first.Description != "Adopt a Pokpok!" || first.Suggestion.Text != "Choose Pokpok" {
		t.Fatalf("unexpected tile %#v", first)
	}
	if first.Image.Species != "pokpok" || first.Image.Mood != pets.MoodHappy {
		t.Fatalf("unexpected preview image %#v", first.Image)
	}
	if c.Fallback() != "Pet List" {
		t.Fatalf("unexpected carousel fallback %q", c.Fallback())
	}
}
