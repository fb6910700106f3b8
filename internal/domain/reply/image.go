package reply

import (
	"net/url"
	"strconv"
	"strings"

	"petbot/internal/domain/pets"
)

// Defaults cuando falta el registro o un campo.
const (
	DefaultRoom    = pets.DefaultRoom
	DefaultSpecies = "pokpok"
	DefaultColor   = "blue"
)

// ImageRequest describe qué tiene que dibujar el renderer.
type ImageRequest struct {
	Room        string
	Species     string
	Color       string
	Mood        pets.Mood
	PoopVisible bool
	Escaped     bool
}

// DefaultImage es la imagen sin registro (bedroom/pokpok/blue/normal).
func DefaultImage() ImageRequest {
	return ImageFor(nil)
}

// ImageFor arma el pedido de imagen para un registro; nil = defaults.
func ImageFor(r *pets.Record) ImageRequest {
	if r == nil {
		return ImageRequest{
			Room:    DefaultRoom,
			Species: DefaultSpecies,
			Color:   DefaultColor,
			Mood:    pets.MoodNormal,
		}
	}
	st := pets.Evaluate(*r)
	return ImageRequest{
		Room:        orDefault(r.Room, DefaultRoom),
		Species:     orDefault(string(r.Species), DefaultSpecies),
		Color:       orDefault(r.Color, DefaultColor),
		Mood:        st.Mood,
		PoopVisible: st.PoopVisible,
		Escaped:     r.RanAway || st.Escaped,
	}
}

// Query serializa el pedido como query string de /image.png.
// El mood viaja como "state" (nombre histórico del parámetro).
func (req ImageRequest) Query() url.Values {
	q := url.Values{}
	q.Set("room", req.Room)
	q.Set("species", req.Species)
	q.Set("color", req.Color)
	q.Set("state", string(req.Mood))
	q.Set("poop", strconv.FormatBool(req.PoopVisible))
	q.Set("escaped", strconv.FormatBool(req.Escaped))
	return q
}

// ParseImageQuery es la inversa de Query; lo ausente toma default.
func ParseImageQuery(q url.Values) ImageRequest {
	return ImageRequest{
		Room:        orDefault(q.Get("room"), DefaultRoom),
		Species:     orDefault(q.Get("species"), DefaultSpecies),
		Color:       orDefault(q.Get("color"), DefaultColor),
		Mood:        pets.Mood(orDefault(q.Get("state"), string(pets.MoodNormal))),
		PoopVisible: q.Get("poop") == "true",
		Escaped:     q.Get("escaped") == "true",
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
