package reply

import (
	"fmt"
	"strings"

	"petbot/internal/domain/pets"
)

// Postbacks de las sugerencias. Coinciden con los comandos del chat.
const (
	PostbackStart = "start"
	PostbackFeed  = "feed"
	PostbackClean = "clean"
	PostbackPlay  = "play"

	ImagePath = "/image.png"
)

// Suggestions deriva los quick replies del contexto: una mascota escapada
// solo ofrece adoptar de nuevo; si no, el trío feed/clean/play.
func Suggestions(escaped bool) []Suggestion {
	if escaped {
		return []Suggestion{{Text: "Adopt again", Postback: PostbackStart}}
	}
	return []Suggestion{
		{Text: "Feed", Postback: PostbackFeed},
		{Text: "Clean", Postback: PostbackClean},
		{Text: "Play", Postback: PostbackPlay},
	}
}

// Builder resuelve pedidos de imagen a URLs públicas.
type Builder struct {
	baseURL string
}

// NewBuilder recibe la URL pública del servicio (ej: https://pets.example.com).
func NewBuilder(baseURL string) Builder {
	return Builder{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// ImageURL arma la URL de /image.png para el pedido.
func (b Builder) ImageURL(req ImageRequest) string {
	return b.baseURL + ImagePath + "?" + req.Query().Encode()
}

// Status arma la card de estado para un registro ya actualizado.
func (b Builder) Status(description string, r pets.Record) StatusCard {
	img := ImageFor(&r)
	return StatusCard{
		Description: description,
		Image:       img,
		ImageURL:    b.ImageURL(img),
		Suggestions: Suggestions(img.Escaped),
	}
}

// Carousel arma una tile por especie adoptable, en el orden del catálogo.
func (b Builder) Carousel(cat *pets.Catalog) Carousel {
	species := cat.Species()
	tiles := make([]Tile, 0, len(species))
	for _, s := range species {
		img := PreviewImage(s)
		tiles = append(tiles, Tile{
			Title:       s.Name,
			Description: fmt.Sprintf("Adopt a %s!", s.Name),
			Suggestion: Suggestion{
				Text:     "Choose " + s.Name,
				Postback: "choosepet " + string(s.Key),
			},
			Image:    img,
			ImageURL: b.ImageURL(img),
		})
	}
	return Carousel{Tiles: tiles}
}

// PreviewImage es la imagen de vidriera de una especie: feliz, sin caca,
// con su primera variante (determinística).
func PreviewImage(s pets.SpeciesInfo) ImageRequest {
	color := s.DefaultColor
	if len(s.Colors) > 0 {
		color = s.Colors[0]
	}
	return ImageRequest{
		Room:    DefaultRoom,
		Species: string(s.Key),
		Color:   orDefault(color, DefaultColor),
		Mood:    pets.MoodHappy,
	}
}
