// Package reply traduce decisiones del motor a mensajes salientes y a
// pedidos de imagen. No sabe nada del transporte.
package reply

// Message es una unión cerrada: Text, Prompt, StatusCard o Carousel.
// Cada forma lleva solo sus campos requeridos.
type Message interface {
	// Fallback es el texto para clientes sin rich cards.
	Fallback() string
	isMessage()
}

// Suggestion es un quick reply: Text se muestra, Postback vuelve como comando.
type Suggestion struct {
	Text     string
	Postback string
}

// Text es texto plano.
type Text struct {
	Body string
}

// Prompt es texto con quick replies.
type Prompt struct {
	Body        string
	Suggestions []Suggestion
}

// StatusCard es una standalone card con la imagen de estado de la mascota.
type StatusCard struct {
	Description string
	Image       ImageRequest
	ImageURL    string
	Suggestions []Suggestion
}

// Tile es una tarjeta del carrusel de adopción.
type Tile struct {
	Title       string
	Description string
	Suggestion  Suggestion
	Image       ImageRequest
	ImageURL    string
}

// Carousel es el carrusel de especies adoptables.
type Carousel struct {
	Tiles []Tile
}

func (m Text) Fallback() string       { return m.Body }
func (m Prompt) Fallback() string     { return m.Body }
func (m StatusCard) Fallback() string { return m.Description }
func (m Carousel) Fallback() string   { return "Pet List" }

func (Text) isMessage()       {}
func (Prompt) isMessage()     {}
func (StatusCard) isMessage() {}
func (Carousel) isMessage()   {}
