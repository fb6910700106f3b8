package pets

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed catalog.toml
var defaultCatalogTOML []byte

// SpeciesInfo describe una especie adoptable.
type SpeciesInfo struct {
	Key          Species  `toml:"key"`
	Name         string   `toml:"name"`
	Colors       []string `toml:"colors"`        // variantes sorteadas al adoptar
	DefaultColor string   `toml:"default_color"` // si no hay variantes
}

// Item es una comida o un juego. Min/Max en 0 = rango uniforme.
type Item struct {
	Token string `toml:"token"`
	Min   int    `toml:"min"`
	Max   int    `toml:"max"`
}

// HasRange indica si el item trae su propio rango de efecto.
func (i Item) HasRange() bool {
	return i.Min > 0 && i.Max >= i.Min
}

type catalogFile struct {
	DefaultColor string        `toml:"default_color"`
	Species      []SpeciesInfo `toml:"species"`
	Foods        []Item        `toml:"foods"`
	Games        []Item        `toml:"games"`
}

// Catalog es inmutable después de construido; se inyecta donde haga falta.
type Catalog struct {
	defaultColor string

	species []SpeciesInfo
	byKey   map[Species]SpeciesInfo

	foods []Item
	games []Item
	food  map[string]Item
	game  map[string]Item
}

// DefaultCatalog parsea el catálogo embebido.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogTOML)
}

// LoadCatalog lee un catálogo TOML de disco. path vacío = embebido.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if len(f.Species) == 0 {
		return nil, fmt.Errorf("%w: catalog has no species", ErrInvalidInput)
	}
	// el menú de feed/play ofrece 3 opciones distintas
	if len(f.Foods) < 3 || len(f.Games) < 3 {
		return nil, fmt.Errorf("%w: catalog needs at least 3 foods and 3 games", ErrInvalidInput)
	}

	c := &Catalog{
		defaultColor: strings.TrimSpace(f.DefaultColor),
		byKey:        map[Species]SpeciesInfo{},
		food:         map[string]Item{},
		game:         map[string]Item{},
	}
	if c.defaultColor == "" {
		c.defaultColor = "blue"
	}

	for _, s := range f.Species {
		s.Key = Species(strings.ToLower(strings.TrimSpace(string(s.Key))))
		if s.Key == "" {
			return nil, fmt.Errorf("%w: species without key", ErrInvalidInput)
		}
		if _, dup := c.byKey[s.Key]; dup {
			return nil, fmt.Errorf("%w: duplicated species %q", ErrInvalidInput, s.Key)
		}
		if strings.TrimSpace(s.Name) == "" {
			s.Name = string(s.Key)
		}
		if s.DefaultColor == "" {
			s.DefaultColor = c.defaultColor
		}
		c.byKey[s.Key] = s
		c.species = append(c.species, s)
	}

	var err error
	if c.foods, err = indexItems(f.Foods, c.food); err != nil {
		return nil, err
	}
	if c.games, err = indexItems(f.Games, c.game); err != nil {
		return nil, err
	}
	return c, nil
}

func indexItems(in []Item, idx map[string]Item) ([]Item, error) {
	out := make([]Item, 0, len(in))
	for _, it := range in {
		it.Token = strings.TrimSpace(it.Token)
		if it.Token == "" {
			return nil, fmt.Errorf("%w: item without token", ErrInvalidInput)
		}
		if _, dup := idx[it.Token]; dup {
			return nil, fmt.Errorf("%w: duplicated item %q", ErrInvalidInput, it.Token)
		}
		idx[it.Token] = it
		out = append(out, it)
	}
	return out, nil
}

func (c *Catalog) DefaultColor() string { return c.defaultColor }

// Species devuelve las especies en el orden del archivo (orden del carrusel).
func (c *Catalog) Species() []SpeciesInfo {
	out := make([]SpeciesInfo, len(c.species))
	copy(out, c.species)
	return out
}

func (c *Catalog) Lookup(key Species) (SpeciesInfo, bool) {
	s, ok := c.byKey[key]
	return s, ok
}

func (c *Catalog) Foods() []Item { return append([]Item(nil), c.foods...) }
func (c *Catalog) Games() []Item { return append([]Item(nil), c.games...) }

func (c *Catalog) Food(token string) (Item, bool) {
	it, ok := c.food[token]
	return it, ok
}

func (c *Catalog) Game(token string) (Item, bool) {
	it, ok := c.game[token]
	return it, ok
}

// PickColor sortea una variante; intn(n) devuelve [0,n).
func (s SpeciesInfo) PickColor(intn func(int) int) string {
	if len(s.Colors) == 0 {
		return s.DefaultColor
	}
	return s.Colors[intn(len(s.Colors))]
}

// Sample elige k items distintos (sin reemplazo).
func Sample(items []Item, k int, intn func(int) int) []Item {
	pool := append([]Item(nil), items...)
	if k > len(pool) {
		k = len(pool)
	}
	out := make([]Item, 0, k)
	for i := 0; i < k; i++ {
		j := i + intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, pool[i])
	}
	return out
}
