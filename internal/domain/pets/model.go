package pets

// Species identifica una criatura adoptable del catálogo.
// Vacío = todavía no adoptó.
type Species string

// Mood es el estado de ánimo derivado de las stats.
// @Enum happy, hungry, angry, bored, normal
type Mood string

const (
	MoodHappy  Mood = "happy"
	MoodHungry Mood = "hungry"
	MoodAngry  Mood = "angry"
	MoodBored  Mood = "bored"
	MoodNormal Mood = "normal"
)

const (
	StatMin = 0
	StatMax = 100

	// Valores iniciales al adoptar.
	InitialStat = 80
	DefaultRoom = "bedroom"
)

// Nombres de campos tal como se guardan en el documento.
const (
	FieldSpecies   = "species"
	FieldColor     = "color"
	FieldName      = "name"
	FieldRoom      = "room"
	FieldHunger    = "hunger"
	FieldHygiene   = "hygiene"
	FieldHappiness = "happiness"
	FieldRanAway   = "ranAway"
)

// Record es el estado persistido de la mascota de una conversación.
type Record struct {
	Species Species
	Color   string
	Name    string
	Room    string

	Hunger    int
	Hygiene   int
	Happiness int

	RanAway bool

	// Extra guarda claves desconocidas del documento (escritas vía override).
	Extra map[string]any
}

// Adopted indica si el registro ya tiene especie.
func (r Record) Adopted() bool {
	return r.Species != ""
}

// NewAdoption arma el registro inicial para una adopción (reset completo).
func NewAdoption(species Species, color string) Record {
	return Record{
		Species:   species,
		Color:     color,
		Name:      "",
		Room:      DefaultRoom,
		Hunger:    InitialStat,
		Hygiene:   InitialStat,
		Happiness: InitialStat,
		RanAway:   false,
	}
}

// Patch es una actualización parcial tipada: nil = no tocar.
type Patch struct {
	Species *Species
	Color   *string
	Name    *string
	Room    *string

	Hunger    *int
	Hygiene   *int
	Happiness *int

	RanAway *bool
}

// IsEmpty indica si el patch no toca ningún campo.
func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Apply devuelve una copia de r con el patch aplicado.
func (p Patch) Apply(r Record) Record {
	if p.Species != nil {
		r.Species = *p.Species
	}
	if p.Color != nil {
		r.Color = *p.Color
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Room != nil {
		r.Room = *p.Room
	}
	if p.Hunger != nil {
		r.Hunger = *p.Hunger
	}
	if p.Hygiene != nil {
		r.Hygiene = *p.Hygiene
	}
	if p.Happiness != nil {
		r.Happiness = *p.Happiness
	}
	if p.RanAway != nil {
		r.RanAway = *p.RanAway
	}
	return r
}

// Clamp limita una stat a [StatMin, StatMax].
func Clamp(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

// Helpers para armar patches sin variables temporales.

func SetHunger(v int) Patch    { return Patch{Hunger: &v} }
func SetHygiene(v int) Patch   { return Patch{Hygiene: &v} }
func SetHappiness(v int) Patch { return Patch{Happiness: &v} }
func SetName(v string) Patch   { return Patch{Name: &v} }
func SetRanAway(v bool) Patch  { return Patch{RanAway: &v} }
