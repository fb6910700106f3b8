package pets

// State es lo derivado de las stats de un registro.
type State struct {
	Mood        Mood
	Escaped     bool
	PoopVisible bool
}

// Evaluate es puro y total: cualquier registro (incluso vacío) tiene estado.
func Evaluate(r Record) State {
	return State{
		Mood:        moodOf(r),
		Escaped:     r.Hunger == 0 || r.Happiness == 0,
		PoopVisible: r.Hygiene < 80,
	}
}

// Gone indica si la mascota se escapó: ya marcada o con una stat vital en 0.
func Gone(r Record) bool {
	return r.RanAway || Evaluate(r).Escaped
}

// moodOf respeta el orden de prioridad (gana el primero que matchea).
func moodOf(r Record) Mood {
	switch {
	case r.Hunger >= 80 && r.Hygiene >= 80 && r.Happiness > 80:
		return MoodHappy
	case r.Hunger < 50:
		return MoodHungry
	case r.Hygiene < 50:
		return MoodAngry
	case r.Happiness < 50:
		return MoodBored
	default:
		return MoodNormal
	}
}
