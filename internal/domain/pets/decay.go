package pets

// DecayPatch baja cada stat mantenida en step, con piso 0.
// Stats ya en 0 no se tocan, así que aplicarlo de nuevo es un no-op.
func DecayPatch(r Record, step int) Patch {
	var p Patch
	if step <= 0 {
		return p
	}
	if r.Hunger > 0 {
		v := floor(r.Hunger - step)
		p.Hunger = &v
	}
	if r.Happiness > 0 {
		v := floor(r.Happiness - step)
		p.Happiness = &v
	}
	if r.Hygiene > 0 {
		v := floor(r.Hygiene - step)
		p.Hygiene = &v
	}
	return p
}

func floor(v int) int {
	if v < StatMin {
		return StatMin
	}
	return v
}
