package pets

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// Document es la forma persistida de un registro: un objeto JSON plano.
// Los stores no validan esquema; el motor decodifica de forma tolerante.
type Document map[string]any

// Document serializa el registro completo (incluye Extra).
func (r Record) Document() Document {
	doc := Document{}
	for k, v := range r.Extra {
		doc[k] = v
	}
	doc[FieldSpecies] = string(r.Species)
	doc[FieldColor] = r.Color
	doc[FieldName] = r.Name
	doc[FieldRoom] = r.Room
	doc[FieldHunger] = r.Hunger
	doc[FieldHygiene] = r.Hygiene
	doc[FieldHappiness] = r.Happiness
	doc[FieldRanAway] = r.RanAway
	return doc
}

// Fields devuelve solo los campos tocados por el patch.
func (p Patch) Fields() Document {
	out := Document{}
	if p.Species != nil {
		out[FieldSpecies] = string(*p.Species)
	}
	if p.Color != nil {
		out[FieldColor] = *p.Color
	}
	if p.Name != nil {
		out[FieldName] = *p.Name
	}
	if p.Room != nil {
		out[FieldRoom] = *p.Room
	}
	if p.Hunger != nil {
		out[FieldHunger] = *p.Hunger
	}
	if p.Hygiene != nil {
		out[FieldHygiene] = *p.Hygiene
	}
	if p.Happiness != nil {
		out[FieldHappiness] = *p.Happiness
	}
	if p.RanAway != nil {
		out[FieldRanAway] = *p.RanAway
	}
	return out
}

// FromDocument decodifica sin fallar: campos ausentes, null o de tipo
// incorrecto quedan en su valor cero.
func FromDocument(doc Document) Record {
	var r Record
	for k, v := range doc {
		switch k {
		case FieldSpecies:
			r.Species = Species(asString(v))
		case FieldColor:
			r.Color = asString(v)
		case FieldName:
			r.Name = asString(v)
		case FieldRoom:
			r.Room = asString(v)
		case FieldHunger:
			r.Hunger = asInt(v)
		case FieldHygiene:
			r.Hygiene = asInt(v)
		case FieldHappiness:
			r.Happiness = asInt(v)
		case FieldRanAway:
			r.RanAway = asBool(v)
		default:
			if r.Extra == nil {
				r.Extra = map[string]any{}
			}
			r.Extra[k] = v
		}
	}
	return r
}

// EncodeDocument serializa un documento (o un patch) para los stores SQL.
func EncodeDocument(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode pet document: %w", err)
	}
	return raw, nil
}

// DecodeDocument parsea el JSON guardado por los stores SQL.
func DecodeDocument(raw []byte) (Record, error) {
	doc, err := ParseDocument(raw)
	if err != nil {
		return Record{}, err
	}
	return FromDocument(doc), nil
}

// ParseDocument parsea sin interpretar (los stores lo usan para mergear).
func ParseDocument(raw []byte) (Document, error) {
	doc := Document{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	// UseNumber: enteros grandes escritos por override no pierden precisión.
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode pet document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		// set name 42 guarda un número; lo mostramos tal cual.
		return fmt.Sprint(t)
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return int(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return asInt(f)
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	default:
		return asInt(v) != 0
	}
}
