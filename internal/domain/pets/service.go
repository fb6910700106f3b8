package pets

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	ErrUnknownSpecies = errors.New("unknown species")
)

// Service agrupa las escrituras del dominio sobre el Repository.
// Cada método toca exactamente los campos que nombra (una llamada al store).
type Service struct {
	repo    Repository
	catalog *Catalog
	intn    func(n int) int
}

func NewService(repo Repository, catalog *Catalog) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		intn:    rand.IntN,
	}
}

func (s *Service) Catalog() *Catalog { return s.catalog }

// Get devuelve (registro, existe, error). La ausencia no es error: es el
// estado "nunca adoptó".
func (s *Service) Get(ctx context.Context, id string) (Record, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, false, ErrInvalidInput
	}
	r, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return r, true, nil
}

func (s *Service) List(ctx context.Context) (map[string]Record, error) {
	return s.repo.List(ctx)
}

// Adopt resetea el registro completo con la especie elegida y un color
// sorteado (si la especie tiene variantes). El nombre queda vacío.
func (s *Service) Adopt(ctx context.Context, id string, species Species) (Record, error) {
	info, ok := s.catalog.Lookup(species)
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownSpecies, species)
	}
	r := NewAdoption(info.Key, info.PickColor(s.intn))
	if err := s.repo.Set(ctx, id, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (s *Service) Name(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidInput
	}
	return s.repo.Update(ctx, id, SetName(name))
}

func (s *Service) MarkRanAway(ctx context.Context, id string) error {
	return s.repo.Update(ctx, id, SetRanAway(true))
}

// SetStat escribe una stat de gameplay ya clampeada.
func (s *Service) SetStat(ctx context.Context, id, field string, value int) (int, error) {
	value = Clamp(value)
	var p Patch
	switch field {
	case FieldHunger:
		p = SetHunger(value)
	case FieldHygiene:
		p = SetHygiene(value)
	case FieldHappiness:
		p = SetHappiness(value)
	default:
		return 0, fmt.Errorf("%w: %q is not a stat", ErrInvalidInput, field)
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return 0, err
	}
	return value, nil
}

// Override es el escape hatch de debug: sin whitelist, sin clamp.
func (s *Service) Override(ctx context.Context, id, field string, value any) error {
	field = strings.TrimSpace(field)
	if field == "" {
		return ErrInvalidInput
	}
	return s.repo.Override(ctx, id, field, value)
}
