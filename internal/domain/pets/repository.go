package pets

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repository es el store de registros, uno por conversación.
// Sin transacciones: last-write-wins por campo.
type Repository interface {
	// Get devuelve ErrNotFound si la conversación nunca adoptó.
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context) (map[string]Record, error)

	// Set sobrescribe el documento completo (adopción).
	Set(ctx context.Context, id string, r Record) error
	// Update mergea solo los campos presentes en el patch.
	Update(ctx context.Context, id string, p Patch) error

	// Override es el camino admin: escribe field=value sin whitelist ni
	// validación. value puede ser int, string o nil.
	Override(ctx context.Context, id string, field string, value any) error
}
