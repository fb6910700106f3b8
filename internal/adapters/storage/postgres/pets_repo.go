package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"petbot/internal/domain/pets"
)

// PetsRepo guarda cada registro como un documento JSONB.
// Update/Override mergean con "||" en una sola sentencia.
type PetsRepo struct {
	db *sql.DB
}

var _ pets.Repository = (*PetsRepo)(nil)

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Get(ctx context.Context, id string) (pets.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Record{}, pets.ErrNotFound
	}

	var raw []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT doc FROM pet_records WHERE conversation_id = $1
	`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Record{}, pets.ErrNotFound
		}
		return pets.Record{}, err
	}
	return pets.DecodeDocument(raw)
}

func (r *PetsRepo) List(ctx context.Context) (map[string]pets.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT conversation_id, doc FROM pet_records
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]pets.Record{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		rec, err := pets.DecodeDocument(raw)
		if err != nil {
			return nil, err
		}
		out[id] = rec
	}
	return out, rows.Err()
}

func (r *PetsRepo) Set(ctx context.Context, id string, rec pets.Record) error {
	if strings.TrimSpace(id) == "" {
		return pets.ErrInvalidInput
	}
	raw, err := pets.EncodeDocument(rec.Document())
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pet_records (conversation_id, doc, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (conversation_id) DO UPDATE
		SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
	`, id, string(raw))
	return err
}

func (r *PetsRepo) Update(ctx context.Context, id string, p pets.Patch) error {
	return r.merge(ctx, id, p.Fields())
}

func (r *PetsRepo) Override(ctx context.Context, id, field string, value any) error {
	if strings.TrimSpace(field) == "" {
		return pets.ErrInvalidInput
	}
	return r.merge(ctx, id, pets.Document{field: value})
}

func (r *PetsRepo) merge(ctx context.Context, id string, fields pets.Document) error {
	if strings.TrimSpace(id) == "" {
		return pets.ErrInvalidInput
	}
	if len(fields) == 0 {
		return nil
	}
	raw, err := pets.EncodeDocument(fields)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pet_records (conversation_id, doc, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (conversation_id) DO UPDATE
		SET doc = pet_records.doc || EXCLUDED.doc, updated_at = EXCLUDED.updated_at
	`, id, string(raw))
	return err
}
