package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"petbot/internal/domain/pets"
)

// PetsRepo guarda cada registro como documento JSON en una columna TEXT.
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

	var raw string
	err := r.db.QueryRowContext(ctx, `
		SELECT doc FROM pet_records WHERE conversation_id = ?
	`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Record{}, pets.ErrNotFound
		}
		return pets.Record{}, err
	}
	return pets.DecodeDocument([]byte(raw))
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
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		rec, err := pets.DecodeDocument([]byte(raw))
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
	return upsert(ctx, r.db, id, raw)
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

// merge lee, mergea en Go y reescribe dentro de una transacción.
// Con una sola conexión abierta no hay writers concurrentes.
func (r *PetsRepo) merge(ctx context.Context, id string, fields pets.Document) error {
	if strings.TrimSpace(id) == "" {
		return pets.ErrInvalidInput
	}
	if len(fields) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `
		SELECT doc FROM pet_records WHERE conversation_id = ?
	`, id).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	doc, err := pets.ParseDocument([]byte(current))
	if err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	raw, err := pets.EncodeDocument(doc)
	if err != nil {
		return err
	}
	if err := upsert(ctx, tx, id, raw); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, id string, raw []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO pet_records (conversation_id, doc, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (conversation_id) DO UPDATE
		SET doc = excluded.doc, updated_at = excluded.updated_at
	`, id, string(raw), time.Now().UTC())
	return err
}
