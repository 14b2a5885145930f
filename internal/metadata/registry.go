// Package metadata is the media-record collaborator. The core only ever
// creates a record at mint time and rewrites its URI afterwards; everything
// else about media is out of scope.
package metadata

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"genetix/internal/repository"
)

var ErrRecordNotFound = errors.New("metadata record not found")

type Record struct {
	CreatureID uuid.UUID `db:"creature_id"`
	Name       string    `db:"name"`
	URI        string    `db:"uri"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type Registry struct {
	db repository.ExtHandle
}

func New(db repository.ExtHandle) *Registry {
	return &Registry{db: db}
}

func (r *Registry) CreateRecord(creatureID uuid.UUID, name, uri string) error {
	query := `
		INSERT INTO metadata_records (creature_id, name, uri, updated_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.Exec(query, creatureID, name, uri)
	return err
}

func (r *Registry) UpdateRecord(creatureID uuid.UUID, uri string) error {
	query := `UPDATE metadata_records SET uri = $1, updated_at = NOW() WHERE creature_id = $2`

	res, err := r.db.Exec(query, uri, creatureID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *Registry) FindRecord(creatureID uuid.UUID) (*Record, error) {
	query := `SELECT creature_id, name, uri, updated_at FROM metadata_records WHERE creature_id = $1`

	record := &Record{}
	err := r.db.Get(record, query, creatureID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}
