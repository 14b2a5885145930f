package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"genetix/internal/domain"
)

var (
	ErrTrainerNotFound = errors.New("trainer not found")
	ErrTrainerExists   = errors.New("trainer already exists")
)

type TrainerRepository struct {
	db ExtHandle
}

func NewTrainerRepository(db ExtHandle) *TrainerRepository {
	return &TrainerRepository{db: db}
}

func (r *TrainerRepository) Create(trainer *domain.Trainer) error {
	query := `
		INSERT INTO trainers (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(query,
		trainer.Username, trainer.Email, trainer.Password,
	).Scan(&trainer.ID, &trainer.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrTrainerExists
		}
		return err
	}
	return nil
}

func (r *TrainerRepository) FindByID(id uuid.UUID) (*domain.Trainer, error) {
	query := `
		SELECT id, created_at, username, email, password
		FROM trainers
		WHERE id = $1
	`

	trainer := &domain.Trainer{}
	err := r.db.Get(trainer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	return trainer, nil
}

func (r *TrainerRepository) FindByUsername(username string) (*domain.Trainer, error) {
	query := `
		SELECT id, created_at, username, email, password
		FROM trainers
		WHERE username = $1
	`

	trainer := &domain.Trainer{}
	err := r.db.Get(trainer, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	return trainer, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "23505") ||
		strings.Contains(errStr, "unique constraint") ||
		strings.Contains(errStr, "duplicate key")
}
