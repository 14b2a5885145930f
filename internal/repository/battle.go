package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"genetix/internal/domain"
)

var (
	ErrBattleNotFound = errors.New("battle not found")
	ErrBattleExists   = errors.New("battle already exists")
)

const battleColumns = `id, battle_id, player1, player2, creature1, creature2,
	stake, fee_amount, status, winner, created_at, resolved_at`

type BattleRepository struct {
	db ExtHandle
}

func NewBattleRepository(db ExtHandle) *BattleRepository {
	return &BattleRepository{db: db}
}

func (r *BattleRepository) Create(battle *domain.Battle) error {
	query := `
		INSERT INTO battles (battle_id, player1, creature1, stake, fee_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(query,
		battle.BattleID, battle.Player1, battle.Creature1,
		battle.Stake, battle.FeeAmount, battle.Status,
	).Scan(&battle.ID, &battle.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrBattleExists
		}
		return err
	}
	return nil
}

func (r *BattleRepository) FindByBattleID(battleID uint64) (*domain.Battle, error) {
	query := `SELECT ` + battleColumns + ` FROM battles WHERE battle_id = $1`
	return r.find(query, battleID)
}

// FindByBattleIDForUpdate locks the record for the duration of a state
// transition so join and resolve on the same battle serialize.
func (r *BattleRepository) FindByBattleIDForUpdate(battleID uint64) (*domain.Battle, error) {
	query := `SELECT ` + battleColumns + ` FROM battles WHERE battle_id = $1 FOR UPDATE`
	return r.find(query, battleID)
}

func (r *BattleRepository) find(query string, args ...interface{}) (*domain.Battle, error) {
	battle := &domain.Battle{}
	err := r.db.Get(battle, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBattleNotFound
		}
		return nil, err
	}
	return battle, nil
}

func (r *BattleRepository) ListOpen() ([]*domain.Battle, error) {
	query := `
		SELECT ` + battleColumns + `
		FROM battles
		WHERE status = $1
		ORDER BY created_at DESC
	`

	var battles []*domain.Battle
	if err := r.db.Select(&battles, query, domain.BattleStatusWaitingForPlayer2); err != nil {
		return nil, err
	}
	return battles, nil
}

func (r *BattleRepository) SetJoined(id uuid.UUID, player2, creature2 uuid.UUID) error {
	query := `
		UPDATE battles
		SET player2 = $1,
		    creature2 = $2,
		    status = $3
		WHERE id = $4
	`
	_, err := r.db.Exec(query, player2, creature2, domain.BattleStatusInProgress, id)
	return err
}

func (r *BattleRepository) SetResolved(id uuid.UUID, winner uuid.UUID, at time.Time) error {
	query := `
		UPDATE battles
		SET status = $1,
		    winner = $2,
		    resolved_at = $3
		WHERE id = $4
	`
	_, err := r.db.Exec(query, domain.BattleStatusResolved, winner, at, id)
	return err
}
