package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"genetix/internal/domain"
)

var ErrCreatureNotFound = errors.New("creature not found")

const creatureColumns = `id, owner, template_id, name, metadata_uri,
	hp, attack, defense, speed, level, evolution_stage,
	battles_won, battles_lost, created_at, last_battle_at`

type CreatureRepository struct {
	db ExtHandle
}

func NewCreatureRepository(db ExtHandle) *CreatureRepository {
	return &CreatureRepository{db: db}
}

func (r *CreatureRepository) Create(creature *domain.Creature) error {
	query := `
		INSERT INTO creatures (owner, template_id, name, metadata_uri,
			hp, attack, defense, speed, level, evolution_stage,
			battles_won, battles_lost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, 0)
		RETURNING id, created_at
	`

	return r.db.QueryRow(query,
		creature.Owner, creature.TemplateID, creature.Name, creature.MetadataURI,
		creature.HP, creature.Attack, creature.Defense, creature.Speed,
		creature.Level, creature.EvolutionStage,
	).Scan(&creature.ID, &creature.CreatedAt)
}

func (r *CreatureRepository) FindByID(id uuid.UUID) (*domain.Creature, error) {
	query := `SELECT ` + creatureColumns + ` FROM creatures WHERE id = $1`
	return r.find(query, id)
}

func (r *CreatureRepository) FindByIDForUpdate(id uuid.UUID) (*domain.Creature, error) {
	query := `SELECT ` + creatureColumns + ` FROM creatures WHERE id = $1 FOR UPDATE`
	return r.find(query, id)
}

func (r *CreatureRepository) find(query string, args ...interface{}) (*domain.Creature, error) {
	creature := &domain.Creature{}
	err := r.db.Get(creature, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCreatureNotFound
		}
		return nil, err
	}
	return creature, nil
}

func (r *CreatureRepository) FindByOwner(owner uuid.UUID) ([]*domain.Creature, error) {
	query := `SELECT ` + creatureColumns + ` FROM creatures WHERE owner = $1 ORDER BY created_at`

	var creatures []*domain.Creature
	if err := r.db.Select(&creatures, query, owner); err != nil {
		return nil, err
	}
	return creatures, nil
}

// UpdateEvolution persists an evolution step produced by Creature.Evolve.
func (r *CreatureRepository) UpdateEvolution(creature *domain.Creature) error {
	query := `
		UPDATE creatures
		SET metadata_uri = $1,
		    hp = $2, attack = $3, defense = $4, speed = $5,
		    level = $6, evolution_stage = $7
		WHERE id = $8
	`
	_, err := r.db.Exec(query,
		creature.MetadataURI,
		creature.HP, creature.Attack, creature.Defense, creature.Speed,
		creature.Level, creature.EvolutionStage,
		creature.ID,
	)
	return err
}

func (r *CreatureRepository) UpdateMetadataURI(id uuid.UUID, uri string) error {
	query := `UPDATE creatures SET metadata_uri = $1 WHERE id = $2`

	res, err := r.db.Exec(query, uri, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCreatureNotFound
	}
	return nil
}

// UpdateBattleRecord stamps a resolved battle onto a creature. Counters must
// come from checked arithmetic on a row loaded with FindByIDForUpdate.
func (r *CreatureRepository) UpdateBattleRecord(id uuid.UUID, won, lost uint32, at time.Time) error {
	query := `
		UPDATE creatures
		SET battles_won = $1,
		    battles_lost = $2,
		    last_battle_at = $3
		WHERE id = $4
	`
	_, err := r.db.Exec(query, won, lost, at, id)
	return err
}
