package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Creature is an in-game asset minted from a template. Ownership is a plain
// field comparison against the caller identity, not a capability.
type Creature struct {
	ID             uuid.UUID    `db:"id"`
	Owner          uuid.UUID    `db:"owner"`
	TemplateID     uint64       `db:"template_id"`
	Name           string       `db:"name"`
	MetadataURI    string       `db:"metadata_uri"`
	HP             uint16       `db:"hp"`
	Attack         uint16       `db:"attack"`
	Defense        uint16       `db:"defense"`
	Speed          uint16       `db:"speed"`
	Level          uint8        `db:"level"`
	EvolutionStage uint8        `db:"evolution_stage"`
	BattlesWon     uint32       `db:"battles_won"`
	BattlesLost    uint32       `db:"battles_lost"`
	CreatedAt      time.Time    `db:"created_at"`
	LastBattleAt   sql.NullTime `db:"last_battle_at"`
}

func (c *Creature) IsOwnedBy(caller uuid.UUID) bool {
	return caller == c.Owner
}

func (c *Creature) Stats() Stats {
	return Stats{HP: c.HP, Attack: c.Attack, Defense: c.Defense, Speed: c.Speed}
}

// Evolve applies one evolution step: stats are overwritten, stage and level
// each advance by exactly one. The caller is responsible for having burned
// the Soul Stone first.
func (c *Creature) Evolve(newURI string, newStats Stats) error {
	if err := ValidateURI(newURI); err != nil {
		return err
	}
	if !newStats.Valid() {
		return ErrInvalidStats
	}

	stage, err := AddU8(c.EvolutionStage, 1)
	if err != nil {
		return err
	}
	level, err := AddU8(c.Level, 1)
	if err != nil {
		return err
	}

	c.MetadataURI = newURI
	c.HP = newStats.HP
	c.Attack = newStats.Attack
	c.Defense = newStats.Defense
	c.Speed = newStats.Speed
	c.EvolutionStage = stage
	c.Level = level
	return nil
}
