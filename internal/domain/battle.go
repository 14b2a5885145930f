package domain

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// StakeAmount is what each player locks into custody to enter a battle:
// 10 MON in base units (9 decimals).
const StakeAmount uint64 = 10_000_000_000

type BattleStatus string

const (
	BattleStatusWaitingForPlayer2 BattleStatus = "WAITING_FOR_PLAYER2"
	BattleStatusInProgress        BattleStatus = "IN_PROGRESS"
	BattleStatusResolved          BattleStatus = "RESOLVED"
	// Declared for completeness; no operation currently transitions a
	// battle into it, so a waiting battle keeps its stake locked.
	BattleStatusCancelled BattleStatus = "CANCELLED"
)

var ErrCorruptBattle = errors.New("battle record inconsistent with status")

// Battle is the persisted escrow record. Player2/Creature2/Winner are
// nullable in storage; use State to get a structurally checked view.
type Battle struct {
	ID         uuid.UUID     `db:"id"`
	BattleID   uint64        `db:"battle_id"`
	Player1    uuid.UUID     `db:"player1"`
	Player2    *uuid.UUID    `db:"player2"`
	Creature1  uuid.UUID     `db:"creature1"`
	Creature2  *uuid.UUID    `db:"creature2"`
	Stake      uint64        `db:"stake"`
	FeeAmount  uint64        `db:"fee_amount"`
	Status     BattleStatus  `db:"status"`
	Winner     *uuid.UUID    `db:"winner"`
	CreatedAt  time.Time     `db:"created_at"`
	ResolvedAt sql.NullTime  `db:"resolved_at"`
}

// AwaitingOpponent is a battle holding player1's stake only.
type AwaitingOpponent struct {
	Player1   uuid.UUID
	Creature1 uuid.UUID
	Stake     uint64
}

// ActiveBattle holds both stakes and is ready to resolve.
type ActiveBattle struct {
	Player1   uuid.UUID
	Player2   uuid.UUID
	Creature1 uuid.UUID
	Creature2 uuid.UUID
	Stake     uint64
	FeeAmount uint64
}

// ResolvedBattle is terminal; custody has been emptied and closed.
type ResolvedBattle struct {
	Winner     uuid.UUID
	ResolvedAt time.Time
}

type BattleState interface {
	battleState()
}

func (AwaitingOpponent) battleState() {}
func (ActiveBattle) battleState()     {}
func (ResolvedBattle) battleState()   {}

// State converts the flat record into its status variant, failing on records
// whose nullable fields disagree with the stored status so later stages
// never see a half-populated battle.
func (b *Battle) State() (BattleState, error) {
	switch b.Status {
	case BattleStatusWaitingForPlayer2:
		return AwaitingOpponent{
			Player1:   b.Player1,
			Creature1: b.Creature1,
			Stake:     b.Stake,
		}, nil
	case BattleStatusInProgress:
		if b.Player2 == nil || b.Creature2 == nil {
			return nil, ErrCorruptBattle
		}
		return ActiveBattle{
			Player1:   b.Player1,
			Player2:   *b.Player2,
			Creature1: b.Creature1,
			Creature2: *b.Creature2,
			Stake:     b.Stake,
			FeeAmount: b.FeeAmount,
		}, nil
	case BattleStatusResolved:
		if b.Winner == nil || !b.ResolvedAt.Valid {
			return nil, ErrCorruptBattle
		}
		return ResolvedBattle{
			Winner:     *b.Winner,
			ResolvedAt: b.ResolvedAt.Time,
		}, nil
	default:
		return nil, ErrCorruptBattle
	}
}
