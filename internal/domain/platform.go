package domain

import (
	"time"

	"github.com/google/uuid"
)

// Fee rates are expressed in basis points, 10000 = 100%.
const MaxFeeBps = 10000

// Platform is the singleton configuration record created at bootstrap.
// Only the admin identity recorded here may touch fee and catalog settings.
type Platform struct {
	ID                  uuid.UUID `db:"id"`
	Admin               uuid.UUID `db:"admin"`
	FeeBps              uint16    `db:"fee_bps"`
	SoulStonePrice      uint64    `db:"soul_stone_price"`
	TotalCreaturesMinted uint64   `db:"total_creatures_minted"`
	TotalBattles        uint64    `db:"total_battles"`
	TotalSoulStones     uint64    `db:"total_soul_stones"`
	CreatedAt           time.Time `db:"created_at"`
}

// Treasury aggregates collected battle fees. TotalFeesCollected is a
// lifetime audit counter and never decreases; withdrawals only drain the
// fee custody account.
type Treasury struct {
	ID                 uuid.UUID `db:"id"`
	TotalFeesCollected uint64    `db:"total_fees_collected"`
	FeeAccountID       uuid.UUID `db:"fee_account_id"`
	CreatedAt          time.Time `db:"created_at"`
}

func (p *Platform) IsAdmin(caller uuid.UUID) bool {
	return caller == p.Admin
}
