package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trainer is a player identity. The JWT subject of every authenticated
// request is a trainer ID; ledger accounts and creature ownership hang off
// it.
type Trainer struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
}
