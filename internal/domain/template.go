package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	MaxNameLen = 32
	MaxURILen  = 200
)

var (
	ErrNameTooLong  = errors.New("name too long")
	ErrURITooLong   = errors.New("uri too long")
	ErrInvalidURI   = errors.New("invalid metadata uri")
	ErrInvalidPrice = errors.New("price must be greater than 0")
	ErrInvalidStats = errors.New("stats must be greater than 0")
)

// CreatureTemplate is a catalog entry creatures are minted from.
// Templates are toggled inactive rather than deleted; stats copied at mint
// time are never retroactively changed.
type CreatureTemplate struct {
	ID          uuid.UUID `db:"id"`
	TemplateID  uint64    `db:"template_id"`
	Name        string    `db:"name"`
	BaseURI     string    `db:"base_uri"`
	Price       uint64    `db:"price"`
	HP          uint16    `db:"hp"`
	Attack      uint16    `db:"attack"`
	Defense     uint16    `db:"defense"`
	Speed       uint16    `db:"speed"`
	IsActive    bool      `db:"is_active"`
	TimesMinted uint64    `db:"times_minted"`
	CreatedAt   time.Time `db:"created_at"`
}

type Stats struct {
	HP      uint16 `db:"hp" json:"hp"`
	Attack  uint16 `db:"attack" json:"attack"`
	Defense uint16 `db:"defense" json:"defense"`
	Speed   uint16 `db:"speed" json:"speed"`
}

func (s Stats) Valid() bool {
	return s.HP > 0 && s.Attack > 0 && s.Defense > 0 && s.Speed > 0
}

// ValidateTemplate checks the catalog-entry bounds before a template is
// written.
func ValidateTemplate(name, baseURI string, price uint64, stats Stats) error {
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	if len(baseURI) > MaxURILen {
		return ErrURITooLong
	}
	if price == 0 {
		return ErrInvalidPrice
	}
	if !stats.Valid() {
		return ErrInvalidStats
	}
	return nil
}

func ValidateURI(uri string) error {
	if uri == "" {
		return ErrInvalidURI
	}
	if len(uri) > MaxURILen {
		return ErrURITooLong
	}
	return nil
}
