package services

import (
	"errors"

	"github.com/google/uuid"

	"genetix/internal/domain"
)

var (
	ErrUnauthorized       = errors.New("only admin can perform this action")
	ErrNotCreatureOwner   = errors.New("creature does not belong to caller")
)

// The guard predicates run before any state is touched; they have no side
// effects and every mutating operation below calls the appropriate one
// first.

func requireAdmin(caller uuid.UUID, platform *domain.Platform) error {
	if !platform.IsAdmin(caller) {
		return ErrUnauthorized
	}
	return nil
}

func requireOwner(caller uuid.UUID, creature *domain.Creature) error {
	if !creature.IsOwnedBy(caller) {
		return ErrNotCreatureOwner
	}
	return nil
}
