package dto

import (
	"time"

	"genetix/internal/domain"
)

type Battle struct {
	ID         string     `json:"id"`
	BattleID   uint64     `json:"battleId"`
	Player1    string     `json:"player1"`
	Player2    *string    `json:"player2,omitempty"`
	Creature1  string     `json:"creature1"`
	Creature2  *string    `json:"creature2,omitempty"`
	Stake      uint64     `json:"stake"`
	FeeAmount  uint64     `json:"feeAmount"`
	Status     string     `json:"status"`
	Winner     *string    `json:"winner,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

func BattleFromDomain(battle *domain.Battle) *Battle {
	if battle == nil {
		return nil
	}

	result := &Battle{
		ID:        battle.ID.String(),
		BattleID:  battle.BattleID,
		Player1:   battle.Player1.String(),
		Creature1: battle.Creature1.String(),
		Stake:     battle.Stake,
		FeeAmount: battle.FeeAmount,
		Status:    string(battle.Status),
		CreatedAt: battle.CreatedAt,
	}

	if battle.Player2 != nil {
		p2 := battle.Player2.String()
		result.Player2 = &p2
	}
	if battle.Creature2 != nil {
		c2 := battle.Creature2.String()
		result.Creature2 = &c2
	}
	if battle.Winner != nil {
		winner := battle.Winner.String()
		result.Winner = &winner
	}
	if battle.ResolvedAt.Valid {
		resolvedAt := battle.ResolvedAt.Time
		result.ResolvedAt = &resolvedAt
	}

	return result
}

func BattlesFromDomain(battles []*domain.Battle) []*Battle {
	result := make([]*Battle, 0, len(battles))
	for _, battle := range battles {
		result = append(result, BattleFromDomain(battle))
	}
	return result
}
