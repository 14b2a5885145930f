package dto

import (
	"time"

	"genetix/internal/domain"
)

type Platform struct {
	Admin                string    `json:"admin"`
	FeeBps               uint16    `json:"feeBps"`
	SoulStonePrice       uint64    `json:"soulStonePrice"`
	TotalCreaturesMinted uint64    `json:"totalCreaturesMinted"`
	TotalBattles         uint64    `json:"totalBattles"`
	TotalSoulStones      uint64    `json:"totalSoulStones"`
	CreatedAt            time.Time `json:"createdAt"`
}

func PlatformFromDomain(platform *domain.Platform) *Platform {
	if platform == nil {
		return nil
	}

	return &Platform{
		Admin:                platform.Admin.String(),
		FeeBps:               platform.FeeBps,
		SoulStonePrice:       platform.SoulStonePrice,
		TotalCreaturesMinted: platform.TotalCreaturesMinted,
		TotalBattles:         platform.TotalBattles,
		TotalSoulStones:      platform.TotalSoulStones,
		CreatedAt:            platform.CreatedAt,
	}
}

type Treasury struct {
	TotalFeesCollected uint64 `json:"totalFeesCollected"`
	CustodiedBalance   uint64 `json:"custodiedBalance"`
}

type Trainer struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func TrainerFromDomain(trainer *domain.Trainer) *Trainer {
	if trainer == nil {
		return nil
	}

	return &Trainer{
		ID:        trainer.ID.String(),
		Username:  trainer.Username,
		Email:     trainer.Email,
		CreatedAt: trainer.CreatedAt,
	}
}
