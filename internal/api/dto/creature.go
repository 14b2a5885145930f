package dto

import (
	"time"

	"genetix/internal/domain"
)

type Creature struct {
	ID             string     `json:"id"`
	Owner          string     `json:"owner"`
	TemplateID     uint64     `json:"templateId"`
	Name           string     `json:"name"`
	MetadataURI    string     `json:"metadataUri"`
	HP             uint16     `json:"hp"`
	Attack         uint16     `json:"attack"`
	Defense        uint16     `json:"defense"`
	Speed          uint16     `json:"speed"`
	Level          uint8      `json:"level"`
	EvolutionStage uint8      `json:"evolutionStage"`
	BattlesWon     uint32     `json:"battlesWon"`
	BattlesLost    uint32     `json:"battlesLost"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastBattleAt   *time.Time `json:"lastBattleAt,omitempty"`
}

func CreatureFromDomain(creature *domain.Creature) *Creature {
	if creature == nil {
		return nil
	}

	result := &Creature{
		ID:             creature.ID.String(),
		Owner:          creature.Owner.String(),
		TemplateID:     creature.TemplateID,
		Name:           creature.Name,
		MetadataURI:    creature.MetadataURI,
		HP:             creature.HP,
		Attack:         creature.Attack,
		Defense:        creature.Defense,
		Speed:          creature.Speed,
		Level:          creature.Level,
		EvolutionStage: creature.EvolutionStage,
		BattlesWon:     creature.BattlesWon,
		BattlesLost:    creature.BattlesLost,
		CreatedAt:      creature.CreatedAt,
	}

	if creature.LastBattleAt.Valid {
		lastBattleAt := creature.LastBattleAt.Time
		result.LastBattleAt = &lastBattleAt
	}

	return result
}

func CreaturesFromDomain(creatures []*domain.Creature) []*Creature {
	result := make([]*Creature, 0, len(creatures))
	for _, creature := range creatures {
		result = append(result, CreatureFromDomain(creature))
	}
	return result
}

type Template struct {
	TemplateID  uint64    `json:"templateId"`
	Name        string    `json:"name"`
	BaseURI     string    `json:"baseUri"`
	Price       uint64    `json:"price"`
	HP          uint16    `json:"hp"`
	Attack      uint16    `json:"attack"`
	Defense     uint16    `json:"defense"`
	Speed       uint16    `json:"speed"`
	IsActive    bool      `json:"isActive"`
	TimesMinted uint64    `json:"timesMinted"`
	CreatedAt   time.Time `json:"createdAt"`
}

func TemplateFromDomain(template *domain.CreatureTemplate) *Template {
	if template == nil {
		return nil
	}

	return &Template{
		TemplateID:  template.TemplateID,
		Name:        template.Name,
		BaseURI:     template.BaseURI,
		Price:       template.Price,
		HP:          template.HP,
		Attack:      template.Attack,
		Defense:     template.Defense,
		Speed:       template.Speed,
		IsActive:    template.IsActive,
		TimesMinted: template.TimesMinted,
		CreatedAt:   template.CreatedAt,
	}
}

func TemplatesFromDomain(templates []*domain.CreatureTemplate) []*Template {
	result := make([]*Template, 0, len(templates))
	for _, template := range templates {
		result = append(result, TemplateFromDomain(template))
	}
	return result
}
