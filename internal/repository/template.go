package repository

import (
	"database/sql"
	"errors"

	"genetix/internal/domain"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateExists   = errors.New("template already exists")
)

const templateColumns = `id, template_id, name, base_uri, price,
	hp, attack, defense, speed, is_active, times_minted, created_at`

type TemplateRepository struct {
	db ExtHandle
}

func NewTemplateRepository(db ExtHandle) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(template *domain.CreatureTemplate) error {
	query := `
		INSERT INTO creature_templates (template_id, name, base_uri, price,
			hp, attack, defense, speed, is_active, times_minted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, 0)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(query,
		template.TemplateID, template.Name, template.BaseURI, template.Price,
		template.HP, template.Attack, template.Defense, template.Speed,
	).Scan(&template.ID, &template.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrTemplateExists
		}
		return err
	}
	template.IsActive = true
	return nil
}

func (r *TemplateRepository) FindByTemplateID(templateID uint64) (*domain.CreatureTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM creature_templates WHERE template_id = $1`
	return r.find(query, templateID)
}

// FindByTemplateIDForUpdate locks the row so the mint counter bump cannot
// race a concurrent mint.
func (r *TemplateRepository) FindByTemplateIDForUpdate(templateID uint64) (*domain.CreatureTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM creature_templates WHERE template_id = $1 FOR UPDATE`
	return r.find(query, templateID)
}

func (r *TemplateRepository) find(query string, args ...interface{}) (*domain.CreatureTemplate, error) {
	template := &domain.CreatureTemplate{}
	err := r.db.Get(template, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

func (r *TemplateRepository) List() ([]*domain.CreatureTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM creature_templates ORDER BY template_id`

	var templates []*domain.CreatureTemplate
	if err := r.db.Select(&templates, query); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepository) SetActive(templateID uint64, active bool) error {
	query := `UPDATE creature_templates SET is_active = $1 WHERE template_id = $2`

	res, err := r.db.Exec(query, active, templateID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *TemplateRepository) UpdateTimesMinted(template *domain.CreatureTemplate) error {
	query := `UPDATE creature_templates SET times_minted = $1 WHERE id = $2`
	_, err := r.db.Exec(query, template.TimesMinted, template.ID)
	return err
}
