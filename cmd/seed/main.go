package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"genetix/internal/config"
	"genetix/internal/domain"
	"genetix/internal/repository"
	"genetix/internal/util"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, relying on environment")
	}

	cfg := config.Load()
	db, err := repository.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Println("Starting seed process...")

	seedAdmin(db.DB())
	seedTemplates(db.DB())

	log.Println("Seed process completed!")
}

func seedAdmin(db *sqlx.DB) {
	trainerRepo := repository.NewTrainerRepository(db)

	if _, err := trainerRepo.FindByUsername("admin"); err == nil {
		log.Println("Admin trainer already exists, skipping")
		return
	}

	password, err := util.HashPassword("password")
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &domain.Trainer{
		Username: "admin",
		Email:    "admin@genetix.local",
		Password: password,
	}

	if err := trainerRepo.Create(admin); err != nil {
		log.Printf("Failed to seed admin trainer: %v", err)
		return
	}

	log.Printf("Seeded admin trainer %s", admin.ID)
}

func seedTemplates(db *sqlx.DB) {
	templateRepo := repository.NewTemplateRepository(db)

	templates := []*domain.CreatureTemplate{
		{
			TemplateID: 1,
			Name:       "Emberling",
			BaseURI:    "https://assets.genetix.local/templates/emberling.json",
			Price:      1_000_000_000,
			HP:         40,
			Attack:     60,
			Defense:    30,
			Speed:      55,
		},
		{
			TemplateID: 2,
			Name:       "Tidecaller",
			BaseURI:    "https://assets.genetix.local/templates/tidecaller.json",
			Price:      1_000_000_000,
			HP:         55,
			Attack:     40,
			Defense:    50,
			Speed:      40,
		},
		{
			TemplateID: 3,
			Name:       "Stonehide",
			BaseURI:    "https://assets.genetix.local/templates/stonehide.json",
			Price:      2_500_000_000,
			HP:         80,
			Attack:     35,
			Defense:    75,
			Speed:      20,
		},
		{
			TemplateID: 4,
			Name:       "Galewing",
			BaseURI:    "https://assets.genetix.local/templates/galewing.json",
			Price:      5_000_000_000,
			HP:         45,
			Attack:     70,
			Defense:    25,
			Speed:      90,
		},
	}

	for _, template := range templates {
		if err := templateRepo.Create(template); err != nil {
			if err == repository.ErrTemplateExists {
				log.Printf("Template %d already exists, skipping", template.TemplateID)
				continue
			}
			log.Printf("Failed to seed template %d: %v", template.TemplateID, err)
			continue
		}
		log.Printf("Seeded template %d (%s)", template.TemplateID, template.Name)
	}
}
