package seeds

import (
	"log"

	"gorm.io/gorm"

	"registrar_backend/internals/configs"
	sections "registrar_backend/internals/seeds/schools/sections"
)

func RunAllSeeds(db *gorm.DB) {
	//* Sections
	path := configs.Conf.GetString("SEED_SECTIONS_FILE")
	if _, err := sections.SeedSectionsFromYAML(db, path); err != nil {
		log.Printf("❌ Section seed failed: %v", err)
	}
}
