package sections

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/sections/dto"
	"registrar_backend/internals/features/school/registrar/sections/service"
)

// SeedSectionsFromYAML creates the default section catalog for every course.
// The file holds {section_names: [...], year_levels: [...]}; missing keys
// fall back to A/B/C and years 1-4. Existing sections are left alone.
func SeedSectionsFromYAML(db *gorm.DB, filePath string) (int, error) {
	log.Println("📥 Reading section seed:", filePath)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, errors.Wrapf(err, "read %s", filePath)
	}

	var req dto.SeedSectionsRequest
	if err := yaml.Unmarshal(raw, &req); err != nil {
		return 0, errors.Wrapf(err, "decode %s", filePath)
	}

	n, err := service.NewSectionService(db).SeedDefaults(context.Background(), req)
	if err != nil {
		return 0, err
	}
	log.Printf("✅ Section seed done: %d created", n)
	return n, nil
}
