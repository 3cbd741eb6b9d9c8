package dto

import (
	"github.com/google/uuid"

	courseDTO "registrar_backend/internals/features/school/registrar/courses/dto"
	m "registrar_backend/internals/features/school/registrar/sections/model"
	"registrar_backend/internals/helpers/validation"
)

type CreateSectionRequest struct {
	CourseAbv   string `json:"course_abv"   validate:"required,max=10,course_abv"`
	YearLevel   int    `json:"year_level"   validate:"required,min=1,max=4"`
	SectionName string `json:"section_name" validate:"required,max=20,section_name"`
}

func (r *CreateSectionRequest) Normalize() {
	r.CourseAbv = courseDTO.NormalizeAbv(r.CourseAbv)
	r.SectionName = validation.NormalizeSection(r.SectionName)
}

func (r CreateSectionRequest) ToModel() m.SectionModel {
	return m.SectionModel{
		SectionCourseAbv: r.CourseAbv,
		SectionYearLevel: r.YearLevel,
		SectionName:      r.SectionName,
	}
}

// SeedSectionsRequest: empty lists fall back to A/B/C and years 1-4.
type SeedSectionsRequest struct {
	SectionNames []string `json:"section_names" yaml:"section_names"`
	YearLevels   []int    `json:"year_levels"   yaml:"year_levels"`
}

var (
	DefaultSectionNames = []string{"A", "B", "C"}
	DefaultYearLevels   = []int{1, 2, 3, 4}
)

func (r *SeedSectionsRequest) Normalize() {
	names := make([]string, 0, len(r.SectionNames))
	seen := map[string]bool{}
	for _, n := range r.SectionNames {
		n = validation.NormalizeSection(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	if len(names) == 0 {
		names = append(names, DefaultSectionNames...)
	}
	r.SectionNames = names
	if len(r.YearLevels) == 0 {
		r.YearLevels = append([]int(nil), DefaultYearLevels...)
	}
}

type SectionResponse struct {
	SectionID   uuid.UUID `json:"section_id"`
	CourseAbv   string    `json:"course_abv"`
	YearLevel   int       `json:"year_level"`
	SectionName string    `json:"section_name"`
}

func FromSectionModel(ent m.SectionModel) SectionResponse {
	return SectionResponse{
		SectionID:   ent.SectionID,
		CourseAbv:   ent.SectionCourseAbv,
		YearLevel:   ent.SectionYearLevel,
		SectionName: ent.SectionName,
	}
}

func FromSectionModels(rows []m.SectionModel) []SectionResponse {
	out := make([]SectionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromSectionModel(r))
	}
	return out
}
