package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	courseModel "registrar_backend/internals/features/school/registrar/courses/model"
	courseService "registrar_backend/internals/features/school/registrar/courses/service"
	"registrar_backend/internals/features/school/registrar/sections/dto"
	"registrar_backend/internals/features/school/registrar/sections/model"
	"registrar_backend/internals/helpers/apperr"
	"registrar_backend/internals/helpers/validation"
)

type SectionService struct {
	DB *gorm.DB
}

func NewSectionService(db *gorm.DB) *SectionService {
	return &SectionService{DB: db}
}

type SectionFilter struct {
	CourseAbv string
	YearLevel int
}

func (s *SectionService) Create(ctx context.Context, req dto.CreateSectionRequest) (*model.SectionModel, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var out model.SectionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ok, err := courseService.Exists(tx, req.CourseAbv); err != nil {
			return err
		} else if !ok {
			return apperr.NotFound("course %s not found", req.CourseAbv)
		}
		if ok, err := Exists(tx, req.CourseAbv, req.YearLevel, req.SectionName); err != nil {
			return err
		} else if ok {
			return apperr.Duplicate("section %s year %d %s already exists", req.CourseAbv, req.YearLevel, req.SectionName)
		}

		out = req.ToModel()
		if err := tx.Create(&out).Error; err != nil {
			return apperr.FromDB(err, "section "+req.SectionName)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[SECTIONS][CREATE] %s-%d-%s", out.SectionCourseAbv, out.SectionYearLevel, out.SectionName)
	return &out, nil
}

func (s *SectionService) List(ctx context.Context, f SectionFilter) ([]model.SectionModel, error) {
	q := s.DB.WithContext(ctx).Model(&model.SectionModel{})
	if f.CourseAbv != "" {
		q = q.Where("section_course_abv = ?", f.CourseAbv)
	}
	if f.YearLevel > 0 {
		q = q.Where("section_year_level = ?", f.YearLevel)
	}
	var rows []model.SectionModel
	err := q.Order("section_course_abv ASC, section_year_level ASC, section_name ASC").Find(&rows).Error
	return rows, err
}

func (s *SectionService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("section_id = ?", id).Delete(&model.SectionModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("section %s not found", id)
	}
	return nil
}

// SeedDefaults creates every (course, year, name) combination that is
// missing, for every stored course. Existing rows are left alone.
func (s *SectionService) SeedDefaults(ctx context.Context, req dto.SeedSectionsRequest) (int, error) {
	req.Normalize()
	for _, y := range req.YearLevels {
		if y < 1 || y > 4 {
			return 0, apperr.Invalid("year_levels", "year_levels must be between 1 and 4")
		}
	}
	for _, n := range req.SectionNames {
		if !validation.IsSectionName(n) {
			return 0, apperr.Invalid("section_names", "invalid section name "+n)
		}
	}

	created := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var courses []courseModel.CourseModel
		if err := tx.Order("course_abv ASC").Find(&courses).Error; err != nil {
			return err
		}
		for _, c := range courses {
			for _, y := range req.YearLevels {
				for _, n := range req.SectionNames {
					row := model.SectionModel{SectionCourseAbv: c.CourseAbv, SectionYearLevel: y, SectionName: n}
					res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
					if res.Error != nil {
						return apperr.FromDB(res.Error, "section "+n)
					}
					created += int(res.RowsAffected)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Printf("[SECTIONS][SEED] created=%d", created)
	return created, nil
}

func Exists(db *gorm.DB, courseAbv string, yearLevel int, name string) (bool, error) {
	var n int64
	err := db.Model(&model.SectionModel{}).
		Where("section_course_abv = ? AND section_year_level = ? AND section_name = ?", courseAbv, yearLevel, name).
		Count(&n).Error
	return n > 0, err
}

// EnsureAssignable is the strict-catalog check used when students and
// subjects are classified. A nil course skips the check.
func EnsureAssignable(db *gorm.DB, courseAbv *string, yearLevel int, name string) error {
	if courseAbv == nil {
		return nil
	}
	ok, err := Exists(db, *courseAbv, yearLevel, name)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Invalid("section", fmt.Sprintf("section %s is not defined for %s year %d", name, *courseAbv, yearLevel))
	}
	return nil
}
