package service

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	activityModel "registrar_backend/internals/features/school/registrar/activities/model"
	courseService "registrar_backend/internals/features/school/registrar/courses/service"
	enrollmentModel "registrar_backend/internals/features/school/registrar/enrollments/model"
	sectionService "registrar_backend/internals/features/school/registrar/sections/service"
	"registrar_backend/internals/features/school/registrar/subjects/dto"
	"registrar_backend/internals/features/school/registrar/subjects/model"
	"registrar_backend/internals/helpers/apperr"
	"registrar_backend/internals/helpers/dbtime"
	"registrar_backend/internals/helpers/validation"
	"registrar_backend/internals/metrics"
)

type SubjectService struct {
	DB             *gorm.DB
	StrictSections bool
}

func NewSubjectService(db *gorm.DB, strictSections bool) *SubjectService {
	return &SubjectService{DB: db, StrictSections: strictSections}
}

type SubjectFilter struct {
	CourseAbv       string
	SchoolYear      string
	Semester        int
	YearLevel       int
	Section         string
	IncludeArchived bool
	Q               string
	Offset          int
	Limit           int
}

func (s *SubjectService) Create(ctx context.Context, req dto.CreateSubjectRequest) (*model.SubjectModel, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ent := req.ToModel()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkClassification(tx, &ent); err != nil {
			return err
		}
		if ok, err := Exists(tx, ent.SubjectCode); err != nil {
			return err
		} else if ok {
			return apperr.Duplicate("subject %s already exists", ent.SubjectCode)
		}
		if err := tx.Create(&ent).Error; err != nil {
			return apperr.FromDB(err, "subject "+ent.SubjectCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[SUBJECTS][CREATE] %s", ent.SubjectCode)
	return &ent, nil
}

// Get returns the subject whether archived or not.
func (s *SubjectService) Get(ctx context.Context, code string) (*model.SubjectModel, error) {
	return Find(s.DB.WithContext(ctx), code)
}

func Find(db *gorm.DB, code string) (*model.SubjectModel, error) {
	code = dto.NormalizeCode(code)
	var ent model.SubjectModel
	if err := db.First(&ent, "subject_code = ?", code).Error; err != nil {
		return nil, apperr.FromDB(err, "subject "+code)
	}
	return &ent, nil
}

func (s *SubjectService) List(ctx context.Context, f SubjectFilter) ([]model.SubjectModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.SubjectModel{})
	if !f.IncludeArchived {
		q = q.Where("subject_is_active = ?", true)
	}
	if f.CourseAbv != "" {
		q = q.Where("subject_course_abv = ?", f.CourseAbv)
	}
	if f.SchoolYear != "" {
		q = q.Where("subject_school_year = ?", f.SchoolYear)
	}
	if f.Semester > 0 {
		q = q.Where("subject_semester = ?", f.Semester)
	}
	if f.YearLevel > 0 {
		q = q.Where("subject_year_level = ?", f.YearLevel)
	}
	if f.Section != "" {
		q = q.Where("subject_section = ?", validation.NormalizeSection(f.Section))
	}
	if term := strings.TrimSpace(f.Q); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(subject_code) LIKE ? OR LOWER(subject_title) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	var rows []model.SubjectModel
	err := q.Order("subject_school_year DESC, subject_semester ASC, subject_code ASC").Find(&rows).Error
	return rows, total, err
}

// Update applies a partial change. A new subject_code re-creates the
// subject, moves its activities and enrollments onto the new code and only
// then deletes the old row. Grades follow their activity by id.
func (s *SubjectService) Update(ctx context.Context, code string, patch dto.PatchSubjectRequest) (*model.SubjectModel, error) {
	code = dto.NormalizeCode(code)
	var (
		out     model.SubjectModel
		rekeyed bool
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.SubjectModel
		if err := tx.First(&cur, "subject_code = ?", code).Error; err != nil {
			return apperr.FromDB(err, "subject "+code)
		}

		next := cur
		req, err := patch.Apply(&next)
		if err != nil {
			return err
		}
		if err := validation.Struct(req); err != nil {
			return err
		}
		if err := s.checkClassification(tx, &next); err != nil {
			return err
		}

		if next.SubjectCode == cur.SubjectCode {
			if err := tx.Model(&model.SubjectModel{}).
				Where("subject_code = ?", cur.SubjectCode).
				Updates(map[string]any{
					"subject_title":       next.SubjectTitle,
					"subject_course_abv":  next.SubjectCourseAbv,
					"subject_school_year": next.SubjectSchoolYear,
					"subject_semester":    next.SubjectSemester,
					"subject_year_level":  next.SubjectYearLevel,
					"subject_section":     next.SubjectSection,
				}).Error; err != nil {
				return apperr.FromDB(err, "subject "+cur.SubjectCode)
			}
			return tx.First(&out, "subject_code = ?", cur.SubjectCode).Error
		}

		rekeyed = true
		if err := rekeySubject(tx, cur.SubjectCode, &next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if rekeyed {
		metrics.ObserveRekey("subject", err)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func rekeySubject(tx *gorm.DB, oldCode string, next *model.SubjectModel) error {
	newCode := next.SubjectCode
	if ok, err := Exists(tx, newCode); err != nil {
		return err
	} else if ok {
		return apperr.Duplicate("subject %s already exists", newCode)
	}

	if err := tx.Create(next).Error; err != nil {
		return apperr.FromDB(err, "subject "+newCode)
	}

	moved := tx.Model(&activityModel.ActivityModel{}).
		Where("activity_subject_code = ?", oldCode).
		Update("activity_subject_code", newCode)
	if moved.Error != nil {
		return moved.Error
	}
	enrolled := tx.Model(&enrollmentModel.EnrollmentModel{}).
		Where("enrollment_subject_code = ?", oldCode).
		Update("enrollment_subject_code", newCode)
	if enrolled.Error != nil {
		return apperr.FromDB(enrolled.Error, "enrollment in subject "+newCode)
	}

	if err := tx.Where("subject_code = ?", oldCode).Delete(&model.SubjectModel{}).Error; err != nil {
		return err
	}
	log.Printf("[SUBJECTS][REKEY] %s -> %s (activities=%d enrollments=%d)",
		oldCode, newCode, moved.RowsAffected, enrolled.RowsAffected)
	return nil
}

// Delete hard-deletes the subject with its activities, their grades and
// its enrollments. Use Archive to hide a subject instead.
func (s *SubjectService) Delete(ctx context.Context, code string) error {
	code = dto.NormalizeCode(code)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ok, err := Exists(tx, code); err != nil {
			return err
		} else if !ok {
			return apperr.NotFound("subject %s not found", code)
		}

		activityIDs := tx.Model(&activityModel.ActivityModel{}).
			Select("activity_id").
			Where("activity_subject_code = ?", code)
		if err := tx.Where("grade_activity_id IN (?)", activityIDs).Delete(&activityModel.GradeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_subject_code = ?", code).Delete(&activityModel.ActivityModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("enrollment_subject_code = ?", code).Delete(&enrollmentModel.EnrollmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_code = ?", code).Delete(&model.SubjectModel{}).Error; err != nil {
			return err
		}
		log.Printf("[SUBJECTS][DELETE] %s", code)
		return nil
	})
}

// Archive marks the subject inactive and stamps today's date.
func (s *SubjectService) Archive(ctx context.Context, code string) (*model.SubjectModel, error) {
	today := dbtime.Today()
	return s.setActive(ctx, code, map[string]any{
		"subject_is_active":     false,
		"subject_archived_date": &today,
	})
}

func (s *SubjectService) Unarchive(ctx context.Context, code string) (*model.SubjectModel, error) {
	return s.setActive(ctx, code, map[string]any{
		"subject_is_active":     true,
		"subject_archived_date": nil,
	})
}

func (s *SubjectService) setActive(ctx context.Context, code string, cols map[string]any) (*model.SubjectModel, error) {
	code = dto.NormalizeCode(code)
	var out model.SubjectModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.SubjectModel{}).Where("subject_code = ?", code).Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("subject %s not found", code)
		}
		return tx.First(&out, "subject_code = ?", code).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[SUBJECTS][ARCHIVE] %s active=%t", code, out.SubjectIsActive)
	return &out, nil
}

func (s *SubjectService) checkClassification(tx *gorm.DB, ent *model.SubjectModel) error {
	if ent.SubjectCourseAbv == nil {
		return nil
	}
	if ok, err := courseService.Exists(tx, *ent.SubjectCourseAbv); err != nil {
		return err
	} else if !ok {
		return apperr.NotFound("course %s not found", *ent.SubjectCourseAbv)
	}
	if s.StrictSections {
		return sectionService.EnsureAssignable(tx, ent.SubjectCourseAbv, ent.SubjectYearLevel, ent.SubjectSection)
	}
	return nil
}

func Exists(db *gorm.DB, code string) (bool, error) {
	var n int64
	if err := db.Model(&model.SubjectModel{}).Where("subject_code = ?", code).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
