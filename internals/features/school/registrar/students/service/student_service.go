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
	"registrar_backend/internals/features/school/registrar/students/dto"
	"registrar_backend/internals/features/school/registrar/students/model"
	"registrar_backend/internals/helpers/apperr"
	"registrar_backend/internals/helpers/validation"
	"registrar_backend/internals/metrics"
)

type StudentService struct {
	DB *gorm.DB
	// StrictSections requires (course, year, section) to exist in the catalog.
	StrictSections bool
}

func NewStudentService(db *gorm.DB, strictSections bool) *StudentService {
	return &StudentService{DB: db, StrictSections: strictSections}
}

type StudentFilter struct {
	CourseAbv string
	YearLevel int
	Section   string
	Status    string
	Q         string
	Offset    int
	Limit     int
}

func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*model.StudentModel, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ent := req.ToModel()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkClassification(tx, &ent); err != nil {
			return err
		}
		if ok, err := Exists(tx, ent.StudentID); err != nil {
			return err
		} else if ok {
			return apperr.Duplicate("student %s already exists", ent.StudentID)
		}
		if err := tx.Create(&ent).Error; err != nil {
			return apperr.FromDB(err, "student "+ent.StudentID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[STUDENTS][CREATE] %s", ent.StudentID)
	return &ent, nil
}

func (s *StudentService) Get(ctx context.Context, id string) (*model.StudentModel, error) {
	id = strings.TrimSpace(id)
	var ent model.StudentModel
	if err := s.DB.WithContext(ctx).First(&ent, "student_id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err, "student "+id)
	}
	return &ent, nil
}

func (s *StudentService) List(ctx context.Context, f StudentFilter) ([]model.StudentModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.StudentModel{})
	if f.CourseAbv != "" {
		q = q.Where("student_course_abv = ?", f.CourseAbv)
	}
	if f.YearLevel > 0 {
		q = q.Where("student_year_level = ?", f.YearLevel)
	}
	if f.Section != "" {
		q = q.Where("student_section = ?", validation.NormalizeSection(f.Section))
	}
	if f.Status != "" {
		q = q.Where("student_status = ?", dto.NormalizeStatus(f.Status))
	}
	if term := strings.TrimSpace(f.Q); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where(`LOWER(student_id) LIKE ? OR LOWER(student_last_name) LIKE ? OR LOWER(student_first_name) LIKE ?`, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	var rows []model.StudentModel
	err := q.Order("student_last_name ASC, student_first_name ASC, student_id ASC").Find(&rows).Error
	return rows, total, err
}

// Update applies a partial change. Changing student_id re-creates the
// student under the new id (date_added preserved) and moves enrollments and
// grades across before the old row is deleted.
func (s *StudentService) Update(ctx context.Context, id string, patch dto.PatchStudentRequest) (*model.StudentModel, error) {
	id = strings.TrimSpace(id)
	var (
		out     model.StudentModel
		rekeyed bool
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.StudentModel
		if err := tx.First(&cur, "student_id = ?", id).Error; err != nil {
			return apperr.FromDB(err, "student "+id)
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

		if next.StudentID == cur.StudentID {
			if err := tx.Model(&model.StudentModel{}).
				Where("student_id = ?", cur.StudentID).
				Updates(updatableColumns(next)).Error; err != nil {
				return apperr.FromDB(err, "student "+cur.StudentID)
			}
			return tx.First(&out, "student_id = ?", cur.StudentID).Error
		}

		rekeyed = true
		if err := rekeyStudent(tx, cur.StudentID, &next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if rekeyed {
		metrics.ObserveRekey("student", err)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func updatableColumns(ent model.StudentModel) map[string]any {
	return map[string]any{
		"student_last_name":   ent.StudentLastName,
		"student_first_name":  ent.StudentFirstName,
		"student_middle_name": ent.StudentMiddleName,
		"student_course_abv":  ent.StudentCourseAbv,
		"student_year_level":  ent.StudentYearLevel,
		"student_section":     ent.StudentSection,
		"student_status":      ent.StudentStatus,
	}
}

func rekeyStudent(tx *gorm.DB, oldID string, next *model.StudentModel) error {
	newID := next.StudentID
	if ok, err := Exists(tx, newID); err != nil {
		return err
	} else if ok {
		return apperr.Duplicate("student %s already exists", newID)
	}

	if err := tx.Create(next).Error; err != nil {
		return apperr.FromDB(err, "student "+newID)
	}
	if err := tx.Model(&enrollmentModel.EnrollmentModel{}).
		Where("enrollment_student_id = ?", oldID).
		Update("enrollment_student_id", newID).Error; err != nil {
		return apperr.FromDB(err, "enrollment of student "+newID)
	}
	if err := tx.Model(&activityModel.GradeModel{}).
		Where("grade_student_id = ?", oldID).
		Update("grade_student_id", newID).Error; err != nil {
		return apperr.FromDB(err, "grade of student "+newID)
	}
	if err := tx.Where("student_id = ?", oldID).Delete(&model.StudentModel{}).Error; err != nil {
		return err
	}
	log.Printf("[STUDENTS][REKEY] %s -> %s", oldID, newID)
	return nil
}

// Delete removes the student with their enrollments and grades.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ok, err := Exists(tx, id); err != nil {
			return err
		} else if !ok {
			return apperr.NotFound("student %s not found", id)
		}
		if err := tx.Where("grade_student_id = ?", id).Delete(&activityModel.GradeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("enrollment_student_id = ?", id).Delete(&enrollmentModel.EnrollmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&model.StudentModel{}).Error; err != nil {
			return err
		}
		log.Printf("[STUDENTS][DELETE] %s", id)
		return nil
	})
}

func (s *StudentService) checkClassification(tx *gorm.DB, ent *model.StudentModel) error {
	if ent.StudentCourseAbv == nil {
		return nil
	}
	if ok, err := courseService.Exists(tx, *ent.StudentCourseAbv); err != nil {
		return err
	} else if !ok {
		return apperr.NotFound("course %s not found", *ent.StudentCourseAbv)
	}
	if s.StrictSections {
		return sectionService.EnsureAssignable(tx, ent.StudentCourseAbv, ent.StudentYearLevel, ent.StudentSection)
	}
	return nil
}

func Exists(db *gorm.DB, id string) (bool, error) {
	var n int64
	if err := db.Model(&model.StudentModel{}).Where("student_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
