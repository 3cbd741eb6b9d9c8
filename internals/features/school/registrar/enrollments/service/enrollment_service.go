package service

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"registrar_backend/internals/features/school/registrar/enrollments/dto"
	"registrar_backend/internals/features/school/registrar/enrollments/model"
	studentModel "registrar_backend/internals/features/school/registrar/students/model"
	subjectDTO "registrar_backend/internals/features/school/registrar/subjects/dto"
	subjectModel "registrar_backend/internals/features/school/registrar/subjects/model"
	subjectService "registrar_backend/internals/features/school/registrar/subjects/service"
	"registrar_backend/internals/helpers/apperr"
	"registrar_backend/internals/helpers/validation"
	"registrar_backend/internals/metrics"
)

type EnrollmentService struct {
	DB *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{DB: db}
}

// Enroll adds every listed student to the subject. Unknown students and
// existing enrollments are skipped; the result is the number of rows
// actually created.
func (s *EnrollmentService) Enroll(ctx context.Context, subjectCode string, req dto.EnrollRequest) (int, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return 0, err
	}
	code := subjectDTO.NormalizeCode(subjectCode)

	created := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := subjectService.Find(tx, code); err != nil {
			return err
		}

		var existing []string
		if err := tx.Model(&studentModel.StudentModel{}).
			Where("student_id IN ?", req.StudentIDs).
			Pluck("student_id", &existing).Error; err != nil {
			return err
		}
		if len(existing) == 0 {
			return nil
		}

		var already []string
		if err := tx.Model(&model.EnrollmentModel{}).
			Where("enrollment_subject_code = ? AND enrollment_student_id IN ?", code, existing).
			Pluck("enrollment_student_id", &already).Error; err != nil {
			return err
		}
		skip := make(map[string]bool, len(already))
		for _, id := range already {
			skip[id] = true
		}

		rows := make([]model.EnrollmentModel, 0, len(existing))
		for _, id := range existing {
			if skip[id] {
				continue
			}
			rows = append(rows, model.EnrollmentModel{EnrollmentStudentID: id, EnrollmentSubjectCode: code})
		}
		if len(rows) == 0 {
			return nil
		}

		// a concurrent enroll of the same pair is a no-op, not an error
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_student_id"}, {Name: "enrollment_subject_code"}},
			DoNothing: true,
		}).Create(&rows)
		if res.Error != nil {
			return apperr.FromDB(res.Error, "enrollment in "+code)
		}
		created = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.Enrollments.WithLabelValues("enroll").Add(float64(created))
	log.Printf("[ENROLLMENTS][ENROLL] %s requested=%d created=%d", code, len(req.StudentIDs), created)
	return created, nil
}

// Unenroll removes a single enrollment. Grades already recorded stay.
func (s *EnrollmentService) Unenroll(ctx context.Context, subjectCode, studentID string) error {
	code := subjectDTO.NormalizeCode(subjectCode)
	studentID = strings.TrimSpace(studentID)

	res := s.DB.WithContext(ctx).
		Where("enrollment_subject_code = ? AND enrollment_student_id = ?", code, studentID).
		Delete(&model.EnrollmentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("student %s is not enrolled in %s", studentID, code)
	}
	metrics.Enrollments.WithLabelValues("unenroll").Inc()
	log.Printf("[ENROLLMENTS][UNENROLL] %s %s", code, studentID)
	return nil
}

// Eligible lists students not yet enrolled in the subject whose
// (course, year level, section) equals the subject's, plus every Irregular
// student. A subject without a course only admits Irregular students.
// The subject comes back too, for the caller's classification summary.
func (s *EnrollmentService) Eligible(ctx context.Context, subjectCode string) (*subjectModel.SubjectModel, []studentModel.StudentModel, error) {
	db := s.DB.WithContext(ctx)
	sub, err := subjectService.Find(db, subjectCode)
	if err != nil {
		return nil, nil, err
	}

	enrolled := db.Model(&model.EnrollmentModel{}).
		Select("enrollment_student_id").
		Where("enrollment_subject_code = ?", sub.SubjectCode)

	q := db.Model(&studentModel.StudentModel{}).Where("student_id NOT IN (?)", enrolled)
	if sub.SubjectCourseAbv != nil {
		q = q.Where(
			db.Where("student_course_abv = ? AND student_year_level = ? AND student_section = ?",
				*sub.SubjectCourseAbv, sub.SubjectYearLevel, sub.SubjectSection).
				Or("student_status = ?", studentModel.StatusIrregular),
		)
	} else {
		q = q.Where("student_status = ?", studentModel.StatusIrregular)
	}

	var rows []studentModel.StudentModel
	if err := q.Order("student_last_name ASC, student_first_name ASC, student_id ASC").Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	return sub, rows, nil
}

// List returns enrollments joined with their students, optionally for one
// subject.
func (s *EnrollmentService) List(ctx context.Context, subjectCode string) ([]dto.EnrollmentRow, error) {
	q := s.DB.WithContext(ctx).
		Table("student_subject_enrollments AS e").
		Select(`e.enrollment_id, e.enrollment_subject_code, e.enrollment_student_id, e.enrollment_created_at,
			st.student_last_name, st.student_first_name, st.student_course_abv,
			st.student_year_level, st.student_section, st.student_status`).
		Joins("JOIN students st ON st.student_id = e.enrollment_student_id")
	if code := subjectDTO.NormalizeCode(subjectCode); code != "" {
		q = q.Where("e.enrollment_subject_code = ?", code)
	}

	var rows []dto.EnrollmentRow
	err := q.Order("e.enrollment_subject_code ASC, st.student_last_name ASC, st.student_first_name ASC").
		Scan(&rows).Error
	return rows, err
}

// EnrolledStudents returns the students currently enrolled in the subject.
func EnrolledStudents(db *gorm.DB, subjectCode string) ([]studentModel.StudentModel, error) {
	var rows []studentModel.StudentModel
	err := db.Model(&studentModel.StudentModel{}).
		Joins("JOIN student_subject_enrollments e ON e.enrollment_student_id = students.student_id").
		Where("e.enrollment_subject_code = ?", subjectCode).
		Order("students.student_last_name ASC, students.student_first_name ASC, students.student_id ASC").
		Find(&rows).Error
	return rows, err
}

// Enrolled returns the subset of ids enrolled in the subject.
func Enrolled(db *gorm.DB, subjectCode string, studentIDs []string) (map[string]bool, error) {
	var ids []string
	if err := db.Model(&model.EnrollmentModel{}).
		Where("enrollment_subject_code = ? AND enrollment_student_id IN ?", subjectCode, studentIDs).
		Pluck("enrollment_student_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
