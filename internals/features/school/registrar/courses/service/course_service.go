package service

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/courses/dto"
	"registrar_backend/internals/features/school/registrar/courses/model"
	sectionModel "registrar_backend/internals/features/school/registrar/sections/model"
	studentModel "registrar_backend/internals/features/school/registrar/students/model"
	subjectModel "registrar_backend/internals/features/school/registrar/subjects/model"
	"registrar_backend/internals/helpers/apperr"
	"registrar_backend/internals/helpers/validation"
	"registrar_backend/internals/metrics"
)

type CourseService struct {
	DB *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{DB: db}
}

type CourseFilter struct {
	Q      string
	Offset int
	Limit  int
}

func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*model.CourseModel, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	if ok, err := Exists(db, req.CourseAbv); err != nil {
		return nil, err
	} else if ok {
		return nil, apperr.Duplicate("course %s already exists", req.CourseAbv)
	}

	ent := req.ToModel()
	if err := db.Create(&ent).Error; err != nil {
		return nil, apperr.FromDB(err, "course "+req.CourseAbv)
	}
	log.Printf("[COURSES][CREATE] %s", ent.CourseAbv)
	return &ent, nil
}

func (s *CourseService) Get(ctx context.Context, abv string) (*model.CourseModel, error) {
	abv = dto.NormalizeAbv(abv)
	var ent model.CourseModel
	if err := s.DB.WithContext(ctx).First(&ent, "course_abv = ?", abv).Error; err != nil {
		return nil, apperr.FromDB(err, "course "+abv)
	}
	return &ent, nil
}

func (s *CourseService) List(ctx context.Context, f CourseFilter) ([]model.CourseModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.CourseModel{})
	if term := strings.TrimSpace(f.Q); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(course_abv) LIKE ? OR LOWER(course_name) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.CourseModel
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Order("course_abv ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update applies a partial change. A new course_abv is handled as a rekey:
// the course is re-created under the new code, students, subjects and
// sections are re-pointed, then the old row is removed, all in one
// transaction.
func (s *CourseService) Update(ctx context.Context, abv string, patch dto.PatchCourseRequest) (*model.CourseModel, error) {
	abv = dto.NormalizeAbv(abv)
	var (
		out     model.CourseModel
		rekeyed bool
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.CourseModel
		if err := tx.First(&cur, "course_abv = ?", abv).Error; err != nil {
			return apperr.FromDB(err, "course "+abv)
		}

		next := cur
		req, err := patch.Apply(&next)
		if err != nil {
			return err
		}
		if err := validation.Struct(req); err != nil {
			return err
		}

		if next.CourseAbv == cur.CourseAbv {
			if err := tx.Model(&model.CourseModel{}).
				Where("course_abv = ?", cur.CourseAbv).
				Updates(map[string]any{"course_name": next.CourseName}).Error; err != nil {
				return apperr.FromDB(err, "course "+cur.CourseAbv)
			}
			return tx.First(&out, "course_abv = ?", cur.CourseAbv).Error
		}

		rekeyed = true
		if err := rekeyCourse(tx, cur.CourseAbv, &next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if rekeyed {
		metrics.ObserveRekey("course", err)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func rekeyCourse(tx *gorm.DB, oldAbv string, next *model.CourseModel) error {
	newAbv := next.CourseAbv
	if ok, err := Exists(tx, newAbv); err != nil {
		return err
	} else if ok {
		return apperr.Duplicate("course %s already exists", newAbv)
	}

	if err := tx.Create(next).Error; err != nil {
		return apperr.FromDB(err, "course "+newAbv)
	}

	if err := tx.Model(&studentModel.StudentModel{}).
		Where("student_course_abv = ?", oldAbv).
		Update("student_course_abv", newAbv).Error; err != nil {
		return err
	}
	if err := tx.Model(&subjectModel.SubjectModel{}).
		Where("subject_course_abv = ?", oldAbv).
		Update("subject_course_abv", newAbv).Error; err != nil {
		return err
	}
	if err := tx.Model(&sectionModel.SectionModel{}).
		Where("section_course_abv = ?", oldAbv).
		Update("section_course_abv", newAbv).Error; err != nil {
		return apperr.FromDB(err, "section of course "+newAbv)
	}

	if err := tx.Where("course_abv = ?", oldAbv).Delete(&model.CourseModel{}).Error; err != nil {
		return err
	}
	log.Printf("[COURSES][REKEY] %s -> %s", oldAbv, newAbv)
	return nil
}

// Delete clears the weak course reference on students and subjects and
// drops the course's sections before removing the course.
func (s *CourseService) Delete(ctx context.Context, abv string) error {
	abv = dto.NormalizeAbv(abv)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ok, err := Exists(tx, abv); err != nil {
			return err
		} else if !ok {
			return apperr.NotFound("course %s not found", abv)
		}

		if err := tx.Model(&studentModel.StudentModel{}).
			Where("student_course_abv = ?", abv).
			Update("student_course_abv", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&subjectModel.SubjectModel{}).
			Where("subject_course_abv = ?", abv).
			Update("subject_course_abv", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("section_course_abv = ?", abv).Delete(&sectionModel.SectionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_abv = ?", abv).Delete(&model.CourseModel{}).Error; err != nil {
			return err
		}
		log.Printf("[COURSES][DELETE] %s", abv)
		return nil
	})
}

// Exists reports whether a course with the given code is stored. Other
// services call it with their own transaction handle.
func Exists(db *gorm.DB, abv string) (bool, error) {
	var n int64
	if err := db.Model(&model.CourseModel{}).Where("course_abv = ?", abv).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
