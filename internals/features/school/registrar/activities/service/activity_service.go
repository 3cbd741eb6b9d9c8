package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/activities/dto"
	"registrar_backend/internals/features/school/registrar/activities/model"
	subjectDTO "registrar_backend/internals/features/school/registrar/subjects/dto"
	subjectService "registrar_backend/internals/features/school/registrar/subjects/service"
	"registrar_backend/internals/helpers/apperr"
	"registrar_backend/internals/helpers/validation"
)

type ActivityService struct {
	DB *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{DB: db}
}

func (s *ActivityService) Create(ctx context.Context, req dto.CreateActivityRequest) (*model.ActivityModel, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ent := req.ToModel()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := subjectService.Find(tx, ent.ActivitySubjectCode); err != nil {
			return err
		}
		return tx.Create(&ent).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[ACTIVITIES][CREATE] %s %s %q total=%d", ent.ActivityID, ent.ActivitySubjectCode, ent.ActivityName, ent.ActivityTotalItems)
	return &ent, nil
}

func (s *ActivityService) Get(ctx context.Context, id uuid.UUID) (*model.ActivityModel, error) {
	return Find(s.DB.WithContext(ctx), id)
}

func Find(db *gorm.DB, id uuid.UUID) (*model.ActivityModel, error) {
	var ent model.ActivityModel
	if err := db.First(&ent, "activity_id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err, "activity "+id.String())
	}
	return &ent, nil
}

// List returns activities oldest first, optionally for one subject. An
// unknown subject is NotFound rather than an empty list.
func (s *ActivityService) List(ctx context.Context, subjectCode string) ([]model.ActivityModel, error) {
	db := s.DB.WithContext(ctx)
	q := db.Model(&model.ActivityModel{})
	if code := subjectDTO.NormalizeCode(subjectCode); code != "" {
		if _, err := subjectService.Find(db, code); err != nil {
			return nil, err
		}
		q = q.Where("activity_subject_code = ?", code)
	}
	var rows []model.ActivityModel
	err := q.Order("activity_subject_code ASC, activity_created_at ASC, activity_name ASC").Find(&rows).Error
	return rows, err
}

// Update changes type, name or total_items. total_items may not drop below
// a grade already recorded for the activity.
func (s *ActivityService) Update(ctx context.Context, id uuid.UUID, patch dto.PatchActivityRequest) (*model.ActivityModel, error) {
	var out model.ActivityModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := Find(tx, id)
		if err != nil {
			return err
		}
		next := *cur
		req, err := patch.Apply(&next)
		if err != nil {
			return err
		}
		if err := validation.Struct(req); err != nil {
			return err
		}

		if next.ActivityTotalItems < cur.ActivityTotalItems {
			var top sql.NullFloat64
			if err := tx.Model(&model.GradeModel{}).
				Where("grade_activity_id = ?", id).
				Select("MAX(grade_value)").
				Row().Scan(&top); err != nil {
				return err
			}
			if top.Valid && top.Float64 > float64(next.ActivityTotalItems) {
				return apperr.Integrity("total_items %d is below an existing grade of %s",
					next.ActivityTotalItems, dto.FormatGrade(top.Float64))
			}
		}

		if err := tx.Model(&model.ActivityModel{}).
			Where("activity_id = ?", id).
			Updates(map[string]any{
				"activity_type":        next.ActivityType,
				"activity_name":        next.ActivityName,
				"activity_total_items": next.ActivityTotalItems,
			}).Error; err != nil {
			return err
		}
		return tx.First(&out, "activity_id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the activity and its grades.
func (s *ActivityService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := Find(tx, id); err != nil {
			return err
		}
		g := tx.Where("grade_activity_id = ?", id).Delete(&model.GradeModel{})
		if g.Error != nil {
			return g.Error
		}
		if err := tx.Where("activity_id = ?", id).Delete(&model.ActivityModel{}).Error; err != nil {
			return err
		}
		log.Printf("[ACTIVITIES][DELETE] %s (grades=%d)", id, g.RowsAffected)
		return nil
	})
}

// PendingCount is the number of students enrolled in the activity's subject
// who have no grade for it yet.
func (s *ActivityService) PendingCount(ctx context.Context, id uuid.UUID) (int64, error) {
	db := s.DB.WithContext(ctx)
	act, err := Find(db, id)
	if err != nil {
		return 0, err
	}
	return pendingCount(db, act)
}

func pendingCount(db *gorm.DB, act *model.ActivityModel) (int64, error) {
	counts, err := PendingCounts(db, []uuid.UUID{act.ActivityID})
	if err != nil {
		return 0, err
	}
	return counts[act.ActivityID], nil
}

// PendingCounts computes the pending count for many activities in one query.
// Only grades of students currently enrolled in the subject are counted, so
// an unenrolled student's leftover grade never makes the value negative.
func PendingCounts(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		ActivityID uuid.UUID
		Pending    int64
	}
	err := db.Table("activities AS a").
		Select(`a.activity_id AS activity_id,
			(SELECT COUNT(*) FROM student_subject_enrollments e
			  WHERE e.enrollment_subject_code = a.activity_subject_code)
			-
			(SELECT COUNT(*) FROM grades g
			  JOIN student_subject_enrollments e
			    ON e.enrollment_student_id = g.grade_student_id
			   AND e.enrollment_subject_code = a.activity_subject_code
			  WHERE g.grade_activity_id = a.activity_id) AS pending`).
		Where("a.activity_id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("pending counts: %w", err)
	}
	for _, r := range rows {
		out[r.ActivityID] = r.Pending
	}
	return out, nil
}

// ActivityIDs collects the ids of rows, in order.
func ActivityIDs(rows []model.ActivityModel) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ActivityID)
	}
	return ids
}
