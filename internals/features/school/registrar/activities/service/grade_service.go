package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"registrar_backend/internals/features/school/registrar/activities/dto"
	"registrar_backend/internals/features/school/registrar/activities/model"
	enrollmentService "registrar_backend/internals/features/school/registrar/enrollments/service"
	studentDTO "registrar_backend/internals/features/school/registrar/students/dto"
	studentModel "registrar_backend/internals/features/school/registrar/students/model"
	"registrar_backend/internals/helpers/apperr"
	"registrar_backend/internals/helpers/validation"
	"registrar_backend/internals/metrics"
)

// UpsertGrades applies a batch of grades to one activity. "N/A" clears a
// grade, anything else must parse as a number in [0, total_items] and
// needs an enrolled student. The batch is all or nothing.
func (s *ActivityService) UpsertGrades(ctx context.Context, id uuid.UUID, req dto.UpsertGradesRequest) (*dto.UpsertGradesResponse, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Grades))
	seen := make(map[string]bool, len(req.Grades))
	for i, g := range req.Grades {
		if seen[g.StudentID] {
			return nil, apperr.Invalid(fmt.Sprintf("grades[%d].student_id", i), "student "+g.StudentID+" appears more than once")
		}
		seen[g.StudentID] = true
		ids = append(ids, g.StudentID)
	}

	out := &dto.UpsertGradesResponse{ActivityID: id}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		act, err := Find(tx, id)
		if err != nil {
			return err
		}

		var known []string
		if err := tx.Model(&studentModel.StudentModel{}).
			Where("student_id IN ?", ids).
			Pluck("student_id", &known).Error; err != nil {
			return err
		}
		if len(known) != len(ids) {
			have := make(map[string]bool, len(known))
			for _, k := range known {
				have[k] = true
			}
			for _, sid := range ids {
				if !have[sid] {
					return apperr.NotFound("student %s not found", sid)
				}
			}
		}

		var (
			toClear []string
			toSave  []model.GradeModel
		)
		for i, g := range req.Grades {
			if dto.IsNA(g.StudentGrade) {
				toClear = append(toClear, g.StudentID)
				continue
			}
			v, err := dto.ParseGrade(fmt.Sprintf("grades[%d].student_grade", i), g.StudentGrade, act.ActivityTotalItems)
			if err != nil {
				return err
			}
			toSave = append(toSave, model.GradeModel{
				GradeStudentID:  g.StudentID,
				GradeActivityID: act.ActivityID,
				GradeValue:      v,
			})
		}

		// "N/A" clears whatever is left, enrolled or not
		if len(toSave) > 0 {
			saveIDs := make([]string, 0, len(toSave))
			for _, g := range toSave {
				saveIDs = append(saveIDs, g.GradeStudentID)
			}
			enrolled, err := enrollmentService.Enrolled(tx, act.ActivitySubjectCode, saveIDs)
			if err != nil {
				return err
			}
			for _, sid := range saveIDs {
				if !enrolled[sid] {
					return apperr.Integrity("student %s is not enrolled in %s", sid, act.ActivitySubjectCode)
				}
			}
		}

		if len(toClear) > 0 {
			res := tx.Where("grade_activity_id = ? AND grade_student_id IN ?", act.ActivityID, toClear).
				Delete(&model.GradeModel{})
			if res.Error != nil {
				return res.Error
			}
			out.Cleared = int(res.RowsAffected)
		}
		if len(toSave) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "grade_student_id"}, {Name: "grade_activity_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"grade_value", "grade_updated_at"}),
			}).Create(&toSave).Error; err != nil {
				return apperr.FromDB(err, "grade")
			}
			out.Saved = len(toSave)
		}

		out.PendingCount, err = pendingCount(tx, act)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.GradeWrites.WithLabelValues("save").Add(float64(out.Saved))
	metrics.GradeWrites.WithLabelValues("clear").Add(float64(out.Cleared))
	log.Printf("[GRADES][UPSERT] %s saved=%d cleared=%d pending=%d", id, out.Saved, out.Cleared, out.PendingCount)
	return out, nil
}

// GradeSheet lists every student enrolled in the activity's subject with
// their grade, or "N/A" when none is recorded.
func (s *ActivityService) GradeSheet(ctx context.Context, id uuid.UUID) (*dto.GradeSheetResponse, error) {
	db := s.DB.WithContext(ctx)
	act, err := Find(db, id)
	if err != nil {
		return nil, err
	}

	students, err := enrollmentService.EnrolledStudents(db, act.ActivitySubjectCode)
	if err != nil {
		return nil, err
	}
	var grades []model.GradeModel
	if err := db.Where("grade_activity_id = ?", id).Find(&grades).Error; err != nil {
		return nil, err
	}
	byStudent := make(map[string]float64, len(grades))
	for _, g := range grades {
		byStudent[g.GradeStudentID] = g.GradeValue
	}

	var pending int64
	rows := make([]dto.GradeSheetRow, 0, len(students))
	for _, st := range students {
		grade := model.GradeNA
		if v, ok := byStudent[st.StudentID]; ok {
			grade = dto.FormatGrade(v)
		} else {
			pending++
		}
		rows = append(rows, dto.GradeSheetRow{
			StudentID:    st.StudentID,
			FullName:     studentDTO.FullName(st),
			StudentGrade: grade,
		})
	}
	return &dto.GradeSheetResponse{
		Activity: dto.FromActivityModel(*act, pending),
		Rows:     rows,
	}, nil
}
