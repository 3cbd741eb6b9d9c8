package dto

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	m "registrar_backend/internals/features/school/registrar/activities/model"
	"registrar_backend/internals/helpers/apperr"
)

// GradeEntry is one cell of a grade batch. StudentGrade is a decimal string
// or "N/A" to clear the grade.
type GradeEntry struct {
	StudentID    string `json:"student_id"    validate:"required,max=20"`
	StudentGrade string `json:"student_grade" validate:"required"`
}

type UpsertGradesRequest struct {
	Grades []GradeEntry `json:"grades" validate:"required,min=1,dive"`
}

func (r *UpsertGradesRequest) Normalize() {
	for i := range r.Grades {
		r.Grades[i].StudentID = strings.TrimSpace(r.Grades[i].StudentID)
		r.Grades[i].StudentGrade = strings.TrimSpace(r.Grades[i].StudentGrade)
	}
}

// IsNA reports whether v is the "no grade" marker.
func IsNA(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), m.GradeNA)
}

// ParseGrade reads a grade value in [0, total], rounded to two decimals.
func ParseGrade(field, v string, total int) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, apperr.Invalid(field, "grade must be a number or N/A")
	}
	f = math.Round(f*100) / 100
	if f < 0 || f > float64(total) {
		return 0, apperr.Invalid(field, "grade must be between 0 and "+strconv.Itoa(total))
	}
	return f, nil
}

// FormatGrade renders a stored grade without trailing zeros.
func FormatGrade(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type UpsertGradesResponse struct {
	ActivityID   uuid.UUID `json:"activity_id"`
	Saved        int       `json:"saved"`
	Cleared      int       `json:"cleared"`
	PendingCount int64     `json:"pending_count"`
}

// GradeSheetRow is one enrolled student and their grade, "N/A" when none.
type GradeSheetRow struct {
	StudentID    string `json:"student_id"`
	FullName     string `json:"full_name"`
	StudentGrade string `json:"student_grade"`
}

type GradeSheetResponse struct {
	Activity ActivityResponse `json:"activity"`
	Rows     []GradeSheetRow  `json:"rows"`
}
