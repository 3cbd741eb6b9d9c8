package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	studentDTO "registrar_backend/internals/features/school/registrar/students/dto"
	studentModel "registrar_backend/internals/features/school/registrar/students/model"
)

type EnrollRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,dive,required,max=20"`
}

// Normalize trims ids and drops blanks and repeats, keeping order.
func (r *EnrollRequest) Normalize() {
	seen := make(map[string]bool, len(r.StudentIDs))
	out := make([]string, 0, len(r.StudentIDs))
	for _, id := range r.StudentIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	r.StudentIDs = out
}

type EnrollResponse struct {
	SubjectCode string `json:"subject_code"`
	Requested   int    `json:"requested"`
	Enrolled    int    `json:"enrolled"`
}

// EnrollmentRow is one enrollment joined with its student.
type EnrollmentRow struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"   gorm:"column:enrollment_id"`
	SubjectCode  string    `json:"subject_code"    gorm:"column:enrollment_subject_code"`
	StudentID    string    `json:"student_id"      gorm:"column:enrollment_student_id"`
	LastName     string    `json:"last_name"       gorm:"column:student_last_name"`
	FirstName    string    `json:"first_name"      gorm:"column:student_first_name"`
	CourseAbv    *string   `json:"course_abv"      gorm:"column:student_course_abv"`
	YearLevel    int       `json:"year_level"      gorm:"column:student_year_level"`
	Section      string    `json:"section"         gorm:"column:student_section"`
	Status       string    `json:"status"          gorm:"column:student_status"`
	EnrolledAt   time.Time `json:"enrolled_at"     gorm:"column:enrollment_created_at"`
}

type EligibleStudentResponse struct {
	studentDTO.StudentResponse
	// MatchedBy is "classification" or "irregular"
	MatchedBy string `json:"matched_by"`
}

func FromEligible(rows []studentModel.StudentModel, courseAbv *string, yearLevel int, section string) []EligibleStudentResponse {
	out := make([]EligibleStudentResponse, 0, len(rows))
	for _, r := range rows {
		by := "irregular"
		if courseAbv != nil && r.StudentCourseAbv != nil && *r.StudentCourseAbv == *courseAbv &&
			r.StudentYearLevel == yearLevel && r.StudentSection == section {
			by = "classification"
		}
		out = append(out, EligibleStudentResponse{StudentResponse: studentDTO.FromStudentModel(r), MatchedBy: by})
	}
	return out
}
