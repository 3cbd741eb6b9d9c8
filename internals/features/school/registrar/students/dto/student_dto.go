package dto

import (
	"strings"
	"time"

	courseDTO "registrar_backend/internals/features/school/registrar/courses/dto"
	m "registrar_backend/internals/features/school/registrar/students/model"
	helper "registrar_backend/internals/helpers"
	"registrar_backend/internals/helpers/dbtime"
	"registrar_backend/internals/helpers/validation"
)

/* =========================================================
   CREATE
   ========================================================= */

type CreateStudentRequest struct {
	StudentID  string  `json:"student_id"  validate:"required,max=20,student_id"`
	LastName   string  `json:"last_name"   validate:"required,max=100"`
	FirstName  string  `json:"first_name"  validate:"required,max=100"`
	MiddleName *string `json:"middle_name" validate:"omitempty,max=100"`
	CourseAbv  *string `json:"course_abv"  validate:"omitempty,max=10,course_abv"`
	YearLevel  int     `json:"year_level"  validate:"required,min=1,max=4"`
	Section    string  `json:"section"     validate:"omitempty,max=20,section_name"`
	Status     string  `json:"status"      validate:"required,oneof=Regular Irregular"`
}

func (r *CreateStudentRequest) Normalize() {
	r.StudentID = strings.TrimSpace(r.StudentID)
	r.LastName = strings.TrimSpace(r.LastName)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.MiddleName = trimPtr(r.MiddleName)
	if r.CourseAbv = trimPtr(r.CourseAbv); r.CourseAbv != nil {
		v := courseDTO.NormalizeAbv(*r.CourseAbv)
		r.CourseAbv = &v
	}
	r.Section = validation.NormalizeSection(r.Section)
	r.Status = NormalizeStatus(r.Status)
}

func (r CreateStudentRequest) ToModel() m.StudentModel {
	return m.StudentModel{
		StudentID:         r.StudentID,
		StudentLastName:   r.LastName,
		StudentFirstName:  r.FirstName,
		StudentMiddleName: r.MiddleName,
		StudentCourseAbv:  r.CourseAbv,
		StudentYearLevel:  r.YearLevel,
		StudentSection:    r.Section,
		StudentStatus:     r.Status,
		StudentDateAdded:  dbtime.Today(),
	}
}

// NormalizeStatus maps any casing of regular/irregular onto the stored
// value; empty means Regular.
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return m.StatusRegular
	case strings.EqualFold(s, m.StatusRegular):
		return m.StatusRegular
	case strings.EqualFold(s, m.StatusIrregular):
		return m.StatusIrregular
	}
	return s
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// FromStudentModelToRequest rebuilds the validated shape from a stored row.
func FromStudentModelToRequest(ent m.StudentModel) CreateStudentRequest {
	return CreateStudentRequest{
		StudentID:  ent.StudentID,
		LastName:   ent.StudentLastName,
		FirstName:  ent.StudentFirstName,
		MiddleName: ent.StudentMiddleName,
		CourseAbv:  ent.StudentCourseAbv,
		YearLevel:  ent.StudentYearLevel,
		Section:    ent.StudentSection,
		Status:     ent.StudentStatus,
	}
}

/* =========================================================
   PATCH (rekey-aware). date_added is not patchable.
   ========================================================= */

type PatchStudentRequest struct {
	StudentID  helper.PatchField[string] `json:"student_id"`
	LastName   helper.PatchField[string] `json:"last_name"`
	FirstName  helper.PatchField[string] `json:"first_name"`
	MiddleName helper.PatchField[string] `json:"middle_name"`
	CourseAbv  helper.PatchField[string] `json:"course_abv"`
	YearLevel  helper.PatchField[int]    `json:"year_level"`
	Section    helper.PatchField[string] `json:"section"`
	Status     helper.PatchField[string] `json:"status"`
}

// Apply writes the patch onto ent and returns the normalized result for
// validation. ent is updated with the normalized values.
func (p PatchStudentRequest) Apply(ent *m.StudentModel) (CreateStudentRequest, error) {
	if err := helper.ApplyRequired(p.StudentID, "student_id", &ent.StudentID); err != nil {
		return CreateStudentRequest{}, err
	}
	if err := helper.ApplyRequired(p.LastName, "last_name", &ent.StudentLastName); err != nil {
		return CreateStudentRequest{}, err
	}
	if err := helper.ApplyRequired(p.FirstName, "first_name", &ent.StudentFirstName); err != nil {
		return CreateStudentRequest{}, err
	}
	helper.ApplyOptional(p.MiddleName, &ent.StudentMiddleName)
	helper.ApplyOptional(p.CourseAbv, &ent.StudentCourseAbv)
	if err := helper.ApplyRequired(p.YearLevel, "year_level", &ent.StudentYearLevel); err != nil {
		return CreateStudentRequest{}, err
	}
	if err := helper.ApplyRequired(p.Section, "section", &ent.StudentSection); err != nil {
		return CreateStudentRequest{}, err
	}
	if err := helper.ApplyRequired(p.Status, "status", &ent.StudentStatus); err != nil {
		return CreateStudentRequest{}, err
	}

	req := FromStudentModelToRequest(*ent)
	req.Normalize()

	ent.StudentID = req.StudentID
	ent.StudentLastName = req.LastName
	ent.StudentFirstName = req.FirstName
	ent.StudentMiddleName = req.MiddleName
	ent.StudentCourseAbv = req.CourseAbv
	ent.StudentSection = req.Section
	ent.StudentStatus = req.Status
	return req, nil
}

/* =========================================================
   RESPONSE
   ========================================================= */

type StudentResponse struct {
	StudentID  string    `json:"student_id"`
	LastName   string    `json:"last_name"`
	FirstName  string    `json:"first_name"`
	MiddleName *string   `json:"middle_name"`
	FullName   string    `json:"full_name"`
	CourseAbv  *string   `json:"course_abv"`
	YearLevel  int       `json:"year_level"`
	Section    string    `json:"section"`
	Status     string    `json:"status"`
	DateAdded  string    `json:"date_added"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FullName(ent m.StudentModel) string {
	name := ent.StudentLastName + ", " + ent.StudentFirstName
	if ent.StudentMiddleName != nil && *ent.StudentMiddleName != "" {
		name += " " + *ent.StudentMiddleName
	}
	return name
}

func FromStudentModel(ent m.StudentModel) StudentResponse {
	return StudentResponse{
		StudentID:  ent.StudentID,
		LastName:   ent.StudentLastName,
		FirstName:  ent.StudentFirstName,
		MiddleName: ent.StudentMiddleName,
		FullName:   FullName(ent),
		CourseAbv:  ent.StudentCourseAbv,
		YearLevel:  ent.StudentYearLevel,
		Section:    ent.StudentSection,
		Status:     ent.StudentStatus,
		DateAdded:  dbtime.FormatDate(ent.StudentDateAdded),
		UpdatedAt:  ent.StudentUpdatedAt,
	}
}

func FromStudentModels(rows []m.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromStudentModel(r))
	}
	return out
}
