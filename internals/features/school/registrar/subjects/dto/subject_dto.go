package dto

import (
	"strings"
	"time"

	courseDTO "registrar_backend/internals/features/school/registrar/courses/dto"
	m "registrar_backend/internals/features/school/registrar/subjects/model"
	helper "registrar_backend/internals/helpers"
	"registrar_backend/internals/helpers/dbtime"
	"registrar_backend/internals/helpers/validation"
)

/* =========================================================
   CREATE
   ========================================================= */

type CreateSubjectRequest struct {
	SubjectCode  string  `json:"subject_code"  validate:"required,max=20,subject_code"`
	SubjectTitle string  `json:"subject_title" validate:"required,max=100"`
	CourseAbv    *string `json:"course_abv"    validate:"omitempty,max=10,course_abv"`
	SchoolYear   string  `json:"school_year"   validate:"required,school_year"`
	Semester     int     `json:"semester"      validate:"required,oneof=1 2 3"`
	YearLevel    int     `json:"year_level"    validate:"required,min=1,max=4"`
	Section      string  `json:"section"       validate:"omitempty,max=20,section_name"`
}

// NormalizeCode trims and uppercases a subject code.
func NormalizeCode(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func (r *CreateSubjectRequest) Normalize() {
	r.SubjectCode = NormalizeCode(r.SubjectCode)
	r.SubjectTitle = strings.TrimSpace(r.SubjectTitle)
	if r.CourseAbv != nil {
		v := courseDTO.NormalizeAbv(*r.CourseAbv)
		if v == "" {
			r.CourseAbv = nil
		} else {
			r.CourseAbv = &v
		}
	}
	r.SchoolYear = strings.TrimSpace(r.SchoolYear)
	r.Section = validation.NormalizeSection(r.Section)
}

func (r CreateSubjectRequest) ToModel() m.SubjectModel {
	return m.SubjectModel{
		SubjectCode:       r.SubjectCode,
		SubjectTitle:      r.SubjectTitle,
		SubjectCourseAbv:  r.CourseAbv,
		SubjectSchoolYear: r.SchoolYear,
		SubjectSemester:   r.Semester,
		SubjectYearLevel:  r.YearLevel,
		SubjectSection:    r.Section,
		SubjectIsActive:   true,
	}
}

func fromModelToRequest(ent m.SubjectModel) CreateSubjectRequest {
	return CreateSubjectRequest{
		SubjectCode:  ent.SubjectCode,
		SubjectTitle: ent.SubjectTitle,
		CourseAbv:    ent.SubjectCourseAbv,
		SchoolYear:   ent.SubjectSchoolYear,
		Semester:     ent.SubjectSemester,
		YearLevel:    ent.SubjectYearLevel,
		Section:      ent.SubjectSection,
	}
}

/* =========================================================
   PATCH (rekey-aware). Archive state has its own endpoints.
   ========================================================= */

type PatchSubjectRequest struct {
	SubjectCode  helper.PatchField[string] `json:"subject_code"`
	SubjectTitle helper.PatchField[string] `json:"subject_title"`
	CourseAbv    helper.PatchField[string] `json:"course_abv"`
	SchoolYear   helper.PatchField[string] `json:"school_year"`
	Semester     helper.PatchField[int]    `json:"semester"`
	YearLevel    helper.PatchField[int]    `json:"year_level"`
	Section      helper.PatchField[string] `json:"section"`
}

func (p PatchSubjectRequest) Apply(ent *m.SubjectModel) (CreateSubjectRequest, error) {
	steps := []func() error{
		func() error { return helper.ApplyRequired(p.SubjectCode, "subject_code", &ent.SubjectCode) },
		func() error { return helper.ApplyRequired(p.SubjectTitle, "subject_title", &ent.SubjectTitle) },
		func() error { helper.ApplyOptional(p.CourseAbv, &ent.SubjectCourseAbv); return nil },
		func() error { return helper.ApplyRequired(p.SchoolYear, "school_year", &ent.SubjectSchoolYear) },
		func() error { return helper.ApplyRequired(p.Semester, "semester", &ent.SubjectSemester) },
		func() error { return helper.ApplyRequired(p.YearLevel, "year_level", &ent.SubjectYearLevel) },
		func() error { return helper.ApplyRequired(p.Section, "section", &ent.SubjectSection) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return CreateSubjectRequest{}, err
		}
	}

	req := fromModelToRequest(*ent)
	req.Normalize()
	ent.SubjectCode = req.SubjectCode
	ent.SubjectTitle = req.SubjectTitle
	ent.SubjectCourseAbv = req.CourseAbv
	ent.SubjectSchoolYear = req.SchoolYear
	ent.SubjectSection = req.Section
	return req, nil
}

/* =========================================================
   RESPONSE
   ========================================================= */

type SubjectResponse struct {
	SubjectCode   string    `json:"subject_code"`
	SubjectTitle  string    `json:"subject_title"`
	CourseAbv     *string   `json:"course_abv"`
	SchoolYear    string    `json:"school_year"`
	Semester      int       `json:"semester"`
	SemesterLabel string    `json:"semester_label"`
	YearLevel     int       `json:"year_level"`
	Section       string    `json:"section"`
	IsActive      bool      `json:"is_active"`
	ArchivedDate  *string   `json:"archived_date"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromSubjectModel(ent m.SubjectModel) SubjectResponse {
	return SubjectResponse{
		SubjectCode:   ent.SubjectCode,
		SubjectTitle:  ent.SubjectTitle,
		CourseAbv:     ent.SubjectCourseAbv,
		SchoolYear:    ent.SubjectSchoolYear,
		Semester:      ent.SubjectSemester,
		SemesterLabel: m.SemesterLabels[ent.SubjectSemester],
		YearLevel:     ent.SubjectYearLevel,
		Section:       ent.SubjectSection,
		IsActive:      ent.SubjectIsActive,
		ArchivedDate:  dbtime.FormatDatePtr(ent.SubjectArchivedDate),
		UpdatedAt:     ent.SubjectUpdatedAt,
	}
}

func FromSubjectModels(rows []m.SubjectModel) []SubjectResponse {
	out := make([]SubjectResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromSubjectModel(r))
	}
	return out
}
