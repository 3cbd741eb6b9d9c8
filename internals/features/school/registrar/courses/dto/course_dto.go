package dto

import (
	"strings"
	"time"

	m "registrar_backend/internals/features/school/registrar/courses/model"
	helper "registrar_backend/internals/helpers"
)

/* =========================================================
   CREATE
   ========================================================= */

type CreateCourseRequest struct {
	CourseAbv  string `json:"course_abv"  validate:"required,max=10,course_abv"`
	CourseName string `json:"course_name" validate:"required,max=100"`
}

func (r *CreateCourseRequest) Normalize() {
	r.CourseAbv = NormalizeAbv(r.CourseAbv)
	r.CourseName = strings.TrimSpace(r.CourseName)
}

func (r CreateCourseRequest) ToModel() m.CourseModel {
	return m.CourseModel{
		CourseAbv:  r.CourseAbv,
		CourseName: r.CourseName,
	}
}

// NormalizeAbv trims and uppercases a course abbreviation.
func NormalizeAbv(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

/* =========================================================
   PATCH (rekey-aware)
   ========================================================= */

type PatchCourseRequest struct {
	CourseAbv  helper.PatchField[string] `json:"course_abv"`
	CourseName helper.PatchField[string] `json:"course_name"`
}

// Apply writes the patch onto a copy of the stored course and returns a
// create request describing the result, ready for validation.
func (p PatchCourseRequest) Apply(ent *m.CourseModel) (CreateCourseRequest, error) {
	if err := helper.ApplyRequired(p.CourseAbv, "course_abv", &ent.CourseAbv); err != nil {
		return CreateCourseRequest{}, err
	}
	if err := helper.ApplyRequired(p.CourseName, "course_name", &ent.CourseName); err != nil {
		return CreateCourseRequest{}, err
	}
	req := CreateCourseRequest{CourseAbv: ent.CourseAbv, CourseName: ent.CourseName}
	req.Normalize()
	ent.CourseAbv = req.CourseAbv
	ent.CourseName = req.CourseName
	return req, nil
}

/* =========================================================
   RESPONSE
   ========================================================= */

type CourseResponse struct {
	CourseAbv  string    `json:"course_abv"`
	CourseName string    `json:"course_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromCourseModel(ent m.CourseModel) CourseResponse {
	return CourseResponse{
		CourseAbv:  ent.CourseAbv,
		CourseName: ent.CourseName,
		CreatedAt:  ent.CourseCreatedAt,
		UpdatedAt:  ent.CourseUpdatedAt,
	}
}

func FromCourseModels(rows []m.CourseModel) []CourseResponse {
	out := make([]CourseResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromCourseModel(r))
	}
	return out
}
