package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "registrar_backend/internals/features/school/registrar/activities/model"
	subjectDTO "registrar_backend/internals/features/school/registrar/subjects/dto"
	helper "registrar_backend/internals/helpers"
)

/* =========================================================
   CREATE
   ========================================================= */

type CreateActivityRequest struct {
	SubjectCode  string `json:"subject_code"  validate:"required,max=20,subject_code"`
	ActivityType string `json:"activity_type" validate:"required,oneof=Quiz Exam Project Activities"`
	ActivityName string `json:"activity_name" validate:"required,max=100"`
	TotalItems   int    `json:"total_items"   validate:"required,gt=0,max=999"`
}

// NormalizeType maps "quiz", " QUIZ " etc. onto the canonical label.
// Unknown values come back trimmed so validation can report them.
func NormalizeType(s string) string {
	s = strings.TrimSpace(s)
	for _, t := range m.ActivityTypes {
		if strings.EqualFold(s, t) {
			return t
		}
	}
	return s
}

func (r *CreateActivityRequest) Normalize() {
	r.SubjectCode = subjectDTO.NormalizeCode(r.SubjectCode)
	r.ActivityType = NormalizeType(r.ActivityType)
	r.ActivityName = strings.TrimSpace(r.ActivityName)
}

func (r CreateActivityRequest) ToModel() m.ActivityModel {
	return m.ActivityModel{
		ActivitySubjectCode: r.SubjectCode,
		ActivityType:        r.ActivityType,
		ActivityName:        r.ActivityName,
		ActivityTotalItems:  r.TotalItems,
	}
}

/* =========================================================
   PATCH (subject is fixed; move activities by rekeying the subject)
   ========================================================= */

type PatchActivityRequest struct {
	ActivityType helper.PatchField[string] `json:"activity_type"`
	ActivityName helper.PatchField[string] `json:"activity_name"`
	TotalItems   helper.PatchField[int]    `json:"total_items"`
}

func (p PatchActivityRequest) Apply(ent *m.ActivityModel) (CreateActivityRequest, error) {
	if err := helper.ApplyRequired(p.ActivityType, "activity_type", &ent.ActivityType); err != nil {
		return CreateActivityRequest{}, err
	}
	if err := helper.ApplyRequired(p.ActivityName, "activity_name", &ent.ActivityName); err != nil {
		return CreateActivityRequest{}, err
	}
	if err := helper.ApplyRequired(p.TotalItems, "total_items", &ent.ActivityTotalItems); err != nil {
		return CreateActivityRequest{}, err
	}

	req := CreateActivityRequest{
		SubjectCode:  ent.ActivitySubjectCode,
		ActivityType: ent.ActivityType,
		ActivityName: ent.ActivityName,
		TotalItems:   ent.ActivityTotalItems,
	}
	req.Normalize()
	ent.ActivityType = req.ActivityType
	ent.ActivityName = req.ActivityName
	return req, nil
}

/* =========================================================
   RESPONSE
   ========================================================= */

type ActivityResponse struct {
	ActivityID   uuid.UUID `json:"activity_id"`
	SubjectCode  string    `json:"subject_code"`
	ActivityType string    `json:"activity_type"`
	ActivityName string    `json:"activity_name"`
	TotalItems   int       `json:"total_items"`
	PendingCount int64     `json:"pending_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromActivityModel(ent m.ActivityModel, pending int64) ActivityResponse {
	return ActivityResponse{
		ActivityID:   ent.ActivityID,
		SubjectCode:  ent.ActivitySubjectCode,
		ActivityType: ent.ActivityType,
		ActivityName: ent.ActivityName,
		TotalItems:   ent.ActivityTotalItems,
		PendingCount: pending,
		CreatedAt:    ent.ActivityCreatedAt,
		UpdatedAt:    ent.ActivityUpdatedAt,
	}
}

// FromActivityModels pairs each row with pending[activity_id]; missing
// entries count as zero.
func FromActivityModels(rows []m.ActivityModel, pending map[uuid.UUID]int64) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromActivityModel(r, pending[r.ActivityID]))
	}
	return out
}
