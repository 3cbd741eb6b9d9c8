package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	courseModel "registrar_backend/internals/features/school/registrar/courses/model"
	"registrar_backend/internals/features/school/registrar/enrollments/dto"
	"registrar_backend/internals/features/school/registrar/enrollments/model"
	studentModel "registrar_backend/internals/features/school/registrar/students/model"
	subjectModel "registrar_backend/internals/features/school/registrar/subjects/model"
	"registrar_backend/internals/helpers/apperr"
	"registrar_backend/internals/helpers/dbtime"
	"registrar_backend/internals/testutil"
)

func strPtr(s string) *string { return &s }

func student(id, last string, course *string, year int, section, status string) studentModel.StudentModel {
	return studentModel.StudentModel{
		StudentID:        id,
		StudentLastName:  last,
		StudentFirstName: "X",
		StudentCourseAbv: course,
		StudentYearLevel: year,
		StudentSection:   section,
		StudentStatus:    status,
		StudentDateAdded: dbtime.Today(),
	}
}

func setup(t *testing.T) (*EnrollmentService, *gorm.DB) {
	db := testutil.NewDB(t)
	for _, abv := range []string{"BSIT", "BSCS"} {
		require.NoError(t, db.Create(&courseModel.CourseModel{CourseAbv: abv, CourseName: abv}).Error)
	}
	for _, code := range []string{"COMP101", "GENED1"} {
		sub := subjectModel.SubjectModel{
			SubjectCode:       code,
			SubjectTitle:      code,
			SubjectSchoolYear: "2024-2025",
			SubjectSemester:   1,
			SubjectYearLevel:  1,
			SubjectSection:    "A",
			SubjectIsActive:   true,
		}
		if code == "COMP101" {
			sub.SubjectCourseAbv = strPtr("BSIT")
		}
		require.NoError(t, db.Create(&sub).Error)
	}
	rows := []studentModel.StudentModel{
		student("2021-001", "Abad", strPtr("BSIT"), 1, "A", studentModel.StatusRegular),
		student("2021-002", "Bautista", strPtr("BSIT"), 1, "B", studentModel.StatusRegular),
		student("2021-003", "Cruz", strPtr("BSCS"), 2, "A", studentModel.StatusIrregular),
		student("2021-004", "Dizon", nil, 1, "A", studentModel.StatusRegular),
	}
	require.NoError(t, db.Create(&rows).Error)
	return NewEnrollmentService(db), db
}

func TestEnrollIsIdempotent(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	n, err := svc.Enroll(ctx, "comp101", dto.EnrollRequest{StudentIDs: []string{"2021-001", " 2021-001 ", "2021-003"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Enroll(ctx, "COMP101", dto.EnrollRequest{StudentIDs: []string{"2021-001", "2021-002", "2099-999"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only 2021-002 is new; unknown ids are skipped")

	var total int64
	require.NoError(t, db.Model(&model.EnrollmentModel{}).Count(&total).Error)
	assert.EqualValues(t, 3, total)
}

func TestEnrollRejectsBadInput(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "COMP101", dto.EnrollRequest{StudentIDs: []string{" ", ""}})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Enroll(ctx, "NOPE", dto.EnrollRequest{StudentIDs: []string{"2021-001"}})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestEligibleStudents(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	sub, rows, err := svc.Eligible(ctx, "COMP101")
	require.NoError(t, err)
	assert.Equal(t, "COMP101", sub.SubjectCode)
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.StudentID)
	}
	// same classification plus every irregular student
	assert.Equal(t, []string{"2021-001", "2021-003"}, ids)

	_, err = svc.Enroll(ctx, "COMP101", dto.EnrollRequest{StudentIDs: []string{"2021-001"}})
	require.NoError(t, err)
	_, rows, err = svc.Eligible(ctx, "COMP101")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2021-003", rows[0].StudentID)

	// no course on the subject: irregular students only
	sub, rows, err = svc.Eligible(ctx, "gened1")
	require.NoError(t, err)
	assert.Nil(t, sub.SubjectCourseAbv)
	require.Len(t, rows, 1)
	assert.Equal(t, "2021-003", rows[0].StudentID)

	_, _, err = svc.Eligible(ctx, "NOPE")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUnenroll(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	_, err := svc.Enroll(ctx, "COMP101", dto.EnrollRequest{StudentIDs: []string{"2021-001", "2021-002"}})
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(ctx, "comp101", "2021-001"))
	assert.True(t, errors.Is(svc.Unenroll(ctx, "COMP101", "2021-001"), apperr.ErrNotFound))

	rows, err := EnrolledStudents(db, "COMP101")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2021-002", rows[0].StudentID)

	set, err := Enrolled(db, "COMP101", []string{"2021-001", "2021-002"})
	require.NoError(t, err)
	assert.False(t, set["2021-001"])
	assert.True(t, set["2021-002"])
}

func TestListEnrollments(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Enroll(ctx, "COMP101", dto.EnrollRequest{StudentIDs: []string{"2021-002", "2021-001"}})
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, "GENED1", dto.EnrollRequest{StudentIDs: []string{"2021-003"}})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rows, err := svc.List(ctx, "comp101")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Abad", rows[0].LastName)
	assert.Equal(t, "COMP101", rows[0].SubjectCode)
}
