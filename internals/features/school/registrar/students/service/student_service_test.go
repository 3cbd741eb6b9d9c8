package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	activityModel "registrar_backend/internals/features/school/registrar/activities/model"
	courseModel "registrar_backend/internals/features/school/registrar/courses/model"
	enrollmentModel "registrar_backend/internals/features/school/registrar/enrollments/model"
	sectionModel "registrar_backend/internals/features/school/registrar/sections/model"
	"registrar_backend/internals/features/school/registrar/students/dto"
	"registrar_backend/internals/features/school/registrar/students/model"
	helper "registrar_backend/internals/helpers"
	"registrar_backend/internals/helpers/apperr"
	"registrar_backend/internals/testutil"
)

func setup(t *testing.T) (*StudentService, *gorm.DB) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&courseModel.CourseModel{CourseAbv: "BSIT", CourseName: "BS Information Technology"}).Error)
	return NewStudentService(db, false), db
}

func strPtr(s string) *string { return &s }

func newStudent(id string) dto.CreateStudentRequest {
	return dto.CreateStudentRequest{
		StudentID: id,
		LastName:  "Santos",
		FirstName: "Ana",
		CourseAbv: strPtr("bsit"),
		YearLevel: 1,
		Section:   "a",
	}
}

func TestCreateStudent(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	st, err := svc.Create(ctx, newStudent("2021-001"))
	require.NoError(t, err)
	assert.Equal(t, "BSIT", *st.StudentCourseAbv)
	assert.Equal(t, "A", st.StudentSection)
	assert.Equal(t, model.StatusRegular, st.StudentStatus)
	assert.False(t, time.Time(st.StudentDateAdded).IsZero())

	_, err = svc.Create(ctx, newStudent("2021-001"))
	assert.True(t, errors.Is(err, apperr.ErrDuplicateKey))

	tests := []struct {
		name   string
		mutate func(r *dto.CreateStudentRequest)
		want   error
	}{
		{"year level 5", func(r *dto.CreateStudentRequest) { r.YearLevel = 5 }, apperr.ErrValidation},
		{"year level 0", func(r *dto.CreateStudentRequest) { r.YearLevel = 0 }, apperr.ErrValidation},
		{"bad status", func(r *dto.CreateStudentRequest) { r.Status = "Transferee" }, apperr.ErrValidation},
		{"missing name", func(r *dto.CreateStudentRequest) { r.FirstName = " " }, apperr.ErrValidation},
		{"bad id", func(r *dto.CreateStudentRequest) { r.StudentID = "2021 002" }, apperr.ErrValidation},
		{"unknown course", func(r *dto.CreateStudentRequest) { r.CourseAbv = strPtr("BSCS") }, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newStudent("2021-009")
			tt.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCreateStudentStrictSections(t *testing.T) {
	svc, db := setup(t)
	svc.StrictSections = true
	ctx := context.Background()

	_, err := svc.Create(ctx, newStudent("2021-001"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	require.NoError(t, db.Create(&sectionModel.SectionModel{SectionCourseAbv: "BSIT", SectionYearLevel: 1, SectionName: "A"}).Error)
	_, err = svc.Create(ctx, newStudent("2021-001"))
	assert.NoError(t, err)

	// no course, nothing to check
	req := newStudent("2021-002")
	req.CourseAbv = nil
	req.Section = "Z"
	_, err = svc.Create(ctx, req)
	assert.NoError(t, err)
}

func TestUpdateStudentFields(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, newStudent("2021-001"))
	require.NoError(t, err)

	st, err := svc.Update(ctx, "2021-001", dto.PatchStudentRequest{
		MiddleName: helper.Patch("Cruz"),
		Status:     helper.Patch("irregular"),
		CourseAbv:  helper.PatchNull[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cruz", *st.StudentMiddleName)
	assert.Equal(t, model.StatusIrregular, st.StudentStatus)
	assert.Nil(t, st.StudentCourseAbv)
	assert.Equal(t, "Santos", st.StudentLastName)

	_, err = svc.Update(ctx, "2021-001", dto.PatchStudentRequest{YearLevel: helper.Patch(7)})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Update(ctx, "2021-404", dto.PatchStudentRequest{YearLevel: helper.Patch(2)})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRekeyStudentMovesEnrollmentsAndGrades(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	orig, err := svc.Create(ctx, newStudent("2021-001"))
	require.NoError(t, err)

	// backdate so the test can tell whether date_added survives
	past := datatypes.Date(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, db.Model(&model.StudentModel{}).Where("student_id = ?", orig.StudentID).
		Update("student_date_added", past).Error)

	actID := uuid.New()
	require.NoError(t, db.Create(&enrollmentModel.EnrollmentModel{EnrollmentStudentID: "2021-001", EnrollmentSubjectCode: "COMP101"}).Error)
	require.NoError(t, db.Create(&activityModel.GradeModel{GradeStudentID: "2021-001", GradeActivityID: actID, GradeValue: 8}).Error)

	st, err := svc.Update(ctx, "2021-001", dto.PatchStudentRequest{
		StudentID: helper.Patch("2021-100"),
		FirstName: helper.Patch("Anna"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2021-100", st.StudentID)
	assert.Equal(t, "Anna", st.StudentFirstName)

	got, err := svc.Get(ctx, "2021-100")
	require.NoError(t, err)
	assert.Equal(t, "2021-06-01", time.Time(got.StudentDateAdded).Format("2006-01-02"))

	_, err = svc.Get(ctx, "2021-001")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	var n int64
	require.NoError(t, db.Model(&enrollmentModel.EnrollmentModel{}).Where("enrollment_student_id = ?", "2021-100").Count(&n).Error)
	assert.EqualValues(t, 1, n)
	require.NoError(t, db.Model(&activityModel.GradeModel{}).Where("grade_student_id = ?", "2021-100").Count(&n).Error)
	assert.EqualValues(t, 1, n)
	require.NoError(t, db.Model(&activityModel.GradeModel{}).Where("grade_student_id = ?", "2021-001").Count(&n).Error)
	assert.Zero(t, n)
}

func TestRekeyStudentKeepsEveryColumn(t *testing.T) {
	tests := []struct {
		name string
		req  func() dto.CreateStudentRequest
	}{
		{"regular with course", func() dto.CreateStudentRequest { return newStudent("2021-001") }},
		{"middle name, irregular", func() dto.CreateStudentRequest {
			r := newStudent("2021-001")
			r.MiddleName = strPtr("Cruz")
			r.Status = model.StatusIrregular
			r.YearLevel = 3
			return r
		}},
		{"no course", func() dto.CreateStudentRequest {
			r := newStudent("2021-001")
			r.CourseAbv = nil
			r.Section = ""
			return r
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := setup(t)
			ctx := context.Background()
			_, err := svc.Create(ctx, tt.req())
			require.NoError(t, err)
			past := datatypes.Date(time.Date(2020, 8, 15, 0, 0, 0, 0, time.UTC))
			require.NoError(t, db.Model(&model.StudentModel{}).Where("student_id = ?", "2021-001").
				Update("student_date_added", past).Error)

			var before model.StudentModel
			require.NoError(t, db.First(&before, "student_id = ?", "2021-001").Error)

			_, err = svc.Update(ctx, "2021-001", dto.PatchStudentRequest{StudentID: helper.Patch("2021-900")})
			require.NoError(t, err)

			var after model.StudentModel
			require.NoError(t, db.First(&after, "student_id = ?", "2021-900").Error)
			_, err = svc.Get(ctx, "2021-001")
			assert.True(t, errors.Is(err, apperr.ErrNotFound))

			assert.Equal(t, before.StudentLastName, after.StudentLastName)
			assert.Equal(t, before.StudentFirstName, after.StudentFirstName)
			assert.Equal(t, before.StudentMiddleName, after.StudentMiddleName)
			assert.Equal(t, before.StudentCourseAbv, after.StudentCourseAbv)
			assert.Equal(t, before.StudentYearLevel, after.StudentYearLevel)
			assert.Equal(t, before.StudentSection, after.StudentSection)
			assert.Equal(t, before.StudentStatus, after.StudentStatus)
			assert.Equal(t, "2020-08-15", time.Time(after.StudentDateAdded).Format("2006-01-02"))
			assert.WithinDuration(t, before.StudentCreatedAt, after.StudentCreatedAt, time.Second)
		})
	}
}

func TestRekeyStudentOntoExistingIDFails(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	for _, id := range []string{"2021-001", "2021-002"} {
		_, err := svc.Create(ctx, newStudent(id))
		require.NoError(t, err)
	}
	require.NoError(t, db.Create(&enrollmentModel.EnrollmentModel{EnrollmentStudentID: "2021-001", EnrollmentSubjectCode: "COMP101"}).Error)

	_, err := svc.Update(ctx, "2021-001", dto.PatchStudentRequest{StudentID: helper.Patch("2021-002")})
	assert.True(t, errors.Is(err, apperr.ErrDuplicateKey))

	var n int64
	require.NoError(t, db.Model(&enrollmentModel.EnrollmentModel{}).Where("enrollment_student_id = ?", "2021-001").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestDeleteStudentCascades(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, newStudent("2021-001"))
	require.NoError(t, err)
	require.NoError(t, db.Create(&enrollmentModel.EnrollmentModel{EnrollmentStudentID: "2021-001", EnrollmentSubjectCode: "COMP101"}).Error)
	require.NoError(t, db.Create(&activityModel.GradeModel{GradeStudentID: "2021-001", GradeActivityID: uuid.New(), GradeValue: 5}).Error)

	require.NoError(t, svc.Delete(ctx, "2021-001"))

	var n int64
	require.NoError(t, db.Model(&enrollmentModel.EnrollmentModel{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&activityModel.GradeModel{}).Count(&n).Error)
	assert.Zero(t, n)

	assert.True(t, errors.Is(svc.Delete(ctx, "2021-001"), apperr.ErrNotFound))
}

func TestListStudentsFilters(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	a := newStudent("2021-001")
	b := newStudent("2021-002")
	b.LastName, b.YearLevel, b.Status = "Reyes", 2, "Irregular"
	c := newStudent("2021-003")
	c.LastName, c.CourseAbv = "Cruz", nil
	for _, r := range []dto.CreateStudentRequest{a, b, c} {
		_, err := svc.Create(ctx, r)
		require.NoError(t, err)
	}

	rows, total, err := svc.List(ctx, StudentFilter{CourseAbv: "BSIT"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	rows, _, err = svc.List(ctx, StudentFilter{Status: "irregular"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2021-002", rows[0].StudentID)

	rows, _, err = svc.List(ctx, StudentFilter{Q: "cruz"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2021-003", rows[0].StudentID)

	rows, total, err = svc.List(ctx, StudentFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "2021-002", rows[0].StudentID)
}
