package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	activityModel "registrar_backend/internals/features/school/registrar/activities/model"
	courseModel "registrar_backend/internals/features/school/registrar/courses/model"
	enrollmentModel "registrar_backend/internals/features/school/registrar/enrollments/model"
	"registrar_backend/internals/features/school/registrar/subjects/dto"
	"registrar_backend/internals/features/school/registrar/subjects/model"
	helper "registrar_backend/internals/helpers"
	"registrar_backend/internals/helpers/apperr"
	"registrar_backend/internals/helpers/dbtime"
	"registrar_backend/internals/testutil"
)

func setup(t *testing.T) (*SubjectService, *gorm.DB) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&courseModel.CourseModel{CourseAbv: "BSIT", CourseName: "BS Information Technology"}).Error)
	return NewSubjectService(db, false), db
}

func strPtr(s string) *string { return &s }

func newSubject(code string) dto.CreateSubjectRequest {
	return dto.CreateSubjectRequest{
		SubjectCode:  code,
		SubjectTitle: "Intro to Computing",
		CourseAbv:    strPtr("BSIT"),
		SchoolYear:   "2024-2025",
		Semester:     model.SemesterFirst,
		YearLevel:    1,
		Section:      "A",
	}
}

// graded subject: two activities, two enrolled students, three grades
type fixture struct {
	quiz, exam uuid.UUID
}

func seedGraded(t *testing.T, db *gorm.DB, code string) fixture {
	t.Helper()
	quiz := activityModel.ActivityModel{ActivitySubjectCode: code, ActivityType: activityModel.TypeQuiz, ActivityName: "Quiz 1", ActivityTotalItems: 10}
	exam := activityModel.ActivityModel{ActivitySubjectCode: code, ActivityType: activityModel.TypeExam, ActivityName: "Midterm", ActivityTotalItems: 50}
	require.NoError(t, db.Create(&quiz).Error)
	require.NoError(t, db.Create(&exam).Error)
	for _, id := range []string{"2021-001", "2021-002"} {
		require.NoError(t, db.Create(&enrollmentModel.EnrollmentModel{EnrollmentStudentID: id, EnrollmentSubjectCode: code}).Error)
	}
	for _, g := range []activityModel.GradeModel{
		{GradeStudentID: "2021-001", GradeActivityID: quiz.ActivityID, GradeValue: 8},
		{GradeStudentID: "2021-002", GradeActivityID: quiz.ActivityID, GradeValue: 9.5},
		{GradeStudentID: "2021-001", GradeActivityID: exam.ActivityID, GradeValue: 41},
	} {
		g := g
		require.NoError(t, db.Create(&g).Error)
	}
	return fixture{quiz: quiz.ActivityID, exam: exam.ActivityID}
}

func count(t *testing.T, db *gorm.DB, m any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(where, args...).Count(&n).Error)
	return n
}

func TestCreateSubjectUppercasesCode(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	sub, err := svc.Create(ctx, newSubject(" comp101 "))
	require.NoError(t, err)
	assert.Equal(t, "COMP101", sub.SubjectCode)
	assert.True(t, sub.SubjectIsActive)

	_, err = svc.Create(ctx, newSubject("Comp101"))
	assert.True(t, errors.Is(err, apperr.ErrDuplicateKey))
}

func TestCreateSubjectValidation(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *dto.CreateSubjectRequest)
		want   error
	}{
		{"semester 4", func(r *dto.CreateSubjectRequest) { r.Semester = 4 }, apperr.ErrValidation},
		{"year level 5", func(r *dto.CreateSubjectRequest) { r.YearLevel = 5 }, apperr.ErrValidation},
		{"school year gap", func(r *dto.CreateSubjectRequest) { r.SchoolYear = "2024-2026" }, apperr.ErrValidation},
		{"code with space", func(r *dto.CreateSubjectRequest) { r.SubjectCode = "COMP 101" }, apperr.ErrValidation},
		{"no title", func(r *dto.CreateSubjectRequest) { r.SubjectTitle = "" }, apperr.ErrValidation},
		{"unknown course", func(r *dto.CreateSubjectRequest) { r.CourseAbv = strPtr("BSCS") }, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newSubject("COMP200")
			tt.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	// a subject without a course is allowed
	req := newSubject("GE1")
	req.CourseAbv = nil
	_, err := svc.Create(ctx, req)
	assert.NoError(t, err)
}

func TestRekeySubjectMovesActivitiesAndEnrollments(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, newSubject("COMP101"))
	require.NoError(t, err)
	fx := seedGraded(t, db, "COMP101")

	sub, err := svc.Update(ctx, "comp101", dto.PatchSubjectRequest{SubjectCode: helper.Patch("comp102")})
	require.NoError(t, err)
	assert.Equal(t, "COMP102", sub.SubjectCode)
	assert.Equal(t, "Intro to Computing", sub.SubjectTitle)
	assert.Equal(t, "BSIT", *sub.SubjectCourseAbv)

	_, err = svc.Get(ctx, "COMP101")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	// nothing references the old code
	assert.Zero(t, count(t, db, &activityModel.ActivityModel{}, "activity_subject_code = ?", "COMP101"))
	assert.Zero(t, count(t, db, &enrollmentModel.EnrollmentModel{}, "enrollment_subject_code = ?", "COMP101"))

	// everything that existed is reachable under the new code
	assert.EqualValues(t, 2, count(t, db, &activityModel.ActivityModel{}, "activity_subject_code = ?", "COMP102"))
	assert.EqualValues(t, 2, count(t, db, &enrollmentModel.EnrollmentModel{}, "enrollment_subject_code = ?", "COMP102"))
	assert.EqualValues(t, 2, count(t, db, &activityModel.GradeModel{}, "grade_activity_id = ?", fx.quiz))
	assert.EqualValues(t, 1, count(t, db, &activityModel.GradeModel{}, "grade_activity_id = ?", fx.exam))

	var g activityModel.GradeModel
	require.NoError(t, db.First(&g, "grade_activity_id = ? AND grade_student_id = ?", fx.quiz, "2021-002").Error)
	assert.InDelta(t, 9.5, g.GradeValue, 0.001)
}

func TestRekeySubjectWithOtherChanges(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, newSubject("COMP101"))
	require.NoError(t, err)
	_, err = svc.Archive(ctx, "COMP101")
	require.NoError(t, err)
	seedGraded(t, db, "COMP101")

	sub, err := svc.Update(ctx, "COMP101", dto.PatchSubjectRequest{
		SubjectCode:  helper.Patch("IT-101"),
		SubjectTitle: helper.Patch("Computing Fundamentals"),
		Semester:     helper.Patch(model.SemesterSecond),
		Section:      helper.Patch("b"),
	})
	require.NoError(t, err)
	assert.Equal(t, "IT-101", sub.SubjectCode)
	assert.Equal(t, "Computing Fundamentals", sub.SubjectTitle)
	assert.Equal(t, model.SemesterSecond, sub.SubjectSemester)
	assert.Equal(t, "B", sub.SubjectSection)
	// archive state carries over
	assert.False(t, sub.SubjectIsActive)
	assert.NotNil(t, sub.SubjectArchivedDate)

	stored, err := svc.Get(ctx, "IT-101")
	require.NoError(t, err)
	assert.False(t, stored.SubjectIsActive)
	require.NotNil(t, stored.SubjectArchivedDate)
	assert.Equal(t, dbtime.FormatDate(dbtime.Today()), dbtime.FormatDate(*stored.SubjectArchivedDate))

	assert.EqualValues(t, 2, count(t, db, &activityModel.ActivityModel{}, "activity_subject_code = ?", "IT-101"))
}

func TestRekeySubjectKeepsEveryColumn(t *testing.T) {
	tests := []struct {
		name    string
		req     func() dto.CreateSubjectRequest
		archive bool
	}{
		{"active with course", func() dto.CreateSubjectRequest { return newSubject("COMP101") }, false},
		{"archived", func() dto.CreateSubjectRequest { return newSubject("COMP101") }, true},
		{"no course, summer", func() dto.CreateSubjectRequest {
			r := newSubject("COMP101")
			r.CourseAbv = nil
			r.Semester = model.SemesterSummer
			r.YearLevel = 3
			return r
		}, false},
		{"archived without course", func() dto.CreateSubjectRequest {
			r := newSubject("COMP101")
			r.CourseAbv = nil
			return r
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := setup(t)
			ctx := context.Background()
			_, err := svc.Create(ctx, tt.req())
			require.NoError(t, err)
			if tt.archive {
				_, err = svc.Archive(ctx, "COMP101")
				require.NoError(t, err)
			}
			var before model.SubjectModel
			require.NoError(t, db.First(&before, "subject_code = ?", "COMP101").Error)

			_, err = svc.Update(ctx, "COMP101", dto.PatchSubjectRequest{SubjectCode: helper.Patch("COMP900")})
			require.NoError(t, err)

			var after model.SubjectModel
			require.NoError(t, db.First(&after, "subject_code = ?", "COMP900").Error)
			assert.Zero(t, count(t, db, &model.SubjectModel{}, "subject_code = ?", "COMP101"))

			assert.Equal(t, before.SubjectTitle, after.SubjectTitle)
			assert.Equal(t, before.SubjectCourseAbv, after.SubjectCourseAbv)
			assert.Equal(t, before.SubjectSchoolYear, after.SubjectSchoolYear)
			assert.Equal(t, before.SubjectSemester, after.SubjectSemester)
			assert.Equal(t, before.SubjectYearLevel, after.SubjectYearLevel)
			assert.Equal(t, before.SubjectSection, after.SubjectSection)
			assert.Equal(t, before.SubjectIsActive, after.SubjectIsActive)
			assert.Equal(t, !tt.archive, after.SubjectIsActive)
			assert.Equal(t, dbtime.FormatDatePtr(before.SubjectArchivedDate), dbtime.FormatDatePtr(after.SubjectArchivedDate))
			assert.WithinDuration(t, before.SubjectCreatedAt, after.SubjectCreatedAt, time.Second)
		})
	}
}

func TestRekeySubjectCollisionLeavesEverythingInPlace(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	for _, code := range []string{"COMP101", "COMP102"} {
		_, err := svc.Create(ctx, newSubject(code))
		require.NoError(t, err)
	}
	seedGraded(t, db, "COMP101")

	_, err := svc.Update(ctx, "COMP101", dto.PatchSubjectRequest{
		SubjectCode:  helper.Patch("COMP102"),
		SubjectTitle: helper.Patch("should not stick"),
	})
	assert.True(t, errors.Is(err, apperr.ErrDuplicateKey))

	old, err := svc.Get(ctx, "COMP101")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Computing", old.SubjectTitle)
	assert.EqualValues(t, 2, count(t, db, &activityModel.ActivityModel{}, "activity_subject_code = ?", "COMP101"))
	assert.EqualValues(t, 2, count(t, db, &enrollmentModel.EnrollmentModel{}, "enrollment_subject_code = ?", "COMP101"))
	assert.Zero(t, count(t, db, &activityModel.ActivityModel{}, "activity_subject_code = ?", "COMP102"))
}

func TestRekeySubjectInvalidPatchRollsBack(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, newSubject("COMP101"))
	require.NoError(t, err)
	seedGraded(t, db, "COMP101")

	_, err = svc.Update(ctx, "COMP101", dto.PatchSubjectRequest{
		SubjectCode: helper.Patch("COMP102"),
		YearLevel:   helper.Patch(9),
	})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Update(ctx, "COMP101", dto.PatchSubjectRequest{SubjectCode: helper.PatchNull[string]()})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	assert.EqualValues(t, 1, count(t, db, &model.SubjectModel{}, "1 = 1"))
	assert.EqualValues(t, 2, count(t, db, &activityModel.ActivityModel{}, "activity_subject_code = ?", "COMP101"))
}

func TestUpdateSubjectWithoutRekey(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, newSubject("COMP101"))
	require.NoError(t, err)

	sub, err := svc.Update(ctx, "COMP101", dto.PatchSubjectRequest{
		SubjectCode: helper.Patch("comp101"), // same code after normalising
		CourseAbv:   helper.PatchNull[string](),
		SchoolYear:  helper.Patch("2025-2026"),
	})
	require.NoError(t, err)
	assert.Equal(t, "COMP101", sub.SubjectCode)
	assert.Nil(t, sub.SubjectCourseAbv)
	assert.Equal(t, "2025-2026", sub.SubjectSchoolYear)
}

func TestDeleteSubjectCascades(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	for _, code := range []string{"COMP101", "COMP102"} {
		_, err := svc.Create(ctx, newSubject(code))
		require.NoError(t, err)
	}
	seedGraded(t, db, "COMP101")
	other := seedGraded(t, db, "COMP102")

	require.NoError(t, svc.Delete(ctx, "COMP101"))

	assert.Zero(t, count(t, db, &activityModel.ActivityModel{}, "activity_subject_code = ?", "COMP101"))
	assert.Zero(t, count(t, db, &enrollmentModel.EnrollmentModel{}, "enrollment_subject_code = ?", "COMP101"))
	// only the other subject's grades survive
	assert.EqualValues(t, 3, count(t, db, &activityModel.GradeModel{}, "1 = 1"))
	assert.EqualValues(t, 2, count(t, db, &activityModel.GradeModel{}, "grade_activity_id = ?", other.quiz))

	assert.True(t, errors.Is(svc.Delete(ctx, "COMP101"), apperr.ErrNotFound))
}

func TestArchiveAndList(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	for _, code := range []string{"COMP101", "COMP102", "COMP103"} {
		_, err := svc.Create(ctx, newSubject(code))
		require.NoError(t, err)
	}

	sub, err := svc.Archive(ctx, "comp102")
	require.NoError(t, err)
	assert.False(t, sub.SubjectIsActive)
	require.NotNil(t, sub.SubjectArchivedDate)

	rows, total, err := svc.List(ctx, SubjectFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	_, total, err = svc.List(ctx, SubjectFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	sub, err = svc.Unarchive(ctx, "COMP102")
	require.NoError(t, err)
	assert.True(t, sub.SubjectIsActive)
	assert.Nil(t, sub.SubjectArchivedDate)

	_, err = svc.Archive(ctx, "NOPE")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	rows, _, err = svc.List(ctx, SubjectFilter{Q: "103"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "COMP103", rows[0].SubjectCode)
}
