package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	activityModel "registrar_backend/internals/features/school/registrar/activities/model"
	activityService "registrar_backend/internals/features/school/registrar/activities/service"
	courseModel "registrar_backend/internals/features/school/registrar/courses/model"
	"registrar_backend/internals/features/school/registrar/dashboard/dto"
	enrollmentModel "registrar_backend/internals/features/school/registrar/enrollments/model"
	studentModel "registrar_backend/internals/features/school/registrar/students/model"
	subjectModel "registrar_backend/internals/features/school/registrar/subjects/model"
)

type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

// Dashboard recomputes every figure from the tables on each call.
func (s *DashboardService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	db := s.DB.WithContext(ctx)
	out := &dto.DashboardResponse{}
	t := &out.Totals

	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&t.Courses, &courseModel.CourseModel{}, "", nil},
		{&t.Students, &studentModel.StudentModel{}, "", nil},
		{&t.RegularStudents, &studentModel.StudentModel{}, "student_status = ?", []any{studentModel.StatusRegular}},
		{&t.IrregularStudents, &studentModel.StudentModel{}, "student_status = ?", []any{studentModel.StatusIrregular}},
		{&t.ActiveSubjects, &subjectModel.SubjectModel{}, "subject_is_active = ?", []any{true}},
		{&t.ArchivedSubjects, &subjectModel.SubjectModel{}, "subject_is_active = ?", []any{false}},
		{&t.Enrollments, &enrollmentModel.EnrollmentModel{}, "", nil},
		{&t.Activities, &activityModel.ActivityModel{}, "", nil},
		{&t.Grades, &activityModel.GradeModel{}, "", nil},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	pending, err := s.pendingAcrossActive(db)
	if err != nil {
		return nil, err
	}
	t.PendingGrades = pending

	if err := db.Model(&studentModel.StudentModel{}).
		Select("student_course_abv AS course_abv, COUNT(*) AS count").
		Group("student_course_abv").
		Order("student_course_abv ASC").
		Scan(&out.StudentsPerCourse).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&studentModel.StudentModel{}).
		Select("student_year_level AS year_level, COUNT(*) AS count").
		Group("student_year_level").
		Order("student_year_level ASC").
		Scan(&out.StudentsPerYearLevel).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&subjectModel.SubjectModel{}).
		Select("subject_semester AS semester, COUNT(*) AS count").
		Where("subject_is_active = ?", true).
		Group("subject_semester").
		Order("subject_semester ASC").
		Scan(&out.SubjectsPerSemester).Error; err != nil {
		return nil, err
	}
	for i := range out.SubjectsPerSemester {
		out.SubjectsPerSemester[i].SemesterLabel = subjectModel.SemesterLabels[out.SubjectsPerSemester[i].Semester]
	}
	return out, nil
}

func (s *DashboardService) pendingAcrossActive(db *gorm.DB) (int64, error) {
	var ids []uuid.UUID
	if err := db.Model(&activityModel.ActivityModel{}).
		Joins("JOIN subjects ON subjects.subject_code = activities.activity_subject_code").
		Where("subjects.subject_is_active = ?", true).
		Pluck("activities.activity_id", &ids).Error; err != nil {
		return 0, err
	}
	per, err := activityService.PendingCounts(db, ids)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, n := range per {
		total += n
	}
	return total, nil
}
