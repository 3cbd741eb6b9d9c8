package dto

type Totals struct {
	Courses           int64 `json:"courses"`
	Students          int64 `json:"students"`
	RegularStudents   int64 `json:"regular_students"`
	IrregularStudents int64 `json:"irregular_students"`
	ActiveSubjects    int64 `json:"active_subjects"`
	ArchivedSubjects  int64 `json:"archived_subjects"`
	Enrollments       int64 `json:"enrollments"`
	Activities        int64 `json:"activities"`
	Grades            int64 `json:"grades"`
	PendingGrades     int64 `json:"pending_grades"`
}

// CourseCount: CourseAbv is nil for students without a course.
type CourseCount struct {
	CourseAbv *string `json:"course_abv" gorm:"column:course_abv"`
	Count     int64   `json:"count"      gorm:"column:count"`
}

type YearLevelCount struct {
	YearLevel int   `json:"year_level" gorm:"column:year_level"`
	Count     int64 `json:"count"      gorm:"column:count"`
}

type SemesterCount struct {
	Semester      int    `json:"semester"       gorm:"column:semester"`
	SemesterLabel string `json:"semester_label" gorm:"-"`
	Count         int64  `json:"count"          gorm:"column:count"`
}

type DashboardResponse struct {
	Totals               Totals           `json:"totals"`
	StudentsPerCourse    []CourseCount    `json:"students_per_course"`
	StudentsPerYearLevel []YearLevelCount `json:"students_per_year_level"`
	SubjectsPerSemester  []SemesterCount  `json:"subjects_per_semester"`
}
