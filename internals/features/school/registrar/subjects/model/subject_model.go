package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SemesterFirst  = 1
	SemesterSecond = 2
	SemesterSummer = 3
)

var SemesterLabels = map[int]string{
	SemesterFirst:  "1st Semester",
	SemesterSecond: "2nd Semester",
	SemesterSummer: "Summer",
}

type SubjectModel struct {
	SubjectCode  string `gorm:"type:varchar(20);primaryKey;column:subject_code" json:"subject_code"`
	SubjectTitle string `gorm:"type:varchar(100);not null;column:subject_title" json:"subject_title"`

	// Weak reference, NULL means "no course"
	SubjectCourseAbv  *string `gorm:"type:varchar(10);column:subject_course_abv;index:idx_subjects_class,priority:1" json:"subject_course_abv"`
	SubjectSchoolYear string  `gorm:"type:varchar(9);not null;column:subject_school_year;index:idx_subjects_term,priority:1" json:"subject_school_year"`
	SubjectSemester   int     `gorm:"not null;default:1;column:subject_semester;index:idx_subjects_term,priority:2" json:"subject_semester"`
	SubjectYearLevel  int     `gorm:"not null;default:1;column:subject_year_level;index:idx_subjects_class,priority:2" json:"subject_year_level"`
	SubjectSection    string  `gorm:"type:varchar(20);not null;default:'';column:subject_section;index:idx_subjects_class,priority:3" json:"subject_section"`

	// Always written on insert, no column default
	SubjectIsActive     bool            `gorm:"not null;column:subject_is_active;index:idx_subjects_active" json:"subject_is_active"`
	SubjectArchivedDate *datatypes.Date `gorm:"column:subject_archived_date" json:"subject_archived_date,omitempty"`

	SubjectCreatedAt time.Time `gorm:"column:subject_created_at;autoCreateTime" json:"subject_created_at"`
	SubjectUpdatedAt time.Time `gorm:"column:subject_updated_at;autoUpdateTime" json:"subject_updated_at"`
}

func (SubjectModel) TableName() string { return "subjects" }
