package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusRegular   = "Regular"
	StatusIrregular = "Irregular"
)

type StudentModel struct {
	StudentID string `gorm:"type:varchar(20);primaryKey;column:student_id" json:"student_id"`

	StudentLastName   string  `gorm:"type:varchar(100);not null;column:student_last_name" json:"student_last_name"`
	StudentFirstName  string  `gorm:"type:varchar(100);not null;column:student_first_name" json:"student_first_name"`
	StudentMiddleName *string `gorm:"type:varchar(100);column:student_middle_name" json:"student_middle_name,omitempty"`

	// Weak reference: cleared when the course is deleted
	StudentCourseAbv *string `gorm:"type:varchar(10);column:student_course_abv;index:idx_students_class,priority:1" json:"student_course_abv"`
	StudentYearLevel int     `gorm:"not null;default:1;column:student_year_level;index:idx_students_class,priority:2" json:"student_year_level"`
	StudentSection   string  `gorm:"type:varchar(20);not null;default:'';column:student_section;index:idx_students_class,priority:3" json:"student_section"`
	StudentStatus    string  `gorm:"type:varchar(10);not null;default:'Regular';column:student_status;index:idx_students_status" json:"student_status"`

	// Set once on create, carried over on rekey
	StudentDateAdded datatypes.Date `gorm:"not null;column:student_date_added" json:"student_date_added"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

func (s StudentModel) IsIrregular() bool { return s.StudentStatus == StatusIrregular }
