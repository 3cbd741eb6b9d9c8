package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GradeNA is the sentinel for "no grade"; it is never stored.
const GradeNA = "N/A"

type GradeModel struct {
	GradeID uuid.UUID `gorm:"type:uuid;primaryKey;column:grade_id" json:"grade_id"`

	GradeStudentID  string    `gorm:"type:varchar(20);not null;column:grade_student_id;uniqueIndex:uq_grades_student_activity,priority:1" json:"grade_student_id"`
	GradeActivityID uuid.UUID `gorm:"type:uuid;not null;column:grade_activity_id;uniqueIndex:uq_grades_student_activity,priority:2;index:idx_grades_activity" json:"grade_activity_id"`
	// Holds up to 999.99, so total_items is capped at 999
	GradeValue      float64   `gorm:"type:numeric(5,2);not null;column:grade_value" json:"grade_value"`

	GradeCreatedAt time.Time `gorm:"column:grade_created_at;autoCreateTime" json:"grade_created_at"`
	GradeUpdatedAt time.Time `gorm:"column:grade_updated_at;autoUpdateTime" json:"grade_updated_at"`
}

func (GradeModel) TableName() string { return "grades" }

func (m *GradeModel) BeforeCreate(tx *gorm.DB) error {
	if m.GradeID == uuid.Nil {
		m.GradeID = uuid.New()
	}
	return nil
}
