package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentModel struct {
	EnrollmentID uuid.UUID `gorm:"type:uuid;primaryKey;column:enrollment_id" json:"enrollment_id"`

	EnrollmentStudentID   string `gorm:"type:varchar(20);not null;column:enrollment_student_id;uniqueIndex:uq_enrollments_student_subject,priority:1" json:"enrollment_student_id"`
	EnrollmentSubjectCode string `gorm:"type:varchar(20);not null;column:enrollment_subject_code;uniqueIndex:uq_enrollments_student_subject,priority:2;index:idx_enrollments_subject" json:"enrollment_subject_code"`

	EnrollmentCreatedAt time.Time `gorm:"column:enrollment_created_at;autoCreateTime" json:"enrollment_created_at"`
}

func (EnrollmentModel) TableName() string { return "student_subject_enrollments" }

func (m *EnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.EnrollmentID == uuid.Nil {
		m.EnrollmentID = uuid.New()
	}
	return nil
}
