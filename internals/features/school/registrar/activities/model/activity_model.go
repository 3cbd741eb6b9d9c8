package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeQuiz       = "Quiz"
	TypeExam       = "Exam"
	TypeProject    = "Project"
	TypeActivities = "Activities"
)

var ActivityTypes = []string{TypeQuiz, TypeExam, TypeProject, TypeActivities}

func IsActivityType(s string) bool {
	for _, t := range ActivityTypes {
		if t == s {
			return true
		}
	}
	return false
}

type ActivityModel struct {
	ActivityID uuid.UUID `gorm:"type:uuid;primaryKey;column:activity_id" json:"activity_id"`

	ActivitySubjectCode string `gorm:"type:varchar(20);not null;column:activity_subject_code;index:idx_activities_subject" json:"activity_subject_code"`
	ActivityType        string `gorm:"type:varchar(20);not null;column:activity_type" json:"activity_type"`
	ActivityName        string `gorm:"type:varchar(100);not null;column:activity_name" json:"activity_name"`
	ActivityTotalItems  int    `gorm:"not null;column:activity_total_items" json:"activity_total_items"`

	ActivityCreatedAt time.Time `gorm:"column:activity_created_at;autoCreateTime" json:"activity_created_at"`
	ActivityUpdatedAt time.Time `gorm:"column:activity_updated_at;autoUpdateTime" json:"activity_updated_at"`
}

func (ActivityModel) TableName() string { return "activities" }

func (m *ActivityModel) BeforeCreate(tx *gorm.DB) error {
	if m.ActivityID == uuid.Nil {
		m.ActivityID = uuid.New()
	}
	return nil
}
