package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SectionModel struct {
	SectionID uuid.UUID `gorm:"type:uuid;primaryKey;column:section_id" json:"section_id"`

	SectionCourseAbv string `gorm:"type:varchar(10);not null;column:section_course_abv;uniqueIndex:uq_sections_course_year_name,priority:1" json:"section_course_abv"`
	SectionYearLevel int    `gorm:"not null;column:section_year_level;uniqueIndex:uq_sections_course_year_name,priority:2" json:"section_year_level"`
	SectionName      string `gorm:"type:varchar(20);not null;column:section_name;uniqueIndex:uq_sections_course_year_name,priority:3" json:"section_name"`

	SectionCreatedAt time.Time `gorm:"column:section_created_at;autoCreateTime" json:"section_created_at"`
}

func (SectionModel) TableName() string { return "sections" }

func (m *SectionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SectionID == uuid.Nil {
		m.SectionID = uuid.New()
	}
	return nil
}
