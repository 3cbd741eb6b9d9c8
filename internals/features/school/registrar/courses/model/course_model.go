package model

import "time"

type CourseModel struct {
	CourseAbv  string `gorm:"type:varchar(10);primaryKey;column:course_abv" json:"course_abv"`
	CourseName string `gorm:"type:varchar(100);not null;column:course_name" json:"course_name"`

	CourseCreatedAt time.Time `gorm:"column:course_created_at;autoCreateTime" json:"course_created_at"`
	CourseUpdatedAt time.Time `gorm:"column:course_updated_at;autoUpdateTime" json:"course_updated_at"`
}

func (CourseModel) TableName() string { return "courses" }
