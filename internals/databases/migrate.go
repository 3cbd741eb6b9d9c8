package database

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	activityModel "registrar_backend/internals/features/school/registrar/activities/model"
	courseModel "registrar_backend/internals/features/school/registrar/courses/model"
	enrollmentModel "registrar_backend/internals/features/school/registrar/enrollments/model"
	sectionModel "registrar_backend/internals/features/school/registrar/sections/model"
	studentModel "registrar_backend/internals/features/school/registrar/students/model"
	subjectModel "registrar_backend/internals/features/school/registrar/subjects/model"
)

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&courseModel.CourseModel{},
		&studentModel.StudentModel{},
		&subjectModel.SubjectModel{},
		&sectionModel.SectionModel{},
		&enrollmentModel.EnrollmentModel{},
		&activityModel.ActivityModel{},
		&activityModel.GradeModel{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return errors.Wrapf(err, "auto-migrate %T", m)
		}
	}
	return nil
}
