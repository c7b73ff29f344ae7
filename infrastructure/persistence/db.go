package persistence

import (
	"github.com/skillcompass/skillcompass/internal/database"
)

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(db database.Database) error {
	return db.GORM().AutoMigrate(
		&CourseModel{},
		&CertificationModel{},
		&RoleModel{},
		&UserModel{},
		&UserSkillModel{},
		&UserCourseModel{},
		&UserCertificationModel{},
		&UserHistoryModel{},
	)
}
