package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&value.Project{},
		&value.Metric{},
		&value.Measurement{},
		&value.Stakeholder{},
		&value.Deliverable{},
	)
}
