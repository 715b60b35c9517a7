package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/valuepm-backend/internal/data/repos/projects"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

type ProjectRepo = projects.ProjectRepo
type ValueMetricRepo = projects.ValueMetricRepo
type MeasurementRepo = projects.MeasurementRepo
type StakeholderRepo = projects.StakeholderRepo
type DeliverableRepo = projects.DeliverableRepo

type MeasurementFilter = projects.MeasurementFilter

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return projects.NewProjectRepo(db, baseLog)
}
func NewValueMetricRepo(db *gorm.DB, baseLog *logger.Logger) ValueMetricRepo {
	return projects.NewValueMetricRepo(db, baseLog)
}
func NewMeasurementRepo(db *gorm.DB, baseLog *logger.Logger) MeasurementRepo {
	return projects.NewMeasurementRepo(db, baseLog)
}
func NewStakeholderRepo(db *gorm.DB, baseLog *logger.Logger) StakeholderRepo {
	return projects.NewStakeholderRepo(db, baseLog)
}
func NewDeliverableRepo(db *gorm.DB, baseLog *logger.Logger) DeliverableRepo {
	return projects.NewDeliverableRepo(db, baseLog)
}

// Set is every repo the value store needs, sharing one connection.
type Set struct {
	Project     ProjectRepo
	Metric      ValueMetricRepo
	Measurement MeasurementRepo
	Stakeholder StakeholderRepo
	Deliverable DeliverableRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Project:     NewProjectRepo(db, baseLog),
		Metric:      NewValueMetricRepo(db, baseLog),
		Measurement: NewMeasurementRepo(db, baseLog),
		Stakeholder: NewStakeholderRepo(db, baseLog),
		Deliverable: NewDeliverableRepo(db, baseLog),
	}
}
