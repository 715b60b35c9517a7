package projects

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/pkg/dbctx"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

// MeasurementFilter narrows a history query. Zero values mean unbounded.
type MeasurementFilter struct {
	ProjectID uuid.UUID
	MetricID  uuid.UUID
	From      *time.Time
	To        *time.Time
	Limit     int
}

// MeasurementRepo has no update path: measurements are append-only.
type MeasurementRepo interface {
	Create(dbc dbctx.Context, rows []*value.Measurement) ([]*value.Measurement, error)
	GetByMetricIDs(dbc dbctx.Context, metricIDs []uuid.UUID) ([]*value.Measurement, error)
	Query(dbc dbctx.Context, f MeasurementFilter) ([]*value.Measurement, error)
	DeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error
}

type measurementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeasurementRepo(db *gorm.DB, baseLog *logger.Logger) MeasurementRepo {
	return &measurementRepo{db: db, log: baseLog.With("repo", "MeasurementRepo")}
}

func (r *measurementRepo) Create(dbc dbctx.Context, rows []*value.Measurement) ([]*value.Measurement, error) {
	if len(rows) == 0 {
		return []*value.Measurement{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByMetricIDs returns history oldest first.
func (r *measurementRepo) GetByMetricIDs(dbc dbctx.Context, metricIDs []uuid.UUID) ([]*value.Measurement, error) {
	var out []*value.Measurement
	if len(metricIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("metric_id IN ?", metricIDs).
		Order("measured_at ASC, sequence ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Query returns matching measurements newest first.
func (r *measurementRepo) Query(dbc dbctx.Context, f MeasurementFilter) ([]*value.Measurement, error) {
	var out []*value.Measurement
	q := dbc.Conn(r.db).Model(&value.Measurement{})
	if f.ProjectID != uuid.Nil {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.MetricID != uuid.Nil {
		q = q.Where("metric_id = ?", f.MetricID)
	}
	if f.From != nil {
		q = q.Where("measured_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("measured_at <= ?", f.To.UTC())
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Order("measured_at DESC, sequence DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *measurementRepo) DeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Where("project_id IN ?", projectIDs).Delete(&value.Measurement{}).Error
}
