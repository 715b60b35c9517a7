package projects

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/pkg/dbctx"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

type ValueMetricRepo interface {
	Create(dbc dbctx.Context, metrics []*value.Metric) ([]*value.Metric, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*value.Metric, error)
	GetByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) ([]*value.Metric, error)
	SetCurrentValue(dbc dbctx.Context, id uuid.UUID, current float64, at time.Time) error
	SetActive(dbc dbctx.Context, id uuid.UUID, active bool, at time.Time) error
	DeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error
}

type valueMetricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewValueMetricRepo(db *gorm.DB, baseLog *logger.Logger) ValueMetricRepo {
	return &valueMetricRepo{db: db, log: baseLog.With("repo", "ValueMetricRepo")}
}

func (r *valueMetricRepo) Create(dbc dbctx.Context, metrics []*value.Metric) ([]*value.Metric, error) {
	if len(metrics) == 0 {
		return []*value.Metric{}, nil
	}
	if err := dbc.Conn(r.db).Omit(clause.Associations).Create(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *valueMetricRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*value.Metric, error) {
	var out []*value.Metric
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("id IN ?", ids).
		Order("position ASC, created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *valueMetricRepo) GetByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) ([]*value.Metric, error) {
	var out []*value.Metric
	if len(projectIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("project_id IN ?", projectIDs).
		Order("position ASC, created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *valueMetricRepo) SetCurrentValue(dbc dbctx.Context, id uuid.UUID, current float64, at time.Time) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&value.Metric{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_value": current,
			"updated_at":    at,
		}).Error
}

func (r *valueMetricRepo) SetActive(dbc dbctx.Context, id uuid.UUID, active bool, at time.Time) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&value.Metric{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": at,
		}).Error
}

func (r *valueMetricRepo) DeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Where("project_id IN ?", projectIDs).Delete(&value.Metric{}).Error
}
