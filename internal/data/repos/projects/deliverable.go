package projects

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/pkg/dbctx"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

type DeliverableRepo interface {
	Create(dbc dbctx.Context, rows []*value.Deliverable) ([]*value.Deliverable, error)
	GetByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) ([]*value.Deliverable, error)
	SaveStatus(dbc dbctx.Context, d *value.Deliverable) error
	DeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error
}

type deliverableRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeliverableRepo(db *gorm.DB, baseLog *logger.Logger) DeliverableRepo {
	return &deliverableRepo{db: db, log: baseLog.With("repo", "DeliverableRepo")}
}

func (r *deliverableRepo) Create(dbc dbctx.Context, rows []*value.Deliverable) ([]*value.Deliverable, error) {
	if len(rows) == 0 {
		return []*value.Deliverable{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *deliverableRepo) GetByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) ([]*value.Deliverable, error) {
	var out []*value.Deliverable
	if len(projectIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("project_id IN ?", projectIDs).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *deliverableRepo) SaveStatus(dbc dbctx.Context, d *value.Deliverable) error {
	if d == nil || d.ID == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&value.Deliverable{}).
		Where("id = ? AND project_id = ?", d.ID, d.ProjectID).
		Updates(map[string]interface{}{
			"status":            d.Status,
			"actual_completion": d.ActualCompletion,
			"updated_at":        d.UpdatedAt,
		}).Error
}

func (r *deliverableRepo) DeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Where("project_id IN ?", projectIDs).Delete(&value.Deliverable{}).Error
}
