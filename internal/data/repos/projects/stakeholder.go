package projects

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/pkg/dbctx"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

type StakeholderRepo interface {
	Create(dbc dbctx.Context, rows []*value.Stakeholder) ([]*value.Stakeholder, error)
	GetByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) ([]*value.Stakeholder, error)
	DeleteByIDs(dbc dbctx.Context, projectID uuid.UUID, ids []uuid.UUID) (int64, error)
	DeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error
}

type stakeholderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStakeholderRepo(db *gorm.DB, baseLog *logger.Logger) StakeholderRepo {
	return &stakeholderRepo{db: db, log: baseLog.With("repo", "StakeholderRepo")}
}

func (r *stakeholderRepo) Create(dbc dbctx.Context, rows []*value.Stakeholder) ([]*value.Stakeholder, error) {
	if len(rows) == 0 {
		return []*value.Stakeholder{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *stakeholderRepo) GetByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) ([]*value.Stakeholder, error) {
	var out []*value.Stakeholder
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

// DeleteByIDs only removes rows owned by projectID.
func (r *stakeholderRepo) DeleteByIDs(dbc dbctx.Context, projectID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if projectID == uuid.Nil || len(ids) == 0 {
		return 0, nil
	}
	res := dbc.Conn(r.db).
		Where("project_id = ? AND id IN ?", projectID, ids).
		Delete(&value.Stakeholder{})
	return res.RowsAffected, res.Error
}

func (r *stakeholderRepo) DeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Where("project_id IN ?", projectIDs).Delete(&value.Stakeholder{}).Error
}
