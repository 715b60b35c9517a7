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

type ProjectRepo interface {
	Create(dbc dbctx.Context, projects []*value.Project) ([]*value.Project, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*value.Project, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*value.Project, error)
	List(dbc dbctx.Context, offset, limit int) ([]*value.Project, error)
	ListAll(dbc dbctx.Context) ([]*value.Project, error)
	Count(dbc dbctx.Context) (int64, error)
	Save(dbc dbctx.Context, project *value.Project) error
	Touch(dbc dbctx.Context, id uuid.UUID, at time.Time) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

// Create inserts project rows only; owned collections have their own repos.
func (r *projectRepo) Create(dbc dbctx.Context, projects []*value.Project) ([]*value.Project, error) {
	if len(projects) == 0 {
		return []*value.Project{}, nil
	}
	if err := dbc.Conn(r.db).Omit(clause.Associations).Create(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*value.Project, error) {
	var out []*value.Project
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns nil, nil when no row matches.
func (r *projectRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*value.Project, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *projectRepo) List(dbc dbctx.Context, offset, limit int) ([]*value.Project, error) {
	var out []*value.Project
	q := dbc.Conn(r.db).Order("created_at ASC, id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *projectRepo) ListAll(dbc dbctx.Context) ([]*value.Project, error) {
	return r.List(dbc, 0, 0)
}

func (r *projectRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).Model(&value.Project{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Save writes the descriptive columns of an existing project.
func (r *projectRepo) Save(dbc dbctx.Context, project *value.Project) error {
	if project == nil || project.ID == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&value.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]interface{}{
			"name":                  project.Name,
			"status":                project.Status,
			"description":           project.Description,
			"business_case":         project.BusinessCase,
			"start_date":            project.StartDate,
			"end_date":              project.EndDate,
			"estimated_total_value": project.EstimatedTotalValue,
			"updated_at":            project.UpdatedAt,
		}).Error
}

func (r *projectRepo) Touch(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&value.Project{}).
		Where("id = ?", id).
		Update("updated_at", at).Error
}

func (r *projectRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.Conn(r.db).Where("id IN ?", ids).Delete(&value.Project{})
	return res.RowsAffected, res.Error
}
