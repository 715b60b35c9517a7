package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/valuepm-backend/internal/data/repos"
	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/pkg/dbctx"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

// GormStore keeps aggregates in a relational database. Every mutation runs
// in its own transaction.
type GormStore struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
}

func NewGormStore(db *gorm.DB, baseLog *logger.Logger) *GormStore {
	return &GormStore{
		db:    db,
		log:   baseLog.With("store", "GormStore"),
		repos: repos.NewSet(db, baseLog),
	}
}

func (s *GormStore) inTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

func (s *GormStore) CreateProject(ctx context.Context, p *value.Project) error {
	if p == nil {
		return value.InvalidValue("create project", "project is required")
	}
	err := s.inTx(ctx, func(dbc dbctx.Context) error {
		if _, err := s.repos.Project.Create(dbc, []*value.Project{p}); err != nil {
			return err
		}
		var history []*value.Measurement
		for _, m := range p.Metrics {
			history = append(history, m.Measurements...)
		}
		if _, err := s.repos.Metric.Create(dbc, p.Metrics); err != nil {
			return err
		}
		if _, err := s.repos.Measurement.Create(dbc, history); err != nil {
			return err
		}
		if _, err := s.repos.Stakeholder.Create(dbc, p.Stakeholders); err != nil {
			return err
		}
		if _, err := s.repos.Deliverable.Create(dbc, p.Deliverables); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create project %s: %w", p.ID, err)
	}
	return nil
}

func (s *GormStore) LoadProject(ctx context.Context, id uuid.UUID) (*value.Project, error) {
	dbc := dbctx.Context{Ctx: ctx}
	p, err := s.repos.Project.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", id, err)
	}
	if p == nil {
		return nil, value.NotFound("load project", "project %s not found", id)
	}
	if err := s.attachMetrics(dbc, []*value.Project{p}, true); err != nil {
		return nil, err
	}
	stakeholders, err := s.repos.Stakeholder.GetByProjectIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load stakeholders: %w", err)
	}
	deliverables, err := s.repos.Deliverable.GetByProjectIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load deliverables: %w", err)
	}
	p.Stakeholders = nonNil(stakeholders)
	p.Deliverables = nonNil(deliverables)
	return p, nil
}

// attachMetrics loads metrics for projects, and their history when asked.
func (s *GormStore) attachMetrics(dbc dbctx.Context, projects []*value.Project, withHistory bool) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(projects))
	byID := make(map[uuid.UUID]*value.Project, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
		byID[p.ID] = p
		p.Metrics = []*value.Metric{}
	}
	metrics, err := s.repos.Metric.GetByProjectIDs(dbc, ids)
	if err != nil {
		return fmt.Errorf("load metrics: %w", err)
	}
	metricByID := make(map[uuid.UUID]*value.Metric, len(metrics))
	metricIDs := make([]uuid.UUID, 0, len(metrics))
	for _, m := range metrics {
		m.Measurements = []*value.Measurement{}
		metricByID[m.ID] = m
		metricIDs = append(metricIDs, m.ID)
		if p := byID[m.ProjectID]; p != nil {
			p.Metrics = append(p.Metrics, m)
		}
	}
	if !withHistory {
		return nil
	}
	history, err := s.repos.Measurement.GetByMetricIDs(dbc, metricIDs)
	if err != nil {
		return fmt.Errorf("load measurements: %w", err)
	}
	for _, rec := range history {
		if m := metricByID[rec.MetricID]; m != nil {
			m.Measurements = append(m.Measurements, rec)
		}
	}
	return nil
}

func (s *GormStore) ListProjects(ctx context.Context, offset, limit int) ([]*value.Project, int64, error) {
	dbc := dbctx.Context{Ctx: ctx}
	total, err := s.repos.Project.Count(dbc)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}
	rows, err := s.repos.Project.List(dbc, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	if err := s.attachMetrics(dbc, rows, false); err != nil {
		return nil, 0, err
	}
	return nonNil(rows), total, nil
}

func (s *GormStore) LoadAllProjects(ctx context.Context) ([]*value.Project, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.repos.Project.ListAll(dbc)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if err := s.attachMetrics(dbc, rows, false); err != nil {
		return nil, err
	}
	return nonNil(rows), nil
}

func (s *GormStore) CountProjects(ctx context.Context) (int64, error) {
	n, err := s.repos.Project.Count(dbctx.Context{Ctx: ctx})
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

func (s *GormStore) UpdateProject(ctx context.Context, p *value.Project) error {
	return s.inTx(ctx, func(dbc dbctx.Context) error {
		if err := s.requireProject(dbc, p.ID); err != nil {
			return err
		}
		if err := s.repos.Project.Save(dbc, p); err != nil {
			return fmt.Errorf("update project %s: %w", p.ID, err)
		}
		return nil
	})
}

// DeleteProject removes the project and everything it owns.
func (s *GormStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(dbc dbctx.Context) error {
		ids := []uuid.UUID{id}
		if err := s.repos.Measurement.DeleteByProjectIDs(dbc, ids); err != nil {
			return fmt.Errorf("delete measurements: %w", err)
		}
		if err := s.repos.Metric.DeleteByProjectIDs(dbc, ids); err != nil {
			return fmt.Errorf("delete metrics: %w", err)
		}
		if err := s.repos.Stakeholder.DeleteByProjectIDs(dbc, ids); err != nil {
			return fmt.Errorf("delete stakeholders: %w", err)
		}
		if err := s.repos.Deliverable.DeleteByProjectIDs(dbc, ids); err != nil {
			return fmt.Errorf("delete deliverables: %w", err)
		}
		n, err := s.repos.Project.DeleteByIDs(dbc, ids)
		if err != nil {
			return fmt.Errorf("delete project %s: %w", id, err)
		}
		if n == 0 {
			return value.NotFound("delete project", "project %s not found", id)
		}
		return nil
	})
}

func (s *GormStore) AddMetric(ctx context.Context, m *value.Metric, projectUpdatedAt time.Time) error {
	return s.inTx(ctx, func(dbc dbctx.Context) error {
		if err := s.requireProject(dbc, m.ProjectID); err != nil {
			return err
		}
		if _, err := s.repos.Metric.Create(dbc, []*value.Metric{m}); err != nil {
			return fmt.Errorf("add metric: %w", err)
		}
		return s.repos.Project.Touch(dbc, m.ProjectID, projectUpdatedAt)
	})
}

func (s *GormStore) UpdateMetric(ctx context.Context, m *value.Metric, projectUpdatedAt time.Time) error {
	return s.inTx(ctx, func(dbc dbctx.Context) error {
		if err := s.requireMetric(dbc, m.ProjectID, m.ID); err != nil {
			return err
		}
		if err := s.repos.Metric.SetActive(dbc, m.ID, m.IsActive, m.UpdatedAt); err != nil {
			return fmt.Errorf("update metric %s: %w", m.ID, err)
		}
		return s.repos.Project.Touch(dbc, m.ProjectID, projectUpdatedAt)
	})
}

func (s *GormStore) AppendMeasurement(ctx context.Context, rec *value.Measurement, projectUpdatedAt time.Time) error {
	err := s.inTx(ctx, func(dbc dbctx.Context) error {
		if err := s.requireMetric(dbc, rec.ProjectID, rec.MetricID); err != nil {
			return err
		}
		var maxSeq int64
		if err := dbc.Tx.Model(&value.Measurement{}).
			Where("metric_id = ?", rec.MetricID).
			Select("COALESCE(MAX(sequence), 0)").
			Scan(&maxSeq).Error; err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		rec.Sequence = maxSeq + 1
		if _, err := s.repos.Measurement.Create(dbc, []*value.Measurement{rec}); err != nil {
			return fmt.Errorf("insert measurement: %w", err)
		}
		if err := s.repos.Metric.SetCurrentValue(dbc, rec.MetricID, rec.Value, rec.CreatedAt); err != nil {
			return fmt.Errorf("set current value: %w", err)
		}
		return s.repos.Project.Touch(dbc, rec.ProjectID, projectUpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("append measurement: %w", err)
	}
	return nil
}

func (s *GormStore) ListMeasurements(ctx context.Context, q MeasurementQuery) ([]*value.Measurement, error) {
	rows, err := s.repos.Measurement.Query(dbctx.Context{Ctx: ctx}, repos.MeasurementFilter{
		ProjectID: q.ProjectID,
		MetricID:  q.MetricID,
		From:      q.From,
		To:        q.To,
		Limit:     NormalizeLimit(q.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	return nonNil(rows), nil
}

func (s *GormStore) AddStakeholder(ctx context.Context, st *value.Stakeholder, projectUpdatedAt time.Time) error {
	return s.inTx(ctx, func(dbc dbctx.Context) error {
		if err := s.requireProject(dbc, st.ProjectID); err != nil {
			return err
		}
		if _, err := s.repos.Stakeholder.Create(dbc, []*value.Stakeholder{st}); err != nil {
			return fmt.Errorf("add stakeholder: %w", err)
		}
		return s.repos.Project.Touch(dbc, st.ProjectID, projectUpdatedAt)
	})
}

func (s *GormStore) ListStakeholders(ctx context.Context, projectID uuid.UUID) ([]*value.Stakeholder, error) {
	rows, err := s.repos.Stakeholder.GetByProjectIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{projectID})
	if err != nil {
		return nil, fmt.Errorf("list stakeholders: %w", err)
	}
	return nonNil(rows), nil
}

func (s *GormStore) RemoveStakeholder(ctx context.Context, projectID, stakeholderID uuid.UUID, projectUpdatedAt time.Time) error {
	return s.inTx(ctx, func(dbc dbctx.Context) error {
		n, err := s.repos.Stakeholder.DeleteByIDs(dbc, projectID, []uuid.UUID{stakeholderID})
		if err != nil {
			return fmt.Errorf("remove stakeholder: %w", err)
		}
		if n == 0 {
			return value.NotFound("remove stakeholder", "stakeholder %s not found in project %s", stakeholderID, projectID)
		}
		return s.repos.Project.Touch(dbc, projectID, projectUpdatedAt)
	})
}

func (s *GormStore) AddDeliverable(ctx context.Context, d *value.Deliverable, projectUpdatedAt time.Time) error {
	return s.inTx(ctx, func(dbc dbctx.Context) error {
		if err := s.requireProject(dbc, d.ProjectID); err != nil {
			return err
		}
		if _, err := s.repos.Deliverable.Create(dbc, []*value.Deliverable{d}); err != nil {
			return fmt.Errorf("add deliverable: %w", err)
		}
		return s.repos.Project.Touch(dbc, d.ProjectID, projectUpdatedAt)
	})
}

func (s *GormStore) ListDeliverables(ctx context.Context, projectID uuid.UUID) ([]*value.Deliverable, error) {
	rows, err := s.repos.Deliverable.GetByProjectIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{projectID})
	if err != nil {
		return nil, fmt.Errorf("list deliverables: %w", err)
	}
	return nonNil(rows), nil
}

func (s *GormStore) UpdateDeliverable(ctx context.Context, d *value.Deliverable, projectUpdatedAt time.Time) error {
	return s.inTx(ctx, func(dbc dbctx.Context) error {
		if err := s.repos.Deliverable.SaveStatus(dbc, d); err != nil {
			return fmt.Errorf("update deliverable %s: %w", d.ID, err)
		}
		return s.repos.Project.Touch(dbc, d.ProjectID, projectUpdatedAt)
	})
}

func (s *GormStore) requireProject(dbc dbctx.Context, id uuid.UUID) error {
	p, err := s.repos.Project.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load project %s: %w", id, err)
	}
	if p == nil {
		return value.NotFound("load project", "project %s not found", id)
	}
	return nil
}

func (s *GormStore) requireMetric(dbc dbctx.Context, projectID, metricID uuid.UUID) error {
	rows, err := s.repos.Metric.GetByIDs(dbc, []uuid.UUID{metricID})
	if err != nil {
		return fmt.Errorf("load metric %s: %w", metricID, err)
	}
	if len(rows) == 0 || rows[0].ProjectID != projectID {
		return value.NotFound("load metric", "metric %s not found in project %s", metricID, projectID)
	}
	return nil
}

func nonNil[T any](rows []*T) []*T {
	if rows == nil {
		return []*T{}
	}
	return rows
}
