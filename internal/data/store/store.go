package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
)

const (
	DefaultMeasurementLimit = 100
	MaxMeasurementLimit     = 1000
)

// MeasurementQuery selects measurement history, newest first.
type MeasurementQuery struct {
	ProjectID uuid.UUID
	MetricID  uuid.UUID
	From      *time.Time
	To        *time.Time
	Limit     int
}

// Store persists project aggregates. Lookups of missing projects return a
// value.NotFound error. Projects handed in are never retained by reference
// and projects handed out are owned by the caller.
type Store interface {
	// CreateProject persists p with every owned row it already carries.
	CreateProject(ctx context.Context, p *value.Project) error
	// LoadProject returns the full aggregate including measurement history.
	LoadProject(ctx context.Context, id uuid.UUID) (*value.Project, error)
	// ListProjects returns a page of projects with metrics but no history.
	ListProjects(ctx context.Context, offset, limit int) ([]*value.Project, int64, error)
	// LoadAllProjects returns every project with metrics but no history.
	LoadAllProjects(ctx context.Context) ([]*value.Project, error)
	CountProjects(ctx context.Context) (int64, error)
	UpdateProject(ctx context.Context, p *value.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	AddMetric(ctx context.Context, m *value.Metric, projectUpdatedAt time.Time) error
	UpdateMetric(ctx context.Context, m *value.Metric, projectUpdatedAt time.Time) error

	// AppendMeasurement inserts rec, sets the metric's current value and
	// touches the project in one atomic step. rec.Sequence is assigned by
	// the store.
	AppendMeasurement(ctx context.Context, rec *value.Measurement, projectUpdatedAt time.Time) error
	ListMeasurements(ctx context.Context, q MeasurementQuery) ([]*value.Measurement, error)

	AddStakeholder(ctx context.Context, s *value.Stakeholder, projectUpdatedAt time.Time) error
	ListStakeholders(ctx context.Context, projectID uuid.UUID) ([]*value.Stakeholder, error)
	RemoveStakeholder(ctx context.Context, projectID, stakeholderID uuid.UUID, projectUpdatedAt time.Time) error

	AddDeliverable(ctx context.Context, d *value.Deliverable, projectUpdatedAt time.Time) error
	ListDeliverables(ctx context.Context, projectID uuid.UUID) ([]*value.Deliverable, error)
	UpdateDeliverable(ctx context.Context, d *value.Deliverable, projectUpdatedAt time.Time) error
}

// NormalizeLimit clamps a requested page size to [1, MaxMeasurementLimit].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultMeasurementLimit
	case limit > MaxMeasurementLimit:
		return MaxMeasurementLimit
	default:
		return limit
	}
}
