package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/valuepm-backend/internal/data/store"
	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/platform/ctxutil"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type Option func(*Manager)

// WithClock replaces time.Now for every timestamp the manager stamps.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notify = n
		}
	}
}

// Manager owns the project portfolio. All state lives in the injected store;
// every call loads what it needs, applies the domain operation and persists
// the result.
type Manager struct {
	store  store.Store
	log    *logger.Logger
	clock  func() time.Time
	notify Notifier
	tracer trace.Tracer
}

func NewManager(s store.Store, baseLog *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:  s,
		log:    baseLog.With("service", "PortfolioManager"),
		clock:  time.Now,
		notify: nopNotifier{},
		tracer: otel.Tracer("valuepm/portfolio"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type CreateProjectInput struct {
	Name                string     `json:"name"`
	ProjectType         string     `json:"project_type"`
	Description         string     `json:"description"`
	BusinessCase        string     `json:"business_case"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
	EstimatedTotalValue float64    `json:"estimated_total_value"`
	Status              string     `json:"status"`
	// UseTemplate defaults to true.
	UseTemplate *bool `json:"use_template"`
}

type ListOptions struct {
	Offset int
	Limit  int
}

type ProjectPage struct {
	Items  []*value.Project `json:"items"`
	Total  int64            `json:"total"`
	Offset int              `json:"offset"`
	Limit  int              `json:"limit"`
}

type RecordMeasurementInput struct {
	ProjectID  uuid.UUID
	MetricID   uuid.UUID
	Value      float64
	Note       string
	Confidence *float64
}

func (m *Manager) now() time.Time { return m.clock().UTC() }

func (m *Manager) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "portfolio."+op, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if kind := value.KindOf(err); kind != "" {
			span.SetAttributes(attribute.String("error.kind", string(kind)))
		}
	}
	span.End()
}

func projectAttr(id uuid.UUID) attribute.KeyValue {
	return attribute.String("project.id", id.String())
}

// load fetches the aggregate and binds it to the manager's clock.
func (m *Manager) load(ctx context.Context, id uuid.UUID) (*value.Project, error) {
	p, err := m.store.LoadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.SetClock(m.clock)
	return p, nil
}

func (m *Manager) publish(ctx context.Context, typ EventType, projectID uuid.UUID, data map[string]any) {
	ev := Event{Type: typ, ProjectID: projectID, OccurredAt: m.now(), Data: data}
	if err := m.notify.Notify(ctx, ev); err != nil {
		fields := append([]interface{}{"event", typ, "project_id", projectID, "error", err}, ctxutil.LogFields(ctx)...)
		m.log.Warn("event publish failed", fields...)
	}
}

func (m *Manager) CreateProject(ctx context.Context, in CreateProjectInput) (id uuid.UUID, err error) {
	ctx, span := m.start(ctx, "CreateProject", attribute.String("project.type", in.ProjectType))
	defer func() { finish(span, err) }()

	pt, err := value.ParseProjectType(in.ProjectType)
	if err != nil {
		return uuid.Nil, err
	}
	var status value.ProjectStatus
	if in.Status != "" {
		if status, err = value.ParseProjectStatus(in.Status); err != nil {
			return uuid.Nil, err
		}
	}
	p, err := value.NewProject(in.Name, pt, value.ProjectOptions{
		Description:         in.Description,
		BusinessCase:        in.BusinessCase,
		StartDate:           utcPtr(in.StartDate),
		EndDate:             utcPtr(in.EndDate),
		EstimatedTotalValue: in.EstimatedTotalValue,
		Status:              status,
		Clock:               m.clock,
	})
	if err != nil {
		return uuid.Nil, err
	}
	if in.UseTemplate == nil || *in.UseTemplate {
		defs, err := value.BuildMetricsFor(pt)
		if err != nil {
			return uuid.Nil, err
		}
		for _, def := range defs {
			if _, err := p.AddMetric(def); err != nil {
				return uuid.Nil, err
			}
		}
	}
	if err := m.store.CreateProject(ctx, p); err != nil {
		return uuid.Nil, err
	}
	span.SetAttributes(projectAttr(p.ID))
	m.log.Info("project created", "project_id", p.ID, "project_type", pt, "metrics", len(p.Metrics))
	m.publish(ctx, EventProjectCreated, p.ID, map[string]any{"name": p.Name, "project_type": p.Type})
	return p.ID, nil
}

func (m *Manager) GetProject(ctx context.Context, id uuid.UUID) (p *value.Project, err error) {
	ctx, span := m.start(ctx, "GetProject", projectAttr(id))
	defer func() { finish(span, err) }()
	return m.load(ctx, id)
}

func (m *Manager) ListProjects(ctx context.Context, opts ListOptions) (page ProjectPage, err error) {
	ctx, span := m.start(ctx, "ListProjects")
	defer func() { finish(span, err) }()

	if opts.Offset < 0 {
		opts.Offset = 0
	}
	switch {
	case opts.Limit <= 0:
		opts.Limit = DefaultListLimit
	case opts.Limit > MaxListLimit:
		opts.Limit = MaxListLimit
	}
	items, total, err := m.store.ListProjects(ctx, opts.Offset, opts.Limit)
	if err != nil {
		return ProjectPage{}, err
	}
	return ProjectPage{Items: items, Total: total, Offset: opts.Offset, Limit: opts.Limit}, nil
}

func (m *Manager) UpdateProject(ctx context.Context, id uuid.UUID, u value.ProjectUpdate) (p *value.Project, err error) {
	ctx, span := m.start(ctx, "UpdateProject", projectAttr(id))
	defer func() { finish(span, err) }()

	if u.Empty() {
		return nil, value.InvalidValue("update project", "no fields to update")
	}
	p, err = m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	prevStatus := p.Status
	u.StartDate = utcPtr(u.StartDate)
	u.EndDate = utcPtr(u.EndDate)
	if err := p.Update(u); err != nil {
		return nil, err
	}
	if err := m.store.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	data := map[string]any{"status": p.Status}
	if prevStatus != p.Status {
		data["previous_status"] = prevStatus
		m.log.Info("project status changed", "project_id", id, "from", prevStatus, "to", p.Status)
	}
	m.publish(ctx, EventProjectUpdated, id, data)
	return p, nil
}

func (m *Manager) DeleteProject(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := m.start(ctx, "DeleteProject", projectAttr(id))
	defer func() { finish(span, err) }()

	if err := m.store.DeleteProject(ctx, id); err != nil {
		return err
	}
	m.log.Info("project deleted", "project_id", id)
	m.publish(ctx, EventProjectDeleted, id, nil)
	return nil
}

func (m *Manager) ListMetrics(ctx context.Context, projectID uuid.UUID) (out []*value.Metric, err error) {
	ctx, span := m.start(ctx, "ListMetrics", projectAttr(projectID))
	defer func() { finish(span, err) }()

	p, err := m.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, metric := range p.Metrics {
		metric.Measurements = nil
	}
	return p.Metrics, nil
}

func (m *Manager) AddMetric(ctx context.Context, projectID uuid.UUID, def value.MetricDefinition) (metric *value.Metric, err error) {
	ctx, span := m.start(ctx, "AddMetric", projectAttr(projectID))
	defer func() { finish(span, err) }()

	p, err := m.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	metric, err = p.AddMetric(def)
	if err != nil {
		return nil, err
	}
	if err := m.store.AddMetric(ctx, metric, p.UpdatedAt); err != nil {
		return nil, err
	}
	m.publish(ctx, EventProjectUpdated, projectID, map[string]any{"metric_added": metric.ID})
	return metric, nil
}

func (m *Manager) DeactivateMetric(ctx context.Context, projectID, metricID uuid.UUID) (metric *value.Metric, err error) {
	ctx, span := m.start(ctx, "DeactivateMetric", projectAttr(projectID), attribute.String("metric.id", metricID.String()))
	defer func() { finish(span, err) }()

	p, err := m.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	metric, err = p.DeactivateMetric(metricID)
	if err != nil {
		return nil, err
	}
	if err := m.store.UpdateMetric(ctx, metric, p.UpdatedAt); err != nil {
		return nil, err
	}
	m.publish(ctx, EventProjectUpdated, projectID, map[string]any{"metric_deactivated": metricID})
	return metric, nil
}

// RecordMeasurement appends to the metric's history and sets its current
// value. The store applies both in one atomic step.
func (m *Manager) RecordMeasurement(ctx context.Context, in RecordMeasurementInput) (rec *value.Measurement, err error) {
	ctx, span := m.start(ctx, "RecordMeasurement", projectAttr(in.ProjectID), attribute.String("metric.id", in.MetricID.String()))
	defer func() { finish(span, err) }()

	p, err := m.load(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	rec, err = p.RecordMeasurement(in.MetricID, in.Value, in.Note, in.Confidence)
	if err != nil {
		return nil, err
	}
	if err := m.store.AppendMeasurement(ctx, rec, p.UpdatedAt); err != nil {
		return nil, err
	}
	m.log.Debug("measurement recorded", "project_id", in.ProjectID, "metric_id", in.MetricID, "value", in.Value)
	m.publish(ctx, EventMeasurementRecorded, in.ProjectID, map[string]any{
		"metric_id":      in.MetricID,
		"measurement_id": rec.ID,
		"value":          rec.Value,
	})
	return rec, nil
}

func (m *Manager) ListMeasurements(ctx context.Context, q store.MeasurementQuery) (out []*value.Measurement, err error) {
	ctx, span := m.start(ctx, "ListMeasurements", projectAttr(q.ProjectID))
	defer func() { finish(span, err) }()

	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, value.InvalidValue("list measurements", "end date is before start date")
	}
	if q.Limit < 0 || q.Limit > store.MaxMeasurementLimit {
		return nil, value.InvalidValue("list measurements", "limit must be within [1, %d]", store.MaxMeasurementLimit)
	}
	p, err := m.load(ctx, q.ProjectID)
	if err != nil {
		return nil, err
	}
	if q.MetricID != uuid.Nil {
		if _, err := p.Metric(q.MetricID); err != nil {
			return nil, err
		}
	}
	q.From = utcPtr(q.From)
	q.To = utcPtr(q.To)
	return m.store.ListMeasurements(ctx, q)
}

// GetValueDashboard recomputes the dashboard from freshly loaded state.
func (m *Manager) GetValueDashboard(ctx context.Context, projectID uuid.UUID) (d value.Dashboard, err error) {
	ctx, span := m.start(ctx, "GetValueDashboard", projectAttr(projectID))
	defer func() { finish(span, err) }()

	p, err := m.load(ctx, projectID)
	if err != nil {
		return value.Dashboard{}, err
	}
	return p.Dashboard(), nil
}

func (m *Manager) AddStakeholder(ctx context.Context, projectID uuid.UUID, in value.StakeholderInput) (s *value.Stakeholder, err error) {
	ctx, span := m.start(ctx, "AddStakeholder", projectAttr(projectID))
	defer func() { finish(span, err) }()

	p, err := m.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s, err = p.AddStakeholder(in)
	if err != nil {
		return nil, err
	}
	if err := m.store.AddStakeholder(ctx, s, p.UpdatedAt); err != nil {
		return nil, err
	}
	m.publish(ctx, EventProjectUpdated, projectID, map[string]any{"stakeholder_added": s.ID})
	return s, nil
}

func (m *Manager) ListStakeholders(ctx context.Context, projectID uuid.UUID) (out []*value.Stakeholder, err error) {
	ctx, span := m.start(ctx, "ListStakeholders", projectAttr(projectID))
	defer func() { finish(span, err) }()

	if _, err := m.load(ctx, projectID); err != nil {
		return nil, err
	}
	return m.store.ListStakeholders(ctx, projectID)
}

func (m *Manager) RemoveStakeholder(ctx context.Context, projectID, stakeholderID uuid.UUID) (err error) {
	ctx, span := m.start(ctx, "RemoveStakeholder", projectAttr(projectID))
	defer func() { finish(span, err) }()

	p, err := m.load(ctx, projectID)
	if err != nil {
		return err
	}
	if err := p.RemoveStakeholder(stakeholderID); err != nil {
		return err
	}
	if err := m.store.RemoveStakeholder(ctx, projectID, stakeholderID, p.UpdatedAt); err != nil {
		return err
	}
	m.publish(ctx, EventProjectUpdated, projectID, map[string]any{"stakeholder_removed": stakeholderID})
	return nil
}

func (m *Manager) AddDeliverable(ctx context.Context, projectID uuid.UUID, in value.DeliverableInput) (d *value.Deliverable, err error) {
	ctx, span := m.start(ctx, "AddDeliverable", projectAttr(projectID))
	defer func() { finish(span, err) }()

	p, err := m.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	in.ExpectedCompletion = utcPtr(in.ExpectedCompletion)
	d, err = p.AddDeliverable(in)
	if err != nil {
		return nil, err
	}
	if err := m.store.AddDeliverable(ctx, d, p.UpdatedAt); err != nil {
		return nil, err
	}
	m.publish(ctx, EventProjectUpdated, projectID, map[string]any{"deliverable_added": d.ID})
	return d, nil
}

func (m *Manager) ListDeliverables(ctx context.Context, projectID uuid.UUID) (out []*value.Deliverable, err error) {
	ctx, span := m.start(ctx, "ListDeliverables", projectAttr(projectID))
	defer func() { finish(span, err) }()

	if _, err := m.load(ctx, projectID); err != nil {
		return nil, err
	}
	return m.store.ListDeliverables(ctx, projectID)
}

func (m *Manager) UpdateDeliverableStatus(ctx context.Context, projectID, deliverableID uuid.UUID, status value.DeliverableStatus) (d *value.Deliverable, err error) {
	ctx, span := m.start(ctx, "UpdateDeliverableStatus", projectAttr(projectID))
	defer func() { finish(span, err) }()

	p, err := m.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	d, err = p.UpdateDeliverableStatus(deliverableID, status)
	if err != nil {
		return nil, err
	}
	if err := m.store.UpdateDeliverable(ctx, d, p.UpdatedAt); err != nil {
		return nil, err
	}
	m.publish(ctx, EventProjectUpdated, projectID, map[string]any{"deliverable_id": d.ID, "deliverable_status": d.Status})
	return d, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
