package value

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project is the aggregate root. Metrics, stakeholders and deliverables are
// owned by exactly one project and are only mutated through its methods.
type Project struct {
	ID                  uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string        `gorm:"column:name;not null" json:"name"`
	Type                ProjectType   `gorm:"column:project_type;not null;index" json:"project_type"`
	Status              ProjectStatus `gorm:"column:status;not null;index" json:"status"`
	Description         string        `gorm:"column:description;type:text" json:"description,omitempty"`
	BusinessCase        string        `gorm:"column:business_case;type:text" json:"business_case,omitempty"`
	StartDate           *time.Time    `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate             *time.Time    `gorm:"column:end_date" json:"end_date,omitempty"`
	EstimatedTotalValue float64       `gorm:"column:estimated_total_value;not null" json:"estimated_total_value"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Metrics      []*Metric      `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE" json:"metrics"`
	Stakeholders []*Stakeholder `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE" json:"stakeholders,omitempty"`
	Deliverables []*Deliverable `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE" json:"deliverables,omitempty"`

	clock func() time.Time
}

func (Project) TableName() string { return "project" }

type ProjectOptions struct {
	Description         string
	BusinessCase        string
	StartDate           *time.Time
	EndDate             *time.Time
	EstimatedTotalValue float64
	Status              ProjectStatus
	Clock               func() time.Time
}

func NewProject(name string, projectType ProjectType, opts ProjectOptions) (*Project, error) {
	const op = "new project"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, InvalidValue(op, "name is required")
	}
	if !projectType.Valid() {
		return nil, UnsupportedType(op, "unsupported project type %q", projectType)
	}
	if err := validateEstimate(op, opts.EstimatedTotalValue); err != nil {
		return nil, err
	}
	if err := validateDates(op, opts.StartDate, opts.EndDate); err != nil {
		return nil, err
	}
	status := opts.Status
	if status == "" {
		status = ProjectStatusPlanning
	}
	if !status.Valid() {
		return nil, InvalidValue(op, "invalid project status %q", status)
	}

	p := &Project{
		ID:                  uuid.New(),
		Name:                name,
		Type:                projectType,
		Status:              status,
		Description:         strings.TrimSpace(opts.Description),
		BusinessCase:        strings.TrimSpace(opts.BusinessCase),
		StartDate:           opts.StartDate,
		EndDate:             opts.EndDate,
		EstimatedTotalValue: opts.EstimatedTotalValue,
		Metrics:             []*Metric{},
		Stakeholders:        []*Stakeholder{},
		Deliverables:        []*Deliverable{},
		clock:               opts.Clock,
	}
	now := p.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

// SetClock replaces the time source used for timestamps. Stores hand back
// projects without one; nil means time.Now in UTC.
func (p *Project) SetClock(clock func() time.Time) {
	p.clock = clock
}

func (p *Project) now() time.Time {
	if p.clock != nil {
		return p.clock().UTC()
	}
	return time.Now().UTC()
}

func (p *Project) AddMetric(def MetricDefinition) (*Metric, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	now := p.now()
	m := newMetric(p.ID, def, now)
	m.Position = p.nextMetricPosition()
	p.Metrics = append(p.Metrics, m)
	p.UpdatedAt = now
	return m, nil
}

func (p *Project) nextMetricPosition() int {
	next := 0
	for _, m := range p.Metrics {
		if m != nil && m.Position >= next {
			next = m.Position + 1
		}
	}
	return next
}

func (p *Project) Metric(id uuid.UUID) (*Metric, error) {
	for _, m := range p.Metrics {
		if m != nil && m.ID == id {
			return m, nil
		}
	}
	return nil, NotFound("get metric", "metric %s not found in project %s", id, p.ID)
}

// ActiveMetrics returns the metrics that still count toward dashboards.
func (p *Project) ActiveMetrics() []*Metric {
	out := make([]*Metric, 0, len(p.Metrics))
	for _, m := range p.Metrics {
		if m != nil && m.IsActive {
			out = append(out, m)
		}
	}
	return out
}

func (p *Project) DeactivateMetric(id uuid.UUID) (*Metric, error) {
	m, err := p.Metric(id)
	if err != nil {
		return nil, err
	}
	if !m.IsActive {
		return m, nil
	}
	now := p.now()
	m.IsActive = false
	m.UpdatedAt = now
	p.UpdatedAt = now
	return m, nil
}

// RecordMeasurement appends a measurement to the metric's history and makes
// it the metric's current value. Nothing is mutated when validation fails.
func (p *Project) RecordMeasurement(metricID uuid.UUID, v float64, note string, confidence *float64) (*Measurement, error) {
	const op = "record measurement"
	m, err := p.Metric(metricID)
	if err != nil {
		return nil, err
	}
	if !m.IsActive {
		return nil, InvalidValue(op, "metric %s is inactive", metricID)
	}
	if !isFinite(v) {
		return nil, InvalidValue(op, "value must be a finite number")
	}
	level := 100.0
	if confidence != nil {
		level = *confidence
		if !isFinite(level) || level < 0 || level > 100 {
			return nil, InvalidValue(op, "confidence level must be within [0, 100], got %v", level)
		}
	}

	now := p.now()
	measuredAt := now
	var seq int64 = 1
	if last := m.LatestMeasurement(); last != nil {
		seq = last.Sequence + 1
		if measuredAt.Before(last.MeasuredAt) {
			measuredAt = last.MeasuredAt
		}
	}
	rec := &Measurement{
		ID:              uuid.New(),
		MetricID:        m.ID,
		ProjectID:       p.ID,
		Sequence:        seq,
		Value:           v,
		MeasuredAt:      measuredAt,
		ConfidenceLevel: level,
		Notes:           strings.TrimSpace(note),
		CreatedAt:       now,
	}
	current := v
	m.Measurements = append(m.Measurements, rec)
	m.CurrentValue = &current
	m.UpdatedAt = now
	p.UpdatedAt = now
	return rec, nil
}

func (p *Project) SetStatus(status ProjectStatus) error {
	if !status.Valid() {
		return InvalidValue("set project status", "invalid project status %q", status)
	}
	if p.Status == status {
		return nil
	}
	p.Status = status
	p.UpdatedAt = p.now()
	return nil
}

// ProjectUpdate carries descriptive edits. Nil fields are left unchanged.
type ProjectUpdate struct {
	Name                *string        `json:"name"`
	Description         *string        `json:"description"`
	BusinessCase        *string        `json:"business_case"`
	Status              *ProjectStatus `json:"status"`
	StartDate           *time.Time     `json:"start_date"`
	EndDate             *time.Time     `json:"end_date"`
	EstimatedTotalValue *float64       `json:"estimated_total_value"`
}

func (u ProjectUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.BusinessCase == nil && u.Status == nil &&
		u.StartDate == nil && u.EndDate == nil && u.EstimatedTotalValue == nil
}

// Update validates every field before applying any of them.
func (p *Project) Update(u ProjectUpdate) error {
	const op = "update project"
	name := p.Name
	if u.Name != nil {
		name = strings.TrimSpace(*u.Name)
		if name == "" {
			return InvalidValue(op, "name is required")
		}
	}
	status := p.Status
	if u.Status != nil {
		status = *u.Status
		if !status.Valid() {
			return InvalidValue(op, "invalid project status %q", status)
		}
	}
	estimate := p.EstimatedTotalValue
	if u.EstimatedTotalValue != nil {
		estimate = *u.EstimatedTotalValue
		if err := validateEstimate(op, estimate); err != nil {
			return err
		}
	}
	start, end := p.StartDate, p.EndDate
	if u.StartDate != nil {
		start = u.StartDate
	}
	if u.EndDate != nil {
		end = u.EndDate
	}
	if err := validateDates(op, start, end); err != nil {
		return err
	}

	p.Name = name
	p.Status = status
	p.EstimatedTotalValue = estimate
	p.StartDate, p.EndDate = start, end
	if u.Description != nil {
		p.Description = strings.TrimSpace(*u.Description)
	}
	if u.BusinessCase != nil {
		p.BusinessCase = strings.TrimSpace(*u.BusinessCase)
	}
	p.UpdatedAt = p.now()
	return nil
}

func (p *Project) AddStakeholder(in StakeholderInput) (*Stakeholder, error) {
	now := p.now()
	s, err := newStakeholder(p.ID, in, now)
	if err != nil {
		return nil, err
	}
	p.Stakeholders = append(p.Stakeholders, s)
	p.UpdatedAt = now
	return s, nil
}

func (p *Project) RemoveStakeholder(id uuid.UUID) error {
	for i, s := range p.Stakeholders {
		if s != nil && s.ID == id {
			p.Stakeholders = append(p.Stakeholders[:i], p.Stakeholders[i+1:]...)
			p.UpdatedAt = p.now()
			return nil
		}
	}
	return NotFound("remove stakeholder", "stakeholder %s not found in project %s", id, p.ID)
}

func (p *Project) AddDeliverable(in DeliverableInput) (*Deliverable, error) {
	now := p.now()
	d, err := newDeliverable(p, in, now)
	if err != nil {
		return nil, err
	}
	p.Deliverables = append(p.Deliverables, d)
	p.UpdatedAt = now
	return d, nil
}

func (p *Project) Deliverable(id uuid.UUID) (*Deliverable, error) {
	for _, d := range p.Deliverables {
		if d != nil && d.ID == id {
			return d, nil
		}
	}
	return nil, NotFound("get deliverable", "deliverable %s not found in project %s", id, p.ID)
}

func (p *Project) UpdateDeliverableStatus(id uuid.UUID, status DeliverableStatus) (*Deliverable, error) {
	if !status.Valid() {
		return nil, InvalidValue("update deliverable status", "invalid deliverable status %q", status)
	}
	d, err := p.Deliverable(id)
	if err != nil {
		return nil, err
	}
	now := p.now()
	d.setStatus(status, now)
	p.UpdatedAt = now
	return d, nil
}

func validateEstimate(op string, v float64) error {
	if !isFinite(v) || v < 0 {
		return InvalidValue(op, "estimated total value must be a finite number >= 0, got %v", v)
	}
	return nil
}

func validateDates(op string, start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return InvalidValue(op, "end date %s is before start date %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return nil
}
