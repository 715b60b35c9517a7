package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
)

// MemoryStore keeps aggregates in process memory behind one mutex. Values
// are deep-copied on the way in and out.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*value.Project
	order    []uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: map[uuid.UUID]*value.Project{}}
}

func (s *MemoryStore) CreateProject(_ context.Context, p *value.Project) error {
	if p == nil {
		return value.InvalidValue("create project", "project is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects[p.ID]; exists {
		return value.InvalidValue("create project", "project %s already exists", p.ID)
	}
	s.projects[p.ID] = p.Clone()
	s.order = append(s.order, p.ID)
	return nil
}

func (s *MemoryStore) LoadProject(_ context.Context, id uuid.UUID) (*value.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (s *MemoryStore) ListProjects(_ context.Context, offset, limit int) ([]*value.Project, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := int64(len(s.order))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(s.order) {
		return []*value.Project{}, total, nil
	}
	ids := s.order[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	out := make([]*value.Project, 0, len(ids))
	for _, id := range ids {
		out = append(out, shallowHistory(s.projects[id]))
	}
	return out, total, nil
}

func (s *MemoryStore) LoadAllProjects(ctx context.Context) ([]*value.Project, error) {
	out, _, err := s.ListProjects(ctx, 0, 0)
	return out, err
}

func (s *MemoryStore) CountProjects(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.order)), nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, p *value.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.get(p.ID)
	if err != nil {
		return err
	}
	cur.Name = p.Name
	cur.Status = p.Status
	cur.Description = p.Description
	cur.BusinessCase = p.BusinessCase
	cp := p.Clone()
	cur.StartDate = cp.StartDate
	cur.EndDate = cp.EndDate
	cur.EstimatedTotalValue = p.EstimatedTotalValue
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (s *MemoryStore) DeleteProject(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(id); err != nil {
		return err
	}
	delete(s.projects, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) AddMetric(_ context.Context, m *value.Metric, projectUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(m.ProjectID)
	if err != nil {
		return err
	}
	cp := m.Clone()
	cp.Measurements = []*value.Measurement{}
	p.Metrics = append(p.Metrics, cp)
	p.UpdatedAt = projectUpdatedAt
	return nil
}

func (s *MemoryStore) UpdateMetric(_ context.Context, m *value.Metric, projectUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(m.ProjectID)
	if err != nil {
		return err
	}
	cur, err := p.Metric(m.ID)
	if err != nil {
		return err
	}
	cur.IsActive = m.IsActive
	cur.UpdatedAt = m.UpdatedAt
	p.UpdatedAt = projectUpdatedAt
	return nil
}

func (s *MemoryStore) AppendMeasurement(_ context.Context, rec *value.Measurement, projectUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(rec.ProjectID)
	if err != nil {
		return err
	}
	m, err := p.Metric(rec.MetricID)
	if err != nil {
		return err
	}
	var seq int64
	for _, existing := range m.Measurements {
		if existing.Sequence > seq {
			seq = existing.Sequence
		}
	}
	rec.Sequence = seq + 1
	cp := *rec
	current := rec.Value
	m.Measurements = append(m.Measurements, &cp)
	m.CurrentValue = &current
	m.UpdatedAt = rec.CreatedAt
	p.UpdatedAt = projectUpdatedAt
	return nil
}

func (s *MemoryStore) ListMeasurements(_ context.Context, q MeasurementQuery) ([]*value.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*value.Measurement
	for _, id := range s.order {
		p := s.projects[id]
		if q.ProjectID != uuid.Nil && p.ID != q.ProjectID {
			continue
		}
		for _, m := range p.Metrics {
			if q.MetricID != uuid.Nil && m.ID != q.MetricID {
				continue
			}
			for _, rec := range m.Measurements {
				if q.From != nil && rec.MeasuredAt.Before(*q.From) {
					continue
				}
				if q.To != nil && rec.MeasuredAt.After(*q.To) {
					continue
				}
				cp := *rec
				out = append(out, &cp)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MeasuredAt.Equal(out[j].MeasuredAt) {
			return out[i].MeasuredAt.After(out[j].MeasuredAt)
		}
		return out[i].Sequence > out[j].Sequence
	})
	if limit := NormalizeLimit(q.Limit); len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []*value.Measurement{}
	}
	return out, nil
}

func (s *MemoryStore) AddStakeholder(_ context.Context, st *value.Stakeholder, projectUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(st.ProjectID)
	if err != nil {
		return err
	}
	p.Stakeholders = append(p.Stakeholders, st.Clone())
	p.UpdatedAt = projectUpdatedAt
	return nil
}

func (s *MemoryStore) ListStakeholders(_ context.Context, projectID uuid.UUID) ([]*value.Stakeholder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*value.Stakeholder{}
	if p, ok := s.projects[projectID]; ok {
		for _, st := range p.Stakeholders {
			out = append(out, st.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) RemoveStakeholder(_ context.Context, projectID, stakeholderID uuid.UUID, projectUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(projectID)
	if err != nil {
		return err
	}
	if err := p.RemoveStakeholder(stakeholderID); err != nil {
		return err
	}
	p.UpdatedAt = projectUpdatedAt
	return nil
}

func (s *MemoryStore) AddDeliverable(_ context.Context, d *value.Deliverable, projectUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(d.ProjectID)
	if err != nil {
		return err
	}
	p.Deliverables = append(p.Deliverables, d.Clone())
	p.UpdatedAt = projectUpdatedAt
	return nil
}

func (s *MemoryStore) ListDeliverables(_ context.Context, projectID uuid.UUID) ([]*value.Deliverable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*value.Deliverable{}
	if p, ok := s.projects[projectID]; ok {
		for _, d := range p.Deliverables {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateDeliverable(_ context.Context, d *value.Deliverable, projectUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(d.ProjectID)
	if err != nil {
		return err
	}
	for i, existing := range p.Deliverables {
		if existing.ID == d.ID {
			p.Deliverables[i] = d.Clone()
			p.UpdatedAt = projectUpdatedAt
			return nil
		}
	}
	return value.NotFound("update deliverable", "deliverable %s not found in project %s", d.ID, d.ProjectID)
}

// get must be called with s.mu held.
func (s *MemoryStore) get(id uuid.UUID) (*value.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, value.NotFound("load project", "project %s not found", id)
	}
	return p, nil
}

// shallowHistory clones p without measurement history, matching what the
// database store returns for list queries.
func shallowHistory(p *value.Project) *value.Project {
	cp := p.Clone()
	for _, m := range cp.Metrics {
		m.Measurements = []*value.Measurement{}
	}
	cp.Stakeholders = []*value.Stakeholder{}
	cp.Deliverables = []*value.Deliverable{}
	return cp
}
