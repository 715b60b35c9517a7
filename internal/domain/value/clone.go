package value

import (
	"time"

	"gorm.io/datatypes"
)

// Clone returns a deep copy that shares no mutable state with p.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	out.StartDate = cloneTime(p.StartDate)
	out.EndDate = cloneTime(p.EndDate)
	out.Metrics = make([]*Metric, 0, len(p.Metrics))
	for _, m := range p.Metrics {
		if m != nil {
			out.Metrics = append(out.Metrics, m.Clone())
		}
	}
	out.Stakeholders = make([]*Stakeholder, 0, len(p.Stakeholders))
	for _, s := range p.Stakeholders {
		if s != nil {
			out.Stakeholders = append(out.Stakeholders, s.Clone())
		}
	}
	out.Deliverables = make([]*Deliverable, 0, len(p.Deliverables))
	for _, d := range p.Deliverables {
		if d != nil {
			out.Deliverables = append(out.Deliverables, d.Clone())
		}
	}
	return &out
}

func (m *Metric) Clone() *Metric {
	if m == nil {
		return nil
	}
	out := *m
	if m.CurrentValue != nil {
		v := *m.CurrentValue
		out.CurrentValue = &v
	}
	out.Measurements = make([]*Measurement, 0, len(m.Measurements))
	for _, rec := range m.Measurements {
		if rec != nil {
			cp := *rec
			out.Measurements = append(out.Measurements, &cp)
		}
	}
	return &out
}

func (s *Stakeholder) Clone() *Stakeholder {
	if s == nil {
		return nil
	}
	out := *s
	out.PrimaryValueInterests = cloneJSON(s.PrimaryValueInterests)
	return &out
}

func (d *Deliverable) Clone() *Deliverable {
	if d == nil {
		return nil
	}
	out := *d
	out.ExpectedCompletion = cloneTime(d.ExpectedCompletion)
	out.ActualCompletion = cloneTime(d.ActualCompletion)
	out.ValueContribution = cloneJSON(d.ValueContribution)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneJSON(raw datatypes.JSON) datatypes.JSON {
	if raw == nil {
		return nil
	}
	out := make(datatypes.JSON, len(raw))
	copy(out, raw)
	return out
}
