package value

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const recentMeasurementLimit = 5

type Dashboard struct {
	ProjectID               uuid.UUID                 `json:"project_id"`
	ProjectInfo             ProjectInfo               `json:"project_info"`
	TotalRealizedValue      float64                   `json:"total_realized_value"`
	// AverageProgress and CategoryProgress are fractions in [0, 1]; the
	// *Percent fields carry the same values scaled to [0, 100].
	AverageProgress         float64                   `json:"average_progress"`
	AverageProgressPercent  float64                   `json:"average_progress_percent"`
	CategoryProgress        map[ValueCategory]float64 `json:"category_progress"`
	CategoryProgressPercent map[ValueCategory]float64 `json:"category_progress_percent"`
	MetricsMeetingTarget    int                       `json:"metrics_meeting_target"`
	TotalMetrics            int                       `json:"total_metrics"`
	ROIPercentage           float64                   `json:"roi_percentage"`
	Metrics                 []MetricSummary           `json:"metrics"`
	RecentMeasurements      []RecentMeasurement       `json:"recent_measurements"`
	DeliverablesStatus      map[DeliverableStatus]int `json:"deliverables_status"`
}

type ProjectInfo struct {
	Name                string        `json:"name"`
	Type                ProjectType   `json:"project_type"`
	Status              ProjectStatus `json:"status"`
	EstimatedTotalValue float64       `json:"estimated_total_value"`
	StartDate           *time.Time    `json:"start_date,omitempty"`
	DurationDays        int           `json:"duration_days"`
}

type MetricSummary struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	Category        ValueCategory `json:"category"`
	MetricType      MetricType    `json:"metric_type"`
	Unit            string        `json:"unit,omitempty"`
	BaselineValue   float64       `json:"baseline_value"`
	TargetValue     float64       `json:"target_value"`
	CurrentValue    float64       `json:"current_value"`
	Measured        bool          `json:"measured"`
	Progress        float64       `json:"progress"`
	ProgressPercent float64       `json:"progress_percent"`
	RealizedValue   *float64      `json:"realized_value,omitempty"`
	MeetsTarget     bool          `json:"meets_target"`
}

type RecentMeasurement struct {
	MetricID        uuid.UUID `json:"metric_id"`
	MetricName      string    `json:"metric_name"`
	Value           float64   `json:"value"`
	Unit            string    `json:"unit,omitempty"`
	MeasuredAt      time.Time `json:"measured_at"`
	ConfidenceLevel float64   `json:"confidence_level"`
	Notes           string    `json:"notes,omitempty"`
}

// Dashboard computes a read-only snapshot. Only active metrics take part.
func (p *Project) Dashboard() Dashboard {
	active := p.ActiveMetrics()

	currency := lo.Filter(active, func(m *Metric, _ int) bool { return m.MetricType == MetricTypeCurrency })
	realized := lo.SumBy(currency, func(m *Metric) float64 {
		v, _ := m.RealizedValue()
		return v
	})

	avg := 0.0
	if len(active) > 0 {
		avg = lo.SumBy(active, func(m *Metric) float64 { return m.Progress() }) / float64(len(active))
	}

	byCategory := lo.GroupBy(active, func(m *Metric) ValueCategory { return m.Category })
	categoryProgress := lo.MapValues(byCategory, func(ms []*Metric, _ ValueCategory) float64 {
		return lo.SumBy(ms, func(m *Metric) float64 { return m.Progress() }) / float64(len(ms))
	})

	return Dashboard{
		ProjectID:               p.ID,
		ProjectInfo:             p.info(),
		TotalRealizedValue:      realized,
		AverageProgress:         avg,
		AverageProgressPercent:  avg * 100,
		CategoryProgress:        categoryProgress,
		CategoryProgressPercent: lo.MapValues(categoryProgress, func(v float64, _ ValueCategory) float64 { return v * 100 }),
		MetricsMeetingTarget:    lo.CountBy(active, func(m *Metric) bool { return m.MeetsTarget() }),
		TotalMetrics:            len(active),
		ROIPercentage:           ROI(realized, p.EstimatedTotalValue),
		Metrics:                 lo.Map(active, func(m *Metric, _ int) MetricSummary { return summarizeMetric(m) }),
		RecentMeasurements:      recentMeasurements(active, recentMeasurementLimit),
		DeliverablesStatus:      p.deliverableCounts(),
	}
}

// ROI is realized/estimated as a percentage, 0 when nothing was estimated.
func ROI(realized, estimated float64) float64 {
	if estimated <= 0 {
		return 0
	}
	return realized / estimated * 100
}

func (p *Project) info() ProjectInfo {
	days := 0
	if p.StartDate != nil {
		if d := int(p.now().Sub(p.StartDate.UTC()).Hours() / 24); d > 0 {
			days = d
		}
	}
	return ProjectInfo{
		Name:                p.Name,
		Type:                p.Type,
		Status:              p.Status,
		EstimatedTotalValue: p.EstimatedTotalValue,
		StartDate:           p.StartDate,
		DurationDays:        days,
	}
}

func (p *Project) deliverableCounts() map[DeliverableStatus]int {
	out := map[DeliverableStatus]int{}
	for _, d := range p.Deliverables {
		if d != nil {
			out[d.Status]++
		}
	}
	return out
}

func summarizeMetric(m *Metric) MetricSummary {
	progress := m.Progress()
	s := MetricSummary{
		ID:              m.ID,
		Name:            m.Name,
		Category:        m.Category,
		MetricType:      m.MetricType,
		Unit:            m.Unit,
		BaselineValue:   m.BaselineValue,
		TargetValue:     m.TargetValue,
		CurrentValue:    m.Current(),
		Measured:        m.CurrentValue != nil,
		Progress:        progress,
		ProgressPercent: progress * 100,
		MeetsTarget:     progress >= 1.0,
	}
	if v, ok := m.RealizedValue(); ok {
		s.RealizedValue = &v
	}
	return s
}

func recentMeasurements(metrics []*Metric, limit int) []RecentMeasurement {
	type entry struct {
		m   *Metric
		rec *Measurement
	}
	var all []entry
	for _, m := range metrics {
		for _, rec := range m.Measurements {
			if rec != nil {
				all = append(all, entry{m: m, rec: rec})
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].rec, all[j].rec
		if !a.MeasuredAt.Equal(b.MeasuredAt) {
			return a.MeasuredAt.After(b.MeasuredAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Sequence > b.Sequence
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return lo.Map(all, func(e entry, _ int) RecentMeasurement {
		return RecentMeasurement{
			MetricID:        e.m.ID,
			MetricName:      e.m.Name,
			Value:           e.rec.Value,
			Unit:            e.m.Unit,
			MeasuredAt:      e.rec.MeasuredAt,
			ConfidenceLevel: e.rec.ConfidenceLevel,
			Notes:           e.rec.Notes,
		}
	})
}
