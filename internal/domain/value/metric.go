package value

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Metric is one measurable business-value dimension owned by a project.
// BaselineValue and TargetValue are fixed once created; CurrentValue only
// moves through Project.RecordMeasurement.
type Metric struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`

	Category             ValueCategory        `gorm:"column:category;not null;index" json:"category"`
	MetricType           MetricType           `gorm:"column:metric_type;not null" json:"metric_type"`
	BaselineValue        float64              `gorm:"column:baseline_value;not null" json:"baseline_value"`
	TargetValue          float64              `gorm:"column:target_value;not null" json:"target_value"`
	CurrentValue         *float64             `gorm:"column:current_value" json:"current_value"`
	MeasurementFrequency MeasurementFrequency `gorm:"column:measurement_frequency;not null" json:"measurement_frequency"`
	Unit                 string               `gorm:"column:unit" json:"unit,omitempty"`
	IsActive             bool                 `gorm:"column:is_active;not null" json:"is_active"`
	// Position is the metric's index within its project, in the order added.
	Position             int                  `gorm:"column:position;not null;default:0" json:"position"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Measurements []*Measurement `gorm:"foreignKey:MetricID;references:ID;constraint:OnDelete:CASCADE" json:"measurements,omitempty"`
}

func (Metric) TableName() string { return "value_metric" }

// Current is the latest recorded value, or the baseline when nothing has
// been measured yet.
func (m *Metric) Current() float64 {
	if m == nil {
		return 0
	}
	if m.CurrentValue != nil {
		return *m.CurrentValue
	}
	return m.BaselineValue
}

// Progress is (current-baseline)/(target-baseline) clamped to [0,1]. When
// target equals baseline there is no distance to cover: the metric counts as
// done once current reaches the baseline.
func (m *Metric) Progress() float64 {
	if m == nil {
		return 0
	}
	current := m.Current()
	span := m.TargetValue - m.BaselineValue
	if span == 0 {
		if current >= m.BaselineValue {
			return 1.0
		}
		return 0.0
	}
	p := (current - m.BaselineValue) / span
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(1, math.Max(0, p))
}

// RealizedValue is current-baseline for currency metrics. Other metric types
// are not monetary and report ok=false so they never reach ROI sums.
func (m *Metric) RealizedValue() (float64, bool) {
	if m == nil || m.MetricType != MetricTypeCurrency {
		return 0, false
	}
	return m.Current() - m.BaselineValue, true
}

func (m *Metric) MeetsTarget() bool {
	return m.Progress() >= 1.0
}

// LatestMeasurement returns the last appended measurement, if any.
func (m *Metric) LatestMeasurement() *Measurement {
	if m == nil || len(m.Measurements) == 0 {
		return nil
	}
	return m.Measurements[len(m.Measurements)-1]
}

// Measurement is one append-only observation of a metric.
type Measurement struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MetricID        uuid.UUID `gorm:"type:uuid;not null;index:idx_measurement_metric_seq,priority:1" json:"metric_id"`
	ProjectID       uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Sequence        int64     `gorm:"column:sequence;not null;index:idx_measurement_metric_seq,priority:2" json:"sequence"`
	Value           float64   `gorm:"column:value;not null" json:"value"`
	MeasuredAt      time.Time `gorm:"column:measured_at;not null;index" json:"measured_at"`
	ConfidenceLevel float64   `gorm:"column:confidence_level;not null" json:"confidence_level"`
	Notes           string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (Measurement) TableName() string { return "measurement" }

// MetricDefinition describes a metric before it is attached to a project.
// Template catalog entries and user-defined metrics share this shape.
type MetricDefinition struct {
	Name        string               `yaml:"name" json:"name"`
	Description string               `yaml:"description" json:"description,omitempty"`
	Category    ValueCategory        `yaml:"category" json:"category"`
	MetricType  MetricType           `yaml:"metric_type" json:"metric_type"`
	Baseline    float64              `yaml:"baseline" json:"baseline_value"`
	Target      float64              `yaml:"target" json:"target_value"`
	Frequency   MeasurementFrequency `yaml:"frequency" json:"measurement_frequency,omitempty"`
	Unit        string               `yaml:"unit" json:"unit,omitempty"`
}

func (d MetricDefinition) Validate() error {
	const op = "validate metric definition"
	if strings.TrimSpace(d.Name) == "" {
		return InvalidValue(op, "name is required")
	}
	if !d.Category.Valid() {
		return InvalidValue(op, "invalid category %q", d.Category)
	}
	if !d.MetricType.Valid() {
		return InvalidValue(op, "invalid metric type %q", d.MetricType)
	}
	if d.Frequency != "" && !d.Frequency.Valid() {
		return InvalidValue(op, "invalid measurement frequency %q", d.Frequency)
	}
	if !isFinite(d.Baseline) || !isFinite(d.Target) {
		return InvalidValue(op, "baseline and target must be finite numbers")
	}
	return nil
}

func newMetric(projectID uuid.UUID, d MetricDefinition, now time.Time) *Metric {
	freq := d.Frequency
	if freq == "" {
		freq = FrequencyMonthly
	}
	return &Metric{
		ID:                   uuid.New(),
		ProjectID:            projectID,
		Name:                 strings.TrimSpace(d.Name),
		Description:          strings.TrimSpace(d.Description),
		Category:             d.Category,
		MetricType:           d.MetricType,
		BaselineValue:        d.Baseline,
		TargetValue:          d.Target,
		MeasurementFrequency: freq,
		Unit:                 strings.TrimSpace(d.Unit),
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
		Measurements:         []*Measurement{},
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
