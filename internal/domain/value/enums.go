package value

import "strings"

type ProjectType string

const (
	ProjectTypeInfrastructure        ProjectType = "infrastructure"
	ProjectTypeSoftwareDevelopment   ProjectType = "software_development"
	ProjectTypeDigitalTransformation ProjectType = "digital_transformation"
)

var ProjectTypes = []ProjectType{
	ProjectTypeInfrastructure,
	ProjectTypeSoftwareDevelopment,
	ProjectTypeDigitalTransformation,
}

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeInfrastructure, ProjectTypeSoftwareDevelopment, ProjectTypeDigitalTransformation:
		return true
	default:
		return false
	}
}

// ParseProjectType normalizes case and surrounding whitespace. Unknown values
// are reported as unsupported_type, not invalid_value.
func ParseProjectType(raw string) (ProjectType, error) {
	t := ProjectType(normalizeEnum(raw))
	if !t.Valid() {
		return "", UnsupportedType("parse project type", "unsupported project type %q", raw)
	}
	return t, nil
}

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

var ProjectStatuses = []ProjectStatus{
	ProjectStatusPlanning,
	ProjectStatusActive,
	ProjectStatusCompleted,
	ProjectStatusOnHold,
	ProjectStatusCancelled,
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold, ProjectStatusCancelled:
		return true
	default:
		return false
	}
}

func ParseProjectStatus(raw string) (ProjectStatus, error) {
	s := ProjectStatus(normalizeEnum(raw))
	if !s.Valid() {
		return "", InvalidValue("parse project status", "invalid project status %q", raw)
	}
	return s, nil
}

type ValueCategory string

const (
	CategoryCostReduction      ValueCategory = "cost_reduction"
	CategoryRevenueIncrease    ValueCategory = "revenue_increase"
	CategoryEfficiencyGain     ValueCategory = "efficiency_gain"
	CategoryQualityImprovement ValueCategory = "quality_improvement"
	CategoryRiskMitigation     ValueCategory = "risk_mitigation"
	CategoryUserSatisfaction   ValueCategory = "user_satisfaction"
)

func (c ValueCategory) Valid() bool {
	switch c {
	case CategoryCostReduction, CategoryRevenueIncrease, CategoryEfficiencyGain,
		CategoryQualityImprovement, CategoryRiskMitigation, CategoryUserSatisfaction:
		return true
	default:
		return false
	}
}

func ParseValueCategory(raw string) (ValueCategory, error) {
	c := ValueCategory(normalizeEnum(raw))
	if !c.Valid() {
		return "", InvalidValue("parse value category", "invalid value category %q", raw)
	}
	return c, nil
}

type MetricType string

const (
	MetricTypeCurrency   MetricType = "currency"
	MetricTypePercentage MetricType = "percentage"
	MetricTypeTime       MetricType = "time"
	MetricTypeCount      MetricType = "count"
	MetricTypeScore      MetricType = "score"
)

func (t MetricType) Valid() bool {
	switch t {
	case MetricTypeCurrency, MetricTypePercentage, MetricTypeTime, MetricTypeCount, MetricTypeScore:
		return true
	default:
		return false
	}
}

func ParseMetricType(raw string) (MetricType, error) {
	t := MetricType(normalizeEnum(raw))
	if !t.Valid() {
		return "", InvalidValue("parse metric type", "invalid metric type %q", raw)
	}
	return t, nil
}

type MeasurementFrequency string

const (
	FrequencyDaily     MeasurementFrequency = "daily"
	FrequencyWeekly    MeasurementFrequency = "weekly"
	FrequencyMonthly   MeasurementFrequency = "monthly"
	FrequencyQuarterly MeasurementFrequency = "quarterly"
	FrequencyYearly    MeasurementFrequency = "yearly"
)

func (f MeasurementFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	default:
		return false
	}
}

func ParseMeasurementFrequency(raw string) (MeasurementFrequency, error) {
	if strings.TrimSpace(raw) == "" {
		return FrequencyMonthly, nil
	}
	f := MeasurementFrequency(normalizeEnum(raw))
	if !f.Valid() {
		return "", InvalidValue("parse measurement frequency", "invalid measurement frequency %q", raw)
	}
	return f, nil
}

type DeliverableStatus string

const (
	DeliverablePlanned    DeliverableStatus = "planned"
	DeliverableInProgress DeliverableStatus = "in_progress"
	DeliverableCompleted  DeliverableStatus = "completed"
	DeliverableCancelled  DeliverableStatus = "cancelled"
)

func (s DeliverableStatus) Valid() bool {
	switch s {
	case DeliverablePlanned, DeliverableInProgress, DeliverableCompleted, DeliverableCancelled:
		return true
	default:
		return false
	}
}

func ParseDeliverableStatus(raw string) (DeliverableStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return DeliverablePlanned, nil
	}
	s := DeliverableStatus(normalizeEnum(raw))
	if !s.Valid() {
		return "", InvalidValue("parse deliverable status", "invalid deliverable status %q", raw)
	}
	return s, nil
}

func normalizeEnum(raw string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
}
