package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
)

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, estimated float64) *value.Project {
	tb.Helper()
	now := time.Now().UTC()
	p := &value.Project{
		ID:                  uuid.New(),
		Name:                name,
		Type:                value.ProjectTypeInfrastructure,
		Status:              value.ProjectStatusPlanning,
		EstimatedTotalValue: estimated,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := tx.WithContext(ctx).Omit("Metrics", "Stakeholders", "Deliverables").Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedMetric(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, name string, mt value.MetricType, baseline, target float64) *value.Metric {
	tb.Helper()
	now := time.Now().UTC()
	m := &value.Metric{
		ID:                   uuid.New(),
		ProjectID:            projectID,
		Name:                 name,
		Category:             value.CategoryEfficiencyGain,
		MetricType:           mt,
		BaselineValue:        baseline,
		TargetValue:          target,
		MeasurementFrequency: value.FrequencyMonthly,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := tx.WithContext(ctx).Omit("Measurements").Create(m).Error; err != nil {
		tb.Fatalf("seed metric: %v", err)
	}
	return m
}

func SeedMeasurement(tb testing.TB, ctx context.Context, tx *gorm.DB, m *value.Metric, seq int64, v float64, at time.Time) *value.Measurement {
	tb.Helper()
	rec := &value.Measurement{
		ID:              uuid.New(),
		MetricID:        m.ID,
		ProjectID:       m.ProjectID,
		Sequence:        seq,
		Value:           v,
		MeasuredAt:      at.UTC(),
		ConfidenceLevel: 100,
		CreatedAt:       at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed measurement: %v", err)
	}
	return rec
}

func SeedStakeholder(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, name string) *value.Stakeholder {
	tb.Helper()
	now := time.Now().UTC()
	s := &value.Stakeholder{
		ID:                    uuid.New(),
		ProjectID:             projectID,
		Name:                  name,
		PrimaryValueInterests: datatypes.JSON([]byte("[]")),
		InfluenceLevel:        1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed stakeholder: %v", err)
	}
	return s
}

func SeedDeliverable(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, name string) *value.Deliverable {
	tb.Helper()
	now := time.Now().UTC()
	d := &value.Deliverable{
		ID:                uuid.New(),
		ProjectID:         projectID,
		Name:              name,
		ValueContribution: datatypes.JSON([]byte("{}")),
		Status:            value.DeliverablePlanned,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed deliverable: %v", err)
	}
	return d
}

func PtrTime(v time.Time) *time.Time { return &v }
