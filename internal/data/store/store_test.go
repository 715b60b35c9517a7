package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/valuepm-backend/internal/data/repos/testutil"
	"github.com/yungbote/valuepm-backend/internal/domain/value"
)

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	t.Run("gorm", func(t *testing.T) {
		fn(t, NewGormStore(testutil.DB(t), testutil.Logger(t)))
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
}

func newProject(t *testing.T, name string, estimated float64) *value.Project {
	t.Helper()
	p, err := value.NewProject(name, value.ProjectTypeInfrastructure, value.ProjectOptions{EstimatedTotalValue: estimated})
	if err != nil {
		t.Fatalf("NewProject: err=%v", err)
	}
	defs, err := value.BuildMetricsFor(value.ProjectTypeInfrastructure)
	if err != nil {
		t.Fatalf("BuildMetricsFor: err=%v", err)
	}
	for _, def := range defs {
		if _, err := p.AddMetric(def); err != nil {
			t.Fatalf("AddMetric: err=%v", err)
		}
	}
	return p
}

func TestStoreCreateAndLoad(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := newProject(t, "Cloud Migration", 500000)
		if _, err := p.AddStakeholder(value.StakeholderInput{Name: "CFO", InfluenceLevel: 5}); err != nil {
			t.Fatalf("AddStakeholder: err=%v", err)
		}
		if err := s.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject: err=%v", err)
		}

		got, err := s.LoadProject(ctx, p.ID)
		if err != nil {
			t.Fatalf("LoadProject: err=%v", err)
		}
		if got.Name != "Cloud Migration" || got.EstimatedTotalValue != 500000 {
			t.Fatalf("LoadProject: got=%+v", got)
		}
		if len(got.Metrics) != len(p.Metrics) {
			t.Fatalf("metrics: got=%d want=%d", len(got.Metrics), len(p.Metrics))
		}
		if len(got.Stakeholders) != 1 || got.Stakeholders[0].InfluenceLevel != 5 {
			t.Fatalf("stakeholders: got=%+v", got.Stakeholders)
		}

		got.Name = "mutated"
		again, err := s.LoadProject(ctx, p.ID)
		if err != nil {
			t.Fatalf("LoadProject: err=%v", err)
		}
		if again.Name != "Cloud Migration" {
			t.Fatalf("store shares state with caller: name=%q", again.Name)
		}
	})
}

func TestStoreLoadMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		_, err := s.LoadProject(context.Background(), uuid.New())
		if !value.IsKind(err, value.KindNotFound) {
			t.Fatalf("LoadProject: expected not_found, err=%v", err)
		}
	})
}

func TestStoreAppendMeasurement(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := newProject(t, "Uptime", 100000)
		if err := s.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject: err=%v", err)
		}
		m := p.Metrics[0]

		for i, v := range []float64{10, 20, 30} {
			rec, err := p.RecordMeasurement(m.ID, v, "", nil)
			if err != nil {
				t.Fatalf("RecordMeasurement: err=%v", err)
			}
			if err := s.AppendMeasurement(ctx, rec, p.UpdatedAt); err != nil {
				t.Fatalf("AppendMeasurement: err=%v", err)
			}
			if rec.Sequence != int64(i+1) {
				t.Fatalf("Sequence: got=%d want=%d", rec.Sequence, i+1)
			}
		}

		got, err := s.LoadProject(ctx, p.ID)
		if err != nil {
			t.Fatalf("LoadProject: err=%v", err)
		}
		gm, err := got.Metric(m.ID)
		if err != nil {
			t.Fatalf("Metric: err=%v", err)
		}
		if len(gm.Measurements) != 3 {
			t.Fatalf("history: got=%d want=3", len(gm.Measurements))
		}
		if gm.CurrentValue == nil || *gm.CurrentValue != 30 {
			t.Fatalf("CurrentValue: got=%v want=30", gm.CurrentValue)
		}

		recent, err := s.ListMeasurements(ctx, MeasurementQuery{ProjectID: p.ID, Limit: 2})
		if err != nil {
			t.Fatalf("ListMeasurements: err=%v", err)
		}
		if len(recent) != 2 || recent[0].Value != 30 || recent[1].Value != 20 {
			t.Fatalf("ListMeasurements: got=%+v", recent)
		}
	})
}

func TestStoreAppendMeasurementRejectsForeignMetric(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a := newProject(t, "A", 1)
		b := newProject(t, "B", 1)
		for _, p := range []*value.Project{a, b} {
			if err := s.CreateProject(ctx, p); err != nil {
				t.Fatalf("CreateProject: err=%v", err)
			}
		}
		rec, err := b.RecordMeasurement(b.Metrics[0].ID, 1, "", nil)
		if err != nil {
			t.Fatalf("RecordMeasurement: err=%v", err)
		}
		rec.ProjectID = a.ID
		err = s.AppendMeasurement(ctx, rec, time.Now().UTC())
		if !value.IsKind(err, value.KindNotFound) {
			t.Fatalf("AppendMeasurement: expected not_found, err=%v", err)
		}
	})
}

func TestStoreListMeasurementsDateRange(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := newProject(t, "Range", 1)
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		step := 0
		p.SetClock(func() time.Time {
			step++
			return base.Add(time.Duration(step) * 24 * time.Hour)
		})
		if err := s.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject: err=%v", err)
		}
		m := p.Metrics[0]
		for i := 0; i < 5; i++ {
			rec, err := p.RecordMeasurement(m.ID, float64(i), "", nil)
			if err != nil {
				t.Fatalf("RecordMeasurement: err=%v", err)
			}
			if err := s.AppendMeasurement(ctx, rec, p.UpdatedAt); err != nil {
				t.Fatalf("AppendMeasurement: err=%v", err)
			}
		}
		from := base.Add(2 * 24 * time.Hour)
		to := base.Add(3 * 24 * time.Hour)
		got, err := s.ListMeasurements(ctx, MeasurementQuery{MetricID: m.ID, From: &from, To: &to})
		if err != nil {
			t.Fatalf("ListMeasurements: err=%v", err)
		}
		if len(got) != 2 {
			t.Fatalf("ListMeasurements: got=%d want=2", len(got))
		}
		if !got[0].MeasuredAt.After(got[1].MeasuredAt) {
			t.Fatalf("ListMeasurements: expected newest first, got=%v,%v", got[0].MeasuredAt, got[1].MeasuredAt)
		}
	})
}

func TestStoreListAndCount(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, name := range []string{"one", "two", "three"} {
			if err := s.CreateProject(ctx, newProject(t, name, 10)); err != nil {
				t.Fatalf("CreateProject: err=%v", err)
			}
		}
		page, total, err := s.ListProjects(ctx, 1, 1)
		if err != nil {
			t.Fatalf("ListProjects: err=%v", err)
		}
		if total != 3 || len(page) != 1 {
			t.Fatalf("ListProjects: total=%d len=%d", total, len(page))
		}
		if len(page[0].Metrics) == 0 {
			t.Fatalf("ListProjects: expected metrics attached")
		}
		all, err := s.LoadAllProjects(ctx)
		if err != nil || len(all) != 3 {
			t.Fatalf("LoadAllProjects: len=%d err=%v", len(all), err)
		}
		n, err := s.CountProjects(ctx)
		if err != nil || n != 3 {
			t.Fatalf("CountProjects: n=%d err=%v", n, err)
		}
	})
}

func TestStoreUpdateAndDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := newProject(t, "Before", 10)
		if err := s.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject: err=%v", err)
		}
		name := "After"
		status := value.ProjectStatusActive
		if err := p.Update(value.ProjectUpdate{Name: &name, Status: &status}); err != nil {
			t.Fatalf("Update: err=%v", err)
		}
		if err := s.UpdateProject(ctx, p); err != nil {
			t.Fatalf("UpdateProject: err=%v", err)
		}
		got, err := s.LoadProject(ctx, p.ID)
		if err != nil {
			t.Fatalf("LoadProject: err=%v", err)
		}
		if got.Name != "After" || got.Status != value.ProjectStatusActive {
			t.Fatalf("UpdateProject: got name=%q status=%q", got.Name, got.Status)
		}

		if err := s.DeleteProject(ctx, p.ID); err != nil {
			t.Fatalf("DeleteProject: err=%v", err)
		}
		if _, err := s.LoadProject(ctx, p.ID); !value.IsKind(err, value.KindNotFound) {
			t.Fatalf("LoadProject after delete: err=%v", err)
		}
		if err := s.DeleteProject(ctx, p.ID); !value.IsKind(err, value.KindNotFound) {
			t.Fatalf("DeleteProject twice: expected not_found, err=%v", err)
		}
		left, err := s.ListMeasurements(ctx, MeasurementQuery{ProjectID: p.ID})
		if err != nil || len(left) != 0 {
			t.Fatalf("ListMeasurements after delete: len=%d err=%v", len(left), err)
		}
	})
}

func TestStoreMetricStakeholderDeliverable(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		p := newProject(t, "Owned", 10)
		if err := s.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject: err=%v", err)
		}

		m, err := p.AddMetric(value.MetricDefinition{
			Name:       "Tickets Closed",
			Category:   value.CategoryEfficiencyGain,
			MetricType: value.MetricTypeCount,
			Baseline:   10,
			Target:     50,
			Frequency:  value.FrequencyWeekly,
		})
		if err != nil {
			t.Fatalf("AddMetric: err=%v", err)
		}
		if err := s.AddMetric(ctx, m, p.UpdatedAt); err != nil {
			t.Fatalf("store AddMetric: err=%v", err)
		}
		if _, err := p.DeactivateMetric(m.ID); err != nil {
			t.Fatalf("DeactivateMetric: err=%v", err)
		}
		if err := s.UpdateMetric(ctx, m, p.UpdatedAt); err != nil {
			t.Fatalf("UpdateMetric: err=%v", err)
		}

		st, err := p.AddStakeholder(value.StakeholderInput{Name: "CTO", Email: "cto@example.com"})
		if err != nil {
			t.Fatalf("AddStakeholder: err=%v", err)
		}
		if err := s.AddStakeholder(ctx, st, p.UpdatedAt); err != nil {
			t.Fatalf("store AddStakeholder: err=%v", err)
		}

		d, err := p.AddDeliverable(value.DeliverableInput{
			Name:              "Runbook",
			ValueContribution: map[string]float64{m.ID.String(): 0.5},
		})
		if err != nil {
			t.Fatalf("AddDeliverable: err=%v", err)
		}
		if err := s.AddDeliverable(ctx, d, p.UpdatedAt); err != nil {
			t.Fatalf("store AddDeliverable: err=%v", err)
		}
		if _, err := p.UpdateDeliverableStatus(d.ID, value.DeliverableCompleted); err != nil {
			t.Fatalf("UpdateDeliverableStatus: err=%v", err)
		}
		if err := s.UpdateDeliverable(ctx, d, p.UpdatedAt); err != nil {
			t.Fatalf("UpdateDeliverable: err=%v", err)
		}

		got, err := s.LoadProject(ctx, p.ID)
		if err != nil {
			t.Fatalf("LoadProject: err=%v", err)
		}
		gm, err := got.Metric(m.ID)
		if err != nil || gm.IsActive {
			t.Fatalf("metric: got=%+v err=%v", gm, err)
		}
		ds, err := s.ListDeliverables(ctx, p.ID)
		if err != nil || len(ds) != 1 {
			t.Fatalf("ListDeliverables: len=%d err=%v", len(ds), err)
		}
		if ds[0].Status != value.DeliverableCompleted || ds[0].ActualCompletion == nil {
			t.Fatalf("deliverable: got=%+v", ds[0])
		}
		if ds[0].Contributions()[m.ID.String()] != 0.5 {
			t.Fatalf("Contributions: got=%v", ds[0].Contributions())
		}

		if err := s.RemoveStakeholder(ctx, p.ID, st.ID, time.Now().UTC()); err != nil {
			t.Fatalf("RemoveStakeholder: err=%v", err)
		}
		if err := s.RemoveStakeholder(ctx, p.ID, st.ID, time.Now().UTC()); !value.IsKind(err, value.KindNotFound) {
			t.Fatalf("RemoveStakeholder twice: expected not_found, err=%v", err)
		}
		sts, err := s.ListStakeholders(ctx, p.ID)
		if err != nil || len(sts) != 0 {
			t.Fatalf("ListStakeholders: len=%d err=%v", len(sts), err)
		}
	})
}

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultMeasurementLimit, -3: DefaultMeasurementLimit, 7: 7, 5000: MaxMeasurementLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d): got=%d want=%d", in, got, want)
		}
	}
}
