package seed

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/yungbote/valuepm-backend/internal/data/store"
	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

var seedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testOpts() Options {
	return Options{
		Now:  func() time.Time { return seedNow },
		Rand: rand.New(rand.NewPCG(1, 2)),
	}
}

func TestBuildHistoryShape(t *testing.T) {
	projects, err := Build(seedNow, rand.New(rand.NewPCG(7, 7)))
	if err != nil {
		t.Fatalf("Build: err=%v", err)
	}
	if len(projects) != 5 {
		t.Fatalf("Build: projects=%d want 5", len(projects))
	}
	for _, p := range projects {
		want := measurementsFor(p.Status)
		for _, m := range p.Metrics {
			if len(m.Measurements) != want {
				t.Fatalf("%s/%s: measurements=%d want %d", p.Name, m.Name, len(m.Measurements), want)
			}
			if want == 0 {
				if m.CurrentValue != nil {
					t.Fatalf("%s/%s: planning metric has current value", p.Name, m.Name)
				}
				continue
			}
			last := m.Measurements[want-1]
			if !last.MeasuredAt.Equal(seedNow) {
				t.Fatalf("%s/%s: last measured_at=%v want %v", p.Name, m.Name, last.MeasuredAt, seedNow)
			}
			first := m.Measurements[0]
			if gap := last.MeasuredAt.Sub(first.MeasuredAt); gap != time.Duration(want-1)*measurementSpacing {
				t.Fatalf("%s/%s: history span=%v", p.Name, m.Name, gap)
			}
			for i, rec := range m.Measurements {
				if rec.Sequence != int64(i+1) {
					t.Fatalf("%s/%s: sequence[%d]=%d", p.Name, m.Name, i, rec.Sequence)
				}
				if rec.ConfidenceLevel < 80 || rec.ConfidenceLevel > 100 {
					t.Fatalf("%s/%s: confidence=%v", p.Name, m.Name, rec.ConfidenceLevel)
				}
			}
			if *m.CurrentValue != last.Value {
				t.Fatalf("%s/%s: current=%v last=%v", p.Name, m.Name, *m.CurrentValue, last.Value)
			}
		}
	}
}

func TestSampleValueStaysNearTrajectory(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	m := &value.Metric{MetricType: value.MetricTypeCount, BaselineValue: 1000, TargetValue: 700}
	for i := 0; i < 100; i++ {
		v := sampleValue(m, 1, rng)
		if v < 630 || v > 770 {
			t.Fatalf("sampleValue: got=%v outside +/-10%% of target", v)
		}
	}
	zero := &value.Metric{MetricType: value.MetricTypePercentage, BaselineValue: 0, TargetValue: 0}
	if v := sampleValue(zero, 1, rng); v != 0 {
		t.Fatalf("sampleValue: got=%v want 0", v)
	}
}

func TestRunPersistsAndSkips(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	sum, err := Run(ctx, st, logger.NewNop(), testOpts())
	if err != nil {
		t.Fatalf("Run: err=%v", err)
	}
	if sum.Skipped || sum.Projects != 5 || sum.Metrics != 14 {
		t.Fatalf("Run: summary=%+v", sum)
	}
	// 3 active projects * 3 metrics * 5 + 1 completed * 3 metrics * 8
	if sum.Measurements != 69 {
		t.Fatalf("Run: measurements=%d want 69", sum.Measurements)
	}
	if n, _ := st.CountProjects(ctx); n != 5 {
		t.Fatalf("CountProjects: got=%d", n)
	}

	again, err := Run(ctx, st, logger.NewNop(), testOpts())
	if err != nil {
		t.Fatalf("Run again: err=%v", err)
	}
	if !again.Skipped || again.Existing != 5 {
		t.Fatalf("Run again: summary=%+v", again)
	}

	opts := testOpts()
	opts.Force = true
	if _, err := Run(ctx, st, logger.NewNop(), opts); err != nil {
		t.Fatalf("Run force: err=%v", err)
	}
	if n, _ := st.CountProjects(ctx); n != 10 {
		t.Fatalf("CountProjects after force: got=%d", n)
	}
}

func TestRunDryRun(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	opts := testOpts()
	opts.DryRun = true

	sum, err := Run(ctx, st, logger.NewNop(), opts)
	if err != nil {
		t.Fatalf("Run: err=%v", err)
	}
	if sum.Projects != 5 {
		t.Fatalf("Run: summary=%+v", sum)
	}
	if n, _ := st.CountProjects(ctx); n != 0 {
		t.Fatalf("dry run persisted %d projects", n)
	}
}
