package projects

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/valuepm-backend/internal/data/repos/testutil"
	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/pkg/dbctx"
)

func TestProjectRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewProjectRepo(db, testutil.Logger(t))

	p, err := value.NewProject("Cloud Migration", value.ProjectTypeInfrastructure, value.ProjectOptions{EstimatedTotalValue: 200000})
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	if _, err := p.AddMetric(value.MetricDefinition{Name: "Cost", Category: value.CategoryCostReduction, MetricType: value.MetricTypeCurrency}); err != nil {
		t.Fatalf("AddMetric: %v", err)
	}
	if _, err := repo.Create(dbc, []*value.Project{p}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var metricRows int64
	if err := tx.Model(&value.Metric{}).Count(&metricRows).Error; err != nil || metricRows != 0 {
		t.Fatalf("Create should not cascade metrics: err=%v rows=%d", err, metricRows)
	}

	got, err := repo.GetByID(dbc, p.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if got.Name != p.Name || got.Type != p.Type || got.EstimatedTotalValue != 200000 {
		t.Fatalf("GetByID: got=%+v", got)
	}
	if missing, err := repo.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID missing: err=%v got=%v", err, missing)
	}

	second := testutil.SeedProject(t, ctx, tx, "Portal", 0)
	if n, err := repo.Count(dbc); err != nil || n != 2 {
		t.Fatalf("Count: err=%v n=%d", err, n)
	}
	if rows, err := repo.List(dbc, 1, 10); err != nil || len(rows) != 1 {
		t.Fatalf("List offset: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListAll(dbc); err != nil || len(rows) != 2 {
		t.Fatalf("ListAll: err=%v len=%d", err, len(rows))
	}

	status := value.ProjectStatusActive
	if err := p.Update(value.ProjectUpdate{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.Save(dbc, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ = repo.GetByID(dbc, p.ID)
	if got.Status != value.ProjectStatusActive {
		t.Fatalf("Save status: got=%q", got.Status)
	}

	later := time.Now().UTC().Add(time.Hour)
	if err := repo.Touch(dbc, second.ID, later); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	got, _ = repo.GetByID(dbc, second.ID)
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("Touch: got=%v want=%v", got.UpdatedAt, later)
	}

	if n, err := repo.DeleteByIDs(dbc, []uuid.UUID{p.ID}); err != nil || n != 1 {
		t.Fatalf("DeleteByIDs: err=%v n=%d", err, n)
	}
	if n, err := repo.DeleteByIDs(dbc, []uuid.UUID{p.ID}); err != nil || n != 0 {
		t.Fatalf("DeleteByIDs again: err=%v n=%d", err, n)
	}
}

func TestValueMetricRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewValueMetricRepo(db, testutil.Logger(t))

	p := testutil.SeedProject(t, ctx, tx, "Infra", 0)
	m := testutil.SeedMetric(t, ctx, tx, p.ID, "Availability", value.MetricTypePercentage, 95, 99.9)

	rows, err := repo.GetByProjectIDs(dbc, []uuid.UUID{p.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByProjectIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].CurrentValue != nil || !rows[0].IsActive {
		t.Fatalf("GetByProjectIDs: got=%+v", rows[0])
	}

	now := time.Now().UTC()
	if err := repo.SetCurrentValue(dbc, m.ID, 99.8, now); err != nil {
		t.Fatalf("SetCurrentValue: %v", err)
	}
	if err := repo.SetActive(dbc, m.ID, false, now); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	rows, err = repo.GetByIDs(dbc, []uuid.UUID{m.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].CurrentValue == nil || *rows[0].CurrentValue != 99.8 || rows[0].IsActive {
		t.Fatalf("after updates: current=%v active=%v", rows[0].CurrentValue, rows[0].IsActive)
	}

	if err := repo.DeleteByProjectIDs(dbc, []uuid.UUID{p.ID}); err != nil {
		t.Fatalf("DeleteByProjectIDs: %v", err)
	}
	if rows, err := repo.GetByProjectIDs(dbc, []uuid.UUID{p.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after delete: err=%v len=%d", err, len(rows))
	}
}

func TestValueMetricRepoKeepsPositionOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewValueMetricRepo(db, testutil.Logger(t))

	p := testutil.SeedProject(t, ctx, tx, "Infra", 0)

	// Same created_at for every row; ids sort opposite to position.
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	names := []string{"Uptime", "Incidents", "Cost"}
	ids := []uuid.UUID{
		uuid.MustParse("ffffffff-0000-0000-0000-000000000000"),
		uuid.MustParse("88888888-0000-0000-0000-000000000000"),
		uuid.MustParse("11111111-0000-0000-0000-000000000000"),
	}
	for i := len(names) - 1; i >= 0; i-- {
		m := &value.Metric{
			ID:                   ids[i],
			ProjectID:            p.ID,
			Name:                 names[i],
			Category:             value.CategoryRiskMitigation,
			MetricType:           value.MetricTypeCount,
			TargetValue:          10,
			MeasurementFrequency: value.FrequencyMonthly,
			IsActive:             true,
			Position:             i,
			CreatedAt:            created,
			UpdatedAt:            created,
		}
		if err := tx.WithContext(ctx).Omit("Measurements").Create(m).Error; err != nil {
			t.Fatalf("create metric %s: %v", names[i], err)
		}
	}

	rows, err := repo.GetByProjectIDs(dbc, []uuid.UUID{p.ID})
	if err != nil || len(rows) != len(names) {
		t.Fatalf("GetByProjectIDs: err=%v len=%d", err, len(rows))
	}
	for i, row := range rows {
		if row.Name != names[i] || row.Position != i {
			t.Fatalf("GetByProjectIDs[%d]: name=%q position=%d want=%q/%d", i, row.Name, row.Position, names[i], i)
		}
	}

	rows, err = repo.GetByIDs(dbc, ids)
	if err != nil || len(rows) != len(names) {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	for i, row := range rows {
		if row.Name != names[i] {
			t.Fatalf("GetByIDs[%d]: name=%q want=%q", i, row.Name, names[i])
		}
	}
}

func TestMeasurementRepoQuery(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewMeasurementRepo(db, testutil.Logger(t))

	p := testutil.SeedProject(t, ctx, tx, "Infra", 0)
	m1 := testutil.SeedMetric(t, ctx, tx, p.ID, "Latency", value.MetricTypeTime, 500, 200)
	m2 := testutil.SeedMetric(t, ctx, tx, p.ID, "Cost", value.MetricTypeCurrency, 100, 50)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		testutil.SeedMeasurement(t, ctx, tx, m1, int64(i+1), float64(400-i*10), base.AddDate(0, 0, i))
	}
	testutil.SeedMeasurement(t, ctx, tx, m2, 1, 90, base.AddDate(0, 0, 2))
	// same timestamp as the previous m1 row: sequence decides order
	testutil.SeedMeasurement(t, ctx, tx, m1, 6, 330, base.AddDate(0, 0, 4))

	history, err := repo.GetByMetricIDs(dbc, []uuid.UUID{m1.ID})
	if err != nil || len(history) != 6 {
		t.Fatalf("GetByMetricIDs: err=%v len=%d", err, len(history))
	}
	if history[0].Value != 400 || history[5].Value != 330 {
		t.Fatalf("GetByMetricIDs order: first=%v last=%v", history[0].Value, history[5].Value)
	}

	all, err := repo.Query(dbc, MeasurementFilter{ProjectID: p.ID})
	if err != nil || len(all) != 7 {
		t.Fatalf("Query project: err=%v len=%d", err, len(all))
	}
	if all[0].Value != 330 {
		t.Fatalf("Query newest first: got=%v", all[0].Value)
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 3)
	ranged, err := repo.Query(dbc, MeasurementFilter{ProjectID: p.ID, MetricID: m1.ID, From: &from, To: &to})
	if err != nil || len(ranged) != 3 {
		t.Fatalf("Query range: err=%v len=%d", err, len(ranged))
	}

	limited, err := repo.Query(dbc, MeasurementFilter{MetricID: m1.ID, Limit: 2})
	if err != nil || len(limited) != 2 {
		t.Fatalf("Query limit: err=%v len=%d", err, len(limited))
	}

	if err := repo.DeleteByProjectIDs(dbc, []uuid.UUID{p.ID}); err != nil {
		t.Fatalf("DeleteByProjectIDs: %v", err)
	}
	if rows, err := repo.Query(dbc, MeasurementFilter{ProjectID: p.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after delete: err=%v len=%d", err, len(rows))
	}
}

func TestStakeholderAndDeliverableRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	stakeholders := NewStakeholderRepo(db, testutil.Logger(t))
	deliverables := NewDeliverableRepo(db, testutil.Logger(t))

	p := testutil.SeedProject(t, ctx, tx, "Portal", 0)
	other := testutil.SeedProject(t, ctx, tx, "Other", 0)
	s := testutil.SeedStakeholder(t, ctx, tx, p.ID, "Dana")

	if n, err := stakeholders.DeleteByIDs(dbc, other.ID, []uuid.UUID{s.ID}); err != nil || n != 0 {
		t.Fatalf("DeleteByIDs foreign project: err=%v n=%d", err, n)
	}
	if rows, err := stakeholders.GetByProjectIDs(dbc, []uuid.UUID{p.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByProjectIDs: err=%v len=%d", err, len(rows))
	}
	if n, err := stakeholders.DeleteByIDs(dbc, p.ID, []uuid.UUID{s.ID}); err != nil || n != 1 {
		t.Fatalf("DeleteByIDs: err=%v n=%d", err, n)
	}

	d := testutil.SeedDeliverable(t, ctx, tx, p.ID, "Portal MVP")
	done := time.Now().UTC()
	d.Status = value.DeliverableCompleted
	d.ActualCompletion = &done
	d.UpdatedAt = done
	if err := deliverables.SaveStatus(dbc, d); err != nil {
		t.Fatalf("SaveStatus: %v", err)
	}
	rows, err := deliverables.GetByProjectIDs(dbc, []uuid.UUID{p.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByProjectIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].Status != value.DeliverableCompleted || rows[0].ActualCompletion == nil {
		t.Fatalf("SaveStatus not persisted: %+v", rows[0])
	}
	if err := deliverables.DeleteByProjectIDs(dbc, []uuid.UUID{p.ID}); err != nil {
		t.Fatalf("DeleteByProjectIDs: %v", err)
	}
}
