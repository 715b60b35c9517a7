// Package seed loads a demonstration portfolio: five projects across every
// project type with backdated measurement history.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/yungbote/valuepm-backend/internal/data/store"
	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

const measurementSpacing = 14 * 24 * time.Hour

type Options struct {
	// Force seeds even when the store already holds projects.
	Force bool
	// DryRun builds the sample projects without persisting them.
	DryRun bool
	Now    func() time.Time
	// Rand drives the +/-10% jitter on generated values.
	Rand *rand.Rand
}

type Summary struct {
	Skipped      bool  `json:"skipped"`
	Existing     int64 `json:"existing"`
	Projects     int   `json:"projects"`
	Metrics      int   `json:"metrics"`
	Measurements int   `json:"measurements"`
}

type sampleProject struct {
	name         string
	projectType  value.ProjectType
	status       value.ProjectStatus
	startOffset  int
	endOffset    int
	businessCase string
	estimate     float64
	metrics      []value.MetricDefinition
}

func metric(name, desc string, mt value.MetricType, cat value.ValueCategory, baseline, target float64, freq value.MeasurementFrequency) value.MetricDefinition {
	return value.MetricDefinition{
		Name:        name,
		Description: desc,
		MetricType:  mt,
		Category:    cat,
		Baseline:    baseline,
		Target:      target,
		Frequency:   freq,
	}
}

var samples = []sampleProject{
	{
		name:         "AWS Cloud Migration",
		projectType:  value.ProjectTypeInfrastructure,
		status:       value.ProjectStatusActive,
		startOffset:  -90,
		endOffset:    60,
		businessCase: "Migrate on-premises infrastructure to AWS to reduce operational costs and improve scalability.",
		estimate:     200000,
		metrics: []value.MetricDefinition{
			metric("Infrastructure Cost Reduction", "Monthly cost savings from cloud migration", value.MetricTypeCurrency, value.CategoryCostReduction, 50000, 35000, value.FrequencyMonthly),
			metric("System Availability", "Uptime percentage of migrated systems", value.MetricTypePercentage, value.CategoryQualityImprovement, 95, 99.5, value.FrequencyWeekly),
			metric("Deployment Speed", "Time to deploy new applications (hours)", value.MetricTypeTime, value.CategoryEfficiencyGain, 48, 2, value.FrequencyWeekly),
		},
	},
	{
		name:         "Customer Self-Service Portal",
		projectType:  value.ProjectTypeSoftwareDevelopment,
		status:       value.ProjectStatusActive,
		startOffset:  -120,
		endOffset:    30,
		businessCase: "Develop a self-service portal to reduce customer support costs and improve customer satisfaction.",
		estimate:     150000,
		metrics: []value.MetricDefinition{
			metric("Support Ticket Reduction", "Reduction in customer support tickets per month", value.MetricTypeCount, value.CategoryCostReduction, 1000, 700, value.FrequencyMonthly),
			metric("Customer Satisfaction Score", "Customer satisfaction rating (1-10)", value.MetricTypeScore, value.CategoryUserSatisfaction, 6.5, 8.5, value.FrequencyMonthly),
			metric("Self-Service Adoption Rate", "Percentage of customers using self-service", value.MetricTypePercentage, value.CategoryUserSatisfaction, 20, 75, value.FrequencyWeekly),
		},
	},
	{
		name:         "Invoice Processing Automation",
		projectType:  value.ProjectTypeDigitalTransformation,
		status:       value.ProjectStatusCompleted,
		startOffset:  -180,
		endOffset:    -30,
		businessCase: "Automate invoice processing to reduce manual effort and improve accuracy.",
		estimate:     75000,
		metrics: []value.MetricDefinition{
			metric("Processing Time Reduction", "Time to process invoice (minutes)", value.MetricTypeTime, value.CategoryEfficiencyGain, 30, 5, value.FrequencyDaily),
			metric("Error Rate Reduction", "Percentage of invoices with errors", value.MetricTypePercentage, value.CategoryQualityImprovement, 8, 1, value.FrequencyWeekly),
			metric("Staff Cost Savings", "Monthly savings from automation", value.MetricTypeCurrency, value.CategoryCostReduction, 0, 8000, value.FrequencyMonthly),
		},
	},
	{
		name:         "Network Infrastructure Upgrade",
		projectType:  value.ProjectTypeInfrastructure,
		status:       value.ProjectStatusPlanning,
		startOffset:  30,
		endOffset:    180,
		businessCase: "Upgrade network infrastructure to support increased bandwidth requirements.",
		estimate:     300000,
		metrics: []value.MetricDefinition{
			metric("Network Bandwidth", "Available network bandwidth (Gbps)", value.MetricTypeCount, value.CategoryQualityImprovement, 1, 10, value.FrequencyWeekly),
			metric("Network Latency", "Average network latency (ms)", value.MetricTypeTime, value.CategoryQualityImprovement, 50, 10, value.FrequencyDaily),
		},
	},
	{
		name:         "AI Customer Support Chatbot",
		projectType:  value.ProjectTypeSoftwareDevelopment,
		status:       value.ProjectStatusActive,
		startOffset:  -60,
		endOffset:    90,
		businessCase: "Implement AI-powered chatbot to handle common customer inquiries and reduce support workload.",
		estimate:     125000,
		metrics: []value.MetricDefinition{
			metric("Query Resolution Rate", "Percentage of queries resolved by chatbot", value.MetricTypePercentage, value.CategoryEfficiencyGain, 0, 80, value.FrequencyDaily),
			metric("Response Time", "Average chatbot response time (seconds)", value.MetricTypeTime, value.CategoryUserSatisfaction, 300, 5, value.FrequencyDaily),
			metric("Support Cost Savings", "Monthly savings from reduced support staff", value.MetricTypeCurrency, value.CategoryCostReduction, 0, 15000, value.FrequencyMonthly),
		},
	},
}

// measurementsFor returns how much history a project of the given status gets.
func measurementsFor(status value.ProjectStatus) int {
	switch status {
	case value.ProjectStatusPlanning:
		return 0
	case value.ProjectStatusCompleted:
		return 8
	default:
		return 5
	}
}

// Build assembles the sample projects in memory.
func Build(now time.Time, rng *rand.Rand) ([]*value.Project, error) {
	now = now.UTC()
	day := func(offset int) *time.Time {
		t := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
		return &t
	}

	out := make([]*value.Project, 0, len(samples))
	for _, s := range samples {
		n := measurementsFor(s.status)
		// history starts n-1 intervals back
		clock := now.Add(-time.Duration(n) * measurementSpacing)
		tick := func() time.Time { return clock }

		p, err := value.NewProject(s.name, s.projectType, value.ProjectOptions{
			BusinessCase:        s.businessCase,
			StartDate:           day(s.startOffset),
			EndDate:             day(s.endOffset),
			EstimatedTotalValue: s.estimate,
			Status:              s.status,
			Clock:               tick,
		})
		if err != nil {
			return nil, fmt.Errorf("build %q: %w", s.name, err)
		}
		for _, def := range s.metrics {
			if _, err := p.AddMetric(def); err != nil {
				return nil, fmt.Errorf("build %q metric %q: %w", s.name, def.Name, err)
			}
		}
		for i := 0; i < n; i++ {
			clock = now.Add(-time.Duration(n-i-1) * measurementSpacing)
			for _, m := range p.Metrics {
				v := sampleValue(m, float64(i+1)/float64(n), rng)
				confidence := math.Round((80+rng.Float64()*20)*10) / 10
				note := fmt.Sprintf("Measurement %d - Progress update", i+1)
				if i == n-1 {
					note = fmt.Sprintf("Measurement %d - Final update", i+1)
				}
				if _, err := p.RecordMeasurement(m.ID, v, note, &confidence); err != nil {
					return nil, fmt.Errorf("build %q measurement: %w", s.name, err)
				}
			}
		}
		p.SetClock(nil)
		out = append(out, p)
	}
	return out, nil
}

// sampleValue walks from baseline toward target by progress with +/-10% jitter.
func sampleValue(m *value.Metric, progress float64, rng *rand.Rand) float64 {
	v := m.BaselineValue + (m.TargetValue-m.BaselineValue)*progress
	v *= 1 + (rng.Float64()*0.2 - 0.1)
	if m.MetricType == value.MetricTypePercentage || m.MetricType == value.MetricTypeCount {
		v = math.Max(0, v)
	}
	return math.Round(v*100) / 100
}

// Run seeds st unless it already holds projects and opts.Force is unset.
func Run(ctx context.Context, st store.Store, baseLog *logger.Logger, opts Options) (Summary, error) {
	log := baseLog.With("component", "Seeder")
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		seed := uint64(opts.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}

	existing, err := st.CountProjects(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count projects: %w", err)
	}
	if existing > 0 && !opts.Force {
		log.Warn("Store already holds projects; skipping sample data", "existing", existing)
		return Summary{Skipped: true, Existing: existing}, nil
	}

	projects, err := Build(opts.Now(), opts.Rand)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Existing: existing, Projects: len(projects)}
	for _, p := range projects {
		sum.Metrics += len(p.Metrics)
		for _, m := range p.Metrics {
			sum.Measurements += len(m.Measurements)
		}
	}
	if opts.DryRun {
		log.Info("Dry run; nothing persisted", "projects", sum.Projects, "metrics", sum.Metrics, "measurements", sum.Measurements)
		return sum, nil
	}

	for _, p := range projects {
		if err := st.CreateProject(ctx, p); err != nil {
			return Summary{}, err
		}
		log.Info("Seeded project", "project_id", p.ID, "name", p.Name, "metrics", len(p.Metrics))
	}
	log.Info("Sample data ready", "projects", sum.Projects, "metrics", sum.Metrics, "measurements", sum.Measurements)
	return sum, nil
}
