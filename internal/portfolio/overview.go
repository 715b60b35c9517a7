package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
)

type Overview struct {
	TotalProjects       int                         `json:"total_projects"`
	TotalEstimatedValue float64                     `json:"total_estimated_value"`
	TotalRealizedValue  float64                     `json:"total_realized_value"`
	PortfolioROI        float64                     `json:"portfolio_roi"`
	ByStatus            map[value.ProjectStatus]int `json:"by_status"`
	ByType              map[value.ProjectType]int   `json:"by_type"`
	Projects            []ProjectSummary            `json:"projects"`
}

type ProjectSummary struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Type            value.ProjectType   `json:"project_type"`
	Status          value.ProjectStatus `json:"status"`
	EstimatedValue  float64             `json:"estimated_value"`
	RealizedValue   float64             `json:"realized_value"`
	ROIPercentage   float64             `json:"roi_percentage"`
	// fraction in [0, 1]
	AverageProgress float64             `json:"average_progress"`
}

// GetPortfolioOverview rolls up every project. Realized value follows the
// same rules as the per-project dashboard.
func (m *Manager) GetPortfolioOverview(ctx context.Context) (out Overview, err error) {
	ctx, span := m.start(ctx, "GetPortfolioOverview")
	defer func() { finish(span, err) }()

	projects, err := m.store.LoadAllProjects(ctx)
	if err != nil {
		return Overview{}, err
	}
	summaries := lo.Map(projects, func(p *value.Project, _ int) ProjectSummary {
		p.SetClock(m.clock)
		d := p.Dashboard()
		return ProjectSummary{
			ID:              p.ID,
			Name:            p.Name,
			Type:            p.Type,
			Status:          p.Status,
			EstimatedValue:  p.EstimatedTotalValue,
			RealizedValue:   d.TotalRealizedValue,
			ROIPercentage:   d.ROIPercentage,
			AverageProgress: d.AverageProgress,
		}
	})

	byStatus := map[value.ProjectStatus]int{}
	byType := map[value.ProjectType]int{}
	for _, s := range summaries {
		byStatus[s.Status]++
		byType[s.Type]++
	}
	estimated := lo.SumBy(summaries, func(s ProjectSummary) float64 { return s.EstimatedValue })
	realized := lo.SumBy(summaries, func(s ProjectSummary) float64 { return s.RealizedValue })
	return Overview{
		TotalProjects:       len(summaries),
		TotalEstimatedValue: estimated,
		TotalRealizedValue:  realized,
		PortfolioROI:        value.ROI(realized, estimated),
		ByStatus:            byStatus,
		ByType:              byType,
		Projects:            summaries,
	}, nil
}
