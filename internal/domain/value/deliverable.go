package value

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Deliverable struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Name               string     `gorm:"column:name;not null" json:"name"`
	Description        string     `gorm:"column:description;type:text" json:"description,omitempty"`
	ExpectedCompletion *time.Time `gorm:"column:expected_completion" json:"expected_completion,omitempty"`
	ActualCompletion   *time.Time `gorm:"column:actual_completion" json:"actual_completion,omitempty"`
	// JSON object: metric id -> expected contribution.
	ValueContribution datatypes.JSON    `gorm:"column:value_contribution" json:"value_contribution"`
	Status            DeliverableStatus `gorm:"column:status;not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Deliverable) TableName() string { return "deliverable" }

func (d *Deliverable) Contributions() map[string]float64 {
	out := map[string]float64{}
	if d == nil || len(d.ValueContribution) == 0 {
		return out
	}
	_ = json.Unmarshal(d.ValueContribution, &out)
	return out
}

type DeliverableInput struct {
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	ExpectedCompletion *time.Time         `json:"expected_completion"`
	ValueContribution  map[string]float64 `json:"value_contribution"`
	Status             string             `json:"status"`
}

func newDeliverable(p *Project, in DeliverableInput, now time.Time) (*Deliverable, error) {
	const op = "add deliverable"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, InvalidValue(op, "name is required")
	}
	status, err := ParseDeliverableStatus(in.Status)
	if err != nil {
		return nil, err
	}
	contrib := map[string]float64{}
	for k, v := range in.ValueContribution {
		metricID, err := uuid.Parse(strings.TrimSpace(k))
		if err != nil {
			return nil, InvalidValue(op, "invalid metric id %q in value contribution", k)
		}
		if _, err := p.Metric(metricID); err != nil {
			return nil, err
		}
		if !isFinite(v) {
			return nil, InvalidValue(op, "contribution for metric %s must be finite", metricID)
		}
		contrib[metricID.String()] = v
	}
	raw, err := json.Marshal(contrib)
	if err != nil {
		return nil, InvalidValue(op, "encode value contribution: %v", err)
	}
	d := &Deliverable{
		ID:                 uuid.New(),
		ProjectID:          p.ID,
		Name:               name,
		Description:        strings.TrimSpace(in.Description),
		ExpectedCompletion: in.ExpectedCompletion,
		ValueContribution:  datatypes.JSON(raw),
		Status:             status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if status == DeliverableCompleted {
		t := now
		d.ActualCompletion = &t
	}
	return d, nil
}

func (d *Deliverable) setStatus(status DeliverableStatus, now time.Time) {
	d.Status = status
	d.UpdatedAt = now
	switch status {
	case DeliverableCompleted:
		if d.ActualCompletion == nil {
			t := now
			d.ActualCompletion = &t
		}
	default:
		d.ActualCompletion = nil
	}
}
