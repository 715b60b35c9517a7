package value

import (
	"encoding/json"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Stakeholder struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Email      string    `gorm:"column:email" json:"email,omitempty"`
	Role       string    `gorm:"column:role" json:"role,omitempty"`
	Department string    `gorm:"column:department" json:"department,omitempty"`
	// JSON array of ValueCategory strings.
	PrimaryValueInterests datatypes.JSON `gorm:"column:primary_value_interests" json:"primary_value_interests"`
	InfluenceLevel        int            `gorm:"column:influence_level;not null" json:"influence_level"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Stakeholder) TableName() string { return "stakeholder" }

func (s *Stakeholder) Interests() []ValueCategory {
	if s == nil || len(s.PrimaryValueInterests) == 0 {
		return nil
	}
	var out []ValueCategory
	if err := json.Unmarshal(s.PrimaryValueInterests, &out); err != nil {
		return nil
	}
	return out
}

type StakeholderInput struct {
	Name                  string          `json:"name"`
	Email                 string          `json:"email"`
	Role                  string          `json:"role"`
	Department            string          `json:"department"`
	PrimaryValueInterests []ValueCategory `json:"primary_value_interests"`
	InfluenceLevel        int             `json:"influence_level"`
}

func newStakeholder(projectID uuid.UUID, in StakeholderInput, now time.Time) (*Stakeholder, error) {
	const op = "add stakeholder"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, InvalidValue(op, "name is required")
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, InvalidValue(op, "invalid email %q", email)
		}
	}
	influence := in.InfluenceLevel
	if influence == 0 {
		influence = 1
	}
	if influence < 1 || influence > 5 {
		return nil, InvalidValue(op, "influence level must be between 1 and 5, got %d", in.InfluenceLevel)
	}
	interests := make([]ValueCategory, 0, len(in.PrimaryValueInterests))
	for _, c := range in.PrimaryValueInterests {
		parsed, err := ParseValueCategory(string(c))
		if err != nil {
			return nil, err
		}
		interests = append(interests, parsed)
	}
	raw, err := json.Marshal(interests)
	if err != nil {
		return nil, InvalidValue(op, "encode interests: %v", err)
	}
	return &Stakeholder{
		ID:                    uuid.New(),
		ProjectID:             projectID,
		Name:                  name,
		Email:                 email,
		Role:                  strings.TrimSpace(in.Role),
		Department:            strings.TrimSpace(in.Department),
		PrimaryValueInterests: datatypes.JSON(raw),
		InfluenceLevel:        influence,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}
