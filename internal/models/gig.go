package models

import (
	"matching-service/internal/reference"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RequiredLanguage is a gig-side language requirement with a minimum
// proficiency level (CEFR a1..c2 or "native").
type RequiredLanguage struct {
	Language reference.Ref `json:"language" bson:"language"`
	MinLevel string        `json:"minLevel" bson:"minLevel"`
}

// RequiredSkill is a gig-side skill requirement. MinLevel is recorded for
// display but does not gate matching.
type RequiredSkill struct {
	Skill    reference.Ref `json:"skill" bson:"skill"`
	MinLevel int           `json:"minLevel,omitempty" bson:"minLevel,omitempty"`
}

// AgentLink is the denormalized relationship entry embedded on a gig
// profile, mirroring GigLink on the agent side.
type AgentLink struct {
	AgentID   bson.ObjectID    `json:"agentId" bson:"agentId"`
	Status    EnrollmentStatus `json:"status" bson:"status"`
	CreatedAt int64            `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64            `json:"updatedAt" bson:"updatedAt"`
}

type GigProfile struct {
	ID                         bson.ObjectID      `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID                  string             `json:"companyId" bson:"companyId"`
	Title                      string             `json:"title" bson:"title"`
	RequiredLanguages          []RequiredLanguage `json:"requiredLanguages,omitempty" bson:"requiredLanguages,omitempty"`
	RequiredTechnicalSkills    []RequiredSkill    `json:"requiredTechnicalSkills,omitempty" bson:"requiredTechnicalSkills,omitempty"`
	RequiredProfessionalSkills []RequiredSkill    `json:"requiredProfessionalSkills,omitempty" bson:"requiredProfessionalSkills,omitempty"`
	RequiredSoftSkills         []RequiredSkill    `json:"requiredSoftSkills,omitempty" bson:"requiredSoftSkills,omitempty"`
	Industry                   reference.Ref      `json:"industry,omitempty" bson:"industry,omitempty"`
	RequiredActivities         []reference.Ref    `json:"requiredActivities,omitempty" bson:"requiredActivities,omitempty"`
	RequiredExperienceYears    *float64           `json:"requiredExperienceYears,omitempty" bson:"requiredExperienceYears,omitempty"`
	Timezone                   reference.Ref      `json:"timezone,omitempty" bson:"timezone,omitempty"`
	DestinationRegion          reference.Ref      `json:"destinationRegion,omitempty" bson:"destinationRegion,omitempty"`
	Schedule                   []DaySlot          `json:"schedule,omitempty" bson:"schedule,omitempty"`
	EnrolledAgentIDs           []bson.ObjectID    `json:"enrolledAgentIds,omitempty" bson:"enrolledAgentIds,omitempty"`
	Agents                     []AgentLink        `json:"agents,omitempty" bson:"agents,omitempty"`
	Metadata                   Metadata           `json:"metadata" bson:"metadata"`
}

// RequiredSkillsByCategory returns the typed requirement lists keyed by category.
func (g *GigProfile) RequiredSkillsByCategory() map[SkillCategory][]RequiredSkill {
	return map[SkillCategory][]RequiredSkill{
		SkillCategoryTechnical:    g.RequiredTechnicalSkills,
		SkillCategoryProfessional: g.RequiredProfessionalSkills,
		SkillCategorySoft:         g.RequiredSoftSkills,
	}
}
