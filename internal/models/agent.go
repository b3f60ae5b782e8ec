package models

import (
	"matching-service/internal/reference"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Metadata struct {
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// LanguageSkill is one (language, proficiency) pair on an agent profile.
// Level uses the CEFR scale a1..c2 plus "native".
type LanguageSkill struct {
	Language reference.Ref `json:"language" bson:"language"`
	Level    string        `json:"level" bson:"level"`
}

// SkillEntry is one skill the agent holds. Level is 0-5.
type SkillEntry struct {
	Skill reference.Ref `json:"skill" bson:"skill"`
	Level int           `json:"level" bson:"level"`
}

type TimeRange struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// DaySlot is one weekday window in "HH:MM" wall-clock times.
type DaySlot struct {
	Day   string `json:"day" bson:"day"`
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// Availability holds the weekly schedule in either of the two shapes the
// profile editor produces: an explicit day-by-day slot list, or a simple
// days-plus-hours pair applying the same window to every listed day.
type Availability struct {
	Slots []DaySlot  `json:"slots,omitempty" bson:"slots,omitempty"`
	Days  []string   `json:"days,omitempty" bson:"days,omitempty"`
	Hours *TimeRange `json:"hours,omitempty" bson:"hours,omitempty"`
}

// GigLink is the denormalized relationship entry embedded on an agent
// profile. It is a projection of the canonical GigAgent record.
type GigLink struct {
	GigID     bson.ObjectID    `json:"gigId" bson:"gigId"`
	Status    EnrollmentStatus `json:"status" bson:"status"`
	CreatedAt int64            `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64            `json:"updatedAt" bson:"updatedAt"`
}

type AgentProfile struct {
	ID                 bson.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	UserID             string          `json:"userId" bson:"userId"`
	DisplayName        string          `json:"displayName,omitempty" bson:"displayName,omitempty"`
	Languages          []LanguageSkill `json:"languages,omitempty" bson:"languages,omitempty"`
	TechnicalSkills    []SkillEntry    `json:"technicalSkills,omitempty" bson:"technicalSkills,omitempty"`
	ProfessionalSkills []SkillEntry    `json:"professionalSkills,omitempty" bson:"professionalSkills,omitempty"`
	SoftSkills         []SkillEntry    `json:"softSkills,omitempty" bson:"softSkills,omitempty"`
	Industries         []reference.Ref `json:"industries,omitempty" bson:"industries,omitempty"`
	Activities         []reference.Ref `json:"activities,omitempty" bson:"activities,omitempty"`
	ExperienceYears    *float64        `json:"experienceYears,omitempty" bson:"experienceYears,omitempty"`
	Timezone           reference.Ref   `json:"timezone,omitempty" bson:"timezone,omitempty"`
	Availability       Availability    `json:"availability,omitempty" bson:"availability,omitempty"`
	Gigs               []GigLink       `json:"gigs,omitempty" bson:"gigs,omitempty"`
	Metadata           Metadata        `json:"metadata" bson:"metadata"`
}

// SkillsByCategory returns the typed skill lists keyed by category.
func (a *AgentProfile) SkillsByCategory() map[SkillCategory][]SkillEntry {
	return map[SkillCategory][]SkillEntry{
		SkillCategoryTechnical:    a.TechnicalSkills,
		SkillCategoryProfessional: a.ProfessionalSkills,
		SkillCategorySoft:         a.SoftSkills,
	}
}
