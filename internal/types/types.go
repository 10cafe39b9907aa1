// Package types holds the wire contract shared by the scoring engine, the
// HTTP server, the CLI, and the output formatters.
package types

import "encoding/json"

// RawResumeRecord is a parsed but unvalidated resume document. Analysis
// tolerates missing, null, or wrongly-typed fields anywhere inside it; only a
// record that is not an object at all is rejected.
type RawResumeRecord map[string]json.RawMessage

// Skill carries both the display form of a skill or keyword and its
// lower-cased matching key. Matching always uses Key; output uses Display.
type Skill struct {
	Display string `json:"display"`
	Key     string `json:"key"`
}

// PersonalInfo holds contact fields. All optional; presence is scored.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// Experience is one work-history entry. Order is preserved from the input,
// reverse-chronological by convention.
type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// Education is one education entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Dates       string `json:"dates"`
}

// Project is one portfolio project entry.
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []Skill  `json:"technologies"`
	Links        []string `json:"links"`
}

// SkillSets groups the labeled skill collections. Each set is deduplicated by
// matching key with original display casing retained.
type SkillSets struct {
	Technical []Skill `json:"technical"`
	Tools     []Skill `json:"tools"`
	Soft      []Skill `json:"soft"`
}

// ResumeProfile is the canonical, fully-defaulted view of a resume record.
// Every sequence field is non-nil so scorers never branch on missing
// containers. A profile is immutable once built.
type ResumeProfile struct {
	Personal     PersonalInfo `json:"personal"`
	Summary      string       `json:"summary"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Skills       SkillSets    `json:"skills"`
	Projects     []Project    `json:"projects"`
	Achievements []string     `json:"achievements"`
}

// CategoryResult is the outcome of a single scoring category. Details are
// recorded in evaluation order.
type CategoryResult struct {
	Score    int      `json:"score"`
	MaxScore int      `json:"maxScore"`
	Details  []string `json:"details"`
}

// Suggestion is one actionable improvement, ordered by priority then impact.
type Suggestion struct {
	Priority   string `json:"priority"`
	Category   string `json:"category"`
	Suggestion string `json:"suggestion"`
	Impact     int    `json:"impact"`
}

// Suggestion priority levels.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// AnalysisResult is the complete outcome of scoring a resume, optionally
// against a job description. MatchPercentage is nil when no job description
// keywords were available, and the field is omitted from JSON in that case.
type AnalysisResult struct {
	ATSScore        int                       `json:"atsScore"`
	Breakdown       map[string]CategoryResult `json:"breakdown"`
	MatchPercentage *int                      `json:"matchPercentage,omitempty"`
	MissingSkills   []string                  `json:"missingSkills"`
	Strengths       []string                  `json:"strengths"`
	Recommendations []string                  `json:"recommendations"`
	Suggestions     []Suggestion              `json:"suggestions"`
}

// KeywordReport is the output of the standalone keyword extraction command.
type KeywordReport struct {
	Source   string   `json:"source"`
	Count    int      `json:"count"`
	Keywords []string `json:"keywords"`
}

// Category keys used in AnalysisResult.Breakdown.
const (
	CategoryPersonalInfo = "personalInfo"
	CategoryExperience   = "experience"
	CategoryEducation    = "education"
	CategorySkills       = "skills"
	CategoryStructure    = "structure"
	CategoryAchievements = "achievements"
)

// CategoryKeys lists all breakdown categories in canonical display order.
var CategoryKeys = []string{
	CategoryPersonalInfo,
	CategoryExperience,
	CategoryEducation,
	CategorySkills,
	CategoryStructure,
	CategoryAchievements,
}
