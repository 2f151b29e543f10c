package domain

import (
	"time"

	"github.com/google/uuid"
)

type MatchLevel string

const (
	MatchLevelExcellent MatchLevel = "excellent"
	MatchLevelGood      MatchLevel = "good"
	MatchLevelFair      MatchLevel = "fair"
	MatchLevelPoor      MatchLevel = "poor"
)

type GapCategory string

const (
	GapCategorySkill      GapCategory = "skill"
	GapCategoryKeyword    GapCategory = "keyword"
	GapCategoryExperience GapCategory = "experience"
	GapCategoryEducation  GapCategory = "education"
)

type GapSeverity string

const (
	GapSeverityCritical GapSeverity = "critical"
	GapSeverityHigh     GapSeverity = "high"
	GapSeverityMedium   GapSeverity = "medium"
	GapSeverityLow      GapSeverity = "low"
)

// Gap is a job requirement the CV does not satisfy.
type Gap struct {
	Requirement string      `json:"requirement"`
	Category    GapCategory `json:"category"`
	Severity    GapSeverity `json:"severity"`
}

type ATSCheck struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Points    int    `json:"points"`
	MaxPoints int    `json:"max_points"`
}

type ATSReport struct {
	Score  int        `json:"score"`
	Checks []ATSCheck `json:"checks"`
	Issues []string   `json:"issues"`
}

// MatchResult is the full output of the matching engine for one CV and one job.
type MatchResult struct {
	MatchScore      int        `json:"match_score"`
	MatchLevel      MatchLevel `json:"match_level"`
	SkillScore      int        `json:"skill_score"`
	KeywordScore    int        `json:"keyword_score"`
	ExperienceScore int        `json:"experience_score"`
	EducationScore  int        `json:"education_score"`

	MatchedSkills          []string `json:"matched_skills"`
	MissingSkills          []string `json:"missing_skills"`
	MatchedPreferredSkills []string `json:"matched_preferred_skills"`
	MissingPreferredSkills []string `json:"missing_preferred_skills"`
	MatchedKeywords        []string `json:"matched_keywords"`
	MissingKeywords        []string `json:"missing_keywords"`

	CandidateYears  float64        `json:"candidate_years"`
	CandidateLevel  EducationLevel `json:"candidate_education_level"`
	ATS             ATSReport      `json:"ats"`
	Gaps            []Gap          `json:"gaps"`
	Recommendations []string       `json:"recommendations"`
}

// Insights is the optional narrative produced by an external AI analyzer.
type Insights struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	TailoredSummary string   `json:"tailored_summary,omitempty"`
	Provider        string   `json:"provider"`
	Model           string   `json:"model"`
}

type ApplicationAnalysis struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	UserID     uuid.UUID   `json:"user_id" db:"user_id"`
	CvID       uuid.UUID   `json:"cv_id" db:"cv_id"`
	JobID      uuid.UUID   `json:"job_id" db:"job_id"`
	MatchScore int         `json:"match_score" db:"match_score"`
	ATSScore   int         `json:"ats_score" db:"ats_score"`
	Result     MatchResult `json:"result" db:"result"`
	AIInsights *Insights   `json:"ai_insights,omitempty" db:"ai_insights"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}
