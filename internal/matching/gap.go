package matching

import (
	"fmt"
	"strings"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

const maxKeywordGaps = 10

// Gaps lists the job requirements that result shows the CV does not meet,
// most severe first.
func Gaps(result *domain.MatchResult, req domain.JobRequirements) []domain.Gap {
	gaps := []domain.Gap{}
	skillGap := map[string]bool{}

	for _, s := range result.MissingSkills {
		gaps = append(gaps, domain.Gap{Requirement: s, Category: domain.GapCategorySkill, Severity: domain.GapSeverityCritical})
		skillGap[s] = true
	}

	if req.MinExperienceYears > 0 && result.CandidateYears < float64(req.MinExperienceYears) {
		gaps = append(gaps, domain.Gap{
			Requirement: fmt.Sprintf("%d+ years of experience (CV shows %.1f)", req.MinExperienceYears, result.CandidateYears),
			Category:    domain.GapCategoryExperience,
			Severity:    domain.GapSeverityHigh,
		})
	}

	for _, s := range result.MissingPreferredSkills {
		gaps = append(gaps, domain.Gap{Requirement: s, Category: domain.GapCategorySkill, Severity: domain.GapSeverityMedium})
		skillGap[s] = true
	}

	if need := req.EducationLevel.Rank(); need > 0 && result.CandidateLevel.Rank() < need {
		gaps = append(gaps, domain.Gap{
			Requirement: educationLabel(req.EducationLevel) + " degree",
			Category:    domain.GapCategoryEducation,
			Severity:    domain.GapSeverityMedium,
		})
	}

	n := 0
	for _, kw := range result.MissingKeywords {
		if n == maxKeywordGaps {
			break
		}
		if skillGap[kw] {
			continue
		}
		gaps = append(gaps, domain.Gap{Requirement: kw, Category: domain.GapCategoryKeyword, Severity: domain.GapSeverityLow})
		n++
	}
	return gaps
}

// Recommendations turns the gaps of a result into short, actionable advice.
func Recommendations(result *domain.MatchResult, req domain.JobRequirements) []string {
	recs := []string{}

	if len(result.MissingSkills) > 0 {
		recs = append(recs, fmt.Sprintf("Add the required skills you have to your CV: %s", joinLimit(result.MissingSkills, 8)))
	}
	if len(result.MissingPreferredSkills) > 0 {
		recs = append(recs, fmt.Sprintf("Consider highlighting these nice-to-have skills: %s", joinLimit(result.MissingPreferredSkills, 5)))
	}
	if len(result.MissingKeywords) > 0 && result.KeywordScore < 60 {
		recs = append(recs, fmt.Sprintf("Mirror the job description's wording, for example: %s", joinLimit(result.MissingKeywords, 5)))
	}
	if req.MinExperienceYears > 0 && result.CandidateYears < float64(req.MinExperienceYears) {
		recs = append(recs, fmt.Sprintf("The role asks for %d+ years; emphasise relevant projects and responsibilities to close the gap", req.MinExperienceYears))
	}
	if need := req.EducationLevel.Rank(); need > 0 && result.CandidateLevel.Rank() < need {
		recs = append(recs, fmt.Sprintf("The role asks for a %s degree; list certifications or equivalent experience", educationLabel(req.EducationLevel)))
	}
	recs = append(recs, result.ATS.Issues...)
	if result.MatchLevel == domain.MatchLevelExcellent {
		recs = append(recs, "Strong match: tailor your summary to the role and apply")
	}
	return recs
}

func educationLabel(level domain.EducationLevel) string {
	switch level {
	case domain.EducationLevelHighSchool:
		return "high school"
	case domain.EducationLevelDoctorate:
		return "doctoral"
	case domain.EducationLevelMaster:
		return "master's"
	case domain.EducationLevelBachelor:
		return "bachelor's"
	default:
		return string(level)
	}
}

func joinLimit(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:limit], ", "), len(items)-limit)
}
