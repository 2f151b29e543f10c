package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

const (
	minSummaryRunes     = 30
	minSkillsForATS     = 5
	keywordPassCoverage = 0.6
)

// ATSScore rates how well a CV would survive an applicant tracking system
// screening for the given job: structural completeness plus keyword coverage.
func ATSScore(doc *domain.CvDocument, req domain.JobRequirements) domain.ATSReport {
	cvText := doc.FullText()
	matched, _ := MatchKeywords(cvText, candidateSkills(doc, cvText), req.Keywords)
	return atsReport(doc, len(matched), len(req.Keywords))
}

func atsReport(doc *domain.CvDocument, matchedKeywords, totalKeywords int) domain.ATSReport {
	report := domain.ATSReport{Checks: []domain.ATSCheck{}, Issues: []string{}}

	add := func(name string, maxPoints int, ratio float64, passed bool, issue string) {
		ratio = math.Max(0, math.Min(1, ratio))
		points := int(math.Round(ratio * float64(maxPoints)))
		report.Checks = append(report.Checks, domain.ATSCheck{
			Name:      name,
			Passed:    passed,
			Points:    points,
			MaxPoints: maxPoints,
		})
		report.Score += points
		if !passed {
			report.Issues = append(report.Issues, issue)
		}
	}
	all := func(ok bool) float64 {
		if ok {
			return 1
		}
		return 0
	}

	info := doc.PersonalInfo
	hasEmail := info != nil && strings.TrimSpace(info.Email) != ""
	hasPhone := info != nil && strings.TrimSpace(info.Phone) != ""
	add("contact_email", 10, all(hasEmail), hasEmail, "Add an email address to your personal information")
	add("contact_phone", 5, all(hasPhone), hasPhone, "Add a phone number to your personal information")

	hasSummary := runeLen(strings.TrimSpace(doc.Summary)) >= minSummaryRunes
	add("professional_summary", 10, all(hasSummary), hasSummary,
		fmt.Sprintf("Write a professional summary of at least %d characters", minSummaryRunes))

	detailed := 0
	for _, exp := range doc.Experience {
		if strings.TrimSpace(exp.Description) != "" || len(exp.Achievements) > 0 {
			detailed++
		}
	}
	expRatio := 0.0
	if len(doc.Experience) > 0 {
		expRatio = float64(detailed) / float64(len(doc.Experience))
	}
	expIssue := "Add your work experience"
	if len(doc.Experience) > 0 {
		expIssue = "Describe your responsibilities and achievements for every position"
	}
	add("experience_detail", 20, expRatio, len(doc.Experience) > 0 && detailed == len(doc.Experience), expIssue)

	hasEducation := len(doc.Education) > 0
	add("education_section", 10, all(hasEducation), hasEducation, "Add an education section")

	skills := len(NormalizeList(doc.SkillNames()))
	add("skills_section", 15, float64(skills)/minSkillsForATS, skills >= minSkillsForATS,
		fmt.Sprintf("List at least %d skills (currently %d)", minSkillsForATS, skills))

	kwRatio := 1.0
	if totalKeywords > 0 {
		kwRatio = float64(matchedKeywords) / float64(totalKeywords)
	}
	add("keyword_coverage", 30, kwRatio, kwRatio >= keywordPassCoverage,
		fmt.Sprintf("Your CV covers %d of %d job keywords; mirror the wording of the job description", matchedKeywords, totalKeywords))

	report.Score = score(float64(report.Score))
	return report
}
