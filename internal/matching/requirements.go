package matching

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

const maxExperienceYears = 30

var (
	preferredHeading = regexp.MustCompile(`(?i)^\W*(nice[\s-]to[\s-]haves?|preferred( qualifications| skills)?|bonus( points)?|desirable|good[\s-]to[\s-]have|optional|pluses)\W*$`)
	requiredHeading  = regexp.MustCompile(`(?i)^\W*(requirements|required|must[\s-]have|qualifications|what you('ll| will)? need|what we('re| are) looking for|you have|skills|responsibilities|about you)\W*$`)
	preferredInline  = regexp.MustCompile(`(?i)(nice[\s-]to[\s-]have|preferred|bonus|\ba plus\b|^\W*plus\b|desirable|good[\s-]to[\s-]have|optional|pluses)`)
	sentenceBreak    = regexp.MustCompile(`[.;!?]\s+`)
	yearsPattern     = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:-|–|to)?\s*(?:\d{1,2}\s*)?\+?\s*(?:years?|yrs?)`)
)

var educationPatterns = []struct {
	level domain.EducationLevel
	re    *regexp.Regexp
}{
	{domain.EducationLevelDoctorate, regexp.MustCompile(`(?i)\b(ph\.?d|doctorate|doctoral)\b`)},
	{domain.EducationLevelMaster, regexp.MustCompile(`(?i)\b(master'?s|master of|master degree|msc|m\.sc|mba)\b`)},
	{domain.EducationLevelBachelor, regexp.MustCompile(`(?i)\b(bachelor'?s?|bsc|b\.sc|university degree|college degree)\b`)},
	{domain.EducationLevelAssociate, regexp.MustCompile(`(?i)\bassociate'?s? degree\b`)},
	{domain.EducationLevelHighSchool, regexp.MustCompile(`(?i)\b(high school|secondary school|ged)\b`)},
}

var anyDegree = regexp.MustCompile(`(?i)\bdegree\b`)

var seniorityPatterns = []struct {
	level domain.ExperienceLevel
	re    *regexp.Regexp
}{
	{domain.ExperienceLevelExecutive, regexp.MustCompile(`(?i)\b(head of|director|vp|vice president|chief|cto|cio)\b`)},
	{domain.ExperienceLevelLead, regexp.MustCompile(`(?i)\b(lead|principal|staff|architect)\b`)},
	{domain.ExperienceLevelSenior, regexp.MustCompile(`(?i)\b(senior|sr\.?)\b`)},
	{domain.ExperienceLevelMid, regexp.MustCompile(`(?i)\b(mid[\s-]?level|intermediate)\b`)},
	{domain.ExperienceLevelJunior, regexp.MustCompile(`(?i)\b(junior|jr\.?|graduate)\b`)},
	{domain.ExperienceLevelEntry, regexp.MustCompile(`(?i)\b(intern|internship|entry[\s-]level|trainee)\b`)},
}

// ExtractRequirements derives the structured requirements of a job from its
// title and free-text description.
func ExtractRequirements(title, description string) domain.JobRequirements {
	required := map[string]bool{}
	preferred := map[string]bool{}
	var requiredOrder, preferredOrder []string

	addRequired := func(skills []string) {
		for _, s := range skills {
			if !required[s] {
				required[s] = true
				requiredOrder = append(requiredOrder, s)
			}
		}
	}
	addPreferred := func(skills []string) {
		for _, s := range skills {
			if !preferred[s] {
				preferred[s] = true
				preferredOrder = append(preferredOrder, s)
			}
		}
	}

	addRequired(FindSkills(title))

	inPreferred := false
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if isHeading(line) {
			inPreferred = preferredInline.MatchString(line)
			if len(FindSkills(line)) == 0 {
				continue
			}
		}

		for _, sentence := range sentenceBreak.Split(line, -1) {
			if inPreferred || preferredInline.MatchString(sentence) {
				addPreferred(FindSkills(sentence))
			} else {
				addRequired(FindSkills(sentence))
			}
		}
	}

	prefs := make([]string, 0, len(preferredOrder))
	for _, s := range preferredOrder {
		if !required[s] {
			prefs = append(prefs, s)
		}
	}

	minYears := extractMinYears(description)
	return domain.JobRequirements{
		RequiredSkills:     nonNil(requiredOrder),
		PreferredSkills:    prefs,
		Keywords:           nonNil(ExtractKeywords(title+"\n"+description, DefaultKeywordLimit)),
		MinExperienceYears: minYears,
		EducationLevel:     extractEducationLevel(description),
		ExperienceLevel:    extractExperienceLevel(title, description, minYears),
	}
}

// isHeading treats short lines that end with ':' or consist of a known
// section title as headings. Every heading starts a new section.
func isHeading(line string) bool {
	if runeLen(line) > 60 {
		return false
	}
	return strings.HasSuffix(line, ":") || requiredHeading.MatchString(line) || preferredHeading.MatchString(line)
}

// extractMinYears returns the highest lower bound of all "N+ years" phrases.
func extractMinYears(text string) int {
	best := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > maxExperienceYears {
			continue
		}
		if n > best {
			best = n
		}
	}
	return best
}

// extractEducationLevel returns the lowest degree mentioned, which is the
// level a candidate must at least hold.
func extractEducationLevel(text string) domain.EducationLevel {
	found := domain.EducationLevelNone
	for _, p := range educationPatterns {
		if p.re.MatchString(text) {
			found = p.level
		}
	}
	if found == domain.EducationLevelNone && anyDegree.MatchString(text) {
		found = domain.EducationLevelBachelor
	}
	return found
}

// ClassifyDegree maps a free-text degree name to an education level.
func ClassifyDegree(degree string) domain.EducationLevel {
	for _, p := range educationPatterns {
		if p.re.MatchString(degree) {
			return p.level
		}
	}
	if anyDegree.MatchString(degree) {
		return domain.EducationLevelBachelor
	}
	return domain.EducationLevelNone
}

// extractExperienceLevel prefers seniority words in the title, then the
// required years, then seniority words in the description body.
func extractExperienceLevel(title, description string, minYears int) domain.ExperienceLevel {
	if level, ok := seniority(title); ok {
		return level
	}
	switch {
	case minYears >= 7:
		return domain.ExperienceLevelSenior
	case minYears >= 4:
		return domain.ExperienceLevelMid
	case minYears >= 2:
		return domain.ExperienceLevelJunior
	case minYears == 1:
		return domain.ExperienceLevelEntry
	}
	level, _ := seniority(description)
	return level
}

func seniority(text string) (domain.ExperienceLevel, bool) {
	for _, p := range seniorityPatterns {
		if p.re.MatchString(text) {
			return p.level, true
		}
	}
	return "", false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
