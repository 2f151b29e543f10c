package matching

import (
	"strings"
)

// SkillMatches reports whether a CV skill satisfies a job skill. Both are
// normalized; besides equality, either term may contain the other as a
// whole-token run, so "go" matches "go programming" but never "mongodb", and
// "java" never matches "javascript".
func SkillMatches(cvSkill, jobSkill string) bool {
	a, b := Normalize(cvSkill), Normalize(jobSkill)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return containsTokens(a, b) || containsTokens(b, a)
}

func containsTokens(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// MatchSkills partitions jobSkills into those satisfied by at least one CV
// skill and those that are not. Job skill order is preserved.
func MatchSkills(cvSkills, jobSkills []string) (matched, missing []string) {
	cv := NormalizeList(cvSkills)
	for _, job := range NormalizeList(jobSkills) {
		found := false
		for _, have := range cv {
			if SkillMatches(have, job) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, job)
		} else {
			missing = append(missing, job)
		}
	}
	return matched, missing
}
