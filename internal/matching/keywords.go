package matching

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultKeywordLimit caps the number of keywords kept per job description.
const DefaultKeywordLimit = 25

// stopWords filters common English and job-ad filler words that add noise to keyword matching.
var stopWords = toSet(
	"a", "an", "and", "the", "for", "with", "you", "are", "have", "will", "this", "that",
	"from", "our", "your", "their", "they", "them", "we", "us", "is", "be", "to", "of",
	"in", "on", "at", "by", "or", "as", "it", "its", "was", "were", "been", "being",
	"about", "which", "what", "who", "how", "can", "not", "but", "all", "also", "more",
	"than", "into", "has", "had", "each", "new", "use", "using", "used", "well", "high",
	"good", "able", "get", "set", "such", "other", "some", "any", "very", "etc", "per",
	"within", "across", "including", "include", "includes", "while", "where", "when",
	"work", "working", "team", "teams", "role", "job", "join", "company", "position",
	"candidate", "candidates", "experience", "experienced", "years", "year", "strong",
	"skills", "skill", "knowledge", "ability", "excellent", "plus", "preferred", "required",
	"requirements", "responsibilities", "qualifications", "must", "should", "would",
	"looking", "opportunity", "environment", "great", "based", "help", "make", "like",
	"want", "need", "needs", "offer", "offers", "benefits", "apply", "please",
	"understanding", "familiarity", "proficiency", "proficient", "solid", "hands",
	"nice", "bonus", "least", "minimum", "degree", "related", "field", "equivalent",
	"day", "days", "part", "full", "time", "own", "out", "up", "do", "does",
	"these", "those", "there", "here", "only", "both", "many", "most", "much", "one",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != '+' {
			return false
		}
	}
	return true
}

func keepKeyword(term string) bool {
	if term == "" || stopWords[term] || isNumeric(term) {
		return false
	}
	if IsKnownSkill(term) {
		return true
	}
	return runeLen(term) >= 3
}

// ExtractKeywords returns the most frequent meaningful terms of text, ranked by
// frequency and then alphabetically. A non-positive limit means DefaultKeywordLimit.
func ExtractKeywords(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}

	counts := map[string]int{}
	for _, term := range scan(text) {
		if !keepKeyword(term) || !mentioned(term, text) {
			continue
		}
		counts[term]++
	}

	keywords := make([]string, 0, len(counts))
	for kw := range counts {
		keywords = append(keywords, kw)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

// termSet is the searchable vocabulary of a text: its scanned terms plus the
// space-delimited token string used for phrase containment. Ambiguous skill
// terms only count when the text writes them as the skill, or when they are
// declared.
type termSet struct {
	text     string
	terms    map[string]bool
	declared map[string]bool
	joined   string
}

func newTermSet(text string, extra ...string) *termSet {
	ts := &termSet{text: text, terms: map[string]bool{}, declared: map[string]bool{}}
	for _, term := range scan(text) {
		if mentioned(term, text) {
			ts.terms[term] = true
		}
	}
	for _, e := range extra {
		if n := Normalize(e); n != "" {
			ts.declared[n] = true
		}
	}
	ts.joined = " " + strings.Join(tokens(text), " ") + " "
	return ts
}

// contains reports whether the keyword occurs as a term or as a whole-token phrase.
func (ts *termSet) contains(keyword string) bool {
	if ts.declared[keyword] || ts.terms[keyword] {
		return true
	}
	if !mentioned(keyword, ts.text) {
		return false
	}
	phrase := strings.Join(tokens(keyword), " ")
	return phrase != "" && strings.Contains(ts.joined, " "+phrase+" ")
}

// MatchKeywords splits job keywords into those present in and absent from the CV text.
func MatchKeywords(cvText string, cvSkills []string, keywords []string) (matched, missing []string) {
	ts := newTermSet(cvText, cvSkills...)
	for _, kw := range keywords {
		if ts.contains(kw) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return matched, missing
}
