package matching

import (
	"math"
	"sort"
	"time"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

const (
	weightSkills     = 0.5
	weightKeywords   = 0.2
	weightExperience = 0.2
	weightEducation  = 0.1

	weightRequired  = 0.7
	weightPreferred = 0.3

	daysPerYear = 365.25
)

// Engine scores CVs against job requirements. The zero value is not usable;
// construct it with NewEngine.
type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

// WithClock fixes the time used to resolve ongoing ("Present") experience.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Match computes the full match result of doc against req.
func (e *Engine) Match(doc *domain.CvDocument, req domain.JobRequirements) *domain.MatchResult {
	cvText := doc.FullText()
	cvSkills := candidateSkills(doc, cvText)

	matchedReq, missingReq := MatchSkills(cvSkills, req.RequiredSkills)
	matchedPref, missingPref := MatchSkills(cvSkills, req.PreferredSkills)
	matchedKw, missingKw := MatchKeywords(cvText, cvSkills, req.Keywords)

	keywordScore := coverage(len(matchedKw), len(req.Keywords))
	skillScore := skillScore(
		len(matchedReq), len(matchedReq)+len(missingReq),
		len(matchedPref), len(matchedPref)+len(missingPref),
		keywordScore,
	)

	years := CandidateYears(doc.Experience, e.now())
	experienceScore := 100.0
	if req.MinExperienceYears > 0 {
		experienceScore = years / float64(req.MinExperienceYears) * 100
	}

	level := CandidateEducation(doc.Education)
	educationScore := 100.0
	if need := req.EducationLevel.Rank(); need > 0 && level.Rank() < need {
		educationScore = float64(level.Rank()) / float64(need) * 100
	}

	total := weightSkills*skillScore +
		weightKeywords*keywordScore +
		weightExperience*experienceScore +
		weightEducation*educationScore

	result := &domain.MatchResult{
		MatchScore:      score(total),
		SkillScore:      score(skillScore),
		KeywordScore:    score(keywordScore),
		ExperienceScore: score(experienceScore),
		EducationScore:  score(educationScore),

		MatchedSkills:          nonNil(matchedReq),
		MissingSkills:          nonNil(missingReq),
		MatchedPreferredSkills: nonNil(matchedPref),
		MissingPreferredSkills: nonNil(missingPref),
		MatchedKeywords:        nonNil(matchedKw),
		MissingKeywords:        nonNil(missingKw),

		CandidateYears: years,
		CandidateLevel: level,
	}
	result.MatchLevel = Level(result.MatchScore)
	result.ATS = atsReport(doc, len(matchedKw), len(req.Keywords))
	result.Gaps = Gaps(result, req)
	result.Recommendations = Recommendations(result, req)
	return result
}

// candidateSkills merges the declared skills with the taxonomy skills found
// anywhere in the CV text.
func candidateSkills(doc *domain.CvDocument, cvText string) []string {
	return NormalizeList(append(doc.SkillNames(), FindSkills(cvText)...))
}

func skillScore(matchedReq, totalReq, matchedPref, totalPref int, fallback float64) float64 {
	switch {
	case totalReq == 0 && totalPref == 0:
		return fallback
	case totalPref == 0:
		return coverage(matchedReq, totalReq)
	case totalReq == 0:
		return coverage(matchedPref, totalPref)
	default:
		return weightRequired*coverage(matchedReq, totalReq) + weightPreferred*coverage(matchedPref, totalPref)
	}
}

// coverage is matched/total as a percentage; an empty total is full coverage.
func coverage(matched, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(matched) / float64(total) * 100
}

// score clamps to [0,100] and rounds half away from zero.
func score(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// Level buckets a match score.
func Level(matchScore int) domain.MatchLevel {
	switch {
	case matchScore >= 80:
		return domain.MatchLevelExcellent
	case matchScore >= 60:
		return domain.MatchLevelGood
	case matchScore >= 40:
		return domain.MatchLevelFair
	default:
		return domain.MatchLevelPoor
	}
}

type interval struct {
	start, end time.Time
}

// CandidateYears is the total length of the union of all experience periods,
// in years rounded to one decimal. Overlapping jobs are counted once.
func CandidateYears(experience []*domain.Experience, now time.Time) float64 {
	var periods []interval
	for _, exp := range experience {
		if start, end, ok := exp.Period(now); ok {
			periods = append(periods, interval{start, end})
		}
	}
	if len(periods) == 0 {
		return 0
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].start.Before(periods[j].start) })

	var total time.Duration
	cur := periods[0]
	for _, p := range periods[1:] {
		if !p.start.After(cur.end) {
			if p.end.After(cur.end) {
				cur.end = p.end
			}
			continue
		}
		total += cur.end.Sub(cur.start)
		cur = p
	}
	total += cur.end.Sub(cur.start)

	years := total.Hours() / 24 / daysPerYear
	return math.Round(years*10) / 10
}

// CandidateEducation returns the highest education level across all entries.
func CandidateEducation(education []*domain.Education) domain.EducationLevel {
	best := domain.EducationLevelNone
	for _, e := range education {
		level := ClassifyDegree(e.Degree)
		if level.Rank() > best.Rank() {
			best = level
		}
	}
	return best
}
