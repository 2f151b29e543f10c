package matching

import (
	"regexp"
	"strings"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

// taxonomy lists the skills recognised in free text, keyed by canonical name.
var taxonomy = map[string]string{
	// languages
	"go":         domain.SkillCategoryLanguage,
	"python":     domain.SkillCategoryLanguage,
	"java":       domain.SkillCategoryLanguage,
	"javascript": domain.SkillCategoryLanguage,
	"typescript": domain.SkillCategoryLanguage,
	"c":          domain.SkillCategoryLanguage,
	"c++":        domain.SkillCategoryLanguage,
	"c#":         domain.SkillCategoryLanguage,
	"rust":       domain.SkillCategoryLanguage,
	"ruby":       domain.SkillCategoryLanguage,
	"php":        domain.SkillCategoryLanguage,
	"kotlin":     domain.SkillCategoryLanguage,
	"swift":      domain.SkillCategoryLanguage,
	"scala":      domain.SkillCategoryLanguage,
	"r":          domain.SkillCategoryLanguage,
	"sql":        domain.SkillCategoryLanguage,
	"bash":       domain.SkillCategoryLanguage,
	"html":       domain.SkillCategoryLanguage,
	"css":        domain.SkillCategoryLanguage,
	"dart":       domain.SkillCategoryLanguage,
	"elixir":     domain.SkillCategoryLanguage,

	// frameworks
	"react":         domain.SkillCategoryFramework,
	"angular":       domain.SkillCategoryFramework,
	"vue":           domain.SkillCategoryFramework,
	"next.js":       domain.SkillCategoryFramework,
	"node.js":       domain.SkillCategoryFramework,
	"express":       domain.SkillCategoryFramework,
	"django":        domain.SkillCategoryFramework,
	"flask":         domain.SkillCategoryFramework,
	"fastapi":       domain.SkillCategoryFramework,
	"spring":        domain.SkillCategoryFramework,
	"spring boot":   domain.SkillCategoryFramework,
	"ruby on rails": domain.SkillCategoryFramework,
	".net":          domain.SkillCategoryFramework,
	"gin":           domain.SkillCategoryFramework,
	"flutter":       domain.SkillCategoryFramework,
	"tensorflow":    domain.SkillCategoryFramework,
	"pytorch":       domain.SkillCategoryFramework,
	"pandas":        domain.SkillCategoryFramework,
	"tailwind":      domain.SkillCategoryFramework,
	"grpc":          domain.SkillCategoryFramework,
	"graphql":       domain.SkillCategoryFramework,
	"rest api":      domain.SkillCategoryFramework,

	// databases
	"postgresql":    domain.SkillCategoryDatabase,
	"mysql":         domain.SkillCategoryDatabase,
	"sqlite":        domain.SkillCategoryDatabase,
	"mongodb":       domain.SkillCategoryDatabase,
	"redis":         domain.SkillCategoryDatabase,
	"elasticsearch": domain.SkillCategoryDatabase,
	"cassandra":     domain.SkillCategoryDatabase,
	"dynamodb":      domain.SkillCategoryDatabase,
	"sql server":    domain.SkillCategoryDatabase,
	"oracle":        domain.SkillCategoryDatabase,
	"kafka":         domain.SkillCategoryDatabase,
	"rabbitmq":      domain.SkillCategoryDatabase,

	// cloud and infrastructure
	"aws":            domain.SkillCategoryCloud,
	"azure":          domain.SkillCategoryCloud,
	"google cloud":   domain.SkillCategoryCloud,
	"docker":         domain.SkillCategoryCloud,
	"kubernetes":     domain.SkillCategoryCloud,
	"terraform":      domain.SkillCategoryCloud,
	"ansible":        domain.SkillCategoryCloud,
	"linux":          domain.SkillCategoryCloud,
	"ci/cd":          domain.SkillCategoryCloud,
	"github actions": domain.SkillCategoryCloud,
	"jenkins":        domain.SkillCategoryCloud,
	"prometheus":     domain.SkillCategoryCloud,
	"grafana":        domain.SkillCategoryCloud,
	"microservices":  domain.SkillCategoryCloud,

	// tools and practices
	"git":                         domain.SkillCategoryTool,
	"jira":                        domain.SkillCategoryTool,
	"figma":                       domain.SkillCategoryTool,
	"excel":                       domain.SkillCategoryTool,
	"tableau":                     domain.SkillCategoryTool,
	"power bi":                    domain.SkillCategoryTool,
	"testing":                     domain.SkillCategoryTool,
	"tdd":                         domain.SkillCategoryTool,
	"oop":                         domain.SkillCategoryTool,
	"agile":                       domain.SkillCategoryTool,
	"scrum":                       domain.SkillCategoryTool,
	"machine learning":            domain.SkillCategoryTool,
	"artificial intelligence":     domain.SkillCategoryTool,
	"natural language processing": domain.SkillCategoryTool,
	"data analysis":               domain.SkillCategoryTool,

	// soft skills
	"communication":   domain.SkillCategorySoft,
	"leadership":      domain.SkillCategorySoft,
	"teamwork":        domain.SkillCategorySoft,
	"problem solving": domain.SkillCategorySoft,
	"mentoring":       domain.SkillCategorySoft,
}

// phraseIndex maps token-joined phrases (taxonomy names and aliases) to the
// canonical skill. maxPhraseLen is the longest phrase in tokens.
var (
	phraseIndex  = map[string]string{}
	maxPhraseLen = 1
)

func init() {
	add := func(phrase, canonical string) {
		toks := tokens(phrase)
		if len(toks) == 0 {
			return
		}
		phraseIndex[strings.Join(toks, " ")] = canonical
		if len(toks) > maxPhraseLen {
			maxPhraseLen = len(toks)
		}
	}
	for name := range taxonomy {
		add(name, name)
	}
	for alias, canonical := range aliases {
		if _, known := taxonomy[canonical]; known {
			add(alias, canonical)
		}
	}
}

// SkillCategory reports the taxonomy category of a skill, or "other".
func SkillCategory(skill string) string {
	if cat, ok := taxonomy[Normalize(skill)]; ok {
		return cat
	}
	return domain.SkillCategoryOther
}

// IsKnownSkill reports whether the normalized term is a taxonomy skill.
func IsKnownSkill(term string) bool {
	_, ok := taxonomy[term]
	return ok
}

// scan turns text into terms: greedy longest taxonomy phrases first, single
// aliased tokens otherwise.
func scan(text string) []string {
	toks := tokens(text)
	terms := make([]string, 0, len(toks))
	for i := 0; i < len(toks); {
		matched := false
		for n := min(maxPhraseLen, len(toks)-i); n >= 1; n-- {
			if canonical, ok := phraseIndex[strings.Join(toks[i:i+n], " ")]; ok {
				terms = append(terms, canonical)
				i += n
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		term := toks[i]
		if canonical, ok := aliases[term]; ok {
			term = canonical
		}
		terms = append(terms, term)
		i++
	}
	return terms
}

// ambiguous skills double as ordinary words; in free text they only count
// when written the way the skill is written.
var ambiguous = map[string]*regexp.Regexp{
	"go": regexp.MustCompile(`(^|[^A-Za-z])(Go|GO)([^A-Za-z]|$)|(?i)golang`),
	"c":  regexp.MustCompile(`(^|[^A-Za-z])C([^A-Za-z+#\-]|$)`),
	"r":  regexp.MustCompile(`(^|[^A-Za-z])R([^A-Za-z&]|$)`),

	"express": regexp.MustCompile(`Express|(?i)express\.?js`),
	"excel":   regexp.MustCompile(`Excel`),
	"swift":   regexp.MustCompile(`Swift`),
	"spring":  regexp.MustCompile(`Spring`),
}

func mentioned(term, text string) bool {
	re, ok := ambiguous[term]
	return !ok || re.MatchString(text)
}

// FindSkills returns the taxonomy skills mentioned in text in first-seen order.
func FindSkills(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, term := range scan(text) {
		if IsKnownSkill(term) && !seen[term] && mentioned(term, text) {
			seen[term] = true
			out = append(out, term)
		}
	}
	return out
}
