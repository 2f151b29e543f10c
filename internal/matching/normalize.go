// Package matching scores a CV against the requirements extracted from a job
// description. It performs no I/O.
package matching

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// aliases maps common spellings to the canonical skill name.
var aliases = map[string]string{
	"golang":                      "go",
	"js":                          "javascript",
	"ecmascript":                  "javascript",
	"ts":                          "typescript",
	"py":                          "python",
	"k8s":                         "kubernetes",
	"postgres":                    "postgresql",
	"psql":                        "postgresql",
	"mongo":                       "mongodb",
	"node":                        "node.js",
	"nodejs":                      "node.js",
	"reactjs":                     "react",
	"react.js":                    "react",
	"vuejs":                       "vue",
	"vue.js":                      "vue",
	"angularjs":                   "angular",
	"nextjs":                      "next.js",
	"expressjs":                   "express",
	"express.js":                  "express",
	"cpp":                         "c++",
	"csharp":                      "c#",
	"c sharp":                     "c#",
	"dotnet":                      ".net",
	"ms sql":                      "sql server",
	"mssql":                       "sql server",
	"amazon web services":         "aws",
	"gcp":                         "google cloud",
	"google cloud platform":       "google cloud",
	"ms azure":                    "azure",
	"microsoft azure":             "azure",
	"ml":                          "machine learning",
	"ai":                          "artificial intelligence",
	"nlp":                         "natural language processing",
	"cicd":                        "ci/cd",
	"ci cd":                       "ci/cd",
	"gha":                         "github actions",
	"tf":                          "terraform",
	"rails":                       "ruby on rails",
	"springboot":                  "spring boot",
	"restful":                     "rest api",
	"restful api":                 "rest api",
	"graph ql":                    "graphql",
	"elastic search":              "elasticsearch",
	"scrum master":                "scrum",
	"unit testing":                "testing",
	"test driven development":     "tdd",
	"object oriented":             "oop",
	"object oriented programming": "oop",
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.'
}

// tokens lowercases text and splits it into word tokens. '+', '#' and '.' are
// word characters so "c++", "c#" and "node.js" survive; trailing dots are dropped.
func tokens(text string) []string {
	var out []string
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if strings.Trim(w, ".+#") == "" {
			return
		}
		out = append(out, w)
	}
	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return out
}

// Normalize returns the canonical form of a skill or keyword.
func Normalize(s string) string {
	toks := tokens(s)
	if len(toks) == 0 {
		return ""
	}
	phrase := strings.Join(toks, " ")
	if canonical, ok := aliases[phrase]; ok {
		return canonical
	}
	for i, t := range toks {
		if canonical, ok := aliases[t]; ok {
			toks[i] = canonical
		}
	}
	return strings.Join(toks, " ")
}

// NormalizeList normalizes every entry, dropping empties and duplicates while
// keeping first-seen order.
func NormalizeList(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		n := Normalize(item)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
