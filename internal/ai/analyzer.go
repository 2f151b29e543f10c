// Package ai adds narrative insights from an external language model to an
// already computed match result.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

// Generator sends a prompt to a language model and returns its text output.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	maxListItems        = 5
)

// PromptAnalyzer implements domain.Analyzer on top of any Generator.
type PromptAnalyzer struct {
	generator Generator
	provider  string
	maxLogLen int
}

func NewPromptAnalyzer(provider string, generator Generator) *PromptAnalyzer {
	return &PromptAnalyzer{
		generator: generator,
		provider:  provider,
		maxLogLen: defaultMaxLogLength,
	}
}

type jobPayload struct {
	Title        string                 `json:"title"`
	Company      string                 `json:"company,omitempty"`
	Description  string                 `json:"description"`
	Requirements domain.JobRequirements `json:"requirements"`
}

type resultPayload struct {
	MatchScore      int          `json:"match_score"`
	MatchLevel      string       `json:"match_level"`
	SkillScore      int          `json:"skill_score"`
	KeywordScore    int          `json:"keyword_score"`
	ExperienceScore int          `json:"experience_score"`
	EducationScore  int          `json:"education_score"`
	ATSScore        int          `json:"ats_score"`
	MatchedSkills   []string     `json:"matched_skills"`
	MissingSkills   []string     `json:"missing_skills"`
	Gaps            []domain.Gap `json:"gaps"`
}

func (a *PromptAnalyzer) Analyze(ctx context.Context, cv *domain.CvDocument, job *domain.JobPosting, result *domain.MatchResult) (*domain.Insights, error) {
	if cv == nil || job == nil || result == nil {
		return nil, errors.New("cv, job and match result are required")
	}

	prompt, err := buildPrompt(cv, job, result)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("provider", a.provider).
		Str("model", a.generator.Model()).
		Str("job_id", job.ID.String()).
		Int("prompt_length", utf8.RuneCountInString(prompt)).
		Str("prompt_preview", truncateForLog(prompt, a.maxLogLen)).
		Msg("ai generate content request")

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s generate content: %w", a.provider, err)
	}

	log.Debug().
		Str("provider", a.provider).
		Str("job_id", job.ID.String()).
		Int("response_length", utf8.RuneCountInString(raw)).
		Str("response_preview", truncateForLog(raw, a.maxLogLen)).
		Msg("ai generate content response")

	insights, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	insights.Provider = a.provider
	insights.Model = a.generator.Model()
	return insights, nil
}

func buildPrompt(cv *domain.CvDocument, job *domain.JobPosting, result *domain.MatchResult) (string, error) {
	cvJSON, err := json.MarshalIndent(cv, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal cv payload: %w", err)
	}
	jobJSON, err := json.MarshalIndent(jobPayload{
		Title:        job.Title,
		Company:      job.Company,
		Description:  job.Description,
		Requirements: job.Requirements,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}
	resultJSON, err := json.MarshalIndent(resultPayload{
		MatchScore:      result.MatchScore,
		MatchLevel:      string(result.MatchLevel),
		SkillScore:      result.SkillScore,
		KeywordScore:    result.KeywordScore,
		ExperienceScore: result.ExperienceScore,
		EducationScore:  result.EducationScore,
		ATSScore:        result.ATS.Score,
		MatchedSkills:   result.MatchedSkills,
		MissingSkills:   result.MissingSkills,
		Gaps:            result.Gaps,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result payload: %w", err)
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "CV:\n{{CV_JSON}}\n\nJob:\n{{JOB_JSON}}\n\nResult:\n{{RESULT_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{CV_JSON}}", string(cvJSON))
	prompt = strings.ReplaceAll(prompt, "{{JOB_JSON}}", string(jobJSON))
	prompt = strings.ReplaceAll(prompt, "{{RESULT_JSON}}", string(resultJSON))
	return prompt, nil
}

func parseResponse(raw string) (*domain.Insights, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse ai response: %w", err)
	}

	insights := &domain.Insights{
		Summary:         coerceString(data["summary"]),
		Strengths:       coerceStrings(data["strengths"]),
		Improvements:    coerceStrings(data["improvements"]),
		TailoredSummary: coerceString(data["tailored_summary"]),
	}
	if insights.Summary == "" && len(insights.Strengths) == 0 && len(insights.Improvements) == 0 {
		return nil, errors.New("ai response contains no insights")
	}
	return insights, nil
}

// extractJSON strips markdown code fences and any prose around the outermost
// JSON object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		raw = raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any:
		return strings.Join(coerceStrings(val), " ")
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceStrings accepts an array of strings, a single string, or a newline
// separated list, and returns at most maxListItems non-empty entries.
func coerceStrings(v any) []string {
	var items []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			items = append(items, coerceString(item))
		}
	case string:
		for _, line := range strings.Split(val, "\n") {
			items = append(items, strings.TrimLeft(strings.TrimSpace(line), "-*• "))
		}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
		if len(out) == maxListItems {
			break
		}
	}
	return out
}

func truncateForLog(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
