package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/ai"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/matching"
)

type scoreOutput struct {
	Requirements domain.JobRequirements `json:"requirements"`
	Result       *domain.MatchResult    `json:"result"`
	AIInsights   *domain.Insights       `json:"ai_insights,omitempty"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a CV document (JSON) against a job description (text)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cvPath, _ := cmd.Flags().GetString("cv")
		jobPath, _ := cmd.Flags().GetString("job")
		title, _ := cmd.Flags().GetString("title")
		useAI, _ := cmd.Flags().GetBool("ai")

		doc, err := readCvDocument(cvPath)
		if err != nil {
			return err
		}
		description, err := readText(jobPath)
		if err != nil {
			return err
		}

		out := score(doc, title, description)
		if useAI {
			insights, err := aiInsights(cmd.Context(), doc, title, description, out)
			if err != nil {
				return err
			}
			out.AIInsights = insights
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("cv", "", "path to the CV document in JSON")
	scoreCmd.Flags().String("job", "-", "path to the job description, - for stdin")
	scoreCmd.Flags().StringP("title", "t", "", "job title")
	scoreCmd.Flags().Bool("ai", false, "add AI insights using AI_PROVIDER from the environment")
	_ = scoreCmd.MarkFlagRequired("cv")
}

func score(doc *domain.CvDocument, title, description string) *scoreOutput {
	req := matching.ExtractRequirements(title, description)
	return &scoreOutput{
		Requirements: req,
		Result:       matching.NewEngine().Match(doc, req),
	}
}

func aiInsights(ctx context.Context, doc *domain.CvDocument, title, description string, out *scoreOutput) (*domain.Insights, error) {
	cfg := loadConfig()
	analyzer, err := ai.New(ctx, cfg.AI, nil)
	if err != nil {
		return nil, err
	}
	if analyzer == nil {
		return nil, domain.ErrAIUnavailable
	}

	if cfg.AI.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.AI.Timeout)
		defer cancel()
	}
	job := &domain.JobPosting{Title: title, Description: description, Requirements: out.Requirements}
	return analyzer.Analyze(ctx, doc, job, out.Result)
}

func readCvDocument(path string) (*domain.CvDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cv: %w", err)
	}
	var doc domain.CvDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse cv %s: %w", path, err)
	}
	return &doc, nil
}

func readText(path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" || path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("job description is empty")
	}
	return text, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
