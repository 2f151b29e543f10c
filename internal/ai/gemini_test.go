package ai

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

type fakeModels struct {
	resp       *genai.GenerateContentResponse
	err        error
	lastModel  string
	lastConfig *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.lastModel = model
	f.lastConfig = config
	return f.resp, f.err
}

func TestGeminiGeneratorJoinsParts(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: &genai.Content{Parts: []*genai.Part{{Text: ` {"summary": `}, nil, {Text: `"ok"} `}}}},
		},
	}}
	g := newGeminiGenerator(fake, "")

	out, err := g.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "{\"summary\":\n\"ok\"}" {
		t.Fatalf("unexpected output %q", out)
	}
	if fake.lastModel != defaultGeminiModel || g.Model() != defaultGeminiModel {
		t.Fatalf("expected default model, got %s", fake.lastModel)
	}
	if fake.lastConfig == nil || fake.lastConfig.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json response mime type")
	}
}

func TestGeminiGeneratorErrors(t *testing.T) {
	if _, err := newGeminiGenerator(&fakeModels{}, "m").GenerateContent(context.Background(), "  "); err == nil {
		t.Fatalf("expected empty prompt error")
	}
	if _, err := newGeminiGenerator(&fakeModels{err: errors.New("boom")}, "m").GenerateContent(context.Background(), "p"); err == nil {
		t.Fatalf("expected api error")
	}
	empty := &fakeModels{resp: &genai.GenerateContentResponse{}}
	if _, err := newGeminiGenerator(empty, "m").GenerateContent(context.Background(), "p"); err == nil {
		t.Fatalf("expected empty response error")
	}
	if _, err := NewGeminiGenerator(context.Background(), " ", ""); err == nil {
		t.Fatalf("expected missing api key error")
	}
}
