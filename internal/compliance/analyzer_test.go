package compliance

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discloscan/discloscan/internal/models"
)

type stubCompleter struct {
	response string
	err      error
	lastReq  openai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.response}},
		},
	}, nil
}

func testPost() models.Post {
	return models.Post{
		PostID:   "post_1",
		Platform: "instagram",
		Influencer: models.Influencer{
			Username:  "fitgirl",
			Followers: 250_000,
		},
		Content: models.PostContent{
			Caption:  "Loving my new shake!",
			Hashtags: []string{"#fitness", "#shake"},
		},
	}
}

const validResponse = `{
	"has_violation": true,
	"violation_type": "missing_disclosure",
	"severity": "high",
	"confidence": 85,
	"reasoning": "Sponsored content with no disclosure.",
	"ftc_guidelines": ["16 CFR Part 255.5"],
	"recommendation": "Add #ad at the start of the caption."
}`

func TestAnalyzePostParsesValidResponse(t *testing.T) {
	stub := &stubCompleter{response: validResponse}
	analyzer := &Analyzer{client: stub}

	got := analyzer.AnalyzePost(context.Background(), testPost())

	assert.True(t, got.HasViolation)
	assert.Equal(t, models.ViolationMissingDisclosure, got.ViolationType)
	assert.Equal(t, models.SeverityHigh, got.Severity)
	assert.Equal(t, 85, got.Confidence)
	assert.Equal(t, []string{"16 CFR Part 255.5"}, got.FTCGuidelines)
	assert.Equal(t, "Add #ad at the start of the caption.", got.Recommendation)
}

func TestAnalyzePostPromptEmbedsPostFields(t *testing.T) {
	stub := &stubCompleter{response: validResponse}
	analyzer := &Analyzer{client: stub}

	analyzer.AnalyzePost(context.Background(), testPost())

	require.Len(t, stub.lastReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, stub.lastReq.Messages[0].Role)
	assert.Equal(t, systemPrompt, stub.lastReq.Messages[0].Content)

	prompt := stub.lastReq.Messages[1].Content
	assert.Contains(t, prompt, "Platform: instagram")
	assert.Contains(t, prompt, "@fitgirl (250000 followers)")
	assert.Contains(t, prompt, "Caption: Loving my new shake!")
	assert.Contains(t, prompt, "Hashtags: #fitness, #shake")
	assert.Contains(t, prompt, "16 CFR Part 255")
}

func TestAnalyzePostRequestsDeterministicJSON(t *testing.T) {
	stub := &stubCompleter{response: validResponse}
	analyzer := &Analyzer{client: stub}

	analyzer.AnalyzePost(context.Background(), testPost())

	assert.InDelta(t, 0.3, stub.lastReq.Temperature, 0.001)
	require.NotNil(t, stub.lastReq.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, stub.lastReq.ResponseFormat.Type)
}

func TestAnalyzePostOmitsHashtagLineWhenEmpty(t *testing.T) {
	stub := &stubCompleter{response: validResponse}
	analyzer := &Analyzer{client: stub}

	post := testPost()
	post.Content.Hashtags = nil
	analyzer.AnalyzePost(context.Background(), post)

	assert.NotContains(t, stub.lastReq.Messages[1].Content, "Hashtags:")
}

func TestAnalyzePostHandlesFencedResponse(t *testing.T) {
	stub := &stubCompleter{response: "```json\n" + validResponse + "\n```"}
	analyzer := &Analyzer{client: stub}

	got := analyzer.AnalyzePost(context.Background(), testPost())

	assert.True(t, got.HasViolation)
	assert.Equal(t, models.SeverityHigh, got.Severity)
}

func TestAnalyzePostSentinelOnCallFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection reset")}
	analyzer := &Analyzer{client: stub}

	got := analyzer.AnalyzePost(context.Background(), testPost())

	assert.False(t, got.HasViolation)
	assert.Equal(t, models.ViolationNone, got.ViolationType)
	assert.Equal(t, models.SeverityNone, got.Severity)
	assert.Equal(t, 0, got.Confidence)
	assert.Contains(t, got.Reasoning, "connection reset")
	assert.Empty(t, got.FTCGuidelines)
	assert.Equal(t, "Manual review required", got.Recommendation)
}

func TestAnalyzePostSentinelOnNonJSONPayload(t *testing.T) {
	stub := &stubCompleter{response: "I cannot analyze this post."}
	analyzer := &Analyzer{client: stub}

	got := analyzer.AnalyzePost(context.Background(), testPost())

	assert.False(t, got.HasViolation)
	assert.Equal(t, 0, got.Confidence)
	assert.Equal(t, "Manual review required", got.Recommendation)
}

func TestAnalyzePostSentinelOnSchemaViolation(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"unknown severity", `{"has_violation": true, "violation_type": "missing_disclosure", "severity": "catastrophic", "confidence": 50}`},
		{"unknown violation type", `{"has_violation": true, "violation_type": "sneaky", "severity": "high", "confidence": 50}`},
		{"confidence out of range", `{"has_violation": true, "violation_type": "missing_disclosure", "severity": "high", "confidence": 150}`},
		{"missing enum fields", `{"has_violation": true, "confidence": 50}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubCompleter{response: tt.response}
			analyzer := &Analyzer{client: stub}

			got := analyzer.AnalyzePost(context.Background(), testPost())

			assert.False(t, got.HasViolation)
			assert.Equal(t, "Manual review required", got.Recommendation)
		})
	}
}

func TestAnalyzePostNormalizesNoViolation(t *testing.T) {
	// has_violation=false with mismatched type/severity normalizes to none.
	stub := &stubCompleter{response: `{
		"has_violation": false,
		"violation_type": "missing_disclosure",
		"severity": "high",
		"confidence": 70,
		"reasoning": "Organic content.",
		"ftc_guidelines": [],
		"recommendation": "No action needed."
	}`}
	analyzer := &Analyzer{client: stub}

	got := analyzer.AnalyzePost(context.Background(), testPost())

	assert.False(t, got.HasViolation)
	assert.Equal(t, models.ViolationNone, got.ViolationType)
	assert.Equal(t, models.SeverityNone, got.Severity)
	assert.Equal(t, 70, got.Confidence)
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
		{"prose", "sorry, no", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanResponse(tt.input))
		})
	}
}
