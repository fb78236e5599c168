package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/discloscan/discloscan/internal/clients"
	"github.com/discloscan/discloscan/internal/models"
	"github.com/discloscan/discloscan/internal/utils"
)

const (
	analysisModel       = openai.GPT4
	analysisTemperature = 0.3
	analysisTimeout     = 60 * time.Second
)

const systemPrompt = "You are an FTC compliance expert. Always respond with valid JSON."

// chatCompleter is the slice of the OpenAI client the analyzer needs,
// kept narrow so tests can swap in a deterministic stub.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Analyzer asks the reasoning service whether a post violates FTC
// disclosure rules. One outbound call per post, no retries: a failed call
// degrades to the sentinel classification so one bad post never aborts a
// batch.
type Analyzer struct {
	client chatCompleter
}

func NewAnalyzer(oc *clients.OpenAIClient) *Analyzer {
	return &Analyzer{client: oc.Client}
}

// AnalyzePost classifies a single post. It never returns an error; any
// failure (network, timeout, non-JSON payload, schema-violating response)
// is logged and absorbed into the sentinel classification.
func (a *Analyzer) AnalyzePost(ctx context.Context, post models.Post) models.Classification {
	ctx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       analysisModel,
		Temperature: analysisTemperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(post),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		slog.Error("[ComplianceAnalyzer] AI analysis failed",
			slog.String("post_id", post.PostID),
			slog.String("error", err.Error()))
		return sentinelClassification(fmt.Sprintf("Analysis failed: %s", err.Error()))
	}

	if len(resp.Choices) == 0 {
		slog.Error("[ComplianceAnalyzer] AI analysis returned no choices",
			slog.String("post_id", post.PostID))
		return sentinelClassification("Analysis failed: empty response from reasoning service")
	}

	cleaned := cleanResponse(resp.Choices[0].Message.Content)
	if cleaned == "" {
		slog.Error("[ComplianceAnalyzer] Response does not look like a JSON object",
			slog.String("post_id", post.PostID),
			slog.String("raw_response", snippet(resp.Choices[0].Message.Content)))
		return sentinelClassification("Analysis failed: reasoning service returned a non-JSON payload")
	}

	var classification models.Classification
	if err := utils.DeserializeFromJSON([]byte(cleaned), &classification); err != nil {
		slog.Error("[ComplianceAnalyzer] Failed to unmarshal classification",
			slog.String("post_id", post.PostID),
			slog.String("error", err.Error()),
			slog.String("raw_response", snippet(resp.Choices[0].Message.Content)))
		return sentinelClassification(fmt.Sprintf("Analysis failed: %s", err.Error()))
	}

	if !classification.Valid() {
		slog.Error("[ComplianceAnalyzer] Classification violates the response schema",
			slog.String("post_id", post.PostID),
			slog.String("violation_type", classification.ViolationType),
			slog.String("severity", classification.Severity),
			slog.Int("confidence", classification.Confidence))
		return sentinelClassification("Analysis failed: reasoning service response violates the classification schema")
	}

	// No violation implies violation_type and severity are both "none".
	if !classification.HasViolation {
		classification.ViolationType = models.ViolationNone
		classification.Severity = models.SeverityNone
	}
	if classification.FTCGuidelines == nil {
		classification.FTCGuidelines = []string{}
	}

	return classification
}

// buildPrompt embeds the post into the fixed instruction the reasoning
// service is prompted with. The response schema is spelled out verbatim so
// the JSON-object response format has an exact shape to fill.
func buildPrompt(post models.Post) string {
	var b strings.Builder

	b.WriteString("You are an FTC compliance expert analyzing influencer marketing content.\n\n")
	b.WriteString("Analyze this social media post for FTC disclosure violations per 16 CFR Part 255:\n\n")
	fmt.Fprintf(&b, "Platform: %s\n", post.Platform)
	fmt.Fprintf(&b, "Influencer: @%s (%d followers)\n", post.Influencer.Username, post.Influencer.Followers)
	fmt.Fprintf(&b, "Caption: %s\n", post.Content.Caption)
	if len(post.Content.Hashtags) > 0 {
		fmt.Fprintf(&b, "Hashtags: %s\n", strings.Join(post.Content.Hashtags, ", "))
	}

	b.WriteString(`
Determine:
1. Is there a material connection (sponsorship/partnership) implied?
2. Is there adequate disclosure of this connection?
3. What specific violations exist, if any?
4. How severe is the violation?

Respond in JSON format:
{
    "has_violation": boolean,
    "violation_type": "missing_disclosure" | "insufficient_disclosure" | "hidden_disclosure" | "none",
    "severity": "critical" | "high" | "medium" | "low" | "none",
    "confidence": 0-100,
    "reasoning": "detailed explanation",
    "ftc_guidelines": ["relevant guideline citations"],
    "recommendation": "what should be done"
}`)

	return b.String()
}

// sentinelClassification is the degraded result used whenever the
// reasoning service cannot be consulted. It reads as "no violation found"
// with zero confidence and flags the post for a human.
func sentinelClassification(reason string) models.Classification {
	return models.Classification{
		HasViolation:   false,
		ViolationType:  models.ViolationNone,
		Severity:       models.SeverityNone,
		Confidence:     0,
		Reasoning:      reason,
		FTCGuidelines:  []string{},
		Recommendation: "Manual review required",
	}
}

// cleanResponse strips Markdown code fences the model sometimes wraps its
// JSON in, and rejects anything that still does not look like an object.
func cleanResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	if !(strings.HasPrefix(cleaned, "{") && strings.HasSuffix(cleaned, "}")) {
		return ""
	}

	return cleaned
}

func snippet(s string) string {
	const snippetLen = 100
	if len(s) > snippetLen {
		return s[:snippetLen] + "..."
	}
	return s
}
