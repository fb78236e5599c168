package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/discloscan/discloscan/internal/exposure"
	"github.com/discloscan/discloscan/internal/models"
	"github.com/discloscan/discloscan/internal/prescreen"
	"github.com/discloscan/discloscan/internal/risk"
)

// Classifier is the reasoning-service boundary. It is never expected to
// fail: implementations degrade to a sentinel classification instead.
type Classifier interface {
	AnalyzePost(ctx context.Context, post models.Post) models.Classification
}

type Options struct {
	RiskThreshold int
	Detailed      bool
	Exposure      exposure.Params
}

func DefaultOptions() Options {
	return Options{
		RiskThreshold: models.DefaultRiskThreshold,
		Detailed:      true,
		Exposure:      exposure.DefaultParams(),
	}
}

// Pipeline threads a post through classification, risk scoring and
// exposure estimation. Posts are processed one at a time, in input order;
// the only long-latency step is the classifier call.
type Pipeline struct {
	classifier Classifier
	opts       Options
}

func New(classifier Classifier, opts Options) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		opts:       opts,
	}
}

// Run analyzes a batch. Results keep input order and only contain posts at
// or above the risk threshold. A post whose record cannot be assembled is
// logged and skipped; the batch always completes. The summary's violation
// and exposure counters cover retained results only, while posts_analyzed
// counts every post seen.
func (p *Pipeline) Run(ctx context.Context, posts []models.Post) ([]models.AnalysisResult, models.BatchSummary) {
	results := make([]models.AnalysisResult, 0, len(posts))
	summary := models.BatchSummary{PostsAnalyzed: len(posts)}

	for idx, post := range posts {
		slog.Info("[Pipeline] Analyzing post",
			slog.Int("index", idx+1),
			slog.Int("total", len(posts)),
			slog.String("post_id", post.PostID))

		result, err := p.assemble(ctx, post)
		if err != nil {
			slog.Error("[Pipeline] Failed to analyze post",
				slog.String("post_id", post.PostID),
				slog.String("error", err.Error()))
			continue
		}

		if result.RiskScore >= p.opts.RiskThreshold {
			results = append(results, result)

			if result.HasViolation {
				summary.ViolationsDetected++
				summary.TotalExposure += result.EstimatedExposure
			}

			slog.Info("[Pipeline] Post retained",
				slog.String("post_id", post.PostID),
				slog.Int("risk_score", result.RiskScore),
				slog.Bool("has_violation", result.HasViolation))
		} else {
			slog.Info("[Pipeline] Post below threshold",
				slog.String("post_id", post.PostID),
				slog.Int("risk_score", result.RiskScore))
		}
	}

	summary.ResultsCount = len(results)
	return results, summary
}

// Single runs the same three stages for one ad-hoc post. No threshold
// filtering: the result is always produced. Unlike Run, a processing
// failure here surfaces to the caller.
func (p *Pipeline) Single(ctx context.Context, in models.SinglePostInput) (models.AnalysisResult, error) {
	if err := in.Validate(); err != nil {
		return models.AnalysisResult{}, err
	}

	result, err := p.assemble(ctx, in.ToPost())
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("single post analysis: %w", err)
	}
	return result, nil
}

// assemble is the one place the three stages meet, shared by both entry
// points so the arithmetic cannot drift between them.
func (p *Pipeline) assemble(ctx context.Context, post models.Post) (models.AnalysisResult, error) {
	if err := post.Validate(); err != nil {
		return models.AnalysisResult{}, err
	}

	classification := p.classifier.AnalyzePost(ctx, post)
	assessment := risk.Score(post, classification)
	estimate := exposure.Estimate(post, assessment.RiskScore, p.opts.Exposure)

	result := models.AnalysisResult{
		PostID:              post.PostID,
		Platform:            post.Platform,
		URL:                 post.URL,
		InfluencerUsername:  post.Influencer.Username,
		InfluencerFollowers: post.Influencer.Followers,

		HasViolation:  classification.HasViolation,
		ViolationType: classification.ViolationType,
		Severity:      classification.Severity,
		Confidence:    classification.Confidence,

		RiskScore: assessment.RiskScore,
		RiskLevel: assessment.RiskLevel,

		EstimatedExposure: estimate.TotalExposure,
		FTCFine:           estimate.FTCFine,
		LegalCosts:        estimate.LegalCosts,
		ReputationDamage:  estimate.ReputationDamage,
	}

	if p.opts.Detailed {
		result.Reasoning = classification.Reasoning
		result.FTCGuidelines = classification.FTCGuidelines
		result.Recommendation = classification.Recommendation
		result.RiskFactors = assessment.Factors
		signals := prescreen.Scan(post)
		result.DisclosureSignals = &signals
	}

	return result, nil
}
