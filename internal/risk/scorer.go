package risk

import (
	"math"

	"github.com/discloscan/discloscan/internal/models"
)

var severityScores = map[string]int{
	models.SeverityCritical: 100,
	models.SeverityHigh:     75,
	models.SeverityMedium:   50,
	models.SeverityLow:      25,
	models.SeverityNone:     0,
}

// Score maps a classification plus the post's reach and engagement numbers
// to a bounded risk score and level. Pure: identical inputs always yield
// identical output.
func Score(post models.Post, classification models.Classification) models.RiskAssessment {
	if !classification.HasViolation {
		return models.RiskAssessment{
			RiskScore: 0,
			RiskLevel: models.RiskLevelNone,
			Factors:   map[string]float64{},
		}
	}

	baseScore := severityScores[classification.Severity]

	// Reach factor: bands are inclusive at the lower bound, highest first.
	followers := post.Influencer.Followers
	var reachMultiplier float64
	switch {
	case followers >= 1_000_000:
		reachMultiplier = 1.5
	case followers >= 500_000:
		reachMultiplier = 1.3
	case followers >= 100_000:
		reachMultiplier = 1.2
	default:
		reachMultiplier = 1.0
	}

	// Engagement factor. Zero followers means zero rate, not an error.
	likes := post.Content.Engagement.Likes
	var engagementRate float64
	if followers > 0 {
		engagementRate = float64(likes) / float64(followers) * 100
	}

	var engagementMultiplier float64
	switch {
	case engagementRate >= 5:
		engagementMultiplier = 1.3
	case engagementRate >= 3:
		engagementMultiplier = 1.2
	default:
		engagementMultiplier = 1.0
	}

	riskScore := int(float64(baseScore) * reachMultiplier * engagementMultiplier)
	if riskScore > 100 {
		riskScore = 100
	}

	var riskLevel string
	switch {
	case riskScore >= 80:
		riskLevel = models.RiskLevelCritical
	case riskScore >= 60:
		riskLevel = models.RiskLevelHigh
	case riskScore >= 40:
		riskLevel = models.RiskLevelMedium
	case riskScore >= 20:
		riskLevel = models.RiskLevelLow
	default:
		riskLevel = models.RiskLevelNone
	}

	return models.RiskAssessment{
		RiskScore: riskScore,
		RiskLevel: riskLevel,
		Factors: map[string]float64{
			"base_score":            float64(baseScore),
			"reach_multiplier":      reachMultiplier,
			"engagement_multiplier": engagementMultiplier,
			"engagement_rate":       math.Round(engagementRate*100) / 100,
		},
	}
}
