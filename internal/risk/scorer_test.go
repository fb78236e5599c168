package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discloscan/discloscan/internal/models"
)

func makePost(followers, likes int) models.Post {
	return models.Post{
		PostID:   "p1",
		Platform: "instagram",
		Influencer: models.Influencer{
			Username:  "creator",
			Followers: followers,
		},
		Content: models.PostContent{
			Caption:    "check this out",
			Engagement: models.Engagement{Likes: likes},
		},
	}
}

func violation(severity string) models.Classification {
	return models.Classification{
		HasViolation:  true,
		ViolationType: models.ViolationMissingDisclosure,
		Severity:      severity,
		Confidence:    90,
	}
}

func TestScoreNoViolationShortCircuits(t *testing.T) {
	classification := models.Classification{
		HasViolation:  false,
		ViolationType: models.ViolationNone,
		Severity:      models.SeverityNone,
	}

	got := Score(makePost(2_000_000, 500_000), classification)

	assert.Equal(t, 0, got.RiskScore)
	assert.Equal(t, models.RiskLevelNone, got.RiskLevel)
	assert.Empty(t, got.Factors)
}

func TestScoreCriticalMegaInfluencer(t *testing.T) {
	// severity=critical, 2M followers, 150k likes: rate 7.5, both
	// multipliers max out and the product clamps at 100.
	got := Score(makePost(2_000_000, 150_000), violation(models.SeverityCritical))

	require.Equal(t, 100, got.RiskScore)
	assert.Equal(t, models.RiskLevelCritical, got.RiskLevel)
	assert.Equal(t, 100.0, got.Factors["base_score"])
	assert.Equal(t, 1.5, got.Factors["reach_multiplier"])
	assert.Equal(t, 1.3, got.Factors["engagement_multiplier"])
	assert.Equal(t, 7.5, got.Factors["engagement_rate"])
}

func TestScoreLowSeveritySmallAccount(t *testing.T) {
	// severity=low, 10k followers, 100 likes: no multipliers apply.
	got := Score(makePost(10_000, 100), violation(models.SeverityLow))

	assert.Equal(t, 25, got.RiskScore)
	assert.Equal(t, models.RiskLevelLow, got.RiskLevel)
	assert.Equal(t, 1.0, got.Factors["reach_multiplier"])
	assert.Equal(t, 1.0, got.Factors["engagement_multiplier"])
	assert.Equal(t, 1.0, got.Factors["engagement_rate"])
}

func TestScoreZeroFollowersDefinedRate(t *testing.T) {
	got := Score(makePost(0, 500), violation(models.SeverityMedium))

	assert.Equal(t, 50, got.RiskScore)
	assert.Equal(t, 0.0, got.Factors["engagement_rate"])
	assert.Equal(t, 1.0, got.Factors["engagement_multiplier"])
}

func TestScoreRiskLevelBands(t *testing.T) {
	tests := []struct {
		name      string
		severity  string
		followers int
		likes     int
		wantScore int
		wantLevel string
	}{
		{"critical band floor", models.SeverityCritical, 1_000, 0, 100, models.RiskLevelCritical},
		{"high band", models.SeverityHigh, 1_000, 0, 75, models.RiskLevelHigh},
		{"high band ceiling via reach", models.SeverityMedium, 1_000_000, 0, 75, models.RiskLevelHigh},
		{"medium band", models.SeverityMedium, 1_000, 0, 50, models.RiskLevelMedium},
		{"low band", models.SeverityLow, 1_000, 0, 25, models.RiskLevelLow},
		{"none band", models.SeverityNone, 1_000, 0, 0, models.RiskLevelNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(makePost(tt.followers, tt.likes), violation(tt.severity))
			assert.Equal(t, tt.wantScore, got.RiskScore)
			assert.Equal(t, tt.wantLevel, got.RiskLevel)
		})
	}
}

func TestScoreReachBandBoundaries(t *testing.T) {
	tests := []struct {
		followers int
		want      float64
	}{
		{999_999, 1.3},
		{1_000_000, 1.5},
		{500_000, 1.3},
		{499_999, 1.2},
		{100_000, 1.2},
		{99_999, 1.0},
		{0, 1.0},
	}

	for _, tt := range tests {
		got := Score(makePost(tt.followers, 0), violation(models.SeverityLow))
		assert.Equal(t, tt.want, got.Factors["reach_multiplier"], "followers=%d", tt.followers)
	}
}

func TestScoreReachMultiplierMonotonic(t *testing.T) {
	followerCounts := []int{0, 50_000, 100_000, 400_000, 500_000, 900_000, 1_000_000, 5_000_000}

	prev := 0.0
	for _, followers := range followerCounts {
		got := Score(makePost(followers, 0), violation(models.SeverityLow))
		multiplier := got.Factors["reach_multiplier"]
		assert.GreaterOrEqual(t, multiplier, prev, "followers=%d", followers)
		prev = multiplier
	}
}

func TestScoreEngagementMultiplierMonotonic(t *testing.T) {
	// 100k followers so rates land at 0%, 3%, 5%, 10%.
	likeCounts := []int{0, 3_000, 5_000, 10_000}

	prev := 0.0
	for _, likes := range likeCounts {
		got := Score(makePost(100_000, likes), violation(models.SeverityLow))
		multiplier := got.Factors["engagement_multiplier"]
		assert.GreaterOrEqual(t, multiplier, prev, "likes=%d", likes)
		prev = multiplier
	}
}

func TestScoreClampedAt100(t *testing.T) {
	// 100 * 1.5 * 1.3 = 195 before the clamp.
	got := Score(makePost(10_000_000, 1_000_000), violation(models.SeverityCritical))
	assert.Equal(t, 100, got.RiskScore)
}

func TestScoreEngagementRateRounded(t *testing.T) {
	// 333/100000 = 0.333% rounds to 0.33.
	got := Score(makePost(100_000, 333), violation(models.SeverityLow))
	assert.Equal(t, 0.33, got.Factors["engagement_rate"])
}

func TestScoreIdempotent(t *testing.T) {
	post := makePost(750_000, 30_000)
	classification := violation(models.SeverityHigh)

	first := Score(post, classification)
	second := Score(post, classification)

	assert.Equal(t, first, second)
}
