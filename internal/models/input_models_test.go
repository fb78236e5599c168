package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzerInputValidate(t *testing.T) {
	valid := AnalyzerInput{
		Posts:        []Post{{PostID: "p1"}},
		OpenAIAPIKey: "sk-test",
	}
	assert.NoError(t, valid.Validate())

	noPosts := AnalyzerInput{OpenAIAPIKey: "sk-test"}
	assert.ErrorIs(t, noPosts.Validate(), ErrNoPosts)

	noKey := AnalyzerInput{Posts: []Post{{PostID: "p1"}}}
	assert.ErrorIs(t, noKey.Validate(), ErrNoAPIKey)
}

func TestAnalyzerInputDefaults(t *testing.T) {
	var input AnalyzerInput
	assert.True(t, input.Detailed())
	assert.Equal(t, DefaultRiskThreshold, input.Threshold())

	detailed := false
	threshold := 0
	input.DetailedAnalysis = &detailed
	input.RiskThreshold = &threshold
	assert.False(t, input.Detailed())
	assert.Zero(t, input.Threshold())
}

func TestAnalyzerInputEnvelopeDecoding(t *testing.T) {
	raw := `{
		"posts": [
			{
				"id": "post_1",
				"platform": "instagram",
				"url": "https://instagram.com/p/abc",
				"influencer": {"username": "fitgirl", "followers": 250000},
				"post": {
					"caption": "New shake!",
					"hashtags": ["#fit"],
					"engagement": {"likes": 12000}
				}
			}
		],
		"openaiApiKey": "sk-test",
		"detailedAnalysis": false,
		"riskThreshold": 30
	}`

	var input AnalyzerInput
	require.NoError(t, json.Unmarshal([]byte(raw), &input))

	require.Len(t, input.Posts, 1)
	post := input.Posts[0]
	assert.Equal(t, "post_1", post.PostID)
	assert.Equal(t, "instagram", post.Platform)
	assert.Equal(t, "fitgirl", post.Influencer.Username)
	assert.Equal(t, 250000, post.Influencer.Followers)
	assert.Equal(t, 12000, post.Content.Engagement.Likes)

	assert.False(t, input.Detailed())
	assert.Equal(t, 30, input.Threshold())
}

func TestSinglePostInputToPostDefaults(t *testing.T) {
	input := SinglePostInput{PostText: "hello", OpenAIAPIKey: "sk-test"}

	post := input.ToPost()
	assert.Equal(t, "instagram", post.Platform)
	assert.Equal(t, "unknown", post.Influencer.Username)
	assert.Zero(t, post.Influencer.Followers)
	assert.Equal(t, "hello", post.Content.Caption)
	assert.NoError(t, post.Validate())
}

func TestPostValidate(t *testing.T) {
	base := Post{
		PostID:     "p1",
		Platform:   "tiktok",
		Influencer: Influencer{Username: "creator", Followers: 10},
		Content:    PostContent{Caption: "hi"},
	}
	assert.NoError(t, base.Validate())

	missingPlatform := base
	missingPlatform.Platform = ""
	assert.Error(t, missingPlatform.Validate())

	missingUsername := base
	missingUsername.Influencer.Username = ""
	assert.Error(t, missingUsername.Validate())

	negativeFollowers := base
	negativeFollowers.Influencer.Followers = -1
	assert.Error(t, negativeFollowers.Validate())

	missingCaption := base
	missingCaption.Content.Caption = ""
	assert.Error(t, missingCaption.Validate())
}

func TestClassificationValid(t *testing.T) {
	valid := Classification{
		HasViolation:  true,
		ViolationType: ViolationMissingDisclosure,
		Severity:      SeverityHigh,
		Confidence:    80,
	}
	assert.True(t, valid.Valid())

	badType := valid
	badType.ViolationType = "sneaky"
	assert.False(t, badType.Valid())

	badSeverity := valid
	badSeverity.Severity = "extreme"
	assert.False(t, badSeverity.Valid())

	badConfidence := valid
	badConfidence.Confidence = 101
	assert.False(t, badConfidence.Valid())

	negativeConfidence := valid
	negativeConfidence.Confidence = -1
	assert.False(t, negativeConfidence.Valid())
}
