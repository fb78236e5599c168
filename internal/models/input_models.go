package models

import "errors"

// Input validation errors. Configuration errors are fatal: nothing is
// processed when the input envelope is incomplete.
var (
	ErrNoPosts    = errors.New("no posts provided in input")
	ErrNoAPIKey   = errors.New("OpenAI API key is required")
	ErrNoPostText = errors.New("post text is required")
)

const DefaultRiskThreshold = 50

// AnalyzerInput is the batch-mode input envelope.
type AnalyzerInput struct {
	Posts            []Post `json:"posts"`
	OpenAIAPIKey     string `json:"openaiApiKey"`
	DetailedAnalysis *bool  `json:"detailedAnalysis,omitempty"`
	RiskThreshold    *int   `json:"riskThreshold,omitempty"`
}

func (in AnalyzerInput) Validate() error {
	if len(in.Posts) == 0 {
		return ErrNoPosts
	}
	if in.OpenAIAPIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}

// Detailed defaults to true when unset.
func (in AnalyzerInput) Detailed() bool {
	if in.DetailedAnalysis == nil {
		return true
	}
	return *in.DetailedAnalysis
}

// Threshold defaults to DefaultRiskThreshold when unset.
func (in AnalyzerInput) Threshold() int {
	if in.RiskThreshold == nil {
		return DefaultRiskThreshold
	}
	return *in.RiskThreshold
}

// SinglePostInput is the ad-hoc single-post input envelope.
type SinglePostInput struct {
	PostText           string `json:"postText"`
	Platform           string `json:"platform"`
	InfluencerUsername string `json:"influencerUsername"`
	FollowerCount      int    `json:"followerCount"`
	OpenAIAPIKey       string `json:"openaiApiKey"`
}

func (in SinglePostInput) Validate() error {
	if in.PostText == "" {
		return ErrNoPostText
	}
	if in.OpenAIAPIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}

// ToPost synthesizes a one-off Post from the flat single-post fields,
// applying the documented defaults.
func (in SinglePostInput) ToPost() Post {
	platform := in.Platform
	if platform == "" {
		platform = "instagram"
	}
	username := in.InfluencerUsername
	if username == "" {
		username = "unknown"
	}
	return Post{
		PostID:   "single_post_analysis",
		Platform: platform,
		Influencer: Influencer{
			Username:  username,
			Followers: in.FollowerCount,
		},
		Content: PostContent{
			Caption: in.PostText,
		},
	}
}
