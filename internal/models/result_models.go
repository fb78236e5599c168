package models

// DisclosureSignals is the deterministic local prescreen of a caption:
// which disclosure hashtags were found and how promotional the text reads.
// Advisory only, like risk factors.
type DisclosureSignals struct {
	HasDisclosureTag bool     `json:"has_disclosure_tag"`
	DisclosureTags   []string `json:"disclosure_tags,omitempty"`
	PromoTone        float64  `json:"promo_tone"`
	PromoToneLabel   string   `json:"promo_tone_label"`
}

// AnalysisResult is the per-post record written to the result sink. The
// detailed fields (reasoning, guidelines, recommendation, risk factors,
// disclosure signals) are only populated when detailed analysis is on.
type AnalysisResult struct {
	PostID              string `json:"post_id"`
	Platform            string `json:"platform"`
	URL                 string `json:"url"`
	InfluencerUsername  string `json:"influencer_username"`
	InfluencerFollowers int    `json:"influencer_followers"`

	HasViolation  bool   `json:"has_violation"`
	ViolationType string `json:"violation_type"`
	Severity      string `json:"severity"`
	Confidence    int    `json:"confidence"`

	RiskScore int    `json:"risk_score"`
	RiskLevel string `json:"risk_level"`

	EstimatedExposure int `json:"estimated_exposure"`
	FTCFine           int `json:"ftc_fine"`
	LegalCosts        int `json:"legal_costs"`
	ReputationDamage  int `json:"reputation_damage"`

	Reasoning         string             `json:"reasoning,omitempty"`
	FTCGuidelines     []string           `json:"ftc_guidelines,omitempty"`
	Recommendation    string             `json:"recommendation,omitempty"`
	RiskFactors       map[string]float64 `json:"risk_factors,omitempty"`
	DisclosureSignals *DisclosureSignals `json:"disclosure_signals,omitempty"`
}

// BatchSummary aggregates one batch run. ViolationsDetected and
// TotalExposure only cover results retained by the risk threshold.
type BatchSummary struct {
	PostsAnalyzed      int `json:"posts_analyzed" dynamodbav:"posts_analyzed"`
	ViolationsDetected int `json:"violations_detected" dynamodbav:"violations_detected"`
	TotalExposure      int `json:"total_exposure" dynamodbav:"total_exposure"`
	ResultsCount       int `json:"results_count" dynamodbav:"results_count"`
}
