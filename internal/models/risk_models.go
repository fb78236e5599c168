package models

// Risk levels derived from the 0-100 risk score.
const (
	RiskLevelCritical = "critical"
	RiskLevelHigh     = "high"
	RiskLevelMedium   = "medium"
	RiskLevelLow      = "low"
	RiskLevelNone     = "none"
)

// RiskAssessment is derived deterministically from a Classification and the
// post's reach/engagement numbers. Factors is diagnostic only; it carries no
// decision weight.
type RiskAssessment struct {
	RiskScore int                `json:"risk_score"`
	RiskLevel string             `json:"risk_level"`
	Factors   map[string]float64 `json:"factors"`
}
