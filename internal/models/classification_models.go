package models

// Violation types the reasoning service may return.
const (
	ViolationMissingDisclosure      = "missing_disclosure"
	ViolationInsufficientDisclosure = "insufficient_disclosure"
	ViolationHiddenDisclosure       = "hidden_disclosure"
	ViolationNone                   = "none"
)

// Severity bands for a detected violation.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityNone     = "none"
)

// Classification is the structured judgment returned by the reasoning
// service for a single post. When has_violation is false, violation_type
// and severity are both "none".
type Classification struct {
	HasViolation   bool     `json:"has_violation"`
	ViolationType  string   `json:"violation_type"`
	Severity       string   `json:"severity"`
	Confidence     int      `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	FTCGuidelines  []string `json:"ftc_guidelines"`
	Recommendation string   `json:"recommendation"`
}

func validViolationType(t string) bool {
	switch t {
	case ViolationMissingDisclosure, ViolationInsufficientDisclosure,
		ViolationHiddenDisclosure, ViolationNone:
		return true
	}
	return false
}

func validSeverity(s string) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityNone:
		return true
	}
	return false
}

// Valid checks the classification against its schema: known enum values
// and a confidence inside [0,100]. A response failing this check is a
// contract violation from the service.
func (c Classification) Valid() bool {
	if !validViolationType(c.ViolationType) || !validSeverity(c.Severity) {
		return false
	}
	return c.Confidence >= 0 && c.Confidence <= 100
}
