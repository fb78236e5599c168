package exposure

import "github.com/discloscan/discloscan/internal/models"

// Params holds the business constants behind the exposure estimate. They
// are rough planning figures, not statistically derived, so they are inputs
// rather than hardcoded law.
type Params struct {
	BaseFine              int
	LegalCostsCritical    int
	LegalCostsHigh        int
	LegalCostsBase        int
	ReputationPerFollower int
}

func DefaultParams() Params {
	return Params{
		BaseFine:              50_000,
		LegalCostsCritical:    500_000,
		LegalCostsHigh:        250_000,
		LegalCostsBase:        100_000,
		ReputationPerFollower: 2,
	}
}

// Estimate maps a risk score and the influencer's reach to a monetary
// exposure breakdown. Pure. A zero risk score means zero exposure across
// the board.
func Estimate(post models.Post, riskScore int, params Params) models.ExposureEstimate {
	if riskScore == 0 {
		return models.ExposureEstimate{}
	}

	ftcFine := int(float64(params.BaseFine) * (float64(riskScore) / 100) * 2)

	var legalCosts int
	switch {
	case riskScore >= 80:
		legalCosts = params.LegalCostsCritical
	case riskScore >= 60:
		legalCosts = params.LegalCostsHigh
	default:
		legalCosts = params.LegalCostsBase
	}

	reputationDamage := post.Influencer.Followers * params.ReputationPerFollower

	return models.ExposureEstimate{
		FTCFine:          ftcFine,
		LegalCosts:       legalCosts,
		ReputationDamage: reputationDamage,
		TotalExposure:    ftcFine + legalCosts + reputationDamage,
	}
}
