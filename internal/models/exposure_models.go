package models

// ExposureEstimate breaks down the estimated monetary exposure for a post,
// in whole currency units. TotalExposure is always the exact sum of the
// three components.
type ExposureEstimate struct {
	FTCFine          int `json:"ftc_fine"`
	LegalCosts       int `json:"legal_costs"`
	ReputationDamage int `json:"reputation_damage"`
	TotalExposure    int `json:"total_exposure"`
}
