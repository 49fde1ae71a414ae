package types

// Impact is the impact classification of a risk. Allowed values are served
// by the value help endpoint; the constants below are the well known ones.
type Impact string

const (
	ImpactLow      Impact = "Low"
	ImpactMedium   Impact = "Medium"
	ImpactHigh     Impact = "High"
	ImpactVeryHigh Impact = "Very High"
)

// IsHigh reports whether the impact is High or Very High.
func (i Impact) IsHigh() bool {
	return i == ImpactHigh || i == ImpactVeryHigh
}

func (i Impact) String() string {
	return string(i)
}

// Probability is the likelihood classification of a risk.
type Probability string

const (
	ProbabilityLow      Probability = "Low"
	ProbabilityMedium   Probability = "Medium"
	ProbabilityHigh     Probability = "High"
	ProbabilityVeryHigh Probability = "Very High"
)

func (p Probability) String() string {
	return string(p)
}
