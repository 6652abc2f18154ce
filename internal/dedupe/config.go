package dedupe

// Config defines weights and thresholds for duplicate detection.
// The exact values are tunable; the qualitative ordering is the contract:
// an email exact match outweighs a fuzzy name match, which outweighs the
// phone and company supporting signals.
type Config struct {
	// PairThreshold is the minimum weighted similarity for a pair of
	// contacts to be reported as duplicate candidates.
	PairThreshold float64
	// MinNameSimilarity is the floor below which a fuzzy name comparison
	// contributes nothing.
	MinNameSimilarity float64

	EmailWeight   float64
	NameWeight    float64
	PhoneWeight   float64
	CompanyWeight float64
}

// DefaultConfig defines duplicate detection behavior for the contact scan.
var DefaultConfig = Config{
	PairThreshold:     0.6,
	MinNameSimilarity: 0.4,
	EmailWeight:       0.5,
	NameWeight:        0.3,
	PhoneWeight:       0.1,
	CompanyWeight:     0.1,
}
