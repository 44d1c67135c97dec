package bot

// Profile is an immutable behavioral parameter set. Profiles are shared
// across many agent instances to produce distinct play patterns.
type Profile struct {
	Name string

	// Preflop tendencies
	Tightness  float64 // higher = plays fewer hands
	Aggression float64 // higher = bets/raises more
	BluffFreq  float64 // chance to bluff when weak

	// Risk controls
	MaxRiskFraction float64 // cap on stack fraction committed without a strong signal
	TiltFactor      float64 // scales bluffing up; 0 = no tilt

	// Sizing behavior, as fractions of the pot
	BetPotFractionSmall  float64
	BetPotFractionMedium float64
	BetPotFractionLarge  float64
}

// DefaultProfile returns balanced baseline knobs.
func DefaultProfile() Profile {
	return Profile{
		Name:                 "balanced_v0",
		Tightness:            0.55,
		Aggression:           0.55,
		BluffFreq:            0.08,
		MaxRiskFraction:      0.18,
		BetPotFractionSmall:  0.33,
		BetPotFractionMedium: 0.55,
		BetPotFractionLarge:  0.80,
	}
}
