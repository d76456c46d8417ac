package shared

const (
	// RateResolution is the bit width of a rate mantissa. Expanded rates are
	// scaled by 2^RateResolution.
	RateResolution = 48

	// PPMResolution is the fee/percentage unit (1,000,000 = 100%).
	PPMResolution = 1_000_000

	// MaxExpDecayLives caps exponential decay: once elapsed/halfLife reaches
	// this many half-lives the decayed value saturates to zero.
	MaxExpDecayLives = 128
)
