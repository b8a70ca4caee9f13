package scoring

// Band is the qualitative classification of a grade
type Band int

const (
	BandNeedsWork Band = iota
	BandRegular
	BandGood
	BandExcellent
)

// BandFor classifies a 0-10 grade
func BandFor(grade float64) Band {
	switch {
	case grade >= 9:
		return BandExcellent
	case grade >= 7:
		return BandGood
	case grade >= 5:
		return BandRegular
	default:
		return BandNeedsWork
	}
}

func (b Band) String() string {
	switch b {
	case BandExcellent:
		return "EXCELLENT"
	case BandGood:
		return "GOOD"
	case BandRegular:
		return "REGULAR"
	default:
		return "NEEDS_WORK"
	}
}

// Message is the console verdict for the band
func (b Band) Message() string {
	switch b {
	case BandExcellent:
		return "Excellent! Complete implementation"
	case BandGood:
		return "Good. Most endpoints work"
	case BandRegular:
		return "Regular. Some endpoints have problems"
	default:
		return "Needs work. Several endpoints do not work"
	}
}
