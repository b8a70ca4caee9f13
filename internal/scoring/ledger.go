// Package scoring keeps the running score of a conformance run and turns it
// into a graded result.
package scoring

import (
	"math"

	"github.com/moamenhredeen/relcheck/internal/models"
)

// DefaultMaxScore is the maximum score of the standard pipeline
const DefaultMaxScore = 10.0

// Ledger accumulates awarded points against a fixed maximum
type Ledger struct {
	max    float64
	total  float64
	awards []models.Award
}

// NewLedger creates a ledger with the given maximum. A non-positive maximum
// falls back to DefaultMaxScore.
func NewLedger(max float64) *Ledger {
	if max <= 0 {
		max = DefaultMaxScore
	}
	return &Ledger{max: max}
}

// Add records a contribution. Non-positive points are ignored and reported
// back with zero points.
func (l *Ledger) Add(step string, points float64, reason string) models.Award {
	if points <= 0 {
		return models.Award{Step: step, Reason: reason}
	}
	a := models.Award{Step: step, Points: points, Reason: reason}
	l.total += points
	l.awards = append(l.awards, a)
	return a
}

// Total returns the accumulated score
func (l *Ledger) Total() float64 { return l.total }

// Max returns the maximum score
func (l *Ledger) Max() float64 { return l.max }

// Awards returns a copy of every recorded contribution
func (l *Ledger) Awards() []models.Award {
	return append([]models.Award(nil), l.awards...)
}

// Grade scales the total onto 0-10, rounded to one decimal place
func (l *Ledger) Grade() float64 {
	g := math.Round(l.total/l.max*10*10) / 10
	return math.Max(0, math.Min(10, g))
}

// Band classifies the current grade
func (l *Ledger) Band() Band {
	return BandFor(l.Grade())
}
