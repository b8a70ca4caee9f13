package pipeline

import (
	"github.com/moamenhredeen/relcheck/internal/scoring"
)

// Input is an identifier captured by one step and consumed by later ones
type Input int

const (
	InputUserID Input = iota
	InputCategoryID
	InputProductID
)

func (i Input) String() string {
	switch i {
	case InputUserID:
		return "user id"
	case InputCategoryID:
		return "category id"
	case InputProductID:
		return "product id"
	default:
		return "unknown input"
	}
}

// RunState is the mutable context of one run. It is owned by the runner's
// goroutine and threaded through every step.
type RunState struct {
	Ledger *scoring.Ledger

	// Counted flags are set once the matching count was read from the service
	InitialCount   int
	FinalCount     int
	InitialCounted bool
	FinalCounted   bool

	ids map[Input]int64
}

// NewRunState creates an empty run state scoring into ledger
func NewRunState(ledger *scoring.Ledger) *RunState {
	return &RunState{
		Ledger: ledger,
		ids:    make(map[Input]int64),
	}
}

// Set captures id for in. Zero ids are treated as absent.
func (s *RunState) Set(in Input, id int64) {
	if id == 0 {
		delete(s.ids, in)
		return
	}
	s.ids[in] = id
}

// ID returns the captured id for in
func (s *RunState) ID(in Input) (int64, bool) {
	id, ok := s.ids[in]
	return id, ok
}

// Has reports whether an id was captured for in
func (s *RunState) Has(in Input) bool {
	_, ok := s.ids[in]
	return ok
}

// Missing returns the inputs of required that have not been captured
func (s *RunState) Missing(required []Input) []Input {
	var missing []Input
	for _, in := range required {
		if !s.Has(in) {
			missing = append(missing, in)
		}
	}
	return missing
}
