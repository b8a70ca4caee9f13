package pipeline

import "github.com/moamenhredeen/relcheck/internal/models"

// EventType represents the type of pipeline event
type EventType int

const (
	// EventStepStarting indicates a step is about to run
	EventStepStarting EventType = iota
	// EventStepSkipped indicates a step did not run
	EventStepSkipped
	// EventCheckCompleted indicates an HTTP check finished
	EventCheckCompleted
	// EventPointsAwarded indicates points were added to the score
	EventPointsAwarded
	// EventNote carries an informational, warning or error message of a step
	EventNote
	// EventStepFinished indicates a step has completed
	EventStepFinished
)

// NoteLevel is the severity of a note
type NoteLevel int

const (
	NoteInfo NoteLevel = iota
	NoteWarn
	NoteError
)

// Event represents an event during a run
type Event struct {
	Type      EventType
	Step      string
	Index     int     // current step index (0-based)
	Total     int     // total number of steps
	MaxPoints float64 // points the step can award

	Check  *models.CheckResult // EventCheckCompleted
	Award  *models.Award       // EventPointsAwarded
	Result *models.StepResult  // EventStepSkipped, EventStepFinished

	Level   NoteLevel // EventNote
	Message string    // EventNote
}

// OnEvent is a callback function for pipeline events
type OnEvent func(event Event)
