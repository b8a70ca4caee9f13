// Package pipeline runs the ordered conformance checks against the service
// and scores them.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/moamenhredeen/relcheck/internal/config"
	"github.com/moamenhredeen/relcheck/internal/generator"
	"github.com/moamenhredeen/relcheck/internal/models"
	"github.com/moamenhredeen/relcheck/internal/scoring"
	"github.com/moamenhredeen/relcheck/internal/tester"
)

// Env bundles the collaborators steps use
type Env struct {
	Config    *config.Config
	Tester    *tester.Tester
	API       *tester.API
	Validator *tester.Validator
	Generator *generator.Generator
}

// NewEnv builds the step environment for cfg
func NewEnv(cfg *config.Config, t *tester.Tester) *Env {
	return &Env{
		Config:    cfg,
		Tester:    t,
		API:       tester.NewAPI(cfg.Server),
		Validator: tester.NewValidator(cfg.Rules.OwnerFields, cfg.Rules.CategoryFields),
		Generator: generator.NewGenerator(),
	}
}

// Step is one stage of the pipeline
type Step struct {
	Name     string
	Points   float64
	Requires []Input
	// Gate steps skip every later non-Always step when they fail
	Gate bool
	// Always steps run even after a gate failure or an interrupt
	Always bool
	Run    func(ctx context.Context, sc *StepContext) bool
}

// StepContext is handed to a running step. It records checks, notes and
// awards into the step result and forwards them as events.
type StepContext struct {
	env    *Env
	state  *RunState
	result *models.StepResult
	event  Event
	emit   OnEvent
}

// Env returns the step environment
func (sc *StepContext) Env() *Env { return sc.env }

// State returns the run state
func (sc *StepContext) State() *RunState { return sc.state }

// Check executes one guarded HTTP call
func (sc *StepContext) Check(ctx context.Context, description string, fn tester.RequestFunc, expected ...int) models.CheckResult {
	r := sc.env.Tester.Execute(ctx, description, fn, expected...)
	sc.result.Checks = append(sc.result.Checks, r)
	ev := sc.event
	ev.Type = EventCheckCompleted
	ev.Check = &r
	sc.emit(ev)
	return r
}

// Award adds points to the score
func (sc *StepContext) Award(points float64, reason string) {
	a := sc.state.Ledger.Add(sc.result.Name, points, reason)
	if a.Points <= 0 {
		return
	}
	sc.result.Awarded += a.Points
	ev := sc.event
	ev.Type = EventPointsAwarded
	ev.Award = &a
	sc.emit(ev)
}

func (sc *StepContext) note(level NoteLevel, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	sc.result.Notes = append(sc.result.Notes, msg)
	ev := sc.event
	ev.Type = EventNote
	ev.Level = level
	ev.Message = msg
	sc.emit(ev)
}

// Infof records an informational note
func (sc *StepContext) Infof(format string, args ...any) { sc.note(NoteInfo, format, args...) }

// Warnf records a warning note
func (sc *StepContext) Warnf(format string, args ...any) { sc.note(NoteWarn, format, args...) }

// Errorf records an error note
func (sc *StepContext) Errorf(format string, args ...any) { sc.note(NoteError, format, args...) }

// Runner executes a list of steps in order
type Runner struct {
	env   *Env
	steps []Step
	now   func() time.Time
}

// NewRunner creates a runner for the standard pipeline
func NewRunner(env *Env) *Runner {
	return &Runner{
		env:   env,
		steps: DefaultSteps(env.Config.Weights),
		now:   time.Now,
	}
}

// NewRunnerWithSteps creates a runner for a custom list of steps
func NewRunnerWithSteps(env *Env, steps []Step) *Runner {
	return &Runner{env: env, steps: steps, now: time.Now}
}

// Steps returns the steps of the runner
func (r *Runner) Steps() []Step {
	return r.steps
}

// Run executes every step and returns the scored summary. Cancelling ctx
// skips the remaining steps except the Always ones, which run on a context
// detached from the cancellation.
func (r *Runner) Run(ctx context.Context, onEvent OnEvent) models.RunSummary {
	if onEvent == nil {
		onEvent = func(Event) {}
	}

	state := NewRunState(scoring.NewLedger(r.env.Config.MaxScore))
	summary := models.RunSummary{
		BaseURL:   r.env.API.BaseURL(),
		StartedAt: r.now(),
	}

	total := len(r.steps)
	gateFailed := false
	for i, step := range r.steps {
		result := models.StepResult{
			Name:      step.Name,
			Index:     i,
			MaxPoints: step.Points,
		}
		ev := Event{Step: step.Name, Index: i, Total: total, MaxPoints: step.Points}

		if reason := r.skipReason(ctx, step, state, gateFailed); reason != "" {
			result.Skipped = true
			result.SkipReason = reason
			ev.Type = EventStepSkipped
			ev.Result = &result
			onEvent(ev)
			summary.AddStep(result)
			continue
		}

		stepCtx := ctx
		if step.Always {
			stepCtx = context.WithoutCancel(ctx)
		}

		ev.Type = EventStepStarting
		onEvent(ev)

		sc := &StepContext{env: r.env, state: state, result: &result, event: ev, emit: onEvent}
		result.Passed = step.Run(stepCtx, sc)
		if step.Gate && !result.Passed {
			gateFailed = true
		}

		ev.Type = EventStepFinished
		ev.Result = &result
		onEvent(ev)
		summary.AddStep(result)
	}

	ledger := state.Ledger
	summary.Duration = r.now().Sub(summary.StartedAt)
	summary.Score = ledger.Total()
	summary.MaxScore = ledger.Max()
	summary.Grade = ledger.Grade()
	summary.Band = ledger.Band().String()
	summary.Awards = ledger.Awards()
	summary.InitialCount = state.InitialCount
	summary.FinalCount = state.FinalCount
	summary.InitialCounted = state.InitialCounted
	summary.FinalCounted = state.FinalCounted
	summary.Interrupted = ctx.Err() != nil
	return summary
}

func (r *Runner) skipReason(ctx context.Context, step Step, state *RunState, gateFailed bool) string {
	if !step.Always {
		if ctx.Err() != nil {
			return "interrupted"
		}
		if gateFailed {
			return "setup failed"
		}
	}
	if missing := state.Missing(step.Requires); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, in := range missing {
			names[i] = in.String()
		}
		return "missing prerequisite: " + strings.Join(names, ", ")
	}
	return ""
}
