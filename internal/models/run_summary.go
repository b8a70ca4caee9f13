package models

import "time"

// RunSummary represents the overall result of one pipeline run
type RunSummary struct {
	BaseURL   string        `json:"base_url"`
	Commit    string        `json:"commit,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`

	// Score
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Grade    float64 `json:"grade"`
	Band     string  `json:"band"`

	// Product counts captured by the setup and sequential steps
	InitialCount   int  `json:"initial_count"`
	FinalCount     int  `json:"final_count"`
	InitialCounted bool `json:"initial_counted"`
	FinalCounted   bool `json:"final_counted"`

	Interrupted bool `json:"interrupted"`

	// Aggregates
	TotalChecks  int `json:"total_checks"`
	PassedChecks int `json:"passed_checks"`
	FailedChecks int `json:"failed_checks"`
	SkippedSteps int `json:"skipped_steps"`

	Steps  []StepResult `json:"steps"`
	Awards []Award      `json:"awards"`
}

// AddStep adds a step result to the summary and updates aggregates
func (s *RunSummary) AddStep(step StepResult) {
	s.Steps = append(s.Steps, step)
	if step.Skipped {
		s.SkippedSteps++
	}
	for _, c := range step.Checks {
		s.TotalChecks++
		if c.Passed {
			s.PassedChecks++
		} else {
			s.FailedChecks++
		}
	}
}

// Checks returns every check of the run in execution order
func (s *RunSummary) Checks() []CheckResult {
	var checks []CheckResult
	for _, step := range s.Steps {
		checks = append(checks, step.Checks...)
	}
	return checks
}
