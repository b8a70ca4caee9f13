package models

// StepResult represents the outcome of one pipeline step
type StepResult struct {
	Name      string  `json:"name"`
	Index     int     `json:"index"`
	MaxPoints float64 `json:"max_points"`
	Awarded   float64 `json:"awarded"`

	Passed     bool   `json:"passed"`
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skip_reason,omitempty"`

	Checks []CheckResult `json:"checks"`
	Notes  []string      `json:"notes,omitempty"`
}

// Award is a single contribution to the score
type Award struct {
	Step   string  `json:"step"`
	Points float64 `json:"points"`
	Reason string  `json:"reason"`
}
