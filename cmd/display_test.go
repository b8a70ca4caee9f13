package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/moamenhredeen/relcheck/internal/models"
	"github.com/moamenhredeen/relcheck/internal/pipeline"
	"github.com/moamenhredeen/relcheck/internal/tester"
)

func init() {
	color.NoColor = true
}

func TestFormatPoints(t *testing.T) {
	tests := map[float64]string{1: "1", 1.5: "1.5", 0.5: "0.5", 10: "10", 9.5: "9.5"}
	for in, want := range tests {
		if got := formatPoints(in); got != want {
			t.Errorf("formatPoints(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPrintCheck(t *testing.T) {
	var buf bytes.Buffer
	printCheck(&buf, models.CheckResult{Description: "List products", StatusCode: 200, Passed: true}, false)
	printCheck(&buf, models.CheckResult{
		Description: "Update product",
		StatusCode:  500,
		Expected:    []int{200},
		Kind:        models.KindStatus,
		Error:       "internal error",
	}, false)
	printCheck(&buf, models.CheckResult{Description: "Delete product", Kind: models.KindTransport, Error: "connection refused"}, false)

	out := buf.String()
	for _, want := range []string{
		"[OK] List products - Status: 200",
		"[ERROR] Update product - Status: 500 - Expected: [200]",
		"internal error",
		"[ERROR] Delete product - Connection error",
		"connection refused",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDisplayEvents(t *testing.T) {
	var buf bytes.Buffer
	d := newDisplay(&buf, false)

	d.onEvent(pipeline.Event{Type: pipeline.EventStepStarting, Step: "Create product", Index: 1, Total: 8, MaxPoints: 2})
	d.onEvent(pipeline.Event{Type: pipeline.EventPointsAwarded, Award: &models.Award{Points: 1, Reason: "Owner relation present"}})
	d.onEvent(pipeline.Event{Type: pipeline.EventNote, Level: pipeline.NoteWarn, Message: "no category relation"})
	d.onEvent(pipeline.Event{
		Type:   pipeline.EventStepSkipped,
		Step:   "Update product",
		Index:  5,
		Total:  8,
		Result: &models.StepResult{Skipped: true, SkipReason: "missing prerequisite: product id"},
	})

	out := buf.String()
	for _, want := range []string{
		"[TEST] [2/8] Create product (2 points)",
		"[+] +1 points: Owner relation present",
		"[WARN] no category relation",
		"[SKIP] [6/8] Update product: missing prerequisite: product id",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResults(t *testing.T) {
	summary := models.RunSummary{BaseURL: "http://svc", Score: 8.5, MaxScore: 10, Grade: 8.5, InitialCounted: true, InitialCount: 2}
	summary.AddStep(models.StepResult{Checks: []models.CheckResult{
		{Method: "GET", URL: "http://svc/api/products", Passed: true},
		{Method: "GET", URL: "http://svc/api/products/42", Passed: true},
		{Method: "DELETE", URL: "http://svc/api/products/42", StatusCode: 500},
	}})

	var buf bytes.Buffer
	printResults(&buf, summary)

	out := buf.String()
	for _, want := range []string{
		"FINAL RESULT",
		"Points: 8.5 / 10",
		"Grade:  8.5 / 10",
		"Good",
		"Products: 2 before, ? after",
		"Evaluated endpoints:",
		"GET     /api/products/{id}",
		"DELETE  /api/products/{id}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"/api/categories", "PUT     /api/products/{id}", "/api/users"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output lists unexercised route %q:\n%s", unwanted, out)
		}
	}
}

func TestPrintResultsWithoutChecksOmitsEndpoints(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, models.RunSummary{MaxScore: 10})
	if strings.Contains(buf.String(), "Evaluated endpoints") {
		t.Errorf("expected no endpoint list, got:\n%s", buf.String())
	}
}

func TestPrintRules(t *testing.T) {
	var buf bytes.Buffer
	printRules(&buf, tester.NewValidator([]string{"ownerName", "user"}, []string{"category"}))

	out := buf.String()
	if !strings.Contains(out, "Relation owner: ownerName, user") || !strings.Contains(out, "Relation category: category") {
		t.Errorf("unexpected rules output:\n%s", out)
	}
}
