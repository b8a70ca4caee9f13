/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/moamenhredeen/relcheck/internal/models"
	"github.com/moamenhredeen/relcheck/internal/pipeline"
	"github.com/moamenhredeen/relcheck/internal/scoring"
	"github.com/moamenhredeen/relcheck/internal/tester"
)

var (
	// Color helpers
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	white  = color.New(color.FgWhite, color.Bold).SprintFunc()

	isTTY = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
)

const rule = "============================================================"

// display renders pipeline events as console report lines
type display struct {
	w       io.Writer
	verbose bool
	tty     bool
	s       *spinner.Spinner
}

func newDisplay(w io.Writer, verbose bool) *display {
	return &display{w: w, verbose: verbose, tty: isTTY && w == os.Stdout}
}

func (d *display) stopSpinner() {
	if d.s != nil {
		d.s.Stop()
		d.s = nil
	}
}

func (d *display) onEvent(event pipeline.Event) {
	switch event.Type {
	case pipeline.EventStepStarting:
		fmt.Fprintf(d.w, "\n%s [%d/%d] %s (%s points)\n",
			white("[TEST]"), event.Index+1, event.Total, event.Step, formatPoints(event.MaxPoints))
		if d.tty {
			d.s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(d.w))
			d.s.Suffix = " " + event.Step + "..."
			d.s.Start()
		}

	case pipeline.EventStepSkipped:
		d.stopSpinner()
		fmt.Fprintf(d.w, "\n%s [%d/%d] %s: %s\n",
			yellow("[SKIP]"), event.Index+1, event.Total, event.Step, event.Result.SkipReason)

	case pipeline.EventCheckCompleted:
		d.stopSpinner()
		printCheck(d.w, *event.Check, d.verbose)

	case pipeline.EventPointsAwarded:
		d.stopSpinner()
		fmt.Fprintf(d.w, "%s +%s points: %s\n", green("[+]"), formatPoints(event.Award.Points), event.Award.Reason)

	case pipeline.EventNote:
		d.stopSpinner()
		switch event.Level {
		case pipeline.NoteWarn:
			fmt.Fprintf(d.w, "%s %s\n", yellow("[WARN]"), event.Message)
		case pipeline.NoteError:
			fmt.Fprintf(d.w, "%s %s\n", red("[ERROR]"), event.Message)
		default:
			fmt.Fprintf(d.w, "%s %s\n", cyan("[INFO]"), event.Message)
		}

	case pipeline.EventStepFinished:
		d.stopSpinner()
		if d.verbose {
			fmt.Fprintf(d.w, "    step score: %s / %s\n",
				formatPoints(event.Result.Awarded), formatPoints(event.Result.MaxPoints))
		}
	}
}

func printCheck(w io.Writer, c models.CheckResult, verbose bool) {
	if c.Passed {
		fmt.Fprintf(w, "%s %s - Status: %d\n", green("[OK]"), c.Description, c.StatusCode)
	} else {
		switch c.Kind {
		case models.KindTransport:
			fmt.Fprintf(w, "%s %s - Connection error\n", red("[ERROR]"), c.Description)
		default:
			fmt.Fprintf(w, "%s %s - Status: %d - Expected: %v\n", red("[ERROR]"), c.Description, c.StatusCode, c.Expected)
		}
		if c.Error != "" {
			fmt.Fprintf(w, "    %s\n", red(c.Error))
		}
	}
	if verbose {
		fmt.Fprintf(w, "    %s %s (%v)\n", cyan("→"), c.Curl, c.Duration.Round(time.Millisecond))
	}
}

func printHeader(w io.Writer, title, server, commit string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, white(title))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Server: %s\n", server)
	if commit != "" {
		fmt.Fprintf(w, "Last commit: %s\n", commit)
	}
}

// printRules lists the response fields each relation rule accepts
func printRules(w io.Writer, v *tester.Validator) {
	for _, rule := range []string{tester.RuleOwner, tester.RuleCategory} {
		fmt.Fprintf(w, "Relation %s: %s\n", rule, strings.Join(v.Fields(rule), ", "))
	}
}

func printResults(w io.Writer, summary models.RunSummary) {
	band := scoring.BandFor(summary.Grade)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, white("FINAL RESULT"))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Points: %s / %s\n", formatPoints(summary.Score), formatPoints(summary.MaxScore))
	fmt.Fprintf(w, "Grade:  %.1f / 10\n", summary.Grade)
	fmt.Fprintf(w, "Checks: %d passed, %d failed", summary.PassedChecks, summary.FailedChecks)
	if summary.SkippedSteps > 0 {
		fmt.Fprintf(w, ", %d steps skipped", summary.SkippedSteps)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Products: %s before, %s after\n",
		countText(summary.InitialCount, summary.InitialCounted), countText(summary.FinalCount, summary.FinalCounted))
	fmt.Fprintln(w)
	fmt.Fprintln(w, bandColor(band)(band.Message()))

	if summary.Interrupted {
		fmt.Fprintln(w, yellow("Run interrupted; remaining steps were skipped."))
	}

	if routes := exercisedRoutes(summary); len(routes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, white("Evaluated endpoints:"))
		for _, r := range routes {
			fmt.Fprintf(w, "  %-7s %-38s %s\n", r.Method, r.Path, r.Purpose)
		}
	}
}

// exercisedRoutes lists, in table order, the routes the run sent a request to
func exercisedRoutes(summary models.RunSummary) []models.Route {
	checks := summary.Checks()
	var routes []models.Route
	for _, r := range tester.Routes {
		for _, c := range checks {
			if c.URL == "" {
				continue
			}
			path := strings.TrimPrefix(c.URL, summary.BaseURL)
			if i := strings.IndexByte(path, '?'); i >= 0 {
				path = path[:i]
			}
			if r.Matches(c.Method, path) {
				routes = append(routes, r)
				break
			}
		}
	}
	return routes
}

func bandColor(b scoring.Band) func(a ...interface{}) string {
	switch b {
	case scoring.BandExcellent:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	case scoring.BandGood:
		return cyan
	case scoring.BandRegular:
		return yellow
	default:
		return red
	}
}

// countText renders a product count, or "?" when it was never read
func countText(n int, counted bool) string {
	if !counted {
		return "?"
	}
	return strconv.Itoa(n)
}

// formatPoints renders points without a trailing ".0"
func formatPoints(p float64) string {
	s := fmt.Sprintf("%.1f", p)
	return strings.TrimSuffix(s, ".0")
}
