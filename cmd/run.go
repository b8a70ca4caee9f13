/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/moamenhredeen/relcheck/internal/history"
	"github.com/moamenhredeen/relcheck/internal/models"
	"github.com/moamenhredeen/relcheck/internal/output"
	"github.com/moamenhredeen/relcheck/internal/pipeline"
	"github.com/moamenhredeen/relcheck/internal/tester"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"
)

// historyLookback is how many recorded runs are searched for the previous
// run against the same server
const historyLookback = 50

var (
	verbose      bool
	outputFormat string
	outputFile   string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scored conformance checks",
	Long: `Run the eight scored checks against the service, in order:

  1. Setup               count products, pick a user and a category
  2. Create              create a product with owner and category
  3. Fetch by id         the product carries both relations
  4. Fetch by user       the owner's product list is not empty
  5. Fetch by category   the category's product list is not empty
  6. Update              the new name is echoed back
  7. Sequential count    the product count went up
  8. Cleanup             delete the product (always runs)

The command exits 0 whatever the score; only usage and configuration
errors exit 1.

Examples:
  relcheck run --server http://localhost:8080
  relcheck run --create-fixtures -v
  relcheck run -o xlsx --output-file report.xlsx`,
	Args: cobra.NoArgs,
	RunE: runChecks,
}

func runChecks(cmd *cobra.Command, args []string) error {
	logger := loggerFromCmd(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var format output.Format
	if outputFormat != "" {
		if format, err = output.ParseFormat(outputFormat); err != nil {
			return err
		}
		if format == output.FormatXLSX && outputFile == "" {
			return fmt.Errorf("--output xlsx requires --output-file")
		}
	}

	// Report goes to stderr when the export owns stdout
	var w io.Writer = os.Stdout
	if format != "" && outputFile == "" {
		w = os.Stderr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openHistory(ctx, cfg.History, logger)
	if err != nil {
		logger.Warn("run history disabled", "error", err)
		store, closeStore = history.NewMemoryStore(cfg.History.Keep), func() {}
	}
	defer closeStore()

	t := tester.NewTester(tester.Config{Timeout: cfg.Timeout, RateLimit: cfg.Rate})
	env := pipeline.NewEnv(cfg, t)
	runner := pipeline.NewRunner(env)

	commit := gitCommit(ctx)
	printHeader(w, "PRODUCT RELATIONS CONFORMANCE RUN", cfg.Server, commit)
	if verbose {
		printRules(w, env.Validator)
	}
	logger.Debug("starting run", "server", cfg.Server, "timeout", cfg.Timeout, "rate", cfg.Rate,
		"steps", len(runner.Steps()))

	d := newDisplay(w, verbose)
	summary := runner.Run(ctx, d.onEvent)
	d.stopSpinner()
	summary.Commit = commit

	printResults(w, summary)
	compareWithPrevious(ctx, w, store, summary, logger)

	if format != "" {
		if err := output.ExportRunSummary(summary, format, outputFile); err != nil {
			logger.Error("export failed", "format", string(format), "error", err)
		} else if outputFile != "" {
			fmt.Fprintf(w, "\nResults exported to: %s\n", outputFile)
		}
	}

	return nil
}

// compareWithPrevious prints how this run relates to the last recorded one,
// then records it
func compareWithPrevious(ctx context.Context, w io.Writer, store history.Store, summary models.RunSummary, logger pslog.Logger) {
	// the run context may already be cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	recent, err := store.Recent(ctx, historyLookback)
	if err != nil {
		logger.Warn("could not read run history", "error", err)
	}

	record := history.FromSummary(summary)
	if last, ok := history.Previous(recent, record.BaseURL); ok {
		fmt.Fprintf(w, "\nPrevious run (%s): grade %.1f, products %s -> %s\n",
			last.At.Local().Format(time.DateTime), last.Grade,
			countText(last.InitialCount, last.InitialCounted), countText(last.FinalCount, last.FinalCounted))

		drift := history.BaselineDrift(append([]history.Record{record}, recent...))[0]
		if drift.Known && drift.Value != 0 {
			fmt.Fprintf(w, "%s baseline moved by %s since the last complete run\n", yellow("[WARN]"), drift)
		}
	}

	if err := store.Record(ctx, record); err != nil {
		logger.Warn("could not record run", "error", err)
		return
	}
	logger.Debug("run recorded", "grade", record.Grade)
}

// gitCommit describes the last commit of the working directory, or returns
// "" outside a repository
func gitCommit(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "git", "log", "-1", "--format=%cd - %s", "--date=iso").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.Int64("category-id", 1, "Category assigned to the test product")
	flags.Bool("create-fixtures", false, "Create the test user and category instead of reusing existing ones")
	flags.Bool("verify-category", false, "Fail setup when the service does not list --category-id")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show curl lines, durations and step scores")

	// Output flags
	flags.StringVarP(&outputFormat, "output", "o", "", "Export format: json, csv, xlsx")
	flags.StringVar(&outputFile, "output-file", "", "Write export to file (default: stdout, required for xlsx)")

	bindFlag("setup.category_id", flags.Lookup("category-id"))
	bindFlag("setup.create_fixtures", flags.Lookup("create-fixtures"))
	bindFlag("setup.verify_category", flags.Lookup("verify-category"))
}
