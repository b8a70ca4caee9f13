package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/moamenhredeen/relcheck/internal/models"
)

// Format represents the output format type
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ExportRunSummary exports run results to the specified format
func ExportRunSummary(summary models.RunSummary, format Format, filePath string) error {
	if format == FormatXLSX {
		if filePath == "" {
			return fmt.Errorf("xlsx output requires an output file")
		}
		return exportRunXLSX(summary, filePath)
	}

	w, closer, err := getWriter(filePath)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	return WriteRunSummary(w, summary, format)
}

// WriteRunSummary writes run results to w in a text format
func WriteRunSummary(w io.Writer, summary models.RunSummary, format Format) error {
	switch format {
	case FormatJSON:
		return exportRunJSON(w, summary)
	case FormatCSV:
		return exportRunCSV(w, summary)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// getWriter returns an io.Writer for output (stdout or file)
func getWriter(filePath string) (io.Writer, io.Closer, error) {
	if filePath == "" {
		return os.Stdout, nil, nil
	}

	f, err := os.Create(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f, nil
}

// exportRunJSON exports run results as JSON
func exportRunJSON(w io.Writer, summary models.RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

var checkHeader = []string{
	"step", "description", "method", "url", "expected", "status_code",
	"passed", "kind", "duration_ms", "error", "curl",
}

// checkRow renders one check as a table row
func checkRow(step string, c models.CheckResult) []string {
	return []string{
		step,
		c.Description,
		c.Method,
		c.URL,
		formatExpected(c.Expected),
		strconv.Itoa(c.StatusCode),
		strconv.FormatBool(c.Passed),
		string(c.Kind),
		fmt.Sprintf("%.2f", float64(c.Duration.Microseconds())/1000),
		c.Error,
		c.Curl,
	}
}

// exportRunCSV exports run results as CSV, one row per check
func exportRunCSV(w io.Writer, summary models.RunSummary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(checkHeader); err != nil {
		return err
	}
	for _, step := range summary.Steps {
		for _, c := range step.Checks {
			if err := cw.Write(checkRow(step.Name, c)); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatExpected(codes []int) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, "|")
}

// ParseFormat parses a string into a Format, returning error if invalid
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("invalid format '%s': must be 'json', 'csv' or 'xlsx'", s)
	}
}
