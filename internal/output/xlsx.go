package output

import (
	"fmt"

	"github.com/moamenhredeen/relcheck/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet   = "Results"
	failedBgColor  = "FF5900"
	skippedBgColor = "FFEB9C"
	columnWidth    = 18
)

// exportRunXLSX writes run results to an Excel workbook: one row per check
// followed by a summary block
func exportRunXLSX(summary models.RunSummary, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	failedStyle, err := fillStyle(f, failedBgColor)
	if err != nil {
		return err
	}
	skippedStyle, err := fillStyle(f, skippedBgColor)
	if err != nil {
		return err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(checkHeader))
	if err := f.SetColWidth(resultsSheet, "A", lastCol, columnWidth); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := writeRow(f, 1, checkHeader); err != nil {
		return err
	}

	row := 2
	for _, step := range summary.Steps {
		if step.Skipped {
			if err := writeRow(f, row, []string{step.Name, "skipped: " + step.SkipReason}); err != nil {
				return err
			}
			if err := styleRow(f, row, len(checkHeader), skippedStyle); err != nil {
				return err
			}
			row++
			continue
		}
		for _, c := range step.Checks {
			if err := writeRow(f, row, checkRow(step.Name, c)); err != nil {
				return err
			}
			if !c.Passed {
				if err := styleRow(f, row, len(checkHeader), failedStyle); err != nil {
					return err
				}
			}
			row++
		}
	}

	if err := writeSummary(f, row+1, summary); err != nil {
		return err
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func fillStyle(f *excelize.File, color string) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	return style, nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(resultsSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func styleRow(f *excelize.File, row, cols, style int) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	return f.SetCellStyle(resultsSheet, first, last, style)
}

func writeSummary(f *excelize.File, startRow int, summary models.RunSummary) error {
	lines := [][]any{
		{"Summary"},
		{"Base URL", summary.BaseURL},
		{"Score", summary.Score, summary.MaxScore},
		{"Grade", summary.Grade, summary.Band},
		{"Initial products", summary.InitialCount},
		{"Final products", summary.FinalCount},
		{"Checks", summary.TotalChecks, summary.PassedChecks, summary.FailedChecks},
		{"Interrupted", summary.Interrupted},
	}
	for i, line := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, startRow+i)
		if err := f.SetSheetRow(resultsSheet, cell, &line); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}
