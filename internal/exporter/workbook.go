package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"gsrcli/internal/config"
	"gsrcli/internal/dataset"
)

const worksheetName = "Enrollment"

// columnWidths tunes the A:T layout so a full report prints without manual
// resizing.
var columnWidths = []float64{
	6.5, 7, 5.5, 6.5, 2, 6.5, 2, 13.2, 5.5, 4,
	7, 5, 5, 5.5, 12, 7, 4, 3.5, 10.5, 14,
}

// WorkbookWriter renders a dataset as a formatted .xlsx review sheet:
// frozen bold header, fixed column widths, and fill-rate highlighting on
// the enrollment and waitlist columns.
type WorkbookWriter struct {
	paths *config.Paths
}

// NewWorkbookWriter creates a new workbook writer instance.
func NewWorkbookWriter(paths *config.Paths) *WorkbookWriter {
	return &WorkbookWriter{paths: paths}
}

// WriteDataset writes d to an .xlsx file at filePath (resolved against the
// reports directory when relative).
func (w *WorkbookWriter) WriteDataset(filePath string, d *dataset.Dataset) error {
	fullPath := w.resolvePath(filePath)

	slog.Debug("writing workbook",
		slog.String("path", fullPath),
		slog.Int("records", d.Len()))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", worksheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeHeader(f); err != nil {
		return err
	}
	lastRow, err := writeBody(f, d)
	if err != nil {
		return err
	}
	if err := applyLayout(f); err != nil {
		return err
	}
	if err := applyHighlights(f, lastRow); err != nil {
		return err
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeHeader emits the bold column header plus the dashed spacer row the
// review sheets traditionally carry.
func writeHeader(f *excelize.File) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	columns := dataset.BaseColumns()
	for i, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(worksheetName, cell, name); err != nil {
			return fmt.Errorf("write header cell %s: %w", cell, err)
		}
		spacer, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(worksheetName, spacer, "---"); err != nil {
			return fmt.Errorf("write spacer cell %s: %w", spacer, err)
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	endSpacer, _ := excelize.CoordinatesToCellName(len(columns), 2)
	if err := f.SetCellStyle(worksheetName, "A1", endHeader, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetCellStyle(worksheetName, "A2", endSpacer, bold); err != nil {
		return fmt.Errorf("style spacer: %w", err)
	}
	return nil
}

// writeBody writes the data rows starting at row 3 and returns the last
// populated row number. Numeric columns land as numbers so the conditional
// formulas can compare them; identifiers stay text to preserve leading
// zeros.
func writeBody(f *excelize.File, d *dataset.Dataset) (int, error) {
	columns := dataset.BaseColumns()
	row := 2
	for _, r := range d.Records() {
		row++
		for i, c := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if v, numeric := r.Number(c); numeric {
				if dataset.IsMissing(v) {
					continue
				}
				if err := f.SetCellValue(worksheetName, cell, v); err != nil {
					return 0, fmt.Errorf("write cell %s: %w", cell, err)
				}
				continue
			}
			s, err := r.Value(c)
			if err != nil {
				return 0, fmt.Errorf("format column %s: %w", c, err)
			}
			if err := f.SetCellValue(worksheetName, cell, s); err != nil {
				return 0, fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}
	return row, nil
}

// applyLayout freezes the two header rows and sets the column widths.
func applyLayout(f *excelize.File) error {
	if err := f.SetPanes(worksheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      2,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}
	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(worksheetName, col, col, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", col, err)
		}
	}
	return nil
}

// applyHighlights colors the enrollment column (K) against capacity (J) and
// flags any waitlist (M): near-full sections dark green, healthy sections
// green, under-enrolled sections red, waitlisted sections yellow.
func applyHighlights(f *excelize.File, lastRow int) error {
	if lastRow < 3 {
		return nil
	}

	red, err := f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("red style: %w", err)
	}
	yellow, err := f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C6500"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFEB9C"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("yellow style: %w", err)
	}
	green, err := f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Color: "006100"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("green style: %w", err)
	}
	darkGreen, err := f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Color: "000000"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"008000"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("dark green style: %w", err)
	}

	enrolledRange := fmt.Sprintf("K3:K%d", lastRow)
	if err := f.SetConditionalFormat(worksheetName, enrolledRange, []excelize.ConditionalFormatOptions{
		{Type: "formula", Criteria: "$K3>0.94*$J3", Format: &darkGreen},
		{Type: "formula", Criteria: "$K3>0.8*$J3", Format: &green},
		{Type: "formula", Criteria: "$K3<10", Format: &red},
	}); err != nil {
		return fmt.Errorf("enrollment highlights: %w", err)
	}

	waitlistRange := fmt.Sprintf("M3:M%d", lastRow)
	if err := f.SetConditionalFormat(worksheetName, waitlistRange, []excelize.ConditionalFormatOptions{
		{Type: "cell", Criteria: ">", Value: "0", Format: &yellow},
	}); err != nil {
		return fmt.Errorf("waitlist highlights: %w", err)
	}
	return nil
}

func (w *WorkbookWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
