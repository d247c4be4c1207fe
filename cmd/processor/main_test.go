package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsrcli/internal/config"
	"gsrcli/internal/report"
)

var fieldWidths = []int{5, 5, 6, 4, 2, 4, 2, 16, 7, 5, 5, 5, 5, 8, 12, 8, 5, 5, 12, 19}

func padLine(values []string) string {
	var b strings.Builder
	for i, v := range values {
		b.WriteString(v)
		b.WriteString(strings.Repeat(" ", fieldWidths[i]-len(v)))
	}
	return b.String()
}

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	lines := []string{
		"",
		"Report Run",
		"",
		"",
		"SWRCGSR MSU Denver Class Schedule Report 05-Feb-2025, 08:00 AM",
		"",
		"Term: 202530 Spring 2025",
		padLine([]string{"CHE", "1800", "40392", "001", "A", "M", "L", "GENERAL CHEM",
			"4.000", "24", "18", "5", "0", "MWF", "0900-0950AM ", "SI 1086",
			"0", "24", "01/21-05/17", "Wright, Dana"}),
		"** TOTAL SECTIONS 1",
		"** END OF REPORT **",
	}
	path := filepath.Join(dir, "SWRCGSR_raw.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestRunWritesBothOutputs(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	out := filepath.Join(dir, "out")

	cfg := config.Default()
	err := run(in, "CHE", out, false, "both", false, cfg, slog.Default())
	require.NoError(t, err)

	// named from the run metadata: report name, term, date
	assert.FileExists(t, filepath.Join(out, "SWRCGSR_202530_20250205.csv"))
	assert.FileExists(t, filepath.Join(out, "SWRCGSR_202530_20250205.xlsx"))
}

func TestRunCSVOnly(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	out := filepath.Join(dir, "out")

	require.NoError(t, run(in, "CHE", out, false, "csv", false, config.Default(), slog.Default()))

	assert.FileExists(t, filepath.Join(out, "SWRCGSR_202530_20250205.csv"))
	assert.NoFileExists(t, filepath.Join(out, "SWRCGSR_202530_20250205.xlsx"))
}

func TestRunWritesGroupTables(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	out := filepath.Join(dir, "out")

	require.NoError(t, run(in, "CHE", out, false, "csv", true, config.Default(), slog.Default()))

	byInstructor := filepath.Join(out, "SWRCGSR_202530_20250205_by_instructor.csv")
	require.FileExists(t, byInstructor)
	raw, err := os.ReadFile(byInstructor)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Wright, Dana",18`)

	byCourse := filepath.Join(out, "SWRCGSR_202530_20250205_chp_by_course.csv")
	require.FileExists(t, byCourse)
	raw, err = os.ReadFile(byCourse)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "CHE1800,72")
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)

	err := run(in, "CHE", dir, false, "pdf", false, config.Default(), slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown -format")
}

func TestRunRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	err := run(path, "CHE", dir, false, "csv", false, config.Default(), slog.Default())
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
}

func TestOutputNameFallback(t *testing.T) {
	res := &report.Result{}
	assert.Equal(t, "weekly.csv", outputName(res, "/data/weekly.txt", "csv"))

	res.Metadata = report.Metadata{
		ReportName: "SWRCGSR",
		TermCode:   "202530",
		Date:       time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "SWRCGSR_202530_20250205.csv", outputName(res, "/data/weekly.txt", "csv"))
}
