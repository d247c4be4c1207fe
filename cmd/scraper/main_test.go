package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsrcli/internal/config"
	"gsrcli/internal/dataset"
)

func TestSplitTerms(t *testing.T) {
	assert.Equal(t, []string{"202530"}, splitTerms("202530"))
	assert.Equal(t, []string{"202530", "202540"}, splitTerms("202530, 202540"))
	assert.Equal(t, []string{"202530"}, splitTerms(",202530,,"))
	assert.Nil(t, splitTerms(""))
}

func TestRenameByMetadata(t *testing.T) {
	dir := t.TempDir()
	lines := []string{
		"",
		"Report Run",
		"",
		"",
		"SWRCGSR MSU Denver Class Schedule Report 05-Feb-2025, 08:00 AM",
		"",
		"Term: 202530 Spring 2025",
		"** TOTAL SECTIONS 0",
		"** END OF REPORT **",
	}
	raw := filepath.Join(dir, "GJIREVO.csv")
	require.NoError(t, os.WriteFile(raw, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	dest, err := renameByMetadata(raw, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "SWRCGSR_202530_20250205.csv"), dest)
	assert.NoFileExists(t, raw)
	assert.FileExists(t, dest)
}

func TestWriteCombined(t *testing.T) {
	paths := config.PathsUnder(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	spring := dataset.New([]dataset.EnrollmentRecord{
		{Subject: "CHE", CourseNumber: "1800", CRN: "40392", Credit: 4, Max: 24, Enrolled: 18},
	})
	fall := dataset.New([]dataset.EnrollmentRecord{
		{Subject: "CHE", CourseNumber: "1800", CRN: "41115", Credit: 4, Max: 24, Enrolled: 21},
		{Subject: "MTH", CourseNumber: "1110", CRN: "41200", Credit: 3, Max: 30, Enrolled: 12},
	})

	require.NoError(t, writeCombined(paths, []*dataset.Dataset{spring, fall}))

	raw, err := os.ReadFile(paths.GetReportPath("combined_tidy.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(raw, []byte{0xEF, 0xBB, 0xBF}))

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	// one header plus every term's rows, stacked in retrieval order
	require.Len(t, rows, 4)
	assert.Equal(t, dataset.Columns(), rows[0])
	assert.Equal(t, "40392", rows[1][2])
	assert.Equal(t, "41115", rows[2][2])
	assert.Equal(t, "41200", rows[3][2])
}
