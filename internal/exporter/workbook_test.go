package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gsrcli/internal/dataset"
)

func TestWorkbookWriteDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewWorkbookWriter(nil)

	require.NoError(t, w.WriteDataset(path, testDataset(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Contains(t, f.GetSheetList(), worksheetName)

	// header and spacer rows
	got, err := f.GetCellValue(worksheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Subject", got)
	got, err = f.GetCellValue(worksheetName, "T1")
	require.NoError(t, err)
	assert.Equal(t, "Instructor", got)
	got, err = f.GetCellValue(worksheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "---", got)

	// data starts at row 3
	got, err = f.GetCellValue(worksheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "CHE", got)
	got, err = f.GetCellValue(worksheetName, "K3")
	require.NoError(t, err)
	assert.Equal(t, "18", got)

	// the failed coercion leaves its cell empty
	got, err = f.GetCellValue(worksheetName, "K4")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	width, err := f.GetColWidth(worksheetName, "H")
	require.NoError(t, err)
	assert.InDelta(t, 13.2, width, 0.2)
}

func TestWorkbookEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	w := NewWorkbookWriter(nil)

	require.NoError(t, w.WriteDataset(path, dataset.New(nil)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue(worksheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Subject", got)
	got, err = f.GetCellValue(worksheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
