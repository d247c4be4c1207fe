package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleValues returns the field values of a typical chemistry lecture row.
// Callers copy and mutate it to build variants.
func sampleValues() []string {
	return []string{
		"CHE", "1800", "40392", "001", "A", "M", "L", "GENERAL CHEM",
		"4.000", "24", "18", "5", "0", "MWF", "0900-0950AM ", "SI 1086",
		"0", "24", "01/21-05/17", "Wright, Dana",
	}
}

// testLine renders values into one fixed-width report line, padding each
// field to its declared width.
func testLine(t *testing.T, values []string) string {
	t.Helper()
	require.Len(t, values, len(Fields))

	var b strings.Builder
	for i, f := range Fields {
		require.LessOrEqual(t, len(values[i]), f.Width, "field %s overflows", f.Name)
		b.WriteString(values[i])
		b.WriteString(strings.Repeat(" ", f.Width-len(values[i])))
	}
	return b.String()
}

// buildReport assembles a minimal but structurally faithful SWRCGSR file:
// seven banner lines with the run date on line 5 and the term on line 7,
// then the data body, then the two trailer lines Banner appends.
func buildReport(dataLines []string) string {
	lines := []string{
		"",
		"PAGE 1",
		"",
		"",
		"SWRCGSR MSU Denver Class Schedule Report 05-Feb-2025, 08:00 AM",
		"",
		"Term: 202530 Spring 2025",
	}
	lines = append(lines, dataLines...)
	lines = append(lines, "** TOTAL SECTIONS 3", "** END OF REPORT **")
	return strings.Join(lines, "\n") + "\n"
}
