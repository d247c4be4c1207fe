package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analyticsRows mixes campus and online sections so the face-to-face split
// has something to divide.
func analyticsRows() [][]string {
	return [][]string{
		{"CHE", "1800", "40392", "001", "A", "M", "L", "GENERAL CHEM", "4.000", "24", "23", "5", "2", "MWF", "09:00-09:50", "SI 1086", "0", "24", "01/21-05/17", "Wright, Dana"},
		{"CHE", "1800", "40393", "002", "A", "M", "L", "GENERAL CHEM", "4.000", "24", "20", "5", "0", "TR", "11:00-12:15", "SI 1086", "0", "24", "01/21-05/17", "Wright, Dana"},
		{"CHE", "1801", "40395", "001", "A", "M", "B", "GEN CHEM LAB", "1.000", "18", "4", "0", "0", "W", "13:00-15:50", "SI 2010", "0", "18", "01/21-05/17", "Okafor, Sam"},
		{"CHE", "3100", "40420", "001", "A", "I", "L", "ORGANIC CHEM I", "3.000", "30", "10", "0", "0", "", "TBA", "ASYN  T", "0", "30", "01/21-05/17", "Okafor, Sam"},
		{"CHE", "3150", "40421", "001", "A", "I", "L", "ORGANIC CHEM II", "3.000", "30", "12", "0", "0", "", "TBA", "SYNC  T", "0", "30", "01/21-05/17", "Okafor, Sam"},
	}
}

func analyticsDataset(t *testing.T) *Dataset {
	t.Helper()
	d, _, err := FromRows(analyticsRows())
	require.NoError(t, err)
	return d
}

func TestSummarize(t *testing.T) {
	d := analyticsDataset(t)
	s := Summarize(d)

	assert.Equal(t, 5, s.TotalSections)
	assert.InDelta(t, 13.8, s.AvgEnrollment, 1e-9)
	// CHP: 92 + 80 + 4 + 30 + 36 = 242
	assert.InDelta(t, 242.0, s.TotalCHP, 1e-9)
	assert.InDelta(t, 0.4, s.AvgWaitlist, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	d := New(nil)
	s := Summarize(d)

	assert.Zero(t, s.TotalSections)
	assert.Zero(t, s.AvgEnrollment)
	assert.Zero(t, s.AvgFillRate)
	assert.Zero(t, s.PercentF2F)
}

func TestSplitF2F(t *testing.T) {
	split := SplitF2F(analyticsDataset(t))

	assert.InDelta(t, 176.0, split.F2F, 1e-9)
	assert.InDelta(t, 66.0, split.Online, 1e-9)
	assert.InDelta(t, 176.0/242.0, split.PercentF2F(), 1e-9)
}

func TestInstructorTables(t *testing.T) {
	d := analyticsDataset(t)

	byEnrollment := EnrollmentByInstructor(d)
	require.Len(t, byEnrollment, 2)
	assert.Equal(t, GroupRow{Key: "Wright, Dana", Value: 43}, byEnrollment[0])
	assert.Equal(t, GroupRow{Key: "Okafor, Sam", Value: 26}, byEnrollment[1])

	byMean := MeanEnrollmentByInstructor(d)
	require.Len(t, byMean, 2)
	assert.InDelta(t, 21.5, byMean[0].Value, 1e-9)

	byCHP := CHPByCourse(d)
	require.Len(t, byCHP, 4)
	assert.Equal(t, "CHE1800", byCHP[0].Key)
	assert.InDelta(t, 172.0, byCHP[0].Value, 1e-9)
}

func TestSectionFilters(t *testing.T) {
	d := analyticsDataset(t)

	high := HighFillSections(d, 0.8)
	require.Equal(t, 2, high.Len())

	low := LowFillSections(d, 0.5)
	require.Equal(t, 3, low.Len())

	under := UnderEnrolledSections(d, 10)
	require.Equal(t, 1, under.Len())
	assert.Equal(t, "40395", under.At(0).CRN)

	waitlisted := WaitlistedSections(d)
	require.Equal(t, 1, waitlisted.Len())
	assert.Equal(t, "40392", waitlisted.At(0).CRN)
}
