package dataset

import (
	"math"
	"sort"
)

// Location codes of sections taught online; everything else counts as
// face-to-face. The inner spacing is part of the code as the report prints
// it.
const (
	locAsync = "ASYN  T"
	locSync  = "SYNC  T"
)

// Summary captures the headline statistics of a parsed report.
type Summary struct {
	TotalSections int     `json:"total_sections"`
	AvgEnrollment float64 `json:"avg_enrollment"`
	TotalCHP      float64 `json:"total_chp"`
	AvgFillRate   float64 `json:"avg_fill_rate"`
	AvgWaitlist   float64 `json:"avg_waitlist"`
	PercentF2F    float64 `json:"percent_f2f"`
}

// Summarize computes the headline statistics. Missing cells are excluded
// from every average and sum.
func Summarize(d *Dataset) Summary {
	distinct := make(map[string]struct{})
	var enrolledSum, ratioSum, wlistSum, chpSum float64
	var enrolledN, ratioN, wlistN int
	for _, r := range d.records {
		if r.CRN != "" {
			distinct[r.CRN] = struct{}{}
		}
		if !IsMissing(r.Enrolled) {
			enrolledSum += r.Enrolled
			enrolledN++
		}
		if !IsMissing(r.Ratio) {
			ratioSum += r.Ratio
			ratioN++
		}
		if !IsMissing(r.WList) {
			wlistSum += r.WList
			wlistN++
		}
		if !IsMissing(r.CHP) {
			chpSum += r.CHP
		}
	}
	split := SplitF2F(d)
	// Averages over an empty dataset report zero rather than NaN so the
	// summary stays JSON-encodable.
	return Summary{
		TotalSections: len(distinct),
		AvgEnrollment: round2(orZero(mean(enrolledSum, enrolledN))),
		TotalCHP:      chpSum,
		AvgFillRate:   round2(orZero(mean(ratioSum, ratioN))),
		AvgWaitlist:   round2(orZero(mean(wlistSum, wlistN))),
		PercentF2F:    round2(orZero(split.PercentF2F())),
	}
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// CHPSplit is credit-hour production broken down by delivery mode.
type CHPSplit struct {
	F2F    float64 `json:"f2f"`
	Online float64 `json:"online"`
}

// PercentF2F is the face-to-face share of total credit-hour production.
func (s CHPSplit) PercentF2F() float64 {
	total := s.F2F + s.Online
	if total == 0 {
		return math.NaN()
	}
	return s.F2F / total
}

// SplitF2F sums credit-hour production for online sections (asynchronous
// and synchronous location codes) against everything else.
func SplitF2F(d *Dataset) CHPSplit {
	var split CHPSplit
	for _, r := range d.records {
		if IsMissing(r.CHP) {
			continue
		}
		if r.Loc == locAsync || r.Loc == locSync {
			split.Online += r.CHP
		} else {
			split.F2F += r.CHP
		}
	}
	return split
}

// EnrollmentByInstructor sums enrollment per instructor, largest first.
func EnrollmentByInstructor(d *Dataset) []GroupRow {
	return sortedGroups(d, "Instructor", "Enrolled", Sum)
}

// CreditsByInstructor sums credit hours per instructor, largest first.
func CreditsByInstructor(d *Dataset) []GroupRow {
	return sortedGroups(d, "Instructor", "Credit", Sum)
}

// MeanEnrollmentByInstructor averages section enrollment per instructor,
// largest first, rounded to two decimals. Instructors whose every section
// lacks an enrollment count are dropped rather than reported as NaN.
func MeanEnrollmentByInstructor(d *Dataset) []GroupRow {
	rows := sortedGroups(d, "Instructor", "Enrolled", Mean)
	kept := rows[:0]
	for _, row := range rows {
		if math.IsNaN(row.Value) {
			continue
		}
		row.Value = round2(row.Value)
		kept = append(kept, row)
	}
	return kept
}

// CHPByCourse sums credit-hour production per course key, largest first.
func CHPByCourse(d *Dataset) []GroupRow {
	return sortedGroups(d, "Course", "CHP", Sum)
}

// HighFillSections returns sections at or above the given fill ratio.
func HighFillSections(d *Dataset, ratio float64) *Dataset {
	return d.Filter(func(r EnrollmentRecord) bool { return r.Ratio >= ratio })
}

// LowFillSections returns sections at or below the given fill ratio.
func LowFillSections(d *Dataset, ratio float64) *Dataset {
	return d.Filter(func(r EnrollmentRecord) bool { return r.Ratio <= ratio })
}

// UnderEnrolledSections returns sections with enrollment below n.
func UnderEnrolledSections(d *Dataset, n float64) *Dataset {
	return d.Filter(func(r EnrollmentRecord) bool { return r.Enrolled < n })
}

// WaitlistedSections returns sections with at least one student waiting.
func WaitlistedSections(d *Dataset) *Dataset {
	return d.Filter(func(r EnrollmentRecord) bool { return r.WList > 0 })
}

func sortedGroups(d *Dataset, keyCol, valCol string, agg Aggregate) []GroupRow {
	rows, err := d.GroupBy(keyCol, valCol, agg)
	if err != nil {
		// Both columns are fixed members of the schema; an error here is a
		// programming mistake, not a data problem.
		panic(err)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	return rows
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}
