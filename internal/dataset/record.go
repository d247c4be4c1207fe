package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EnrollmentRecord is one section of the report: the twenty base columns of
// the SWRCGSR layout plus the three derived columns. Numeric columns that
// failed coercion hold the missing-value sentinel (see IsMissing).
type EnrollmentRecord struct {
	Subject      string
	CourseNumber string // the report's "Number" column
	CRN          string
	Section      string
	Status       string // the report's one-letter "S" column
	Campus       string
	SchedType    string // the report's one-letter "T" column
	Title        string
	Credit       float64
	Max          float64
	Enrolled     float64
	WCap         float64
	WList        float64
	Days         string
	Time         string
	Loc          string
	RCap         string
	Full         string
	BeginEnd     string
	Instructor   string

	// Derived at dataset construction.
	CHP    float64 // Credit x Enrolled
	Course string  // Subject + Number
	Ratio  float64 // Enrolled / Max, as a fraction in [0,1]
}

// Column header names, in report order. The derived columns always follow
// the base columns so exports never reorder between dialect variants.
var (
	baseColumns = []string{
		"Subject", "Number", "CRN", "Section", "S", "Campus", "T", "Title",
		"Credit", "Max", "Enrolled", "WCap", "WList", "Days", "Time", "Loc",
		"Rcap", "Full", "Begin/End", "Instructor",
	}
	derivedColumns = []string{"CHP", "Course", "Ratio"}
)

// BaseColumns returns the twenty column names of the raw report layout.
func BaseColumns() []string {
	return append([]string(nil), baseColumns...)
}

// Columns returns all column names, base then derived.
func Columns() []string {
	return append(BaseColumns(), derivedColumns...)
}

// IsMissing reports whether a numeric cell holds the missing-value
// sentinel.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// missing is the sentinel stored for cells that failed numeric coercion.
func missing() float64 { return math.NaN() }

// Number returns the numeric value of a column, or false for columns that
// are not numeric.
func (r EnrollmentRecord) Number(column string) (float64, bool) {
	switch column {
	case "Credit":
		return r.Credit, true
	case "Max":
		return r.Max, true
	case "Enrolled":
		return r.Enrolled, true
	case "WCap":
		return r.WCap, true
	case "WList":
		return r.WList, true
	case "CHP":
		return r.CHP, true
	case "Ratio":
		return r.Ratio, true
	default:
		return 0, false
	}
}

// Value returns the column's value formatted for tabular output. Missing
// numeric cells format as the empty string.
func (r EnrollmentRecord) Value(column string) (string, error) {
	if v, ok := r.Number(column); ok {
		return formatNumber(v), nil
	}
	switch column {
	case "Subject":
		return r.Subject, nil
	case "Number":
		return r.CourseNumber, nil
	case "CRN":
		return r.CRN, nil
	case "Section":
		return r.Section, nil
	case "S":
		return r.Status, nil
	case "Campus":
		return r.Campus, nil
	case "T":
		return r.SchedType, nil
	case "Title":
		return r.Title, nil
	case "Days":
		return r.Days, nil
	case "Time":
		return r.Time, nil
	case "Loc":
		return r.Loc, nil
	case "Rcap":
		return r.RCap, nil
	case "Full":
		return r.Full, nil
	case "Begin/End":
		return r.BeginEnd, nil
	case "Instructor":
		return r.Instructor, nil
	case "Course":
		return r.Course, nil
	default:
		return "", fmt.Errorf("unknown column %q", column)
	}
}

func formatNumber(v float64) string {
	if IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// coerceNumber parses a report cell into a float64. Blank cells and
// unparsable values both degrade to the missing sentinel; only the latter
// counts as a coercion failure.
func coerceNumber(s string) (v float64, coerced bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return missing(), false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return missing(), true
	}
	return f, false
}
