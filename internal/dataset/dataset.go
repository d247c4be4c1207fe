package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Dataset is an immutable, insertion-ordered collection of enrollment
// records. Filtering, sorting and grouping return new values and never
// touch the receiver, so one parsed dataset can back any number of
// independent views.
type Dataset struct {
	records []EnrollmentRecord
}

// New builds a dataset from records, computing the derived CHP, Course and
// Ratio columns. The input slice is copied.
func New(records []EnrollmentRecord) *Dataset {
	rs := make([]EnrollmentRecord, len(records))
	copy(rs, records)
	for i := range rs {
		derive(&rs[i])
	}
	return &Dataset{records: rs}
}

// FromRows builds a dataset from tidied string rows in report column order.
// Credit, Max, Enrolled, WCap and WList are coerced to numbers; a cell that
// fails coercion degrades to the missing sentinel and is counted, never
// fatal. The returned int is that coercion count.
func FromRows(rows [][]string) (*Dataset, int, error) {
	records := make([]EnrollmentRecord, 0, len(rows))
	coercions := 0
	for i, row := range rows {
		if len(row) != len(baseColumns) {
			return nil, 0, fmt.Errorf("row %d has %d fields, want %d", i, len(row), len(baseColumns))
		}
		rec := EnrollmentRecord{
			Subject:      row[0],
			CourseNumber: row[1],
			CRN:          row[2],
			Section:      row[3],
			Status:       row[4],
			Campus:       row[5],
			SchedType:    row[6],
			Title:        row[7],
			Days:         row[13],
			Time:         row[14],
			Loc:          row[15],
			RCap:         row[16],
			Full:         row[17],
			BeginEnd:     row[18],
			Instructor:   row[19],
		}
		numeric := []struct {
			dst *float64
			raw string
		}{
			{&rec.Credit, row[8]},
			{&rec.Max, row[9]},
			{&rec.Enrolled, row[10]},
			{&rec.WCap, row[11]},
			{&rec.WList, row[12]},
		}
		for _, n := range numeric {
			v, coerced := coerceNumber(n.raw)
			if coerced {
				coercions++
			}
			*n.dst = v
		}
		derive(&rec)
		records = append(records, rec)
	}
	return &Dataset{records: records}, coercions, nil
}

// derive fills the computed columns. CHP and Ratio propagate the missing
// sentinel; a zero or missing Max makes the ratio missing rather than
// infinite.
func derive(r *EnrollmentRecord) {
	r.Course = r.Subject + r.CourseNumber
	r.CHP = r.Credit * r.Enrolled
	if IsMissing(r.Enrolled) || IsMissing(r.Max) || r.Max == 0 {
		r.Ratio = missing()
	} else {
		r.Ratio = r.Enrolled / r.Max
	}
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the record at index i in insertion order.
func (d *Dataset) At(i int) EnrollmentRecord { return d.records[i] }

// Records returns a copy of all records in insertion order.
func (d *Dataset) Records() []EnrollmentRecord {
	rs := make([]EnrollmentRecord, len(d.records))
	copy(rs, d.records)
	return rs
}

// Filter returns a new dataset holding the records keep accepts, in their
// original order.
func (d *Dataset) Filter(keep func(EnrollmentRecord) bool) *Dataset {
	var rs []EnrollmentRecord
	for _, r := range d.records {
		if keep(r) {
			rs = append(rs, r)
		}
	}
	return &Dataset{records: rs}
}

// SortKey orders one column of a sort. Numeric columns compare numerically
// with missing values last; all others compare as strings.
type SortKey struct {
	Column     string
	Descending bool
}

// SortBy returns a new dataset sorted by the given keys, earlier keys
// taking precedence. Records that compare equal keep their insertion order.
func (d *Dataset) SortBy(keys ...SortKey) (*Dataset, error) {
	for _, k := range keys {
		if err := checkColumn(k.Column); err != nil {
			return nil, err
		}
	}
	rs := d.Records()
	sort.SliceStable(rs, func(i, j int) bool {
		for _, k := range keys {
			less, equal := compareColumn(rs[i], rs[j], k.Column, k.Descending)
			if equal {
				continue
			}
			return less
		}
		return false
	})
	return &Dataset{records: rs}, nil
}

// Aggregate selects the group-by reduction.
type Aggregate int

const (
	// Sum adds the numeric column, skipping missing cells.
	Sum Aggregate = iota
	// Mean averages the numeric column over its non-missing cells.
	Mean
	// CountDistinct counts distinct non-empty formatted values.
	CountDistinct
)

// GroupRow is one row of an aggregation result table.
type GroupRow struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// GroupBy groups records by the formatted value of keyColumn and reduces
// valueColumn with agg, producing a derived table with one row per group in
// first-seen key order. Sum and Mean require a numeric value column.
func (d *Dataset) GroupBy(keyColumn, valueColumn string, agg Aggregate) ([]GroupRow, error) {
	if err := checkColumn(keyColumn); err != nil {
		return nil, err
	}
	if err := checkColumn(valueColumn); err != nil {
		return nil, err
	}

	type bucket struct {
		sum      float64
		n        int
		distinct map[string]struct{}
	}
	var order []string
	buckets := make(map[string]*bucket)

	for _, r := range d.records {
		key, err := r.Value(keyColumn)
		if err != nil {
			return nil, err
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{distinct: make(map[string]struct{})}
			buckets[key] = b
			order = append(order, key)
		}
		switch agg {
		case Sum, Mean:
			v, numeric := r.Number(valueColumn)
			if !numeric {
				return nil, fmt.Errorf("column %q is not numeric", valueColumn)
			}
			if IsMissing(v) {
				continue
			}
			b.sum += v
			b.n++
		case CountDistinct:
			v, err := r.Value(valueColumn)
			if err != nil {
				return nil, err
			}
			if v == "" {
				continue
			}
			b.distinct[v] = struct{}{}
		default:
			return nil, fmt.Errorf("unknown aggregate %d", agg)
		}
	}

	rows := make([]GroupRow, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		var v float64
		switch agg {
		case Sum:
			v = b.sum
		case Mean:
			if b.n == 0 {
				v = missing()
			} else {
				v = b.sum / float64(b.n)
			}
		case CountDistinct:
			v = float64(len(b.distinct))
		}
		rows = append(rows, GroupRow{Key: key, Value: v})
	}
	return rows, nil
}

func checkColumn(name string) error {
	for _, c := range Columns() {
		if c == name {
			return nil
		}
	}
	return fmt.Errorf("unknown column %q", name)
}

// compareColumn orders a before b on one sort key. Missing numeric values
// sort last whatever the direction.
func compareColumn(a, b EnrollmentRecord, column string, descending bool) (less, equal bool) {
	av, aNum := a.Number(column)
	if aNum {
		bv, _ := b.Number(column)
		switch {
		case IsMissing(av) && IsMissing(bv):
			return false, true
		case IsMissing(av):
			return false, false
		case IsMissing(bv):
			return true, false
		case av == bv:
			return false, true
		}
		if descending {
			return av > bv, false
		}
		return av < bv, false
	}
	as, _ := a.Value(column)
	bs, _ := b.Value(column)
	c := strings.Compare(as, bs)
	if c == 0 {
		return false, true
	}
	if descending {
		return c > 0, false
	}
	return c < 0, false
}
