package report

import "strings"

// blankTime is the value of the meeting-time slot on summary and trailer
// lines: the full 12-character field with no content.
var blankTime = strings.Repeat(" ", Fields[idxTime].Width)

// nonDataMarkers are subject-column prefixes of structural rows in GJIREVO
// exports: separator dashes, the "Subject:" and "Term:" banners, and the
// "** END **" trailer.
var nonDataMarkers = []string{"---", "Sub", "Ter", "**"}

// Classifier decides whether a chunked, pre-trim report row carries section
// data or belongs to the structural noise the report interleaves with it
// (department banners, column headers, totals).
type Classifier struct {
	deptLetter byte
	filterDept bool
	strict     bool
}

// NewClassifier returns a classifier that accepts rows from every
// department. When strict is set it additionally rejects rows whose CRN slot
// starts blank and rows carrying a known structural marker in the subject
// column, which is required for GJIREVO exports where no department filter
// narrows the input.
func NewClassifier(strict bool) *Classifier {
	return &Classifier{strict: strict}
}

// NewDepartmentClassifier returns a classifier restricted to one department
// code (e.g. "CHE"). Only the first letter is significant: the report tags
// data rows with the subject prefix, and continuation rows with a blank
// subject inherit the department of the row above. An empty or malformed
// code is a configuration error.
func NewDepartmentClassifier(dept string, strict bool) (*Classifier, error) {
	dept = strings.TrimSpace(dept)
	if dept == "" {
		return nil, &ConfigError{Field: "department", Reason: "code is empty"}
	}
	if len(dept) > 4 {
		return nil, &ConfigError{Field: "department", Reason: "code longer than 4 characters"}
	}
	if dept[0] < 'A' || dept[0] > 'Z' {
		return nil, &ConfigError{Field: "department", Reason: "code must start with an uppercase letter"}
	}
	return &Classifier{deptLetter: dept[0], filterDept: true, strict: strict}, nil
}

// IsData reports whether row (the chunked fields of one physical line,
// before whitespace trimming) is an enrollment data row.
func (c *Classifier) IsData(row []string) bool {
	if len(row) <= idxTime {
		return false
	}
	// Summary and trailer lines never carry a meeting time.
	if row[idxTime] == blankTime {
		return false
	}
	if c.strict {
		if row[idxCRN] == "" || row[idxCRN][0] == ' ' {
			return false
		}
		subject := strings.TrimSpace(row[idxSubject])
		for _, m := range nonDataMarkers {
			if strings.HasPrefix(subject, m) {
				return false
			}
		}
	}
	if c.filterDept {
		s := row[idxSubject]
		// Continuation rows leave the subject blank and inherit the
		// department of the preceding row.
		if len(s) >= 3 && s[0] == ' ' && s[2] == ' ' {
			return true
		}
		return len(s) > 0 && s[0] == c.deptLetter
	}
	return true
}
