package report

import (
	"fmt"
	"strings"
	"time"
)

// Metadata identifies the report run that produced a SWRCGSR dump. Callers
// use it to label output artifacts ("SWRCGSR_202530_20250205.csv").
type Metadata struct {
	// ReportName is the report identifier from the run banner, normally
	// "SWRCGSR".
	ReportName string
	// TermCode is the 6-digit Banner term code: a 4-digit year followed by
	// the term period ("202530").
	TermCode string
	// TermLabel is the human-readable form of TermCode ("2025 Spring").
	TermLabel string
	// Date is the day the report was generated.
	Date time.Time
}

// OutputName builds the conventional artifact filename for this report run.
func (m Metadata) OutputName(ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", m.ReportName, m.TermCode, m.Date.Format("20060102"), ext)
}

// Physical line positions (1-based) of the metadata within the report
// header: the run banner carries the report name and date, the term line
// carries the term code.
const (
	bannerLineNo = 5
	termLineNo   = 7
)

var termPeriods = map[string]string{
	"30": "Spring",
	"40": "Summer",
	"50": "Fall",
}

var monthsByAbbrev = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// TermLabel translates a 6-digit term code into its readable form. The last
// two digits encode the period and the first four the calendar year.
func TermLabel(code string) (string, error) {
	if len(code) != 6 {
		return "", fmt.Errorf("term code %q is not 6 characters", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("term code %q is not numeric", code)
		}
	}
	period, ok := termPeriods[code[4:6]]
	if !ok {
		return "", fmt.Errorf("term code %q has unknown period %q", code, code[4:6])
	}
	return code[:4] + " " + period, nil
}

// parseBannerDate parses the DD-MON-YYYY date token from the run banner.
// Banner prints the month abbreviation in varying case and may glue a
// trailing punctuation character onto the token.
func parseBannerDate(tok string) (time.Time, error) {
	tok = strings.TrimFunc(tok, func(r rune) bool {
		return !(r == '-' || (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'))
	})
	parts := strings.Split(tok, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date token %q is not DD-MON-YYYY", tok)
	}
	var day, year int
	if _, err := fmt.Sscanf(parts[0], "%d", &day); err != nil {
		return time.Time{}, fmt.Errorf("date token %q: bad day: %w", tok, err)
	}
	month, ok := monthsByAbbrev[strings.ToUpper(parts[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("date token %q: unknown month %q", tok, parts[1])
	}
	if _, err := fmt.Sscanf(parts[2], "%d", &year); err != nil {
		return time.Time{}, fmt.Errorf("date token %q: bad year: %w", tok, err)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// parseMetadata extracts the report name, run date and term code from the
// header lines of a dump.
func parseMetadata(lines []string) (Metadata, error) {
	if len(lines) < termLineNo {
		return Metadata{}, parseErr(StageMetadata, len(lines),
			"header has %d lines, metadata needs at least %d", len(lines), termLineNo)
	}

	banner := strings.Fields(lines[bannerLineNo-1])
	if len(banner) < 7 {
		return Metadata{}, parseErr(StageMetadata, bannerLineNo,
			"run banner has %d tokens, want at least 7", len(banner))
	}
	date, err := parseBannerDate(banner[6])
	if err != nil {
		return Metadata{}, &ParseError{Stage: StageMetadata, Line: bannerLineNo, Err: err}
	}

	termFields := strings.Fields(lines[termLineNo-1])
	if len(termFields) < 2 {
		return Metadata{}, parseErr(StageMetadata, termLineNo,
			"term line has %d tokens, want at least 2", len(termFields))
	}
	code := strings.TrimSpace(termFields[1])
	label, err := TermLabel(code)
	if err != nil {
		return Metadata{}, &ParseError{Stage: StageMetadata, Line: termLineNo, Err: err}
	}

	return Metadata{
		ReportName: banner[0],
		TermCode:   code,
		TermLabel:  label,
		Date:       date,
	}, nil
}

// DetectDepartment scans the header lines for the "Subject: XXX --" banner
// some report variants carry and returns the department code it names.
func DetectDepartment(lines []string) (string, bool) {
	for _, line := range lines {
		_, rest, found := strings.Cut(line, "Subject: ")
		if !found {
			continue
		}
		code, _, _ := strings.Cut(rest, " --")
		code = strings.TrimSpace(code)
		if code != "" {
			return code, true
		}
	}
	return "", false
}
