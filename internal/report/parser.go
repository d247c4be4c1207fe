package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gsrcli/internal/dataset"
)

// Dialect selects how raw input lines are decoded before chunking.
type Dialect int

const (
	// DialectFixedWidth is the plain text dump saved from Banner's
	// "Show Output" view: lines already sit at fixed column offsets.
	DialectFixedWidth Dialect = iota
	// DialectBannerCSV is the GJIREVO comma-separated export of the same
	// report. Quoting and embedded commas are flattened away to recover
	// the positional line before the fixed-width pipeline applies.
	DialectBannerCSV
)

func (d Dialect) String() string {
	switch d {
	case DialectFixedWidth:
		return "fixed-width"
	case DialectBannerCSV:
		return "banner-csv"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// ErrUnsupportedFormat is returned by DialectForExtension for file types the
// parser does not understand.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// DialectForExtension maps a filename extension (with or without the
// leading dot) to the dialect that reads it. Plain text dumps arrive as
// .txt or .lis, GJIREVO exports as .csv.
func DialectForExtension(ext string) (Dialect, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "txt", "lis":
		return DialectFixedWidth, nil
	case "csv":
		return DialectBannerCSV, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

const (
	defaultHeaderLines   = 7
	defaultTrailingLines = 2
)

// Options configures a Parser.
type Options struct {
	// Department restricts output to one department code (e.g. "CHE").
	// Empty accepts rows from every department.
	Department string
	// Dialect selects the input decoding, see Dialect.
	Dialect Dialect
	// Strict enables the structural-marker rejection rules needed for
	// GJIREVO exports (blank CRN slots, "---"/"Sub"/"Ter"/"**" subjects).
	Strict bool
	// HeaderLines is the number of leading non-data lines to skip.
	// Zero means the dialect default of 7.
	HeaderLines int
	// TrailingLines is the number of lines dropped from the end of the
	// input before classification; the report appends a grand-total and
	// "** END **" pair. Zero means the default of 2, negative keeps all.
	TrailingLines int
	// RequireMetadata makes a parse fail when the report name, run date
	// or term code cannot be extracted from the header. Leave unset for
	// callers that do not label their output.
	RequireMetadata bool
}

// Result is a completed parse: the tidied dataset, the report metadata, and
// diagnostic counters.
type Result struct {
	Dataset  *dataset.Dataset
	Metadata Metadata
	// Coercions counts cells that failed numeric coercion and degraded to
	// the missing-value sentinel. Never fatal, but worth watching.
	Coercions int
	// LinesRead is the number of physical lines consumed from the input.
	LinesRead int
}

// Parser converts one SWRCGSR dump into a Dataset. A Parser is stateless
// with respect to its inputs and may be reused across files.
type Parser struct {
	opts       Options
	widths     []int
	classifier *Classifier
	logger     *slog.Logger
}

// NewParser validates opts and builds a parser. A malformed department code
// or field table is reported as a *ConfigError before any input is read.
func NewParser(opts Options, logger *slog.Logger) (*Parser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ValidateSpec(Fields); err != nil {
		return nil, err
	}

	var cls *Classifier
	if opts.Department != "" {
		var err error
		cls, err = NewDepartmentClassifier(opts.Department, opts.Strict)
		if err != nil {
			return nil, err
		}
	} else {
		cls = NewClassifier(opts.Strict)
	}

	if opts.HeaderLines == 0 {
		opts.HeaderLines = defaultHeaderLines
	}
	if opts.TrailingLines == 0 {
		opts.TrailingLines = defaultTrailingLines
	} else if opts.TrailingLines < 0 {
		opts.TrailingLines = 0
	}

	return &Parser{
		opts:       opts,
		widths:     Widths(Fields),
		classifier: cls,
		logger:     logger.With(slog.String("component", "report_parser")),
	}, nil
}

// Parse reads one report from r and returns the tidied dataset plus
// metadata. Configuration and structural problems abort the parse; a cell
// that fails numeric or time coercion only degrades that cell.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, &ParseError{Stage: StageRead, Err: err}
	}
	if len(lines) == 0 {
		return nil, &ParseError{Stage: StageRead, Err: ErrEmptyInput}
	}

	var md Metadata
	if p.opts.RequireMetadata {
		md, err = parseMetadata(lines)
		if err != nil {
			return nil, err
		}
	} else if m, mdErr := parseMetadata(lines); mdErr == nil {
		md = m
	}

	if len(lines) <= p.opts.HeaderLines {
		return nil, parseErr(StageStructure, len(lines),
			"input has %d lines, need more than the %d header lines", len(lines), p.opts.HeaderLines)
	}

	// With no configured department, a subject banner in the header names
	// the department the report covers; derive the filter from it.
	classifier := p.classifier
	if p.opts.Department == "" {
		if code, ok := DetectDepartment(lines[:p.opts.HeaderLines]); ok {
			if cls, clsErr := NewDepartmentClassifier(code, p.opts.Strict); clsErr == nil {
				classifier = cls
				p.logger.Debug("department detected from header",
					slog.String("department", code))
			}
		}
	}

	body := lines[p.opts.HeaderLines:]
	if keep := len(body) - p.opts.TrailingLines; keep > 0 {
		body = body[:keep]
	} else {
		body = nil
	}

	rejected := 0
	rows := make([][]string, 0, len(body))
	for _, line := range body {
		if p.opts.Dialect == DialectBannerCSV {
			line = flattenCSVLine(line)
		}
		row := Chunk(padLine(line), p.widths)
		if !classifier.IsData(row) {
			rejected++
			continue
		}
		NormalizeRow(row)
		rows = append(rows, row)
	}

	ds, coercions, err := dataset.FromRows(rows)
	if err != nil {
		return nil, &ParseError{Stage: StageRow, Err: err}
	}

	p.logger.Debug("report parsed",
		slog.String("dialect", p.opts.Dialect.String()),
		slog.Int("lines", len(lines)),
		slog.Int("records", ds.Len()),
		slog.Int("rejected", rejected),
		slog.Int("coercions", coercions))

	return &Result{
		Dataset:   ds,
		Metadata:  md,
		Coercions: coercions,
		LinesRead: len(lines),
	}, nil
}

// readLines splits the stream into physical lines, tolerating CRLF and a
// missing final newline.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// flattenCSVLine reconstructs the positional form of a GJIREVO line by
// stripping CSV quoting and joining the fields back together. Lines that do
// not parse as CSV are used verbatim.
func flattenCSVLine(line string) string {
	if !strings.ContainsAny(line, `,"`) {
		return line
	}
	rd := csv.NewReader(strings.NewReader(line))
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true
	fields, err := rd.Read()
	if err != nil {
		return line
	}
	return strings.Join(fields, "")
}
