package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"gsrcli/internal/config"
	"gsrcli/internal/dataset"
	"gsrcli/internal/report"
)

// ReportService parses uploaded SWRCGSR dumps and assembles the response
// payload the dashboard renders.
type ReportService struct {
	cfg    config.ReportConfig
	logger *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(cfg config.ReportConfig, logger *slog.Logger) *ReportService {
	return &ReportService{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "report_service")),
	}
}

// ParseRequest carries the per-upload options a caller may override.
type ParseRequest struct {
	// Filename decides the input dialect by extension.
	Filename string
	// Department narrows the parse to one subject code; empty falls back
	// to the configured default.
	Department string
}

// MetadataDTO is the wire form of the report run metadata.
type MetadataDTO struct {
	ReportName string `json:"report_name"`
	TermCode   string `json:"term_code,omitempty"`
	TermLabel  string `json:"term_label,omitempty"`
	Date       string `json:"date,omitempty"`
}

// Dashboard thresholds for the section fill bands.
const (
	highFillRatio   = 0.85
	lowFillRatio    = 0.40
	underEnrolledAt = 13
)

// SectionBands lists section CRNs by enrollment health.
type SectionBands struct {
	HighFill      []string `json:"high_fill"`
	LowFill       []string `json:"low_fill"`
	UnderEnrolled []string `json:"under_enrolled"`
	Waitlisted    []string `json:"waitlisted"`
}

// ParsedReport is the full parse result offered over the API: the tidy
// table, the headline statistics and the derived breakdowns.
type ParsedReport struct {
	Metadata MetadataDTO      `json:"metadata"`
	Summary  dataset.Summary  `json:"summary"`
	CHPSplit dataset.CHPSplit `json:"chp_split"`

	EnrollmentByInstructor     []dataset.GroupRow `json:"enrollment_by_instructor"`
	CreditsByInstructor        []dataset.GroupRow `json:"credits_by_instructor"`
	MeanEnrollmentByInstructor []dataset.GroupRow `json:"mean_enrollment_by_instructor"`
	CHPByCourse                []dataset.GroupRow `json:"chp_by_course"`
	SectionBands               SectionBands       `json:"section_bands"`

	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	Coercions int `json:"coercions"`
	LinesRead int `json:"lines_read"`
}

// Parse reads one report upload and returns the assembled payload.
func (s *ReportService) Parse(ctx context.Context, r io.Reader, req ParseRequest) (*ParsedReport, error) {
	dialect, err := report.DialectForExtension(filepath.Ext(req.Filename))
	if err != nil {
		return nil, err
	}

	dept := req.Department
	if dept == "" {
		dept = s.cfg.Department
	}

	opts := report.Options{
		Department: dept,
		Dialect:    dialect,
		// GJIREVO exports interleave structural rows with the data, so the
		// CSV dialect always parses strictly.
		Strict:        s.cfg.Strict || dialect == report.DialectBannerCSV,
		HeaderLines:   s.cfg.HeaderLines,
		TrailingLines: s.cfg.TrailingLines,
	}
	parser, err := report.NewParser(opts, s.logger)
	if err != nil {
		return nil, err
	}

	res, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "report parsed",
		slog.String("filename", req.Filename),
		slog.String("dialect", dialect.String()),
		slog.String("term", res.Metadata.TermCode),
		slog.Int("records", res.Dataset.Len()),
		slog.Int("coercions", res.Coercions))

	return assemble(res), nil
}

// assemble flattens a parse result into the wire payload.
func assemble(res *report.Result) *ParsedReport {
	d := res.Dataset
	columns := dataset.Columns()

	rows := make([][]string, 0, d.Len())
	for _, rec := range d.Records() {
		row := make([]string, len(columns))
		for i, c := range columns {
			// Columns() only names schema columns, Value cannot fail here.
			row[i], _ = rec.Value(c)
		}
		rows = append(rows, row)
	}

	md := MetadataDTO{
		ReportName: res.Metadata.ReportName,
		TermCode:   res.Metadata.TermCode,
		TermLabel:  res.Metadata.TermLabel,
	}
	if !res.Metadata.Date.IsZero() {
		md.Date = res.Metadata.Date.Format(time.DateOnly)
	}

	return &ParsedReport{
		Metadata:                   md,
		Summary:                    dataset.Summarize(d),
		CHPSplit:                   dataset.SplitF2F(d),
		EnrollmentByInstructor:     dataset.EnrollmentByInstructor(d),
		CreditsByInstructor:        dataset.CreditsByInstructor(d),
		MeanEnrollmentByInstructor: dataset.MeanEnrollmentByInstructor(d),
		CHPByCourse:                dataset.CHPByCourse(d),
		SectionBands:               sectionBands(d),
		Columns:                    columns,
		Rows:                       rows,
		Coercions:                  res.Coercions,
		LinesRead:                  res.LinesRead,
	}
}

// sectionBands buckets sections into the dashboard's attention lists.
func sectionBands(d *dataset.Dataset) SectionBands {
	return SectionBands{
		HighFill:      crns(dataset.HighFillSections(d, highFillRatio)),
		LowFill:       crns(dataset.LowFillSections(d, lowFillRatio)),
		UnderEnrolled: crns(dataset.UnderEnrolledSections(d, underEnrolledAt)),
		Waitlisted:    crns(dataset.WaitlistedSections(d)),
	}
}

func crns(d *dataset.Dataset) []string {
	out := make([]string, 0, d.Len())
	for _, r := range d.Records() {
		out = append(out, r.CRN)
	}
	return out
}
