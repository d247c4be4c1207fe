package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"gsrcli/internal/config"
	"gsrcli/internal/dataset"
	"gsrcli/internal/exporter"
	"gsrcli/internal/infrastructure"
	"gsrcli/internal/report"
)

func main() {
	inPath := flag.String("in", "", "input report file (.txt fixed-width or .csv GJIREVO export)")
	dept := flag.String("dept", "", "department code to keep (e.g. CHE); empty keeps all")
	outDir := flag.String("out", "", "output directory (defaults to the input file's directory)")
	strict := flag.Bool("strict", false, "apply the structural-marker rejection rules")
	format := flag.String("format", "both", "output format: csv | xlsx | both")
	groups := flag.Bool("groups", false, "also write per-instructor and per-course aggregation tables")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: using default configuration: %v\n", err)
		cfg = config.Default()
	}
	cfg.Logging.Output = "console"
	logger := infrastructure.MustInitializeLogger(cfg.Logging)

	if err := run(*inPath, *dept, *outDir, *strict, *format, *groups, cfg, logger); err != nil {
		logger.Error("processing failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, dept, outDir string, strict bool, format string, groups bool, cfg *config.Config, logger *slog.Logger) error {
	switch format {
	case "csv", "xlsx", "both":
	default:
		return fmt.Errorf("unknown -format %q (want csv, xlsx or both)", format)
	}

	dialect, err := report.DialectForExtension(filepath.Ext(inPath))
	if err != nil {
		return err
	}
	if dept == "" {
		dept = cfg.Report.Department
	}

	parser, err := report.NewParser(report.Options{
		Department:    dept,
		Dialect:       dialect,
		Strict:        strict || cfg.Report.Strict || dialect == report.DialectBannerCSV,
		HeaderLines:   cfg.Report.HeaderLines,
		TrailingLines: cfg.Report.TrailingLines,
	}, logger)
	if err != nil {
		return err
	}

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer f.Close()

	res, err := parser.Parse(f)
	if err != nil {
		return err
	}

	logger.Info("report parsed",
		slog.String("input", inPath),
		slog.String("term", res.Metadata.TermCode),
		slog.Int("sections", res.Dataset.Len()),
		slog.Int("lines_read", res.LinesRead),
		slog.Int("coercions", res.Coercions))

	if outDir == "" {
		outDir = filepath.Dir(inPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if format == "csv" || format == "both" {
		path := filepath.Join(outDir, outputName(res, inPath, "csv"))
		if err := exporter.NewCSVWriter(nil).WriteDataset(path, res.Dataset); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}
	if format == "xlsx" || format == "both" {
		path := filepath.Join(outDir, outputName(res, inPath, "xlsx"))
		if err := exporter.NewWorkbookWriter(nil).WriteDataset(path, res.Dataset); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}

	if groups {
		if err := writeGroupTables(outDir, outputName(res, inPath, "csv"), res.Dataset); err != nil {
			return err
		}
	}

	printSummary(res.Dataset)
	return nil
}

// writeGroupTables writes per-instructor enrollment and per-course contact
// hour aggregations next to the tidy CSV.
func writeGroupTables(outDir, csvName string, d *dataset.Dataset) error {
	base := strings.TrimSuffix(csvName, ".csv")
	w := exporter.NewCSVWriter(nil)

	byInstructor := filepath.Join(outDir, base+"_by_instructor.csv")
	if err := w.WriteGroups(byInstructor, "Instructor", "Enrolled", dataset.EnrollmentByInstructor(d)); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", byInstructor)

	byCourse := filepath.Join(outDir, base+"_chp_by_course.csv")
	if err := w.WriteGroups(byCourse, "Course", "CHP", dataset.CHPByCourse(d)); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", byCourse)
	return nil
}

// outputName prefers the metadata-derived convention and falls back to the
// input basename when the header carried no usable metadata.
func outputName(res *report.Result, inPath, ext string) string {
	if res.Metadata.ReportName != "" && res.Metadata.TermCode != "" && !res.Metadata.Date.IsZero() {
		return res.Metadata.OutputName(ext)
	}
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	return base + "." + ext
}

func printSummary(d *dataset.Dataset) {
	s := dataset.Summarize(d)
	fmt.Printf("Sections: %d  Mean enrollment: %.1f  CHP: %.0f  F2F: %.0f%%\n",
		s.TotalSections, s.AvgEnrollment, s.TotalCHP, s.PercentF2F*100)
}
