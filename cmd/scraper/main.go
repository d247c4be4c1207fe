package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"gsrcli/internal/config"
	"gsrcli/internal/dataset"
	"gsrcli/internal/exporter"
	"gsrcli/internal/infrastructure"
	"gsrcli/internal/report"
	"gsrcli/internal/scraper"
)

func main() {
	terms := flag.String("terms", "", "comma-separated 6-digit term codes (e.g. 202530,202540)")
	subject := flag.String("subject", "%", "subject filter for the job submission")
	department := flag.String("department", "%", "department filter for the job submission")
	cancel := flag.Bool("cancel", false, "include cancelled sections")
	excel := flag.Bool("excel", false, "also write a formatted workbook per term")
	flag.Parse()

	if *terms == "" {
		fmt.Fprintln(os.Stderr, "Error: -terms is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		os.Exit(1)
	}

	paths, err := config.GetPaths()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: resolving paths: %v\n", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating data directories: %v\n", err)
		os.Exit(1)
	}

	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath("scraper.log")
	}
	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	if err := run(context.Background(), cfg, paths, logger,
		splitTerms(*terms), *subject, *department, *cancel, *excel); err != nil {
		logger.Error("scrape run failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func splitTerms(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// run retrieves each term behind one browser session at a time, then
// post-processes the downloads in parallel. Retrieval stays sequential so
// the rate limiter actually paces the portal.
func run(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger,
	terms []string, subject, department string, cancel, excel bool) error {

	client := scraper.NewClient(cfg.Banner, paths, logger)

	downloaded := make([]string, 0, len(terms))
	for _, term := range terms {
		params := scraper.NewJobParams(term)
		params.Subject = subject
		params.Department = department
		params.IncludeCancelled = cancel

		rawPath, err := client.Retrieve(ctx, params)
		if err != nil {
			return fmt.Errorf("term %s: %w", term, err)
		}

		finalPath, err := renameByMetadata(rawPath, logger)
		if err != nil {
			return fmt.Errorf("term %s: %w", term, err)
		}
		logger.Info("report downloaded",
			slog.String("term", term),
			slog.String("path", finalPath))
		downloaded = append(downloaded, finalPath)
	}

	g, gctx := errgroup.WithContext(ctx)
	tidied := make([]*dataset.Dataset, len(downloaded))
	for i, path := range downloaded {
		g.Go(func() error {
			d, err := postProcess(gctx, cfg, paths, logger, path, excel)
			if err != nil {
				return err
			}
			tidied[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(tidied) > 1 {
		if err := writeCombined(paths, tidied); err != nil {
			return err
		}
		logger.Info("combined tidy export written", slog.Int("terms", len(tidied)))
	}

	logger.Info("scrape run complete", slog.Int("terms", len(downloaded)))
	return nil
}

// writeCombined stacks every term's tidy rows under one header so a
// multi-term dashboard reads a single file.
func writeCombined(paths *config.Paths, sets []*dataset.Dataset) error {
	w := exporter.NewCSVWriter(paths)
	const name = "combined_tidy.csv"
	if err := w.WriteCSV(name, exporter.WriteOptions{
		Headers:   dataset.Columns(),
		BOMPrefix: true,
	}); err != nil {
		return err
	}
	for _, d := range sets {
		if err := w.AppendDataset(name, d); err != nil {
			return err
		}
	}
	return nil
}

// renameByMetadata reads the run header out of a raw GJIREVO export and
// renames the file to the conventional <name>_<term>_<date>.csv.
func renameByMetadata(rawPath string, logger *slog.Logger) (string, error) {
	f, err := os.Open(rawPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	parser, err := report.NewParser(report.Options{
		Dialect:         report.DialectBannerCSV,
		RequireMetadata: true,
	}, logger)
	if err != nil {
		return "", err
	}
	res, err := parser.Parse(f)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(filepath.Dir(rawPath), res.Metadata.OutputName("csv"))
	if err := os.Rename(rawPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// postProcess parses one downloaded export and writes the tidy CSV, plus the
// formatted workbook when requested.
func postProcess(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger,
	path string, excel bool) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parser, err := report.NewParser(report.Options{
		Department:  cfg.Report.Department,
		Dialect:     report.DialectBannerCSV,
		Strict:      true,
		HeaderLines: cfg.Report.HeaderLines,
	}, logger)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	csvName := base + "_tidy.csv"
	if err := exporter.NewCSVWriter(paths).WriteDataset(csvName, res.Dataset); err != nil {
		return nil, err
	}
	logger.Info("tidy export written",
		slog.String("source", filepath.Base(path)),
		slog.Int("sections", res.Dataset.Len()))

	if excel {
		if err := exporter.NewWorkbookWriter(paths).WriteDataset(base+".xlsx", res.Dataset); err != nil {
			return nil, err
		}
	}
	return res.Dataset, nil
}
