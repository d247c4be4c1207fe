// Package exporter writes parsed enrollment data to files.
//
// CSVWriter produces tidy CSVs with a UTF-8 BOM so Excel picks up the
// encoding; WorkbookWriter produces the formatted xlsx workbook with frozen
// header rows and fill-rate highlighting. Relative output paths resolve into
// the configured data layout (downloads/ for raw exports, reports/ for
// everything else).
package exporter
