// Package report implements the SWRCGSR fixed-width enrollment report
// parser. Banner 9 emits the report as positionally encoded 140-character
// lines interleaved with banners, column headers and grand-total rows; this
// package splits each line along the published column widths, filters out
// the structural noise, rewrites meeting times to 24-hour notation and
// produces a typed dataset together with the report metadata (term code and
// run date) that downstream exporters use to name their artifacts.
//
// Two input dialects are supported: the plain fixed-width dump saved from
// "Show Output", and the comma-separated GJIREVO export of the same report,
// whose lines are flattened back to their positional form before parsing.
package report
