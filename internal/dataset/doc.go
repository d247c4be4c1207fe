// Package dataset holds the tidy tabular form of a parsed enrollment
// report: an immutable, insertion-ordered collection of typed section
// records with the derived credit-hour-production, course-key and
// fill-ratio columns, plus the grouping and summary operations the
// exporters and the dashboard build on. Every operation returns a new
// dataset or table; a dataset handed to a consumer never changes under it.
package dataset
