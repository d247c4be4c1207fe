// Package services holds the application layer between the HTTP transport
// and the report/dataset packages. Services own request validation at the
// domain level, orchestrate parsing and aggregation, and shape the response
// DTOs the handlers render.
package services
