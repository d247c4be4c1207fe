// Package http contains the chi HTTP handlers for the report API. Handlers
// stay thin: they decode the request, call a service, and render the result
// or hand the error to the shared RFC 7807 error handler.
package http
