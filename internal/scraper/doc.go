// Package scraper automates the Banner self-service portal with a headless
// browser: it logs in, submits an SWRCGSR enrollment job for a term, waits
// for the spooled output and saves the GJIREVO export locally. Submissions
// are rate limited to stay friendly to the portal.
package scraper
