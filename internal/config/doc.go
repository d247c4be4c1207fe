// Package config provides centralized configuration management for the
// enrollment reporting tools. It layers environment variables over an
// optional YAML file, validates the result, and owns the on-disk layout
// through the Paths type.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern GSR_* for namespacing:
//
//	GSR_SERVER_PORT=8080
//	GSR_LOGGING_LEVEL=debug
//	GSR_REPORT_DEPARTMENT=CHE
//	GSR_BANNER_USERNAME=...
//	GSR_BANNER_PASSWORD=...
//
// Self-service credentials are accepted from the environment only; the YAML
// file never carries them.
//
// # Path Management
//
// All file system paths resolve relative to the executable location, never
// the working directory:
//
//	paths, err := config.GetPaths()
//	raw := paths.GetDownloadPath("SWRCGSR_202530.txt")
//	tidy := paths.GetReportPath("SWRCGSR_202530_20250205.csv")
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
