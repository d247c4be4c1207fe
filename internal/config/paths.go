package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths. This is the single source of
// truth for file placement: raw scraper downloads, generated reports and
// logs all hang off the executable directory, never the working directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	DownloadsDir  string
	ReportsDir    string
	LogsDir       string
}

// GetPaths resolves the application paths relative to the executable
// location.
//
//	dist/
//	  ├── data/
//	  │   ├── downloads/   (raw dumps fetched from self-service)
//	  │   └── reports/     (tidy CSV and workbook output)
//	  └── logs/
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return PathsUnder(filepath.Dir(exe)), nil
}

// PathsUnder lays out the data directories beneath root. Split out of
// GetPaths so tests and flag overrides can relocate the tree.
func PathsUnder(root string) *Paths {
	dataDir := filepath.Join(root, "data")
	return &Paths{
		ExecutableDir: root,
		DataDir:       dataDir,
		DownloadsDir:  filepath.Join(dataDir, "downloads"),
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(root, "logs"),
	}
}

// EnsureDirectories creates all required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.DownloadsDir,
		p.ReportsDir,
		p.LogsDir,
	}
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs the resolved layout for debugging.
func (p *Paths) LogPathResolution() {
	slog.Default().Debug("path resolution summary",
		slog.String("executable", p.ExecutableDir),
		slog.String("data", p.DataDir),
		slog.String("downloads", p.DownloadsDir),
		slog.String("reports", p.ReportsDir),
		slog.String("logs", p.LogsDir))
}

// GetDownloadPath returns the path for a downloaded file.
func (p *Paths) GetDownloadPath(filename string) string {
	return filepath.Join(p.DownloadsDir, filename)
}

// GetReportPath returns the path for a report file.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
