// Package config holds the pipeline's run configuration and its validation.
package config

import "fmt"

// Run holds the parameters for one end-to-end pipeline invocation.
type Run struct {
	DBPath     string // path to the read-only source database
	NavDataDir string // directory containing Permanent/ and Supplemental/
	StartID    int64  // inclusive lower bound on Terminals.ID
	EndID      int64  // inclusive upper bound on Terminals.ID
	LogDir     string // directory for rotated log files
	LogLevel   string // debug|info|warn|error
}

// Validate checks the fields a caller cannot have defaulted for it. Flag
// parsing lives in cmd/navterm; validation lives here so it can be exercised
// without going through flag.Parse.
func (r Run) Validate() error {
	if r.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if r.NavDataDir == "" {
		return fmt.Errorf("navdata path is required")
	}
	if r.StartID > r.EndID {
		return fmt.Errorf("start id %d is greater than end id %d", r.StartID, r.EndID)
	}
	switch r.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", r.LogLevel)
	}
	return nil
}
