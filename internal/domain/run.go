package domain

import "time"

// SymbolStatus records how a symbol fared during a dashboard run.
type SymbolStatus string

const (
	StatusAnalyzed    SymbolStatus = "analyzed"
	StatusNoData      SymbolStatus = "no_data"
	StatusSkipped     SymbolStatus = "skipped" // Computation failed
	StatusFetchFailed SymbolStatus = "fetch_failed"
)

// Run describes one invocation of the analysis dashboard.
type Run struct {
	ID        string
	StartedAt time.Time
	Provider  string
	Symbols   []string
	Start     time.Time
	End       time.Time
	Succeeded int
	Failed    int
}

// SymbolResult is the per-symbol outcome of a run.
type SymbolResult struct {
	RunID   string
	Symbol  string
	Status  SymbolStatus
	Message string // Error text for no_data/skipped
	Summary *Summary
}
