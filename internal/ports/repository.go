package ports

import (
	"context"

	"stockDash/internal/domain"
)

// RunRepository persists dashboard runs for later inspection.
type RunRepository interface {
	// CreateRun stores the run header.
	CreateRun(ctx context.Context, run *domain.Run) error
	// FinishRun updates the success/failure counters of an existing run.
	FinishRun(ctx context.Context, run *domain.Run) error
	// SaveResult stores the outcome for one symbol of a run.
	SaveResult(ctx context.Context, result *domain.SymbolResult) error
	// SaveSignals stores the crossover events found for a symbol during a run.
	SaveSignals(ctx context.Context, runID, symbol string, events []domain.SignalEvent) error
	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]*domain.Run, error)
	// ResultsForRun returns the per-symbol results of a run.
	// Returns nil, nil if the run has no results.
	ResultsForRun(ctx context.Context, runID string) ([]*domain.SymbolResult, error)
}
