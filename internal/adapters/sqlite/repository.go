package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stockDash/internal/domain"
	"stockDash/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.RunRepository interface using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/stock_dash.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w: %w", filepath.Dir(dbPath), ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Open database connection
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close() // Close the connection if ping fails
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Set connection pool settings (important for SQLite)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Run history database ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		provider TEXT NOT NULL,
		symbols TEXT NOT NULL,
		range_start TIMESTAMP NOT NULL,
		range_end TIMESTAMP NOT NULL,
		succeeded INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS symbol_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		symbol TEXT NOT NULL,
		status TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		last_close REAL NULL,
		last_time TIMESTAMP NULL,
		short_ma REAL NULL,
		long_ma REAL NULL,
		volatility REAL NULL,
		pct_change REAL NULL,
		rsi REAL NULL,
		trend TEXT NULL,
		buy_signal INTEGER NOT NULL DEFAULT 0,
		total_return REAL NULL,
		max_drawdown REAL NULL,
		annual_volatility REAL NULL
	);

	CREATE TABLE IF NOT EXISTS signal_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		symbol TEXT NOT NULL,
		event_time TIMESTAMP NOT NULL,
		kind TEXT NOT NULL,
		fast REAL NOT NULL,
		slow REAL NOT NULL
	);
	-- Add indexes for common lookups
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs (started_at);
	CREATE INDEX IF NOT EXISTS idx_symbol_results_run ON symbol_results (run_id);
	CREATE INDEX IF NOT EXISTS idx_signal_events_run_symbol ON signal_events (run_id, symbol);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w: %w", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Debug(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// CreateRun stores the run header.
func (r *Repository) CreateRun(ctx context.Context, run *domain.Run) error {
	const query = `
	INSERT INTO runs (id, started_at, provider, symbols, range_start, range_end, succeeded, failed)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.StartedAt.UTC(), run.Provider, strings.Join(run.Symbols, ","),
		run.Start.UTC(), run.End.UTC(), run.Succeeded, run.Failed)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w: %w", run.ID, ports.ErrQueryFailed, err)
	}
	r.logger.Debug(ctx, "Run created", map[string]interface{}{"runID": run.ID, "provider": run.Provider})
	return nil
}

// FinishRun updates the success/failure counters of an existing run.
func (r *Repository) FinishRun(ctx context.Context, run *domain.Run) error {
	const query = `UPDATE runs SET succeeded = ?, failed = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, run.Succeeded, run.Failed, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w: %w", run.ID, ports.ErrQueryFailed, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for run %s: %w: %w", run.ID, ports.ErrQueryFailed, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("run %s not found for update: %w", run.ID, ports.ErrNotFound)
	}
	return nil
}

// SaveResult stores the outcome for one symbol of a run.
func (r *Repository) SaveResult(ctx context.Context, res *domain.SymbolResult) error {
	const query = `
	INSERT INTO symbol_results (run_id, symbol, status, message, last_close, last_time, short_ma, long_ma,
	                            volatility, pct_change, rsi, trend, buy_signal, total_return, max_drawdown, annual_volatility)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var (
		lastClose, shortMA, longMA, vol, pct, rsi, totalReturn, maxDD, annualVol sql.NullFloat64
		lastTime                                                                 sql.NullTime
		trend                                                                    sql.NullString
		buy                                                                      bool
	)
	if s := res.Summary; s != nil {
		lastClose = sql.NullFloat64{Float64: s.LastClose, Valid: true}
		lastTime = sql.NullTime{Time: s.LastTime.UTC(), Valid: !s.LastTime.IsZero()}
		shortMA = nullPoint(s.ShortMA)
		longMA = nullPoint(s.LongMA)
		vol = nullPoint(s.Volatility)
		pct = nullPoint(s.PercentChange)
		rsi = nullPoint(s.RSI)
		trend = sql.NullString{String: string(s.Trend), Valid: true}
		buy = s.BuySignal
		totalReturn = sql.NullFloat64{Float64: s.TotalReturn, Valid: true}
		maxDD = sql.NullFloat64{Float64: s.MaxDrawdown, Valid: true}
		annualVol = sql.NullFloat64{Float64: s.AnnualVolatility, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		res.RunID, res.Symbol, res.Status, res.Message, lastClose, lastTime, shortMA, longMA,
		vol, pct, rsi, trend, buy, totalReturn, maxDD, annualVol)
	if err != nil {
		return fmt.Errorf("failed to insert result for %s in run %s: %w: %w", res.Symbol, res.RunID, ports.ErrQueryFailed, err)
	}
	return nil
}

// SaveSignals stores the crossover events found for a symbol during a run.
func (r *Repository) SaveSignals(ctx context.Context, runID, symbol string, events []domain.SignalEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin signal transaction: %w: %w", ports.ErrDBConnection, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO signal_events (run_id, symbol, event_time, kind, fast, slow)
	VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare signal insert: %w: %w", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, runID, symbol, ev.Time.UTC(), string(ev.Kind), ev.Fast, ev.Slow); err != nil {
			return fmt.Errorf("failed to insert signal for %s: %w: %w", symbol, ports.ErrQueryFailed, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit signals for %s: %w: %w", symbol, ports.ErrQueryFailed, err)
	}
	r.logger.Debug(ctx, "Signals stored", map[string]interface{}{"runID": runID, "symbol": symbol, "count": len(events)})
	return nil
}

// Signals returns the stored events of a symbol in a run, oldest first.
func (r *Repository) Signals(ctx context.Context, runID, symbol string) ([]domain.SignalEvent, error) {
	const query = `
	SELECT event_time, kind, fast, slow FROM signal_events
	WHERE run_id = ? AND symbol = ?
	ORDER BY event_time ASC`

	rows, err := r.db.QueryContext(ctx, query, runID, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var events []domain.SignalEvent
	for rows.Next() {
		var (
			ev   domain.SignalEvent
			kind string
		)
		if err := rows.Scan(&ev.Time, &kind, &ev.Fast, &ev.Slow); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w: %w", ports.ErrQueryFailed, err)
		}
		ev.Kind = domain.SignalKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signal rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return events, nil
}

// RecentRuns returns up to limit runs, newest first.
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	const query = `
	SELECT id, started_at, provider, symbols, range_start, range_end, succeeded, failed
	FROM runs
	ORDER BY started_at DESC
	LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return runs, nil
}

// FindRun retrieves a run by its ID. Returns nil, nil if it does not exist.
func (r *Repository) FindRun(ctx context.Context, id string) (*domain.Run, error) {
	const query = `
	SELECT id, started_at, provider, symbols, range_start, range_end, succeeded, failed
	FROM runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Run not found", map[string]interface{}{"runID": id})
			return nil, nil // Not an error, just not found
		}
		return nil, err
	}
	return run, nil
}

// ResultsForRun returns the per-symbol results of a run.
func (r *Repository) ResultsForRun(ctx context.Context, runID string) ([]*domain.SymbolResult, error) {
	const query = `
	SELECT run_id, symbol, status, message, last_close, last_time, short_ma, long_ma, volatility,
	       pct_change, rsi, trend, buy_signal, total_return, max_drawdown, annual_volatility
	FROM symbol_results
	WHERE run_id = ?
	ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results for run %s: %w: %w", runID, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var results []*domain.SymbolResult
	for rows.Next() {
		var (
			res                                                                      domain.SymbolResult
			status                                                                   string
			lastClose, shortMA, longMA, vol, pct, rsi, totalReturn, maxDD, annualVol sql.NullFloat64
			lastTime                                                                 sql.NullTime
			trend                                                                    sql.NullString
			buy                                                                      bool
		)
		if err := rows.Scan(&res.RunID, &res.Symbol, &status, &res.Message, &lastClose, &lastTime,
			&shortMA, &longMA, &vol, &pct, &rsi, &trend, &buy, &totalReturn, &maxDD, &annualVol); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w: %w", ports.ErrQueryFailed, err)
		}
		res.Status = domain.SymbolStatus(status)
		if lastClose.Valid {
			res.Summary = &domain.Summary{
				LastClose:        lastClose.Float64,
				LastTime:         lastTime.Time,
				ShortMA:          pointOf(shortMA, lastTime.Time),
				LongMA:           pointOf(longMA, lastTime.Time),
				Volatility:       pointOf(vol, lastTime.Time),
				PercentChange:    pointOf(pct, lastTime.Time),
				RSI:              pointOf(rsi, lastTime.Time),
				Trend:            domain.Trend(trend.String),
				BuySignal:        buy,
				TotalReturn:      totalReturn.Float64,
				MaxDrawdown:      maxDD.Float64,
				AnnualVolatility: annualVol.Float64,
			}
		}
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return results, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*domain.Run, error) {
	var (
		run     domain.Run
		symbols string
	)
	err := row.Scan(&run.ID, &run.StartedAt, &run.Provider, &symbols, &run.Start, &run.End, &run.Succeeded, &run.Failed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run row: %w: %w", ports.ErrQueryFailed, err)
	}
	if symbols != "" {
		run.Symbols = strings.Split(symbols, ",")
	}
	return &run, nil
}

func nullPoint(p domain.Point) sql.NullFloat64 {
	return sql.NullFloat64{Float64: p.Value, Valid: p.Valid}
}

func pointOf(v sql.NullFloat64, t time.Time) domain.Point {
	if !v.Valid {
		return domain.Point{}
	}
	return domain.Point{Time: t, Value: v.Float64, Valid: true}
}
