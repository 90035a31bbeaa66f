package ports

import (
	"sort"
	"strings"
)

// SymbolErrors records symbols that failed individually during FetchSeries.
// A provider returns it next to the series it did fetch; each value wraps
// ErrFetchFailure.
type SymbolErrors map[string]error

func (e SymbolErrors) Error() string {
	symbols := make([]string, 0, len(e))
	for s := range e {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	parts := make([]string, 0, len(symbols))
	for _, s := range symbols {
		parts = append(parts, s+": "+e[s].Error())
	}
	return "fetch failed for " + strings.Join(parts, "; ")
}

// Unwrap exposes the per-symbol errors to errors.Is and errors.As.
func (e SymbolErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, err := range e {
		errs = append(errs, err)
	}
	return errs
}

// OrNil returns nil when no symbol failed.
func (e SymbolErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
