package domain

import "time"

// Trade is one long round trip taken when replaying crossover signals:
// bought at a golden cross, sold at the next death cross.
type Trade struct {
	EntryTime  time.Time
	EntryPrice float64
	ExitTime   time.Time // Last bar of the series while Open
	ExitPrice  float64
	Return     float64 // (exit - entry) / entry
	Open       bool    // No death cross followed the entry
}
