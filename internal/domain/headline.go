package domain

import "time"

// MaxHeadlines caps the number of news items shown per symbol.
const MaxHeadlines = 5

// Headline is a single news item for a symbol.
type Headline struct {
	Title     string
	Link      string
	Source    string
	Published time.Time // Zero when the source does not provide it
}
