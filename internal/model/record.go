package model

import "context"

// Category is the coarse job-function classification of a posting.
type Category string

const (
	CategorySWE     Category = "SWE"
	CategoryDA      Category = "DataAnalysis"
	CategoryMLAI    Category = "MLAI"
	CategoryPM      Category = "ProductManagement"
	CategoryUnknown Category = "Unknown"
)

// Source identifies the upstream site a posting was scraped from.
type Source string

const (
	SourceInternList Source = "InternList"
	SourcePittCSC    Source = "PittCSC"
	SourceSimplify   Source = "Simplify"
)

// Record is the normalized representation of one internship posting,
// regardless of which source it came from. Records are built fresh each run
// and never persisted; only their dedupe keys survive a run.
type Record struct {
	Category Category
	Source   Source
	Company  string
	Title    string
	Location string // empty when the source does not expose one
	URL      string // direct listing/apply link
	Posted   string // free-form posted date (Pitt CSC table only)
}

// SourceFetcher fetches and parses postings from one upstream source.
type SourceFetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]Record, error)
}

// SeenStore tracks which dedupe keys have been seen across runs.
type SeenStore interface {
	HasSeen(key string) (bool, error)
	MarkSeen(key string) error
	Count() (int, error)
	Close() error
}

// Notifier delivers a batch of newly observed postings.
type Notifier interface {
	Notify(records []Record) error
}

// RecordFilter decides whether a posting is worth alerting on at all.
type RecordFilter interface {
	Match(r Record) bool
}
