package event

// StateRestored is emitted once after the engine seeded its result set
// from a previous run's output file.
type StateRestored struct {
	Orders int
}

// OrderEmitted is emitted after an enriched row has been persisted.
type OrderEmitted struct {
	OrderID string
	Pair    string
}

// OrderSkipped is emitted when a row is dropped with a diagnostic. Silent
// skips (duplicates, canceled orders) only show up in the progress stats.
type OrderSkipped struct {
	OrderID string
	Pair    string
	Reason  string
}

// CommissionsTruncated is emitted when an order settled fees in more than
// the two assets the output schema can hold.
type CommissionsTruncated struct {
	OrderID string
	Dropped []string
}

// ProgressUpdated is emitted periodically by the watcher.
type ProgressUpdated struct {
	Processed  int
	Emitted    int
	Duplicates int
	Unfilled   int
	Unresolved int
}
