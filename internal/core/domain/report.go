package domain

// EventCount is one row of the event-count report
type EventCount struct {
	Name  string
	Count int64
}

// FinalizeSample is one upload.finalized payload used for latency reporting
type FinalizeSample struct {
	Status     string
	DurationMS int64
}
