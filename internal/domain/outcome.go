package domain

import (
	"errors"
	"fmt"
)

// Outcome classifies what happened to one candidate item.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFiltered  Outcome = "filtered"
	OutcomeSkipped   Outcome = "skipped"
)

// ItemOutcome is the explicit per-item result of a pipeline pass.
// Err is set only for OutcomeSkipped.
type ItemOutcome struct {
	URL     string
	Outcome Outcome
	Err     error
}

// CycleStats counts the outcomes of one source cycle.
type CycleStats struct {
	Seen       int
	Created    int
	Duplicates int
	Filtered   int
	Errors     int
}

// Record folds one item outcome into the cycle counters.
func (s *CycleStats) Record(out ItemOutcome) {
	switch out.Outcome {
	case OutcomeCreated:
		s.Created++
	case OutcomeDuplicate:
		s.Duplicates++
	case OutcomeFiltered:
		s.Filtered++
	case OutcomeSkipped:
		s.Errors++
	}
}

// Error taxonomy. Feed failures abort the cycle; everything else skips
// the single item and lets the cycle continue.
var (
	ErrFeedUnavailable  = errors.New("feed unavailable")
	ErrExtractionEmpty  = errors.New("nothing publishable extracted")
	ErrFilteredByPolicy = errors.New("title rejected by content policy")
	ErrDuplicate        = errors.New("article already published")
)

// FetchError reports a failed page fetch. Status is zero for network
// errors and timeouts.
type FetchError struct {
	Status int
	Cause  error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("page fetch returned status %d", e.Status)
	}
	return fmt.Sprintf("page fetch failed: %v", e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// PublishError reports a failed create call against the content store.
type PublishError struct {
	Cause error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed: %v", e.Cause)
}

func (e *PublishError) Unwrap() error { return e.Cause }
