package main

import "time"

// WorkItem is one app description queued for generation.
type WorkItem struct {
	Label string
}

// ItemStatus represents the outcome status of generating one app
type ItemStatus string

const (
	StatusGenerated ItemStatus = "generated"
	StatusFailed    ItemStatus = "failed"
)

// ItemResult tracks the outcome of generating each app
type ItemResult struct {
	Label    string
	Status   ItemStatus
	Filename string
	Attempts int
	Elapsed  time.Duration
	Err      error
}

// Summary aggregates per-item results for a whole run
type Summary struct {
	Results   []ItemResult
	Generated int
	Failed    int
}

func (s *Summary) add(result ItemResult) {
	s.Results = append(s.Results, result)
	if result.Status == StatusGenerated {
		s.Generated++
	} else {
		s.Failed++
	}
}
