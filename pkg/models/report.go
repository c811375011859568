package models

// Outcome classifies the delivery result for a single recipient.
type Outcome string

const (
	OutcomeSentWithMedia Outcome = "sent-with-media"
	OutcomeSentTextOnly  Outcome = "sent-text-only"
	OutcomeSkipped       Outcome = "skipped"
	OutcomeFailed        Outcome = "failed"
)

// DispatchResult is the per-recipient outcome of one notification.
type DispatchResult struct {
	Recipient string  `json:"recipient"`
	Outcome   Outcome `json:"outcome"`
	Error     string  `json:"error,omitempty"`
}

// BulkReport aggregates the results of one broadcast run. Total counts
// every row considered, including skipped ones.
type BulkReport struct {
	Total    int              `json:"total"`
	Sent     int              `json:"sent"`
	Failed   int              `json:"failed"`
	Failures []string         `json:"failures,omitempty"`
	Results  []DispatchResult `json:"results,omitempty"`
}
