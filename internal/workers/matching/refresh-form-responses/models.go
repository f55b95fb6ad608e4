// internal/workers/matching/refresh-form-responses/models.go
package refreshformresponses

type Input struct {
	// ForceRefresh bypasses a warm cache and refetches from the sheet.
	ForceRefresh bool `json:"forceRefresh,omitempty"`
}

type Output struct {
	SubmissionCount int  `json:"submissionCount"`
	Refreshed       bool `json:"refreshed"`
}
