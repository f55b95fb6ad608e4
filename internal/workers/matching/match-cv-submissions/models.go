// internal/workers/matching/match-cv-submissions/models.go
package matchcvsubmissions

import (
	"brv-workers/internal/matcher"
	"brv-workers/internal/models"
)

type Input struct {
	// SkipCache forces a fresh fetch of the response sheet.
	SkipCache bool `json:"skipCache,omitempty"`
}

type Output struct {
	Matches         []models.SubmissionMatches `json:"matches"`
	Report          matcher.Report             `json:"report"`
	SubmissionCount int                        `json:"submissionCount"`
	FileCount       int                        `json:"fileCount"`
	FromCache       bool                       `json:"fromCache"`
}
