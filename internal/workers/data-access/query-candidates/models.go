// internal/workers/data-access/query-candidates/models.go
package querycandidates

import "brv-workers/internal/models"

type Input struct {
	Query string `json:"query"`
	Size  int    `json:"size,omitempty"`
}

type Output struct {
	Candidates []models.CandidateDocument `json:"candidates"`
	TotalHits  int64                      `json:"totalHits"`
	Took       int64                      `json:"took"`
}
