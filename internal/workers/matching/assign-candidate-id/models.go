// internal/workers/matching/assign-candidate-id/models.go
package assigncandidateid

type Input struct {
	FileID      string `json:"fileId"`
	FileName    string `json:"fileName"`
	CandidateID string `json:"candidateId"`
	// FullName and Email come from the confirmed submission and feed the
	// search index; they are optional.
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

type Output struct {
	CandidateID string `json:"candidateId"`
	FileID      string `json:"fileId"`
	Assigned    bool   `json:"assigned"`
	Indexed     bool   `json:"indexed"`
}
