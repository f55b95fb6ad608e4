// internal/models/matching.go
package models

// MatchCandidate associates one form submission with one uploaded file,
// scored by the matcher. Instances are recomputed on every run and never
// persisted.
type MatchCandidate struct {
	File                UploadedFile `json:"cvFile"`
	Confidence          float64      `json:"confidence"`
	TimeScore           float64      `json:"timeScore"`
	NameScore           float64      `json:"nameScore"`
	EmailInFilename     bool         `json:"emailMatch"`
	FormTime            string       `json:"formTime"`
	FileTime            string       `json:"fileTime"`
	TimeDifferenceHours float64      `json:"timeDifferenceHours"`
}

// SubmissionMatches pairs a submission with its ranked candidate files,
// highest confidence first.
type SubmissionMatches struct {
	Submission       FormSubmission   `json:"formData"`
	PotentialMatches []MatchCandidate `json:"potentialMatches"`
}
