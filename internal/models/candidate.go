// internal/models/candidate.go
package models

// FormSubmission is one row of the application form response sheet, keyed by
// column header. Beyond the name/email/timestamp columns the matcher relies
// on, fields are passed through unexamined.
type FormSubmission map[string]string

// UploadedFile mirrors the metadata the Drive folder listing returns for a
// CV file. The ID is the opaque storage handle; timestamps are the raw
// strings the storage service provides and may be absent.
type UploadedFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType,omitempty"`
	CreatedTime  string `json:"createdTime,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
}

// IdentityMapping is the durable, human-confirmed association between a
// candidate ID and a stored CV file.
type IdentityMapping struct {
	CandidateID string `json:"candidateId"`
	FileName    string `json:"fileName"`
	FileID      string `json:"fileId"`
	AssignedAt  string `json:"assignedAt,omitempty"`
}

// CandidateDocument is the shape indexed into Elasticsearch once a candidate
// ID has been assigned.
type CandidateDocument struct {
	CandidateID string `json:"candidateId"`
	FullName    string `json:"fullName,omitempty"`
	Email       string `json:"email,omitempty"`
	FileID      string `json:"fileId"`
	FileName    string `json:"fileName"`
	IndexedAt   string `json:"indexedAt"`
}
