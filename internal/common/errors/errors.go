// internal/common/errors/errors.go

// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Matching / schema discovery
	ErrCodeSchemaDiscoveryFailed ErrorCode = "SCHEMA_DISCOVERY_FAILED"
	ErrCodeFormFetchFailed       ErrorCode = "FORM_FETCH_FAILED"
	ErrCodeDriveListFailed       ErrorCode = "DRIVE_LIST_FAILED"

	// Candidate ID assignment
	ErrCodeCandidateIDInvalidFormat ErrorCode = "CANDIDATE_ID_INVALID_FORMAT"
	ErrCodeCandidateIDAlreadyExists ErrorCode = "CANDIDATE_ID_ALREADY_EXISTS"
	ErrCodeFileAlreadyMapped        ErrorCode = "FILE_ALREADY_MAPPED"
	ErrCodeFileRenameFailed         ErrorCode = "FILE_RENAME_FAILED"
	ErrCodeMappingPersistFailed     ErrorCode = "MAPPING_PERSIST_FAILED"

	// Storage
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	// Search
	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	// Notifications
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	// Input validation
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ConvertToBPMNError maps a StandardError onto the workflow error shape.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   GetRetryCount(stdErr.Code),
	}
}

// GetRetryCount returns how many retries a given error code warrants.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeMappingPersistFailed,
		ErrCodeFormFetchFailed,
		ErrCodeDriveListFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3
	case ErrCodeQueryTimeout, ErrCodeSearchTimeout:
		return 2
	default:
		return 0
	}
}

// --- Error Constructors ---

// NewSchemaDiscoveryFailedError creates a non-retryable schema discovery error.
// Raised when the form response columns lack a name/email/timestamp field.
func NewSchemaDiscoveryFailedError(missingField string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaDiscoveryFailed,
		Message:   "Required column not found in form responses",
		Details:   fmt.Sprintf("missingField: %s", missingField),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFormFetchFailedError creates a retryable form fetch error.
func NewFormFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFormFetchFailed,
		Message:   "Failed to fetch form responses",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDriveListFailedError creates a retryable Drive listing error.
func NewDriveListFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDriveListFailed,
		Message:   "Failed to list CV files in Drive folder",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateIDInvalidFormatError creates a non-retryable ID format error.
func NewCandidateIDInvalidFormatError(candidateID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidateIDInvalidFormat,
		Message:   "Candidate ID does not match the required format",
		Details:   fmt.Sprintf("candidateId: %s", candidateID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateIDAlreadyExistsError creates a non-retryable uniqueness error.
func NewCandidateIDAlreadyExistsError(candidateID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidateIDAlreadyExists,
		Message:   "Candidate ID is already in use",
		Details:   fmt.Sprintf("candidateId: %s", candidateID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileAlreadyMappedError creates a non-retryable duplicate mapping error.
func NewFileAlreadyMappedError(fileID, existingID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileAlreadyMapped,
		Message:   "File already has a candidate ID assigned",
		Details:   fmt.Sprintf("fileId: %s, candidateId: %s", fileID, existingID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileRenameFailedError creates a retryable storage rename error.
func NewFileRenameFailedError(fileID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileRenameFailed,
		Message:   "Failed to rename file in storage",
		Details:   fmt.Sprintf("fileId: %s, error: %s", fileID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMappingPersistFailedError creates a retryable persistence error.
func NewMappingPersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMappingPersistFailed,
		Message:   "Failed to persist identity mapping",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch query timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable job variable validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Job variables failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send notification",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
