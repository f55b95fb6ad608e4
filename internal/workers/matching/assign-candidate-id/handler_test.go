// internal/workers/matching/assign-candidate-id/handler_test.go
package assigncandidateid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brv-workers/internal/assigner"
	"brv-workers/internal/common/logger"
	"brv-workers/internal/models"
)

type fakeAssigner struct {
	err    error
	called bool
	fileID string
	id     string
}

func (f *fakeAssigner) Assign(_ context.Context, fileID, _, candidateID string) error {
	f.called = true
	f.fileID = fileID
	f.id = candidateID
	return f.err
}

type fakeIndexer struct {
	err  error
	docs []models.CandidateDocument
}

func (f *fakeIndexer) Index(_ context.Context, doc models.CandidateDocument) error {
	if f.err != nil {
		return f.err
	}
	f.docs = append(f.docs, doc)
	return nil
}

func validInput() *Input {
	return &Input{
		FileID:      "file-1",
		FileName:    "John_Smith_Resume.pdf",
		CandidateID: "CAND-0001",
		FullName:    "John Smith",
		Email:       "john.smith@example.com",
	}
}

func TestExecuteAssignsAndIndexes(t *testing.T) {
	fa := &fakeAssigner{}
	fi := &fakeIndexer{}
	h := NewHandler(LoadConfig(), fa, fi, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, fa.called)
	assert.Equal(t, "file-1", fa.fileID)
	assert.True(t, output.Assigned)
	assert.True(t, output.Indexed)

	require.Len(t, fi.docs, 1)
	assert.Equal(t, "CAND-0001", fi.docs[0].CandidateID)
	assert.Equal(t, "John Smith", fi.docs[0].FullName)
	assert.NotEmpty(t, fi.docs[0].IndexedAt)
}

func TestExecuteIndexFailureIsNonFatal(t *testing.T) {
	fa := &fakeAssigner{}
	fi := &fakeIndexer{err: errors.New("es unavailable")}
	h := NewHandler(LoadConfig(), fa, fi, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), validInput())
	require.NoError(t, err)
	assert.True(t, output.Assigned)
	assert.False(t, output.Indexed)
}

func TestExecuteWithoutIndexer(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeAssigner{}, nil, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), validInput())
	require.NoError(t, err)
	assert.True(t, output.Assigned)
	assert.False(t, output.Indexed)
}

func TestExecuteMissingRequiredFields(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeAssigner{}, nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{FileName: "resume.pdf"})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestExecuteAssignmentErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"invalid format", assigner.ErrInvalidFormat, "CANDIDATE_ID_INVALID_FORMAT"},
		{"duplicate id", assigner.ErrAlreadyExists, "CANDIDATE_ID_ALREADY_EXISTS"},
		{"file already mapped", assigner.ErrFileAlreadyMapped, "FILE_ALREADY_MAPPED"},
		{"persist failed", assigner.ErrPersistFailed, "MAPPING_PERSIST_FAILED"},
		{"unknown", errors.New("boom"), "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := &fakeAssigner{err: tt.err}
			h := NewHandler(LoadConfig(), fa, nil, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), validInput())
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, mapErrorToCode(err))
		})
	}
}
