// internal/assigner/assigner_test.go
package assigner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brv-workers/internal/common/logger"
	"brv-workers/internal/models"
)

type fakeFileStore struct {
	files     []models.UploadedFile
	renameErr error
	renamed   map[string]string
}

func (f *fakeFileStore) List(_ context.Context) ([]models.UploadedFile, error) {
	return f.files, nil
}

func (f *fakeFileStore) Rename(_ context.Context, fileID, newName string) (string, error) {
	if f.renameErr != nil {
		return "", f.renameErr
	}
	if f.renamed == nil {
		f.renamed = map[string]string{}
	}
	f.renamed[fileID] = newName
	return newName, nil
}

type fakeMappingStore struct {
	mappings  []models.IdentityMapping
	appendErr error
}

func (s *fakeMappingStore) List(_ context.Context) ([]models.IdentityMapping, error) {
	return s.mappings, nil
}

func (s *fakeMappingStore) Append(_ context.Context, m models.IdentityMapping) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.mappings = append(s.mappings, m)
	return nil
}

func newTestAssigner(files *fakeFileStore, mappings *fakeMappingStore, rename bool) *Assigner {
	return New(files, mappings, Config{IDPrefix: "CAND", RenameFiles: rename}, logger.NewNoOpLogger())
}

func TestValidateCandidateID(t *testing.T) {
	a := newTestAssigner(&fakeFileStore{}, &fakeMappingStore{}, false)

	tests := []struct {
		id    string
		valid bool
	}{
		{"CAND-0001", true},
		{"CAND-9999", true},
		{"CAND-001", false},
		{"CAND-12345", false},
		{"cand-0001", false},
		{"BRV-0001", false},
		{"CAND-0001x", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, a.ValidateCandidateID(tt.id), "id=%q", tt.id)
	}
}

func TestNextCandidateID(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"no existing IDs", nil, "CAND-0001"},
		{"sequential", []string{"CAND-0001", "CAND-0002"}, "CAND-0003"},
		{"gaps are not refilled", []string{"CAND-0001", "CAND-0007"}, "CAND-0008"},
		{"unparsable IDs ignored", []string{"bogus", "CAND-x", "CAND-0004"}, "CAND-0005"},
		{"only unparsable IDs", []string{"bogus", ""}, "CAND-0001"},
		{"zero padding", []string{"CAND-0009"}, "CAND-0010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextCandidateID("CAND", tt.existing))
		})
	}
}

func TestAssignRenamesAndPersists(t *testing.T) {
	files := &fakeFileStore{}
	mappings := &fakeMappingStore{}
	a := newTestAssigner(files, mappings, true)

	err := a.Assign(context.Background(), "file-1", "John_Smith_Resume.pdf", "CAND-0001")
	require.NoError(t, err)

	assert.Equal(t, "BRV-CID-CAND-0001.pdf", files.renamed["file-1"])
	require.Len(t, mappings.mappings, 1)
	m := mappings.mappings[0]
	assert.Equal(t, "CAND-0001", m.CandidateID)
	assert.Equal(t, "BRV-CID-CAND-0001.pdf", m.FileName)
	assert.Equal(t, "file-1", m.FileID)
	assert.NotEmpty(t, m.AssignedAt)
}

func TestAssignRenameFailureKeepsOriginalName(t *testing.T) {
	files := &fakeFileStore{renameErr: errors.New("storage unavailable")}
	mappings := &fakeMappingStore{}
	a := newTestAssigner(files, mappings, true)

	err := a.Assign(context.Background(), "file-1", "John_Smith_Resume.pdf", "CAND-0001")
	require.NoError(t, err)

	require.Len(t, mappings.mappings, 1)
	assert.Equal(t, "John_Smith_Resume.pdf", mappings.mappings[0].FileName)
}

func TestAssignSkipsRenameWhenDisabled(t *testing.T) {
	files := &fakeFileStore{}
	mappings := &fakeMappingStore{}
	a := newTestAssigner(files, mappings, false)

	require.NoError(t, a.Assign(context.Background(), "file-1", "resume.docx", "CAND-0001"))
	assert.Empty(t, files.renamed)
	assert.Equal(t, "resume.docx", mappings.mappings[0].FileName)
}

func TestAssignInvalidFormat(t *testing.T) {
	a := newTestAssigner(&fakeFileStore{}, &fakeMappingStore{}, false)

	err := a.Assign(context.Background(), "file-1", "resume.pdf", "CAND-12")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestAssignFileAlreadyMapped(t *testing.T) {
	mappings := &fakeMappingStore{mappings: []models.IdentityMapping{
		{CandidateID: "CAND-0001", FileName: "resume.pdf", FileID: "file-1"},
	}}
	a := newTestAssigner(&fakeFileStore{}, mappings, false)

	err := a.Assign(context.Background(), "file-1", "resume.pdf", "CAND-0002")
	assert.ErrorIs(t, err, ErrFileAlreadyMapped)
	assert.Len(t, mappings.mappings, 1)
}

func TestAssignDuplicateCandidateID(t *testing.T) {
	mappings := &fakeMappingStore{mappings: []models.IdentityMapping{
		{CandidateID: "CAND-0001", FileName: "other.pdf", FileID: "file-9"},
	}}
	a := newTestAssigner(&fakeFileStore{}, mappings, false)

	err := a.Assign(context.Background(), "file-1", "resume.pdf", "CAND-0001")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAssignPersistFailure(t *testing.T) {
	mappings := &fakeMappingStore{appendErr: errors.New("sheet write quota exceeded")}
	a := newTestAssigner(&fakeFileStore{}, mappings, false)

	err := a.Assign(context.Background(), "file-1", "resume.pdf", "CAND-0001")
	assert.ErrorIs(t, err, ErrPersistFailed)
}

func TestAssignAllSweep(t *testing.T) {
	files := &fakeFileStore{files: []models.UploadedFile{
		{ID: "file-1", Name: "a.pdf"},
		{ID: "file-2", Name: "b.pdf"},
		{ID: "file-3", Name: "c.pdf"},
	}}
	mappings := &fakeMappingStore{mappings: []models.IdentityMapping{
		{CandidateID: "CAND-0004", FileName: "a.pdf", FileID: "file-1"},
	}}
	a := newTestAssigner(files, mappings, true)

	result, err := a.AssignAll(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 3, result.FilesSeen)
	assert.Equal(t, 1, result.AlreadyMapped)
	assert.Equal(t, 2, result.Assigned)
	require.Len(t, result.NewMappings, 2)
	assert.Equal(t, "CAND-0005", result.NewMappings[0].CandidateID)
	assert.Equal(t, "CAND-0006", result.NewMappings[1].CandidateID)

	// sweeps never rename, even with renaming configured on
	assert.Empty(t, files.renamed)

	// a second sweep finds nothing left to assign
	again, err := a.AssignAll(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, again.AlreadyMapped)
	assert.Equal(t, 0, again.Assigned)
}

func TestAssignAllWithoutAutoGenerate(t *testing.T) {
	files := &fakeFileStore{files: []models.UploadedFile{
		{ID: "file-1", Name: "a.pdf"},
		{ID: "file-2", Name: "b.pdf"},
	}}
	mappings := &fakeMappingStore{}
	a := newTestAssigner(files, mappings, false)

	result, err := a.AssignAll(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 0, result.Assigned)
	assert.Empty(t, mappings.mappings)
}
