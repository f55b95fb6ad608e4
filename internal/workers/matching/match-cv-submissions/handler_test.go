// internal/workers/matching/match-cv-submissions/handler_test.go
package matchcvsubmissions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brv-workers/internal/common/logger"
	"brv-workers/internal/models"
)

type fakeResponses struct {
	subs  []models.FormSubmission
	err   error
	calls int
}

func (f *fakeResponses) FetchResponses(_ context.Context, _, _ string) ([]models.FormSubmission, error) {
	f.calls++
	return f.subs, f.err
}

type fakeFiles struct {
	files []models.UploadedFile
	err   error
}

func (f *fakeFiles) List(_ context.Context) ([]models.UploadedFile, error) {
	return f.files, f.err
}

type fakeCache struct {
	subs   []models.FormSubmission
	found  bool
	getErr error
	stored []models.FormSubmission
}

func (c *fakeCache) Get(_ context.Context) ([]models.FormSubmission, bool, error) {
	return c.subs, c.found, c.getErr
}

func (c *fakeCache) Set(_ context.Context, subs []models.FormSubmission) error {
	c.stored = subs
	return nil
}

func testSubmissions() []models.FormSubmission {
	return []models.FormSubmission{
		{
			"Full Name":     "John Smith",
			"Email Address": "john.smith@example.com",
			"Timestamp":     "2025-07-19 10:00:00",
		},
	}
}

func testFiles() []models.UploadedFile {
	return []models.UploadedFile{
		{ID: "file-1", Name: "John_Smith_Resume.pdf", CreatedTime: "2025-07-19T10:05:00Z"},
	}
}

func newHandlerForTest(t *testing.T, responses *fakeResponses, files *fakeFiles, cache ResponseCache) *Handler {
	return NewHandler(LoadConfig(), responses, files, cache, logger.NewTestLogger(t))
}

func TestExecuteMatchesSubmissionsToFiles(t *testing.T) {
	h := newHandlerForTest(t,
		&fakeResponses{subs: testSubmissions()},
		&fakeFiles{files: testFiles()},
		nil)

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, 1, output.SubmissionCount)
	assert.Equal(t, 1, output.FileCount)
	assert.False(t, output.FromCache)
	require.Len(t, output.Matches, 1)
	require.Len(t, output.Matches[0].PotentialMatches, 1)
	assert.Equal(t, "file-1", output.Matches[0].PotentialMatches[0].File.ID)
}

func TestExecuteUsesCacheWhenWarm(t *testing.T) {
	responses := &fakeResponses{subs: testSubmissions()}
	cache := &fakeCache{subs: testSubmissions(), found: true}
	h := newHandlerForTest(t, responses, &fakeFiles{files: testFiles()}, cache)

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.True(t, output.FromCache)
	assert.Zero(t, responses.calls)
}

func TestExecuteSkipCacheForcesFetch(t *testing.T) {
	responses := &fakeResponses{subs: testSubmissions()}
	cache := &fakeCache{subs: testSubmissions(), found: true}
	h := newHandlerForTest(t, responses, &fakeFiles{files: testFiles()}, cache)

	output, err := h.Execute(context.Background(), &Input{SkipCache: true})
	require.NoError(t, err)

	assert.False(t, output.FromCache)
	assert.Equal(t, 1, responses.calls)
	assert.Equal(t, testSubmissions(), cache.stored)
}

func TestExecuteCacheReadErrorFallsBackToFetch(t *testing.T) {
	responses := &fakeResponses{subs: testSubmissions()}
	cache := &fakeCache{getErr: errors.New("redis down")}
	h := newHandlerForTest(t, responses, &fakeFiles{files: testFiles()}, cache)

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.False(t, output.FromCache)
	assert.Equal(t, 1, responses.calls)
}

func TestExecuteFormFetchError(t *testing.T) {
	h := newHandlerForTest(t,
		&fakeResponses{err: errors.New("sheet quota exceeded")},
		&fakeFiles{files: testFiles()},
		nil)

	_, err := h.Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrFormFetchFailed)
}

func TestExecuteDriveListError(t *testing.T) {
	h := newHandlerForTest(t,
		&fakeResponses{subs: testSubmissions()},
		&fakeFiles{err: errors.New("folder not accessible")},
		nil)

	_, err := h.Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrDriveListFailed)
}

func TestExecuteMissingColumnReportsAndCompletes(t *testing.T) {
	subs := []models.FormSubmission{
		{"Full Name": "John Smith", "Timestamp": "2025-07-19 10:00:00"},
	}
	h := newHandlerForTest(t,
		&fakeResponses{subs: subs},
		&fakeFiles{files: testFiles()},
		nil)

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Empty(t, output.Matches)
	assert.Equal(t, "email", output.Report.MissingColumn)
}
