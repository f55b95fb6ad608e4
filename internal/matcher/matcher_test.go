// internal/matcher/matcher_test.go
package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brv-workers/internal/models"
)

func submission(name, email, ts string) models.FormSubmission {
	return models.FormSubmission{
		"Full Name":     name,
		"Email Address": email,
		"Timestamp":     ts,
	}
}

func TestMatchCloseUploadScoresHigh(t *testing.T) {
	subs := []models.FormSubmission{
		submission("John Smith", "john.smith@example.com", "2025-07-19 10:00:00"),
	}
	files := []models.UploadedFile{
		{ID: "f1", Name: "John_Smith_Resume.pdf", CreatedTime: "2025-07-19T10:05:00Z"},
	}

	results := Match(subs, files, DefaultConfig())

	require.Len(t, results, 1)
	require.Len(t, results[0].PotentialMatches, 1)

	// time score 287/288 weighted 0.6, name ratio 18/31 weighted 0.1
	top := results[0].PotentialMatches[0]
	assert.Equal(t, "f1", top.File.ID)
	assert.InDelta(t, 0.656, top.Confidence, 0.001)
	assert.Greater(t, top.TimeScore, 0.99)
	assert.False(t, top.EmailInFilename)
	assert.InDelta(t, 5.0/60.0, top.TimeDifferenceHours, 0.001)
}

func TestMatchEmailInFilename(t *testing.T) {
	subs := []models.FormSubmission{
		submission("Maria Garcia", "maria.garcia@example.com", "2025-07-19 09:00:00"),
	}
	files := []models.UploadedFile{
		{ID: "f1", Name: "cv_maria.garcia@example.com.pdf", ModifiedTime: "2025-07-19T11:00:00Z"},
	}

	results := Match(subs, files, DefaultConfig())

	require.Len(t, results, 1)
	top := results[0].PotentialMatches[0]
	assert.True(t, top.EmailInFilename)
	// time score (1 - 2/24) * 0.6 plus the full email weight
	assert.Greater(t, top.Confidence, 0.8)
}

func TestMatchRanksCloserUploadFirst(t *testing.T) {
	subs := []models.FormSubmission{
		submission("John Smith", "john.smith@example.com", "2025-07-19 10:00:00"),
	}
	files := []models.UploadedFile{
		{ID: "far", Name: "John_Smith_CV.pdf", CreatedTime: "2025-07-19T15:00:00Z"},
		{ID: "near", Name: "John_Smith_CV.pdf", CreatedTime: "2025-07-19T10:05:00Z"},
	}

	results := Match(subs, files, DefaultConfig())

	require.Len(t, results, 1)
	require.Len(t, results[0].PotentialMatches, 2)
	assert.Equal(t, "near", results[0].PotentialMatches[0].File.ID)
	assert.Equal(t, "far", results[0].PotentialMatches[1].File.ID)
	assert.Greater(t,
		results[0].PotentialMatches[0].Confidence,
		results[0].PotentialMatches[1].Confidence)
}

func TestMatchExcludesFilesOutsideTimeWindow(t *testing.T) {
	subs := []models.FormSubmission{
		submission("John Smith", "john.smith@example.com", "2025-07-19 10:00:00"),
	}
	files := []models.UploadedFile{
		// 30 hours after the submission, outside the 24h window
		{ID: "f1", Name: "John_Smith_Resume.pdf", CreatedTime: "2025-07-20T16:00:00Z"},
	}

	results := Match(subs, files, DefaultConfig())
	assert.Empty(t, results)
}

func TestMatchOmitsSubmissionsBelowFloor(t *testing.T) {
	subs := []models.FormSubmission{
		submission("Alice Wong", "alice@example.com", "2025-07-19 10:00:00"),
	}
	files := []models.UploadedFile{
		// 23h away and a dissimilar filename: time score ~0.042 keeps the
		// weighted total under the 0.3 floor
		{ID: "f1", Name: "zzzz.pdf", CreatedTime: "2025-07-20T09:00:00Z"},
	}

	results := Match(subs, files, DefaultConfig())
	assert.Empty(t, results)
}

func TestMatchEmptyInputs(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, Match(nil, []models.UploadedFile{{ID: "f1", Name: "x.pdf", CreatedTime: "2025-07-19T10:00:00Z"}}, cfg))
	assert.Empty(t, Match([]models.FormSubmission{submission("A", "a@b.c", "2025-07-19 10:00:00")}, nil, cfg))
	assert.Empty(t, Match(nil, nil, cfg))
}

func TestMatchWithReportMissingEmailColumn(t *testing.T) {
	subs := []models.FormSubmission{
		{"Full Name": "John Smith", "Timestamp": "2025-07-19 10:00:00"},
	}
	files := []models.UploadedFile{
		{ID: "f1", Name: "John_Smith_Resume.pdf", CreatedTime: "2025-07-19T10:05:00Z"},
	}

	results, report := MatchWithReport(subs, files, DefaultConfig())

	assert.Empty(t, results)
	assert.Equal(t, "email", report.MissingColumn)
	assert.Equal(t, "Full Name", report.NameColumn)
}

func TestMatchWithReportSkipsUnparsableTimestamps(t *testing.T) {
	subs := []models.FormSubmission{
		submission("John Smith", "john.smith@example.com", "not a date"),
		submission("Jane Doe", "jane.doe@example.com", "2025-07-19 10:00:00"),
	}
	files := []models.UploadedFile{
		{ID: "f1", Name: "Jane_Doe_CV.pdf", CreatedTime: "2025-07-19T10:10:00Z"},
	}

	results, report := MatchWithReport(subs, files, DefaultConfig())

	require.Len(t, results, 1)
	assert.Equal(t, "Jane Doe", results[0].Submission["Full Name"])
	assert.Equal(t, 1, report.SubmissionsSkipped)
}

func TestMatchFallsBackToCreatedTime(t *testing.T) {
	subs := []models.FormSubmission{
		submission("John Smith", "john.smith@example.com", "2025-07-19 10:00:00"),
	}
	files := []models.UploadedFile{
		{ID: "f1", Name: "John_Smith_Resume.pdf", ModifiedTime: "", CreatedTime: "2025-07-19T10:30:00Z"},
		{ID: "f2", Name: "John_Smith_Resume.pdf"}, // no usable timestamp at all
	}

	results := Match(subs, files, DefaultConfig())

	require.Len(t, results, 1)
	require.Len(t, results[0].PotentialMatches, 1)
	assert.Equal(t, "f1", results[0].PotentialMatches[0].File.ID)
}

func TestMatchDeterministicColumnDiscovery(t *testing.T) {
	// Two plausible name columns; sorted-key scanning must pick the same one
	// on every run.
	subs := []models.FormSubmission{
		{
			"Applicant Name": "John Smith",
			"Nickname":       "Johnny",
			"Email Address":  "john.smith@example.com",
			"Timestamp":      "2025-07-19 10:00:00",
		},
	}
	files := []models.UploadedFile{
		{ID: "f1", Name: "John_Smith_Resume.pdf", CreatedTime: "2025-07-19T10:05:00Z"},
	}

	first := Match(subs, files, DefaultConfig())
	require.Len(t, first, 1)
	for i := 0; i < 20; i++ {
		again := Match(subs, files, DefaultConfig())
		assert.Equal(t, first, again)
	}
}

func TestTimeDiffScore(t *testing.T) {
	tests := []struct {
		name      string
		diffHours float64
		maxHours  float64
		want      float64
	}{
		{"exact upload time", 0, 24, 1.0},
		{"halfway through window", 12, 24, 0.5},
		{"at window edge", 24, 24, 0.0},
		{"beyond window", 30, 24, 0.0},
		{"zero window", 1, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, timeDiffScore(tt.diffHours, tt.maxHours), 0.0001)
		})
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"2025-07-19T10:00:00Z", true},
		{"2025-07-19 10:00:00", true},
		{"2025-07-19T10:00:00.123Z", true},
		{"7/19/2025 10:00:00", true},
		{"2025-07-19", true},
		{"", false},
		{"yesterday", false},
	}

	for _, tt := range tests {
		_, ok := parseTimestamp(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
	}
}
