// internal/matcher/matcher.go

// Package matcher links form submissions to uploaded CV files using weak
// signals: upload-time proximity, email-in-filename, and name similarity.
// No shared key exists between the two collections, so every association is
// a scored guess for a human to confirm.
package matcher

import (
	"sort"
	"strings"
	"time"

	"brv-workers/internal/models"
)

// Config holds the scoring weights and thresholds. Weights are a deliberate
// ordering: time proximity dominates, email-in-filename is a strong but rare
// signal, and name similarity is the weakest because CV filenames rarely
// match form-entered full names verbatim.
type Config struct {
	TimeWeight       float64
	EmailWeight      float64
	NameWeight       float64
	ConfidenceFloor  float64
	MaxTimeDiffHours float64
}

// DefaultConfig returns the standard matcher configuration.
func DefaultConfig() Config {
	return Config{
		TimeWeight:       0.6,
		EmailWeight:      0.3,
		NameWeight:       0.1,
		ConfidenceFloor:  0.3,
		MaxTimeDiffHours: 24,
	}
}

// Report describes why a run produced the output it did, so callers can
// distinguish "no data" from "schema mismatch".
type Report struct {
	NameColumn         string `json:"nameColumn,omitempty"`
	EmailColumn        string `json:"emailColumn,omitempty"`
	TimestampColumn    string `json:"timestampColumn,omitempty"`
	MissingColumn      string `json:"missingColumn,omitempty"`
	SubmissionsSkipped int    `json:"submissionsSkipped"`
}

// Match scores every submission against every file and returns, per
// submission with at least one candidate above the confidence floor, the
// candidates ranked by confidence descending. Submissions with no qualifying
// candidate are omitted entirely. The function is pure: it performs no I/O
// and never consults the current time.
func Match(submissions []models.FormSubmission, files []models.UploadedFile, cfg Config) []models.SubmissionMatches {
	matches, _ := MatchWithReport(submissions, files, cfg)
	return matches
}

// MatchWithReport is Match plus a Report describing column discovery and
// skipped rows. It never returns an error: malformed rows degrade by
// omission.
func MatchWithReport(submissions []models.FormSubmission, files []models.UploadedFile, cfg Config) ([]models.SubmissionMatches, Report) {
	report := Report{}

	nameCol, emailCol, tsCol := discoverColumns(submissions)
	report.NameColumn = nameCol
	report.EmailColumn = emailCol
	report.TimestampColumn = tsCol

	switch {
	case nameCol == "":
		report.MissingColumn = "name"
	case emailCol == "":
		report.MissingColumn = "email"
	case tsCol == "":
		report.MissingColumn = "timestamp"
	}
	if report.MissingColumn != "" {
		return []models.SubmissionMatches{}, report
	}

	results := []models.SubmissionMatches{}

	for _, sub := range submissions {
		formName := strings.TrimSpace(sub[nameCol])
		formEmail := strings.TrimSpace(sub[emailCol])

		formTime, ok := parseTimestamp(sub[tsCol])
		if !ok {
			report.SubmissionsSkipped++
			continue
		}

		potential := scoreFiles(formName, formEmail, formTime, files, cfg)
		if len(potential) == 0 {
			continue
		}

		sort.SliceStable(potential, func(i, j int) bool {
			return potential[i].Confidence > potential[j].Confidence
		})

		results = append(results, models.SubmissionMatches{
			Submission:       sub,
			PotentialMatches: potential,
		})
	}

	return results, report
}

func scoreFiles(formName, formEmail string, formTime time.Time, files []models.UploadedFile, cfg Config) []models.MatchCandidate {
	var retained []models.MatchCandidate

	for _, file := range files {
		// Prefer the modification time; fall back to creation time.
		fileTime, ok := parseTimestamp(file.ModifiedTime)
		if !ok {
			fileTime, ok = parseTimestamp(file.CreatedTime)
		}
		if !ok {
			continue
		}

		diffHours := formTime.Sub(fileTime).Abs().Hours()
		timeScore := timeDiffScore(diffHours, cfg.MaxTimeDiffHours)
		if timeScore == 0 {
			continue
		}

		nameScore := similarityRatio(formName, file.Name)

		emailInFilename := formEmail != "" &&
			strings.Contains(strings.ToLower(file.Name), strings.ToLower(formEmail))
		emailScore := 0.0
		if emailInFilename {
			emailScore = 1.0
		}

		confidence := timeScore*cfg.TimeWeight + emailScore*cfg.EmailWeight + nameScore*cfg.NameWeight
		if confidence <= cfg.ConfidenceFloor {
			continue
		}

		retained = append(retained, models.MatchCandidate{
			File:                file,
			Confidence:          confidence,
			TimeScore:           timeScore,
			NameScore:           nameScore,
			EmailInFilename:     emailInFilename,
			FormTime:            formTime.UTC().Format(time.RFC3339),
			FileTime:            fileTime.UTC().Format(time.RFC3339),
			TimeDifferenceHours: diffHours,
		})
	}

	return retained
}

// timeDiffScore decays linearly from 1.0 at zero difference to 0.0 at the
// window edge. Files outside the window score 0 and are excluded upstream.
func timeDiffScore(diffHours, maxHours float64) float64 {
	if maxHours <= 0 || diffHours > maxHours {
		return 0
	}
	return 1.0 - diffHours/maxHours
}

// discoverColumns locates the name/email/timestamp columns by
// case-insensitive substring match over the union of all submission field
// names. Discovery is global, not per-row; keys are scanned in sorted order
// so repeated runs see the same schema.
func discoverColumns(submissions []models.FormSubmission) (nameCol, emailCol, tsCol string) {
	seen := map[string]bool{}
	var keys []string
	for _, sub := range submissions {
		for k := range sub {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		lower := strings.ToLower(k)
		switch {
		case nameCol == "" && strings.Contains(lower, "name"):
			nameCol = k
		case emailCol == "" && strings.Contains(lower, "email"):
			emailCol = k
		case tsCol == "" && strings.Contains(lower, "timestamp"):
			tsCol = k
		}
	}
	return nameCol, emailCol, tsCol
}

// timestampLayouts covers the formats seen across the form sheet and the
// Drive API.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"1/2/2006 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
