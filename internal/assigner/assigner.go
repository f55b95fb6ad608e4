// internal/assigner/assigner.go

// Package assigner turns a human-confirmed (or auto-generated) candidate ID
// into a durable identity mapping: it validates the ID, optionally renames
// the stored CV file to embed the ID, and appends the mapping to the store.
package assigner

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"brv-workers/internal/common/logger"
	"brv-workers/internal/models"
)

var (
	ErrInvalidFormat     = errors.New("CANDIDATE_ID_INVALID_FORMAT")
	ErrAlreadyExists     = errors.New("CANDIDATE_ID_ALREADY_EXISTS")
	ErrFileAlreadyMapped = errors.New("FILE_ALREADY_MAPPED")
	ErrPersistFailed     = errors.New("MAPPING_PERSIST_FAILED")
)

// FileStore is the slice of the file storage service the assigner needs.
type FileStore interface {
	List(ctx context.Context) ([]models.UploadedFile, error)
	// Rename changes the stored file's display name and returns the name the
	// store actually recorded.
	Rename(ctx context.Context, fileID, newName string) (string, error)
}

// MappingStore persists candidate-ID-to-file associations.
type MappingStore interface {
	List(ctx context.Context) ([]models.IdentityMapping, error)
	Append(ctx context.Context, mapping models.IdentityMapping) error
}

// Config controls ID format and rename behavior.
type Config struct {
	IDPrefix    string
	RenameFiles bool
}

// SweepResult summarizes one AssignAll pass.
type SweepResult struct {
	FilesSeen     int                      `json:"filesSeen"`
	AlreadyMapped int                      `json:"alreadyMapped"`
	Skipped       int                      `json:"skipped"`
	Assigned      int                      `json:"assigned"`
	NewMappings   []models.IdentityMapping `json:"newMappings,omitempty"`
}

type Assigner struct {
	files    FileStore
	mappings MappingStore
	cfg      Config
	idFormat *regexp.Regexp
	log      logger.Logger
	now      func() time.Time
}

func New(files FileStore, mappings MappingStore, cfg Config, log logger.Logger) *Assigner {
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "CAND"
	}
	return &Assigner{
		files:    files,
		mappings: mappings,
		cfg:      cfg,
		idFormat: regexp.MustCompile(`^` + regexp.QuoteMeta(cfg.IDPrefix) + `-\d{4}$`),
		log:      log,
		now:      time.Now,
	}
}

// ValidateCandidateID reports whether id matches the required format: the
// configured prefix, a dash, and exactly four digits.
func (a *Assigner) ValidateCandidateID(id string) bool {
	return a.idFormat.MatchString(id)
}

// NextCandidateID generates the next sequential ID from the existing ones:
// highest numeric suffix plus one, zero-padded to four digits. IDs that do
// not parse are ignored; if none parse, numbering restarts at 0001.
func NextCandidateID(prefix string, existing []string) string {
	suffix := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-(\d+)`)

	highest := 0
	for _, id := range existing {
		m := suffix.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	return fmt.Sprintf("%s-%04d", prefix, highest+1)
}

// Assign records candidateID against the given file. The rename step is best
// effort: a storage failure there is logged and the original filename is kept
// in the mapping. Every other step failing aborts the assignment.
func (a *Assigner) Assign(ctx context.Context, fileID, fileName, candidateID string) error {
	if !a.ValidateCandidateID(candidateID) {
		return fmt.Errorf("%w: %q does not match %s-NNNN", ErrInvalidFormat, candidateID, a.cfg.IDPrefix)
	}

	existing, err := a.mappings.List(ctx)
	if err != nil {
		return fmt.Errorf("listing existing mappings: %w", err)
	}

	for _, m := range existing {
		if m.FileID == fileID {
			return fmt.Errorf("%w: file %s already assigned %s", ErrFileAlreadyMapped, fileID, m.CandidateID)
		}
	}
	for _, m := range existing {
		if m.CandidateID == candidateID {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, candidateID)
		}
	}

	if a.cfg.RenameFiles {
		newName := renamedFileName(candidateID, fileName)
		recorded, err := a.files.Rename(ctx, fileID, newName)
		if err != nil {
			a.log.Warn("file rename failed, keeping original name", map[string]interface{}{
				"fileId": fileID,
				"error":  err.Error(),
			})
		} else {
			fileName = recorded
		}
	}

	mapping := models.IdentityMapping{
		CandidateID: candidateID,
		FileName:    fileName,
		FileID:      fileID,
		AssignedAt:  a.now().UTC().Format(time.RFC3339),
	}
	if err := a.mappings.Append(ctx, mapping); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	a.log.Info("candidate ID assigned", map[string]interface{}{
		"candidateId": candidateID,
		"fileId":      fileID,
		"fileName":    fileName,
	})
	return nil
}

// AssignAll sweeps the file store and assigns sequential IDs to every file
// without a mapping. Files already mapped are skipped, which makes the sweep
// idempotent. With autoGenerate false the sweep only reports what it would
// have assigned. Files are never renamed during a sweep.
func (a *Assigner) AssignAll(ctx context.Context, autoGenerate bool) (*SweepResult, error) {
	existing, err := a.mappings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing existing mappings: %w", err)
	}

	mappedFiles := make(map[string]string, len(existing))
	existingIDs := make([]string, 0, len(existing))
	for _, m := range existing {
		mappedFiles[m.FileID] = m.CandidateID
		existingIDs = append(existingIDs, m.CandidateID)
	}

	files, err := a.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	result := &SweepResult{FilesSeen: len(files)}

	for _, file := range files {
		if id, ok := mappedFiles[file.ID]; ok {
			a.log.Debug("skipping already mapped file", map[string]interface{}{
				"fileId":      file.ID,
				"candidateId": id,
			})
			result.AlreadyMapped++
			continue
		}

		if !autoGenerate {
			result.Skipped++
			continue
		}

		candidateID := NextCandidateID(a.cfg.IDPrefix, existingIDs)
		mapping := models.IdentityMapping{
			CandidateID: candidateID,
			FileName:    file.Name,
			FileID:      file.ID,
			AssignedAt:  a.now().UTC().Format(time.RFC3339),
		}
		if err := a.mappings.Append(ctx, mapping); err != nil {
			return result, fmt.Errorf("%w: %v", ErrPersistFailed, err)
		}

		mappedFiles[file.ID] = candidateID
		existingIDs = append(existingIDs, candidateID)
		result.Assigned++
		result.NewMappings = append(result.NewMappings, mapping)

		a.log.Info("candidate ID assigned", map[string]interface{}{
			"candidateId": candidateID,
			"fileName":    file.Name,
		})
	}

	return result, nil
}

// renamedFileName embeds the candidate ID in the stored filename, keeping
// the original extension. Files with no extension are assumed to be PDFs.
func renamedFileName(candidateID, originalName string) string {
	ext := path.Ext(originalName)
	if ext == "" || !strings.Contains(originalName, ".") {
		ext = ".pdf"
	}
	return "BRV-CID-" + candidateID + ext
}
