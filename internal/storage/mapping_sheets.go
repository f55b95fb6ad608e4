// internal/storage/mapping_sheets.go
package storage

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"brv-workers/internal/common/logger"
	"brv-workers/internal/models"
)

// Mapping sheet columns, in order.
var mappingHeader = []interface{}{"Candidate ID", "File Name", "Google Drive File ID", "Assigned At"}

// SheetsMappingStore keeps identity mappings as rows of a Google Sheet, one
// mapping per row under a fixed header. It offers no concurrency control
// beyond what the Sheets API provides; callers serialize their own writes.
type SheetsMappingStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	log           logger.Logger
}

func NewSheetsMappingStore(svc *sheets.Service, spreadsheetID, sheetName string, log logger.Logger) *SheetsMappingStore {
	return &SheetsMappingStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		log:           log,
	}
}

// EnsureSheet creates the mapping worksheet with its header row if it does
// not exist yet.
func (s *SheetsMappingStore) EnsureSheet(ctx context.Context) error {
	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}

	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.sheetName {
			return nil
		}
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: s.sheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet %q: %w", s.sheetName, err)
	}

	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.sheetName+"!A1",
		&sheets.ValueRange{Values: [][]interface{}{mappingHeader}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	s.log.Info("created mapping worksheet", map[string]interface{}{"sheet": s.sheetName})
	return nil
}

func (s *SheetsMappingStore) List(ctx context.Context) ([]models.IdentityMapping, error) {
	readRange := fmt.Sprintf("%s!A2:D", s.sheetName)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read mapping rows: %w", err)
	}

	var mappings []models.IdentityMapping
	for _, row := range resp.Values {
		m := models.IdentityMapping{
			CandidateID: cellString(row, 0),
			FileName:    cellString(row, 1),
			FileID:      cellString(row, 2),
			AssignedAt:  cellString(row, 3),
		}
		if m.CandidateID == "" && m.FileID == "" {
			continue
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

func (s *SheetsMappingStore) Append(ctx context.Context, m models.IdentityMapping) error {
	row := []interface{}{m.CandidateID, m.FileName, m.FileID, m.AssignedAt}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.sheetName+"!A1",
		&sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append mapping row: %w", err)
	}

	s.log.Debug("mapping persisted", map[string]interface{}{
		"candidateId": m.CandidateID,
		"fileId":      m.FileID,
	})
	return nil
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, _ := row[idx].(string)
	return s
}
