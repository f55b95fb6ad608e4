// internal/export/excel.go

// Package export renders matcher output as an Excel workbook for the review
// team, who confirm or reject the proposed associations by hand.
package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"brv-workers/internal/models"
)

// MatchReviewWorkbook writes one workbook with a summary sheet and a
// flattened sheet of every proposed match, highest confidence first within
// each submission.
func MatchReviewWorkbook(matches []models.SubmissionMatches, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	summarySheet := "Summary"
	matchSheet := "Proposed Matches"

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(matchSheet); err != nil {
		return fmt.Errorf("create match sheet: %w", err)
	}

	if err := writeSummarySheet(f, summarySheet, matches); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}
	if err := writeMatchSheet(f, matchSheet, matches); err != nil {
		return fmt.Errorf("write match sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, matches []models.SubmissionMatches) error {
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 20)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	totalCandidates := 0
	for _, m := range matches {
		totalCandidates += len(m.PotentialMatches)
	}

	f.SetCellValue(sheet, "A1", "CV Match Review")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	f.MergeCell(sheet, "A1", "B1")

	f.SetCellValue(sheet, "A3", "Submissions with matches")
	f.SetCellValue(sheet, "B3", len(matches))
	f.SetCellValue(sheet, "A4", "Proposed file matches")
	f.SetCellValue(sheet, "B4", totalCandidates)

	return nil
}

func writeMatchSheet(f *excelize.File, sheet string, matches []models.SubmissionMatches) error {
	headers := []string{
		"Submission Name", "Submission Email", "Form Time",
		"File Name", "File ID", "File Time",
		"Confidence", "Time Score", "Name Score", "Email In Filename",
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	f.SetColWidth(sheet, "A", "F", 28)
	f.SetColWidth(sheet, "G", "J", 16)

	row := 2
	for _, sm := range matches {
		name, email := submissionIdentity(sm.Submission)
		for _, c := range sm.PotentialMatches {
			values := []interface{}{
				name, email, c.FormTime,
				c.File.Name, c.File.ID, c.FileTime,
				c.Confidence, c.TimeScore, c.NameScore, c.EmailInFilename,
			}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return err
				}
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	return nil
}

// submissionIdentity pulls the display name and email out of a submission
// using the same loose column matching the matcher itself applies.
func submissionIdentity(sub models.FormSubmission) (name, email string) {
	var keys []string
	for k := range sub {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		lower := strings.ToLower(k)
		switch {
		case name == "" && strings.Contains(lower, "name"):
			name = sub[k]
		case email == "" && strings.Contains(lower, "email"):
			email = sub[k]
		}
	}
	return name, email
}
