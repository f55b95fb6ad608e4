// cmd/tools/match-export/main.go

// match-export runs the CV matcher against the live form responses and Drive
// folder, then writes the ranked matches to an Excel workbook for manual
// review.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"brv-workers/internal/common/config"
	"brv-workers/internal/common/drive"
	"brv-workers/internal/common/logger"
	"brv-workers/internal/common/sheets"
	"brv-workers/internal/export"
	"brv-workers/internal/matcher"
)

func main() {
	output := flag.String("o", "match-review.xlsx", "output workbook path")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sheetsClient, err := sheets.NewClient(ctx, cfg.Google.CredentialsFile, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sheets client init failed: %v\n", err)
		os.Exit(1)
	}

	driveClient, err := drive.NewClient(ctx, cfg.Google.CredentialsFile, cfg.Google.DriveFolderID, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drive client init failed: %v\n", err)
		os.Exit(1)
	}

	submissions, err := sheetsClient.FetchResponses(ctx, cfg.Google.ResponseSheetID, cfg.Google.ResponseRange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "form response fetch failed: %v\n", err)
		os.Exit(1)
	}

	files, err := driveClient.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drive listing failed: %v\n", err)
		os.Exit(1)
	}

	matches, report := matcher.MatchWithReport(submissions, files, matcher.Config{
		TimeWeight:       cfg.Matcher.TimeWeight,
		EmailWeight:      cfg.Matcher.EmailWeight,
		NameWeight:       cfg.Matcher.NameWeight,
		ConfidenceFloor:  cfg.Matcher.ConfidenceFloor,
		MaxTimeDiffHours: cfg.Matcher.MaxTimeDiffHours,
	})

	if report.MissingColumn != "" {
		fmt.Fprintf(os.Stderr, "required column not found in form responses: %s\n", report.MissingColumn)
		os.Exit(1)
	}

	if err := export.MatchReviewWorkbook(matches, *output); err != nil {
		fmt.Fprintf(os.Stderr, "workbook write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Submissions:         %d\n", len(submissions))
	fmt.Printf("CV files:            %d\n", len(files))
	fmt.Printf("Skipped submissions: %d\n", report.SubmissionsSkipped)
	fmt.Printf("Workbook written to %s\n", *output)
}
