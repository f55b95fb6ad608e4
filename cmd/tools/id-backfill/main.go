// cmd/tools/id-backfill/main.go

// id-backfill sweeps the shared CV folder and assigns sequential candidate
// IDs to every file that has no identity mapping yet. Safe to rerun: mapped
// files are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"brv-workers/internal/assigner"
	"brv-workers/internal/common/config"
	"brv-workers/internal/common/database"
	"brv-workers/internal/common/drive"
	"brv-workers/internal/common/logger"
	"brv-workers/internal/common/sheets"
	"brv-workers/internal/storage"
)

func main() {
	auto := flag.Bool("auto", true, "auto-generate IDs for unmapped files (false only reports)")
	dryRun := flag.Bool("dry-run", false, "list what would be assigned without writing anything")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
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

	driveClient, err := drive.NewClient(ctx, cfg.Google.CredentialsFile, cfg.Google.DriveFolderID, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drive client init failed: %v\n", err)
		os.Exit(1)
	}

	mappingStore, cleanup, err := buildMappingStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapping store init failed: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	idAssigner := assigner.New(driveClient, mappingStore, assigner.Config{
		IDPrefix:    cfg.Assigner.IDPrefix,
		RenameFiles: cfg.Assigner.RenameFiles,
	}, log)

	autoGenerate := *auto && !*dryRun
	result, err := idAssigner.AssignAll(ctx, autoGenerate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sweep failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Files in folder:   %d\n", result.FilesSeen)
	fmt.Printf("Already mapped:    %d\n", result.AlreadyMapped)
	if *dryRun || !*auto {
		fmt.Printf("Would assign:      %d\n", result.Skipped)
		return
	}
	fmt.Printf("Newly assigned:    %d\n", result.Assigned)
	for _, m := range result.NewMappings {
		fmt.Printf("  %s  ->  %s\n", m.CandidateID, m.FileName)
	}
}

func buildMappingStore(ctx context.Context, cfg *config.Config, log logger.Logger) (assigner.MappingStore, func(), error) {
	if cfg.Assigner.MappingStore == "sheets" {
		sheetsClient, err := sheets.NewClient(ctx, cfg.Google.CredentialsFile, log)
		if err != nil {
			return nil, nil, err
		}
		store := storage.NewSheetsMappingStore(
			sheetsClient.Service(), cfg.Google.MappingSheetID, cfg.Google.MappingSheetName, log)
		if err := store.EnsureSheet(ctx); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return storage.NewPostgresMappingStore(pg.DB, log), func() { pg.Close() }, nil
}
