// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"brv-workers/internal/assigner"
	"brv-workers/internal/common/config"
	"brv-workers/internal/common/database"
	"brv-workers/internal/common/drive"
	apperrors "brv-workers/internal/common/errors"
	"brv-workers/internal/common/logger"
	"brv-workers/internal/common/observability"
	"brv-workers/internal/common/sheets"
	"brv-workers/internal/common/validation"
	"brv-workers/internal/matcher"
	"brv-workers/internal/search"
	"brv-workers/internal/storage"
	"brv-workers/pkg/registry"

	qc "brv-workers/internal/workers/data-access/query-candidates"
	aci "brv-workers/internal/workers/matching/assign-candidate-id"
	mcs "brv-workers/internal/workers/matching/match-cv-submissions"
	rfr "brv-workers/internal/workers/matching/refresh-form-responses"
	scn "brv-workers/internal/workers/notification/send-candidate-notification"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Google Workspace clients ---
	driveClient, err := drive.NewClient(ctx, cfg.Google.CredentialsFile, cfg.Google.DriveFolderID, log)
	if err != nil {
		zapLog.Fatal("drive client init failed", zap.Error(err))
	}

	sheetsClient, err := sheets.NewClient(ctx, cfg.Google.CredentialsFile, log)
	if err != nil {
		zapLog.Fatal("sheets client init failed", zap.Error(err))
	}
	zapLog.Info("Google Workspace clients initialized")

	// --- Wire domain components ---
	var mappingStore assigner.MappingStore
	switch cfg.Assigner.MappingStore {
	case "sheets":
		sheetStore := storage.NewSheetsMappingStore(
			sheetsClient.Service(), cfg.Google.MappingSheetID, cfg.Google.MappingSheetName, log)
		if err := sheetStore.EnsureSheet(ctx); err != nil {
			zapLog.Fatal("mapping sheet init failed", zap.Error(err))
		}
		mappingStore = sheetStore
	default:
		mappingStore = storage.NewPostgresMappingStore(pg.DB, log)
	}

	idAssigner := assigner.New(driveClient, mappingStore, assigner.Config{
		IDPrefix:    cfg.Assigner.IDPrefix,
		RenameFiles: cfg.Assigner.RenameFiles,
	}, log)

	candidateIndex := search.NewCandidateIndex(
		esClient.Client, cfg.Database.Elasticsearch.CandidateIndex, log)

	responseCache := storage.NewResponseCache(
		redis.Client, time.Duration(cfg.Database.Redis.CacheTTLSeconds)*time.Second)

	// Activity registry backs job variable validation. Workers still run
	// without it, just unvalidated.
	activityReg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Warn("activity registry not loaded, input validation disabled",
			zap.String("path", cfg.Registry.Path), zap.Error(err))
		activityReg = nil
	}
	errHandler := apperrors.NewErrorHandler(log)

	// --- Register workers ---

	if cfg.Workers[mcs.TaskType].Enabled {
		wc := cfg.Workers[mcs.TaskType]
		handler := mcs.NewHandler(
			&mcs.Config{
				Timeout:       time.Duration(wc.Timeout) * time.Millisecond,
				SpreadsheetID: cfg.Google.ResponseSheetID,
				ReadRange:     cfg.Google.ResponseRange,
				Matcher:       matcherConfig(cfg),
			},
			sheetsClient, driveClient, responseCache, log,
		)
		startWorker(zeebeClient, mcs.TaskType, wc, handler.Handle, activityReg, errHandler, zapLog)
	}

	if cfg.Workers[aci.TaskType].Enabled {
		wc := cfg.Workers[aci.TaskType]
		handler := aci.NewHandler(
			&aci.Config{Timeout: time.Duration(wc.Timeout) * time.Millisecond},
			idAssigner, candidateIndex, log,
		)
		startWorker(zeebeClient, aci.TaskType, wc, handler.Handle, activityReg, errHandler, zapLog)
	}

	if cfg.Workers[rfr.TaskType].Enabled {
		wc := cfg.Workers[rfr.TaskType]
		handler := rfr.NewHandler(
			&rfr.Config{
				Timeout:       time.Duration(wc.Timeout) * time.Millisecond,
				SpreadsheetID: cfg.Google.ResponseSheetID,
				ReadRange:     cfg.Google.ResponseRange,
			},
			sheetsClient, responseCache, log,
		)
		startWorker(zeebeClient, rfr.TaskType, wc, handler.Handle, activityReg, errHandler, zapLog)
	}

	if cfg.Workers[qc.TaskType].Enabled {
		wc := cfg.Workers[qc.TaskType]
		handler := qc.NewHandler(
			&qc.Config{
				Timeout:    time.Duration(wc.Timeout) * time.Millisecond,
				MaxResults: 50,
			},
			candidateIndex, log,
		)
		startWorker(zeebeClient, qc.TaskType, wc, handler.Handle, activityReg, errHandler, zapLog)
	}

	if cfg.Workers[scn.TaskType].Enabled {
		wc := cfg.Workers[scn.TaskType]
		handler, err := scn.NewHandler(
			&scn.Config{
				EmailEnabled: cfg.Notifications.AWS.SES.Enabled,
				SMSEnabled:   cfg.Notifications.AWS.SNS.Enabled,
				FromEmail:    cfg.Notifications.AWS.SES.FromEmail,
				AWSRegion:    cfg.Notifications.AWS.Region,
				Timeout:      time.Duration(wc.Timeout) * time.Millisecond,
			},
			log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-candidate-notification handler", zap.Error(err))
		}
		startWorker(zeebeClient, scn.TaskType, wc, handler.Handle, activityReg, errHandler, zapLog)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & metrics server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func matcherConfig(cfg *config.Config) matcher.Config {
	return matcher.Config{
		TimeWeight:       cfg.Matcher.TimeWeight,
		EmailWeight:      cfg.Matcher.EmailWeight,
		NameWeight:       cfg.Matcher.NameWeight,
		ConfidenceFloor:  cfg.Matcher.ConfidenceFloor,
		MaxTimeDiffHours: cfg.Matcher.MaxTimeDiffHours,
	}
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job) error, reg *registry.ActivityRegistry, errHandler *apperrors.ErrorHandler, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(func(c worker.JobClient, job entities.Job) {
			if reg != nil {
				vars := map[string]interface{}{}
				if err := json.Unmarshal([]byte(job.Variables), &vars); err == nil {
					result, verr := validation.ValidateWorkerInput(reg, taskType, vars)
					if verr == nil && !result.Valid {
						errHandler.HandleJobError(context.Background(), c, job, apperrors.NewInvalidInputError(result.Error()))
						return
					}
				}
			}
			if err := handlerFunc(c, job); err != nil {
				log.Debug("handler returned error",
					zap.String("taskType", taskType),
					zap.Int64("jobKey", job.Key),
					zap.Error(err),
				)
			}
		}).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
