// internal/workers/matching/match-cv-submissions/handler.go
package matchcvsubmissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"

	"brv-workers/internal/common/logger"
	"brv-workers/internal/common/metrics"
	"brv-workers/internal/matcher"
	"brv-workers/internal/models"
)

const (
	TaskType = "match-cv-submissions"
)

var (
	ErrFormFetchFailed = errors.New("FORM_FETCH_FAILED")
	ErrDriveListFailed = errors.New("DRIVE_LIST_FAILED")
)

// ResponseSource provides the form submission rows.
type ResponseSource interface {
	FetchResponses(ctx context.Context, spreadsheetID, readRange string) ([]models.FormSubmission, error)
}

// FileSource lists the CV files in shared storage.
type FileSource interface {
	List(ctx context.Context) ([]models.UploadedFile, error)
}

// ResponseCache holds a recent batch of submissions between runs. It may be
// nil, in which case every run fetches fresh.
type ResponseCache interface {
	Get(ctx context.Context) ([]models.FormSubmission, bool, error)
	Set(ctx context.Context, subs []models.FormSubmission) error
}

type Handler struct {
	config    *Config
	responses ResponseSource
	files     FileSource
	cache     ResponseCache
	logger    logger.Logger
}

func NewHandler(config *Config, responses ResponseSource, files FileSource, cache ResponseCache, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		responses: responses,
		files:     files,
		cache:     cache,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	timer := prometheus.NewTimer(metrics.WorkerJobDuration.WithLabelValues(TaskType))
	defer timer.ObserveDuration()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		if errors.Is(err, ErrFormFetchFailed) || errors.Is(err, ErrDriveListFailed) {
			errorCode = errorsRoot(err)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error())
		return err
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	submissions, fromCache, err := h.loadSubmissions(ctx, input.SkipCache)
	if err != nil {
		return nil, err
	}

	files, err := h.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDriveListFailed, err)
	}

	matches, report := matcher.MatchWithReport(submissions, files, h.config.Matcher)

	metrics.MatcherRuns.Inc()
	retained := 0
	for _, m := range matches {
		retained += len(m.PotentialMatches)
	}
	metrics.MatcherCandidatesRetained.Observe(float64(retained))

	if report.MissingColumn != "" {
		h.logger.Warn("required column not found in form responses", map[string]interface{}{
			"missingColumn": report.MissingColumn,
			"errorCode":     "SCHEMA_DISCOVERY_FAILED",
		})
	}
	if report.SubmissionsSkipped > 0 {
		h.logger.Warn("submissions skipped for unparsable timestamps", map[string]interface{}{
			"skipped": report.SubmissionsSkipped,
		})
	}

	return &Output{
		Matches:         matches,
		Report:          report,
		SubmissionCount: len(submissions),
		FileCount:       len(files),
		FromCache:       fromCache,
	}, nil
}

func (h *Handler) loadSubmissions(ctx context.Context, skipCache bool) ([]models.FormSubmission, bool, error) {
	if h.cache != nil && !skipCache {
		if subs, found, err := h.cache.Get(ctx); err == nil && found {
			return subs, true, nil
		} else if err != nil {
			h.logger.Warn("response cache read failed, fetching fresh", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	subs, err := h.responses.FetchResponses(ctx, h.config.SpreadsheetID, h.config.ReadRange)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrFormFetchFailed, err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, subs); err != nil {
			h.logger.Warn("response cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return subs, false, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Execute exposes the core logic for tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// errorsRoot extracts the sentinel error code from a wrapped error.
func errorsRoot(err error) string {
	switch {
	case errors.Is(err, ErrFormFetchFailed):
		return ErrFormFetchFailed.Error()
	case errors.Is(err, ErrDriveListFailed):
		return ErrDriveListFailed.Error()
	default:
		return "UNKNOWN_ERROR"
	}
}
