// internal/workers/matching/refresh-form-responses/handler.go
package refreshformresponses

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
	"brv-workers/internal/models"
)

const (
	TaskType = "refresh-form-responses"
)

var (
	ErrFormFetchFailed  = errors.New("FORM_FETCH_FAILED")
	ErrCacheWriteFailed = errors.New("CACHE_WRITE_FAILED")
)

type ResponseSource interface {
	FetchResponses(ctx context.Context, spreadsheetID, readRange string) ([]models.FormSubmission, error)
}

type ResponseCache interface {
	Get(ctx context.Context) ([]models.FormSubmission, bool, error)
	Set(ctx context.Context, subs []models.FormSubmission) error
}

type Handler struct {
	config    *Config
	responses ResponseSource
	cache     ResponseCache
	logger    logger.Logger
}

func NewHandler(config *Config, responses ResponseSource, cache ResponseCache, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		responses: responses,
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
		if errors.Is(err, ErrFormFetchFailed) {
			errorCode = ErrFormFetchFailed.Error()
		} else if errors.Is(err, ErrCacheWriteFailed) {
			errorCode = ErrCacheWriteFailed.Error()
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
	if !input.ForceRefresh {
		if subs, found, err := h.cache.Get(ctx); err == nil && found {
			return &Output{SubmissionCount: len(subs), Refreshed: false}, nil
		}
	}

	subs, err := h.responses.FetchResponses(ctx, h.config.SpreadsheetID, h.config.ReadRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormFetchFailed, err)
	}

	if err := h.cache.Set(ctx, subs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheWriteFailed, err)
	}

	h.logger.Info("form responses refreshed", map[string]interface{}{
		"submissions": len(subs),
	})
	return &Output{SubmissionCount: len(subs), Refreshed: true}, nil
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
