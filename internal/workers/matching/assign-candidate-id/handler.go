// internal/workers/matching/assign-candidate-id/handler.go
package assigncandidateid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"

	"brv-workers/internal/assigner"
	"brv-workers/internal/common/logger"
	"brv-workers/internal/common/metrics"
	"brv-workers/internal/models"
)

const (
	TaskType = "assign-candidate-id"
)

var ErrMissingField = errors.New("MISSING_REQUIRED_FIELD")

// IDAssigner is the assignment operation this worker fronts.
type IDAssigner interface {
	Assign(ctx context.Context, fileID, fileName, candidateID string) error
}

// CandidateIndexer records an assigned candidate in the search index.
type CandidateIndexer interface {
	Index(ctx context.Context, doc models.CandidateDocument) error
}

type Handler struct {
	config  *Config
	assign  IDAssigner
	indexer CandidateIndexer
	logger  logger.Logger
	now     func() time.Time
}

// NewHandler wires the worker. indexer may be nil when search is disabled.
func NewHandler(config *Config, assign IDAssigner, indexer CandidateIndexer, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		assign:  assign,
		indexer: indexer,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:     time.Now,
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
		errorCode := mapErrorToCode(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		metrics.AssignmentsCompleted.WithLabelValues("failed").Inc()
		h.failJob(client, job, errorCode, err.Error())
		return err
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.AssignmentsCompleted.WithLabelValues("assigned").Inc()
	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.FileID == "" || input.CandidateID == "" {
		return nil, fmt.Errorf("%w: fileId and candidateId are required", ErrMissingField)
	}

	if err := h.assign.Assign(ctx, input.FileID, input.FileName, input.CandidateID); err != nil {
		return nil, err
	}

	output := &Output{
		CandidateID: input.CandidateID,
		FileID:      input.FileID,
		Assigned:    true,
	}

	// Indexing is best effort: the mapping is already durable, a search
	// index gap can be repaired by a later backfill.
	if h.indexer != nil {
		doc := models.CandidateDocument{
			CandidateID: input.CandidateID,
			FullName:    input.FullName,
			Email:       input.Email,
			FileID:      input.FileID,
			FileName:    input.FileName,
			IndexedAt:   h.now().UTC().Format(time.RFC3339),
		}
		if err := h.indexer.Index(ctx, doc); err != nil {
			h.logger.Warn("candidate indexing failed after assignment", map[string]interface{}{
				"candidateId": input.CandidateID,
				"error":       err.Error(),
			})
		} else {
			output.Indexed = true
		}
	}

	return output, nil
}

func mapErrorToCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "MISSING_REQUIRED_FIELD"
	case errors.Is(err, assigner.ErrInvalidFormat):
		return assigner.ErrInvalidFormat.Error()
	case errors.Is(err, assigner.ErrAlreadyExists):
		return assigner.ErrAlreadyExists.Error()
	case errors.Is(err, assigner.ErrFileAlreadyMapped):
		return assigner.ErrFileAlreadyMapped.Error()
	case errors.Is(err, assigner.ErrPersistFailed):
		return assigner.ErrPersistFailed.Error()
	default:
		return "UNKNOWN_ERROR"
	}
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
