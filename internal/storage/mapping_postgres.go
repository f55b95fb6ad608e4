// internal/storage/mapping_postgres.go

// Package storage provides the durable backends for identity mappings and
// the form-response cache. Mapping stores satisfy assigner.MappingStore;
// which backend is active is a deployment choice.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"brv-workers/internal/common/logger"
	"brv-workers/internal/models"
)

// PostgresMappingStore keeps identity mappings in the candidate_mappings
// table. Uniqueness of candidate_id and file_id is also enforced by the
// table's constraints, so concurrent assigners cannot double-book an ID.
type PostgresMappingStore struct {
	db  *sql.DB
	log logger.Logger
}

func NewPostgresMappingStore(db *sql.DB, log logger.Logger) *PostgresMappingStore {
	return &PostgresMappingStore{db: db, log: log}
}

func (s *PostgresMappingStore) List(ctx context.Context) ([]models.IdentityMapping, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_id, file_name, file_id, COALESCE(assigned_at, '')
		FROM candidate_mappings
		ORDER BY candidate_id`)
	if err != nil {
		return nil, fmt.Errorf("query candidate_mappings: %w", err)
	}
	defer rows.Close()

	var mappings []models.IdentityMapping
	for rows.Next() {
		var m models.IdentityMapping
		if err := rows.Scan(&m.CandidateID, &m.FileName, &m.FileID, &m.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan mapping row: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mapping rows: %w", err)
	}
	return mappings, nil
}

func (s *PostgresMappingStore) Append(ctx context.Context, m models.IdentityMapping) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidate_mappings (candidate_id, file_name, file_id, assigned_at)
		VALUES ($1, $2, $3, $4)`,
		m.CandidateID, m.FileName, m.FileID, m.AssignedAt)
	if err != nil {
		return fmt.Errorf("insert mapping: %w", err)
	}

	s.log.Debug("mapping persisted", map[string]interface{}{
		"candidateId": m.CandidateID,
		"fileId":      m.FileID,
	})
	return nil
}
