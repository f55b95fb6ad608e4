// internal/storage/mapping_postgres_test.go
package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brv-workers/internal/common/logger"
	"brv-workers/internal/models"
)

func TestPostgresMappingStoreList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"candidate_id", "file_name", "file_id", "assigned_at"}).
		AddRow("CAND-0001", "BRV-CID-CAND-0001.pdf", "file-1", "2025-07-19T10:00:00Z").
		AddRow("CAND-0002", "b.pdf", "file-2", "")
	mock.ExpectQuery("SELECT candidate_id, file_name, file_id").WillReturnRows(rows)

	store := NewPostgresMappingStore(db, logger.NewNoOpLogger())
	mappings, err := store.List(context.Background())
	require.NoError(t, err)

	require.Len(t, mappings, 2)
	assert.Equal(t, "CAND-0001", mappings[0].CandidateID)
	assert.Equal(t, "file-2", mappings[1].FileID)
	assert.Empty(t, mappings[1].AssignedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMappingStoreListEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT candidate_id").WillReturnRows(
		sqlmock.NewRows([]string{"candidate_id", "file_name", "file_id", "assigned_at"}))

	store := NewPostgresMappingStore(db, logger.NewNoOpLogger())
	mappings, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestPostgresMappingStoreListQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT candidate_id").WillReturnError(errors.New("connection reset"))

	store := NewPostgresMappingStore(db, logger.NewNoOpLogger())
	_, err = store.List(context.Background())
	assert.Error(t, err)
}

func TestPostgresMappingStoreAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO candidate_mappings").
		WithArgs("CAND-0003", "c.pdf", "file-3", "2025-07-19T12:00:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewPostgresMappingStore(db, logger.NewNoOpLogger())
	err = store.Append(context.Background(), models.IdentityMapping{
		CandidateID: "CAND-0003",
		FileName:    "c.pdf",
		FileID:      "file-3",
		AssignedAt:  "2025-07-19T12:00:00Z",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMappingStoreAppendConstraintViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO candidate_mappings").
		WillReturnError(errors.New(`duplicate key value violates unique constraint "candidate_mappings_candidate_id_key"`))

	store := NewPostgresMappingStore(db, logger.NewNoOpLogger())
	err = store.Append(context.Background(), models.IdentityMapping{
		CandidateID: "CAND-0001", FileName: "a.pdf", FileID: "file-1",
	})
	assert.Error(t, err)
}
