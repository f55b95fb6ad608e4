// internal/search/candidates.go

// Package search maintains the Elasticsearch index of assigned candidates so
// reviewers can look CVs up by name, email, or candidate ID.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"brv-workers/internal/common/logger"
	"brv-workers/internal/models"
)

var (
	ErrIndexNotFound = errors.New("INDEX_NOT_FOUND")
	ErrSearchFailed  = errors.New("SEARCH_QUERY_FAILED")
	ErrIndexFailed   = errors.New("INDEX_WRITE_FAILED")
)

type CandidateIndex struct {
	client *elasticsearch.Client
	index  string
	log    logger.Logger
}

func NewCandidateIndex(client *elasticsearch.Client, index string, log logger.Logger) *CandidateIndex {
	return &CandidateIndex{client: client, index: index, log: log}
}

// Index upserts the candidate document keyed by candidate ID, so re-running
// an assignment never duplicates a candidate.
func (ci *CandidateIndex) Index(ctx context.Context, doc models.CandidateDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrIndexFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      ci.index,
		DocumentID: doc.CandidateID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, ci.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: status %s", ErrIndexFailed, res.Status())
	}

	ci.log.Debug("candidate indexed", map[string]interface{}{
		"candidateId": doc.CandidateID,
		"index":       ci.index,
	})
	return nil
}

// SearchResult carries the hits plus the usual search metadata.
type SearchResult struct {
	Candidates []models.CandidateDocument `json:"candidates"`
	TotalHits  int64                      `json:"totalHits"`
	Took       int64                      `json:"took"`
}

// Search runs a multi-field match over name, email, filename, and candidate
// ID. An empty query returns the most recent candidates.
func (ci *CandidateIndex) Search(ctx context.Context, query string, size int) (*SearchResult, error) {
	if size <= 0 {
		size = 10
	}

	var queryBody map[string]interface{}
	if query == "" {
		queryBody = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		queryBody = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"fullName^2", "email^2", "fileName", "candidateId^3"},
			},
		}
	}

	body, err := json.Marshal(map[string]interface{}{
		"query": queryBody,
		"size":  size,
		"sort":  []map[string]interface{}{{"indexedAt": map[string]interface{}{"order": "desc", "unmapped_type": "keyword"}}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrSearchFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{ci.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, ci.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, ErrIndexNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: status %s", ErrSearchFailed, res.Status())
	}

	var parsed struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.CandidateDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}

	result := &SearchResult{
		TotalHits: parsed.Hits.Total.Value,
		Took:      parsed.Took,
	}
	for _, hit := range parsed.Hits.Hits {
		result.Candidates = append(result.Candidates, hit.Source)
	}
	return result, nil
}
