// internal/common/sheets/client.go

// Package sheets wraps the Google Sheets v4 API for the form response sheet.
package sheets

import (
	"context"
	"fmt"

	sheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"brv-workers/internal/common/logger"
	"brv-workers/internal/models"
)

type Client struct {
	svc *sheets.Service
	log logger.Logger
}

func NewClient(ctx context.Context, credentialsFile string, log logger.Logger) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, log: log}, nil
}

func NewClientWithService(svc *sheets.Service, log logger.Logger) *Client {
	return &Client{svc: svc, log: log}
}

// Service exposes the underlying API service so other components (the
// sheet-backed mapping store) can share one authenticated client.
func (c *Client) Service() *sheets.Service {
	return c.svc
}

// FetchResponses reads the form response rows from the given range. The
// first row is the header; every following row becomes a submission keyed by
// those headers. Rows shorter than the header are padded with empty values.
func (c *Client) FetchResponses(ctx context.Context, spreadsheetID, readRange string) ([]models.FormSubmission, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read response sheet: %w", err)
	}

	if len(resp.Values) < 2 {
		return nil, nil
	}

	headers := make([]string, len(resp.Values[0]))
	for i, h := range resp.Values[0] {
		s, _ := h.(string)
		headers[i] = s
	}

	submissions := make([]models.FormSubmission, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		sub := models.FormSubmission{}
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			val := ""
			if i < len(row) {
				val, _ = row[i].(string)
			}
			sub[header] = val
			if val != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		submissions = append(submissions, sub)
	}

	c.log.Debug("fetched form responses", map[string]interface{}{
		"spreadsheetId": spreadsheetID,
		"rows":          len(submissions),
	})
	return submissions, nil
}
