// internal/common/drive/client.go

// Package drive wraps the Google Drive v3 API for the shared CV folder.
package drive

import (
	"context"
	"fmt"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"brv-workers/internal/common/logger"
	"brv-workers/internal/models"
)

// Only document-like files count as CVs; spreadsheets, images and whatever
// else lands in the shared folder are ignored.
var cvMimeTypes = map[string]bool{
	"application/pdf":                          true,
	"application/vnd.google-apps.document":     true,
	"application/msword":                       true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Client lists and renames CV files in one shared Drive folder. It satisfies
// assigner.FileStore.
type Client struct {
	svc      *drive.Service
	folderID string
	log      logger.Logger
}

func NewClient(ctx context.Context, credentialsFile, folderID string, log logger.Logger) (*Client, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc, folderID: folderID, log: log}, nil
}

// NewClientWithService wires an already-built Drive service, used by tests
// and by callers that manage credentials themselves.
func NewClientWithService(svc *drive.Service, folderID string, log logger.Logger) *Client {
	return &Client{svc: svc, folderID: folderID, log: log}
}

// List returns the document files in the folder, following pagination.
func (c *Client) List(ctx context.Context) ([]models.UploadedFile, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", c.folderID)

	var files []models.UploadedFile
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType, createdTime, modifiedTime, webViewLink)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", c.folderID, err)
		}

		for _, f := range resp.Files {
			if !cvMimeTypes[f.MimeType] {
				continue
			}
			files = append(files, models.UploadedFile{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				CreatedTime:  f.CreatedTime,
				ModifiedTime: f.ModifiedTime,
				WebViewLink:  f.WebViewLink,
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.log.Debug("listed drive folder", map[string]interface{}{
		"folderId": c.folderID,
		"files":    len(files),
	})
	return files, nil
}

// Rename updates the file's display name and returns the name Drive
// recorded.
func (c *Client) Rename(ctx context.Context, fileID, newName string) (string, error) {
	f, err := c.svc.Files.Update(fileID, &drive.File{Name: newName}).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("rename file %s: %w", fileID, err)
	}
	return f.Name, nil
}
