// services/storage.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"time"
)

// StoredImage is the metadata the image-storage collaborator returns for an
// uploaded file. The engine only ever appends this metadata to a work order;
// folders and permissions are the collaborator's problem.
type StoredImage struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	MimeType    string `json:"mimeType"`
	ViewURL     string `json:"publicViewUrl"`
	DownloadURL string `json:"downloadUrl"`
}

// ImageStorage is the narrow contract for the external file store.
type ImageStorage interface {
	Upload(ctx context.Context, files []*multipart.FileHeader, customerName, unitSerial, workOrderCode string) ([]StoredImage, error)
	Delete(ctx context.Context, id string) error
}

// mediaClient talks to the media service over HTTP with a bounded timeout.
type mediaClient struct {
	baseURL string
	client  *http.Client
}

func NewMediaClient() ImageStorage {
	return &mediaClient{
		baseURL: os.Getenv("MEDIA_SERVICE_URL"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (m *mediaClient) Upload(ctx context.Context, files []*multipart.FileHeader, customerName, unitSerial, workOrderCode string) ([]StoredImage, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		var err error
		defer func() { pw.CloseWithError(err) }()
		for _, fh := range files {
			var src multipart.File
			src, err = fh.Open()
			if err != nil {
				return
			}
			var part io.Writer
			part, err = writer.CreateFormFile("files", fh.Filename)
			if err != nil {
				src.Close()
				return
			}
			_, err = io.Copy(part, src)
			src.Close()
			if err != nil {
				return
			}
		}
		err = writer.Close()
	}()

	endpoint := fmt.Sprintf("%s/upload?customer=%s&serial=%s&workOrder=%s",
		m.baseURL,
		url.QueryEscape(customerName),
		url.QueryEscape(unitSerial),
		url.QueryEscape(workOrderCode),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("image storage returned status %d", resp.StatusCode)
	}

	var stored []StoredImage
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to decode image storage response: %w", err)
	}
	return stored, nil
}

func (m *mediaClient) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, m.baseURL+"/files/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("image delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("image storage returned status %d", resp.StatusCode)
	}
	return nil
}
