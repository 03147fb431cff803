// Package uploads talks to the external file-manager HTTP API that stores
// listing images and payment receipts. The service never keeps binaries; it
// forwards the multipart body and records the returned public URL.
package uploads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"diplomat/internal/models"
	"diplomat/internal/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Client is an HTTP client for the file-manager API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a file-manager client. An empty baseURL yields a disabled
// client whose Upload fails with an upstream error.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

// Upload streams the file to the file manager and returns its public URL.
// The remote name keeps the original extension but is otherwise random so
// caller-supplied names cannot collide or traverse.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	if c.baseURL == "" {
		return "", models.NewUpstreamError("file manager is not configured", nil)
	}

	span, ctx := observability.NewSpan(ctx, "uploads.Upload", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	remoteName := uuid.NewString() + filepath.Ext(filename)
	span.AddAttributes(attribute.String("upload.remote_name", remoteName))

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile("file", remoteName)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		return "", models.NewUpstreamError("file upload failed", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.UploadFailures.Inc()
		span.SetError(err)
		return "", models.NewUpstreamError("file upload failed", err)
	}
	defer resp.Body.Close()

	span.AddAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 300 {
		observability.UploadFailures.Inc()
		err := fmt.Errorf("file manager returned status %d", resp.StatusCode)
		span.SetError(err)
		return "", models.NewUpstreamError("file upload failed", err)
	}

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		observability.UploadFailures.Inc()
		return "", models.NewUpstreamError("file upload failed", err)
	}
	if !body.Success || body.URL == "" {
		observability.UploadFailures.Inc()
		return "", models.NewUpstreamError("file upload failed", fmt.Errorf("file manager rejected upload: %s", body.Error))
	}

	return body.URL, nil
}
