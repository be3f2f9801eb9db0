package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/bioflow/internal/models"
	"github.com/desertthunder/bioflow/internal/shared"
	"golang.org/x/oauth2"
)

// Client makes requests against a configured BioFlow API base address.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authClient *http.Client
}

// NewClient creates a Client for the given base address. When token is
// non-empty, authenticated operations attach "Authorization: Bearer <token>".
// The http client defaults to [http.DefaultClient].
func NewClient(baseURL, token string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		authClient: client,
	}

	if token != "" {
		c.authClient = &http.Client{
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
				Base:   client.Transport,
			},
			Timeout: client.Timeout,
		}
	}

	return c
}

// BaseURL returns the configured API base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports whether the response status is in the 2xx range.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ErrorText extracts a human-readable failure message from the response:
// the JSON "detail" field when present, otherwise the raw body text.
func (r *APIResponse) ErrorText() string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(r.Body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(r.Body))
}

// do performs a request and reads the full response body.
func (c *Client) do(ctx context.Context, client *http.Client, method, path, contentType string, body io.Reader) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}

// Health probes the liveness endpoint. It only feeds a status indicator and
// never gates other operations.
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, c.httpClient, http.MethodGet, "/health", "", nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return "", fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil || payload.Status == "" {
		return "ok", nil
	}
	return payload.Status, nil
}

// UploadCSV submits a CSV file for analysis as a multipart body under the
// fixed field name "file" and returns the created job's ID.
func (c *Client) UploadCSV(ctx context.Context, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	resp, err := c.do(ctx, c.authClient, http.MethodPost, "/upload-csv/", writer.FormDataContentType(), &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return "", fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorText())
	}

	var payload struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if payload.JobID == "" {
		return "", fmt.Errorf("%w: upload response missing job_id", shared.ErrAPIRequest)
	}

	return payload.JobID, nil
}

// ListJobs fetches all jobs for the authenticated user, in server order.
func (c *Client) ListJobs(ctx context.Context) ([]models.Job, error) {
	resp, err := c.do(ctx, c.authClient, http.MethodGet, "/jobs", "", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorText())
	}

	var jobs []models.Job
	if err := json.Unmarshal(resp.Body, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode job list: %w", err)
	}

	return jobs, nil
}

// GetJob fetches a single job's status and detail.
func (c *Client) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	resp, err := c.do(ctx, c.authClient, http.MethodGet, "/jobs/"+url.PathEscape(jobID), "", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", shared.ErrJobNotFound, jobID)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorText())
	}

	var job models.Job
	if err := json.Unmarshal(resp.Body, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}

	return &job, nil
}

// Artifact is a downloaded job file with its server-suggested filename.
type Artifact struct {
	Filename string
	Data     []byte
}

// Download fetches a job artifact of the given kind. The filename comes from
// the Content-Disposition header, falling back to "{kind}_{jobID}" when the
// header is absent or malformed.
func (c *Client) Download(ctx context.Context, jobID string, kind models.DownloadKind) (*Artifact, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: download kind %q", shared.ErrInvalidInput, kind)
	}

	path := fmt.Sprintf("/jobs/%s?download=true&kind=%s", url.PathEscape(jobID), kind)
	resp, err := c.do(ctx, c.authClient, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorText())
	}

	filename := fmt.Sprintf("%s_%s", kind, jobID)
	if cd := resp.Headers.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}

	return &Artifact{Filename: filename, Data: resp.Body}, nil
}

// DeleteJob removes a job. The server answers 204; 200 is also accepted.
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	resp, err := c.do(ctx, c.authClient, http.MethodDelete, "/jobs/"+url.PathEscape(jobID), "", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if resp.StatusCode != http.StatusNoContent && !resp.OK() {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorText())
	}
	return nil
}
