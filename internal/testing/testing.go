// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/bioflow/internal/api"
	"github.com/desertthunder/bioflow/internal/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// TripwireRoundTripper fails the test if any request is issued through it.
// Used to prove that locally rejected operations never reach the network.
type TripwireRoundTripper struct {
	T *testing.T
}

func (tr *TripwireRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	tr.T.Helper()
	tr.T.Errorf("unexpected network request: %s %s", req.Method, req.URL)
	return nil, errors.New("unexpected network request")
}

// FCloser simulates a failure when reading a response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// MockJobAPI is a test double for the dashboard's API surface.
type MockJobAPI struct {
	Jobs        []models.Job
	ListErr     error
	Deleted     []string
	DeleteErr   error
	Artifact    *api.Artifact
	DownloadErr error
}

func (m *MockJobAPI) ListJobs(ctx context.Context) ([]models.Job, error) {
	return m.Jobs, m.ListErr
}

func (m *MockJobAPI) Download(ctx context.Context, jobID string, kind models.DownloadKind) (*api.Artifact, error) {
	return m.Artifact, m.DownloadErr
}

func (m *MockJobAPI) DeleteJob(ctx context.Context, jobID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, jobID)
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

var _ io.Writer = (*FWriter)(nil)
