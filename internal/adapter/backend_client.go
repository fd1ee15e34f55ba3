package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	m "github.com/symup/symup/internal/model"
)

// BackendClient talks to the observability backend's symbolication
// artifact API. The contract is deliberately narrow: one multipart upload
// endpoint per artifact kind and one listing endpoint.
type BackendClient interface {
	// UploadArtifact streams the file at path to the backend together
	// with the given form fields and returns the stored artifact.
	UploadArtifact(ctx context.Context, kind m.ArtifactKind, path m.Path, fields map[string]string) (m.Artifact, error)

	// ListArtifacts returns previously uploaded artifacts, optionally
	// filtered by kind ("" lists everything).
	ListArtifacts(ctx context.Context, kind m.ArtifactKind) ([]m.Artifact, error)
}

// HTTPBackendClient is the net/http implementation of BackendClient.
type HTTPBackendClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPBackendClient constructs a client for the given API base URL.
// The token is sent as a bearer credential on every request.
func NewHTTPBackendClient(baseURL, token string, timeout time.Duration) *HTTPBackendClient {
	return &HTTPBackendClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// UploadArtifact POSTs the file as a multipart body to
// {base}/v1/artifacts/{kind}.
func (c *HTTPBackendClient) UploadArtifact(ctx context.Context, kind m.ArtifactKind, path m.Path, fields map[string]string) (m.Artifact, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return m.Artifact{}, fmt.Errorf("open %s: %w", path, err)
	}

	defer func() {
		_ = f.Close()
	}()

	body, contentType, err := buildMultipartBody(f, filepath.Base(string(path)), fields)
	if err != nil {
		return m.Artifact{}, err
	}

	endpoint := fmt.Sprintf("%s/v1/artifacts/%s", c.baseURL, kind)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return m.Artifact{}, err
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return m.Artifact{}, fmt.Errorf("upload %s: %w", path, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return m.Artifact{}, fmt.Errorf("upload %s: backend returned %s", path, resp.Status)
	}

	var artifact m.Artifact
	if err := json.NewDecoder(resp.Body).Decode(&artifact); err != nil {
		return m.Artifact{}, fmt.Errorf("upload %s: decode response: %w", path, err)
	}

	return artifact, nil
}

// ListArtifacts GETs {base}/v1/artifacts?kind={kind}.
func (c *HTTPBackendClient) ListArtifacts(ctx context.Context, kind m.ArtifactKind) ([]m.Artifact, error) {
	endpoint := c.baseURL + "/v1/artifacts"
	if kind != "" {
		endpoint += "?kind=" + url.QueryEscape(string(kind))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list artifacts: backend returned %s", resp.Status)
	}

	var artifacts []m.Artifact
	if err := json.NewDecoder(resp.Body).Decode(&artifacts); err != nil {
		return nil, fmt.Errorf("list artifacts: decode response: %w", err)
	}

	return artifacts, nil
}

// buildMultipartBody pipes the file through a multipart writer so large
// artifacts are streamed rather than buffered whole.
func buildMultipartBody(f *os.File, filename string, fields map[string]string) (io.Reader, string, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(writer, f, filename, fields)
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}

		pw.CloseWithError(err)
	}()

	return pr, writer.FormDataContentType(), nil
}

func writeMultipart(writer *multipart.Writer, f *os.File, filename string, fields map[string]string) error {
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}

	_, err = io.Copy(part, f)

	return err
}
