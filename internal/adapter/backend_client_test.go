package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	m "github.com/symup/symup/internal/model"
)

func TestHTTPBackendClient_UploadArtifact(t *testing.T) {
	root := t.TempDir()
	mapPath := filepath.Join(root, "app.js.map")
	writeTestFile(t, mapPath, `{"version":3}`)

	var (
		gotPath   string
		gotAuth   string
		gotFields map[string]string
		gotFile   string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		gotFields = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			gotFields[key] = values[0]
		}

		if files := r.MultipartForm.File["file"]; len(files) == 1 {
			gotFile = files[0].Filename
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m.Artifact{ID: "art-1", Kind: m.KindSourceMap, Name: "app.js.map", Size: 13})
	}))
	defer server.Close()

	client := NewHTTPBackendClient(server.URL, "secret-token", 5*time.Second)

	artifact, err := client.UploadArtifact(context.Background(), m.KindSourceMap, m.Path(mapPath), map[string]string{
		"sourceMapId": "0f0f0f0f-0000-0000-0000-000000000000",
		"appName":     "shop",
	})
	if err != nil {
		t.Fatalf("UploadArtifact() error = %v", err)
	}

	if artifact.ID != "art-1" {
		t.Fatalf("UploadArtifact() id = %s, want art-1", artifact.ID)
	}

	if gotPath != "/v1/artifacts/sourcemap" {
		t.Fatalf("UploadArtifact() hit %s, want /v1/artifacts/sourcemap", gotPath)
	}

	if gotAuth != "Bearer secret-token" {
		t.Fatalf("UploadArtifact() auth = %q, want bearer token", gotAuth)
	}

	if gotFields["sourceMapId"] != "0f0f0f0f-0000-0000-0000-000000000000" || gotFields["appName"] != "shop" {
		t.Fatalf("UploadArtifact() fields = %v", gotFields)
	}

	if gotFile != "app.js.map" {
		t.Fatalf("UploadArtifact() file part = %q, want app.js.map", gotFile)
	}
}

func TestHTTPBackendClient_UploadArtifact_BackendError(t *testing.T) {
	root := t.TempDir()
	mapPath := filepath.Join(root, "app.js.map")
	writeTestFile(t, mapPath, `{"version":3}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewHTTPBackendClient(server.URL, "secret-token", 5*time.Second)

	if _, err := client.UploadArtifact(context.Background(), m.KindSourceMap, m.Path(mapPath), nil); err == nil {
		t.Fatalf("UploadArtifact() expected error for 403 response")
	}
}

func TestHTTPBackendClient_UploadArtifact_MissingFile(t *testing.T) {
	client := NewHTTPBackendClient("http://127.0.0.1:0", "secret-token", time.Second)

	if _, err := client.UploadArtifact(context.Background(), m.KindSourceMap, m.Path(filepath.Join(t.TempDir(), "absent.map")), nil); err == nil {
		t.Fatalf("UploadArtifact() expected error for missing file")
	}
}

func TestHTTPBackendClient_ListArtifacts(t *testing.T) {
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]m.Artifact{
			{ID: "art-1", Kind: m.KindDSYM, Name: "App.dSYM.zip"},
		})
	}))
	defer server.Close()

	client := NewHTTPBackendClient(server.URL, "secret-token", 5*time.Second)

	artifacts, err := client.ListArtifacts(context.Background(), m.KindDSYM)
	if err != nil {
		t.Fatalf("ListArtifacts() error = %v", err)
	}

	if gotQuery != "kind=dsym" {
		t.Fatalf("ListArtifacts() query = %q, want kind=dsym", gotQuery)
	}

	if len(artifacts) != 1 || artifacts[0].ID != "art-1" {
		t.Fatalf("ListArtifacts() = %v, want one artifact art-1", artifacts)
	}
}

func TestHTTPBackendClient_ListArtifacts_NoKindFilter(t *testing.T) {
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewHTTPBackendClient(server.URL, "secret-token", 5*time.Second)

	if _, err := client.ListArtifacts(context.Background(), ""); err != nil {
		t.Fatalf("ListArtifacts() error = %v", err)
	}

	if gotQuery != "" {
		t.Fatalf("ListArtifacts() query = %q, want no filter", gotQuery)
	}
}
