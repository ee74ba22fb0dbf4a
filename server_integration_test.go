package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thorrak/json-dump/internal/storage"
)

// startTestServer wires the real router, dump service, and disk store against
// a temp directory, mirroring the production assembly in main.
func startTestServer(t *testing.T, strict bool, maxBodySize int64) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()

	store := storage.NewDiskStore(dir)
	service := NewDefaultDumpService(store, storage.NewDefaultNameGenerator(), strict)
	handler := NewHTTPHandler(service, NewDefaultResponseFormatter(), maxBodySize)

	srv := httptest.NewServer(newRouter(handler, strict))
	t.Cleanup(srv.Close)
	return srv, dir
}

func TestServer_JSONDumpRoundTrip(t *testing.T) {
	srv, dir := startTestServer(t, false, 1024*1024)

	payload := `{"event": "webhook", "items": ["α", "β"]}`
	resp, err := http.Post(srv.URL+"/dump", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	filename, _ := body["filename"].(string)
	if filename == "" {
		t.Fatal("Response carries no filename")
	}

	// Reported size must equal the actual on-disk byte length, verified by an
	// independent stat.
	fi, err := os.Stat(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("Stored file missing: %v", err)
	}
	if size, _ := body["size"].(float64); int64(size) != fi.Size() {
		t.Errorf("Reported size %v != on-disk size %d", body["size"], fi.Size())
	}

	// Stored non-ASCII must be literal, not escaped.
	stored, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("Failed to read stored file: %v", err)
	}
	if !bytes.Contains(stored, []byte("α")) {
		t.Errorf("Expected literal non-ASCII in stored file, got %s", stored)
	}
}

func TestServer_RawDumpBytesIdentical(t *testing.T) {
	srv, dir := startTestServer(t, false, 1024*1024)

	raw := []byte{0x1f, 0x8b, 0x00, 0x42, 0xde, 0xad}
	resp, err := http.Post(srv.URL+"/dump", "application/octet-stream", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	filename, _ := body["filename"].(string)
	if !strings.HasSuffix(filename, ".dat") {
		t.Errorf("Expected .dat extension, got %s", filename)
	}

	stored, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("Failed to read stored file: %v", err)
	}
	if !bytes.Equal(stored, raw) {
		t.Errorf("Stored bytes %v differ from request body %v", stored, raw)
	}
}

func TestServer_EmptyPayloadWritesNothing(t *testing.T) {
	srv, dir := startTestServer(t, false, 1024*1024)

	resp, err := http.Post(srv.URL+"/dump", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read data dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no files written, found %d", len(entries))
	}
}

func TestServer_MethodsOnDump(t *testing.T) {
	srv, _ := startTestServer(t, false, 1024*1024)
	client := srv.Client()

	for _, method := range []string{"PUT", "PATCH", "DELETE"} {
		req, err := http.NewRequest(method, srv.URL+"/dump", strings.NewReader(`{"m": 1}`))
		if err != nil {
			t.Fatalf("Failed to build request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("%s failed: %v", method, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("%s: expected 201, got %d", method, resp.StatusCode)
		}
	}
}

func TestServer_StrictModeRejectsNonPOST(t *testing.T) {
	srv, _ := startTestServer(t, true, 1024*1024)

	req, err := http.NewRequest("PUT", srv.URL+"/dump", strings.NewReader(`{"m": 1}`))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 in strict mode, got %d", resp.StatusCode)
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv, _ := startTestServer(t, false, 1024*1024)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode health body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", body["status"])
	}

	mresp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer mresp.Body.Close()
	if mresp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 from /metrics, got %d", mresp.StatusCode)
	}
}
