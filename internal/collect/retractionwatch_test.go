// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/pdiddy/retraction-index/pkg/types"
)

const sampleCSV = "Title,OriginalPaperDOI\nA Paper,10.1/a\n"

func testRWConfig(t *testing.T, url string) types.RetractionWatchConfig {
	t.Helper()
	return types.RetractionWatchConfig{
		HTTPConfig:  types.HTTPConfig{UserAgent: "test-agent"},
		DataDir:     t.TempDir(),
		DownloadURL: url,
	}
}

func TestRetractionWatchDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q", got)
		}
		fmt.Fprint(w, sampleCSV)
	}))
	defer server.Close()

	cfg := testRWConfig(t, server.URL)
	var log bytes.Buffer

	path, prov, err := RetractionWatch(context.Background(), server.Client(), cfg, "2025-05-08", &log)
	if err != nil {
		t.Fatalf("RetractionWatch: %v", err)
	}

	if !strings.HasSuffix(path, "2025-05-08_retraction_watch.csv") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sampleCSV {
		t.Errorf("downloaded content = %q", data)
	}

	wantSum := fmt.Sprintf("%x", sha256.Sum256([]byte(sampleCSV)))
	if prov.SHA256 != wantSum {
		t.Errorf("SHA256 = %q, want %q", prov.SHA256, wantSum)
	}
	if prov.Bytes != int64(len(sampleCSV)) {
		t.Errorf("Bytes = %d, want %d", prov.Bytes, len(sampleCSV))
	}
	if prov.URL != server.URL {
		t.Errorf("URL = %q", prov.URL)
	}

	// The sidecar round-trips.
	got, err := ReadProvenance(path)
	if err != nil {
		t.Fatalf("ReadProvenance: %v", err)
	}
	if got.SHA256 != prov.SHA256 || got.Bytes != prov.Bytes {
		t.Errorf("sidecar = %+v, want %+v", got, prov)
	}

	if strings.Contains(log.String(), "warning:") {
		t.Errorf("unexpected warning in log: %s", log.String())
	}
}

func TestRetractionWatchChecksumMismatchWarns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleCSV)
	}))
	defer server.Close()

	cfg := testRWConfig(t, server.URL)
	cfg.ExpectedSHA256 = strings.Repeat("ab", 32)
	var log bytes.Buffer

	if _, _, err := RetractionWatch(context.Background(), server.Client(), cfg, "2025-05-08", &log); err != nil {
		t.Fatalf("checksum mismatch must not fail the download: %v", err)
	}
	if !strings.Contains(log.String(), "warning: checksum mismatch") {
		t.Errorf("log missing checksum warning: %s", log.String())
	}
}

func TestRetractionWatchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	cfg := testRWConfig(t, server.URL)
	_, _, err := RetractionWatch(context.Background(), server.Client(), cfg, "2025-05-08", new(bytes.Buffer))
	if err == nil {
		t.Fatal("expected error for HTTP 404")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v", err)
	}

	// No partial artifact left behind.
	entries, readErr := os.ReadDir(cfg.DataDir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".csv") {
			t.Errorf("unexpected artifact %s after failed download", e.Name())
		}
	}
}
