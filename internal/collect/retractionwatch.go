// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect retrieves the raw per-source extracts the pipeline starts
// from: the Retraction Watch bulk CSV and the PubMed retracted-publication
// set.
// Implements: prd001-collection (R1-R5);
//
//	docs/ARCHITECTURE.md § Collection.
package collect

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/retraction-index/internal/artifact"
	"github.com/pdiddy/retraction-index/internal/httputil"
	"github.com/pdiddy/retraction-index/pkg/types"
)

// DefaultRetractionWatchURL is the Crossref GitLab mirror of the Retraction
// Watch dataset.
const DefaultRetractionWatchURL = "https://gitlab.com/crossref/retraction-watch-data/-/raw/main/retraction_watch.csv"

// Provenance records where a raw extract came from, written as a YAML
// sidecar next to the dated CSV.
type Provenance struct {
	URL         string    `yaml:"url"`
	RetrievedAt time.Time `yaml:"retrieved_at"`
	SHA256      string    `yaml:"sha256"`
	Bytes       int64     `yaml:"bytes"`
}

// RetractionWatch downloads the bulk Retraction Watch CSV to
// dataDir/{date}_retraction_watch.csv, computes its SHA-256, and writes a
// provenance sidecar. The download lands in a temp file and is renamed only
// on success, so a partial download never masquerades as a complete extract.
// A checksum mismatch against cfg.ExpectedSHA256 is a warning, not a
// failure: the mirror updates faster than the published hash.
func RetractionWatch(ctx context.Context, client *http.Client, cfg types.RetractionWatchConfig, date string, w io.Writer) (string, Provenance, error) {
	url := cfg.DownloadURL
	if url == "" {
		url = DefaultRetractionWatchURL
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return "", Provenance{}, fmt.Errorf("creating data directory: %w", err)
	}

	destPath := artifact.Path(cfg.DataDir, date, artifact.StemRetractionWatch)
	fmt.Fprintf(w, "downloading: %s\n", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", Provenance{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0, w)
	if err != nil {
		return "", Provenance{}, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", Provenance{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".collect-*.tmp")
	if err != nil {
		return "", Provenance{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	hash := sha256.New()
	n, copyErr := io.Copy(io.MultiWriter(tmpFile, hash), resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", Provenance{}, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", Provenance{}, fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", Provenance{}, fmt.Errorf("renaming temp file: %w", err)
	}

	prov := Provenance{
		URL:         url,
		RetrievedAt: time.Now().UTC(),
		SHA256:      fmt.Sprintf("%x", hash.Sum(nil)),
		Bytes:       n,
	}

	if cfg.ExpectedSHA256 != "" && !strings.EqualFold(cfg.ExpectedSHA256, prov.SHA256) {
		fmt.Fprintf(w, "warning: checksum mismatch for %s: got %s, expected %s\n",
			destPath, prov.SHA256, cfg.ExpectedSHA256)
	} else {
		fmt.Fprintf(w, "downloaded: %s (%d bytes, sha256 %s)\n", destPath, n, prov.SHA256[:12])
	}

	if err := writeProvenance(provenancePath(destPath), prov); err != nil {
		return "", Provenance{}, err
	}
	return destPath, prov, nil
}

func provenancePath(csvPath string) string {
	return strings.TrimSuffix(csvPath, ".csv") + ".provenance.yaml"
}

func writeProvenance(path string, prov Provenance) error {
	data, err := yaml.Marshal(prov)
	if err != nil {
		return fmt.Errorf("marshaling provenance: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing provenance: %w", err)
	}
	return nil
}

// ReadProvenance loads the provenance sidecar for a dated extract.
func ReadProvenance(csvPath string) (Provenance, error) {
	data, err := os.ReadFile(provenancePath(csvPath))
	if err != nil {
		return Provenance{}, err
	}
	var prov Provenance
	if err := yaml.Unmarshal(data, &prov); err != nil {
		return Provenance{}, fmt.Errorf("parsing provenance: %w", err)
	}
	return prov, nil
}
