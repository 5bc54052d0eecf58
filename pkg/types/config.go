package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "retraction-index/0.1"). Per prd001-collection R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetractionWatchConfig holds settings for the Retraction Watch bulk download.
// Per prd001-collection R1.1-R1.4.
type RetractionWatchConfig struct {
	HTTPConfig `yaml:",inline"`

	// DataDir is the directory dated extracts are written to.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DownloadURL is the raw CSV endpoint of the Crossref GitLab mirror.
	DownloadURL string `json:"download_url" yaml:"download_url"`

	// ExpectedSHA256 is the published checksum of the current dataset.
	// When set, a mismatch is reported as a warning, not a failure, since
	// the mirror updates faster than the published hash.
	ExpectedSHA256 string `json:"expected_sha256,omitempty" yaml:"expected_sha256,omitempty"`
}

// PubMedConfig holds settings for the PubMed retracted-publication query.
// Per prd001-collection R2.1-R2.6.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// DataDir is the directory dated extracts are written to.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Term is the E-utilities search term (default `"Retracted Publication"[PT]`).
	Term string `json:"term" yaml:"term"`

	// StartYear and EndYear bound the date-range chunks. Retracted
	// publications in PubMed start in 1951.
	StartYear int `json:"start_year" yaml:"start_year"`
	EndYear   int `json:"end_year" yaml:"end_year"`

	// IntervalYears is the size of each date-range chunk. PubMed caps a
	// single search at 10,000 results, so the interval must stay small
	// enough that no chunk exceeds the cap (default 2).
	IntervalYears int `json:"interval_years" yaml:"interval_years"`

	// BatchSize is the number of PMIDs fetched per summary request (default 300).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// RequestDelay is the pause between consecutive API calls (default 334ms,
	// the documented limit without an API key).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// Email is sent with every request per NCBI usage policy.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey raises the permitted request rate when present.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// CoverageConfig holds settings for the PubMed coverage query stage.
// Per prd003-coverage R1.1-R1.4.
type CoverageConfig struct {
	HTTPConfig `yaml:",inline"`

	// DataDir is the directory dated artifacts are read from and written to.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// BatchSize is the number of PMIDs per coverage lookup (default 300).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// RequestDelay is the pause between consecutive batches.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// Email is sent with every request per NCBI usage policy.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey raises the permitted request rate when present.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// StoreConfig holds settings for the union-list index.
// Per prd005-store R1.2, R2.3.
type StoreConfig struct {
	// IndexDir is the directory holding the SQLite database.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	DataDir         string                `json:"data_dir" yaml:"data_dir"`
	RetractionWatch RetractionWatchConfig `json:"retraction_watch" yaml:"retraction_watch"`
	PubMed          PubMedConfig          `json:"pubmed" yaml:"pubmed"`
	Coverage        CoverageConfig        `json:"coverage" yaml:"coverage"`
	Store           StoreConfig           `json:"store" yaml:"store"`
}
