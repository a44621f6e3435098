// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-ingest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CatalogConfig holds settings for the external catalogs.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxCandidates caps how many candidates are fetched per resolution (default 40).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates" mapstructure:"max_candidates"`

	// ArxivRateLimit is the sustained request rate against arXiv, per second.
	ArxivRateLimit float64 `json:"arxiv_rate_limit" yaml:"arxiv_rate_limit" mapstructure:"arxiv_rate_limit"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// DocumentCharsMax caps the extracted full text of a document (default 70000).
	DocumentCharsMax int `json:"document_chars_max" yaml:"document_chars_max" mapstructure:"document_chars_max"`
}

// StorageDriver selects the storage backend.
type StorageDriver string

const (
	DriverSQLite   StorageDriver = "sqlite"
	DriverPostgres StorageDriver = "postgres"
)

// StorageConfig holds settings for the storage collaborator.
type StorageConfig struct {
	Driver StorageDriver `json:"driver" yaml:"driver" mapstructure:"driver"`

	// Path is the SQLite database file (sqlite driver only).
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// DSN is the PostgreSQL connection string (postgres driver only).
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`

	DetailsTable   string `json:"details_table" yaml:"details_table" mapstructure:"details_table"`
	CitationsTable string `json:"citations_table" yaml:"citations_table" mapstructure:"citations_table"`
	SummariesTable string `json:"summaries_table" yaml:"summaries_table" mapstructure:"summaries_table"`
}

// CacheConfig holds the local file cache layout.
type CacheConfig struct {
	// Dir is the cache base directory; the subdirectories below are relative to it.
	Dir          string `json:"dir" yaml:"dir" mapstructure:"dir"`
	DocumentsDir string `json:"documents_dir" yaml:"documents_dir" mapstructure:"documents_dir"`
	SummariesDir string `json:"summaries_dir" yaml:"summaries_dir" mapstructure:"summaries_dir"`
}

// QueueConfig selects where the pending identifier list lives. A non-empty
// GistID takes precedence over File.
type QueueConfig struct {
	GistID      string `json:"gist_id,omitempty" yaml:"gist_id,omitempty" mapstructure:"gist_id"`
	Filename    string `json:"filename" yaml:"filename" mapstructure:"filename"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`
	File        string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// PreprocessConfig holds settings for document preprocessing.
type PreprocessConfig struct {
	// TokenBudget caps the preprocessed document size in tokens (default 12000).
	// Zero disables truncation.
	TokenBudget int `json:"token_budget" yaml:"token_budget" mapstructure:"token_budget"`

	// Encoding is the tokenizer encoding name (default "cl100k_base").
	Encoding string `json:"encoding" yaml:"encoding" mapstructure:"encoding"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is the minimum level (trace, debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json or console.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// IngestConfig holds settings for the ingest stage.
type IngestConfig struct {
	// Delay is the pause between consecutive queue items (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`

	// FetchDocuments enables full-text download, preprocessing and caching.
	FetchDocuments bool `json:"fetch_documents" yaml:"fetch_documents" mapstructure:"fetch_documents"`

	// MetricsFile, when set, receives run metrics in textfile-collector format.
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty" mapstructure:"metrics_file"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Storage    StorageConfig    `json:"storage" yaml:"storage" mapstructure:"storage"`
	Cache      CacheConfig      `json:"cache" yaml:"cache" mapstructure:"cache"`
	Queue      QueueConfig      `json:"queue" yaml:"queue" mapstructure:"queue"`
	Preprocess PreprocessConfig `json:"preprocess" yaml:"preprocess" mapstructure:"preprocess"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
	Ingest     IngestConfig     `json:"ingest" yaml:"ingest" mapstructure:"ingest"`
}
