package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/pagelog/internal/entry"
)

// DefaultMaxAttachmentBytes caps uploaded attachment size (10 MiB).
const DefaultMaxAttachmentBytes = 10 << 20

// Config holds application configuration.
type Config struct {
	// StorageMode selects how newly added attachment bytes are persisted:
	// "filesystem" (default) writes files under the uploads directory,
	// "blob" embeds the bytes in the attachment row. Process-wide; existing
	// attachments are never migrated.
	StorageMode entry.StorageType `json:"storage_mode,omitempty"`

	// MaxAttachmentBytes limits the size of a single attachment.
	// 0 means the default (10 MiB). Enforced at the transport edges.
	MaxAttachmentBytes int64 `json:"max_attachment_bytes,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// UploadsDir and ExportsDir are resolved from the base directory at load
	// time and are not part of the config file.
	UploadsDir string `json:"-"`
	ExportsDir string `json:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		StorageMode:        entry.StorageFilesystem,
		MaxAttachmentBytes: DefaultMaxAttachmentBytes,
	}
}

// Load loads configuration from baseDir/config.json and resolves the
// uploads and exports directories under baseDir. Returns default config if
// the file doesn't exist. The baseDir parameter allows tests to use
// t.TempDir() instead of ~/.pagelog.
func Load(baseDir string) (*Config, error) {
	overlay, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}

	cfg := Merge(DefaultConfig(), overlay)
	if !cfg.StorageMode.Valid() {
		return nil, errors.New("config: storage_mode must be one of: filesystem, blob")
	}

	cfg.UploadsDir = filepath.Join(baseDir, "uploads")
	cfg.ExportsDir = filepath.Join(baseDir, "exports")
	return cfg, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.StorageMode = overlay.StorageMode
	if result.StorageMode == "" {
		result.StorageMode = base.StorageMode
	}

	result.MaxAttachmentBytes = overlay.MaxAttachmentBytes
	if result.MaxAttachmentBytes == 0 {
		result.MaxAttachmentBytes = base.MaxAttachmentBytes
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	result.UploadsDir = overlay.UploadsDir
	if result.UploadsDir == "" {
		result.UploadsDir = base.UploadsDir
	}
	result.ExportsDir = overlay.ExportsDir
	if result.ExportsDir == "" {
		result.ExportsDir = base.ExportsDir
	}

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
