package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/pagelog/internal/entry"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.StorageMode != entry.StorageFilesystem {
		t.Errorf("StorageMode = %q, want filesystem", cfg.StorageMode)
	}
	if cfg.MaxAttachmentBytes != DefaultMaxAttachmentBytes {
		t.Errorf("MaxAttachmentBytes = %d, want %d", cfg.MaxAttachmentBytes, DefaultMaxAttachmentBytes)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.StorageMode != entry.StorageFilesystem {
		t.Errorf("StorageMode = %q, want filesystem default", cfg.StorageMode)
	}
	if cfg.UploadsDir != filepath.Join(tmpDir, "uploads") {
		t.Errorf("UploadsDir = %q", cfg.UploadsDir)
	}
	if cfg.ExportsDir != filepath.Join(tmpDir, "exports") {
		t.Errorf("ExportsDir = %q", cfg.ExportsDir)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	content := `{"storage_mode": "blob", "max_attachment_bytes": 1024, "db_max_open_conns": 1, "disabled_tools": ["entry_export"]}`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.StorageMode != entry.StorageBlob {
		t.Errorf("StorageMode = %q, want blob", cfg.StorageMode)
	}
	if cfg.MaxAttachmentBytes != 1024 {
		t.Errorf("MaxAttachmentBytes = %d, want 1024", cfg.MaxAttachmentBytes)
	}
	if cfg.DBMaxOpenConns != 1 {
		t.Errorf("DBMaxOpenConns = %d, want 1", cfg.DBMaxOpenConns)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "entry_export" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoad_InvalidStorageMode(t *testing.T) {
	tmpDir := t.TempDir()

	content := `{"storage_mode": "s3"}`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load accepted invalid storage_mode")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load accepted invalid JSON")
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	overlay := &Config{
		StorageMode:   entry.StorageBlob,
		DisabledTools: []string{"entry_export", " entry_export "},
	}

	merged := Merge(base, overlay)

	if merged.StorageMode != entry.StorageBlob {
		t.Errorf("StorageMode = %q, want overlay value", merged.StorageMode)
	}
	if merged.MaxAttachmentBytes != DefaultMaxAttachmentBytes {
		t.Errorf("MaxAttachmentBytes = %d, want base default", merged.MaxAttachmentBytes)
	}
	if len(merged.DisabledTools) != 1 {
		t.Errorf("DisabledTools = %v, want deduplicated single item", merged.DisabledTools)
	}
}
