package storage

import (
	"path/filepath"
	"testing"

	"github.com/bobmcallan/quoteboard/internal/common"
)

func TestNewStorageManager_DefaultsToSQLite(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = ""
	cfg.Storage.Path = filepath.Join(t.TempDir(), "qb.db")

	mgr, err := NewStorageManager(common.NewSilentLogger(), cfg)
	if err != nil {
		t.Fatalf("NewStorageManager failed: %v", err)
	}
	defer mgr.Close()

	if mgr.HoldingStore() == nil || mgr.WatchlistStore() == nil {
		t.Fatal("expected both stores")
	}
}

func TestNewStorageManager_UnknownBackend(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = "gcs"

	if _, err := NewStorageManager(common.NewSilentLogger(), cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
