package storage

import (
	"io"
	"strings"
	"testing"

	"musicflow/internal/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.Provider = "local"
	cfg.Storage.LocalStorage = t.TempDir()
	cfg.Storage.BucketExport = "exports"
	return New(cfg)
}

func TestClientExportLifecycle(t *testing.T) {
	c := newTestClient(t)

	content := "Position,Artist,Title\n1,\"Aurora Sound\",\"First Light\""
	key, err := c.SaveExport("Friday Warm Up!", "csv", content)
	if err != nil {
		t.Fatalf("SaveExport failed: %v", err)
	}
	if !strings.HasSuffix(key, "/Friday_Warm_Up.csv") {
		t.Errorf("unexpected key: %q", key)
	}

	obj, err := c.GetExport(key)
	if err != nil {
		t.Fatalf("GetExport failed: %v", err)
	}
	data, err := io.ReadAll(obj.Body)
	obj.Body.Close()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != content {
		t.Errorf("content mismatch: %q", data)
	}
	if obj.ContentType != "text/csv" {
		t.Errorf("content type = %q", obj.ContentType)
	}

	keys, err := c.ListExports()
	if err != nil {
		t.Fatalf("ListExports failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Errorf("unexpected listing: %v", keys)
	}

	if err := c.DeleteExport(key); err != nil {
		t.Fatalf("DeleteExport failed: %v", err)
	}
	if keys, _ := c.ListExports(); len(keys) != 0 {
		t.Errorf("expected empty listing after delete, got %v", keys)
	}

	if _, err := c.GetExport(key); err == nil {
		t.Error("expected error fetching a deleted export")
	}
}
