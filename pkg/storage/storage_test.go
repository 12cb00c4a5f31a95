package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/package-lab/pkg/lifecycle"
	"github.com/JaimeStill/package-lab/pkg/logging"
	"github.com/JaimeStill/package-lab/pkg/storage"
)

func newStore(t *testing.T, maxSize string) (storage.System, string) {
	t.Helper()

	base := t.TempDir()
	cfg := &storage.Config{BasePath: base, MaxObjectSize: maxSize}
	if err := cfg.Finalize("TEST_STORAGE_"); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	store, err := storage.New(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lc := lifecycle.New()
	if err := store.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { lc.Shutdown(time.Second) })

	return store, base
}

func readObject(t *testing.T, base, key string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return string(data)
}

func TestStore(t *testing.T) {
	store, base := newStore(t, "")
	ctx := context.Background()

	if err := store.Store(ctx, "packages/a.json", []byte(`{"name":"a"}`)); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if got := readObject(t, base, "packages/a.json"); got != `{"name":"a"}` {
		t.Errorf("stored = %s", got)
	}

	if err := store.Store(ctx, "packages/a.json", []byte(`{"name":"b"}`)); err != nil {
		t.Fatalf("overwrite Store() error = %v", err)
	}
	if got := readObject(t, base, "packages/a.json"); got != `{"name":"b"}` {
		t.Errorf("stored after overwrite = %s", got)
	}

	entries, err := os.ReadDir(filepath.Join(base, "packages"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1 (temp files left behind)", len(entries))
	}
}

func TestValidate(t *testing.T) {
	store, _ := newStore(t, "")
	ctx := context.Background()

	exists, err := store.Validate(ctx, "p/x.json")
	if err != nil || exists {
		t.Fatalf("Validate() before store = %v, %v", exists, err)
	}

	if err := store.Store(ctx, "p/x.json", []byte("x")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	exists, err = store.Validate(ctx, "p/x.json")
	if err != nil || !exists {
		t.Fatalf("Validate() after store = %v, %v", exists, err)
	}
}

func TestStart_SweepsStaleTempFiles(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "packages")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	stale := filepath.Join(dir, "a.json.123.tmp")
	kept := filepath.Join(dir, "b.json")
	for _, p := range []string{stale, kept} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	cfg := &storage.Config{BasePath: base}
	if err := cfg.Finalize("TEST_STORAGE_"); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	store, err := storage.New(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lc := lifecycle.New()
	if err := store.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { lc.Shutdown(time.Second) })

	lc.WaitForStartup()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale temp file still present: %v", err)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("object removed by sweep: %v", err)
	}
}

func TestInvalidKeys(t *testing.T) {
	store, _ := newStore(t, "")
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"parent traversal", "../escape.json"},
		{"nested traversal", "a/../../escape.json"},
		{"absolute", "/etc/passwd"},
		{"root", "."},
		{"name too long", "p/" + strings.Repeat("n", 300) + ".json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Store(ctx, tt.key, []byte("x")); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Store(%q) error = %v, want ErrInvalidKey", tt.key, err)
			}
		})
	}
}

func TestStore_TooLarge(t *testing.T) {
	store, _ := newStore(t, "4B")

	err := store.Store(context.Background(), "big.json", []byte("12345"))
	if !errors.Is(err, storage.ErrTooLarge) {
		t.Errorf("Store() error = %v, want ErrTooLarge", err)
	}
}

func TestStore_CancelledContext(t *testing.T) {
	store, _ := newStore(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Store(ctx, "a.json", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Store() error = %v, want context.Canceled", err)
	}
}

func TestConfig_Finalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		env     map[string]string
		wantErr bool
		want    int64
	}{
		{name: "defaults", want: 1000 * 1000},
		{name: "explicit", cfg: storage.Config{MaxObjectSize: "2KB"}, want: 2000},
		{name: "env override", env: map[string]string{"TEST_STORAGE_MAX_OBJECT_SIZE": "3KB"}, want: 3000},
		{name: "invalid size", cfg: storage.Config{MaxObjectSize: "lots"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := tt.cfg
			err := cfg.Finalize("TEST_STORAGE_")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.MaxObjectSizeBytes() != tt.want {
				t.Errorf("MaxObjectSizeBytes() = %d, want %d", cfg.MaxObjectSizeBytes(), tt.want)
			}
		})
	}
}
