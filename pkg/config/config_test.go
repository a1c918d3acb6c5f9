package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/storage"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[storage]
backend = "sqlite"
path = "/tmp/maps.db"

[layout]
mode = "hierarchical"
width = 640

[editor]
id_scheme = "uuid"
single_root = true

[server]
addr = ":9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.Backend != storage.BackendSQLite || cfg.Storage.Path != "/tmp/maps.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Mode() != layout.ModeHierarchical {
		t.Errorf("Mode() = %s", cfg.Mode())
	}
	if cfg.Layout.Width != 640 || cfg.Layout.Height != Default().Layout.Height {
		t.Errorf("container = %vx%v", cfg.Layout.Width, cfg.Layout.Height)
	}
	if cfg.Editor.IDScheme != mindmap.IDSchemeUUID || !cfg.Editor.SingleRoot {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Editor.DefaultMap != Default().Editor.DefaultMap {
		t.Errorf("default map lost: %q", cfg.Editor.DefaultMap)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[storage\nbackend=", errors.ErrCodeInvalidInput},
		{"unknown key", "[storage]\nbackned = \"file\"", errors.ErrCodeInvalidInput},
		{"unknown backend", "[storage]\nbackend = \"etcd\"", errors.ErrCodeInvalidInput},
		{"unknown mode", "[layout]\nmode = \"radial\"", errors.ErrCodeInvalidLayout},
		{"negative size", "[layout]\nwidth = -5", errors.ErrCodeInvalidLayout},
		{"unknown ids", "[editor]\nid_scheme = \"ulid\"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")

	if dir, _ := Dir(); dir != filepath.Join("/cfg", AppName) {
		t.Errorf("Dir() = %q", dir)
	}
	if p, _ := Path(); p != filepath.Join("/cfg", AppName, FileName) {
		t.Errorf("Path() = %q", p)
	}
	if dir, _ := DataDir(); dir != filepath.Join("/data", AppName) {
		t.Errorf("DataDir() = %q", dir)
	}
}

func TestStorageConfigPaths(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	tests := []struct {
		backend string
		want    string
	}{
		{storage.BackendFile, filepath.Join(data, AppName)},
		{storage.BackendSQLite, filepath.Join(data, AppName, "maps.db")},
		{storage.BackendRedis, ""},
		{storage.BackendMemory, ""},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := Default()
			cfg.Storage.Backend = tt.backend
			got, err := cfg.StorageConfig()
			if err != nil {
				t.Fatalf("StorageConfig: %v", err)
			}
			if got.Path != tt.want {
				t.Errorf("Path = %q, want %q", got.Path, tt.want)
			}
		})
	}

	cfg := Default()
	cfg.Storage.Path = "/explicit"
	cfg.Storage.RedisAddr = "redis:6379"
	got, _ := cfg.StorageConfig()
	if got.Path != "/explicit" || got.Redis.Addr != "redis:6379" {
		t.Errorf("StorageConfig() = %+v", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Layout.Mode = string(layout.ModeHierarchical)

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got Config
	if _, err := toml.Decode(buf.String(), &got); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Editor.Placeholder = "?"

	opts := cfg.RegistryOptions(nil)
	if opts.Placeholder != "?" || opts.Key != "allMindMaps" {
		t.Errorf("RegistryOptions() = %+v", opts)
	}

	so := cfg.SessionOptions(layout.CellSizer(), nil)
	if so.Mode != layout.ModeFreeform || so.Layout.Container.Width != 1200 {
		t.Errorf("SessionOptions() = %+v", so)
	}
}
