// Package config loads the mindmap configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/mindmap/config.toml
// (falling back to ~/.config/mindmap/config.toml). Every key is optional:
//
//	[storage]
//	backend = "sqlite"          # memory, file, sqlite, redis, mongo
//	path = "/var/lib/mindmap/maps.db"
//	key = "allMindMaps"
//	redis_addr = "localhost:6379"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[layout]
//	mode = "hierarchical"       # freeform, hierarchical
//	width = 1200
//	height = 800
//
//	[editor]
//	id_scheme = "uuid"          # sequential, uuid
//	default_map = "My first map"
//
//	[server]
//	addr = ":8080"
//
// A missing file yields [Default]. Command-line flags override file values.
package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/registry"
	"github.com/matzehuels/mindmap/pkg/session"
	"github.com/matzehuels/mindmap/pkg/storage"
)

// AppName names the config and data directories.
const AppName = "mindmap"

// FileName is the config file name inside [Dir].
const FileName = "config.toml"

// DefaultAddr is the listen address of the HTTP API.
const DefaultAddr = "127.0.0.1:8080"

// Config is the whole configuration file.
type Config struct {
	Storage Storage `toml:"storage"`
	Layout  Layout  `toml:"layout"`
	Editor  Editor  `toml:"editor"`
	Server  Server  `toml:"server"`
}

// Storage is the [storage] section.
type Storage struct {
	Backend string `toml:"backend"`
	// Path is the file store directory or the SQLite database file. Empty
	// selects a location under [DataDir].
	Path string `toml:"path"`
	// Key is the storage key of the map registry.
	Key string `toml:"key"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Layout is the [layout] section.
type Layout struct {
	Mode         string  `toml:"mode"`
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	LevelSpacing float64 `toml:"level_spacing"`
	SiblingGap   float64 `toml:"sibling_gap"`
	ChildGap     float64 `toml:"child_gap"`
	BaseOffset   float64 `toml:"base_offset"`
	Seed         uint64  `toml:"seed"`
}

// Editor is the [editor] section.
type Editor struct {
	IDScheme    string `toml:"id_scheme"`
	SingleRoot  bool   `toml:"single_root"`
	Placeholder string `toml:"placeholder"`
	DefaultMap  string `toml:"default_map"`
}

// Server is the [server] section.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend: storage.BackendFile,
			Key:     registry.DefaultKey,
		},
		Layout: Layout{
			Mode:         string(layout.DefaultMode),
			Width:        session.DefaultContainer.Width,
			Height:       session.DefaultContainer.Height,
			LevelSpacing: layout.DefaultLevelSpacing,
			SiblingGap:   layout.DefaultSiblingGap,
			ChildGap:     layout.DefaultChildGap,
			BaseOffset:   layout.DefaultBaseOffset,
		},
		Editor: Editor{
			IDScheme:    mindmap.IDSchemeSequential,
			Placeholder: mindmap.DefaultPlaceholder,
			DefaultMap:  session.DefaultMapName,
		},
		Server: Server{Addr: DefaultAddr},
	}
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory using the XDG standard
// (~/.config/mindmap/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DataDir returns the data directory using the XDG standard
// (~/.local/share/mindmap/).
func DataDir() (string, error) {
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the config file at path on top of [Default]. An empty path
// selects [Path]. A missing file is not an error; unknown keys are.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values and layout dimensions.
func (c Config) Validate() error {
	if b := strings.ToLower(c.Storage.Backend); b != "" && !slices.Contains(storage.Backends, b) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown storage backend %q (want one of %s)",
			c.Storage.Backend, strings.Join(storage.Backends, ", "))
	}
	if _, err := layout.ParseMode(c.Layout.Mode); err != nil {
		return err
	}
	if err := c.LayoutOptions().Validate(); err != nil {
		return err
	}
	switch c.Editor.IDScheme {
	case "", mindmap.IDSchemeSequential, mindmap.IDSchemeUUID:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown id scheme %q", c.Editor.IDScheme)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Conversions
// =============================================================================

// StorageConfig returns the options for storage.Open. An empty path is
// resolved under [DataDir]: a directory for the file backend, maps.db for
// SQLite.
func (c Config) StorageConfig() (storage.Config, error) {
	cfg := storage.Config{
		Backend: c.Storage.Backend,
		Path:    c.Storage.Path,
		Redis: storage.RedisOptions{
			Addr:     c.Storage.RedisAddr,
			Password: c.Storage.RedisPassword,
			DB:       c.Storage.RedisDB,
		},
		Mongo: storage.MongoOptions{
			URI:        c.Storage.MongoURI,
			Database:   c.Storage.MongoDatabase,
			Collection: c.Storage.MongoCollection,
		},
	}
	if cfg.Path != "" {
		return cfg, nil
	}
	backend := strings.ToLower(cfg.Backend)
	if backend != storage.BackendFile && backend != storage.BackendSQLite && backend != "" {
		return cfg, nil
	}
	dir, err := DataDir()
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeStorage, err, "resolve data directory")
	}
	cfg.Path = dir
	if backend == storage.BackendSQLite {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeStorage, err, "create data directory")
		}
		cfg.Path = filepath.Join(dir, "maps.db")
	}
	return cfg, nil
}

// Mode returns the configured layout mode.
func (c Config) Mode() layout.Mode {
	mode, err := layout.ParseMode(c.Layout.Mode)
	if err != nil {
		return layout.DefaultMode
	}
	return mode
}

// LayoutOptions returns the layout engine options.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		Container:    layout.Container{Width: c.Layout.Width, Height: c.Layout.Height},
		LevelSpacing: c.Layout.LevelSpacing,
		SiblingGap:   c.Layout.SiblingGap,
		ChildGap:     c.Layout.ChildGap,
		BaseOffset:   c.Layout.BaseOffset,
		Seed:         c.Layout.Seed,
	}
}

// RegistryOptions returns the map registry options.
func (c Config) RegistryOptions(logger *log.Logger) registry.Options {
	return registry.Options{
		Key:         c.Storage.Key,
		IDScheme:    c.Editor.IDScheme,
		SingleRoot:  c.Editor.SingleRoot,
		Placeholder: c.Editor.Placeholder,
		Logger:      logger,
	}
}

// SessionOptions returns the editor session options for sizer.
func (c Config) SessionOptions(sizer layout.Sizer, logger *log.Logger) session.Options {
	return session.Options{
		Mode:       c.Mode(),
		Layout:     c.LayoutOptions(),
		Sizer:      sizer,
		DefaultMap: c.Editor.DefaultMap,
		Logger:     logger,
	}
}
