// Package cli implements the mindmap command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/buildinfo"
	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/registry"
	"github.com/matzehuels/mindmap/pkg/session"
	"github.com/matzehuels/mindmap/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Global flag values. Empty means "use the config file".
	configPath string
	store      string
	storePath  string
	mode       string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Mindmap edits mind maps in the terminal or over HTTP",
		Long:         `Mindmap keeps named mind maps (trees of short text nodes) in a local or remote store and lets you edit them from the command line, in an interactive terminal editor, or through a JSON HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/mindmap/config.toml)")
	flags.StringVar(&c.store, "store", "", "storage backend: "+strings.Join(storage.Backends, ", "))
	flags.StringVar(&c.storePath, "store-path", "", "file store directory or SQLite database file")
	flags.StringVar(&c.mode, "mode", "", "layout mode: freeform, hierarchical")

	root.AddCommand(c.mapsCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Wiring
// =============================================================================

// loadConfig reads the config file and applies the global flags on top.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.store != "" {
		cfg.Storage.Backend = c.store
	}
	if c.storePath != "" {
		cfg.Storage.Path = c.storePath
	}
	if c.mode != "" {
		cfg.Layout.Mode = c.mode
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// env is what a command needs to work on maps.
type env struct {
	cfg   config.Config
	store storage.Store
	mgr   *registry.Manager
}

func (e *env) Close() error { return e.store.Close() }

// openEnv loads the config and opens the store and registry.
func (c *CLI) openEnv(ctx context.Context) (*env, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, store: store, mgr: registry.New(store, cfg.RegistryOptions(c.Logger))}, nil
}

// openStore opens the configured backend. Network backends show a spinner
// while connecting.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	scfg, err := cfg.StorageConfig()
	if err != nil {
		return nil, err
	}
	backend := strings.ToLower(scfg.Backend)
	c.Logger.Debug("opening store", "backend", backend, "path", scfg.Path)

	if backend != storage.BackendRedis && backend != storage.BackendMongo {
		return storage.Open(ctx, scfg)
	}
	var store storage.Store
	err = withSpinner(ctx, "Connecting to "+backend+"...", func() (err error) {
		store, err = storage.Open(ctx, scfg)
		return err
	})
	if err != nil {
		printError("Could not connect to %s", backend)
		return nil, err
	}
	return store, nil
}

// openSession starts an editor session on the named map. An empty name
// opens the first stored map; any other name must exist. A missing map is
// reported before the session starts, so nothing is written.
func (e *env) openSession(ctx context.Context, logger *log.Logger, sizer layout.Sizer, name string) (*session.Session, error) {
	if name != "" {
		exists, err := e.mgr.Exists(ctx, name)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.New(errors.ErrCodeMapNotFound, "map %q not found", name)
		}
	}
	opts := e.cfg.SessionOptions(sizer, logger)
	opts.Initial = name
	return session.New(ctx, e.mgr, opts)
}
