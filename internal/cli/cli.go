package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/archive"
	"github.com/matzehuels/boxtower/pkg/buildinfo"
	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/config"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/pipeline"
)

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

	// Config is loaded by the root command's PersistentPreRunE.
	Config config.Config

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "boxtower",
		Short: "Boxtower finds the tallest stack you can build from a set of boxes",
		Long: `Boxtower searches every subset of a box collection for the tallest stack in
which each box rests on a base strictly longer and wider than its own, and draws
the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/boxtower/config.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend, "archive", cfg.Archive.Backend)
	return nil
}

// FormatError renders err for the terminal, dropping the code prefix of
// structured errors.
func FormatError(err error) string {
	msg := errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		msg += " " + StyleDim.Render("("+string(code)+")")
	}
	return styleIconError.Render(iconError) + " " + msg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the loaded configuration.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	store, err := c.newArchive(ctx, c.Config.Archive.Backend)
	if err != nil {
		cc.Close()
		return nil, err
	}
	var keyer cache.Keyer
	if p := c.Config.Cache.KeyPrefix; p != "" {
		keyer = cache.NewScopedKeyer(nil, p)
	}
	r := pipeline.NewRunner(cc, keyer, store, c.Logger)
	r.SolutionTTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache builds the solution cache. Backends that cannot be reached fall
// back to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	case config.BackendFile:
		dir, err := c.cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return cache.NewNullCache(), nil
	}
}

func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.CacheDir()
}

// newArchive opens the run archive named by backend. A nil store (backend
// "none") disables archiving.
func (c *CLI) newArchive(ctx context.Context, backend string) (archive.Store, error) {
	cfg := c.Config.Archive
	switch backend {
	case config.BackendMemory:
		return archive.NewMemoryStore(0), nil
	case config.BackendFile:
		dir := cfg.Dir
		if dir == "" {
			base, err := config.Dir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(base, "runs")
		}
		return archive.NewFileStore(dir)
	case config.BackendMongo:
		return archive.NewMongoStore(ctx, archive.MongoOptions{
			URI:      cfg.MongoURI,
			Database: cfg.Database,
		})
	case config.BackendNone, "":
		return nil, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown archive backend %q", backend)
	}
}

// openArchive is newArchive for commands that need a store to read from.
func (c *CLI) openArchive(ctx context.Context) (archive.Store, error) {
	store, err := c.newArchive(ctx, c.Config.Archive.Backend)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "run archive is disabled (archive.backend = none)")
	}
	return store, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// searchDefaults copies the [search] config section into opts where flags
// left zero values.
func (c *CLI) searchDefaults(opts *pipeline.Options) {
	s := c.Config.Search
	if opts.MaxBoxes == 0 {
		opts.MaxBoxes = s.MaxBoxes
	}
	if opts.Workers == 0 {
		opts.Workers = s.Workers
	}
	if opts.MaxCorrections == 0 {
		opts.MaxCorrections = s.MaxCorrections
	}
}
