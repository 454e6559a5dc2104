package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/skobkin/fynetip/internal/bus"
	"github.com/skobkin/fynetip/internal/config"
	"github.com/skobkin/fynetip/internal/gallery"
	"github.com/skobkin/fynetip/internal/logging"
)

// Options override runtime defaults, usually from command line flags.
type Options struct {
	ConfigPath  string
	GalleryPath string
	LogLevel    string
}

type Runtime struct {
	mu sync.RWMutex

	Ctx    context.Context
	cancel context.CancelFunc

	Paths   Paths
	Config  config.AppConfig
	Gallery gallery.Gallery

	LogManager *logging.Manager
	Bus        *bus.PubSubBus
	// Journal is nil when the visibility journal is disabled.
	Journal *Journal

	closeOnce sync.Once
}

func Initialize(parent context.Context, opts Options) (*Runtime, error) {
	paths, err := resolveRuntimePaths(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, err
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if galleryPath := strings.TrimSpace(opts.GalleryPath); galleryPath != "" {
		cfg.Gallery.Path = galleryPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	ctx, cancel := context.WithCancel(parent)
	rt := &Runtime{
		Ctx:    ctx,
		cancel: cancel,
		Paths:  paths,
		Config: cfg,
	}

	logMgr := logging.NewManager()
	if err := logMgr.Configure(cfg.Logging, paths.LogFile); err != nil {
		_ = logMgr.Close()
		cancel()

		return nil, fmt.Errorf("configure logging: %w", err)
	}
	rt.LogManager = logMgr
	slog.Info("starting fynetip runtime", "version", BuildVersion(), "build_date", BuildDateYMD())

	g, err := gallery.Load(cfg.Gallery.Path)
	if err != nil {
		_ = rt.Close()

		return nil, fmt.Errorf("load gallery: %w", err)
	}
	rt.Gallery = g
	slog.Debug("gallery loaded", "title", g.Title, "items", g.ItemCount(), "path", cfg.Gallery.Path)

	rt.Bus = bus.New(logMgr.Logger("bus"))

	if cfg.Journal.Enabled {
		journal, err := OpenJournal(ctx, paths.JournalFile, JournalOptions{
			MaxEvents: cfg.Journal.MaxEvents,
			Logger:    logMgr.Logger("journal"),
		})
		if err != nil {
			_ = rt.Close()

			return nil, fmt.Errorf("open journal: %w", err)
		}
		rt.Journal = journal
		journal.Follow(rt.Bus)
	}

	return rt, nil
}

func resolveRuntimePaths(configPath string) (Paths, error) {
	if strings.TrimSpace(configPath) != "" {
		return Paths{}.WithConfigFile(configPath), nil
	}

	return ResolvePaths()
}

// CurrentConfig returns the active configuration.
func (r *Runtime) CurrentConfig() config.AppConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Config
}

// SaveAndApplyConfig persists cfg and applies its logging section.
func (r *Runtime) SaveAndApplyConfig(cfg config.AppConfig) error {
	cfg.FillMissingDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if err := config.Save(r.Paths.ConfigFile, cfg); err != nil {
		r.mu.Unlock()

		return err
	}
	r.Config = cfg
	r.mu.Unlock()

	if r.LogManager != nil {
		if err := r.LogManager.Configure(cfg.Logging, r.Paths.LogFile); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runtime) Close() error {
	var err error
	r.closeOnce.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		if r.Journal != nil {
			err = errors.Join(err, r.Journal.Close())
		}
		if r.Bus != nil {
			r.Bus.Close()
		}
		if r.LogManager != nil {
			err = errors.Join(err, r.LogManager.Close())
		}
	})

	return err
}
