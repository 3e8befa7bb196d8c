package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"go-asset-cache/internal/cache"
	"go-asset-cache/internal/cache/memory"
	"go-asset-cache/internal/cache/noop"
	"go-asset-cache/internal/cache/persistent"
	"go-asset-cache/internal/cache/tiered"
	"go-asset-cache/internal/classifier"
	"go-asset-cache/internal/config"
	"go-asset-cache/internal/events"
	"go-asset-cache/internal/httpserver"
	"go-asset-cache/internal/imagecache"
	"go-asset-cache/internal/interfaces"
	"go-asset-cache/internal/perfmon"
	"go-asset-cache/internal/prefetch"
	"go-asset-cache/internal/progressive"
	"go-asset-cache/internal/router"
	"go-asset-cache/internal/session"
	"go-asset-cache/internal/warmer"
)

// CompositionRoot holds all application dependencies and provides a
// centralized place for dependency injection and service initialization.
type CompositionRoot struct {
	// Configuration
	Config *config.Config
	Logger *zap.Logger

	// Cache components
	Stores       *cache.Stores
	memoryStores []*memory.Store
	redisClient  interfaces.RedisClient

	// Pipeline components
	Router     *router.Router
	Session    *session.Store
	ImageCache *imagecache.Manager
	Sampler    *prefetch.ReportedSampler
	Prefetcher *prefetch.Manager
	Warmer     *warmer.Warmer
	Loader     *progressive.Loader
	Monitor    *perfmon.Monitor
	Bus        *events.Bus

	// Services
	HTTPServer *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration (defines how components should be configured)
// 3. Cache stores (per-class memory level, optional persistent level)
// 4. Pipeline components (router, session, warming, prefetch, rendering)
// 5. HTTP server (uses all above components)
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.initStores(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache stores: %w", err)
	}

	root.initPipeline()
	root.initHTTPServer()

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration. Without a config file the
// built-in defaults apply, so the binary runs with zero setup.
func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("ASSET_CACHE_CONFIG_FILE")
	if configPath == "" {
		r.Logger.Info("No config file set, using defaults")
		r.Config = config.Default()
		return nil
	}

	cfg, err := config.Load(configPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// initStores builds one tiered store per resource class. Every class gets
// its own memory level so eviction pressure in one class cannot push out
// another class's entries; the persistent level is shared because a URL
// classifies to exactly one class.
func (r *CompositionRoot) initStores() error {
	persistentLevel := r.initPersistentLevel()

	static, err := r.buildClassStore("static", persistentLevel)
	if err != nil {
		return err
	}
	image, err := r.buildClassStore("image", persistentLevel)
	if err != nil {
		return err
	}
	api, err := r.buildClassStore("api", persistentLevel)
	if err != nil {
		return err
	}

	r.Stores = cache.NewStores(static, image, api)
	return nil
}

// buildClassStore assembles the level stack for one class
func (r *CompositionRoot) buildClassStore(class string, persistentLevel interfaces.Store) (interfaces.Store, error) {
	var levels []interfaces.Store

	if r.Config.Memory.Enabled {
		mem, err := memory.NewStore(class, r.Config.Memory.SizeMB, r.Logger)
		if err != nil {
			return nil, fmt.Errorf("memory store for class '%s': %w", class, err)
		}
		r.memoryStores = append(r.memoryStores, mem)
		levels = append(levels, mem)
	}
	if persistentLevel != nil {
		levels = append(levels, persistentLevel)
	}

	switch len(levels) {
	case 0:
		r.Logger.Warn("All cache levels disabled, running pass-through", zap.String("class", class))
		return noop.NewStore(), nil
	case 1:
		return levels[0], nil
	default:
		return tiered.NewStore(levels, r.Logger), nil
	}
}

// initPersistentLevel connects the optional Redis level, falling back to
// none when the connection fails so a missing Redis never blocks startup
func (r *CompositionRoot) initPersistentLevel() interfaces.Store {
	if !r.Config.Redis.Enabled {
		r.Logger.Info("Persistent cache level disabled")
		return nil
	}

	redisCfg := r.Config.Redis
	redisCfg.URL = GetRedisURL(redisCfg.URL, r.Logger)

	client, err := persistent.NewClient(&redisCfg, r.Logger)
	if err != nil {
		r.Logger.Warn("Failed to connect to Redis, running without persistent level",
			zap.String("redis_url", redisCfg.URL),
			zap.Error(err))
		return nil
	}

	r.redisClient = client
	r.Logger.Info("Persistent cache level initialized", zap.String("redis_url", redisCfg.URL))
	return persistent.NewStore(client, redisCfg.ReadTimeout.Std(), redisCfg.WriteTimeout.Std(), r.Logger)
}

// initPipeline wires the request-path and speculative components
func (r *CompositionRoot) initPipeline() {
	r.Bus = events.NewBus(r.Logger)

	rules := classifier.New(r.Config, r.Logger)
	fetcher := router.NewHTTPFetcher(r.Config.Origin.BaseURL, r.Config.Origin.FetchTimeout.Std(), r.Logger)
	r.Router = router.New(r.Stores, rules, fetcher, r.Bus, r.Logger)

	r.Session = session.Open(r.Config.Session.Path, r.Logger)
	r.ImageCache = imagecache.NewManager(r.Config.ImageProxy, r.Session, r.Logger)

	r.Sampler = prefetch.NewReportedSampler()
	r.Prefetcher = prefetch.NewManager(r.Router, r.Sampler, r.Session, r.Bus, r.Config.Prefetch, r.Logger)
	r.Warmer = warmer.New(r.Router, r.Config.Warmer, r.Logger)

	renderer := progressive.NewLogRenderer(r.Logger)
	r.Loader = progressive.NewLoader(r.Router, renderer, r.Bus, r.Logger)

	r.Monitor = perfmon.NewMonitor(r.Config.Perf.MaxSamples, r.Logger)
}

// initHTTPServer initializes the HTTP server
func (r *CompositionRoot) initHTTPServer() {
	r.HTTPServer = httpserver.NewServer(
		r.Router,
		r.ImageCache,
		r.Prefetcher,
		r.Loader,
		r.Warmer,
		r.Monitor,
		r.Sampler,
		r.Logger,
	)
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errors []error

	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errors = append(errors, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	for _, mem := range r.memoryStores {
		if err := mem.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close memory store: %w", err))
		}
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if len(errors) > 0 {
		return errors[0]
	}

	return nil
}

// GetSocketPath returns the Unix socket path for the server, empty when the
// server should listen on TCP instead
func (r *CompositionRoot) GetSocketPath() string {
	if socketPath := os.Getenv("ASSET_CACHE_SOCKET_PATH"); socketPath != "" {
		return socketPath
	}
	return r.Config.Server.SocketPath
}
