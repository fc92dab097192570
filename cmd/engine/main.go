package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"recruit-engine/internal/config"
	"recruit-engine/internal/events"
	"recruit-engine/internal/httpapi"
	"recruit-engine/internal/scheduler"
	"recruit-engine/internal/secrets"
	"recruit-engine/internal/store"
)

func main() {
	// Data dir: env if provided, else the working directory.
	dataDir := os.Getenv("RECRUIT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("data_dir", dataDir).Msg("create data dir")
	}

	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatal().Err(err).Msg("lock data dir")
	}
	if !locked {
		log.Fatal().Str("data_dir", dataDir).Msg("another engine is already using this data dir")
	}
	defer func() { _ = lock.Unlock() }()

	userCfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
	if err != nil {
		log.Fatal().Err(err).Msg("config bootstrap failed")
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatal().Err(err).Str("path", userCfgPath).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Str("path", userCfgPath).Msg("invalid config")
	}
	cfgVal.Store(cfg)
	log.DefaultLogger.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := filepath.Join(dataDir, "recruit.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", dbPath).Msg("open store")
	}
	defer db.Close()

	if n, err := importSeed(ctx, db, cfg.Seed.File); err != nil {
		log.Warn().Err(err).Str("file", cfg.Seed.File).Msg("seed import failed")
	} else if n > 0 {
		log.Info().Int("added", n).Str("file", cfg.Seed.File).Msg("seed imported")
	}

	key, err := secrets.CSRFKey(cfg.Security.KeyringAccount)
	if err != nil {
		log.Warn().Err(err).Msg("keyring unavailable, csrf tokens will not survive a restart")
		key = secrets.EphemeralKey()
	}

	hub := events.NewHub()
	views := httpapi.NewViewRegistry(cfg.ViewTTL(), nil)
	limiter := httpapi.NewClientLimiter(cfg.Security.RatePerSecond, cfg.Security.RateBurst)
	mux := httpapi.NewMux(httpapi.Deps{
		Store:       db,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		CSRFKey:     key,
		Views:       views,
		Limiter:     limiter,
	})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr()).Msg("listen")
	}

	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover, httpapi.AccessLog),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownToken := os.Getenv("RECRUIT_SHUTDOWN_TOKEN")
	if shutdownToken == "" {
		if shutdownToken, err = randomToken(32); err != nil {
			log.Fatal().Err(err).Msg("shutdown token")
		}
		tokenPath := filepath.Join(dataDir, "shutdown.token")
		if err := os.WriteFile(tokenPath, []byte(shutdownToken), 0o600); err != nil {
			log.Fatal().Err(err).Str("path", tokenPath).Msg("write shutdown token")
		}
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&shutdownToken, srv))

	log.Info().Str("addr", "http://"+cfg.Addr()).Str("db", dbPath).Str("config", userCfgPath).Msg("engine listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Every(gctx, cfg.SweepInterval(), "view-sweep", func(context.Context) error {
			if n := views.Sweep(); n > 0 {
				log.Debug().Int("dropped", n).Int("open", views.Len()).Msg("idle views swept")
			}
			if n := limiter.Sweep(cfg.ViewTTL()); n > 0 {
				log.Debug().Int("dropped", n).Int("clients", limiter.Len()).Msg("idle rate limiters swept")
			}
			return nil
		})
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("engine stopped")
		return
	}
	log.Info().Msg("engine stopped")
}
