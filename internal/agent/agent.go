package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mwantia/fabric/pkg/container"
	"github.com/samanvaya/samanvaya/internal/api"
	config "github.com/samanvaya/samanvaya/internal/config/server"
	"github.com/samanvaya/samanvaya/pkg/bootstrap"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/log"
	"github.com/samanvaya/samanvaya/pkg/lookup"
	"golang.org/x/sync/errgroup"
)

type SamanvayaAgent struct {
	mutex sync.RWMutex

	cfg   *config.BaseServerConfig
	sc    *container.ServiceContainer
	log   log.LoggerService
	store *store.SQLiteStore

	loggers componentLoggers
}

// componentLoggers are filled from the container by injectLoggers.
type componentLoggers struct {
	Store     log.LoggerService `fabric:"logger:store"`
	API       log.LoggerService `fabric:"logger:api"`
	Bootstrap log.LoggerService `fabric:"logger:bootstrap"`
}

func NewAgent(cfg *config.BaseServerConfig) *SamanvayaAgent {
	return &SamanvayaAgent{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: log.NewLoggerService(cfg.Log.Name, cfg.Log),
	}
}

func (sa *SamanvayaAgent) setupServices(ctx context.Context) error {
	errs := container.Errors{}

	sa.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](sa.sc,
		container.With[log.LoggerService](),
		container.WithInstance(sa.log)))

	if err := errs.Errors(); err != nil {
		return err
	}

	if err := injectLoggers(ctx, sa.sc, &sa.loggers); err != nil {
		return fmt.Errorf("failed to inject loggers: %w", err)
	}

	sa.log.Debug("Opening metadata store at '%s'...", sa.cfg.Metadata.SQLite.Path)
	s, err := OpenStore(ctx, sa.cfg, sa.loggers.Store)
	if err != nil {
		return err
	}
	sa.store = s

	sa.log.Debug("Registering 'MetadataStore'...")
	errs.Add(container.Register[store.SQLiteStore](sa.sc,
		container.With[store.MetadataStore](),
		container.WithInstance(sa.store)))

	return errs.Errors()
}

// Serve runs the agent until ctx is cancelled or an interrupt arrives, then
// drains in-flight requests within the configured shutdown timeout.
func (sa *SamanvayaAgent) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sa.mutex.Lock()

	if err := sa.setupServices(ctx); err != nil {
		sa.mutex.Unlock()
		sa.closeStore()
		return err
	}

	if err := bootstrap.New(sa.store, sa.cfg.Bootstrap, sa.loggers.Bootstrap).Run(ctx); err != nil {
		sa.mutex.Unlock()
		sa.closeStore()
		return fmt.Errorf("failed to bootstrap: %w", err)
	}

	server := &http.Server{
		Addr:         sa.cfg.HTTP.Address,
		Handler:      api.NewRouter(sa.cfg.HTTP.Mode, sa.store, lookup.New(sa.store, sa.cfg.Lookup.MaxIDs), sa.loggers.API),
		ReadTimeout:  duration(sa.cfg.HTTP.ReadTimeout, 15*time.Second),
		WriteTimeout: duration(sa.cfg.HTTP.WriteTimeout, 30*time.Second),
	}

	sa.mutex.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sa.log.Info("Listening on '%s'", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return sa.shutdown(server)
	})

	return g.Wait()
}

func (sa *SamanvayaAgent) shutdown(server *http.Server) error {
	sa.log.Info("Shutting down...")

	// Set default of 60 seconds if not parseable
	timeout := duration(sa.cfg.ShutdownTimeout, 60*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down http server: %w", err))
	}
	if err := sa.sc.Cleanup(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to complete service container cleanup: %w", err))
	}
	sa.closeStore()

	return errors.Join(errs...)
}

func (sa *SamanvayaAgent) closeStore() {
	if sa.store == nil {
		return
	}
	if err := sa.store.Close(); err != nil {
		sa.log.Warn("Failed to close metadata store: %v", err)
	}
	sa.store = nil
}

func duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
