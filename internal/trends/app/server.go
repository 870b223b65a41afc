package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"ktrend_api/config"
	"ktrend_api/internal/trends/app/web"
	"ktrend_api/internal/trends/business"
	"ktrend_api/internal/trends/scheduler"
	"ktrend_api/internal/trends/storage"
	"ktrend_api/migrations/trends"
	"ktrend_api/pkg/clients/postgrest"
	"ktrend_api/pkg/dbconnect"
	"ktrend_api/pkg/dbconnect/migration"
	"ktrend_api/pkg/dbconnect/postgres"
	"ktrend_api/pkg/dbconnect/redisconnect"
	"ktrend_api/pkg/dbconnect/sqlite"
	"ktrend_api/pkg/logger"
	"ktrend_api/pkg/middleware"
	"net/http"
	"time"
)

const shutdownTimeout = 15 * time.Second

type TrendsServer struct {
	cfg    *config.AppConfig
	log    logger.Logger
	writer io.Writer
}

func NewTrendsServer(cfg *config.AppConfig, writer io.Writer) *TrendsServer {
	return &TrendsServer{cfg: cfg, log: logger.NewLogger(writer, "[TrendsServer]"), writer: writer}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *TrendsServer) Run(ctx context.Context) error {
	src, closeStore, err := s.openSource()
	if err != nil {
		return err
	}
	defer closeStore()
	src = storage.Chain(src,
		middleware.QueryLogging(s.log.WithPrefix("[Store]"), false),
		middleware.QueryMetrics(),
	)

	var cache business.KeyValueCache
	if s.cfg.Redis.URL != "" {
		rdb, err := redisconnect.NewRedisClient(ctx, s.cfg.Redis.URL)
		if err != nil {
			s.log.Log("redis unavailable, category cache disabled: %v", err)
		} else {
			defer rdb.Close()
			cache = rdb
		}
	}

	services := NewServices(src, s.cfg.Trends, cache, s.cfg.Redis.CategoryTTL, s.log)
	router, err := web.SetupRoutes(s.log, services.Handlers(s.cfg.Trends, s.log)...)
	if err != nil {
		return err
	}

	job := scheduler.NewFreshnessJob(s.cfg.Scheduler.Spec, s.cfg.Scheduler.Platforms,
		services.Rankings, services.Categories, services.Resolver, s.log)
	if err := job.Start(ctx); err != nil {
		return err
	}
	defer job.Stop()

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Log("listening on %s (store: %s)", s.cfg.Server.Addr, s.cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.log.Log("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// openSource builds the configured Source and the function releasing it.
func (s *TrendsServer) openSource() (storage.Source, func(), error) {
	switch s.cfg.Store.Driver {
	case config.StorePostgREST:
		client := postgrest.NewBaseClient(
			s.cfg.Store.PostgRESTURL,
			postgrest.NewServiceKeyAuth(s.cfg.Store.ApiKey),
			s.log.WithPrefix("[PostgREST]"),
			postgrest.WithRateLimit(s.cfg.Store.RequestsPerSecond, s.cfg.Store.Burst),
		)
		return storage.NewPostgRESTSource(client), func() {}, nil
	case config.StorePostgres:
		return s.openSQL(postgres.NewPgConnector(&s.cfg.Postgres, s.log), storage.PostgresDialect{}, trends.DialectPostgres)
	case config.StoreSqlite:
		return s.openSQL(sqlite.NewSqliteConnector(s.cfg.Store.SqliteDSN), storage.SQLiteDialect{}, trends.DialectSqlite)
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", s.cfg.Store.Driver)
}

func (s *TrendsServer) openSQL(conn dbconnect.Database, dialect storage.Dialect, schema string) (storage.Source, func(), error) {
	db, err := conn.Connect()
	if err != nil {
		return nil, nil, fmt.Errorf("connect %s: %w", dialect.Name(), err)
	}
	closeFn := func() {
		if err := conn.Close(); err != nil {
			s.log.Log("close %s: %v", dialect.Name(), err)
		}
	}

	if s.cfg.Store.Migrate {
		if err := migration.Apply(db, trends.All(schema)...); err != nil {
			closeFn()
			return nil, nil, err
		}
		s.log.Log("%s migrations applied successfully!", dialect.Name())
	}
	return storage.NewSQLSource(db, dialect), closeFn, nil
}
