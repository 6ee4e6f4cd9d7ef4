package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/croswell/inventario/internal/adapter/postgres"
	classrepo "github.com/croswell/inventario/internal/adapter/postgres/class"
	domainrepo "github.com/croswell/inventario/internal/adapter/postgres/domains"
	elementrepo "github.com/croswell/inventario/internal/adapter/postgres/element"
	historyrepo "github.com/croswell/inventario/internal/adapter/postgres/history"
	tagrepo "github.com/croswell/inventario/internal/adapter/postgres/tag"
	"github.com/croswell/inventario/internal/auth"
	"github.com/croswell/inventario/internal/config"
	"github.com/croswell/inventario/internal/service/class"
	"github.com/croswell/inventario/internal/service/domains"
	"github.com/croswell/inventario/internal/service/element"
	"github.com/croswell/inventario/internal/service/tag"
	"github.com/croswell/inventario/internal/transport/middleware"
	"github.com/croswell/inventario/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires repositories, services, and the HTTP transport, then
// serves until ctx is cancelled and shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	classes := classrepo.New(pool)
	domainStore := domainrepo.New(pool)
	elements := elementrepo.New(pool)
	tags := tagrepo.New(pool)
	history := historyrepo.New(pool)

	jwtManager := auth.NewJWTManager(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)

	classSvc := class.NewService(logger, classes)
	domainSvc := domains.NewService(logger, domainStore, jwtManager)
	tagSvc := tag.NewService(logger, tags, domainStore)
	elementSvc := element.NewService(logger, elements, domainStore, classSvc, history, txManager, element.Limits{
		SearchDefaultLimit: cfg.Inventory.SearchDefaultLimit,
		SearchMaxLimit:     cfg.Inventory.SearchMaxLimit,
		MaxTreeDepth:       cfg.Inventory.MaxTreeDepth,
	})

	router := rest.NewRouter(rest.Handlers{
		Health:   rest.NewHealthHandler(pool, BuildVersion()),
		Domains:  rest.NewDomainHandler(domainSvc, logger),
		Classes:  rest.NewClassHandler(classSvc, logger),
		Elements: rest.NewElementHandler(elementSvc, logger),
		Tags:     rest.NewTagHandler(tagSvc, logger),
	})

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Metrics(router),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtManager),
	)(router)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
