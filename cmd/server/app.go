package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jrsteele09/go-grant-server/auth"
	"github.com/jrsteele09/go-grant-server/clients"
	fakeclientrepo "github.com/jrsteele09/go-grant-server/clients/fakerepo"
	"github.com/jrsteele09/go-grant-server/grants"
	"github.com/jrsteele09/go-grant-server/internal/config"
	"github.com/jrsteele09/go-grant-server/server"
	"github.com/jrsteele09/go-grant-server/token"
	tokenfakerepo "github.com/jrsteele09/go-grant-server/token/repofake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

type app struct {
	store   *grants.MemoryStore
	handler http.Handler
}

func newCredentialIssuer(c config.Config) *clients.CredentialIssuer {
	lengths := c.GetLengths()
	return clients.NewCredentialIssuer(token.NewGenerator(), lengths.ClientID, lengths.ClientSecret)
}

func newApp(c config.Config, logger zerolog.Logger) (*app, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := auth.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	store := grants.NewMemoryStore(
		grants.WithExpiryHook(metrics.GrantExpired),
		grants.WithLogger(logger.With().Str("component", "grants").Logger()),
	)
	if err := metrics.RegisterPendingGauge(store); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("register pending gauge: %w", err)
	}

	binding, err := auth.ParseBindingMode(c.GetBindingMode())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	authService, err := auth.NewAuthorizationService(store,
		auth.WithLengths(c.GetLengths()),
		auth.WithGrantTTL(c.GetGrantTTL()),
		auth.WithBinding(binding),
		auth.WithMetrics(metrics),
		auth.WithLogger(logger.With().Str("component", "auth").Logger()),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	clientRegistry, err := clients.NewRegistry(fakeclientrepo.NewFakeClientRepo(), authService.CredentialIssuer())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	srv, err := server.New(c, server.Dependencies{
		Auth:     authService,
		Clients:  clientRegistry,
		Tokens:   tokenfakerepo.NewFakeTokensRepo(),
		Gatherer: registry,
		Logger:   logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Info().
		Str("binding", binding.String()).
		Dur("grantTTL", authService.GrantTTL()).
		Msg("Authorization service ready")

	return &app{store: store, handler: srv}, nil
}

func run(ctx context.Context, c config.Config, logger zerolog.Logger) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	a, err := newApp(c, logger)
	if err != nil {
		return err
	}
	defer a.store.Close()

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listenAndServe(httpServer, logger)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
