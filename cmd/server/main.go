package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/podsave-web/backend"
	"github.com/jrsteele09/podsave-web/identity/stripeid"
	"github.com/jrsteele09/podsave-web/internal/config"
	"github.com/jrsteele09/podsave-web/server"
	"github.com/jrsteele09/podsave-web/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	setupLogging(c)
	displayAppname(c.GetAppName())

	storage, closeStorage, err := newStorage(c)
	if err != nil {
		return err
	}
	defer closeStorage()

	sessions := session.NewProvider(storage, c.GetSessionNamespace())
	backendClient := backend.New(c.GetBackendURL(), c.GetBackendTimeout())
	if c.GetStripeSecretKey() == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY is not set; identity verification will fail")
	}
	verifier := stripeid.New(c.GetStripeSecretKey())

	handler, err := server.New(c, sessions, backendClient, verifier)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if c.GetEnv() == "DEV" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Str("app", c.GetAppName()).Logger()
}

// newStorage builds the session storage medium named by the configuration.
func newStorage(c config.Config) (session.Storage, func(), error) {
	noop := func() {}
	switch c.GetSessionStorage() {
	case config.StorageRedis:
		client, err := session.NewRedisClient(context.Background(), c.GetRedisURL())
		if err != nil {
			return nil, noop, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("closing redis client")
			}
		}
		return session.NewRedisStorage(client, c.GetSessionRetention()), closeClient, nil
	case config.StorageDisabled:
		log.Warn().Msg("session storage disabled; every visitor is treated as logged out")
		return session.UnavailableStorage{}, noop, nil
	default:
		return session.NewInMemoryStorage(), noop, nil
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
