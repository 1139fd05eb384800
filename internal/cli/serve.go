package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ozonqa/storefront-e2e/internal/config"
	"github.com/ozonqa/storefront-e2e/internal/handlers"
)

// ServerDependencies holds all dependencies needed for the fixture storefront
type ServerDependencies struct {
	ServerConfig  config.ServerConfig
	HomeHandler   http.Handler
	SearchHandler http.Handler
	CartHandler   http.Handler
	AppsHandler   http.Handler
}

// BuildFixtureDependencies wires the storefront handlers over the embedded
// templates and a fresh catalog
func BuildFixtureDependencies(serverConfig config.ServerConfig, log logrus.FieldLogger) (ServerDependencies, error) {
	deps := ServerDependencies{ServerConfig: serverConfig}
	catalog := handlers.NewCatalog()
	chrome := handlers.DefaultChrome

	home, err := handlers.NewHomeHandler(handlers.Templates, chrome, log.WithField("handler", "home"))
	if err != nil {
		return deps, fmt.Errorf("failed to create home handler: %w", err)
	}
	deps.HomeHandler = home

	search, err := handlers.NewSearchHandler(handlers.Templates, chrome, catalog, log.WithField("handler", "search"))
	if err != nil {
		return deps, fmt.Errorf("failed to create search handler: %w", err)
	}
	deps.SearchHandler = search

	cart, err := handlers.NewCartHandler(handlers.Templates, chrome, catalog, log.WithField("handler", "cart"))
	if err != nil {
		return deps, fmt.Errorf("failed to create cart handler: %w", err)
	}
	deps.CartHandler = cart

	apps, err := handlers.NewAppsHandler(handlers.Templates, chrome, log.WithField("handler", "apps"))
	if err != nil {
		return deps, fmt.Errorf("failed to create apps handler: %w", err)
	}
	deps.AppsHandler = apps

	return deps, nil
}

// RunServe starts the fixture storefront and blocks until a shutdown signal
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil)
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/", deps.HomeHandler)
	mux.Handle("/search/", deps.SearchHandler)
	mux.Handle("/cart", deps.CartHandler)
	mux.Handle("/cart/", deps.CartHandler)
	mux.Handle("/apps", deps.AppsHandler)

	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Fixture storefront listening on %s", listener.Addr().String())
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Server error")
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
func WaitForShutdown(server *http.Server, shutdown chan os.Signal) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration) error {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	logrus.Infof("Received signal: %v, shutting down server...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// http.Server.Close does not surface listener close errors, so this
		// branch only reports what Close itself returns
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	logrus.Info("Server stopped")
	return nil
}
