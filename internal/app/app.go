// Package app assembles the query stack from configuration: HTTP
// clients against the remote service, the durable token store, the
// session manager and the controller on top.
package app

import (
	"net/http"

	"github.com/boddenberg/pix-consulta-go/internal/config"
	"github.com/boddenberg/pix-consulta-go/internal/controller"
	"github.com/boddenberg/pix-consulta-go/internal/infra/client"
	"github.com/boddenberg/pix-consulta-go/internal/infra/observability"
	"github.com/boddenberg/pix-consulta-go/internal/infra/resilience"
	"github.com/boddenberg/pix-consulta-go/internal/infra/tokenstore"
	"github.com/boddenberg/pix-consulta-go/internal/session"

	"go.uber.org/zap"
)

// App is the assembled stack. The store is exposed so an embedder can
// close it and tests can inspect persisted state.
type App struct {
	Controller *controller.Controller
	Store      *tokenstore.SQLite
}

// Build wires the stack described by cfg: both clients share one
// http.Client carrying the configured timeout, and the token store
// lives at cfg.TokenDBPath.
func Build(cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) (*App, error) {
	store, err := tokenstore.OpenSQLite(cfg.TokenDBPath)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	auth := client.NewAuthClient(httpClient, cfg.APIBaseURL, logger)
	lister := client.NewPixClient(httpClient, cfg.APIBaseURL, resilience.NewCircuitBreaker("pix-listing"), logger)
	sessions := session.NewManager(store, auth, metrics, logger)

	return &App{
		Controller: controller.New(sessions, lister, cfg.PageSize, metrics, logger),
		Store:      store,
	}, nil
}

// Close releases the durable store.
func (a *App) Close() error {
	return a.Store.Close()
}
