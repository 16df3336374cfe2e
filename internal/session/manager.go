// Package session owns the authentication token lifecycle: acquisition,
// persistence across restarts, and invalidation.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/boddenberg/pix-consulta-go/internal/domain"
	"github.com/boddenberg/pix-consulta-go/internal/infra/observability"
	"github.com/boddenberg/pix-consulta-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("session")

// Manager owns the Session. It issues exactly one network call per
// Login and none otherwise; durable storage reads/writes are its only
// other side effect.
type Manager struct {
	store   port.TokenStore
	auth    port.Authenticator
	metrics *observability.Metrics
	logger  *zap.Logger

	mu      sync.Mutex
	current *domain.Session
}

// NewManager creates a session manager over a token store and an
// authenticator.
func NewManager(store port.TokenStore, auth port.Authenticator, metrics *observability.Metrics, logger *zap.Logger) *Manager {
	return &Manager{
		store:   store,
		auth:    auth,
		metrics: metrics,
		logger:  logger,
	}
}

// Restore loads a previously persisted token. It never fails: absence
// of a token is not an error, and storage errors are logged and treated
// as absence.
func (m *Manager) Restore(ctx context.Context) *domain.Session {
	ctx, span := tracer.Start(ctx, "Session.Restore")
	defer span.End()

	token, err := m.store.Get(ctx)
	if err != nil {
		m.logger.Warn("session restore: storage read failed", zap.Error(err))
		return nil
	}
	if token == "" {
		return nil
	}

	// The original acquisition time is not persisted; restore counts
	// from now.
	sess := &domain.Session{Token: token, AcquiredAt: time.Now()}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	m.metrics.IncrSessionEvent("restore")
	m.logger.Info("session restored from durable storage")
	return sess
}

// Current returns the in-memory session, nil when unauthenticated.
func (m *Manager) Current() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Login exchanges credentials for a token and persists it. On rejection
// nothing is persisted and the previous session, if any, is untouched.
func (m *Manager) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	ctx, span := tracer.Start(ctx, "Session.Login")
	defer span.End()

	token, err := m.auth.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn("login failed", zap.String("user", username), zap.Error(err))
		return nil, err
	}

	if err := m.store.Put(ctx, token); err != nil {
		m.logger.Error("login: token persistence failed", zap.Error(err))
		return nil, err
	}

	sess := &domain.Session{Token: token, AcquiredAt: time.Now()}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	m.metrics.IncrSessionEvent("login")
	m.logger.Info("logged in", zap.String("user", username))
	return sess, nil
}

// Logout clears the persisted token and the in-memory session
// unconditionally. Safe to call with no active session.
func (m *Manager) Logout(ctx context.Context) {
	m.clear(ctx, "logout")
}

// Invalidate drops the session after the listing endpoint rejected its
// token. Same clearing semantics as Logout.
func (m *Manager) Invalidate(ctx context.Context) {
	m.clear(ctx, "invalidated")
}

func (m *Manager) clear(ctx context.Context, event string) {
	ctx, span := tracer.Start(ctx, "Session.Clear")
	defer span.End()

	if err := m.store.Delete(ctx); err != nil {
		m.logger.Warn("session clear: storage delete failed", zap.Error(err))
	}

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	m.metrics.IncrSessionEvent(event)
	m.logger.Info("session cleared", zap.String("event", event))
}
