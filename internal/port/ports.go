// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the controller
// and session layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/pix-consulta-go/internal/domain"
)

// TokenStore persists the session token under a single fixed key.
// Absence of the key means no session and is not an error.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Put(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// Authenticator exchanges a credential pair for a session token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// TransactionLister fetches the ordered, normalized transactions for a
// date range using an authenticated session.
type TransactionLister interface {
	FetchTransactions(ctx context.Context, session *domain.Session, rng domain.DateRange) ([]domain.CanonicalRecord, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
