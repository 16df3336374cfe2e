package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/pix-consulta-go/internal/domain"
	"github.com/boddenberg/pix-consulta-go/internal/infra/observability"
	"github.com/boddenberg/pix-consulta-go/internal/infra/tokenstore"
	"github.com/boddenberg/pix-consulta-go/internal/session"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockAuth struct {
	token string
	err   error
	calls int
}

func (m *mockAuth) Login(_ context.Context, _, _ string) (string, error) {
	m.calls++
	return m.token, m.err
}

func newManager(auth *mockAuth, store *tokenstore.Memory) *session.Manager {
	return session.NewManager(store, auth, observability.NewMetrics(), zap.NewNop())
}

// --- Tests ---

func TestRestore_NoPersistedToken(t *testing.T) {
	m := newManager(&mockAuth{}, tokenstore.NewMemory())

	if sess := m.Restore(context.Background()); sess != nil {
		t.Errorf("expected nil session, got %+v", sess)
	}
	if m.Current() != nil {
		t.Error("expected no current session")
	}
}

func TestLogin_PersistsToken(t *testing.T) {
	store := tokenstore.NewMemory()
	auth := &mockAuth{token: "tok-9"}
	m := newManager(auth, store)
	ctx := context.Background()

	sess, err := m.Login(ctx, "maria", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token != "tok-9" {
		t.Errorf("expected token 'tok-9', got '%s'", sess.Token)
	}
	if auth.calls != 1 {
		t.Errorf("expected exactly one network call, got %d", auth.calls)
	}

	persisted, _ := store.Get(ctx)
	if persisted != "tok-9" {
		t.Errorf("expected persisted token, got '%s'", persisted)
	}
}

func TestLogin_RejectionPersistsNothing(t *testing.T) {
	store := tokenstore.NewMemory()
	m := newManager(&mockAuth{err: &domain.ErrAuthentication{}}, store)
	ctx := context.Background()

	_, err := m.Login(ctx, "maria", "wrong")
	var authErr *domain.ErrAuthentication
	if !errors.As(err, &authErr) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}

	// A subsequent restore still finds nothing.
	if persisted, _ := store.Get(ctx); persisted != "" {
		t.Errorf("expected nothing persisted, got '%s'", persisted)
	}
	if sess := m.Restore(ctx); sess != nil {
		t.Errorf("expected restore to return nil, got %+v", sess)
	}
}

func TestRestore_FindsPersistedToken(t *testing.T) {
	store := tokenstore.NewMemory()
	ctx := context.Background()
	_ = store.Put(ctx, "tok-earlier")

	m := newManager(&mockAuth{}, store)
	sess := m.Restore(ctx)
	if sess == nil || sess.Token != "tok-earlier" {
		t.Fatalf("expected restored session with 'tok-earlier', got %+v", sess)
	}
	if m.Current() == nil {
		t.Error("expected current session after restore")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	store := tokenstore.NewMemory()
	m := newManager(&mockAuth{token: "tok"}, store)
	ctx := context.Background()

	// Logout with no active session is safe.
	m.Logout(ctx)

	if _, err := m.Login(ctx, "maria", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	m.Logout(ctx)
	m.Logout(ctx)

	if m.Current() != nil {
		t.Error("expected no session after logout")
	}
	if persisted, _ := store.Get(ctx); persisted != "" {
		t.Errorf("expected cleared token, got '%s'", persisted)
	}
}

func TestInvalidate_ClearsSession(t *testing.T) {
	store := tokenstore.NewMemory()
	m := newManager(&mockAuth{token: "tok"}, store)
	ctx := context.Background()

	if _, err := m.Login(ctx, "maria", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	m.Invalidate(ctx)

	if m.Current() != nil {
		t.Error("expected session cleared after invalidation")
	}
	if persisted, _ := store.Get(ctx); persisted != "" {
		t.Errorf("expected cleared token, got '%s'", persisted)
	}
}
