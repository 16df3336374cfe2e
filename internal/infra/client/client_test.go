package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boddenberg/pix-consulta-go/internal/domain"
	"github.com/boddenberg/pix-consulta-go/internal/infra/client"
	"github.com/boddenberg/pix-consulta-go/internal/infra/resilience"

	"go.uber.org/zap"
)

func newPixClient(baseURL string) *client.PixClient {
	return client.NewPixClient(
		&http.Client{Timeout: 5 * time.Second},
		baseURL,
		resilience.NewCircuitBreaker("test"),
		zap.NewNop(),
	)
}

func validRange() domain.DateRange {
	return domain.DateRange{Start: "2024-01-01", End: "2024-01-31"}
}

func TestAuthClient_LoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-123"}`))
	}))
	defer srv.Close()

	c := client.NewAuthClient(srv.Client(), srv.URL, zap.NewNop())
	token, err := c.Login(context.Background(), "maria", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("expected 'tok-123', got '%s'", token)
	}
}

func TestAuthClient_LoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := client.NewAuthClient(srv.Client(), srv.URL, zap.NewNop())
	_, err := c.Login(context.Background(), "maria", "wrong")

	var authErr *domain.ErrAuthentication
	if !errors.As(err, &authErr) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if authErr.Error() != "invalid username or password" {
		t.Errorf("unexpected message: '%s'", authErr.Error())
	}
}

func TestPixClient_ValidatesRangeBeforeNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := newPixClient(srv.URL)
	session := &domain.Session{Token: "tok"}

	for _, rng := range []domain.DateRange{
		{Start: "", End: "2024-01-31"},
		{Start: "2024-01-01", End: ""},
		{Start: "01/01/2024", End: "2024-01-31"},
	} {
		_, err := c.FetchTransactions(context.Background(), session, rng)
		var valErr *domain.ErrValidation
		if !errors.As(err, &valErr) {
			t.Errorf("range %+v: expected ErrValidation, got %v", rng, err)
		}
	}
	if called {
		t.Error("validation failure must not reach the network")
	}
}

func TestPixClient_FetchNormalizesAndOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected bearer header, got '%s'", got)
		}
		if r.URL.Query().Get("inicio") != "2024-01-01" || r.URL.Query().Get("fim") != "2024-01-31" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pix":[
			{"horario":"2024-01-05T10:00","valor":10.5,"pagador":{"cpf":"111","nome":"A"}},
			{"horario":"2024-01-05T10:00","valor":"20.0","pagador":{"cnpj":"222","nome":"B"}},
			{"horario":"2024-01-20T08:00","valor":5.25,"pagador":{"nome":"C"}}
		]}`))
	}))
	defer srv.Close()

	c := newPixClient(srv.URL)
	records, err := c.FetchTransactions(context.Background(), &domain.Session{Token: "tok-1"}, validRange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	// Newest first; the two tied records keep input order.
	if records[0].PayerName != "C" || records[1].PayerName != "A" || records[2].PayerName != "B" {
		t.Errorf("unexpected order: %s, %s, %s", records[0].PayerName, records[1].PayerName, records[2].PayerName)
	}
	if records[0].TaxID != "" {
		t.Errorf("expected empty tax id for payer without identifiers, got '%s'", records[0].TaxID)
	}
	if records[1].TaxID != "111" || records[2].TaxID != "222" {
		t.Errorf("identifier resolution wrong: '%s', '%s'", records[1].TaxID, records[2].TaxID)
	}
	if records[2].Amount != 20.0 {
		t.Errorf("expected numeric-string amount to coerce to 20.0, got %f", records[2].Amount)
	}
}

func TestPixClient_NonSuccessPassesBodyVerbatim(t *testing.T) {
	const serviceMessage = "data inicial maior que data final"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(serviceMessage))
	}))
	defer srv.Close()

	c := newPixClient(srv.URL)
	_, err := c.FetchTransactions(context.Background(), &domain.Session{Token: "tok"}, validRange())

	var remote *domain.ErrRemote
	if !errors.As(err, &remote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if remote.Error() != serviceMessage {
		t.Errorf("expected verbatim body '%s', got '%s'", serviceMessage, remote.Error())
	}
	if remote.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", remote.Status)
	}
}

func TestPixClient_UnauthorizedIsFlagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Token inválido ou expirado", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newPixClient(srv.URL)
	_, err := c.FetchTransactions(context.Background(), &domain.Session{Token: "stale"}, validRange())

	var remote *domain.ErrRemote
	if !errors.As(err, &remote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if !remote.Unauthorized() {
		t.Error("expected 401 to be flagged as unauthorized")
	}
}

func TestPixClient_MalformedJSONIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pix": [`))
	}))
	defer srv.Close()

	c := newPixClient(srv.URL)
	_, err := c.FetchTransactions(context.Background(), &domain.Session{Token: "tok"}, validRange())

	var remote *domain.ErrRemote
	if !errors.As(err, &remote) {
		t.Fatalf("expected ErrRemote for malformed JSON, got %v", err)
	}
}
