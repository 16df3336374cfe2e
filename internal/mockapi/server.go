// Package mockapi implements a local stand-in for the two remote
// collaborators — the authentication endpoint and the PIX listing
// endpoint — with the exact wire contracts the query core consumes.
// It exists for development and integration tests; error bodies are
// plain text because the real service's messages travel to the user
// verbatim.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/boddenberg/pix-consulta-go/internal/infra/cache"
	"github.com/boddenberg/pix-consulta-go/internal/infra/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Options configures the mock server.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	// Users maps username to plain-text password; hashed at startup.
	Users map[string]string
	// Records overrides the seeded data set (tests use this).
	Records []Record
}

// Server serves POST /login and GET /pix.
type Server struct {
	jwtSecret []byte
	tokenTTL  time.Duration
	users     map[string][]byte // username -> bcrypt hash
	tokens    *cache.InMemory[string]
	records   []Record
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// New creates the mock server. Nil Users gets the default dev user
// ("maria" / "s3cret"); nil Records gets the seeded data set.
func New(opts Options, metrics *observability.Metrics, logger *zap.Logger) (*Server, error) {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 30 * time.Minute
	}
	if opts.Users == nil {
		opts.Users = map[string]string{"maria": "s3cret"}
	}
	if opts.Records == nil {
		opts.Records = SeedRecords()
	}

	users := make(map[string][]byte, len(opts.Users))
	for name, password := range opts.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		users[name] = hash
	}

	return &Server{
		jwtSecret: []byte(opts.JWTSecret),
		tokenTTL:  opts.TokenTTL,
		users:     users,
		tokens:    cache.New[string](opts.TokenTTL),
		records:   opts.Records,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// Router builds the HTTP router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/metrics/queries", s.handleQuerySummary)

	r.Post("/login", s.handleLogin)
	r.Get("/pix", s.handleListPix)

	return r
}

// ============================================================
// POST /login
// ============================================================

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { s.metrics.RecordDuration("mock_login", time.Since(start)) }()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "corpo da requisição inválido", http.StatusBadRequest)
		return
	}

	hash, ok := s.users[req.User]
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		s.logger.Warn("mock login rejected", zap.String("user", req.User))
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
		return
	}

	token, err := s.signToken(req.User)
	if err != nil {
		s.logger.Error("mock login: token signing failed", zap.Error(err))
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}
	s.tokens.Set(token, req.User)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{Token: token})
}

func (s *Server) signToken(user string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		Issuer:    "pix-mock-api",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ============================================================
// GET /pix?inicio=YYYY-MM-DD&fim=YYYY-MM-DD
// ============================================================

func (s *Server) handleListPix(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { s.metrics.RecordDuration("mock_listing", time.Since(start)) }()

	if !s.authorize(w, r) {
		s.metrics.IncrQuery("error")
		return
	}

	inicio := r.URL.Query().Get("inicio")
	fim := r.URL.Query().Get("fim")
	if inicio == "" || fim == "" {
		s.metrics.IncrQuery("error")
		http.Error(w, "Informe data início e data fim", http.StatusBadRequest)
		return
	}
	from, err := time.Parse("2006-01-02", inicio)
	if err != nil {
		s.metrics.IncrQuery("error")
		http.Error(w, "data início inválida, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, err := time.Parse("2006-01-02", fim)
	if err != nil {
		s.metrics.IncrQuery("error")
		http.Error(w, "data fim inválida, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if from.After(to) {
		s.metrics.IncrQuery("error")
		// Range ordering is this service's responsibility, not the
		// client's.
		http.Error(w, "data inicial maior que data final", http.StatusBadRequest)
		return
	}

	matched := make([]Record, 0)
	for _, rec := range s.records {
		day := rec.Day()
		if day.IsZero() {
			continue
		}
		if !day.Before(from) && !day.After(to) {
			matched = append(matched, rec)
		}
	}

	s.metrics.IncrQuery("success")
	s.metrics.AddRecordsListed(len(matched))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]Record{"pix": matched})
}

// ============================================================
// GET /metrics/queries
// ============================================================

type querySummaryResponse struct {
	*observability.QuerySnapshot
	ActiveTokens int `json:"active_tokens"`
}

// handleQuerySummary reports cumulative listing activity read back from
// the Prometheus counters, plus the size of the issued-token table.
func (s *Server) handleQuerySummary(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(querySummaryResponse{
		QuerySnapshot: s.metrics.GetQuerySnapshot(),
		ActiveTokens:  s.tokens.Len(),
	})
}

// authorize checks the bearer token against both the JWT signature and
// the server-side token table (which enforces the TTL).
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		http.Error(w, "Token de autenticação não fornecido", http.StatusUnauthorized)
		return false
	}
	tokenString := parts[1]

	if _, ok := s.tokens.Get(tokenString); !ok {
		http.Error(w, "Token inválido ou expirado", http.StatusUnauthorized)
		return false
	}

	_, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.logger.Warn("mock listing: invalid token", zap.Error(err))
		http.Error(w, "Token inválido ou expirado", http.StatusUnauthorized)
		return false
	}

	return true
}

// Helper used by tests to mint a token without going through /login.
func (s *Server) IssueToken(user string) (string, error) {
	token, err := s.signToken(user)
	if err != nil {
		return "", err
	}
	s.tokens.Set(token, user)
	return token, nil
}
