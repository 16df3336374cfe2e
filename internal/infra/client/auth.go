// Package client wraps HTTP calls to the two remote collaborators: the
// authentication endpoint and the transaction-listing endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/boddenberg/pix-consulta-go/internal/domain"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("client")

// AuthClient exchanges credentials for a session token via POST /login.
type AuthClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewAuthClient creates an AuthClient.
func NewAuthClient(httpClient *http.Client, baseURL string, logger *zap.Logger) *AuthClient {
	return &AuthClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login posts the credential pair. Any non-2xx response means rejected
// credentials; the response body is not guaranteed parseable and is not
// surfaced.
func (c *AuthClient) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := tracer.Start(ctx, "AuthClient.Login")
	defer span.End()

	payload, err := json.Marshal(loginRequest{User: username, Password: password})
	if err != nil {
		return "", &domain.ErrRemote{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return "", &domain.ErrRemote{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("login request failed", zap.Error(err))
		return "", &domain.ErrRemote{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Warn("login rejected",
			zap.String("user", username),
			zap.Int("status", resp.StatusCode),
		)
		return "", &domain.ErrAuthentication{}
	}

	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &domain.ErrRemote{Err: fmt.Errorf("decode login response: %w", err)}
	}
	if body.Token == "" {
		return "", &domain.ErrRemote{Err: fmt.Errorf("login response carried an empty token")}
	}

	return body.Token, nil
}
