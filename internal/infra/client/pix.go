package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/boddenberg/pix-consulta-go/internal/domain"
	"github.com/boddenberg/pix-consulta-go/internal/pix"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PixClient fetches paid PIX transfers from the listing endpoint and
// returns them normalized and ordered.
type PixClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewPixClient creates a PixClient. The injected http.Client controls
// timeouts; no additional deadline is enforced here.
func NewPixClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, logger *zap.Logger) *PixClient {
	return &PixClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		logger:     logger,
	}
}

// FetchTransactions issues the authenticated listing request and feeds
// the payload through normalization and ordering. A single failed
// attempt is a single reported failure: no retries. Non-2xx responses
// surface the raw body text verbatim.
func (c *PixClient) FetchTransactions(ctx context.Context, session *domain.Session, rng domain.DateRange) ([]domain.CanonicalRecord, error) {
	ctx, span := tracer.Start(ctx, "PixClient.FetchTransactions")
	defer span.End()
	span.SetAttributes(
		attribute.String("range.start", rng.Start),
		attribute.String("range.end", rng.End),
	)

	if err := rng.Validate(); err != nil {
		return nil, err
	}

	result, err := c.cb.Execute(func() (any, error) {
		return c.doList(ctx, session, rng)
	})
	if err != nil {
		var remote *domain.ErrRemote
		if !errors.As(err, &remote) {
			// Transport failure or open breaker.
			err = &domain.ErrRemote{Err: err}
		}
		return nil, err
	}

	return result.([]domain.CanonicalRecord), nil
}

func (c *PixClient) doList(ctx context.Context, session *domain.Session, rng domain.DateRange) ([]domain.CanonicalRecord, error) {
	query := url.Values{}
	query.Set("inicio", rng.Start)
	query.Set("fim", rng.End)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pix?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", session.Token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("listing request failed",
			zap.String("inicio", rng.Start),
			zap.String("fim", rng.End),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("listing returned non-2xx",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		// The service's error text is the user-facing message,
		// passed through verbatim.
		return nil, &domain.ErrRemote{Status: resp.StatusCode, Body: string(body)}
	}

	var payload domain.ListResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ErrRemote{Err: fmt.Errorf("decode listing response: %w", err)}
	}

	c.logger.Debug("listing OK",
		zap.String("inicio", rng.Start),
		zap.String("fim", rng.End),
		zap.Int("records", len(payload.Pix)),
	)

	return pix.Order(pix.NormalizeAll(payload.Pix)), nil
}
