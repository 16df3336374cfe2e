// Package controller composes the session manager, the query client and
// the pure core into the top-level query controller: "give me page P of
// the transactions between date A and date B, plus their total".
package controller

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/boddenberg/pix-consulta-go/internal/domain"
	"github.com/boddenberg/pix-consulta-go/internal/infra/observability"
	"github.com/boddenberg/pix-consulta-go/internal/pix"
	"github.com/boddenberg/pix-consulta-go/internal/port"
	"github.com/boddenberg/pix-consulta-go/internal/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("controller")

// State is the controller's position in its lifecycle.
type State int

const (
	StateUnauthenticated State = iota
	StateIdle
	StateLoading
	StateError
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Controller answers paginated, summed transaction queries. All state
// mutations go through the mutex; every query submission carries a
// generation tag and only the newest generation may apply its outcome,
// so a response that arrives after a newer query completed is discarded
// instead of clobbering fresher data.
type Controller struct {
	sessions *session.Manager
	lister   port.TransactionLister
	metrics  *observability.Metrics
	logger   *zap.Logger
	pageSize int

	mu         sync.Mutex
	state      State
	records    []domain.CanonicalRecord
	errMessage string
	page       int
	generation uint64
}

// New creates a controller. A non-positive pageSize falls back to the
// default display window.
func New(sessions *session.Manager, lister port.TransactionLister, pageSize int, metrics *observability.Metrics, logger *zap.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = pix.DefaultPageSize
	}
	return &Controller{
		sessions: sessions,
		lister:   lister,
		metrics:  metrics,
		logger:   logger,
		pageSize: pageSize,
		state:    StateUnauthenticated,
		page:     1,
	}
}

// Restore tries to resume a persisted session. Returns true when a
// session was found; the controller is then idle and ready to query.
func (c *Controller) Restore(ctx context.Context) bool {
	if c.sessions.Restore(ctx) == nil {
		return false
	}
	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
	return true
}

// Login authenticates and moves the controller to idle on success.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "Controller.Login")
	defer span.End()

	if _, err := c.sessions.Login(ctx, username, password); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = StateIdle
	c.errMessage = ""
	c.mu.Unlock()
	return nil
}

// Logout clears the session, the result set and any pending query
// state. Safe to call from any state.
func (c *Controller) Logout(ctx context.Context) {
	c.sessions.Logout(ctx)

	c.mu.Lock()
	c.state = StateUnauthenticated
	c.records = nil
	c.errMessage = ""
	c.page = 1
	c.generation++ // orphan any in-flight query
	c.mu.Unlock()
}

// Query fetches the transactions for the range and replaces the result
// set wholesale. An invalid range is surfaced as a form-level message
// without touching the previously displayed results; a valid submission
// immediately clears previous results and error before the request
// begins, so no stale data flashes. The error, if any, is also returned
// to the direct caller.
func (c *Controller) Query(ctx context.Context, rng domain.DateRange) error {
	ctx, span := tracer.Start(ctx, "Controller.Query")
	defer span.End()
	span.SetAttributes(
		attribute.String("range.start", rng.Start),
		attribute.String("range.end", rng.End),
	)

	if err := rng.Validate(); err != nil {
		c.mu.Lock()
		c.errMessage = err.Error()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.state == StateUnauthenticated {
		c.mu.Unlock()
		return &domain.ErrAuthentication{Message: "login required"}
	}
	sess := c.sessions.Current()
	if sess == nil {
		c.state = StateUnauthenticated
		c.mu.Unlock()
		return &domain.ErrAuthentication{Message: "login required"}
	}
	c.records = nil
	c.errMessage = ""
	c.page = 1
	c.state = StateLoading
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	start := time.Now()
	records, err := c.lister.FetchTransactions(ctx, sess, rng)
	c.metrics.RecordDuration("query", time.Since(start))

	c.apply(ctx, gen, records, err)
	return err
}

// apply commits a fetch outcome if it still belongs to the newest
// submission.
func (c *Controller) apply(ctx context.Context, gen uint64, records []domain.CanonicalRecord, err error) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("stale query response discarded",
			zap.Uint64("generation", gen),
		)
		return
	}

	if err != nil {
		c.records = nil
		c.errMessage = err.Error()
		c.state = StateError

		var remote *domain.ErrRemote
		unauthorized := errors.As(err, &remote) && remote.Unauthorized()
		if unauthorized {
			c.state = StateUnauthenticated
		}
		c.mu.Unlock()

		c.metrics.IncrQuery("error")
		if remote != nil {
			c.metrics.IncrRemoteError("pix")
		}
		if unauthorized {
			// The service rejected the token itself; the persisted
			// session is no longer valid.
			c.sessions.Invalidate(ctx)
		}
		return
	}

	c.records = records
	c.errMessage = ""
	c.page = 1
	c.state = StatePopulated
	count := len(records)
	c.mu.Unlock()

	c.metrics.IncrQuery("success")
	c.metrics.AddRecordsListed(count)
	c.logger.Info("query populated", zap.Int("records", count))
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ErrorMessage returns the user-facing message for the last failure or
// validation problem, empty when none.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMessage
}

// Records returns the full ordered result set of the current query.
func (c *Controller) Records() []domain.CanonicalRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records
}

// Total sums the amounts over the entire result set, not just the
// current page. A NaN total means malformed upstream data and is
// reported as ErrData rather than silently zeroed.
func (c *Controller) Total() (float64, error) {
	c.mu.Lock()
	records := c.records
	c.mu.Unlock()

	total := pix.Sum(records)
	if math.IsNaN(total) {
		return total, &domain.ErrData{}
	}
	return total, nil
}

// Page moves to page n, clamped into [1, totalPages], and returns the
// window.
func (c *Controller) Page(n int) domain.Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.page = clamp(n, pix.TotalPages(len(c.records), c.pageSize))
	return pix.Paginate(c.records, c.page, c.pageSize)
}

// CurrentPage returns the window at the current page number.
func (c *Controller) CurrentPage() domain.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pix.Paginate(c.records, c.page, c.pageSize)
}

// NextPage advances one page, clamped to the last one.
func (c *Controller) NextPage() domain.Page {
	c.mu.Lock()
	n := c.page + 1
	c.mu.Unlock()
	return c.Page(n)
}

// PrevPage steps back one page, clamped to the first one.
func (c *Controller) PrevPage() domain.Page {
	c.mu.Lock()
	n := c.page - 1
	c.mu.Unlock()
	return c.Page(n)
}

func clamp(n, totalPages int) int {
	if n < 1 {
		return 1
	}
	if totalPages > 0 && n > totalPages {
		return totalPages
	}
	if totalPages == 0 {
		return 1
	}
	return n
}
