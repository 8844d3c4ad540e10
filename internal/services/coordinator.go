package services

import (
	"context"
	"fmt"
	"store-locator/internal/domain"
	"store-locator/internal/platform/obs"
	"store-locator/internal/ports"
	"sync"
	"time"

	"go.uber.org/zap"
)

// How a fetch ended.
type FetchStatus int

const (
	// The result replaced the displayed collection.
	FetchApplied FetchStatus = iota
	// A newer fetch started first; the result was discarded.
	FetchSuperseded
	// The fetch failed; the displayed collection is unchanged.
	FetchFailed
)

func (s FetchStatus) String() string {
	switch s {
	case FetchApplied:
		return "applied"
	case FetchSuperseded:
		return "superseded"
	case FetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchOutcome is delivered once per Fetch call.
type FetchOutcome struct {
	Seq    uint64
	Query  domain.FetchQuery
	Status FetchStatus
	Stores []domain.Store
	Err    *FetchError
}

// FetchCoordinator runs store fetches and decides which result may replace
// the displayed collection, which the caller owns.
//
// Each fetch is tagged with a monotonic sequence number. Starting a fetch
// cancels the one in flight, and only the latest fetch is reported as
// FetchApplied, so a slow superseded response can never overwrite a newer
// one. Failures carry no stores. There is no retry.
type FetchCoordinator struct {
	lister  ports.StoreLister
	timeout time.Duration
	log     *zap.SugaredLogger
	metrics *obs.Metrics

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewFetchCoordinator bounds each fetch by timeout; zero means no limit.
func NewFetchCoordinator(lister ports.StoreLister, timeout time.Duration, log *zap.SugaredLogger, metrics *obs.Metrics) *FetchCoordinator {
	if log == nil {
		log = obs.Logger()
	}
	return &FetchCoordinator{
		lister:  lister,
		timeout: timeout,
		log:     log,
		metrics: metrics,
	}
}

// Fetch starts an asynchronous fetch. The returned channel yields exactly
// one outcome and is then closed.
func (c *FetchCoordinator) Fetch(ctx context.Context, query domain.FetchQuery) <-chan FetchOutcome {
	out := make(chan FetchOutcome, 1)

	if err := query.Validate(); err != nil {
		fe := &FetchError{Reason: FetchReasonInvalidQuery, Err: fmt.Errorf("fetch query: %w", err)}
		c.metrics.FetchOutcome(FetchFailed.String())
		out <- FetchOutcome{Query: query, Status: FetchFailed, Err: fe}
		close(out)
		return out
	}

	var fctx context.Context
	var cancel context.CancelFunc
	if c.timeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		fctx, cancel = context.WithCancel(ctx)
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.mu.Unlock()

	c.log.Infow("fetching stores", "seq", seq, "viewport", query.Viewport().String())

	go func() {
		defer close(out)
		defer cancel()

		stores, err := c.lister.ListStores(fctx, query)
		out <- c.complete(seq, query, stores, err)
	}()

	return out
}

func (c *FetchCoordinator) complete(seq uint64, query domain.FetchQuery, stores []domain.Store, err error) FetchOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcome := FetchOutcome{Seq: seq, Query: query}

	if seq != c.seq {
		outcome.Status = FetchSuperseded
		c.metrics.FetchOutcome(outcome.Status.String())
		c.log.Debugw("discarding superseded fetch", "seq", seq, "latest", c.seq)
		return outcome
	}
	c.cancel = nil

	if err != nil {
		outcome.Status = FetchFailed
		outcome.Err = classifyFetchError(err)
		c.metrics.FetchOutcome(outcome.Status.String())
		c.log.Warnw("fetch stores failed; keeping displayed stores",
			"seq", seq, "reason", outcome.Err.Reason, "err", err)
		return outcome
	}

	if stores == nil {
		stores = []domain.Store{}
	}
	outcome.Status = FetchApplied
	outcome.Stores = stores
	c.metrics.FetchOutcome(outcome.Status.String())
	c.log.Infow("stores replaced", "seq", seq, "count", len(stores))

	return outcome
}

// Cancel aborts the fetch in flight, if any.
func (c *FetchCoordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
