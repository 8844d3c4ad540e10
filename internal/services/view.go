package services

import (
	"context"
	"errors"
	"store-locator/internal/domain"
	"store-locator/internal/platform/obs"
	"store-locator/internal/ports"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var ErrViewStarted = errors.New("store locator view already started")

// ViewConfig tunes a StoreLocatorView.
type ViewConfig struct {
	Acquire AcquireConfig
	// Span framing the baseline viewport.
	Span domain.Span
	// Fade duration of the update affordance.
	Fade time.Duration
}

func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		Acquire: DefaultAcquireConfig(),
		Span:    domain.DefaultSpan,
		Fade:    200 * time.Millisecond,
	}
}

// Snapshot is a point-in-time copy of the view state, safe to read from
// any goroutine.
type Snapshot struct {
	State             domain.SyncState
	AffordanceVisible bool
	Stores            []domain.Store
	AcquisitionErr    *AcquisitionError
	LastFetchErr      *FetchError
	FetchesStarted    int
	// Incremented for every handled event.
	Revision uint64
}

type event interface{ isEvent() }

type locationResolved struct{ coords domain.Coordinates }
type locationFailed struct{ err error }
type regionChanged struct{ viewport domain.Viewport }
type confirmed struct{}
type fetchFinished struct{ outcome FetchOutcome }

func (locationResolved) isEvent() {}
func (locationFailed) isEvent()   {}
func (regionChanged) isEvent()    {}
func (confirmed) isEvent()        {}
func (fetchFinished) isEvent()    {}

// StoreLocatorView composes the location acquirer, the viewport tracker
// and the fetch coordinator around one SyncState.
//
// Every input (location result, region change, confirmation, fetch
// result) becomes an event handled to completion on the Run loop, so the
// tracker and renderer are only touched from that goroutine.
type StoreLocatorView struct {
	acquirer *LocationAcquirer
	tracker  *ViewportTracker
	fetcher  *FetchCoordinator
	renderer ports.Renderer
	cfg      ViewConfig
	log      *zap.SugaredLogger

	events  chan event
	done    chan struct{}
	started atomic.Bool

	snapshot       atomic.Pointer[Snapshot]
	displayed      []domain.Store
	acqErr         *AcquisitionError
	lastFetchErr   *FetchError
	fetchesStarted int
	revision       uint64
}

func NewStoreLocatorView(
	acquirer *LocationAcquirer,
	fetcher *FetchCoordinator,
	renderer ports.Renderer,
	cfg ViewConfig,
	log *zap.SugaredLogger,
) *StoreLocatorView {
	if log == nil {
		log = obs.Logger()
	}
	if cfg.Span.Latitude <= 0 || cfg.Span.Longitude <= 0 {
		cfg.Span = domain.DefaultSpan
	}

	v := &StoreLocatorView{
		acquirer: acquirer,
		tracker:  NewViewportTracker(cfg.Fade, nil),
		fetcher:  fetcher,
		renderer: renderer,
		cfg:      cfg,
		log:      log,
		events:   make(chan event, 64),
		done:     make(chan struct{}),
	}
	v.publish()
	return v
}

// Run renders the placeholder, starts the one location acquisition of
// this view and dispatches events until ctx is done. It may be called
// once.
func (v *StoreLocatorView) Run(ctx context.Context) error {
	if !v.started.CompareAndSwap(false, true) {
		return ErrViewStarted
	}
	defer close(v.done)

	v.renderer.ShowPlaceholder()

	go func() {
		coords, err := v.acquirer.Acquire(ctx, v.cfg.Acquire)
		if err != nil {
			v.post(locationFailed{err: err})
			return
		}
		v.post(locationResolved{coords: coords})
	}()

	for {
		select {
		case <-ctx.Done():
			v.fetcher.Cancel()
			return ctx.Err()
		case ev := <-v.events:
			v.handle(ctx, ev)
			v.revision++
			v.publish()
		}
	}
}

// RegionChanged delivers a region-settled event from the map widget.
func (v *StoreLocatorView) RegionChanged(vp domain.Viewport) {
	v.post(regionChanged{viewport: vp})
}

// Confirm is the user pressing the update affordance.
func (v *StoreLocatorView) Confirm() {
	v.post(confirmed{})
}

// Snapshot returns the state as of the last handled event.
func (v *StoreLocatorView) Snapshot() Snapshot {
	return *v.snapshot.Load()
}

// AffordanceOpacity samples the update control's fade at now, for
// renderers that animate it. Safe from any goroutine.
func (v *StoreLocatorView) AffordanceOpacity(now time.Time) float64 {
	return v.tracker.Affordance().Opacity(now)
}

func (v *StoreLocatorView) post(ev event) {
	select {
	case v.events <- ev:
	case <-v.done:
	}
}

func (v *StoreLocatorView) handle(ctx context.Context, ev event) {
	switch e := ev.(type) {
	case locationResolved:
		v.onLocation(ctx, e.coords)
	case locationFailed:
		v.onLocationFailed(e.err)
	case regionChanged:
		v.onRegionChanged(e.viewport)
	case confirmed:
		v.onConfirm(ctx)
	case fetchFinished:
		v.onFetchFinished(e.outcome)
	}
}

func (v *StoreLocatorView) onLocation(ctx context.Context, coords domain.Coordinates) {
	vp := domain.NewViewport(coords, v.cfg.Span)

	query, err := v.tracker.Baseline(vp)
	if err != nil {
		v.log.Errorw("cannot establish baseline viewport", "err", err)
		return
	}

	v.renderer.ShowMap(vp)
	v.startFetch(ctx, query)
}

func (v *StoreLocatorView) onLocationFailed(err error) {
	var acqErr *AcquisitionError
	if !errors.As(err, &acqErr) {
		// Only cancellation reaches here: the view is shutting down.
		v.log.Debugw("location acquisition stopped", "err", err)
		return
	}

	v.acqErr = acqErr
	v.log.Warnw("location acquisition failed", "reason", acqErr.Reason, "err", acqErr.Err)
	v.renderer.ShowError(acqErr.Message)
}

func (v *StoreLocatorView) onRegionChanged(vp domain.Viewport) {
	change := v.tracker.RegionChanged(vp)
	v.log.Debugw("region changed", "viewport", vp.String(), "result", change.String())

	if change == RegionArmed {
		v.renderer.SetAffordance(true, v.cfg.Fade)
	}
}

func (v *StoreLocatorView) onConfirm(ctx context.Context) {
	query, ok := v.tracker.Confirm()
	if !ok {
		v.log.Debugw("confirm ignored", "phase", v.tracker.State().Phase.String())
		return
	}

	v.renderer.SetAffordance(false, v.cfg.Fade)
	v.startFetch(ctx, query)
}

func (v *StoreLocatorView) onFetchFinished(outcome FetchOutcome) {
	switch outcome.Status {
	case FetchApplied:
		v.lastFetchErr = nil
		v.displayed = outcome.Stores
		v.renderer.ShowMarkers(domain.Markers(outcome.Stores))
	case FetchFailed:
		v.lastFetchErr = outcome.Err
	}
}

func (v *StoreLocatorView) startFetch(ctx context.Context, query domain.FetchQuery) {
	v.fetchesStarted++
	results := v.fetcher.Fetch(ctx, query)

	go func() {
		if outcome, ok := <-results; ok {
			v.post(fetchFinished{outcome: outcome})
		}
	}()
}

func (v *StoreLocatorView) publish() {
	v.snapshot.Store(&Snapshot{
		State:             v.tracker.State(),
		AffordanceVisible: v.tracker.AffordanceVisible(),
		Stores:            v.displayed,
		AcquisitionErr:    v.acqErr,
		LastFetchErr:      v.lastFetchErr,
		FetchesStarted:    v.fetchesStarted,
		Revision:          v.revision,
	})
}
