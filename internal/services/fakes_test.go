package services

import (
	"context"
	"store-locator/internal/domain"
	"store-locator/internal/ports"
	"sync"
	"sync/atomic"
	"time"
)

type fakeSensor struct {
	coords domain.Coordinates
	deny   bool
	// hang makes CurrentPosition never return, ignoring ctx.
	hang bool
	// release, when set, gates CurrentPosition until closed.
	release chan struct{}

	mu    sync.Mutex
	calls []string

	positionCalls atomic.Int32
}

func (s *fakeSensor) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *fakeSensor) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeSensor) RequestAuthorization(ctx context.Context, scope ports.AuthorizationScope) error {
	s.record("authorize:" + string(scope))
	if s.deny {
		return ports.ErrPermissionDenied
	}
	return nil
}

func (s *fakeSensor) CurrentPosition(ctx context.Context, opts ports.PositionOptions) (ports.Position, error) {
	s.record("position:" + string(opts.Accuracy))
	s.positionCalls.Add(1)

	if s.hang {
		select {}
	}
	if s.release != nil {
		<-s.release
	}
	return ports.Position{Coordinates: s.coords, Timestamp: time.Now()}, nil
}

type listerCall struct {
	ctx   context.Context
	query domain.FetchQuery
}

// fakeLister answers each ListStores call with the next scripted response.
// A response with a non-nil gate blocks until the gate is closed or the
// call is cancelled.
type fakeLister struct {
	mu        sync.Mutex
	responses []listerResponse
	calls     []listerCall
}

type listerResponse struct {
	stores []domain.Store
	err    error
	gate   chan struct{}
}

func (l *fakeLister) push(r listerResponse) {
	l.mu.Lock()
	l.responses = append(l.responses, r)
	l.mu.Unlock()
}

func (l *fakeLister) Calls() []listerCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]listerCall(nil), l.calls...)
}

func (l *fakeLister) ListStores(ctx context.Context, query domain.FetchQuery) ([]domain.Store, error) {
	l.mu.Lock()
	l.calls = append(l.calls, listerCall{ctx: ctx, query: query})
	var r listerResponse
	if len(l.responses) > 0 {
		r = l.responses[0]
		l.responses = l.responses[1:]
	}
	l.mu.Unlock()

	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.stores, r.err
}

type recordingRenderer struct {
	mu           sync.Mutex
	placeholders int
	maps         []domain.Viewport
	markers      [][]domain.Marker
	affordance   []bool
	errors       []string

	onShowMap func(domain.Viewport)
}

func (r *recordingRenderer) ShowPlaceholder() {
	r.mu.Lock()
	r.placeholders++
	r.mu.Unlock()
}

func (r *recordingRenderer) ShowMap(initial domain.Viewport) {
	r.mu.Lock()
	r.maps = append(r.maps, initial)
	hook := r.onShowMap
	r.mu.Unlock()
	if hook != nil {
		hook(initial)
	}
}

func (r *recordingRenderer) ShowMarkers(markers []domain.Marker) {
	r.mu.Lock()
	r.markers = append(r.markers, markers)
	r.mu.Unlock()
}

func (r *recordingRenderer) SetAffordance(visible bool, fade time.Duration) {
	r.mu.Lock()
	r.affordance = append(r.affordance, visible)
	r.mu.Unlock()
}

func (r *recordingRenderer) ShowError(msg string) {
	r.mu.Lock()
	r.errors = append(r.errors, msg)
	r.mu.Unlock()
}

func (r *recordingRenderer) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

func (r *recordingRenderer) Maps() []domain.Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Viewport(nil), r.maps...)
}

func (r *recordingRenderer) MarkerSets() [][]domain.Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]domain.Marker(nil), r.markers...)
}

func (r *recordingRenderer) AffordanceChanges() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.affordance...)
}
