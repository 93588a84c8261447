// Package paging keeps a locally held list in step with a paginated remote
// query: page 1 replaces the list, later pages append, and a response to a
// request that has since been superseded is dropped.
package paging

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/mitchellh/hashstructure/v2"
)

var (
	// ErrSuperseded is returned to a caller whose request was overtaken by a newer one
	ErrSuperseded = errors.New("request superseded by a newer one")

	// ErrReachedBottom is returned by LoadMore when the last page was short
	ErrReachedBottom = errors.New("no more pages")

	// ErrNotLoaded is returned by LoadMore when there is no loaded page to continue from
	ErrNotLoaded = errors.New("no loaded page to continue from")

	// ErrClosed is returned once the collection has been closed
	ErrClosed = errors.New("collection closed")
)

// Phase is where the collection is in its request cycle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Affordance is what the list should offer at its end
type Affordance int

const (
	AffordanceNone Affordance = iota
	AffordanceLoading
	AffordanceLoadMore
	AffordanceReachedBottom
	AffordanceRetry
)

// Filter is a query with a page position. WithPage returns a copy.
type Filter[F any] interface {
	Page() int
	PerPage() int
	WithPage(page int) F
}

// FetchFunc loads the page described by the filter
type FetchFunc[T any, F any] func(ctx context.Context, filter F) ([]T, error)

// State is a snapshot of the collection
type State[T any, F any] struct {
	Items  []T
	Filter F     // Last issued filter
	Phase  Phase
	Loaded int   // Size of the last successful page
	Err    error // Failure of the last request, when Phase is PhaseFailed
}

// Collection is safe for concurrent use. Fetching methods block the caller
// until the request completes.
type Collection[T any, F Filter[F]] struct {
	fetch  FetchFunc[T, F]
	logger *slog.Logger

	mu          sync.Mutex
	state       State[T, F]
	requestID   uint64
	version     uint64
	closed      bool
	subscribers map[int]func(State[T, F])
	nextSubID   int

	notifyMu     sync.Mutex
	lastNotified uint64
}

// New creates an idle collection. Nothing is fetched until SetFilter.
func New[T any, F Filter[F]](fetch FetchFunc[T, F], initial F, logger *slog.Logger) *Collection[T, F] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T, F]{
		fetch:       fetch,
		logger:      logger,
		state:       State[T, F]{Filter: initial, Phase: PhaseIdle},
		subscribers: make(map[int]func(State[T, F])),
	}
}

// SetFilter loads the first page of f. When f selects a different query than
// the current filter (page aside) the held items are cleared immediately.
func (c *Collection[T, F]) SetFilter(ctx context.Context, f F) error {
	issued := f.WithPage(1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.sameQuery(c.state.Filter, issued) {
		c.state.Items = nil
		c.state.Loaded = 0
	}
	return c.issueLocked(ctx, issued)
}

// LoadMore loads the page after the current one and appends it
func (c *Collection[T, F]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Phase != PhaseLoaded {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	if c.reachedBottomLocked() {
		c.mu.Unlock()
		return ErrReachedBottom
	}
	return c.issueLocked(ctx, c.state.Filter.WithPage(c.state.Filter.Page()+1))
}

// Retry re-issues the last filter. Items stay as they are until it completes.
func (c *Collection[T, F]) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	return c.issueLocked(ctx, c.state.Filter)
}

// issueLocked claims a request id for f and runs it. It is entered with mu
// held, so whatever the caller changed and the new id become visible
// together. Only the most recently issued request may change the state when
// it completes.
func (c *Collection[T, F]) issueLocked(ctx context.Context, f F) error {
	c.requestID++
	id := c.requestID
	c.state.Filter = f
	c.state.Phase = PhaseLoading
	c.state.Err = nil
	snapshot, version := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snapshot, version)

	c.logger.Debug("fetching page", "page", f.Page(), "per_page", f.PerPage(), "request", id)
	page, err := c.fetch(ctx, f)
	return c.finish(id, f, page, err)
}

// finish applies the outcome of request id unless it was superseded
func (c *Collection[T, F]) finish(id uint64, f F, page []T, err error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if id != c.requestID {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded page", "page", f.Page(), "request", id)
		return ErrSuperseded
	}

	if err != nil {
		c.state.Phase = PhaseFailed
		c.state.Err = err
	} else {
		if f.Page() <= 1 {
			c.state.Items = slices.Clone(page)
		} else {
			c.state.Items = append(slices.Clone(c.state.Items), page...)
		}
		c.state.Phase = PhaseLoaded
		c.state.Loaded = len(page)
	}
	snapshot, version := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snapshot, version)

	return err
}

// State returns a snapshot
func (c *Collection[T, F]) State() State[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, _ := c.snapshotLocked()
	return s
}

// Filter returns the last issued filter
func (c *Collection[T, F]) Filter() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Filter
}

// Affordance derives what the end of the list should offer from the phase
func (c *Collection[T, F]) Affordance() Affordance {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state.Phase {
	case PhaseLoading:
		return AffordanceLoading
	case PhaseFailed:
		return AffordanceRetry
	case PhaseLoaded:
		if c.reachedBottomLocked() {
			return AffordanceReachedBottom
		}
		return AffordanceLoadMore
	default:
		return AffordanceNone
	}
}

// Subscribe calls fn with a snapshot after every change. fn runs on the
// goroutine that made the change and must not call back into fetching methods.
func (c *Collection[T, F]) Subscribe(fn func(State[T, F])) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Close drops every subscriber and makes requests still in flight return
// ErrClosed without touching the state.
func (c *Collection[T, F]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.requestID++
	clear(c.subscribers)
}

func (c *Collection[T, F]) reachedBottomLocked() bool {
	return c.state.Loaded < c.state.Filter.PerPage()
}

func (c *Collection[T, F]) snapshotLocked() (State[T, F], uint64) {
	c.version++
	s := c.state
	s.Items = slices.Clone(c.state.Items)
	return s, c.version
}

// notify delivers a snapshot unless a newer one was already delivered
func (c *Collection[T, F]) notify(s State[T, F], version uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if version <= c.lastNotified {
		return
	}
	c.lastNotified = version

	c.mu.Lock()
	subs := make([]func(State[T, F]), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// sameQuery compares two filters ignoring their page
func (c *Collection[T, F]) sameQuery(a, b F) bool {
	ha, err := hashstructure.Hash(a.WithPage(0), hashstructure.FormatV2, nil)
	if err != nil {
		c.logger.Warn("failed to hash filter", "error", err)
		return false
	}
	hb, err := hashstructure.Hash(b.WithPage(0), hashstructure.FormatV2, nil)
	if err != nil {
		c.logger.Warn("failed to hash filter", "error", err)
		return false
	}
	return ha == hb
}
