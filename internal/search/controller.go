// Package search keeps the URL's name parameter, the input draft, the recent
// searches list and the lookup cache in step.
package search

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"pokesearch/internal/query"
	"pokesearch/internal/recent"
	"pokesearch/internal/render"
)

// ParamKey is the only piece of navigable state.
const ParamKey = "name"

// Canonicalize trims and lower-cases a search term.
func Canonicalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Lookup is the part of the query client the controller drives.
type Lookup interface {
	Fetch(name string) query.Snapshot
	Peek(name string) query.Snapshot
	Retry(name string) bool
}

// Listener receives a freshly computed view after every state change.
type Listener func(render.View)

// Controller owns one page's search state. The URL is the source of truth
// for the active term; the draft follows it on navigation but may be edited
// independently in between.
type Controller struct {
	lookup   Lookup
	recent   *recent.Store
	renderer *render.Renderer

	mu        sync.Mutex
	params    url.Values
	term      string
	draft     string
	listeners map[int]Listener
	nextID    int
}

// NewController creates a controller with no active search.
func NewController(lookup Lookup, store *recent.Store, renderer *render.Renderer) *Controller {
	return &Controller{
		lookup:    lookup,
		recent:    store,
		renderer:  renderer,
		params:    url.Values{},
		listeners: make(map[int]Listener),
	}
}

// Navigate applies a URL change, given the raw query string. It covers the
// initial load as well as back/forward navigation.
func (c *Controller) Navigate(rawQuery string) {
	// ParseQuery keeps every pair it could parse even when it reports an error.
	params, _ := url.ParseQuery(rawQuery)
	raw := params.Get(ParamKey)
	term := Canonicalize(raw)

	c.mu.Lock()
	c.params = params
	c.term = term
	c.draft = raw
	c.mu.Unlock()

	if term != "" {
		snap := c.lookup.Fetch(term)
		if snap.Status == query.StatusLoading && c.hasListeners() {
			go c.notifyOnSettle(snap.Done())
		}
	}
	c.notify()
}

// Load is a fresh page load of rawQuery. A failed lookup for its term is
// dropped first so a reload asks the remote again; resolved results are reused.
func (c *Controller) Load(rawQuery string) {
	params, _ := url.ParseQuery(rawQuery)
	if term := Canonicalize(params.Get(ParamKey)); term != "" {
		c.lookup.Retry(term)
	}
	c.Navigate(rawQuery)
}

// Submit runs a search for raw input and returns the URL to navigate to.
// A non-empty canonical term is recorded as a recent search; an empty one
// clears the name parameter. The new URL is applied before returning.
func (c *Controller) Submit(raw string) string {
	term := Canonicalize(raw)

	c.mu.Lock()
	next := cloneValues(c.params)
	c.mu.Unlock()

	if term != "" {
		next.Set(ParamKey, term)
		c.lookup.Retry(term)
		if _, err := c.recent.Record(term); err != nil {
			slog.Error("failed to record recent search", "term", term, "error", err)
		}
	} else {
		next.Del(ParamKey)
	}

	encoded := next.Encode()
	c.Navigate(encoded)
	return URLFor(encoded)
}

// URLFor builds the page path for an encoded query string.
func URLFor(encoded string) string {
	if encoded == "" {
		return "/"
	}
	return "/?" + encoded
}

// URL returns the current page path.
func (c *Controller) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return URLFor(c.params.Encode())
}

// Query returns a copy of the current query parameters.
func (c *Controller) Query() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneValues(c.params)
}

// Term returns the canonical active term.
func (c *Controller) Term() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

// HasSearch reports whether a term is active.
func (c *Controller) HasSearch() bool {
	return c.Term() != ""
}

// Draft returns the input's current value.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft edits the input without touching the URL or starting a fetch.
func (c *Controller) SetDraft(value string) {
	c.mu.Lock()
	c.draft = value
	c.mu.Unlock()
}

// Recent returns the recent searches list.
func (c *Controller) Recent() []string {
	return c.recent.Items()
}

// View computes the result view for the current term.
func (c *Controller) View() render.View {
	term := c.Term()
	if term == "" {
		return c.renderer.Render("", query.Snapshot{})
	}
	return c.renderer.Render(term, c.lookup.Peek(term))
}

// Settle waits until the active term's lookup is no longer loading, or ctx
// is done, and returns the view at that point.
func (c *Controller) Settle(ctx context.Context) render.View {
	term := c.Term()
	if term != "" {
		if snap := c.lookup.Peek(term); snap.Status == query.StatusLoading {
			select {
			case <-snap.Done():
			case <-ctx.Done():
			}
		}
	}
	return c.View()
}

// Subscribe registers fn and returns a function that removes it.
func (c *Controller) Subscribe(fn Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// notifyOnSettle re-renders when a lookup settles. The view is always for the
// current term, so a settle for a term the URL has moved away from never
// shows its result.
func (c *Controller) notifyOnSettle(done <-chan struct{}) {
	<-done
	c.notify()
}

func (c *Controller) hasListeners() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners) > 0
}

func (c *Controller) notify() {
	c.mu.Lock()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	if len(listeners) == 0 {
		return
	}
	view := c.View()
	for _, fn := range listeners {
		fn(view)
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
