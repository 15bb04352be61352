package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"wanderwise/models"
	"wanderwise/mq"
	"wanderwise/utils"
)

// Status is the submit lifecycle state of one workflow instance.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// Session is the caller's authentication state at submit time.
type Session struct {
	UserID        string
	Authenticated bool
}

// Saver persists one SavedItinerary record.
type Saver interface {
	Save(ctx context.Context, rec models.SavedItinerary) error
}

// ErrInFlight rejects a submit while another one is still running.
var ErrInFlight = errors.New("a submission is already in progress")

// Workflow drives the request lifecycle for one client: validate,
// submit upstream, record the outcome, and conditionally persist.
// Only one submission may be in flight at a time; a failed attempt
// keeps the previous successful result visible.
type Workflow struct {
	mu         sync.Mutex
	status     Status
	lastResult json.RawMessage
	lastError  string

	gen   Generator
	store Saver
	now   func() time.Time
	emit  func(ctx context.Context, eventName string, content models.Index)
}

func NewWorkflow(gen Generator, store Saver) *Workflow {
	return &Workflow{
		status: StatusIdle,
		gen:    gen,
		store:  store,
		now:    time.Now,
		emit:   mq.Emit,
	}
}

func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// LastResult returns the most recent successful generation body, if any.
func (w *Workflow) LastResult() json.RawMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastResult
}

func (w *Workflow) LastError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastError
}

// Submit runs one full submission. On success the raw upstream body is
// returned and, when the session is authenticated, exactly one
// SavedItinerary write is attempted. That write is best-effort: its
// failure is logged and emitted, never surfaced.
func (w *Workflow) Submit(ctx context.Context, req TripRequest, sess Session) (json.RawMessage, error) {
	w.mu.Lock()
	if w.status == StatusSubmitting {
		w.mu.Unlock()
		return nil, ErrInFlight
	}

	w.status = StatusValidating
	if err := req.Validate(w.now()); err != nil {
		// Guard failure: back to idle, no network call.
		w.status = StatusIdle
		w.mu.Unlock()
		return nil, err
	}
	w.status = StatusSubmitting
	w.mu.Unlock()

	raw, err := w.gen.Generate(ctx, req)

	w.mu.Lock()
	if err != nil {
		w.status = StatusFailed
		w.lastError = "Error generating itinerary"
		// lastResult intentionally kept: a failed attempt must not
		// erase an older visible result.
		w.mu.Unlock()
		return nil, err
	}
	w.status = StatusSuccess
	w.lastResult = raw
	w.lastError = ""
	w.mu.Unlock()

	w.emit(ctx, "itinerary-generated", models.Index{
		EntityType: "itinerary",
		ItemId:     sess.UserID,
		ItemType:   "user",
	})

	// The persistence write starts only after the state update.
	if sess.Authenticated {
		w.persist(ctx, req, raw, sess)
	}

	return raw, nil
}

func (w *Workflow) persist(ctx context.Context, req TripRequest, raw json.RawMessage, sess Session) {
	result := ParseResult(raw)

	rec := models.SavedItinerary{
		ItineraryID: utils.GetUUID(),
		UserID:      sess.UserID,
		Place:       req.Location,
		Budget:      req.Budget,
		Preferences: req.Preferences,
		Itinerary:   result.Itinerary.Days,
		CreatedAt:   w.now(),
	}

	if err := w.store.Save(ctx, rec); err != nil {
		log.Printf("itinerary save failed for user %s: %v", sess.UserID, err)
		w.emit(ctx, "itinerary-save-failed", models.Index{
			EntityType: "itinerary",
			EntityId:   rec.ItineraryID,
			ItemId:     sess.UserID,
			ItemType:   "user",
		})
		return
	}

	w.emit(ctx, "itinerary-saved", models.Index{
		EntityType: "itinerary",
		EntityId:   rec.ItineraryID,
		ItemId:     sess.UserID,
		ItemType:   "user",
	})
}

// Registry hands out one Workflow per client key so concurrent submits
// from the same client share the in-flight guard. Anonymous clients are
// keyed by remote host. Idle entries expire so the map does not grow
// with one workflow per visitor forever.
type Registry struct {
	mu    sync.Mutex
	flows map[string]*Workflow
	gen   Generator
	store Saver
	ttl   time.Duration
}

func NewRegistry(gen Generator, store Saver) *Registry {
	return &Registry{
		flows: make(map[string]*Workflow),
		gen:   gen,
		store: store,
		ttl:   30 * time.Minute,
	}
}

func (r *Registry) Get(key string) *Workflow {
	r.mu.Lock()
	defer r.mu.Unlock()

	if flow, ok := r.flows[key]; ok {
		return flow
	}
	flow := NewWorkflow(r.gen, r.store)
	r.flows[key] = flow

	// Evict the entry once its window has passed. An in-flight
	// submission is left alone.
	go func() {
		time.Sleep(r.ttl)
		r.mu.Lock()
		if f, ok := r.flows[key]; ok && f.Status() != StatusSubmitting {
			delete(r.flows, key)
		}
		r.mu.Unlock()
	}()

	return flow
}
