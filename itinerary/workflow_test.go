package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"wanderwise/models"

	"github.com/google/uuid"
)

const sampleBody = `{
	"itinerary": [
		{"day_num": 1, "itinerary": "Walk the Alfama district.", "approx_total_cost": 120},
		{"day_num": 2, "itinerary": "Day trip to Sintra.", "approx_total_cost": 180}
	],
	"hotels": [{"name": "Hotel Aurora", "location": "Baixa", "rating": "8.4", "imgUrl": "https://example.com/a.jpg"}],
	"activities": ["https://example.com/things-to-do"],
	"coordinates": [[38.7223, -9.1393]]
}`

type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	body    json.RawMessage
	err     error
	release chan struct{} // when set, Generate blocks until closed
}

func (g *fakeGenerator) Generate(ctx context.Context, req TripRequest) (json.RawMessage, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	if g.release != nil {
		<-g.release
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.body, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []models.SavedItinerary
	err   error
}

func (s *fakeSaver) Save(ctx context.Context, rec models.SavedItinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *fakeSaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func newTestWorkflow(gen Generator, store Saver) *Workflow {
	w := NewWorkflow(gen, store)
	w.now = func() time.Time { return testNow }
	w.emit = func(context.Context, string, models.Index) {}
	return w
}

// eventRecorder captures emitted lifecycle event names in order.
type eventRecorder struct {
	mu    sync.Mutex
	names []string
}

func (e *eventRecorder) record(_ context.Context, name string, _ models.Index) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.names = append(e.names, name)
}

func (e *eventRecorder) events() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.names...)
}

func TestSubmitValidationFailureSkipsNetwork(t *testing.T) {
	gen := &fakeGenerator{body: json.RawMessage(sampleBody)}
	flow := newTestWorkflow(gen, &fakeSaver{})

	req := validRequest()
	req.End = "2026-09-01"
	req.Start = "2026-09-14"

	_, err := flow.Submit(context.Background(), req, Session{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected *FieldError, got %T", err)
	}
	if gen.callCount() != 0 {
		t.Errorf("expected no upstream call, got %d", gen.callCount())
	}
	if flow.Status() != StatusIdle {
		t.Errorf("expected workflow back in idle, got %s", flow.Status())
	}
}

func TestSubmitSuccess(t *testing.T) {
	gen := &fakeGenerator{body: json.RawMessage(sampleBody)}
	store := &fakeSaver{}
	flow := newTestWorkflow(gen, store)

	raw, err := flow.Submit(context.Background(), validRequest(), Session{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if flow.Status() != StatusSuccess {
		t.Errorf("expected success state, got %s", flow.Status())
	}
	if flow.LastError() != "" {
		t.Errorf("expected cleared error, got %q", flow.LastError())
	}

	result := ParseResult(raw)
	if result.Itinerary.Status != SectionOK {
		t.Fatal("expected itinerary section ok")
	}
	if len(result.Itinerary.Days) != 2 {
		t.Errorf("expected 2 rendered days, got %d", len(result.Itinerary.Days))
	}
	if gen.callCount() != 1 {
		t.Errorf("expected exactly one upstream call, got %d", gen.callCount())
	}
}

func TestSubmitFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("generation service returned 500 Internal Server Error")}
	flow := newTestWorkflow(gen, &fakeSaver{})

	_, err := flow.Submit(context.Background(), validRequest(), Session{})
	if err == nil {
		t.Fatal("expected error")
	}
	if flow.Status() != StatusFailed {
		t.Errorf("expected failed state, got %s", flow.Status())
	}
	if flow.LastError() == "" {
		t.Error("expected non-empty user-facing error message")
	}
}

func TestFailedAttemptKeepsPreviousResult(t *testing.T) {
	gen := &fakeGenerator{body: json.RawMessage(sampleBody)}
	flow := newTestWorkflow(gen, &fakeSaver{})

	if _, err := flow.Submit(context.Background(), validRequest(), Session{}); err != nil {
		t.Fatal(err)
	}

	gen.err = errors.New("generation service unreachable")
	if _, err := flow.Submit(context.Background(), validRequest(), Session{}); err == nil {
		t.Fatal("expected failure")
	}

	if flow.LastResult() == nil {
		t.Error("failed attempt erased the previous result")
	}
	if flow.LastError() == "" {
		t.Error("expected error message after failure")
	}
}

func TestAuthenticatedSuccessPersistsOnce(t *testing.T) {
	gen := &fakeGenerator{body: json.RawMessage(sampleBody)}
	store := &fakeSaver{}
	flow := newTestWorkflow(gen, store)

	req := validRequest()
	sess := Session{UserID: "u123", Authenticated: true}

	if _, err := flow.Submit(context.Background(), req, sess); err != nil {
		t.Fatal(err)
	}

	if store.count() != 1 {
		t.Fatalf("expected exactly one save, got %d", store.count())
	}

	rec := store.saved[0]
	if rec.UserID != "u123" {
		t.Errorf("expected owner u123, got %q", rec.UserID)
	}
	if rec.Place != req.Location {
		t.Errorf("expected place %q, got %q", req.Location, rec.Place)
	}
	if len(rec.Itinerary) != 2 {
		t.Errorf("expected itinerary copy with 2 days, got %d", len(rec.Itinerary))
	}
	if rec.Itinerary[0].Narrative != "Walk the Alfama district." {
		t.Errorf("unexpected first day narrative: %q", rec.Itinerary[0].Narrative)
	}
	if _, err := uuid.Parse(rec.ItineraryID); err != nil {
		t.Errorf("expected uuid itinerary id, got %q", rec.ItineraryID)
	}
	if !rec.CreatedAt.Equal(testNow) {
		t.Errorf("expected created_at %v, got %v", testNow, rec.CreatedAt)
	}
}

func TestAnonymousSuccessDoesNotPersist(t *testing.T) {
	gen := &fakeGenerator{body: json.RawMessage(sampleBody)}
	store := &fakeSaver{}
	flow := newTestWorkflow(gen, store)

	if _, err := flow.Submit(context.Background(), validRequest(), Session{}); err != nil {
		t.Fatal(err)
	}
	if store.count() != 0 {
		t.Errorf("expected zero saves for anonymous session, got %d", store.count())
	}
}

func TestSaveFailureDoesNotFailSubmit(t *testing.T) {
	gen := &fakeGenerator{body: json.RawMessage(sampleBody)}
	store := &fakeSaver{err: errors.New("document store unavailable")}
	flow := newTestWorkflow(gen, store)

	raw, err := flow.Submit(context.Background(), validRequest(), Session{UserID: "u123", Authenticated: true})
	if err != nil {
		t.Fatalf("save failure must not fail the submit: %v", err)
	}
	if raw == nil {
		t.Fatal("expected result despite save failure")
	}
	if flow.Status() != StatusSuccess {
		t.Errorf("expected success state, got %s", flow.Status())
	}
}

func TestDoubleSubmitRejected(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{body: json.RawMessage(sampleBody), release: release}
	flow := newTestWorkflow(gen, &fakeSaver{})

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background(), validRequest(), Session{})
		done <- err
	}()

	// Wait until the first submit is in flight.
	deadline := time.After(2 * time.Second)
	for flow.Status() != StatusSubmitting {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for in-flight submission")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := flow.Submit(context.Background(), validRequest(), Session{})
	if !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	if gen.callCount() != 1 {
		t.Errorf("expected one upstream call, got %d", gen.callCount())
	}
}

func TestSuccessEmitsLifecycleEvents(t *testing.T) {
	gen := &fakeGenerator{body: json.RawMessage(sampleBody)}
	flow := newTestWorkflow(gen, &fakeSaver{})

	rec := &eventRecorder{}
	flow.emit = rec.record

	if _, err := flow.Submit(context.Background(), validRequest(), Session{UserID: "u123", Authenticated: true}); err != nil {
		t.Fatal(err)
	}

	got := rec.events()
	if len(got) != 2 || got[0] != "itinerary-generated" || got[1] != "itinerary-saved" {
		t.Errorf("expected [itinerary-generated itinerary-saved], got %v", got)
	}
}

func TestAnonymousSuccessEmitsGeneratedOnly(t *testing.T) {
	gen := &fakeGenerator{body: json.RawMessage(sampleBody)}
	flow := newTestWorkflow(gen, &fakeSaver{})

	rec := &eventRecorder{}
	flow.emit = rec.record

	if _, err := flow.Submit(context.Background(), validRequest(), Session{}); err != nil {
		t.Fatal(err)
	}

	got := rec.events()
	if len(got) != 1 || got[0] != "itinerary-generated" {
		t.Errorf("expected [itinerary-generated], got %v", got)
	}
}

func TestSaveFailureEmitsFailureEvent(t *testing.T) {
	gen := &fakeGenerator{body: json.RawMessage(sampleBody)}
	store := &fakeSaver{err: errors.New("document store unavailable")}
	flow := newTestWorkflow(gen, store)

	rec := &eventRecorder{}
	flow.emit = rec.record

	if _, err := flow.Submit(context.Background(), validRequest(), Session{UserID: "u123", Authenticated: true}); err != nil {
		t.Fatal(err)
	}

	got := rec.events()
	if len(got) != 2 || got[0] != "itinerary-generated" || got[1] != "itinerary-save-failed" {
		t.Errorf("expected [itinerary-generated itinerary-save-failed], got %v", got)
	}
}

func TestFailedGenerationEmitsNoEvents(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("generation service unreachable")}
	flow := newTestWorkflow(gen, &fakeSaver{})

	rec := &eventRecorder{}
	flow.emit = rec.record

	if _, err := flow.Submit(context.Background(), validRequest(), Session{UserID: "u123", Authenticated: true}); err == nil {
		t.Fatal("expected failure")
	}

	if got := rec.events(); len(got) != 0 {
		t.Errorf("expected no events on failed generation, got %v", got)
	}
}

func TestRegistrySharesWorkflowPerKey(t *testing.T) {
	reg := NewRegistry(&fakeGenerator{body: json.RawMessage(sampleBody)}, &fakeSaver{})

	a := reg.Get("u1")
	b := reg.Get("u1")
	c := reg.Get("u2")

	if a != b {
		t.Error("expected same workflow instance for same key")
	}
	if a == c {
		t.Error("expected distinct workflow instances for distinct keys")
	}
}

func TestRegistryEvictsIdleWorkflows(t *testing.T) {
	reg := NewRegistry(&fakeGenerator{body: json.RawMessage(sampleBody)}, &fakeSaver{})
	reg.ttl = 20 * time.Millisecond

	reg.Get("u1")

	deadline := time.After(2 * time.Second)
	for {
		reg.mu.Lock()
		n := len(reg.flows)
		reg.mu.Unlock()
		if n == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("idle workflow was never evicted")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}
