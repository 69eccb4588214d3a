package testutil

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/require"
)

// EventRecorder is an event handler that keeps what it is given. Attach it
// to a bus with Subscribe and read the events back with Events or Await.
type EventRecorder struct {
	types []string

	mu     sync.Mutex
	events []shared.DomainEvent
	fail   error
}

// RecordEvents returns a recorder subscribed to the given event types
func RecordEvents(types ...string) *EventRecorder {
	return &EventRecorder{types: types}
}

func (r *EventRecorder) EventTypes() []string { return r.types }

func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.fail
}

// FailWith makes every later Handle call return err after recording
func (r *EventRecorder) FailWith(err error) {
	r.mu.Lock()
	r.fail = err
	r.mu.Unlock()
}

// Events returns the recorded events in arrival order
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

func (r *EventRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Await fails the test unless n events arrive within a second, then returns
// the recorded events.
func (r *EventRecorder) Await(t *testing.T, n int) []shared.DomainEvent {
	t.Helper()
	require.Eventually(t, func() bool { return r.Len() >= n },
		time.Second, 5*time.Millisecond, "expected %d events", n)
	return r.Events()
}

// StubEvent is a bare domain event for bus tests
type StubEvent struct {
	shared.BaseDomainEvent
}

// NewStubEvent returns an event of the given type on a fresh aggregate ID
func NewStubEvent(eventType string) *StubEvent {
	return &StubEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Stub", uuid.New())}
}
