package pipestest

import (
	"context"
	"sync"

	"github.com/kbukum/pipekit/pipes"
)

// EventKind names a hook callback.
type EventKind string

const (
	EventStart   EventKind = "start"
	EventSuccess EventKind = "success"
	EventError   EventKind = "error"
)

// Event is one recorded hook callback.
type Event struct {
	Kind   EventKind
	Pipe   string
	Method string
	Err    error
}

// RecordingHooks records every callback. By default it handles no errors
// and reports success; Handle and Judge override that.
type RecordingHooks struct {
	// Handle decides OnError's result. Nil means never handle.
	Handle func(pipe string, err error) bool
	// Judge decides Success. Nil means success.
	Judge func(c *pipes.Context) bool

	mu     sync.Mutex
	events []Event
}

var _ pipes.Hooks = (*RecordingHooks)(nil)

// NewRecordingHooks creates hooks that record and never handle errors.
func NewRecordingHooks() *RecordingHooks {
	return &RecordingHooks{}
}

// HandleAll creates recording hooks that swallow every error.
func HandleAll() *RecordingHooks {
	return &RecordingHooks{Handle: func(string, error) bool { return true }}
}

func (h *RecordingHooks) OnStart(_ context.Context, pipe, method string) {
	h.record(Event{Kind: EventStart, Pipe: pipe, Method: method})
}

func (h *RecordingHooks) OnSuccess(_ context.Context, pipe, method string) {
	h.record(Event{Kind: EventSuccess, Pipe: pipe, Method: method})
}

func (h *RecordingHooks) OnError(_ context.Context, pipe, method string, err error) bool {
	h.record(Event{Kind: EventError, Pipe: pipe, Method: method, Err: err})
	return h.Handle != nil && h.Handle(pipe, err)
}

func (h *RecordingHooks) Success(c *pipes.Context) bool {
	return h.Judge == nil || h.Judge(c)
}

func (h *RecordingHooks) record(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

// Events returns a copy of everything recorded so far.
func (h *RecordingHooks) Events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}

// Trace renders the events as "kind:pipe" strings, e.g. "start:Parent".
func (h *RecordingHooks) Trace() []string {
	events := h.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = string(e.Kind) + ":" + e.Pipe
	}
	return out
}

// Errors returns the errors passed to OnError, in order.
func (h *RecordingHooks) Errors() []error {
	var errs []error
	for _, e := range h.Events() {
		if e.Kind == EventError {
			errs = append(errs, e.Err)
		}
	}
	return errs
}

// Reset clears the recorded events.
func (h *RecordingHooks) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = nil
}
