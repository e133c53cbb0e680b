// Package hooks dispatches dependency lifecycle events to their handlers.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Event is a lifecycle trigger.
type Event string

// Lifecycle events the installer subscribes to.
const (
	PostInstallCmd Event = "post-install-cmd"
	PostUpdateCmd  Event = "post-update-cmd"
)

// SubscribedEvents returns every event the installer reacts to.
func SubscribedEvents() []Event {
	return []Event{PostInstallCmd, PostUpdateCmd}
}

// ParseEvent converts a lifecycle event name into an Event.
func ParseEvent(name string) (Event, error) {
	for _, e := range SubscribedEvents() {
		if string(e) == name {
			return e, nil
		}
	}

	names := make([]string, 0, len(SubscribedEvents()))
	for _, e := range SubscribedEvents() {
		names = append(names, string(e))
	}

	return "", fmt.Errorf("unknown event %q (expected one of: %s)", name, strings.Join(names, ", "))
}

// Handler reacts to a dispatched event.
type Handler func(ctx context.Context, event Event) error

type subscription struct {
	name    string
	handler Handler
}

// Dispatcher runs the handlers subscribed to an event in subscription order.
type Dispatcher struct {
	subs   map[Event][]subscription
	logger *slog.Logger
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		subs:   make(map[Event][]subscription),
		logger: logger,
	}
}

// Subscribe registers handler under name for event.
func (d *Dispatcher) Subscribe(event Event, name string, handler Handler) {
	d.subs[event] = append(d.subs[event], subscription{name: name, handler: handler})
}

// Handlers returns the names subscribed to event, in order.
func (d *Dispatcher) Handlers(event Event) []string {
	subs := d.subs[event]

	names := make([]string, 0, len(subs))
	for _, s := range subs {
		names = append(names, s.name)
	}

	return names
}

// Dispatch runs every handler of event. The first failing handler stops the
// dispatch and its error is returned; later handlers do not run.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	subs := d.subs[event]
	if len(subs) == 0 {
		d.logger.Debug("no handlers for event", "event", event)

		return nil
	}

	for _, s := range subs {
		d.logger.Debug("running event handler", "event", event, "handler", s.name)

		if err := s.handler(ctx, event); err != nil {
			return fmt.Errorf("%s handler %q: %w", event, s.name, err)
		}
	}

	return nil
}
