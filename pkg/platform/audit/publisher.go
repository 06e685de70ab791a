package audit

import (
	"context"
	"log/slog"
)

// Publisher delivers audit events to a sink. Implementations must be safe
// for concurrent use and should never block domain logic for long.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// ChannelPublisher feeds a worker through a bounded channel. When the buffer
// is full the event is dropped and counted against the log rather than
// stalling issuance.
type ChannelPublisher struct {
	ch     chan<- Event
	logger *slog.Logger
}

func NewChannelPublisher(ch chan<- Event, logger *slog.Logger) *ChannelPublisher {
	return &ChannelPublisher{ch: ch, logger: logger}
}

func (p *ChannelPublisher) Publish(ctx context.Context, event Event) error {
	select {
	case p.ch <- event:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
		)
		return nil
	}
}

// NopPublisher discards events. Used when auditing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
