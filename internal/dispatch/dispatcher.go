// Package dispatch turns user mark-read actions into requests, over the
// live channel when it is open and the HTTP API otherwise.
package dispatch

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/cristianoliveira/intray-live/internal/domain"
	"github.com/cristianoliveira/intray-live/internal/errors"
	"github.com/cristianoliveira/intray-live/internal/logging"
	"github.com/cristianoliveira/intray-live/internal/wire"
)

// ErrNotAcknowledged is returned when the server answers a fallback
// request with success=false.
var ErrNotAcknowledged = stderrors.New("server did not acknowledge the request")

// Channel is the live transport as seen by the dispatcher.
type Channel interface {
	State() domain.ConnectionState
	Send(ctx context.Context, intent wire.Intent) error
}

// Fallback is the HTTP API as seen by the dispatcher.
type Fallback interface {
	MarkRead(ctx context.Context, id string) (bool, error)
	MarkAllRead(ctx context.Context) (bool, error)
}

// Applier receives confirmations obtained through the fallback.
type Applier interface {
	ApplyMarkedRead(ctx context.Context, id string)
	ApplyAllMarkedRead(ctx context.Context)
}

// Dispatcher routes mark-read intents.
type Dispatcher struct {
	channel  Channel
	fallback Fallback
	applier  Applier
	alerts   errors.ErrorHandler
	log      logging.Logger
}

// New creates a Dispatcher. channel may be nil, in which case every
// action goes through the fallback.
func New(channel Channel, fallback Fallback, applier Applier, alerts errors.ErrorHandler, log logging.Logger) *Dispatcher {
	if fallback == nil || applier == nil {
		panic("dispatch: nil fallback or applier")
	}
	if alerts == nil {
		alerts = errors.Discard{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Dispatcher{
		channel:  channel,
		fallback: fallback,
		applier:  applier,
		alerts:   alerts,
		log:      log.With("component", "dispatch"),
	}
}

// MarkRead marks id read. Over the live channel no local state changes;
// the server's confirmation does that. Over the fallback a successful
// answer is applied directly.
func (d *Dispatcher) MarkRead(ctx context.Context, id string) error {
	if err := domain.ValidateID(id); err != nil {
		d.alerts.Error(fmt.Sprintf("Cannot mark notification as read: %v", err))
		return err
	}

	if d.trySend(ctx, wire.MarkAsRead(id)) {
		return nil
	}

	ok, err := d.fallback.MarkRead(ctx, id)
	if err != nil {
		return d.fail("mark-read", err, "notification_id", id)
	}
	if !ok {
		d.log.Warn("mark read not acknowledged", "notification_id", id)
		return ErrNotAcknowledged
	}
	d.applier.ApplyMarkedRead(ctx, id)
	return nil
}

// MarkAllRead marks every notification read, symmetric to MarkRead.
func (d *Dispatcher) MarkAllRead(ctx context.Context) error {
	if d.trySend(ctx, wire.MarkAllAsRead()) {
		return nil
	}

	ok, err := d.fallback.MarkAllRead(ctx)
	if err != nil {
		return d.fail("mark-all-read", err)
	}
	if !ok {
		d.log.Warn("mark all read not acknowledged")
		return ErrNotAcknowledged
	}
	d.applier.ApplyAllMarkedRead(ctx)
	return nil
}

// trySend sends intent when the channel is connected. It reports false
// when the caller should use the fallback instead.
func (d *Dispatcher) trySend(ctx context.Context, intent wire.Intent) bool {
	if d.channel == nil || d.channel.State() != domain.Connected {
		return false
	}
	if err := d.channel.Send(ctx, intent); err != nil {
		d.log.Info("live send failed, using fallback", "action", intent.Action, "error", err)
		return false
	}
	return true
}

func (d *Dispatcher) fail(op string, err error, fields ...any) error {
	wrapped := errors.New(errors.KindRequest, op, err)
	d.log.Error("request failed", append([]any{"op", op, "kind", errors.KindRequest.String(), "error", err}, fields...)...)
	d.alerts.Error(fmt.Sprintf("Could not %s: %v", opLabel(op), err))
	return wrapped
}

func opLabel(op string) string {
	switch op {
	case "mark-read":
		return "mark notification as read"
	case "mark-all-read":
		return "mark all notifications as read"
	default:
		return op
	}
}
