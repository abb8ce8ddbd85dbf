// Package bus connects the producers of an interactive reply session (typed
// input, realtime inserts) with the goroutines that post and print them.
package bus

import (
	"context"
	"errors"
	"sync/atomic"
)

const DefaultBufferSize = 100

// ErrBusClosed is returned when publishing to a closed MessageBus.
var ErrBusClosed = errors.New("message bus closed")

// MessageBus carries messages in two directions. After Close, publishing
// fails but messages already buffered can still be consumed.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage
	done     chan struct{}
	closed   atomic.Bool
}

func NewMessageBus(size int) *MessageBus {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &MessageBus{
		inbound:  make(chan InboundMessage, size),
		outbound: make(chan OutboundMessage, size),
		done:     make(chan struct{}),
	}
}

func (mb *MessageBus) PublishInbound(ctx context.Context, msg InboundMessage) error {
	return publish(ctx, mb, mb.inbound, msg)
}

func (mb *MessageBus) ConsumeInbound(ctx context.Context) (InboundMessage, bool) {
	return consume(ctx, mb, mb.inbound)
}

func (mb *MessageBus) PublishOutbound(ctx context.Context, msg OutboundMessage) error {
	return publish(ctx, mb, mb.outbound, msg)
}

func (mb *MessageBus) ConsumeOutbound(ctx context.Context) (OutboundMessage, bool) {
	return consume(ctx, mb, mb.outbound)
}

func (mb *MessageBus) Close() {
	if mb.closed.CompareAndSwap(false, true) {
		close(mb.done)
	}
}

func publish[T any](ctx context.Context, mb *MessageBus, ch chan T, msg T) error {
	if mb.closed.Load() {
		return ErrBusClosed
	}
	select {
	case ch <- msg:
		return nil
	case <-mb.done:
		return ErrBusClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func consume[T any](ctx context.Context, mb *MessageBus, ch chan T) (T, bool) {
	var zero T
	if ctx.Err() != nil {
		return zero, false
	}

	// buffered messages win over done so Close drains
	select {
	case msg := <-ch:
		return msg, true
	default:
	}

	select {
	case msg := <-ch:
		return msg, true
	case <-mb.done:
		select {
		case msg := <-ch:
			return msg, true
		default:
			return zero, false
		}
	case <-ctx.Done():
		return zero, false
	}
}
