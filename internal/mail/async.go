// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"sync"
)

// Async runs Dispatcher.Notify in the background so the contact response
// does not wait on the mail provider.
type Async struct {
	dispatcher *Dispatcher
	wg         sync.WaitGroup
}

// NewAsync wraps a Dispatcher.
func NewAsync(d *Dispatcher) *Async {
	return &Async{dispatcher: d}
}

// Notify queues both notifications for c and returns immediately. The
// owner notice is still sent before the acknowledgment. The request context's
// cancellation is not inherited.
func (a *Async) Notify(ctx context.Context, c Contact) {
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.dispatcher.Notify(ctx, c)
	}()
}

// Wait blocks until all queued notifications have been attempted.
func (a *Async) Wait() {
	a.wg.Wait()
}

// Shutdown waits for queued notifications or until ctx is done.
func (a *Async) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
