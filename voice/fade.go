// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"context"
	"sync"
	"sync/atomic"
)

// Fade is the handle of one volume ramp.
type Fade struct {
	done   chan struct{}
	cancel chan struct{}

	once      sync.Once
	cancelled atomic.Bool
}

func newFade() *Fade {
	return &Fade{
		done:   make(chan struct{}),
		cancel: make(chan struct{}),
	}
}

func completedFade() *Fade {
	f := newFade()
	close(f.done)
	return f
}

// Done is closed when the ramp finished or was cancelled.
func (f *Fade) Done() <-chan struct{} {
	return f.done
}

// Cancelled reports whether the ramp was superseded before it finished.
func (f *Fade) Cancelled() bool {
	return f.cancelled.Load()
}

// Wait blocks until the ramp ends or ctx is done.
func (f *Fade) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fade) stop() {
	f.once.Do(func() {
		f.cancelled.Store(true)
		close(f.cancel)
	})
}
