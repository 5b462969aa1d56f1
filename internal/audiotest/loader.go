// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ik5/audchan/audio"
)

// Loader serves clips from memory. Keys without a clip fail to load.
type Loader struct {
	mu    sync.Mutex
	clips map[string]*audio.Clip
	gates map[string]chan struct{}
	calls map[string]int
}

func NewLoader() *Loader {
	return &Loader{
		clips: make(map[string]*audio.Clip),
		gates: make(map[string]chan struct{}),
		calls: make(map[string]int),
	}
}

// Add registers a one second tone for every key.
func (l *Loader) Add(keys ...string) *Loader {
	for _, key := range keys {
		l.AddClip(key, Tone(time.Second))
	}
	return l
}

func (l *Loader) AddClip(key string, c *audio.Clip) *Loader {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clips[key] = c
	return l
}

// Block makes loads of key wait until release is called or their context
// ends.
func (l *Loader) Block(key string) (release func()) {
	gate := make(chan struct{})

	l.mu.Lock()
	l.gates[key] = gate
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.gates, key)
			l.mu.Unlock()
			close(gate)
		})
	}
}

// Calls is the number of Load calls for key.
func (l *Loader) Calls(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.calls[key]
}

func (l *Loader) Load(ctx context.Context, key string) (*audio.Clip, error) {
	l.mu.Lock()
	l.calls[key]++
	gate := l.gates[key]
	l.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clips[key]
	if !ok {
		return nil, fmt.Errorf("audiotest: no clip for %q", key)
	}
	return c, nil
}
