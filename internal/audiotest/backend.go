// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"sync"

	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/channel"
	"github.com/ik5/audchan/voice"
)

// Backend is an in-memory voice.Backend. Playback never ends on its own;
// call Finish to simulate the end of a clip.
type Backend struct {
	mu sync.Mutex

	clip    *audio.Clip
	loop    bool
	playing bool
	volume  float64
	muted   bool
	closed  bool

	plays   int
	stops   int
	history []float64

	// LoadErr, when set, is returned by Load.
	LoadErr error
}

func NewBackend() *Backend {
	return &Backend{volume: 1}
}

func (b *Backend) Load(c *audio.Clip, loop bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.LoadErr != nil {
		return b.LoadErr
	}
	if b.closed {
		return errors.New("audiotest: backend closed")
	}
	b.clip = c
	b.loop = loop
	b.playing = false
	return nil
}

func (b *Backend) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.plays++
	b.playing = b.clip != nil
}

func (b *Backend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stops++
	b.playing = false
}

func (b *Backend) IsPlaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.playing
}

func (b *Backend) SetVolume(v float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.volume = v
	b.history = append(b.history, v)
}

func (b *Backend) Volume() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.volume
}

func (b *Backend) SetMute(m bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.muted = m
}

func (b *Backend) Muted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.muted
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.playing = false
	return nil
}

// Finish ends playback as if the clip had run out.
func (b *Backend) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.playing = false
}

func (b *Backend) Clip() *audio.Clip {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.clip
}

func (b *Backend) Looping() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.loop
}

func (b *Backend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.closed
}

func (b *Backend) Plays() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.plays
}

func (b *Backend) Stops() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.stops
}

// VolumeHistory returns every value passed to SetVolume, oldest first.
func (b *Backend) VolumeHistory() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]float64, len(b.history))
	copy(out, b.history)
	return out
}

// Factory hands out Backends and remembers them per category.
type Factory struct {
	mu       sync.Mutex
	backends map[channel.Category][]*Backend

	// Err, when set, makes NewBackend fail.
	Err error
}

func NewFactory() *Factory {
	return &Factory{backends: make(map[channel.Category][]*Backend)}
}

func (f *Factory) NewBackend(cat channel.Category, _ int) (voice.Backend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	b := NewBackend()
	f.backends[cat] = append(f.backends[cat], b)
	return b, nil
}

// Backends returns the backends created for cat, in creation order.
func (f *Factory) Backends(cat channel.Category) []*Backend {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*Backend, len(f.backends[cat]))
	copy(out, f.backends[cat])
	return out
}
