// SPDX-License-Identifier: EPL-2.0

package ebitenaudio

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"

	chanaudio "github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/channel"
	"github.com/ik5/audchan/voice"
)

// ebiten players are always stereo
const channels = 2

type Factory struct {
	ctx *audio.Context
}

func NewFactory(ctx *audio.Context) *Factory {
	return &Factory{ctx: ctx}
}

// Format is the clip layout the backends accept.
func (f *Factory) Format() chanaudio.Format {
	return chanaudio.Format{SampleRate: f.ctx.SampleRate(), Channels: channels}
}

func (f *Factory) NewBackend(channel.Category, int) (voice.Backend, error) {
	return &Backend{ctx: f.ctx, format: f.Format(), volume: 1}, nil
}

// Backend drives one audio.Player. Mute is applied by playing at volume 0
// while remembering the requested volume.
type Backend struct {
	mu     sync.Mutex
	ctx    *audio.Context
	format chanaudio.Format

	player *audio.Player
	volume float64
	muted  bool
}

func (b *Backend) Load(c *chanaudio.Clip, loop bool) error {
	if c.Format() != b.format {
		return fmt.Errorf("%w: clip %d Hz/%d ch, context %d Hz/%d ch", ErrFormatMismatch,
			c.SampleRate(), c.Channels(), b.format.SampleRate, b.format.Channels)
	}

	pcm := c.PCM16LE()

	var (
		player *audio.Player
		err    error
	)
	if loop {
		player, err = b.ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm))))
	} else {
		player = b.ctx.NewPlayerFromBytes(pcm)
	}
	if err != nil {
		return fmt.Errorf("creating player: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player != nil {
		_ = b.player.Close()
	}
	b.player = player
	b.applyLocked()
	return nil
}

func (b *Backend) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player == nil {
		return
	}
	_ = b.player.Rewind()
	b.player.Play()
}

func (b *Backend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player != nil {
		b.player.Pause()
	}
}

func (b *Backend) IsPlaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.player != nil && b.player.IsPlaying()
}

func (b *Backend) SetVolume(v float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.volume = v
	b.applyLocked()
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
	b.applyLocked()
}

func (b *Backend) Muted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.muted
}

func (b *Backend) applyLocked() {
	if b.player == nil {
		return
	}
	if b.muted {
		b.player.SetVolume(0)
		return
	}
	b.player.SetVolume(b.volume)
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player == nil {
		return nil
	}
	err := b.player.Close()
	b.player = nil
	return err
}
