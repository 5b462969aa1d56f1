// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"fmt"
	"sync"
	"time"

	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/utils"
)

// InvalidID marks a voice that carries no playback session.
const InvalidID = -1

// DefaultTick is the fade interpolation step, one frame at 60 Hz.
const DefaultTick = time.Second / 60

type Voice struct {
	mu      sync.Mutex
	backend Backend
	tick    time.Duration

	playingID    int
	path         string
	hasClip      bool
	fading       bool
	globalVolume float64
	closed       bool

	fade *Fade
	wg   sync.WaitGroup
}

type Option func(*Voice)

// WithTick sets the interval between two volume updates of a fade.
func WithTick(d time.Duration) Option {
	return func(v *Voice) {
		if d > 0 {
			v.tick = d
		}
	}
}

// New binds a voice to b and resets it.
func New(b Backend, opts ...Option) *Voice {
	v := &Voice{
		backend:      b,
		tick:         DefaultTick,
		playingID:    InvalidID,
		globalVolume: 1,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.Initialize()
	return v
}

// Initialize stops the voice and forgets its session so it can be reused.
func (v *Voice) Initialize() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopLocked()
	v.playingID = InvalidID
	v.path = ""
}

// Assign binds a clip, its logical path and a fresh playing id.
func (v *Voice) Assign(c *audio.Clip, path string, id int, loop bool) error {
	if c == nil {
		return ErrNoClip
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.backend.Load(c, loop); err != nil {
		v.hasClip = false
		return fmt.Errorf("loading %q: %w", path, err)
	}

	v.hasClip = true
	v.path = path
	v.playingID = id
	return nil
}

// Play starts the bound clip. silent starts at volume 0, for a following
// FadeIn; otherwise playback starts at the global volume.
func (v *Voice) Play(silent bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.hasClip {
		return ErrNoClip
	}

	v.cancelFadeLocked()
	if silent {
		v.backend.SetVolume(0)
	} else {
		v.backend.SetVolume(v.globalVolume)
	}
	v.fading = false
	v.backend.Play()
	return nil
}

// Stop halts playback immediately, fade or not.
func (v *Voice) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopLocked()
}

func (v *Voice) stopLocked() {
	v.cancelFadeLocked()
	v.fading = false
	v.backend.Stop()
}

// FadeOut ramps the output volume to 0 over d, then stops the voice unless
// it was replayed in the meantime.
func (v *Voice) FadeOut(d time.Duration) *Fade {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.usingLocked() {
		return completedFade()
	}

	v.fading = true
	return v.startFadeLocked(d, 0, func() {
		v.backend.SetVolume(0)
		if v.fading {
			v.stopLocked()
		}
	})
}

// FadeIn ramps the output volume up to the global volume over d. The final
// step applies the global volume current at that moment, so a SetGlobalVolume
// during the ramp is not lost.
func (v *Voice) FadeIn(d time.Duration) *Fade {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.usingLocked() {
		return completedFade()
	}

	return v.startFadeLocked(d, v.globalVolume, func() {
		v.backend.SetVolume(v.globalVolume)
	})
}

func (v *Voice) startFadeLocked(d time.Duration, to float64, finish func()) *Fade {
	v.cancelFadeLocked()
	if v.closed {
		return completedFade()
	}

	f := newFade()
	if d <= 0 {
		finish()
		close(f.done)
		return f
	}

	v.fade = f
	v.wg.Add(1)
	go v.runFade(f, v.backend.Volume(), to, d, finish)
	return f
}

func (v *Voice) runFade(f *Fade, from, to float64, d time.Duration, finish func()) {
	defer v.wg.Done()
	defer close(f.done)

	ticker := time.NewTicker(v.tick)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-f.cancel:
			return
		case now := <-ticker.C:
			progress := float64(now.Sub(start)) / float64(d)

			v.mu.Lock()
			if v.fade != f {
				v.mu.Unlock()
				return
			}
			if progress >= 1 {
				v.fade = nil
				finish()
				v.mu.Unlock()
				return
			}
			v.backend.SetVolume(utils.Lerp(from, to, progress))
			v.mu.Unlock()
		}
	}
}

func (v *Voice) cancelFadeLocked() {
	if v.fade != nil {
		v.fade.stop()
		v.fade = nil
	}
}

// SetGlobalVolume stores the category volume and applies it right away,
// even over a running fade.
func (v *Voice) SetGlobalVolume(vol float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.globalVolume = vol
	v.backend.SetVolume(vol)
}

func (v *Voice) SetMute(m bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.backend.SetMute(m)
}

// Close cancels any fade, waits for its goroutine and releases the backend.
func (v *Voice) Close() error {
	v.mu.Lock()
	v.closed = true
	v.stopLocked()
	v.mu.Unlock()

	v.wg.Wait()
	return v.backend.Close()
}

// IsUsing reports whether a clip is bound and playing.
func (v *Voice) IsUsing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.usingLocked()
}

func (v *Voice) usingLocked() bool {
	return v.hasClip && v.backend.IsPlaying()
}

func (v *Voice) IsFading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.fading
}

func (v *Voice) PlayingID() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.playingID
}

func (v *Voice) ResourcePath() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.path
}

func (v *Voice) GlobalVolume() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.globalVolume
}

// Volume is the backend's current output volume, fade included.
func (v *Voice) Volume() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.backend.Volume()
}

func (v *Voice) Muted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.backend.Muted()
}

// State captures the voice for diagnostics.
func (v *Voice) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	return State{
		PlayingID:    v.playingID,
		Path:         v.path,
		Using:        v.usingLocked(),
		Fading:       v.fading,
		Muted:        v.backend.Muted(),
		Volume:       v.backend.Volume(),
		GlobalVolume: v.globalVolume,
	}
}
