// SPDX-License-Identifier: EPL-2.0

package voice

import "github.com/ik5/audchan/audio"

// Backend is one physical playback unit. Implementations must be safe for
// use from multiple goroutines; a Voice serializes its own calls but the
// backend may also be rendering on a thread of its own.
type Backend interface {
	// Load binds c, rewinding to its start. loop asks the backend to repeat
	// the clip until stopped.
	Load(c *audio.Clip, loop bool) error
	Play()
	Stop()
	// IsPlaying is false once the clip ran out or Stop was called.
	IsPlaying() bool

	SetVolume(v float64)
	Volume() float64

	SetMute(m bool)
	Muted() bool

	Close() error
}
