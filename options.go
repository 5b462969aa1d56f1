// SPDX-License-Identifier: EPL-2.0

package audchan

import (
	"log/slog"
	"time"

	"github.com/ik5/audchan/channel"
	"github.com/ik5/audchan/loader"
	"github.com/ik5/audchan/prefs"
	"github.com/ik5/audchan/voice"
)

const (
	// DefaultSEChannelCount is the SE pool size used when none is set.
	DefaultSEChannelCount = 16
	// BGMChannelCount is fixed: one outgoing and one incoming track.
	BGMChannelCount       = 2
	// DefaultFadeDuration is the BGM crossfade length used when none is set.
	DefaultFadeDuration   = time.Second
)

// Setting configures Initialize. Zero numeric fields take their defaults.
type Setting struct {
	SEChannelCount int
	FadeDuration   time.Duration
	// FadeTick is the interval between fade volume steps.
	FadeTick time.Duration
	// LoopBGM restarts music tracks when they end.
	LoopBGM bool
}

// DefaultSetting is 16 SE voices, one second fades and looping music.
func DefaultSetting() Setting {
	return Setting{
		SEChannelCount: DefaultSEChannelCount,
		FadeDuration:   DefaultFadeDuration,
		FadeTick:       voice.DefaultTick,
		LoopBGM:        true,
	}
}

func (s Setting) withDefaults() Setting {
	if s.SEChannelCount <= 0 {
		s.SEChannelCount = DefaultSEChannelCount
	}
	if s.FadeDuration <= 0 {
		s.FadeDuration = DefaultFadeDuration
	}
	if s.FadeTick <= 0 {
		s.FadeTick = voice.DefaultTick
	}
	return s
}

func (s Setting) channelCount(cat channel.Category) int {
	if cat == channel.BGM {
		return BGMChannelCount
	}
	return s.SEChannelCount
}

// Option configures a Manager in New.
type Option func(*Manager)

// WithLoader replaces the default loader, a loader.Dir on the working
// directory.
func WithLoader(l loader.Loader) Option {
	return func(m *Manager) {
		if l != nil {
			m.loader = l
		}
	}
}

// WithPreferences seeds volume and mute from s at Initialize and persists
// every change to it.
func WithPreferences(s prefs.Store) Option {
	return func(m *Manager) { m.prefs = s }
}

// WithLogger sets the logger. The default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records manager activity to mt. A nil mt disables metrics.
func WithMetrics(mt *Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}
