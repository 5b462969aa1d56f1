// SPDX-License-Identifier: EPL-2.0

package audchan

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/audchan/channel"
	"github.com/ik5/audchan/voice"
)

// playBGM switches the current track to path.
//
// The key moves to path before the load, so concurrent calls for the same
// track are no-ops. If a track was playing, its fade-out starts right away
// and is not waited for; the new track starts silent and fades in. From
// silence the new track starts at full volume.
func (m *Manager) playBGM(ctx context.Context, path string) int {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return InvalidID
	}
	if path == m.currentBgm {
		m.mu.Unlock()
		m.metrics.play(channel.BGM, resultNoop)
		return InvalidID
	}

	var outgoing *voice.Voice
	if m.currentBgm != "" {
		outgoing, _ = m.pools[channel.BGM].FindPlaying(m.currentBgm)
	}
	previous := m.currentBgm
	m.currentBgm = path

	fade := m.setting.FadeDuration
	if outgoing != nil {
		outgoing.FadeOut(fade)
		m.metrics.crossfade()
	}
	m.mu.Unlock()

	m.logger.Debug("bgm change", "from", previous, "to", path, "crossfade", outgoing != nil)

	clip, err := m.load(ctx, channel.BGM, path)

	m.mu.Lock()
	if err != nil {
		if m.currentBgm == path {
			m.currentBgm = ""
		}
		m.mu.Unlock()
		return InvalidID
	}
	if !m.initialized {
		m.mu.Unlock()
		m.metrics.play(channel.BGM, resultClosed)
		return InvalidID
	}
	if m.currentBgm != path {
		// another track was requested while this one loaded
		m.mu.Unlock()
		m.logger.Debug("bgm superseded", "path", path, "current", m.CurrentBgm())
		m.metrics.play(channel.BGM, resultSuperseded)
		return InvalidID
	}

	crossfade := outgoing != nil
	v, id, err := m.startLocked(channel.BGM, clip, path, m.setting.LoopBGM, crossfade)
	if err != nil {
		m.currentBgm = ""
		m.mu.Unlock()
		m.logger.Warn("starting bgm", "path", path, "error", err)
		m.metrics.play(channel.BGM, resultLoadFailed)
		return InvalidID
	}

	var fadeIn *voice.Fade
	if crossfade {
		fadeIn = v.FadeIn(fade)
	}
	m.mu.Unlock()

	m.metrics.play(channel.BGM, resultOK)
	if fadeIn != nil {
		// the track keeps playing if the caller stops waiting
		_ = fadeIn.Wait(ctx)
	}
	return id
}

// StopBgm forgets the current track and fades every BGM voice out over d,
// concurrently. It returns when all fades are done or ctx ends.
func (m *Manager) StopBgm(ctx context.Context, d time.Duration) error {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.currentBgm = ""

	voices := m.pools[channel.BGM].Voices()
	fades := make([]*voice.Fade, 0, len(voices))
	for _, v := range voices {
		fades = append(fades, v.FadeOut(d))
	}
	m.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fades {
		g.Go(func() error {
			return f.Wait(gctx)
		})
	}
	return g.Wait()
}
