// SPDX-License-Identifier: EPL-2.0

package audchan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/channel"
	"github.com/ik5/audchan/loader"
	"github.com/ik5/audchan/pool"
	"github.com/ik5/audchan/prefs"
	"github.com/ik5/audchan/utils"
	"github.com/ik5/audchan/voice"
)

// InvalidID is returned by Play when nothing was started.
const InvalidID = voice.InvalidID

// Manager owns the SE and BGM voice pools.
type Manager struct {
	factory BackendFactory
	loader  loader.Loader
	prefs   prefs.Store
	logger  *slog.Logger
	metrics *Metrics

	// prefsMu is taken before mu and held until the store write returns,
	// so the persisted value always matches the last applied one.
	prefsMu sync.Mutex

	mu          sync.Mutex
	initialized bool
	setting     Setting
	pools       map[channel.Category]*pool.Pool
	volume      map[channel.Category]float64
	muted       map[channel.Category]bool
	nextID      int
	currentBgm  string
}

// New creates a manager. Nothing is allocated until Initialize.
func New(factory BackendFactory, opts ...Option) *Manager {
	m := &Manager{
		factory: factory,
		logger:  slog.Default(),
		volume:  make(map[channel.Category]float64),
		muted:   make(map[channel.Category]bool),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.loader == nil {
		m.loader = loader.NewDir(".", loader.WithLogger(m.logger))
	}
	m.logger = m.logger.With("component", "audchan")
	return m
}

// Initialize builds the voice pools. Calling it again while initialized
// does nothing.
func (m *Manager) Initialize(s Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	s = s.withDefaults()
	m.loadPrefsLocked()

	pools := make(map[channel.Category]*pool.Pool, 2)
	for _, cat := range channel.Categories() {
		p, err := m.newPool(cat, s)
		if err != nil {
			for _, built := range pools {
				_ = built.Close()
			}
			return err
		}
		pools[cat] = p
	}

	m.setting = s
	m.pools = pools
	m.initialized = true

	m.logger.Info("audio channels initialized",
		"se_channels", s.SEChannelCount,
		"bgm_channels", BGMChannelCount,
		"fade", s.FadeDuration,
		"loop_bgm", s.LoopBGM)
	return nil
}

func (m *Manager) newPool(cat channel.Category, s Setting) (*pool.Pool, error) {
	n := s.channelCount(cat)
	voices := make([]*voice.Voice, 0, n)

	for i := range n {
		b, err := m.factory.NewBackend(cat, i)
		if err != nil {
			for _, v := range voices {
				_ = v.Close()
			}
			return nil, fmt.Errorf("creating %s voice %d: %w", cat, i, err)
		}

		v := voice.New(b, voice.WithTick(s.FadeTick))
		v.SetGlobalVolume(m.volumeLocked(cat))
		v.SetMute(m.muted[cat])
		voices = append(voices, v)
	}

	return pool.New(voices), nil
}

// loadPrefsLocked seeds volume and mute from the preference store. Values
// set before Initialize without a store are kept.
func (m *Manager) loadPrefsLocked() {
	if m.prefs == nil {
		return
	}

	for _, cat := range channel.Categories() {
		if v, err := m.prefs.Volume(cat); err != nil {
			m.logger.Warn("reading volume preference", "category", cat.String(), "error", err)
		} else {
			m.volume[cat] = utils.Clamp01(v)
		}

		if mute, err := m.prefs.Mute(cat); err != nil {
			m.logger.Warn("reading mute preference", "category", cat.String(), "error", err)
		} else {
			m.muted[cat] = mute
		}
	}
}

func (m *Manager) volumeLocked(cat channel.Category) float64 {
	if v, ok := m.volume[cat]; ok {
		return v
	}
	return prefs.DefaultVolume
}

// Play starts path and returns its playing id, or InvalidID when nothing
// was started. A BGM path equal to the current track is a no-op. Changing
// tracks crossfades and returns once the new track has faded in.
//
// Cancelling ctx abandons a pending load; after that Play returns
// InvalidID.
func (m *Manager) Play(ctx context.Context, path string) int {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		m.logger.Warn("play before initialize", "path", path, "error", ErrNotInitialized)
		return InvalidID
	}
	if path != "" && path == m.currentBgm {
		m.mu.Unlock()
		m.metrics.play(channel.BGM, resultNoop)
		return InvalidID
	}
	m.mu.Unlock()

	switch cat := channel.Resolve(path); cat {
	case channel.SE:
		return m.playSE(ctx, path)
	case channel.BGM:
		return m.playBGM(ctx, path)
	default:
		m.logger.Error("invalid audio path", "path", path, "error", ErrUnroutablePath)
		m.metrics.play(channel.None, resultUnroutable)
		return InvalidID
	}
}

func (m *Manager) playSE(ctx context.Context, path string) int {
	clip, err := m.load(ctx, channel.SE, path)
	if err != nil {
		return InvalidID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		m.metrics.play(channel.SE, resultClosed)
		return InvalidID
	}

	_, id, err := m.startLocked(channel.SE, clip, path, false, false)
	if err != nil {
		m.logger.Warn("starting sound effect", "path", path, "error", err)
		m.metrics.play(channel.SE, resultLoadFailed)
		return InvalidID
	}

	m.metrics.play(channel.SE, resultOK)
	return id
}

// startLocked allocates a voice of cat, binds clip to a fresh id and starts
// it. The id counter only moves when the voice accepted the clip.
func (m *Manager) startLocked(cat channel.Category, clip *audio.Clip, path string, loop, silent bool) (*voice.Voice, int, error) {
	v, rule := m.pools[cat].Allocate()
	m.metrics.allocation(cat, rule)

	id := m.nextID
	if err := v.Assign(clip, path, id, loop); err != nil {
		return nil, InvalidID, err
	}
	m.nextID++

	if err := v.Play(silent); err != nil {
		return nil, InvalidID, err
	}

	m.logger.Debug("voice allocated",
		"category", cat.String(),
		"rule", rule.String(),
		"id", id,
		"path", path)
	return v, id, nil
}

// load asks the loader for path. A nil clip counts as a failure.
func (m *Manager) load(ctx context.Context, cat channel.Category, path string) (*audio.Clip, error) {
	start := time.Now()
	clip, err := m.loader.Load(ctx, path)
	m.metrics.load(cat, time.Since(start))

	if err == nil && clip == nil {
		err = errors.New("loader returned no clip")
	}
	if err != nil {
		m.logger.Warn("audio load failed", "path", path, "error", err)
		m.metrics.play(cat, resultLoadFailed)
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, path, err)
	}
	return clip, nil
}

// Stop halts the voice of cat carrying id. Unknown ids are ignored; the
// voice may have been reclaimed since. Stopping the current BGM track also
// forgets it, so playing the same path again starts it.
func (m *Manager) Stop(cat channel.Category, id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.pools[cat]
	if p == nil {
		return
	}

	v, ok := p.FindByID(id)
	if !ok {
		return
	}

	if cat == channel.BGM && m.currentBgm != "" {
		if cur, ok := p.FindPlaying(m.currentBgm); ok && cur == v {
			m.currentBgm = ""
		}
	}
	v.Stop()
}

// SetVolume clamps v to [0,1] and applies it to every voice of cat.
func (m *Manager) SetVolume(cat channel.Category, v float64) {
	if !cat.Valid() {
		return
	}
	v = utils.Clamp01(v)

	m.prefsMu.Lock()
	defer m.prefsMu.Unlock()

	m.mu.Lock()
	m.volume[cat] = v
	if p := m.pools[cat]; p != nil {
		for _, vc := range p.Voices() {
			vc.SetGlobalVolume(v)
		}
	}
	m.mu.Unlock()

	if m.prefs != nil {
		if err := m.prefs.SetVolume(cat, v); err != nil {
			m.logger.Warn("saving volume preference", "category", cat.String(), "error", err)
		}
	}
}

// SetMute mutes or unmutes every voice of cat.
func (m *Manager) SetMute(cat channel.Category, mute bool) {
	if !cat.Valid() {
		return
	}

	m.prefsMu.Lock()
	defer m.prefsMu.Unlock()

	m.mu.Lock()
	m.muted[cat] = mute
	if p := m.pools[cat]; p != nil {
		for _, v := range p.Voices() {
			v.SetMute(mute)
		}
	}
	m.mu.Unlock()

	if m.prefs != nil {
		if err := m.prefs.SetMute(cat, mute); err != nil {
			m.logger.Warn("saving mute preference", "category", cat.String(), "error", err)
		}
	}
}

// Volume reports the current volume of cat.
func (m *Manager) Volume(cat channel.Category) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.volumeLocked(cat)
}

// IsMuted reports whether cat is muted.
func (m *Manager) IsMuted(cat channel.Category) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.muted[cat]
}

// CurrentBgm is the path of the track considered playing, or "".
func (m *Manager) CurrentBgm() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.currentBgm
}

// Close stops every voice, waits for running fades and releases the
// backends. The manager can be initialized again afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return nil
	}
	pools := m.pools
	m.pools = nil
	m.initialized = false
	m.currentBgm = ""
	m.nextID = 0
	m.mu.Unlock()

	var errs []error
	for _, cat := range channel.Categories() {
		if err := pools[cat].Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s voices: %w", cat, err))
		}
	}

	m.logger.Info("audio channels closed")
	return errors.Join(errs...)
}
