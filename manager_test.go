// SPDX-License-Identifier: EPL-2.0

package audchan_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ik5/audchan"
	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/channel"
	"github.com/ik5/audchan/internal/audiotest"
	"github.com/ik5/audchan/loader"
	"github.com/ik5/audchan/prefs"
	"github.com/ik5/audchan/voice"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var allKeys = []string{
	"se_a", "se_b", "se_c", "se/se_hit",
	"bgm/bgm_a", "bgm/bgm_b", "bgm/bgm_c",
}

type fixture struct {
	m       *audchan.Manager
	factory *audiotest.Factory
	loader  *audiotest.Loader
}

func setting(se int, fade time.Duration) audchan.Setting {
	return audchan.Setting{
		SEChannelCount: se,
		FadeDuration:   fade,
		FadeTick:       time.Millisecond,
		LoopBGM:        true,
	}
}

func newFixture(t *testing.T, s audchan.Setting, opts ...audchan.Option) *fixture {
	t.Helper()

	f := &fixture{
		factory: audiotest.NewFactory(),
		loader:  audiotest.NewLoader().Add(allKeys...),
	}
	opts = append([]audchan.Option{
		audchan.WithLoader(f.loader),
		audchan.WithLogger(slog.New(slog.DiscardHandler)),
	}, opts...)

	f.m = audchan.New(f.factory, opts...)
	require.NoError(t, f.m.Initialize(s))
	t.Cleanup(func() { assert.NoError(t, f.m.Close()) })
	return f
}

func (f *fixture) voices(t *testing.T, cat channel.Category) []audchan.VoiceState {
	t.Helper()

	cs, ok := f.m.Snapshot().Category(cat)
	require.True(t, ok)
	return cs.Voices
}

func ctx(t *testing.T) context.Context {
	t.Helper()

	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestPlay_UnroutablePath(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))

	for _, path := range []string{"", "foo", "music/track", "sfx_a", "se", "bgm_a/noprefix", "xse_a"} {
		assert.Equal(t, audchan.InvalidID, f.m.Play(ctx(t), path), "path %q", path)
		assert.Zero(t, f.loader.Calls(path))
	}

	snap := f.m.Snapshot()
	assert.Zero(t, snap.NextID)
	assert.Empty(t, snap.CurrentBgm)
	for _, cs := range snap.Categories {
		for _, v := range cs.Voices {
			assert.False(t, v.Using)
			assert.Equal(t, audchan.InvalidID, v.PlayingID)
		}
	}
}

func TestPlay_SEReclaimsFirstVoiceWhenFull(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))

	assert.Equal(t, 0, f.m.Play(ctx(t), "se_a"))
	assert.Equal(t, 1, f.m.Play(ctx(t), "se_b"))
	assert.Equal(t, 2, f.m.Play(ctx(t), "se_c"))

	voices := f.voices(t, channel.SE)
	require.Len(t, voices, 2)
	assert.Equal(t, "se_c", voices[0].Path)
	assert.Equal(t, 2, voices[0].PlayingID)
	assert.Equal(t, "se_b", voices[1].Path)
	assert.Equal(t, 1, voices[1].PlayingID)
}

func TestPlay_SEReusesFinishedVoice(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(3, 20*time.Millisecond))

	for _, key := range []string{"se_a", "se_b", "se_c"} {
		require.NotEqual(t, audchan.InvalidID, f.m.Play(ctx(t), key))
	}
	f.factory.Backends(channel.SE)[2].Finish()

	id := f.m.Play(ctx(t), "se/se_hit")
	assert.Equal(t, 3, id)
	assert.Equal(t, "se/se_hit", f.voices(t, channel.SE)[2].Path)
}

func TestPlay_IDsAreUniqueAndIncreasing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(3, 5*time.Millisecond))

	keys := []string{"se_a", "bgm/bgm_a", "se_b", "se_c", "bgm/bgm_b", "se/se_hit", "se_a", "bgm/bgm_c", "se_b"}
	last := -1
	for _, key := range keys {
		id := f.m.Play(ctx(t), key)
		require.NotEqual(t, audchan.InvalidID, id, "key %s", key)
		assert.Greater(t, id, last)
		last = id
	}

	// pool sizes never change
	assert.Len(t, f.voices(t, channel.SE), 3)
	assert.Len(t, f.voices(t, channel.BGM), audchan.BGMChannelCount)
	assert.Len(t, f.factory.Backends(channel.SE), 3)
	assert.Len(t, f.factory.Backends(channel.BGM), audchan.BGMChannelCount)
}

func TestPlay_LoadFailureConsumesNoID(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))

	assert.Equal(t, audchan.InvalidID, f.m.Play(ctx(t), "se_missing"))
	assert.Equal(t, 1, f.loader.Calls("se_missing"))
	assert.Equal(t, audchan.InvalidID, f.m.Play(ctx(t), "bgm/bgm_missing"))
	assert.Empty(t, f.m.CurrentBgm(), "failed track is not current")

	assert.Equal(t, 0, f.m.Play(ctx(t), "se_a"))
}

func TestPlay_NilClipIsFailure(t *testing.T) {
	t.Parallel()

	nothing := loader.Func(func(context.Context, string) (*audio.Clip, error) {
		return nil, nil
	})
	f := newFixture(t, setting(2, 20*time.Millisecond), audchan.WithLoader(nothing))

	assert.Equal(t, audchan.InvalidID, f.m.Play(ctx(t), "se_a"))
	assert.Zero(t, f.m.Snapshot().NextID)
}

func TestPlay_BackendRejectsClip(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(1, 20*time.Millisecond))
	f.factory.Backends(channel.SE)[0].LoadErr = errors.New("device lost")

	assert.Equal(t, audchan.InvalidID, f.m.Play(ctx(t), "se_a"))
	assert.Zero(t, f.m.Snapshot().NextID)
}

func TestPlay_CancelledLoad(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))
	release := f.loader.Block("se_a")
	defer release()

	c, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- f.m.Play(c, "se_a") }()

	require.Eventually(t, func() bool { return f.loader.Calls("se_a") == 1 }, time.Second, time.Millisecond)
	cancel()

	assert.Equal(t, audchan.InvalidID, <-done)
	assert.Zero(t, f.m.Snapshot().NextID)
}

func TestPlay_SameBgmIsNoop(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))

	id := f.m.Play(ctx(t), "bgm/bgm_a")
	require.Equal(t, 0, id)
	assert.Equal(t, audchan.InvalidID, f.m.Play(ctx(t), "bgm/bgm_a"))
	assert.Equal(t, "bgm/bgm_a", f.m.CurrentBgm())
	assert.Equal(t, 1, f.loader.Calls("bgm/bgm_a"))

	plays := 0
	for _, b := range f.factory.Backends(channel.BGM) {
		plays += b.Plays()
	}
	assert.Equal(t, 1, plays, "exactly one allocation")
}

func TestPlay_FirstBgmStartsAtFullVolume(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, time.Hour))
	f.m.SetVolume(channel.BGM, 0.7)

	// an hour-long fade would block here if the fast path faded in
	id := f.m.Play(ctx(t), "bgm/bgm_a")
	require.Equal(t, 0, id)

	b := f.factory.Backends(channel.BGM)[0]
	assert.InDelta(t, 0.7, b.Volume(), 1e-9)
	assert.True(t, b.Looping())
	assert.False(t, f.voices(t, channel.BGM)[0].Fading)
}

func TestPlay_BgmLoopSetting(t *testing.T) {
	t.Parallel()

	s := setting(2, 20*time.Millisecond)
	s.LoopBGM = false
	f := newFixture(t, s)

	require.NotEqual(t, audchan.InvalidID, f.m.Play(ctx(t), "bgm/bgm_a"))
	assert.False(t, f.factory.Backends(channel.BGM)[0].Looping())
}

func TestCrossfade_Overlap(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 150*time.Millisecond))
	f.m.SetVolume(channel.BGM, 0.8)

	require.Equal(t, 0, f.m.Play(ctx(t), "bgm/bgm_a"))

	done := make(chan int, 1)
	go func() { done <- f.m.Play(ctx(t), "bgm/bgm_b") }()

	assert.Eventually(t, func() bool {
		vs := f.voices(t, channel.BGM)
		return vs[0].Using && vs[0].Fading && vs[1].Using && !vs[1].Fading
	}, time.Second, time.Millisecond, "both tracks audible at once")

	id := <-done
	require.Equal(t, 1, id)

	// the outgoing track is stopped once its fade ends
	require.Eventually(t, func() bool {
		return !f.voices(t, channel.BGM)[0].Using
	}, time.Second, time.Millisecond)

	playing := 0
	for _, v := range f.voices(t, channel.BGM) {
		if v.Using {
			playing++
			assert.Equal(t, "bgm/bgm_b", v.Path)
			assert.Equal(t, id, v.PlayingID)
			assert.InDelta(t, 0.8, v.Volume, 1e-9)
		}
	}
	assert.Equal(t, 1, playing)
	assert.Equal(t, "bgm/bgm_b", f.m.CurrentBgm())
}

func TestCrossfade_VolumeChangeDuringFadeIn(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 100*time.Millisecond))
	require.Equal(t, 0, f.m.Play(ctx(t), "bgm/bgm_a"))

	done := make(chan int, 1)
	go func() { done <- f.m.Play(ctx(t), "bgm/bgm_b") }()

	require.Eventually(t, func() bool { return f.voices(t, channel.BGM)[1].Using }, time.Second, time.Millisecond)
	f.m.SetVolume(channel.BGM, 0.25)

	require.Equal(t, 1, <-done)
	assert.InDelta(t, 0.25, f.voices(t, channel.BGM)[1].Volume, 1e-9)
}

func TestCrossfade_SameKeyNoopWhileLoading(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))
	require.Equal(t, 0, f.m.Play(ctx(t), "bgm/bgm_a"))

	release := f.loader.Block("bgm/bgm_b")
	done := make(chan int, 1)
	go func() { done <- f.m.Play(ctx(t), "bgm/bgm_b") }()

	require.Eventually(t, func() bool { return f.m.CurrentBgm() == "bgm/bgm_b" }, time.Second, time.Millisecond)
	assert.Equal(t, audchan.InvalidID, f.m.Play(ctx(t), "bgm/bgm_b"))

	release()
	assert.Equal(t, 1, <-done)
	assert.Equal(t, 1, f.loader.Calls("bgm/bgm_b"))
}

func TestCrossfade_ThirdTrackTakesOutgoingVoice(t *testing.T) {
	t.Parallel()

	const fade = 150 * time.Millisecond
	f := newFixture(t, setting(2, fade))

	require.Equal(t, 0, f.m.Play(ctx(t), "bgm/bgm_a"))

	doneB := make(chan int, 1)
	go func() { doneB <- f.m.Play(ctx(t), "bgm/bgm_b") }()
	require.Eventually(t, func() bool {
		vs := f.voices(t, channel.BGM)
		return vs[1].Using && vs[1].Path == "bgm/bgm_b"
	}, time.Second, time.Millisecond)

	// voice 0 is still fading bgm_a out
	require.True(t, f.voices(t, channel.BGM)[0].Fading)

	idC := f.m.Play(ctx(t), "bgm/bgm_c")
	require.Equal(t, 2, idC)
	assert.Equal(t, 1, <-doneB)

	// bgm_a's fade timer has long elapsed; voice 0 must still play bgm_c
	time.Sleep(2 * fade)

	vs := f.voices(t, channel.BGM)
	assert.True(t, vs[0].Using)
	assert.Equal(t, "bgm/bgm_c", vs[0].Path)
	assert.Equal(t, idC, vs[0].PlayingID)
	assert.InDelta(t, 1.0, vs[0].Volume, 1e-9)
	assert.False(t, vs[1].Using, "bgm_b faded out")
	assert.Equal(t, "bgm/bgm_c", f.m.CurrentBgm())
}

func TestCrossfade_SupersededLoadIsDropped(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))

	release := f.loader.Block("bgm/bgm_a")
	done := make(chan int, 1)
	go func() { done <- f.m.Play(ctx(t), "bgm/bgm_a") }()
	require.Eventually(t, func() bool { return f.loader.Calls("bgm/bgm_a") == 1 }, time.Second, time.Millisecond)

	require.Equal(t, 0, f.m.Play(ctx(t), "bgm/bgm_b"))
	release()

	assert.Equal(t, audchan.InvalidID, <-done)
	for _, v := range f.voices(t, channel.BGM) {
		assert.NotEqual(t, "bgm/bgm_a", v.Path)
	}
	assert.Equal(t, "bgm/bgm_b", f.m.CurrentBgm())
}

func TestStop(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))

	se := f.m.Play(ctx(t), "se_a")
	f.m.Stop(channel.SE, se)
	assert.False(t, f.voices(t, channel.SE)[0].Using)

	// unknown ids and categories are ignored
	f.m.Stop(channel.SE, 99)
	f.m.Stop(channel.SE, audchan.InvalidID)
	f.m.Stop(channel.None, se)

	bgm := f.m.Play(ctx(t), "bgm/bgm_a")
	f.m.Stop(channel.SE, bgm)
	assert.Equal(t, "bgm/bgm_a", f.m.CurrentBgm(), "wrong category does not match")

	f.m.Stop(channel.BGM, bgm)
	assert.Empty(t, f.m.CurrentBgm())
	assert.NotEqual(t, audchan.InvalidID, f.m.Play(ctx(t), "bgm/bgm_a"), "track can start again")
}

func TestStopBgm(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))
	require.Equal(t, 0, f.m.Play(ctx(t), "bgm/bgm_a"))

	require.NoError(t, f.m.StopBgm(ctx(t), 30*time.Millisecond))

	assert.Empty(t, f.m.CurrentBgm())
	for _, v := range f.voices(t, channel.BGM) {
		assert.False(t, v.Using)
		assert.False(t, v.Fading)
	}

	assert.Equal(t, 1, f.m.Play(ctx(t), "bgm/bgm_a"))
}

func TestStopBgm_DuringCrossfade(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, time.Hour))
	require.Equal(t, 0, f.m.Play(ctx(t), "bgm/bgm_a"))

	done := make(chan int, 1)
	go func() { done <- f.m.Play(ctx(t), "bgm/bgm_b") }()
	require.Eventually(t, func() bool { return f.voices(t, channel.BGM)[1].Using }, time.Second, time.Millisecond)

	require.NoError(t, f.m.StopBgm(ctx(t), 20*time.Millisecond))
	assert.Equal(t, 1, <-done, "fade-in cut short, id still returned")

	for _, v := range f.voices(t, channel.BGM) {
		assert.False(t, v.Using)
	}
}

func TestStopBgm_ContextCancelled(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))
	require.Equal(t, 0, f.m.Play(ctx(t), "bgm/bgm_a"))

	c, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, f.m.StopBgm(c, time.Hour), context.Canceled)
	assert.Empty(t, f.m.CurrentBgm())
	assert.True(t, f.voices(t, channel.BGM)[0].Fading, "fade keeps running")
}

func TestSetVolume_ReachesIdleVoices(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(3, 20*time.Millisecond))
	require.Equal(t, 0, f.m.Play(ctx(t), "se_a"))

	f.m.SetVolume(channel.SE, 0.3)
	assert.InDelta(t, 0.3, f.m.Volume(channel.SE), 1e-9)

	for _, v := range f.voices(t, channel.SE) {
		assert.InDelta(t, 0.3, v.GlobalVolume, 1e-9)
	}
	for _, v := range f.voices(t, channel.BGM) {
		assert.InDelta(t, 1.0, v.GlobalVolume, 1e-9, "other category untouched")
	}

	// an idle voice starts at the new level
	require.Equal(t, 1, f.m.Play(ctx(t), "se_b"))
	assert.InDelta(t, 0.3, f.factory.Backends(channel.SE)[1].Volume(), 1e-9)
}

func TestSetVolume_Clamps(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(1, 20*time.Millisecond))

	f.m.SetVolume(channel.SE, 1.7)
	assert.InDelta(t, 1.0, f.m.Volume(channel.SE), 1e-9)

	f.m.SetVolume(channel.BGM, -2)
	assert.InDelta(t, 0.0, f.m.Volume(channel.BGM), 1e-9)

	f.m.SetVolume(channel.None, 0.5)
	assert.InDelta(t, 1.0, f.m.Volume(channel.None), 1e-9)
}

func TestSetMute(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))

	f.m.SetMute(channel.BGM, true)
	assert.True(t, f.m.IsMuted(channel.BGM))
	assert.False(t, f.m.IsMuted(channel.SE))

	for _, b := range f.factory.Backends(channel.BGM) {
		assert.True(t, b.Muted())
	}
	for _, b := range f.factory.Backends(channel.SE) {
		assert.False(t, b.Muted())
	}

	// mute leaves the volume alone
	assert.InDelta(t, 1.0, f.m.Volume(channel.BGM), 1e-9)

	f.m.SetMute(channel.BGM, false)
	assert.False(t, f.m.IsMuted(channel.BGM))
}

func TestPreferences(t *testing.T) {
	t.Parallel()

	store := prefs.NewMemory()
	require.NoError(t, store.SetVolume(channel.SE, 0.4))
	require.NoError(t, store.SetMute(channel.BGM, true))

	f := newFixture(t, setting(2, 20*time.Millisecond), audchan.WithPreferences(store))

	assert.InDelta(t, 0.4, f.m.Volume(channel.SE), 1e-9)
	assert.True(t, f.m.IsMuted(channel.BGM))
	for _, v := range f.voices(t, channel.SE) {
		assert.InDelta(t, 0.4, v.GlobalVolume, 1e-9)
	}

	f.m.SetVolume(channel.BGM, 0.9)
	f.m.SetMute(channel.SE, true)

	v, err := store.Volume(channel.BGM)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, v, 1e-9)

	mute, err := store.Mute(channel.SE)
	require.NoError(t, err)
	assert.True(t, mute)
}

// slowStore holds SetVolume calls for one value until release is closed.
type slowStore struct {
	*prefs.Memory
	hold    float64
	entered chan struct{}
	release chan struct{}
}

func (s *slowStore) SetVolume(cat channel.Category, v float64) error {
	if v == s.hold {
		close(s.entered)
		<-s.release
	}
	return s.Memory.SetVolume(cat, v)
}

func TestSetVolume_PersistsInApplyOrder(t *testing.T) {
	t.Parallel()

	store := &slowStore{
		Memory:  prefs.NewMemory(),
		hold:    0.2,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	f := newFixture(t, setting(2, 20*time.Millisecond), audchan.WithPreferences(store))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		f.m.SetVolume(channel.SE, 0.2)
	}()
	<-store.entered

	go func() {
		defer wg.Done()
		f.m.SetVolume(channel.SE, 0.8)
	}()
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	wg.Wait()

	persisted, err := store.Volume(channel.SE)
	require.NoError(t, err)
	assert.InDelta(t, f.m.Volume(channel.SE), persisted, 1e-9)
	assert.InDelta(t, 0.8, persisted, 1e-9)
}

func TestInitialize(t *testing.T) {
	t.Parallel()

	factory := audiotest.NewFactory()
	m := audchan.New(factory,
		audchan.WithLoader(audiotest.NewLoader().Add(allKeys...)),
		audchan.WithLogger(slog.New(slog.DiscardHandler)))

	assert.Equal(t, audchan.InvalidID, m.Play(ctx(t), "se_a"), "not initialized")

	require.NoError(t, m.Initialize(setting(4, 20*time.Millisecond)))
	require.NoError(t, m.Initialize(setting(8, 20*time.Millisecond)))
	assert.Len(t, factory.Backends(channel.SE), 4, "second call is a no-op")

	require.Equal(t, 0, m.Play(ctx(t), "se_a"))
	require.Equal(t, 1, m.Play(ctx(t), "bgm/bgm_a"))

	require.NoError(t, m.Close())
	for _, b := range factory.Backends(channel.SE) {
		assert.True(t, b.Closed())
	}
	assert.Empty(t, m.CurrentBgm())
	assert.False(t, m.Snapshot().Initialized)
	assert.Equal(t, audchan.InvalidID, m.Play(ctx(t), "se_a"))
	require.NoError(t, m.Close(), "closing twice is fine")

	require.NoError(t, m.Initialize(setting(2, 20*time.Millisecond)))
	defer m.Close()
	assert.Equal(t, 0, m.Play(ctx(t), "bgm/bgm_a"), "ids restart after close")
}

func TestInitialize_DefaultSetting(t *testing.T) {
	t.Parallel()

	factory := audiotest.NewFactory()
	m := audchan.New(factory, audchan.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, m.Initialize(audchan.DefaultSetting()))
	defer m.Close()

	assert.Len(t, factory.Backends(channel.SE), audchan.DefaultSEChannelCount)
	assert.Len(t, factory.Backends(channel.BGM), audchan.BGMChannelCount)
}

func TestInitialize_BackendFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("no audio device")
	calls := 0
	factory := audchan.BackendFactoryFunc(func(cat channel.Category, _ int) (voice.Backend, error) {
		calls++
		if cat == channel.BGM {
			return nil, boom
		}
		return audiotest.NewBackend(), nil
	})

	m := audchan.New(factory, audchan.WithLogger(slog.New(slog.DiscardHandler)))
	err := m.Initialize(setting(2, 20*time.Millisecond))
	require.ErrorIs(t, err, boom)
	assert.False(t, m.Snapshot().Initialized)
	assert.Equal(t, 3, calls)
}

func TestPlay_Concurrent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(4, 5*time.Millisecond))

	const n = 64
	keys := []string{"se_a", "se_b", "se_c", "se/se_hit", "bgm/bgm_a", "bgm/bgm_b"}
	ids := make(chan int, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- f.m.Play(ctx(t), keys[i%len(keys)])
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		if id == audchan.InvalidID {
			continue
		}
		assert.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, f.m.Snapshot().NextID)
	assert.Len(t, f.voices(t, channel.SE), 4)
	assert.Len(t, f.voices(t, channel.BGM), 2)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	mt, err := audchan.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	f := newFixture(t, setting(1, 10*time.Millisecond), audchan.WithMetrics(mt))

	require.Equal(t, 0, f.m.Play(ctx(t), "se_a"))
	require.Equal(t, 1, f.m.Play(ctx(t), "se_b"))
	f.m.Play(ctx(t), "se_missing")
	f.m.Play(ctx(t), "nowhere")
	require.Equal(t, 2, f.m.Play(ctx(t), "bgm/bgm_a"))
	f.m.Play(ctx(t), "bgm/bgm_a")
	require.Equal(t, 3, f.m.Play(ctx(t), "bgm/bgm_b"))

	assert.InDelta(t, 2, testutil.ToFloat64(mt.Plays.WithLabelValues("se", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(mt.Plays.WithLabelValues("se", "load_failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(mt.Plays.WithLabelValues("none", "unroutable")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(mt.Plays.WithLabelValues("bgm", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(mt.Plays.WithLabelValues("bgm", "noop")), 0)

	assert.InDelta(t, 1, testutil.ToFloat64(mt.Allocations.WithLabelValues("se", "idle")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(mt.Allocations.WithLabelValues("se", "forced")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(mt.Crossfades), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(mt.LoadDuration))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := audchan.NewMetrics(reg)
	require.NoError(t, err)

	_, err = audchan.NewMetrics(reg)
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	f := newFixture(t, setting(2, 20*time.Millisecond))
	require.Equal(t, 0, f.m.Play(ctx(t), "bgm/bgm_a"))
	require.Equal(t, 1, f.m.Play(ctx(t), "se_a"))
	f.m.SetMute(channel.SE, true)

	snap := f.m.Snapshot()
	assert.True(t, snap.Initialized)
	assert.Equal(t, 2, snap.NextID)

	se, ok := snap.Category(channel.SE)
	require.True(t, ok)
	assert.True(t, se.Muted)
	assert.Equal(t, 1, se.Voices[0].PlayingID)

	_, ok = snap.Category(channel.None)
	assert.False(t, ok)

	out := snap.String()
	assert.Contains(t, out, "Current BGM : bgm/bgm_a")
	assert.Contains(t, out, "[SE] Vol : 1.00 (muted)")
	assert.Contains(t, out, "IsUsing:true | ID : 0 | bgm/bgm_a")
}
