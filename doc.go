// SPDX-License-Identifier: EPL-2.0

/*
Package audchan multiplexes a small, fixed set of playback voices across
sound effects (SE) and background music (BGM).

A sound is routed by the name of its file: "se/se_hit" is an effect,
"bgm/bgm_title" is music. Effects get any free SE voice; when all of them are
busy, a fading one or else the first one is taken over. Music lives on
exactly two voices so a track change can crossfade: the old track fades out
while the new one fades in.

# Quick Start

	m := audchan.New(null.Factory{},
		audchan.WithLoader(loader.NewDir("assets")),
	)
	if err := m.Initialize(audchan.DefaultSetting()); err != nil {
		return err
	}
	defer m.Close()

	id := m.Play(ctx, "se/se_hit")      // returns once the clip started
	m.Play(ctx, "bgm/bgm_title")         // first track, full volume
	m.Play(ctx, "bgm/bgm_battle")        // crossfade, returns after fade-in
	m.Stop(channel.SE, id)
	m.StopBgm(ctx, time.Second)

Play returns the playing id of the new session, or InvalidID when the path is
not routable, the clip failed to load or the track is already the current
BGM. Failures are logged, never returned.

# Volume and Mute

SetVolume and SetMute apply to every voice of a category, idle ones
included, so the next playback starts at the new level. With a
prefs.Store the values survive restarts:

	store, _ := prefs.OpenFile("audchan-prefs.yaml")
	m := audchan.New(factory, audchan.WithPreferences(store))

# Backends

A BackendFactory creates the physical voices. backend/ebitenaudio plays
through ebiten's audio package, backend/null plays nothing and only keeps
time.

# Concurrency

A Manager is safe for concurrent use. Clip loading happens outside of its
lock; allocation, id minting and playback start happen under it, so no
caller sees a half-assigned voice.
*/
package audchan
