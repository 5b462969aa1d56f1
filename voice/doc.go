// SPDX-License-Identifier: EPL-2.0

// Package voice implements one playback slot.
//
// A Voice wraps an opaque Backend (the physical output unit supplied by the
// host audio system) and layers on top of it the state the channel manager
// needs: the playing id of the current session, the resource path, a
// category-wide global volume and a fade state machine.
//
// # Fades
//
// FadeOut and FadeIn start a linear volume ramp on a background goroutine
// and return a *Fade handle. Callers may wait on it or drop it:
//
//	v.FadeOut(time.Second)            // fire and forget
//	err := v.FadeIn(time.Second).Wait(ctx)
//
// A voice runs at most one fade at a time. Starting another fade, or calling
// Play, Stop or Initialize, cancels the running one; a cancelled fade ends
// without its completion step. In particular a fade-out whose voice was
// handed a new clip and replayed never stops that new playback.
//
// Fades are no-ops on idle voices: the returned handle is already done.
package voice
