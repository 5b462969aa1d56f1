// SPDX-License-Identifier: EPL-2.0

// Package ebitenaudio plays voices through github.com/hajimehoshi/ebiten/v2/audio.
//
// Every voice owns one audio.Player over the clip's 16-bit PCM. Ebiten
// renders interleaved stereo at the context's sample rate only, so the
// loader has to conform clips to Factory.Format first:
//
//	ctx := audio.NewContext(44100)
//	f := ebitenaudio.NewFactory(ctx)
//	l := loader.NewDir("assets", loader.WithFormat(f.Format()))
//
// Looping clips are wrapped in an audio.InfiniteLoop.
package ebitenaudio
