// SPDX-License-Identifier: EPL-2.0

// Package audio holds the sample-level building blocks shared by the
// decoders, the loader and the playback backends.
//
// # Sources and Decoders
//
// A Source streams interleaved float32 samples in [-1,1]. Every format
// decoder under formats/ turns an io.Reader into a Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders are looked up by file extension through a Registry:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	dec, ok := reg.Lookup("sounds/se_click.wav")
//
// # Clips
//
// Playback voices never stream from disk. A Clip is a fully decoded,
// immutable buffer that can be bound to any number of voices:
//
//	src, _ := dec.Decode(file)
//	clip, err := audio.Conform(src, audio.Format{SampleRate: 44100, Channels: 2})
//
// Conform drains the source, up- or down-mixes it to the requested channel
// count and resamples it with cubic interpolation, so every clip handed to a
// backend already matches the backend's output format.
//
// Backends that want bytes use Clip.PCM16LE, which renders signed 16-bit
// little-endian interleaved PCM.
package audio
