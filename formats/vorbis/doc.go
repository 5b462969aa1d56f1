// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with github.com/jfreymuth/oggvorbis,
// a pure Go decoder with no cgo dependency.
//
// # Supported Formats
//
// The decoder handles:
//   - Ogg Vorbis I streams (.ogg)
//   - Any channel count the stream declares
//   - Any sample rate
//
// Ogg containers carrying Opus or FLAC are not Vorbis and fail in Decode.
//
// # Decoding
//
//	f, err := os.Open("se/se_hit.ogg")
//	if err != nil {
//	    return err
//	}
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	clip, err := audio.ReadClip(src)
//
// formats.Default registers the decoder under the "ogg" extension.
//
// # Output Format
//
//   - Sample format: float32 in [-1.0, 1.0]; oggvorbis already decodes to
//     float32, so samples pass through unchanged
//   - Channels: as declared by the stream
//   - Sample rate: as declared by the stream
//
// # Looping
//
// Vorbis is the usual choice for BGM. The decoder does not loop by itself;
// looping is done by the voice backend on the decoded audio.Clip, which
// keeps the loop point sample accurate.
//
// # Errors
//
// A bad identification header is returned from Decode wrapped as
// "decoding ogg vorbis header". Corruption later in the stream surfaces
// from ReadSamples.
package vorbis
