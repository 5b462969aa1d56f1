// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III through github.com/hajimehoshi/go-mp3.
//
// # Supported Formats
//
// The decoder handles:
//   - MPEG-1 and MPEG-2 Layer III
//   - Constant and variable bitrate streams
//   - Mono and stereo sources
//
// # Decoding
//
//	f, err := os.Open("bgm/bgm_title.mp3")
//	if err != nil {
//	    return err
//	}
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	clip, err := audio.ReadClip(src)
//
// Most callers never use the Decoder directly: formats.Default registers it
// under the "mp3" extension and loader.Dir picks it from there.
//
// # Output Format
//
//   - Sample format: float32 in [-1.0, 1.0], converted from the 16-bit
//     little-endian PCM go-mp3 produces
//   - Channels: always 2; mono files come out with both channels equal
//   - Sample rate: whatever the stream declares, usually 44.1 or 48 kHz
//
// Use audio.Conform to bring the result to the output format of a backend:
//
//	clip, err := audio.Conform(src, audio.Format{SampleRate: 48000, Channels: 2})
//
// # Limitations
//
// Decoding only. A header that go-mp3 cannot parse is returned from Decode
// wrapped as "decoding mp3 header"; errors inside the stream surface from
// ReadSamples.
package mp3
