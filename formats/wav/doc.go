// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes WAV files.
//
// Decoding goes through github.com/go-audio/wav, so files with extra chunks
// (LIST, fact, ...) before the data chunk are fine. Integer PCM at 16, 24
// and 32 bits is supported, any channel count and sample rate:
//
//	src, err := wav.Decoder{}.Decode(f)
//	clip, err := audio.ReadClip(src)
//
// WriteWAV16 and Encode produce canonical 44-byte-header 16-bit files, used
// for test fixtures and by the CLI to dump conformed clips.
package wav
