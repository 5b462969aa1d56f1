// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes big-endian AIFF files through github.com/go-audio/aiff.
//
// # Supported Formats
//
// The decoder handles:
//   - AIFF integer PCM at 16, 24 and 32 bits
//   - Any channel count
//   - Any sample rate
//
// AIFF-C compressed variants and 8-bit files are rejected.
//
// # Decoding
//
//	f, err := os.Open("se/se_click.aiff")
//	if err != nil {
//	    return err
//	}
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	clip, err := audio.ReadClip(src)
//
// go-audio needs an io.ReadSeeker. An *os.File is used as is; any other
// reader is read fully into memory first.
//
// formats.Default registers the decoder under both the "aif" and "aiff"
// extensions.
//
// # Output Format
//
//   - Sample format: float32 in [-1.0, 1.0], scaled by the file's bit depth
//   - Channels: as declared in the COMM chunk
//   - Sample rate: as declared in the COMM chunk
//
// # Errors
//
//   - ErrNotAiffFile: the input has no FORM/AIFF header or no usable format
//   - ErrUnsupportedBitDepth: the bit depth is not 16, 24 or 32
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrUnsupportedBitDepth) {
//	    // convert the asset to 16-bit
//	}
//
// # AIFF vs. WAV
//
// Both carry uncompressed PCM. AIFF stores samples big-endian and its
// sample rate as an 80-bit extended float; the decoder handles both.
package aiff
