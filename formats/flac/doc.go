// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC streams of 16, 24 or 32 bits per sample.
//
// Frames are decoded one at a time as the source is read, so a Decoder
// never holds more than one FLAC frame beyond what the caller asked for.
package flac
