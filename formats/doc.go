// SPDX-License-Identifier: EPL-2.0

// Package formats bundles the decoders under formats/ into an
// audio.Registry.
//
//	reg := formats.Default()
//	dec, ok := reg.Lookup("bgm/bgm_title.ogg")
package formats
