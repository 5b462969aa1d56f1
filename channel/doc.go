// SPDX-License-Identifier: EPL-2.0

// Package channel defines the playback categories and the naming convention
// that routes an asset path to one of them.
//
// The file name, not the directory, decides the category:
//
//	channel.Resolve("se/se_click")        // channel.SE
//	channel.Resolve("music/bgm_title.ogg") // channel.BGM
//	channel.Resolve("voice/hello")         // channel.None
//
// None is only ever a resolution failure; no voice belongs to it.
package channel
