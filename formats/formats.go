// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/formats/aiff"
	"github.com/ik5/audchan/formats/flac"
	"github.com/ik5/audchan/formats/mp3"
	"github.com/ik5/audchan/formats/vorbis"
	"github.com/ik5/audchan/formats/wav"
)

// Default returns a registry with every bundled decoder. The registration
// order is the probing order for keys without an extension.
func Default() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("flac", flac.Decoder{})
	return r
}
