// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/internal/intpcm"
)

const formatPCM = 1

type Decoder struct{}

// Decode reads the RIFF headers of r and returns a Source positioned at the
// first PCM sample. r is buffered in memory unless it is an io.ReadSeeker.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	// 8-bit WAV is unsigned and would need re-centering; nothing we ship uses it.
	switch dec.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	return intpcm.NewSource(dec, int(dec.SampleRate), int(dec.NumChans), int(dec.BitDepth)), nil
}
