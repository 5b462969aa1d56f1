// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"encoding/binary"
	"fmt"
	"io"

	goflac "github.com/tphakala/flac"

	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/utils"
)

// frameReader is the part of the FLAC decoder the source needs: every call
// returns one frame of interleaved little-endian samples.
type frameReader interface {
	Next() ([]byte, error)
}

// Decoder implements audio.Decoder for FLAC.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := goflac.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	if dec.SampleRate <= 0 || dec.NChannels <= 0 {
		return nil, ErrNotFlacFile
	}

	switch dec.BitsPerSample {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitsPerSample)
	}

	return newSource(dec, dec.SampleRate, dec.NChannels, dec.BitsPerSample), nil
}

type source struct {
	dec        frameReader
	sampleRate int
	channels   int
	bitDepth   int
	width      int

	pending []byte
	err     error
}

func newSource(dec frameReader, sampleRate, channels, bitDepth int) *source {
	return &source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
		width:      bitDepth / 8,
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	n := 0
	for n < len(dst) {
		if len(s.pending) < s.width {
			if s.err != nil {
				break
			}

			frame, err := s.dec.Next()
			if err != nil {
				s.err = err
			}
			s.pending = frame
			continue
		}

		k := min(len(dst)-n, len(s.pending)/s.width)
		for i := range k {
			dst[n+i] = utils.IntToFloat32(s.sample(s.pending[i*s.width:]), s.bitDepth)
		}
		s.pending = s.pending[k*s.width:]
		n += k
	}

	if n == 0 && s.err != nil {
		return 0, s.err
	}
	return n, nil
}

// sample decodes one signed little-endian sample of s.width bytes.
func (s *source) sample(b []byte) int {
	switch s.width {
	case 2:
		return int(int16(binary.LittleEndian.Uint16(b)))
	case 3:
		return int(b[0]) | int(b[1])<<8 | int(int8(b[2]))<<16
	}
	return int(int32(binary.LittleEndian.Uint32(b)))
}
