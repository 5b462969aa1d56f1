// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the integer PCM buffers of the go-audio decoders
// to audio.Source.
package intpcm

import (
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audchan/utils"
)

// Reader is the part of the go-audio wav and aiff decoders we use.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	bitDepth   int
	buf        *goaudio.IntBuffer
}

func NewSource(dec Reader, sampleRate, channels, bitDepth int) *Source {
	return &Source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
		buf: &goaudio.IntBuffer{
			Data:   make([]int, 4096),
			Format: &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		},
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return len(s.buf.Data) }
func (s *Source) Close() error    { return nil }

// ReadSamples may return fewer values than len(dst), not necessarily frame
// aligned; a read of zero values ends the stream.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = utils.IntToFloat32(v, s.bitDepth)
	}
	return n, err
}
