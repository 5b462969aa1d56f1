// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/utils"
)

// mp3Reader is the part of gomp3.Decoder the source needs, for testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// go-mp3 always produces 16-bit stereo.
const channels = 2

type source struct {
	dec mp3Reader
	buf []byte
	// odd trailing byte of the previous read
	carry []byte
}

func newSource(dec mp3Reader) *source {
	return &source{dec: dec, buf: make([]byte, 8192)}
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return len(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n := copy(s.buf, s.carry)
	s.carry = s.carry[:0]

	var err error
	for n < 2 && err == nil {
		var m int
		m, err = s.dec.Read(s.buf[n:])
		n += m
	}

	samples := n / 2
	if n%2 == 1 {
		s.carry = append(s.carry, s.buf[n-1])
	}

	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}
	return samples, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3 header: %w", err)
	}

	return newSource(dec), nil
}
