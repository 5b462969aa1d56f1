// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audchan/utils"
)

// Clip is a fully decoded, immutable block of interleaved PCM.
type Clip struct {
	samples    []float32
	sampleRate int
	channels   int
}

// NewClip wraps samples without copying them. The caller must not modify
// samples afterwards.
func NewClip(samples []float32, sampleRate, channels int) (*Clip, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidFormat
	}
	if len(samples)%channels != 0 {
		return nil, ErrInvalidDstSize
	}

	return &Clip{
		samples:    samples,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// ReadClip drains src into a Clip and closes it.
func ReadClip(src Source) (*Clip, error) {
	defer src.Close()

	if src.SampleRate() <= 0 || src.Channels() <= 0 {
		return nil, ErrInvalidFormat
	}

	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	// keep reads frame aligned
	size -= size % src.Channels()
	if size == 0 {
		size = src.Channels()
	}

	buf := make([]float32, size)
	samples := make([]float32, 0, size*4)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			// a source that returns neither data nor an error is done
			break
		}
	}

	if len(samples) == 0 {
		return nil, ErrEmptySource
	}

	// drop a trailing partial frame
	samples = samples[:len(samples)-len(samples)%src.Channels()]

	return &Clip{
		samples:    samples,
		sampleRate: src.SampleRate(),
		channels:   src.Channels(),
	}, nil
}

func (c *Clip) SampleRate() int { return c.sampleRate }
func (c *Clip) Channels() int   { return c.channels }

// Format returns the clip's layout.
func (c *Clip) Format() Format {
	return Format{SampleRate: c.sampleRate, Channels: c.channels}
}

// Frames is the number of sample frames (samples per channel).
func (c *Clip) Frames() int {
	return len(c.samples) / c.channels
}

// Duration is the playback length at the clip's sample rate.
func (c *Clip) Duration() time.Duration {
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.sampleRate)
}

// Samples returns the interleaved samples. The slice is shared; do not
// modify it.
func (c *Clip) Samples() []float32 {
	return c.samples
}

// PCM16LE renders the clip as signed 16-bit little-endian interleaved PCM.
func (c *Clip) PCM16LE() []byte {
	out := make([]byte, len(c.samples)*2)
	for i, s := range c.samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(utils.Float32ToInt16(s)))
	}
	return out
}

// Source replays the clip from the beginning as a Source.
func (c *Clip) Source() Source {
	return &clipSource{clip: c}
}

type clipSource struct {
	clip *Clip
	pos  int
}

func (s *clipSource) SampleRate() int { return s.clip.sampleRate }
func (s *clipSource) Channels() int   { return s.clip.channels }
func (s *clipSource) BufSize() int    { return 4096 }
func (s *clipSource) Close() error    { return nil }

func (s *clipSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.clip.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if s.pos >= len(s.clip.samples) {
		return 0, io.EOF
	}

	n := copy(dst, s.clip.samples[s.pos:])
	s.pos += n
	if s.pos >= len(s.clip.samples) {
		return n, io.EOF
	}
	return n, nil
}
