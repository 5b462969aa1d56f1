// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/audchan/utils"
)

// Resample returns a copy of c at rate, using Catmull-Rom cubic
// interpolation between neighbouring frames. When downsampling, a one-pole
// low-pass filter runs over the input first to tame aliasing. Equal rates
// return c itself. An empty clip stays empty.
func (c *Clip) Resample(rate int) (*Clip, error) {
	if rate <= 0 {
		return nil, ErrInvalidFormat
	}
	if rate == c.sampleRate {
		return c, nil
	}
	if len(c.samples) == 0 {
		return &Clip{sampleRate: rate, channels: c.channels}, nil
	}

	in := c.samples
	if rate < c.sampleRate {
		in = lowPass(c.samples, c.channels, 0.5)
	}

	srcFrames := c.Frames()
	ratio := float64(c.sampleRate) / float64(rate)
	dstFrames := int(math.Floor(float64(srcFrames-1)/ratio)) + 1
	if dstFrames < 1 {
		dstFrames = 1
	}

	// frame returns sample ch of frame i, repeating the edge frames.
	frame := func(i, ch int) float32 {
		if i < 0 {
			i = 0
		} else if i >= srcFrames {
			i = srcFrames - 1
		}
		return in[i*c.channels+ch]
	}

	out := make([]float32, dstFrames*c.channels)
	for f := range dstFrames {
		pos := float64(f) * ratio
		i := int(pos)
		x := float32(pos - float64(i))
		for ch := range c.channels {
			out[f*c.channels+ch] = utils.CatmullRom(
				frame(i-1, ch), frame(i, ch), frame(i+1, ch), frame(i+2, ch), x)
		}
	}

	return &Clip{samples: out, sampleRate: rate, channels: c.channels}, nil
}

// lowPass runs y[n] = a*x[n] + (1-a)*y[n-1] per channel. The filter state is
// seeded with the first frame to avoid a warm-up transient.
func lowPass(samples []float32, channels int, alpha float32) []float32 {
	out := make([]float32, len(samples))
	if len(samples) == 0 {
		return out
	}

	state := make([]float32, channels)
	copy(state, samples[:channels])

	for i, x := range samples {
		ch := i % channels
		y := alpha*x + (1-alpha)*state[ch]
		state[ch] = y
		out[i] = y
	}
	return out
}
