// SPDX-License-Identifier: EPL-2.0

package audio

// Remix returns a copy of c with the given channel count.
//
// Mono is spread to every output channel, anything else is averaged down to
// mono first and then spread. Equal channel counts return c itself.
func (c *Clip) Remix(channels int) (*Clip, error) {
	if channels <= 0 {
		return nil, ErrInvalidFormat
	}
	if channels == c.channels {
		return c, nil
	}

	frames := c.Frames()
	out := make([]float32, frames*channels)

	// Downmix by averaging, unrolled for stereo which covers almost every
	// asset we load.
	mono := func(f int) float32 {
		base := f * c.channels
		switch c.channels {
		case 1:
			return c.samples[base]
		case 2:
			return (c.samples[base] + c.samples[base+1]) * 0.5
		}
		var sum float32
		for ch := range c.channels {
			sum += c.samples[base+ch]
		}
		return sum / float32(c.channels)
	}

	for f := range frames {
		v := mono(f)
		for ch := range channels {
			out[f*channels+ch] = v
		}
	}

	return &Clip{samples: out, sampleRate: c.sampleRate, channels: channels}, nil
}
