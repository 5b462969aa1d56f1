// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Conform drains src and returns a clip in format f.
//
// The pipeline is:
//  1. read every sample from src (src is closed afterwards)
//  2. remix to f.Channels
//  3. resample to f.SampleRate with cubic interpolation
//
// A zero Format keeps the source layout as is.
func Conform(src Source, f Format) (*Clip, error) {
	clip, err := ReadClip(src)
	if err != nil {
		return nil, err
	}

	if f == (Format{}) {
		return clip, nil
	}
	if !f.Valid() {
		return nil, ErrInvalidFormat
	}

	clip, err = clip.Remix(f.Channels)
	if err != nil {
		return nil, fmt.Errorf("remix to %d channels: %w", f.Channels, err)
	}

	clip, err = clip.Resample(f.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("resample to %d Hz: %w", f.SampleRate, err)
	}

	return clip, nil
}
