// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("sample count is not a whole number of frames")
	ErrInvalidFormat  = errors.New("sample rate and channel count must be positive")
	ErrEmptySource    = errors.New("source produced no samples")
)
