// SPDX-License-Identifier: EPL-2.0

package ebitenaudio

import "errors"

var (
	ErrFormatMismatch = errors.New("clip format does not match the audio context")
)
