// SPDX-License-Identifier: EPL-2.0

package voice

import "errors"

var (
	ErrNoClip = errors.New("voice has no clip")
)
