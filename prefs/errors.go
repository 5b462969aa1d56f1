// SPDX-License-Identifier: EPL-2.0

package prefs

import "errors"

var (
	ErrUnknownDriver = errors.New("unknown database driver")
)
