// SPDX-License-Identifier: EPL-2.0

package channel

import "errors"

var (
	ErrUnknownCategory = errors.New("unknown category")
)
