// SPDX-License-Identifier: EPL-2.0

package loader

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnsupportedFormat = errors.New("no decoder for resource")
)
