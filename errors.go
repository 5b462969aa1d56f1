// SPDX-License-Identifier: EPL-2.0

package audchan

import "errors"

var (
	ErrNotInitialized = errors.New("manager not initialized")
	ErrUnroutablePath = errors.New("path has neither se_ nor bgm_ prefix")
	ErrLoadFailed     = errors.New("clip load failed")
)
