// SPDX-License-Identifier: EPL-2.0

package audchan

import (
	"github.com/ik5/audchan/channel"
	"github.com/ik5/audchan/voice"
)

// BackendFactory creates the physical voice behind pool slot index of cat.
type BackendFactory interface {
	NewBackend(cat channel.Category, index int) (voice.Backend, error)
}

// BackendFactoryFunc adapts a function to BackendFactory.
type BackendFactoryFunc func(cat channel.Category, index int) (voice.Backend, error)

func (f BackendFactoryFunc) NewBackend(cat channel.Category, index int) (voice.Backend, error) {
	return f(cat, index)
}
