// SPDX-License-Identifier: EPL-2.0

package prefs

import (
	"fmt"

	"github.com/ik5/audchan/channel"
)

const (
	DefaultVolume = 1.0
	DefaultMute   = false
)

// Store reads and writes per-category preferences. Implementations are safe
// for concurrent use.
type Store interface {
	Volume(cat channel.Category) (float64, error)
	SetVolume(cat channel.Category, v float64) error
	Mute(cat channel.Category) (bool, error)
	SetMute(cat channel.Category, m bool) error
}

func checkCategory(cat channel.Category) error {
	if !cat.Valid() {
		return fmt.Errorf("%w: %s", channel.ErrUnknownCategory, cat)
	}
	return nil
}
