// SPDX-License-Identifier: EPL-2.0

package voice

import "fmt"

// State is a point-in-time view of a voice.
type State struct {
	PlayingID    int
	Path         string
	Using        bool
	Fading       bool
	Muted        bool
	Volume       float64
	GlobalVolume float64
}

func (s State) String() string {
	return fmt.Sprintf("IsUsing:%t | ID : %d | %s | IsFading : %t | Vol : %.2f",
		s.Using, s.PlayingID, s.Path, s.Fading, s.Volume)
}
