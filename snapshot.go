// SPDX-License-Identifier: EPL-2.0

package audchan

import (
	"fmt"
	"strings"

	"github.com/ik5/audchan/channel"
	"github.com/ik5/audchan/voice"
)

// VoiceState is one voice of a Snapshot.
type VoiceState struct {
	Index int
	voice.State
}

// CategoryState is one category of a Snapshot.
type CategoryState struct {
	Category channel.Category
	Volume   float64
	Muted    bool
	Voices   []VoiceState
}

// Snapshot is a point-in-time copy of the manager for diagnostics.
type Snapshot struct {
	Initialized bool
	CurrentBgm  string
	NextID      int
	Categories  []CategoryState
}

// Category returns the state of cat, if present.
func (s Snapshot) Category(cat channel.Category) (CategoryState, bool) {
	for _, c := range s.Categories {
		if c.Category == cat {
			return c, true
		}
	}
	return CategoryState{}, false
}

func (s Snapshot) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current BGM : %s\n", s.CurrentBgm)
	for _, c := range s.Categories {
		mute := ""
		if c.Muted {
			mute = " (muted)"
		}
		fmt.Fprintf(&b, "[%s] Vol : %.2f%s\n", strings.ToUpper(c.Category.String()), c.Volume, mute)
		for _, v := range c.Voices {
			fmt.Fprintf(&b, "  %2d  %s\n", v.Index, v.State)
		}
	}
	return b.String()
}

// Snapshot captures every pool. It never mutates voices.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		Initialized: m.initialized,
		CurrentBgm:  m.currentBgm,
		NextID:      m.nextID,
	}

	for _, cat := range channel.Categories() {
		cs := CategoryState{
			Category: cat,
			Volume:   m.volumeLocked(cat),
			Muted:    m.muted[cat],
		}
		if p := m.pools[cat]; p != nil {
			for i, v := range p.Voices() {
				cs.Voices = append(cs.Voices, VoiceState{Index: i, State: v.State()})
			}
		}
		s.Categories = append(s.Categories, cs)
	}
	return s
}
