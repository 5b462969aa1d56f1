// SPDX-License-Identifier: EPL-2.0

package prefs

import (
	"sync"

	"github.com/ik5/audchan/channel"
)

type Memory struct {
	mu     sync.RWMutex
	volume map[channel.Category]float64
	mute   map[channel.Category]bool
}

func NewMemory() *Memory {
	return &Memory{
		volume: make(map[channel.Category]float64),
		mute:   make(map[channel.Category]bool),
	}
}

func (m *Memory) Volume(cat channel.Category) (float64, error) {
	if err := checkCategory(cat); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.volume[cat]; ok {
		return v, nil
	}
	return DefaultVolume, nil
}

func (m *Memory) SetVolume(cat channel.Category, v float64) error {
	if err := checkCategory(cat); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.volume[cat] = v
	return nil
}

func (m *Memory) Mute(cat channel.Category) (bool, error) {
	if err := checkCategory(cat); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.mute[cat]; ok {
		return v, nil
	}
	return DefaultMute, nil
}

func (m *Memory) SetMute(cat channel.Category, mute bool) error {
	if err := checkCategory(cat); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.mute[cat] = mute
	return nil
}
