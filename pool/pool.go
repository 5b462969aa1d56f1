// SPDX-License-Identifier: EPL-2.0

package pool

import (
	"errors"

	"github.com/ik5/audchan/voice"
)

// Rule tells which branch of the allocation policy produced a voice.
type Rule int

const (
	RuleIdle Rule = iota
	RuleFading
	RuleForced
)

func (r Rule) String() string {
	switch r {
	case RuleIdle:
		return "idle"
	case RuleFading:
		return "fading"
	case RuleForced:
		return "forced"
	default:
		return "unknown"
	}
}

// Pool is a fixed-size, ordered set of voices.
type Pool struct {
	voices []*voice.Voice
}

// New wraps voices. It panics on an empty slice.
func New(voices []*voice.Voice) *Pool {
	if len(voices) == 0 {
		panic("pool: no voices")
	}

	vs := make([]*voice.Voice, len(voices))
	copy(vs, voices)
	return &Pool{voices: vs}
}

// Allocate picks a voice for a new playback and initializes it.
func (p *Pool) Allocate() (*voice.Voice, Rule) {
	v, rule := p.pick()
	v.Initialize()
	return v, rule
}

func (p *Pool) pick() (*voice.Voice, Rule) {
	for _, v := range p.voices {
		if !v.IsUsing() {
			return v, RuleIdle
		}
	}

	for _, v := range p.voices {
		if v.IsFading() {
			return v, RuleFading
		}
	}

	return p.voices[0], RuleForced
}

func (p *Pool) Len() int {
	return len(p.voices)
}

func (p *Pool) At(i int) *voice.Voice {
	return p.voices[i]
}

// Voices returns a copy of the pool's voices in order.
func (p *Pool) Voices() []*voice.Voice {
	out := make([]*voice.Voice, len(p.voices))
	copy(out, p.voices)
	return out
}

// FindByID returns the voice carrying playing id, if any.
func (p *Pool) FindByID(id int) (*voice.Voice, bool) {
	if id == voice.InvalidID {
		return nil, false
	}

	for _, v := range p.voices {
		if v.PlayingID() == id {
			return v, true
		}
	}
	return nil, false
}

// FindPlaying returns the voice that is audibly playing path: in use and not
// on its way out.
func (p *Pool) FindPlaying(path string) (*voice.Voice, bool) {
	for _, v := range p.voices {
		st := v.State()
		if st.Using && !st.Fading && st.Path == path {
			return v, true
		}
	}
	return nil, false
}

// Close closes every voice and joins their errors.
func (p *Pool) Close() error {
	var errs []error
	for _, v := range p.voices {
		if err := v.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
