// SPDX-License-Identifier: EPL-2.0

package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audchan/channel"
)

// entry is one category block of the file:
//
//	bgm:
//	  volume: 0.6
//	  mute: true
type entry struct {
	Volume *float64 `yaml:"volume,omitempty"`
	Mute   *bool    `yaml:"mute,omitempty"`
}

// File keeps preferences in a YAML file. Every change rewrites the whole
// file through a temporary file and a rename.
type File struct {
	path string

	mu      sync.Mutex
	entries map[string]entry
}

// OpenFile loads path. A missing file is not an error; it is created on
// the first change.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, entries: make(map[string]entry)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	if err := yaml.Unmarshal(data, &f.entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if f.entries == nil {
		f.entries = make(map[string]entry)
	}
	return f, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Volume(cat channel.Category) (float64, error) {
	if err := checkCategory(cat); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if v := f.entries[cat.String()].Volume; v != nil {
		return *v, nil
	}
	return DefaultVolume, nil
}

func (f *File) SetVolume(cat channel.Category, v float64) error {
	if err := checkCategory(cat); err != nil {
		return err
	}

	return f.update(cat, func(e *entry) { e.Volume = &v })
}

func (f *File) Mute(cat channel.Category) (bool, error) {
	if err := checkCategory(cat); err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if m := f.entries[cat.String()].Mute; m != nil {
		return *m, nil
	}
	return DefaultMute, nil
}

func (f *File) SetMute(cat channel.Category, m bool) error {
	if err := checkCategory(cat); err != nil {
		return err
	}

	return f.update(cat, func(e *entry) { e.Mute = &m })
}

func (f *File) update(cat channel.Category, fn func(*entry)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]entry, len(f.entries)+1)
	for k, e := range f.entries {
		next[k] = e
	}
	e := next[cat.String()]
	fn(&e)
	next[cat.String()] = e

	if err := f.write(next); err != nil {
		return err
	}
	f.entries = next
	return nil
}

func (f *File) write(entries map[string]entry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}
