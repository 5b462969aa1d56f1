// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Format describes the PCM layout a playback backend renders.
type Format struct {
	SampleRate int
	Channels   int
}

// Valid reports whether both fields are positive.
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Channels > 0
}

// Registry maps file extensions ("wav", "ogg", ...) to decoders. Extensions
// are kept in registration order, which is the order the loader probes them
// for keys that carry no extension.
type Registry struct {
	codecs map[string]Decoder
	order  []string

	mtx *sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.RWMutex{},
	}
}

// Register binds ext (with or without the leading dot, any case) to d.
// Registering an extension twice replaces the decoder and keeps its
// original position.
func (r *Registry) Register(ext string, d Decoder) {
	ext = normalizeExt(ext)

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.codecs[ext]; !ok {
		r.order = append(r.order, ext)
	}
	r.codecs[ext] = d
}

// Get returns the decoder registered for ext.
func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[normalizeExt(ext)]
	return d, ok
}

// Lookup returns the decoder for the extension of name.
func (r *Registry) Lookup(name string) (Decoder, bool) {
	ext := path.Ext(strings.ReplaceAll(name, "\\", "/"))
	if ext == "" {
		return nil, false
	}
	return r.Get(ext)
}

// Extensions lists the registered extensions in registration order.
func (r *Registry) Extensions() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
