// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/formats"
)

// FS loads clips from a file system.
type FS struct {
	fsys     fs.FS
	registry *audio.Registry
	format   audio.Format
	ttl      time.Duration
	logger   *slog.Logger

	cache *cache.Cache
	group singleflight.Group
	// bumped by every invalidation; a decode that started under an older
	// generation is returned but not cached
	gen atomic.Uint64
}

type Option func(*FS)

// WithRegistry replaces the default decoder registry.
func WithRegistry(r *audio.Registry) Option {
	return func(l *FS) {
		if r != nil {
			l.registry = r
		}
	}
}

// WithFormat conforms every clip to f. The zero Format keeps the layout of
// each file.
func WithFormat(f audio.Format) Option {
	return func(l *FS) { l.format = f }
}

// WithTTL expires cached clips after d. Zero keeps them until invalidated.
func WithTTL(d time.Duration) Option {
	return func(l *FS) { l.ttl = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *FS) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewFS(fsys fs.FS, opts ...Option) *FS {
	l := &FS{
		fsys:     fsys,
		registry: formats.Default(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.logger = l.logger.With("component", "loader")
	if l.ttl > 0 {
		l.cache = cache.New(l.ttl, 2*l.ttl)
	} else {
		l.cache = cache.New(cache.NoExpiration, 0)
	}
	return l
}

// Format is the layout clips are conformed to.
func (l *FS) Format() audio.Format {
	return l.format
}

// Load returns the clip for key, decoding it on a cache miss. Cancelling
// ctx abandons the wait; a decode already running for other callers goes
// on.
func (l *FS) Load(ctx context.Context, key string) (*audio.Clip, error) {
	name, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	if c, ok := l.cache.Get(name); ok {
		l.logger.Debug("clip cache hit", "key", name)
		return c.(*audio.Clip), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := l.group.DoChan(name, func() (any, error) {
		return l.decode(name)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*audio.Clip), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *FS) decode(name string) (*audio.Clip, error) {
	gen := l.gen.Load()
	start := time.Now()

	file, dec, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}

	clip, err := audio.Conform(src, l.format)
	if err != nil {
		return nil, fmt.Errorf("conforming %s: %w", file, err)
	}

	if l.gen.Load() == gen {
		l.cache.Set(name, clip, cache.DefaultExpiration)
	}

	l.logger.Debug("clip decoded",
		"key", name,
		"file", file,
		"duration", clip.Duration(),
		"elapsed", time.Since(start))
	return clip, nil
}

// resolve maps a key to a file and its decoder. A key whose extension has a
// decoder is used as is; otherwise every registered extension is appended
// in order and the first existing file wins.
func (l *FS) resolve(name string) (string, audio.Decoder, error) {
	if dec, ok := l.registry.Lookup(name); ok && l.isFile(name) {
		return name, dec, nil
	}

	for _, ext := range l.registry.Extensions() {
		candidate := name + "." + ext
		if !l.isFile(candidate) {
			continue
		}
		dec, _ := l.registry.Get(ext)
		return candidate, dec, nil
	}

	if l.isFile(name) {
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return "", nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (l *FS) isFile(name string) bool {
	info, err := fs.Stat(l.fsys, name)
	return err == nil && !info.IsDir()
}

// Invalidate drops the cached clip of a key or of a file name. Dropping
// "bgm/bgm_a.ogg" also drops the extension-less key "bgm/bgm_a".
func (l *FS) Invalidate(name string) {
	name, err := cleanKey(name)
	if err != nil {
		return
	}

	l.gen.Add(1)
	l.cache.Delete(name)
	l.group.Forget(name)

	if ext := path.Ext(name); ext != "" {
		if _, ok := l.registry.Get(ext); ok {
			base := strings.TrimSuffix(name, ext)
			l.cache.Delete(base)
			l.group.Forget(base)
		}
	}
}

// Flush drops every cached clip.
func (l *FS) Flush() {
	l.gen.Add(1)
	l.cache.Flush()
}

// Cached is the number of clips in the cache.
func (l *FS) Cached() int {
	return l.cache.ItemCount()
}

// cleanKey turns a key into a valid fs.FS path. Backslashes are accepted as
// separators, like the category resolver does.
func cleanKey(key string) (string, error) {
	name := path.Clean(strings.ReplaceAll(key, "\\", "/"))
	name = strings.TrimPrefix(name, "/")
	if name == "" || name == "." || !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: invalid key %q", ErrNotFound, key)
	}
	return name, nil
}
