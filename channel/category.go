// SPDX-License-Identifier: EPL-2.0

package channel

import (
	"fmt"
	"strings"
)

// Category is the routing class of a sound.
type Category int

const (
	None Category = iota
	SE
	BGM
)

const (
	SEPrefix  = "se_"
	BGMPrefix = "bgm_"
)

// Categories lists the categories that own a voice pool.
func Categories() []Category {
	return []Category{SE, BGM}
}

func (c Category) String() string {
	switch c {
	case SE:
		return "se"
	case BGM:
		return "bgm"
	}
	return "none"
}

// Valid reports whether c owns a voice pool.
func (c Category) Valid() bool {
	return c == SE || c == BGM
}

// Parse is the inverse of String. It is case-insensitive.
func Parse(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "se":
		return SE, nil
	case "bgm":
		return BGM, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Resolve derives the category of path from the prefix of its final
// segment. Both '/' and '\' separate segments.
func Resolve(path string) Category {
	name := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		name = path[i+1:]
	}

	switch {
	case strings.HasPrefix(name, SEPrefix):
		return SE
	case strings.HasPrefix(name, BGMPrefix):
		return BGM
	}
	return None
}
