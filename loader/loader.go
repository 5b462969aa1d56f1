// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"context"

	"github.com/ik5/audchan/audio"
)

// Loader fetches the clip for a resource key. A nil clip with a nil error
// counts as a failed load.
type Loader interface {
	Load(ctx context.Context, key string) (*audio.Clip, error)
}

// Func adapts a function to Loader.
type Func func(ctx context.Context, key string) (*audio.Clip, error)

func (f Func) Load(ctx context.Context, key string) (*audio.Clip, error) {
	return f(ctx, key)
}
