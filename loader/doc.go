// SPDX-License-Identifier: EPL-2.0

/*
Package loader turns resource keys into decoded, playback-ready clips.

A key is a slash separated path such as "bgm/bgm_title" or "se/se_hit.wav".
FS resolves it against an fs.FS, trying every registered extension in order
when the key has none, decodes the file with the matching decoder and
conforms the result to the output format of the backend:

	l := loader.NewFS(os.DirFS("assets"),
		loader.WithFormat(audio.Format{SampleRate: 44100, Channels: 2}),
	)
	clip, err := l.Load(ctx, "bgm/bgm_title")

Decoded clips are cached and concurrent loads of one key share a single
decode. Dir adds a file system watcher that drops cached clips when their
files change on disk.
*/
package loader
