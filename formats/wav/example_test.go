// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/formats/wav"
)

// ExampleEncode writes a clip as WAV and reads it back.
func ExampleEncode() {
	clip, err := audio.NewClip([]float32{0, 0.5, -0.5, 0.25}, 8000, 1)
	if err != nil {
		fmt.Println(err)
		return
	}

	var buf bytes.Buffer
	if err := wav.Encode(&buf, clip); err != nil {
		fmt.Println(err)
		return
	}

	src, err := wav.Decoder{}.Decode(&buf)
	if err != nil {
		fmt.Println(err)
		return
	}
	decoded, err := audio.ReadClip(src)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d Hz, %d channel, %d frames\n",
		decoded.SampleRate(), decoded.Channels(), decoded.Frames())

	// Output: 8000 Hz, 1 channel, 4 frames
}
