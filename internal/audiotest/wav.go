// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"

	"github.com/ik5/audchan/formats/wav"
)

// WAV16 builds a 16-bit PCM WAV file in memory.
func WAV16(sampleRate, channels int, samples []int16) []byte {
	var buf bytes.Buffer
	if err := wav.WriteWAV16(&buf, sampleRate, channels, samples); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
