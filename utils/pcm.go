// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a sample in [-1,1] to signed 16-bit PCM.
// Values outside the range are clamped.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	if x < 0 {
		return int16(x * 32768.0)
	}

	return int16(x * 32767.0)
}

// Int16ToFloat32 converts signed 16-bit PCM to a sample in [-1,1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// IntToFloat32 normalizes an integer sample of the given bit depth, as
// produced by the go-audio decoders, to [-1,1). Unknown depths are treated
// as 16-bit.
func IntToFloat32(v int, bitDepth int) float32 {
	var full float32
	switch bitDepth {
	case 8:
		full = 128.0
	case 24:
		full = 8388608.0
	case 32:
		full = 2147483648.0
	default:
		full = 32768.0
	}

	return float32(v) / full
}
