// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// PutInt16LE converts src into 16-bit little-endian PCM inside dst and
// returns the number of bytes written. dst must hold 2*len(src) bytes; any
// trailing samples that do not fit are ignored.
func PutInt16LE(dst []byte, src []float32) int {
	n := min(len(src), len(dst)/2)
	for i := range n {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(Float32ToInt16(src[i])))
	}

	return n * 2
}
