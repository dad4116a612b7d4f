// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

// R8G8_B8G8 stores bytes R, G0, B, G1; G8R8_G8B8 stores G0, R, G1, B. Both
// share R and B between two horizontally adjacent pixels.
func decodeR8G8B8G8(dst, src []byte, s *surface) { decodeMacroPixels(dst, src, s, 0, 1, 2, 3) }
func decodeG8R8G8B8(dst, src []byte, s *surface) { decodeMacroPixels(dst, src, s, 1, 0, 3, 2) }

// decodeMacroPixels expands 4-byte pixel pairs; r, g0, b and g1 are byte
// offsets inside a pair. Rows hold ceil(width/2) pairs.
func decodeMacroPixels(dst, src []byte, s *surface, r, g0, b, g1 int) {
	pitch := (s.width + 1) / 2 * 4
	o := 0
	for row := 0; row < s.height*s.depth; row++ {
		line := src[row*pitch : (row+1)*pitch]
		for x := 0; x < s.width; x += 2 {
			pair := line[x*2 : x*2+4]
			dst[o], dst[o+1], dst[o+2], dst[o+3] = pair[r], pair[g0], pair[b], 255
			o += 4
			if x+1 < s.width {
				dst[o], dst[o+1], dst[o+2], dst[o+3] = pair[r], pair[g1], pair[b], 255
				o += 4
			}
		}
	}
}
