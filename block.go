// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import (
	"encoding/binary"
	"math"
)

// texels is one decoded 4x4 block in row-major order.
type texels [16][4]uint8

type blockFunc func(block []byte, out *texels)

// decodeBlocks walks 4x4 blocks left to right, top to bottom, slice by slice.
// Texels past the right or bottom edge are dropped.
func decodeBlocks(dst, src []byte, s *surface, blockSize int, fn blockFunc) {
	bw, bh := (s.width+3)/4, (s.height+3)/4
	sliceLen := s.width * s.height * 4

	var out texels
	off := 0
	for z := 0; z < s.depth; z++ {
		slice := dst[z*sliceLen : (z+1)*sliceLen]
		for by := 0; by < bh; by++ {
			for bx := 0; bx < bw; bx++ {
				fn(src[off:off+blockSize], &out)
				off += blockSize
				storeBlock(slice, s.width, s.height, bx*4, by*4, &out)
			}
		}
	}
}

func storeBlock(slice []byte, width, height, x0, y0 int, out *texels) {
	for py := 0; py < 4 && y0+py < height; py++ {
		row := (y0 + py) * width
		for px := 0; px < 4 && x0+px < width; px++ {
			copy(slice[(row+x0+px)*4:], out[py*4+px][:])
		}
	}
}

// unpack565 widens a 5:6:5 color by bit replication.
func unpack565(c uint16) [4]uint8 {
	r := uint8(c>>11) & 0x1f
	g := uint8(c>>5) & 0x3f
	b := uint8(c) & 0x1f

	return [4]uint8{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2, 255}
}

// decodeColorBlock decodes the 8-byte BC1 color half. With punchThrough set
// and c0 <= c1 the block uses the 3-color ramp and index 3 is transparent
// black; otherwise the 4-color opaque ramp is used.
func decodeColorBlock(block []byte, out *texels, punchThrough bool) {
	c0 := binary.LittleEndian.Uint16(block[0:])
	c1 := binary.LittleEndian.Uint16(block[2:])

	var pal [4][4]uint8
	pal[0], pal[1] = unpack565(c0), unpack565(c1)
	if c0 > c1 || !punchThrough {
		for i := 0; i < 3; i++ {
			a, b := uint16(pal[0][i]), uint16(pal[1][i])
			pal[2][i] = uint8((2*a + b + 1) / 3)
			pal[3][i] = uint8((a + 2*b + 1) / 3)
		}
		pal[2][3], pal[3][3] = 255, 255
	} else {
		for i := 0; i < 3; i++ {
			pal[2][i] = uint8((uint16(pal[0][i]) + uint16(pal[1][i])) / 2)
		}
		pal[2][3] = 255
	}

	idx := binary.LittleEndian.Uint32(block[4:])
	for i := range out {
		out[i] = pal[idx>>(2*i)&3]
	}
}

// alphaRamp builds the 8-entry BC3/BC4 interpolation table.
func alphaRamp(a0, a1 uint8) [8]uint8 {
	r := [8]uint8{a0, a1}
	x, y := uint32(a0), uint32(a1)
	if a0 > a1 {
		for i := uint32(2); i < 8; i++ {
			r[i] = uint8(((8-i)*x + (i-1)*y + 3) / 7)
		}
	} else {
		for i := uint32(2); i < 6; i++ {
			r[i] = uint8(((6-i)*x + (i-1)*y + 2) / 5)
		}
		r[6], r[7] = 0, 255
	}

	return r
}

// decodeAlphaBlock decodes an 8-byte BC3 alpha/BC4 channel half: two
// endpoints and sixteen 3-bit indices.
func decodeAlphaBlock(block []byte) [16]uint8 {
	ramp := alphaRamp(block[0], block[1])
	var idx uint64
	for i := 7; i >= 2; i-- {
		idx = idx<<8 | uint64(block[i])
	}

	var v [16]uint8
	for i := range v {
		v[i] = ramp[idx>>(3*i)&7]
	}

	return v
}

func dxt1Block(block []byte, out *texels) {
	decodeColorBlock(block, out, true)
}

func dxt3Block(block []byte, out *texels) {
	decodeColorBlock(block[8:], out, false)
	for i := range out {
		out[i][3] = (block[i>>1] >> (4 * (i & 1)) & 0x0f) * 17
	}
}

func dxt5Block(block []byte, out *texels) {
	decodeColorBlock(block[8:], out, false)
	alpha := decodeAlphaBlock(block[:8])
	for i := range out {
		out[i][3] = alpha[i]
	}
}

func ati1Block(block []byte, out *texels) {
	v := decodeAlphaBlock(block)
	for i := range out {
		out[i] = [4]uint8{v[i], v[i], v[i], v[i]}
	}
}

func ati2Block(block []byte, out *texels) {
	x := decodeAlphaBlock(block[:8])
	y := decodeAlphaBlock(block[8:])
	for i := range out {
		out[i] = [4]uint8{x[i], y[i], normalZ(x[i], y[i]), 255}
	}
}

// normalZ rebuilds the Z component of a tangent-space normal from its X and
// Y bytes. A non-positive radicand yields the flat value 127.
func normalZ(x, y uint8) uint8 {
	dx, dy := int(x), int(y)
	t := 127*128 - (dx-127)*(dx-128) - (dy-127)*(dy-128)
	if t <= 0 {
		return 127
	}

	return uint8(int(math.Sqrt(float64(t))) + 128)
}

func decodeDXT1(dst, src []byte, s *surface) { decodeBlocks(dst, src, s, 8, dxt1Block) }
func decodeDXT3(dst, src []byte, s *surface) { decodeBlocks(dst, src, s, 16, dxt3Block) }
func decodeDXT5(dst, src []byte, s *surface) { decodeBlocks(dst, src, s, 16, dxt5Block) }
func decodeATI1(dst, src []byte, s *surface) { decodeBlocks(dst, src, s, 8, ati1Block) }
func decodeATI2(dst, src []byte, s *surface) { decodeBlocks(dst, src, s, 16, ati2Block) }

// unpremultiply divides DXT2/DXT4 color back out of alpha.
func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 0 {
			continue
		}
		for c := i; c < i+3; c++ {
			v := uint32(pix[c]) * 255 / a
			if v > 255 {
				v = 255
			}
			pix[c] = uint8(v)
		}
	}
}

// swapRedAlpha undoes the RXGB normal-map swizzle.
func swapRedAlpha(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+3] = pix[i+3], pix[i]
	}
}
