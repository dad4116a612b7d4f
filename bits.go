// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import "math/bits"

// channel extracts one bitmask field and rescales it to 8 bits:
// ((px & mask) >> shift) * mul >> scale.
//
// mul replicates the field's bits until the field maximum times mul reaches
// 255 or more. Because that product is then all ones, scale brings it back to
// exactly 255, so a full field always decodes to 255.
type channel struct {
	mask  uint32
	shift uint
	mul   uint64
	scale uint
}

func channelOf(mask uint32) channel {
	if mask == 0 {
		return channel{}
	}

	shift := uint(bits.TrailingZeros32(mask))
	top := uint64(mask >> shift)
	width := uint(bits.Len64(top))

	mul := uint64(1)
	for top*mul < 255 {
		mul = mul<<width + 1
	}

	var scale uint
	for (top*mul)>>scale > 255 {
		scale++
	}

	return channel{mask: mask, shift: shift, mul: mul, scale: scale}
}

func (c channel) expand(px uint32) uint8 {
	return uint8((uint64((px&c.mask)>>c.shift) * c.mul) >> c.scale)
}

// alphaChannel returns the alpha field, or ok=false when the surface carries
// no alpha and pixels must decode fully opaque.
func alphaChannel(pf PixelFormat) (c channel, ok bool) {
	if pf.ABitMask == 0 || pf.Flags&(DDPFAlphaPixels|DDPFAlpha) == 0 {
		return channel{}, false
	}

	return channelOf(pf.ABitMask), true
}

func decodeRGB(dst, src []byte, s *surface) {
	bpp := int(s.pf.RGBBitCount / 8)
	r := channelOf(s.pf.RBitMask)
	g := channelOf(s.pf.GBitMask)
	b := channelOf(s.pf.BBitMask)
	a, hasAlpha := alphaChannel(s.pf)

	n := s.pixels()
	for i := 0; i < n; i++ {
		px := loadLE(src[i*bpp:], bpp)
		o := dst[i*4 : i*4+4 : i*4+4]
		o[0] = r.expand(px)
		o[1] = g.expand(px)
		o[2] = b.expand(px)
		o[3] = 255
		if hasAlpha {
			o[3] = a.expand(px)
		}
	}
}

// decodeLuminance replicates the RBitMask field into R, G and B.
func decodeLuminance(dst, src []byte, s *surface) {
	bpp := int(s.pf.RGBBitCount / 8)
	l := channelOf(s.pf.RBitMask)
	a, hasAlpha := alphaChannel(s.pf)

	n := s.pixels()
	for i := 0; i < n; i++ {
		px := loadLE(src[i*bpp:], bpp)
		v := l.expand(px)
		o := dst[i*4 : i*4+4 : i*4+4]
		o[0], o[1], o[2], o[3] = v, v, v, 255
		if hasAlpha {
			o[3] = a.expand(px)
		}
	}
}

func decodeAlpha(dst, src []byte, s *surface) {
	bpp := int(s.pf.RGBBitCount / 8)
	a := channelOf(s.pf.ABitMask)

	n := s.pixels()
	for i := 0; i < n; i++ {
		px := loadLE(src[i*bpp:], bpp)
		o := dst[i*4 : i*4+4 : i*4+4]
		o[0], o[1], o[2], o[3] = 0, 0, 0, a.expand(px)
	}
}

// decodeA1 expands a 1-bit monochrome plane, most significant bit first.
func decodeA1(dst, src []byte, s *surface) {
	pitch := (s.width + 7) / 8
	i := 0
	for row := 0; row < s.height*s.depth; row++ {
		line := src[row*pitch:]
		for x := 0; x < s.width; x++ {
			var v uint8
			if line[x>>3]&(0x80>>(x&7)) != 0 {
				v = 255
			}
			dst[i], dst[i+1], dst[i+2], dst[i+3] = v, v, v, 255
			i += 4
		}
	}
}
