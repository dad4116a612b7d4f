// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import (
	"encoding/binary"
	"math"

	"github.com/mrjoshuak/go-openexr/half"
)

// scalarKind is the storage type of one channel.
type scalarKind uint8

const (
	scalarHalf scalarKind = iota
	scalarFloat
	scalarUnorm16
)

func (k scalarKind) size() int {
	if k == scalarFloat {
		return 4
	}

	return 2
}

func (k scalarKind) unpack(b []byte) uint8 {
	switch k {
	case scalarHalf:
		return unorm8(half.Half(binary.LittleEndian.Uint16(b)).Float32())
	case scalarFloat:
		return unorm8(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	default:
		return uint8(binary.LittleEndian.Uint16(b) / 257)
	}
}

// unorm8 maps [0,1] to [0,255] with rounding; NaN maps to 0.
func unorm8(f float32) uint8 {
	switch {
	case f != f, f <= 0:
		return 0
	case f >= 1:
		return 255
	default:
		return uint8(math.Round(float64(f) * 255))
	}
}

// floatDecoder returns a decoder for channels stored in memory order R, G,
// B, A. One channel decodes as opaque grey, two as (R, G, 0, 255).
func floatDecoder(kind scalarKind, channels int) decodeFunc {
	size := kind.size()
	stride := size * channels

	return func(dst, src []byte, s *surface) {
		n := s.pixels()
		for i := 0; i < n; i++ {
			px := src[i*stride : (i+1)*stride]
			o := dst[i*4 : i*4+4 : i*4+4]
			switch channels {
			case 1:
				v := kind.unpack(px)
				o[0], o[1], o[2], o[3] = v, v, v, 255
			case 2:
				o[0], o[1], o[2], o[3] = kind.unpack(px), kind.unpack(px[size:]), 0, 255
			default:
				for c := 0; c < 4; c++ {
					o[c] = kind.unpack(px[c*size:])
				}
			}
		}
	}
}
