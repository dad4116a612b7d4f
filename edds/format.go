// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package edds

import (
	"fmt"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/dds"
)

// enf1Marker is "ENF1" stored in Header.Reserved1[1] by Enfusion tools.
var enf1Marker = dds.FourCC('E', 'N', 'F', '1')

// newHeader builds the DDS header of an EDDS file holding mipMapCount levels
// encoded as format.
func newHeader(width, height, mipMapCount uint32, format bcn.Format) (*dds.Header, error) {
	h := dds.NewHeader(width, height, 1)
	h.Reserved1[1] = enf1Marker

	pf := &h.PixelFormat
	switch format {
	case bcn.FormatBGRA8:
		setPitch(h)
	case bcn.FormatRGBA8:
		setPitch(h)
		pf.RBitMask, pf.BBitMask = 0x000000ff, 0x00ff0000
	case bcn.FormatDXT1:
		setFourCC(h, 'D', 'X', 'T', '1')
	case bcn.FormatDXT3:
		setFourCC(h, 'D', 'X', 'T', '3')
	case bcn.FormatDXT5:
		setFourCC(h, 'D', 'X', 'T', '5')
	case bcn.FormatBC4:
		setFourCC(h, 'A', 'T', 'I', '1')
	case bcn.FormatBC5:
		setFourCC(h, 'A', 'T', 'I', '2')
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, format)
	}

	h.MipMapCount = mipMapCount
	if mipMapCount > 1 {
		h.Caps |= dds.DDSCapsComplex | dds.DDSCapsMipmap
	}

	if format != bcn.FormatBGRA8 && format != bcn.FormatRGBA8 {
		size, err := h.PayloadSize()
		if err != nil {
			return nil, err
		}
		linear, err := u32FromInt(size)
		if err != nil {
			return nil, err
		}
		h.PitchOrLinearSize = linear
	}

	return h, nil
}

func setPitch(h *dds.Header) {
	h.Flags = h.Flags&^dds.DDSDLinearSize | dds.DDSDPitch
	h.PitchOrLinearSize = h.Width * 4
}

func setFourCC(h *dds.Header, a, b, c, d byte) {
	h.PixelFormat = dds.PixelFormat{
		Size:   dds.PixelFormatSize,
		Flags:  dds.DDPFFourCC,
		FourCC: dds.FourCC(a, b, c, d),
	}
}

// mipMapCount returns the number of blocks in the table.
func mipMapCount(h *dds.Header) int {
	if h.MipMapCount > 0 && (h.Flags&dds.DDSDMipMapCount != 0 || h.Caps&dds.DDSCapsMipmap != 0) {
		return int(h.MipMapCount)
	}

	return 1
}

// levelHeader describes a single mip level of h as a standalone surface.
func levelHeader(h *dds.Header, level int) *dds.Header {
	lh := *h
	if h.DX10 != nil {
		ext := *h.DX10
		lh.DX10 = &ext
	}
	lh.Width = uint32(mipDimension(int(h.Width), level))   // #nosec G115 -- not larger than Width.
	lh.Height = uint32(mipDimension(int(h.Height), level)) // #nosec G115 -- not larger than Height.
	lh.MipMapCount = 1

	return &lh
}

// levelSize returns the payload size of one mip level.
func levelSize(h *dds.Header, level int) (int, error) {
	size, err := levelHeader(h, level).PayloadSize()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnknownFormat, err)
	}

	return size, nil
}
