// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import (
	"fmt"
	"io"
)

const (
	// Magic is the byte string prefix of every DDS file.
	Magic = "DDS "
	// HeaderSize is the required value of Header.Size.
	HeaderSize = 124
	// PixelFormatSize is the on-disk size of PixelFormat.
	PixelFormatSize = 32
	// HeaderDX10Size is the on-disk size of HeaderDX10.
	HeaderDX10Size = 20

	magicValue = 0x20534444
)

// Header flags (Header.Flags).
const (
	DDSDCaps        = 0x00000001
	DDSDHeight      = 0x00000002
	DDSDWidth       = 0x00000004
	DDSDPitch       = 0x00000008
	DDSDPixelFormat = 0x00001000
	DDSDMipMapCount = 0x00020000
	DDSDLinearSize  = 0x00080000
	DDSDDepth       = 0x00800000
)

// Pixel format flags (PixelFormat.Flags).
const (
	DDPFAlphaPixels       = 0x00000001
	DDPFAlpha             = 0x00000002
	DDPFFourCC            = 0x00000004
	DDPFPaletteIndexed4   = 0x00000008
	DDPFPaletteIndexedTo8 = 0x00000010
	DDPFPaletteIndexed8   = 0x00000020
	DDPFRGB               = 0x00000040
	DDPFCompressed        = 0x00000080
	DDPFYUV               = 0x00000200
	DDPFPaletteIndexed1   = 0x00000800
	DDPFPaletteIndexed2   = 0x00001000
	DDPFLuminance         = 0x00020000
	DDPFNormal            = 0x80000000

	ddpfPaletteMask = DDPFPaletteIndexed1 | DDPFPaletteIndexed2 | DDPFPaletteIndexed4 |
		DDPFPaletteIndexed8 | DDPFPaletteIndexedTo8
)

// Surface capabilities (Header.Caps, Header.Caps2).
const (
	DDSCapsComplex = 0x00000008
	DDSCapsTexture = 0x00001000
	DDSCapsMipmap  = 0x00400000

	DDSCaps2Cubemap = 0x00000200
	DDSCaps2Volume  = 0x00200000
)

// PixelFormat is the 32-byte DDS_PIXELFORMAT record.
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32 // four ASCII bytes or a numeric D3DFMT value
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// HeaderDX10 is the extension that follows the header when FourCC is "DX10".
type HeaderDX10 struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// Header is the 124-byte DDS_HEADER without the leading magic.
type Header struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       PixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32

	// DX10 is nil unless PixelFormat.FourCC is "DX10".
	DX10 *HeaderDX10
}

// FourCC packs four ASCII bytes into a little-endian code.
func FourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

var fourCCDX10 = FourCC('D', 'X', '1', '0')

// fourCCString renders printable codes as text and numeric D3DFMT codes as numbers.
func fourCCString(v uint32) string {
	b := []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("%d", v)
		}
	}

	return string(b)
}

// Dimensions returns width, height, depth and mip count with depth and mip
// count defaulting to 1 when their flag is absent or the field is zero.
func (h *Header) Dimensions() (width, height, depth, mipMapCount int) {
	width, height, depth, mipMapCount = int(h.Width), int(h.Height), 1, 1
	if h.Flags&DDSDDepth != 0 && h.Depth > 0 {
		depth = int(h.Depth)
	}
	if h.Flags&DDSDMipMapCount != 0 && h.MipMapCount > 0 {
		mipMapCount = int(h.MipMapCount)
	}

	return width, height, depth, mipMapCount
}

// Extension returns the DX10 header, or an "unknown format, one element"
// record when the file has none.
func (h *Header) Extension() HeaderDX10 {
	if h.DX10 != nil {
		return *h.DX10
	}

	return HeaderDX10{ArraySize: 1}
}

// CheckDDS reports whether r starts with the DDS magic. The read offset is
// restored before returning, whatever the result.
func CheckDDS(r io.ReadSeeker) bool {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}
	defer func() { _, _ = r.Seek(pos, io.SeekStart) }()

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return false
	}

	return string(magic[:]) == Magic
}

// ReadHeader reads the magic, the 124-byte header and, when present, the
// DX10 extension. A header whose size field is not 124 is rejected before
// the remaining fields are read.
func ReadHeader(r io.Reader) (*Header, error) {
	c := &reader{r: r}

	magic := c.u32()
	size := c.u32()
	if c.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderRead, c.err)
	}
	if magic != magicValue {
		return nil, fmt.Errorf("%w: magic %q", ErrMalformedHeader, fourCCString(magic))
	}
	if size != HeaderSize {
		return nil, fmt.Errorf("%w: header size %d", ErrMalformedHeader, size)
	}

	h := &Header{Size: size}
	h.Flags = c.u32()
	h.Height = c.u32()
	h.Width = c.u32()
	h.PitchOrLinearSize = c.u32()
	h.Depth = c.u32()
	h.MipMapCount = c.u32()
	for i := range h.Reserved1 {
		h.Reserved1[i] = c.u32()
	}
	h.PixelFormat = PixelFormat{
		Size:        c.u32(),
		Flags:       c.u32(),
		FourCC:      c.u32(),
		RGBBitCount: c.u32(),
		RBitMask:    c.u32(),
		GBitMask:    c.u32(),
		BBitMask:    c.u32(),
		ABitMask:    c.u32(),
	}
	h.Caps = c.u32()
	h.Caps2 = c.u32()
	h.Caps3 = c.u32()
	h.Caps4 = c.u32()
	h.Reserved2 = c.u32()
	if c.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderRead, c.err)
	}

	if h.PixelFormat.FourCC == fourCCDX10 {
		h.DX10 = &HeaderDX10{
			DXGIFormat:        c.u32(),
			ResourceDimension: c.u32(),
			MiscFlag:          c.u32(),
			ArraySize:         c.u32(),
			MiscFlags2:        c.u32(),
		}
		if c.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDX10Read, c.err)
		}
	}

	Logger().Debug("dds header",
		"width", h.Width, "height", h.Height, "depth", h.Depth,
		"flags", h.Flags, "mipmaps", h.MipMapCount,
		"pfFlags", h.PixelFormat.Flags, "fourCC", fourCCString(h.PixelFormat.FourCC),
		"bitCount", h.PixelFormat.RGBBitCount, "dx10", h.DX10 != nil)

	return h, nil
}

// WriteHeader writes the magic, the header and, when h.DX10 is set, the DX10
// extension.
func WriteHeader(w io.Writer, h *Header) error {
	c := &writer{w: w}
	c.u32(magicValue)
	c.u32(h.Size)
	c.u32(h.Flags)
	c.u32(h.Height)
	c.u32(h.Width)
	c.u32(h.PitchOrLinearSize)
	c.u32(h.Depth)
	c.u32(h.MipMapCount)
	for _, v := range h.Reserved1 {
		c.u32(v)
	}

	pf := h.PixelFormat
	c.u32(pf.Size)
	c.u32(pf.Flags)
	c.u32(pf.FourCC)
	c.u32(pf.RGBBitCount)
	c.u32(pf.RBitMask)
	c.u32(pf.GBitMask)
	c.u32(pf.BBitMask)
	c.u32(pf.ABitMask)

	c.u32(h.Caps)
	c.u32(h.Caps2)
	c.u32(h.Caps3)
	c.u32(h.Caps4)
	c.u32(h.Reserved2)

	if h.DX10 != nil {
		c.u32(h.DX10.DXGIFormat)
		c.u32(h.DX10.ResourceDimension)
		c.u32(h.DX10.MiscFlag)
		c.u32(h.DX10.ArraySize)
		c.u32(h.DX10.MiscFlags2)
	}

	if c.err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHeader, c.err)
	}

	return nil
}
