// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import "fmt"

// Format identifies a decodable pixel encoding.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatDXT1
	FormatDXT2
	FormatDXT3
	FormatDXT4
	FormatDXT5
	FormatATI1 // BC4
	FormatATI2 // BC5, 3Dc
	FormatRXGB
	FormatRGB       // packed bitmask RGB(A)
	FormatLuminance // bitmask luminance with optional alpha
	FormatAlpha     // bitmask alpha only
	FormatA1
	FormatR8G8B8G8
	FormatG8R8G8B8
	FormatR16F
	FormatG16R16F
	FormatA16B16G16R16F
	FormatR32F
	FormatG32R32F
	FormatA32B32G32R32F
	FormatA16B16G16R16
)

// D3DFMT numeric codes stored in PixelFormat.FourCC.
const (
	d3dfmtA16B16G16R16  = 36
	d3dfmtQ16W16V16U16  = 110
	d3dfmtR16F          = 111
	d3dfmtG16R16F       = 112
	d3dfmtA16B16G16R16F = 113
	d3dfmtR32F          = 114
	d3dfmtG32R32F       = 115
	d3dfmtA32B32G32R32F = 116
	d3dfmtA1            = 118
)

// sizeKind selects the payload size formula.
type sizeKind uint8

const (
	sizeBlock8     sizeKind = iota + 1 // 4x4 blocks, 8 bytes each
	sizeBlock16                        // 4x4 blocks, 16 bytes each
	sizeBitPlane                       // 1 bit per pixel, rows padded to a byte
	sizePerPixel                       // bpp bytes per pixel
	sizeMacroPixel                     // 4 bytes per horizontal pixel pair
)

// decodeFunc expands a payload of exactly the planned size into dst, which
// holds width*height*depth RGBA pixels.
type decodeFunc func(dst, src []byte, s *surface)

type formatInfo struct {
	name   string
	size   sizeKind
	bpp    int // sizePerPixel only; 0 takes RGBBitCount/8
	decode decodeFunc
	post   func(pix []byte) // whole-buffer pass after decode
}

var formats = [...]formatInfo{
	FormatDXT1:          {name: "DXT1", size: sizeBlock8, decode: decodeDXT1},
	FormatDXT2:          {name: "DXT2", size: sizeBlock16, decode: decodeDXT3, post: unpremultiply},
	FormatDXT3:          {name: "DXT3", size: sizeBlock16, decode: decodeDXT3},
	FormatDXT4:          {name: "DXT4", size: sizeBlock16, decode: decodeDXT5, post: unpremultiply},
	FormatDXT5:          {name: "DXT5", size: sizeBlock16, decode: decodeDXT5},
	FormatATI1:          {name: "ATI1", size: sizeBlock8, decode: decodeATI1},
	FormatATI2:          {name: "ATI2", size: sizeBlock16, decode: decodeATI2},
	FormatRXGB:          {name: "RXGB", size: sizeBlock16, decode: decodeDXT5, post: swapRedAlpha},
	FormatRGB:           {name: "RGB", size: sizePerPixel, decode: decodeRGB},
	FormatLuminance:     {name: "LUMINANCE", size: sizePerPixel, decode: decodeLuminance},
	FormatAlpha:         {name: "ALPHA", size: sizePerPixel, decode: decodeAlpha},
	FormatA1:            {name: "A1", size: sizeBitPlane, decode: decodeA1},
	FormatR8G8B8G8:      {name: "R8G8_B8G8", size: sizeMacroPixel, decode: decodeR8G8B8G8},
	FormatG8R8G8B8:      {name: "G8R8_G8B8", size: sizeMacroPixel, decode: decodeG8R8G8B8},
	FormatR16F:          {name: "R16F", size: sizePerPixel, bpp: 2, decode: floatDecoder(scalarHalf, 1)},
	FormatG16R16F:       {name: "G16R16F", size: sizePerPixel, bpp: 4, decode: floatDecoder(scalarHalf, 2)},
	FormatA16B16G16R16F: {name: "A16B16G16R16F", size: sizePerPixel, bpp: 8, decode: floatDecoder(scalarHalf, 4)},
	FormatR32F:          {name: "R32F", size: sizePerPixel, bpp: 4, decode: floatDecoder(scalarFloat, 1)},
	FormatG32R32F:       {name: "G32R32F", size: sizePerPixel, bpp: 8, decode: floatDecoder(scalarFloat, 2)},
	FormatA32B32G32R32F: {name: "A32B32G32R32F", size: sizePerPixel, bpp: 16, decode: floatDecoder(scalarFloat, 4)},
	FormatA16B16G16R16:  {name: "A16B16G16R16", size: sizePerPixel, bpp: 8, decode: floatDecoder(scalarUnorm16, 4)},
}

func (f Format) String() string {
	if int(f) < len(formats) && formats[f].name != "" {
		return formats[f].name
	}

	return "UNKNOWN"
}

// family is the pixel-format flag group that selects how the dispatch code
// is interpreted.
type family uint8

const (
	familyNone family = iota
	familyFourCC
	familyRGB
	familyLuminance
	familyAlpha
	familyDX10
)

// dispatchKey is (family, code): code is a FourCC or D3DFMT value for
// familyFourCC, a DXGI format for familyDX10 and the bit count (the mask
// layout shape) for the bitmask families.
type dispatchKey struct {
	family family
	code   uint32
}

// layout is a classified surface encoding. pf carries the channel masks the
// bitmask unpackers read; DX10 packed formats get synthesized masks.
type layout struct {
	format Format
	pf     PixelFormat
}

var dispatch = map[dispatchKey]Format{
	{familyFourCC, FourCC('D', 'X', 'T', '1')}: FormatDXT1,
	{familyFourCC, FourCC('D', 'X', 'T', '2')}: FormatDXT2,
	{familyFourCC, FourCC('D', 'X', 'T', '3')}: FormatDXT3,
	{familyFourCC, FourCC('D', 'X', 'T', '4')}: FormatDXT4,
	{familyFourCC, FourCC('D', 'X', 'T', '5')}: FormatDXT5,
	{familyFourCC, FourCC('A', 'T', 'I', '1')}: FormatATI1,
	{familyFourCC, FourCC('B', 'C', '4', 'U')}: FormatATI1,
	{familyFourCC, FourCC('A', 'T', 'I', '2')}: FormatATI2,
	{familyFourCC, FourCC('B', 'C', '5', 'U')}: FormatATI2,
	{familyFourCC, FourCC('R', 'X', 'G', 'B')}: FormatRXGB,
	{familyFourCC, FourCC('R', 'G', 'B', 'G')}: FormatR8G8B8G8,
	{familyFourCC, FourCC('G', 'R', 'G', 'B')}: FormatG8R8G8B8,
	{familyFourCC, d3dfmtA16B16G16R16}:         FormatA16B16G16R16,
	{familyFourCC, d3dfmtQ16W16V16U16}:         FormatA16B16G16R16,
	{familyFourCC, d3dfmtR16F}:                 FormatR16F,
	{familyFourCC, d3dfmtG16R16F}:              FormatG16R16F,
	{familyFourCC, d3dfmtA16B16G16R16F}:        FormatA16B16G16R16F,
	{familyFourCC, d3dfmtR32F}:                 FormatR32F,
	{familyFourCC, d3dfmtG32R32F}:              FormatG32R32F,
	{familyFourCC, d3dfmtA32B32G32R32F}:        FormatA32B32G32R32F,
	{familyFourCC, d3dfmtA1}:                   FormatA1,

	{familyRGB, 8}:        FormatRGB,
	{familyRGB, 16}:       FormatRGB,
	{familyRGB, 24}:       FormatRGB,
	{familyRGB, 32}:       FormatRGB,
	{familyLuminance, 8}:  FormatLuminance,
	{familyLuminance, 16}: FormatLuminance,
	{familyAlpha, 8}:      FormatAlpha,
	{familyAlpha, 16}:     FormatAlpha,
}

// masked builds a bitmask pixel format for DXGI formats that map onto the
// generic unpacker.
func masked(bitCount, r, g, b, a uint32) PixelFormat {
	pf := PixelFormat{
		Size:        PixelFormatSize,
		Flags:       DDPFRGB,
		RGBBitCount: bitCount,
		RBitMask:    r,
		GBitMask:    g,
		BBitMask:    b,
		ABitMask:    a,
	}
	if a != 0 {
		pf.Flags |= DDPFAlphaPixels
	}

	return pf
}

var dxgiFormats = map[uint32]layout{
	2:   {format: FormatA32B32G32R32F},
	10:  {format: FormatA16B16G16R16F},
	11:  {format: FormatA16B16G16R16},
	16:  {format: FormatG32R32F},
	24:  {format: FormatRGB, pf: masked(32, 0x000003ff, 0x000ffc00, 0x3ff00000, 0xc0000000)},
	28:  {format: FormatRGB, pf: masked(32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000)},
	29:  {format: FormatRGB, pf: masked(32, 0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000)},
	34:  {format: FormatG16R16F},
	41:  {format: FormatR32F},
	54:  {format: FormatR16F},
	61:  {format: FormatRGB, pf: masked(8, 0xff, 0, 0, 0)},
	65:  {format: FormatAlpha, pf: PixelFormat{Size: PixelFormatSize, Flags: DDPFAlpha, RGBBitCount: 8, ABitMask: 0xff}},
	68:  {format: FormatR8G8B8G8},
	69:  {format: FormatG8R8G8B8},
	71:  {format: FormatDXT1},
	72:  {format: FormatDXT1},
	74:  {format: FormatDXT3},
	75:  {format: FormatDXT3},
	77:  {format: FormatDXT5},
	78:  {format: FormatDXT5},
	80:  {format: FormatATI1},
	83:  {format: FormatATI2},
	85:  {format: FormatRGB, pf: masked(16, 0xf800, 0x07e0, 0x001f, 0)},
	86:  {format: FormatRGB, pf: masked(16, 0x7c00, 0x03e0, 0x001f, 0x8000)},
	87:  {format: FormatRGB, pf: masked(32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0xff000000)},
	88:  {format: FormatRGB, pf: masked(32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0)},
	91:  {format: FormatRGB, pf: masked(32, 0x00ff0000, 0x0000ff00, 0x000000ff, 0xff000000)},
	115: {format: FormatRGB, pf: masked(16, 0x0f00, 0x00f0, 0x000f, 0xf000)},
}

// familyOf groups the pixel format flags. FourCC wins over the bitmask
// flags; palette and YUV surfaces have no family.
func familyOf(pf PixelFormat) family {
	switch {
	case pf.Flags&DDPFFourCC != 0 && pf.FourCC == fourCCDX10:
		return familyDX10
	case pf.Flags&DDPFFourCC != 0:
		return familyFourCC
	case pf.Flags&(ddpfPaletteMask|DDPFYUV) != 0:
		return familyNone
	case pf.Flags&DDPFRGB != 0:
		return familyRGB
	case pf.Flags&DDPFLuminance != 0:
		return familyLuminance
	case pf.Flags&DDPFAlpha != 0:
		return familyAlpha
	default:
		return familyNone
	}
}

// classify selects the decoder for h.
func (h *Header) classify() (layout, error) {
	pf := h.PixelFormat
	fam := familyOf(pf)
	if fam == familyNone && h.DX10 != nil {
		fam = familyDX10
	}

	switch fam {
	case familyDX10:
		ext := h.Extension()
		l, ok := dxgiFormats[ext.DXGIFormat]
		if !ok {
			return layout{}, fmt.Errorf("%w: DXGI format %d", ErrUnsupportedFormat, ext.DXGIFormat)
		}
		return l, nil
	case familyFourCC:
		f, ok := dispatch[dispatchKey{fam, pf.FourCC}]
		if !ok {
			return layout{}, fmt.Errorf("%w: FourCC %s", ErrUnsupportedFormat, fourCCString(pf.FourCC))
		}
		return layout{format: f, pf: pf}, nil
	case familyNone:
		return layout{}, fmt.Errorf("%w: pixel format flags 0x%x", ErrUnsupportedFormat, pf.Flags)
	default:
		f, ok := dispatch[dispatchKey{fam, pf.RGBBitCount}]
		if !ok {
			return layout{}, fmt.Errorf("%w: %d-bit flags 0x%x", ErrUnsupportedFormat, pf.RGBBitCount, pf.Flags)
		}
		return layout{format: f, pf: pf}, nil
	}
}

// Format classifies the header's pixel encoding.
func (h *Header) Format() (Format, error) {
	l, err := h.classify()
	if err != nil {
		return FormatUnknown, err
	}

	return l.format, nil
}

// surface is the decode geometry handed to every decodeFunc.
type surface struct {
	width, height, depth int
	pf                   PixelFormat
}

func (s *surface) pixels() int {
	return s.width * s.height * s.depth
}

// payloadSize applies the format's size formula. Zero means the surface has
// nothing to decode.
func (info *formatInfo) payloadSize(s *surface) (int, error) {
	w, h, d := s.width, s.height, s.depth
	switch info.size {
	case sizeBlock8:
		return mulSize((w+3)/4, (h+3)/4, d, 8)
	case sizeBlock16:
		return mulSize((w+3)/4, (h+3)/4, d, 16)
	case sizeBitPlane:
		return mulSize((w+7)/8, h, d)
	case sizeMacroPixel:
		return mulSize((w+1)/2, 4, h, d)
	case sizePerPixel:
		bpp := info.bpp
		if bpp == 0 {
			bpp = int(s.pf.RGBBitCount / 8)
		}
		return mulSize(w, h, d, bpp)
	default:
		return 0, nil
	}
}

// plan is a fully classified decode: what to run and how much to read.
type plan struct {
	info        *formatInfo
	format      Format
	surface     surface
	payloadSize int
}

func (h *Header) plan() (*plan, error) {
	l, err := h.classify()
	if err != nil {
		return nil, err
	}

	w, hh, d, _ := h.Dimensions()
	p := &plan{
		info:    &formats[l.format],
		format:  l.format,
		surface: surface{width: w, height: hh, depth: d, pf: l.pf},
	}

	size, err := p.info.payloadSize(&p.surface)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: %s payload for %dx%dx%d is empty", ErrUnsupportedFormat, l.format, w, hh, d)
	}
	p.payloadSize = size

	return p, nil
}

// PayloadSize returns the byte size of the base level payload.
func (h *Header) PayloadSize() (int, error) {
	p, err := h.plan()
	if err != nil {
		return 0, err
	}

	return p.payloadSize, nil
}
