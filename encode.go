// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// A8R8G8B8 channel masks written by the encoder.
const (
	maskR8 = 0x00ff0000
	maskG8 = 0x0000ff00
	maskB8 = 0x000000ff
	maskA8 = 0xff000000
)

// NewHeader builds an uncompressed A8R8G8B8 header for a single mip level.
// Depth above 1 marks a volume texture.
func NewHeader(width, height, depth uint32) *Header {
	h := &Header{
		Size:              HeaderSize,
		Flags:             DDSDCaps | DDSDHeight | DDSDWidth | DDSDPixelFormat | DDSDMipMapCount | DDSDLinearSize,
		Height:            height,
		Width:             width,
		PitchOrLinearSize: width * height * 4,
		MipMapCount:       1,
		PixelFormat: PixelFormat{
			Size:        PixelFormatSize,
			Flags:       DDPFRGB | DDPFAlphaPixels,
			RGBBitCount: 32,
			RBitMask:    maskR8,
			GBitMask:    maskG8,
			BBitMask:    maskB8,
			ABitMask:    maskA8,
		},
		Caps: DDSCapsTexture,
	}

	if depth > 1 {
		h.Flags |= DDSDDepth
		h.Depth = depth
		h.Caps |= DDSCapsComplex
		h.Caps2 |= DDSCaps2Volume
	}

	return h
}

// Encode writes img as an uncompressed A8R8G8B8 DDS. Decoding the output
// yields img again.
func Encode(w io.Writer, img *Image) error {
	if err := img.validate(); err != nil {
		return err
	}

	width, err := u32FromInt(img.Width)
	if err != nil {
		return fmt.Errorf("%w: width %d", ErrInvalidImage, img.Width)
	}
	height, err := u32FromInt(img.Height)
	if err != nil {
		return fmt.Errorf("%w: height %d", ErrInvalidImage, img.Height)
	}
	depth, err := u32FromInt(img.Depth)
	if err != nil {
		return fmt.Errorf("%w: depth %d", ErrInvalidImage, img.Depth)
	}

	h := NewHeader(width, height, depth)
	if err := WriteHeader(w, h); err != nil {
		return err
	}

	if _, err := w.Write(swizzle(make([]byte, 0, len(img.Pix)), img.Pix)); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePayload, err)
	}

	Logger().Debug("dds encoded", "width", img.Width, "height", img.Height, "depth", img.Depth)

	return nil
}

func (m *Image) validate() error {
	if m == nil || m.Pix == nil {
		return fmt.Errorf("%w: no pixels", ErrInvalidImage)
	}
	if m.Width <= 0 || m.Height <= 0 || m.Depth <= 0 {
		return fmt.Errorf("%w: dimensions %dx%dx%d", ErrInvalidImage, m.Width, m.Height, m.Depth)
	}

	n, err := mulSize(m.Width, m.Height, m.Depth, 4)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if len(m.Pix) != n {
		return fmt.Errorf("%w: have %d bytes, want %d", ErrInvalidImage, len(m.Pix), n)
	}

	return nil
}

// EncodeImage writes any image as a single-slice A8R8G8B8 DDS.
func EncodeImage(w io.Writer, m image.Image) error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}

	b := m.Bounds()
	img := &Image{Width: b.Dx(), Height: b.Dy(), Depth: 1}
	img.Pix = toNRGBA(m).Pix

	return Encode(w, img)
}

// AppendBGRA appends the pixels of m to dst as non-premultiplied BGRA rows,
// the byte layout of an A8R8G8B8 surface.
func AppendBGRA(dst []byte, m image.Image) []byte {
	return swizzle(dst, toNRGBA(m).Pix)
}

// toNRGBA returns m as a tightly packed NRGBA with its origin at (0,0).
func toNRGBA(m image.Image) *image.NRGBA {
	b := m.Bounds()
	if n, ok := m.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == b.Dx()*4 {
		return n
	}

	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), m, b.Min, draw.Src)

	return out
}

// swizzle appends RGBA pixels to dst with red and blue exchanged.
func swizzle(dst, rgba []byte) []byte {
	for i := 0; i+3 < len(rgba); i += 4 {
		dst = append(dst, rgba[i+2], rgba[i+1], rgba[i], rgba[i+3])
	}

	return dst
}

// Write encodes img to a DDS file at path.
func Write(path string, img *Image) (err error) {
	if err := img.validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %v", ErrWritePayload, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, img); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePayload, err)
	}

	return nil
}
