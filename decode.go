// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
)

func init() {
	image.RegisterFormat("dds", Magic, Decode, DecodeConfig)
}

// DefaultMaxBufferSize caps a single payload or output buffer when
// DecodeOptions does not set a limit.
const DefaultMaxBufferSize = 1 << 30

// Image is a decoded base mip level: 8-bit non-premultiplied RGBA, rows
// top to bottom, depth slices concatenated.
type Image struct {
	Pix    []byte
	Width  int
	Height int
	Depth  int
}

// NRGBA views the pixels as an image with depth slices stacked vertically.
// The pixel memory is shared.
func (m *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    m.Pix,
		Stride: m.Width * 4,
		Rect:   image.Rect(0, 0, m.Width, m.Height*m.Depth),
	}
}

// DecodeOptions configures decoding. The zero value is valid.
type DecodeOptions struct {
	// MaxBufferSize bounds the payload and the output buffer in bytes.
	// Zero means DefaultMaxBufferSize.
	MaxBufferSize int
}

func (o *DecodeOptions) maxBufferSize() int {
	if o == nil || o.MaxBufferSize <= 0 {
		return DefaultMaxBufferSize
	}

	return o.MaxBufferSize
}

// DecodeImage reads a DDS stream and decodes its base level.
func DecodeImage(r io.Reader) (*Image, error) {
	return DecodeImageWithOptions(r, nil)
}

// DecodeImageWithOptions reads a DDS stream and decodes its base level.
// Nil opts uses defaults. Mip levels after the first are left unread.
func DecodeImageWithOptions(r io.Reader, opts *DecodeOptions) (*Image, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	p, err := h.plan()
	if err != nil {
		return nil, err
	}
	if err := checkBuffer("payload", p.payloadSize, opts); err != nil {
		return nil, err
	}

	payload := make([]byte, p.payloadSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPayloadRead, p.format, err)
	}

	return p.decode(payload, opts)
}

// DecodePayload decodes a base level payload that was read separately from
// its header, as container formats do.
func DecodePayload(h *Header, payload []byte) (*Image, error) {
	return DecodePayloadWithOptions(h, payload, nil)
}

// DecodePayloadWithOptions is DecodePayload with options.
func DecodePayloadWithOptions(h *Header, payload []byte, opts *DecodeOptions) (*Image, error) {
	p, err := h.plan()
	if err != nil {
		return nil, err
	}
	if len(payload) < p.payloadSize {
		return nil, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrPayloadRead, p.format, p.payloadSize, len(payload))
	}

	return p.decode(payload[:p.payloadSize], opts)
}

func (p *plan) decode(payload []byte, opts *DecodeOptions) (*Image, error) {
	s := &p.surface
	outSize, err := mulSize(s.width, s.height, s.depth, 4)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	if err := checkBuffer("output", outSize, opts); err != nil {
		return nil, err
	}

	pix := make([]byte, outSize)
	p.info.decode(pix, payload, s)
	if p.info.post != nil {
		p.info.post(pix)
	}

	Logger().Debug("dds decoded",
		"format", p.format.String(), "width", s.width, "height", s.height,
		"depth", s.depth, "payload", p.payloadSize)

	return &Image{Pix: pix, Width: s.width, Height: s.height, Depth: s.depth}, nil
}

func checkBuffer(what string, size int, opts *DecodeOptions) error {
	if limit := opts.maxBufferSize(); size > limit {
		return fmt.Errorf("%w: %s of %d bytes exceeds limit %d", ErrAllocation, what, size, limit)
	}

	return nil
}

// Decode reads a DDS image from r as an *image.NRGBA.
func Decode(r io.Reader) (image.Image, error) {
	m, err := DecodeImage(r)
	if err != nil {
		return nil, err
	}

	return m.NRGBA(), nil
}

// DecodeConfig reads a DDS image configuration from r. Unsupported formats
// are reported here, before any payload is read.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	if _, err := h.Format(); err != nil {
		return image.Config{}, err
	}

	w, hh, d, _ := h.Dimensions()

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      w,
		Height:     hh * d,
	}, nil
}

// ReadConfig reads DDS file configuration without decoding image data.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeConfig(f)
}

// Read reads and decodes a DDS file.
func Read(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeImage(f)
}
