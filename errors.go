// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import "errors"

var (
	// ErrMalformedHeader indicates a bad magic or a header size other than 124.
	ErrMalformedHeader = errors.New("dds: malformed DDS header")
	// ErrUnsupportedFormat indicates a FourCC or bitmask layout outside the dispatch table.
	ErrUnsupportedFormat = errors.New("dds: unsupported format")
	// ErrAllocation indicates a buffer that cannot be allocated within limits.
	ErrAllocation = errors.New("dds: buffer allocation failed")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("dds: size overflow")
	// ErrHeaderRead indicates DDS header read failed.
	ErrHeaderRead = errors.New("dds: reading DDS header failed")
	// ErrDX10Read indicates DDS DX10 header read failed.
	ErrDX10Read = errors.New("dds: reading DDS DX10 header failed")
	// ErrPayloadRead indicates the pixel payload is missing or short.
	ErrPayloadRead = errors.New("dds: reading payload failed")
	// ErrInvalidImage indicates an image that cannot be encoded.
	ErrInvalidImage = errors.New("dds: invalid image")
	// ErrOpenFile indicates DDS file open failed.
	ErrOpenFile = errors.New("dds: open file failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("dds: create file failed")
	// ErrWriteHeader indicates DDS header write failed.
	ErrWriteHeader = errors.New("dds: writing DDS header failed")
	// ErrWritePayload indicates pixel payload write failed.
	ErrWritePayload = errors.New("dds: writing payload failed")
)
