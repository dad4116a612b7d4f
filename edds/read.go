// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package edds

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/woozymasta/dds"
)

// ReadOptions configures EDDS reading.
type ReadOptions struct {
	// DecodeOptions bound the buffers used for the level payload and the
	// decoded pixels.
	DecodeOptions *dds.DecodeOptions
}

func (o *ReadOptions) decodeOptions() *dds.DecodeOptions {
	if o == nil {
		return nil
	}

	return o.DecodeOptions
}

// ReadConfig reads EDDS file configuration without decoding image data.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return dds.DecodeConfig(f)
}

// Read reads and decodes the largest mip level of an EDDS file.
func Read(path string) (image.Image, error) {
	return ReadWithOptions(path, nil)
}

// ReadWithOptions reads and decodes the largest mip level of an EDDS file.
// Nil opts uses defaults.
func ReadWithOptions(path string, opts *ReadOptions) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeWithOptions(f, opts)
}

// Decode decodes the largest mip level of an EDDS stream as *image.NRGBA.
func Decode(r io.ReadSeeker) (image.Image, error) {
	return DecodeWithOptions(r, nil)
}

// DecodeWithOptions is Decode with options.
func DecodeWithOptions(r io.ReadSeeker, opts *ReadOptions) (image.Image, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeekDataStart, err)
	}

	h, err := dds.ReadHeader(r)
	if err != nil {
		return nil, err
	}

	base := levelHeader(h, 0)
	size, err := levelSize(h, 0)
	if err != nil {
		return nil, err
	}
	limit := maxBufferSize(opts.decodeOptions())
	if size > limit {
		return nil, fmt.Errorf("%w: level 0 of %d bytes exceeds limit %d", dds.ErrAllocation, size, limit)
	}

	data, err := readLargestMip(r, mipMapCount(h), size, limit)
	if err != nil {
		dds.Logger().Debug("edds block table unreadable, trying single blob", "err", err)

		dataStart := start + 4 + dds.HeaderSize
		if h.DX10 != nil {
			dataStart += dds.HeaderDX10Size
		}
		data, err = readLegacySingleBlock(r, dataStart, size, limit)
		if err != nil {
			return nil, err
		}
	}

	img, err := dds.DecodePayloadWithOptions(base, data, opts.decodeOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeImage, err)
	}

	return img.NRGBA(), nil
}

// Probe reports whether r holds an EDDS file rather than a plain DDS: the
// header carries the ENF1 marker or is followed by a block table. The read
// offset is restored.
func Probe(r io.ReadSeeker) bool {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}
	defer func() { _, _ = r.Seek(pos, io.SeekStart) }()

	h, err := dds.ReadHeader(r)
	if err != nil {
		return false
	}
	if h.Reserved1[1] == enf1Marker {
		return true
	}

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return false
	}

	return string(magic[:]) == BlockMagicCOPY || string(magic[:]) == BlockMagicLZ4
}

func maxBufferSize(o *dds.DecodeOptions) int {
	if o == nil || o.MaxBufferSize <= 0 {
		return dds.DefaultMaxBufferSize
	}

	return o.MaxBufferSize
}

// readLargestMip reads the block table, skips every body but the last (the
// largest level) and decodes that one.
func readLargestMip(r io.ReadSeeker, count, size, limit int) ([]byte, error) {
	table, err := readBlockTable(r, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadBlockTable, err)
	}

	for i, e := range table[:count-1] {
		if _, err := r.Seek(int64(e.Size), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %v", ErrSkipBlockBody, i, err)
		}
	}

	last := table[count-1]
	if last.Size > limit {
		return nil, fmt.Errorf("%w: block of %d bytes exceeds limit %d", dds.ErrAllocation, last.Size, limit)
	}

	body := make([]byte, last.Size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadBlockBody, last.Magic, err)
	}

	dds.Logger().Debug("edds largest block", "blocks", count, "magic", last.Magic, "stored", last.Size, "raw", size)

	data, err := decodeBlock(&Block{Magic: last.Magic, Body: body}, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompressBlock, err)
	}

	return data, nil
}

// readLegacySingleBlock handles older files that store one payload blob
// after the header instead of a block table. The blob is tried as an LZ4
// chunk stream first and accepted raw when its size already matches.
func readLegacySingleBlock(r io.ReadSeeker, dataStart int64, size, limit int) ([]byte, error) {
	if _, err := r.Seek(dataStart, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeekDataStart, err)
	}

	blob, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadRemainingData, err)
	}
	if len(blob) > limit {
		return nil, fmt.Errorf("%w: blob exceeds limit %d", dds.ErrAllocation, limit)
	}

	data, err := decodeBlock(&Block{Magic: BlockMagicLZ4, Body: blob}, size)
	if err == nil {
		return data, nil
	}
	if len(blob) == size {
		return blob, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrParseSingleBlock, err)
}
