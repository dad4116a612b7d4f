// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package edds

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/dds"
)

// WriteOptions configures EDDS writing. Nil options write BGRA8 with a full
// LZ4-compressed mip chain.
type WriteOptions struct {
	// EncodeOptions are passed to the BCn encoder.
	EncodeOptions *bcn.EncodeOptions
	// Format is the level encoding. FormatUnknown selects BGRA8.
	Format bcn.Format
	// MaxMipMaps limits the chain length; 0 means the full chain.
	MaxMipMaps int
	// Compress stores LZ4 blocks where they pay off; false stores COPY only.
	Compress bool
}

func defaultWriteOptions() *WriteOptions {
	return &WriteOptions{Format: bcn.FormatBGRA8, Compress: true}
}

// Write writes an EDDS file with a full BGRA8 mip chain.
func Write(img image.Image, path string) error {
	return WriteWithOptions(img, path, nil)
}

// WriteWithOptions writes an EDDS file using opts.
func WriteWithOptions(img image.Image, path string, opts *WriteOptions) error {
	return createFile(path, func(w io.Writer) error {
		return Encode(w, img, opts)
	})
}

// Encode writes img to w as EDDS.
func Encode(w io.Writer, img image.Image, opts *WriteOptions) error {
	if opts == nil {
		opts = defaultWriteOptions()
	}
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("%w: empty image", dds.ErrInvalidImage)
	}

	format := opts.Format
	if format == bcn.FormatUnknown {
		format = bcn.FormatBGRA8
	}

	levels, err := encodeLevels(img, format, opts.MaxMipMaps, opts.EncodeOptions)
	if err != nil {
		return err
	}

	b := img.Bounds()
	return encodeBlocks(w, format, b.Dx(), b.Dy(), levels, opts.Compress)
}

// WriteFromBlocks writes an EDDS file from pre-encoded mip payloads ordered
// largest first, compressing blocks with LZ4.
func WriteFromBlocks(path string, format bcn.Format, width, height int, mipmaps [][]byte) error {
	return WriteFromBlocksWithCompression(path, format, width, height, mipmaps, true)
}

// WriteFromBlocksWithCompression writes an EDDS file from pre-encoded mip
// payloads ordered largest first. compress=false stores COPY blocks.
func WriteFromBlocksWithCompression(path string, format bcn.Format, width, height int, mipmaps [][]byte, compress bool) error {
	if err := validateBlocks(format, mipmaps); err != nil {
		return err
	}

	return createFile(path, func(w io.Writer) error {
		return encodeBlocks(w, format, width, height, mipmaps, compress)
	})
}

func validateBlocks(format bcn.Format, mipmaps [][]byte) error {
	if len(mipmaps) == 0 {
		return ErrEmptyMipmaps
	}
	if format == bcn.FormatUnknown {
		return ErrInvalidFormat
	}

	return nil
}

// encodeBlocks checks every level against its expected size, then writes
// the header, the block table and the bodies.
func encodeBlocks(w io.Writer, format bcn.Format, width, height int, mipmaps [][]byte, compress bool) error {
	if err := validateBlocks(format, mipmaps); err != nil {
		return err
	}

	w32, err := u32FromInt(width)
	if err != nil {
		return err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return err
	}
	mip32, err := u32FromInt(len(mipmaps))
	if err != nil {
		return err
	}

	h, err := newHeader(w32, h32, mip32, format)
	if err != nil {
		return err
	}

	blocks := make([]*Block, len(mipmaps))
	for i, mip := range mipmaps {
		want, err := levelSize(h, i)
		if err != nil {
			return err
		}
		if len(mip) != want {
			return fmt.Errorf("%w: mipmap %d: expected %d, got %d", ErrMipmapSizeMismatch, i, want, len(mip))
		}

		if blocks[i], err = encodeBlock(mip, compress); err != nil {
			return fmt.Errorf("%w: mipmap %d: %w", ErrCompressMipmap, i, err)
		}

		dds.Logger().Debug("edds block",
			"level", i, "magic", blocks[i].Magic, "raw", len(mip), "stored", len(blocks[i].Body))
	}

	if err := dds.WriteHeader(w, h); err != nil {
		return err
	}

	return writeBlocks(w, blocks)
}

// createFile runs write against a buffered file at path.
func createFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %v", ErrWriteBlockData, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteBlockData, err)
	}

	return nil
}
