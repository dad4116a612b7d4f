// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package edds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 chunk-stream block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the uncompressed size of one LZ4 chunk and of the
	// rolling dictionary.
	ChunkSize = 64 * 1024

	// chunkLast is set in the flags byte of the final chunk.
	chunkLast = 0x80
	// maxChunk is the largest compressed chunk a 3-byte size can hold.
	maxChunk = 1<<24 - 1
	// minCompress is the smallest payload worth an LZ4 attempt.
	minCompress = 1024
	// maxRatio is the compressed/raw ratio above which COPY is stored.
	maxRatio = 0.85
	// maxTableEntries bounds the mip count read from a header.
	maxTableEntries = 32
)

// Block is one mip level body as stored on disk. For LZ4 blocks Body holds
// the int32 uncompressed size followed by the chunk stream.
type Block struct {
	Magic string
	Body  []byte
}

// encodeBlock stores raw as LZ4 when that saves enough space and as COPY
// otherwise.
func encodeBlock(raw []byte, compress bool) (*Block, error) {
	if _, err := i32FromInt(len(raw)); err != nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(raw))
	}
	if !compress || len(raw) < minCompress {
		return &Block{Magic: BlockMagicCOPY, Body: raw}, nil
	}

	body, ok, err := compressChunks(raw)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Block{Magic: BlockMagicCOPY, Body: raw}, nil
	}

	return &Block{Magic: BlockMagicLZ4, Body: body}, nil
}

// compressChunks builds an LZ4 block body. ok is false when any chunk or the
// whole stream fails the ratio test.
func compressChunks(raw []byte) (body []byte, ok bool, err error) {
	var out bytes.Buffer
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(raw))) // #nosec G115 -- checked by encodeBlock.
	out.Write(size[:])

	scratch := make([]byte, lz4.CompressBlockBound(ChunkSize))
	for off := 0; off < len(raw); off += ChunkSize {
		chunk := raw[off:min(off+ChunkSize, len(raw))]

		n, err := lz4.CompressBlockHC(chunk, scratch, 0, nil, nil)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if n == 0 || float64(n) > float64(len(chunk))*maxRatio {
			return nil, false, nil
		}
		if n > maxChunk {
			return nil, false, fmt.Errorf("%w: %d", ErrChunkTooLarge, n)
		}

		var flags byte
		if off+len(chunk) == len(raw) {
			flags = chunkLast
		}
		out.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), flags})
		out.Write(scratch[:n])
	}

	if _, err := i32FromInt(out.Len()); err != nil {
		return nil, false, fmt.Errorf("%w: %d bytes", ErrCompressedDataTooLarge, out.Len())
	}
	if float64(out.Len()) > float64(len(raw))*maxRatio {
		return nil, false, nil
	}

	return out.Bytes(), true, nil
}

// decodeBlock returns exactly want bytes of raw level data.
func decodeBlock(b *Block, want int) ([]byte, error) {
	switch b.Magic {
	case BlockMagicCOPY:
		if len(b.Body) != want {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, want, len(b.Body))
		}
		return b.Body, nil
	case BlockMagicLZ4:
		return decompressChunks(stripSizePrefix(b.Body, want), want)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, b.Magic)
	}
}

// stripSizePrefix drops the int32 uncompressed size in front of the chunk
// stream. Legacy blobs start directly with a chunk header.
func stripSizePrefix(body []byte, want int) []byte {
	if len(body) < 8 {
		return body
	}
	if int(binary.LittleEndian.Uint32(body)) != want {
		return body
	}
	if first := int(body[4]) | int(body[5])<<8 | int(body[6])<<16; first == 0 || first >= 1<<20 {
		return body
	}

	return body[4:]
}

// decompressChunks inflates an LZ4 chunk stream. Each chunk may reference
// the previous ChunkSize bytes of output.
func decompressChunks(stream []byte, want int) ([]byte, error) {
	if want <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTargetSize, want)
	}

	out := make([]byte, want)
	n := 0
	for {
		if len(stream) < 4 {
			return nil, fmt.Errorf("%w: need 4 bytes header, have %d", ErrChunkStreamTruncated, len(stream))
		}

		size := int(stream[0]) | int(stream[1])<<8 | int(stream[2])<<16
		flags := stream[3]
		stream = stream[4:]
		if flags&^chunkLast != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if size == 0 || size > len(stream) {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, size, len(stream))
		}
		if n == want {
			return nil, ErrDecodeOverrun
		}

		dict := out[max(0, n-ChunkSize):n]
		dst := out[n:min(n+ChunkSize, want)]
		m, err := lz4.UncompressBlockWithDict(stream[:size], dst, dict)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		n += m
		stream = stream[size:]

		if flags&chunkLast != 0 {
			break
		}
	}

	if n != want {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, want, n)
	}
	if len(stream) != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, len(stream))
	}

	return out, nil
}

// tableEntry is one block table record.
type tableEntry struct {
	Magic string
	Size  int
}

// readBlockTable reads count entries, smallest mip first.
func readBlockTable(r io.Reader, count int) ([]tableEntry, error) {
	if count < 1 || count > maxTableEntries {
		return nil, fmt.Errorf("%w: %d entries", ErrBlockTableRead, count)
	}

	table := make([]tableEntry, count)
	var rec [8]byte
	for i := range table {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableRead, i, err)
		}

		magic := string(rec[:4])
		size := int32(binary.LittleEndian.Uint32(rec[4:])) // #nosec G115 -- on-disk int32.
		if magic != BlockMagicCOPY && magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: %d: %q", ErrBlockTableUnknownMagic, i, magic)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: %d: %d", ErrBlockTableInvalidSize, i, size)
		}

		table[i] = tableEntry{Magic: magic, Size: int(size)}
	}

	return table, nil
}

// writeBlocks writes the table and then the bodies, both smallest mip first.
// blocks is ordered largest first.
func writeBlocks(w io.Writer, blocks []*Block) error {
	var rec [8]byte
	for i := len(blocks) - 1; i >= 0; i-- {
		size, err := i32FromInt(len(blocks[i].Body))
		if err != nil {
			return err
		}
		copy(rec[:4], blocks[i].Magic)
		binary.LittleEndian.PutUint32(rec[4:], uint32(size)) // #nosec G115 -- non-negative int32.
		if _, err := w.Write(rec[:]); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockTable, i, err)
		}
	}

	for i := len(blocks) - 1; i >= 0; i-- {
		if _, err := w.Write(blocks[i].Body); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockData, i, err)
		}
	}

	return nil
}
