// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package edds

import "errors"

var (
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("edds: size overflow")
	// ErrInvalidFormat indicates a level encoding EDDS cannot store.
	ErrInvalidFormat = errors.New("edds: invalid format")
	// ErrUnknownFormat indicates a header the DDS decoder cannot classify.
	ErrUnknownFormat = errors.New("edds: unknown format")
	// ErrEmptyMipmaps indicates missing mipmap data.
	ErrEmptyMipmaps = errors.New("edds: empty mipmaps")
	// ErrMipmapSizeMismatch indicates mipmap payload size mismatch.
	ErrMipmapSizeMismatch = errors.New("edds: mipmap size mismatch")
	// ErrCompressMipmap indicates mipmap encoding or compression failed.
	ErrCompressMipmap = errors.New("edds: compress mipmap failed")

	// ErrInputTooLarge indicates a level too large for an int32 block size.
	ErrInputTooLarge = errors.New("edds: input data too large")
	// ErrCompressedDataTooLarge indicates compressed payload exceeds limits.
	ErrCompressedDataTooLarge = errors.New("edds: compressed data too large")
	// ErrChunkTooLarge indicates a compressed chunk exceeds allowed size.
	ErrChunkTooLarge = errors.New("edds: compressed chunk too large")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("edds: LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("edds: LZ4 decode failed")
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("edds: COPY block size mismatch")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("edds: unknown block magic")
	// ErrInvalidTargetSize indicates invalid decoded target size.
	ErrInvalidTargetSize = errors.New("edds: invalid target size")
	// ErrChunkStreamTruncated indicates LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("edds: LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = errors.New("edds: unknown LZ4 flags")
	// ErrInvalidChunkSize indicates invalid LZ4 chunk size.
	ErrInvalidChunkSize = errors.New("edds: invalid compressed chunk size")
	// ErrDecodeOverrun indicates chunks continue past the target size.
	ErrDecodeOverrun = errors.New("edds: decoded LZ4 overruns target buffer")
	// ErrDecodedSizeMismatch indicates decoded size mismatch.
	ErrDecodedSizeMismatch = errors.New("edds: LZ4 decoded size mismatch")
	// ErrBlockLengthMismatch indicates leftover bytes after decode.
	ErrBlockLengthMismatch = errors.New("edds: LZ4 block length mismatch")

	// ErrBlockTableRead indicates a block table record read failed.
	ErrBlockTableRead = errors.New("edds: reading block table failed")
	// ErrBlockTableUnknownMagic indicates unknown block magic in table.
	ErrBlockTableUnknownMagic = errors.New("edds: unknown block magic in table")
	// ErrBlockTableInvalidSize indicates invalid size in block table.
	ErrBlockTableInvalidSize = errors.New("edds: invalid block size in table")
	// ErrReadBlockTable indicates the block table could not be used.
	ErrReadBlockTable = errors.New("edds: read block table failed")
	// ErrSkipBlockBody indicates skipping block body failed.
	ErrSkipBlockBody = errors.New("edds: skip block body failed")
	// ErrReadBlockBody indicates block body read failed.
	ErrReadBlockBody = errors.New("edds: read block body failed")
	// ErrDecompressBlock indicates block decompression failed.
	ErrDecompressBlock = errors.New("edds: decompress block failed")
	// ErrSeekDataStart indicates seek to data start failed.
	ErrSeekDataStart = errors.New("edds: seek to data start failed")
	// ErrReadRemainingData indicates reading remaining data failed.
	ErrReadRemainingData = errors.New("edds: reading remaining data failed")
	// ErrParseSingleBlock indicates failure parsing legacy single block.
	ErrParseSingleBlock = errors.New("edds: failed to parse single block")
	// ErrDecodeImage indicates pixel decode failed.
	ErrDecodeImage = errors.New("edds: decode image failed")

	// ErrOpenFile indicates EDDS file open failed.
	ErrOpenFile = errors.New("edds: open file failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("edds: create file failed")
	// ErrWriteBlockTable indicates block table write failed.
	ErrWriteBlockTable = errors.New("edds: writing block table failed")
	// ErrWriteBlockData indicates block data write failed.
	ErrWriteBlockData = errors.New("edds: writing block data failed")
)
