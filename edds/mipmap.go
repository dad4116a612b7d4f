// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package edds

import (
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/dds"
)

// maxMipLevels is the deepest chain Enfusion loads.
const maxMipLevels = 11

// calculateMipMapCount returns the full chain length for width x height,
// capped at maxMipLevels.
func calculateMipMapCount(width, height int) (int, error) {
	if _, err := u32FromInt(width); err != nil {
		return 0, err
	}
	if _, err := u32FromInt(height); err != nil {
		return 0, err
	}

	count := 1
	for w, h := width, height; w > 1 || h > 1; count++ {
		w, h = max(w/2, 1), max(h/2, 1)
	}

	return min(count, maxMipLevels), nil
}

// mipDimension returns base halved level times, never below 1.
func mipDimension(base, level int) int {
	return max(base>>level, 1)
}

// encodeLevels builds the mip chain of img, largest first, and encodes every
// level as format.
func encodeLevels(img image.Image, format bcn.Format, maxMipMaps int, encOpts *bcn.EncodeOptions) ([][]byte, error) {
	b := img.Bounds()
	count, err := calculateMipMapCount(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	if maxMipMaps > 0 {
		count = min(count, maxMipMaps)
	}

	mips := bcn.GenerateMipmaps(img, false)
	if len(mips) > count {
		mips = mips[:count]
	}

	levels := make([][]byte, len(mips))
	for i, mip := range mips {
		if format == bcn.FormatBGRA8 {
			levels[i] = dds.AppendBGRA(nil, mip)
			continue
		}

		data, _, _, err := bcn.EncodeImageWithOptions(mip, format, encOpts)
		if err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %v", ErrCompressMipmap, i, err)
		}
		levels[i] = data
	}

	return levels, nil
}
