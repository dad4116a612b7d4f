// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package edds

import "math"

// fieldInt is a fixed-width integer stored in the header or block table.
type fieldInt interface {
	~int32 | ~uint32
}

// narrow converts n to a header or table field, failing with ErrSizeOverflow
// when it is negative or above limit.
func narrow[T fieldInt](n int, limit uint64) (T, error) {
	if n < 0 || uint64(n) > limit {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return T(n), nil
}

// i32FromInt converts a block size.
func i32FromInt(n int) (int32, error) { return narrow[int32](n, math.MaxInt32) }

// u32FromInt converts a header dimension or linear size.
func u32FromInt(n int) (uint32, error) { return narrow[uint32](n, math.MaxUint32) }
