// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import "math"

const maxUint32 = uint64(^uint32(0))

// u32FromInt converts an int to a uint32.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}

// mulSize multiplies buffer dimensions, returning 0 when any factor is not
// positive and ErrSizeOverflow when the product does not fit in an int.
func mulSize(factors ...int) (int, error) {
	n := 1
	for _, f := range factors {
		if f <= 0 {
			return 0, nil
		}
		if n > math.MaxInt/f {
			return 0, ErrSizeOverflow
		}
		n *= f
	}

	return n, nil
}
