// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import (
	"encoding/binary"
	"io"
)

// reader is a little-endian field cursor with a sticky error: once a read
// fails every later read returns zero and err keeps the first failure.
type reader struct {
	r   io.Reader
	err error
	buf [4]byte
}

func (c *reader) u32() uint32 {
	if c.err != nil {
		return 0
	}
	if _, err := io.ReadFull(c.r, c.buf[:]); err != nil {
		c.err = err
		return 0
	}

	return binary.LittleEndian.Uint32(c.buf[:])
}

// writer mirrors reader for output.
type writer struct {
	w   io.Writer
	err error
	buf [4]byte
}

func (c *writer) u32(v uint32) {
	if c.err != nil {
		return
	}
	binary.LittleEndian.PutUint32(c.buf[:], v)
	_, c.err = c.w.Write(c.buf[:])
}

// loadLE reads an n-byte (1..4) little-endian integer from b.
func loadLE(b []byte, n int) uint32 {
	switch n {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(binary.LittleEndian.Uint16(b))
	case 3:
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	default:
		return binary.LittleEndian.Uint32(b)
	}
}
