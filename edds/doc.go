// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

/*
Package edds reads and writes Arma/DayZ EDDS (Enfusion DDS) containers.

An EDDS file is a DDS header (marked "ENF1" in Reserved1[1]) followed by a
block table and block bodies, one per mip level, smallest level first. Each
block is stored raw (COPY) or LZ4 compressed as an Enfusion chunk stream
whose chunks may reference the previous 64 KiB of output.

Reading decodes the largest level through the dds package, so every format
dds understands can be read. Writing produces BGRA8 levels packed by
dds.AppendBGRA, or BCn levels encoded by github.com/woozymasta/bcn.
*/
package edds
