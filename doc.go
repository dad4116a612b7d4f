// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

/*
Package dds implements a DirectDraw Surface (DDS) texture codec.

The decoder reads the 124-byte header (plus the optional DX10 extension),
classifies the pixel format through a dispatch table and expands the base
mip level into a flat 8-bit RGBA buffer. Supported encodings:

  - S3TC/BCn blocks: DXT1-DXT5, ATI1 (BC4), ATI2 (BC5/3Dc) and RXGB
  - packed integer RGB(A), luminance, alpha-only and 1-bit monochrome
  - R8G8_B8G8 and G8R8_G8B8 macro-pixels
  - half and single float channels, 16-bit normalized RGBA

The encoder writes a single layout: uncompressed 32-bit A8R8G8B8.

Importing the package registers the "dds" format with the image package:

	import _ "github.com/woozymasta/dds"
*/
package dds
