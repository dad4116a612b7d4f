// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

// ddsconv decodes, encodes and inspects DDS and EDDS texture files.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/woozymasta/bcn"
	"github.com/woozymasta/dds"
	"github.com/woozymasta/dds/edds"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

const usageStr = `ddsconv decodes, encodes and inspects DDS and EDDS texture files.

Usage: choose one of

    ddsconv -decode [flags] [path]
    ddsconv -encode [flags] [path]
    ddsconv -info [path]

The path to the input file is optional. If omitted, stdin is read. Input
compressed with zstd is detected and inflated automatically.

When decoding (DDS or EDDS input) you can also pass:

    -output=png (this is the default)
    -output=bmp
    -output=tiff
    -output=qoi

When encoding (BMP, DDS, GIF, JPEG, PNG, QOI, TIFF or WEBP input) you can
also pass:

    -output=dds (this is the default; uncompressed A8R8G8B8)
    -output=edds
    -format=bgra8|rgba8|dxt1|dxt3|dxt5|bc4|bc5 (EDDS level encoding)
    -mips=N (EDDS mip chain limit; 0 means the full chain)
    -nolz4 (EDDS blocks stored uncompressed)

Other flags:

    -o path   write to path instead of stdout
    -zstd     compress the output with zstd
    -v        log decoder details to stderr
`

var (
	// ErrBadOutputFlag indicates an -output value the mode does not support.
	ErrBadOutputFlag = errors.New("ddsconv: bad -output flag")
	// ErrBadFormatFlag indicates an unknown -format value.
	ErrBadFormatFlag = errors.New("ddsconv: bad -format flag")
	// ErrBadMode indicates zero or several of -decode, -encode and -info.
	ErrBadMode = errors.New("ddsconv: must specify exactly one of -decode, -encode, -info or -help")
	// ErrTooManyArgs indicates more than one input path.
	ErrTooManyArgs = errors.New("ddsconv: too many filenames; the maximum is one")
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var levelFormats = map[string]bcn.Format{
	"bgra8": bcn.FormatBGRA8,
	"rgba8": bcn.FormatRGBA8,
	"dxt1":  bcn.FormatDXT1,
	"dxt3":  bcn.FormatDXT3,
	"dxt5":  bcn.FormatDXT5,
	"bc4":   bcn.FormatBC4,
	"bc5":   bcn.FormatBC5,
}

type config struct {
	decode, encode, info bool
	output, format, out  string
	mips                 int
	noLZ4, zstd, verbose bool
}

func main() {
	if err := main1(); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// run is the whole program with its process state passed in.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cfg config
	fs := flag.NewFlagSet("ddsconv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { _, _ = io.WriteString(stderr, usageStr) }
	fs.BoolVar(&cfg.decode, "decode", false, "whether to decode the input")
	fs.BoolVar(&cfg.encode, "encode", false, "whether to encode the input")
	fs.BoolVar(&cfg.info, "info", false, "whether to print the input header")
	fs.StringVar(&cfg.output, "output", "", "output format")
	fs.StringVar(&cfg.format, "format", "bgra8", "EDDS level encoding")
	fs.IntVar(&cfg.mips, "mips", 0, "EDDS mip chain limit")
	fs.BoolVar(&cfg.noLZ4, "nolz4", false, "store EDDS blocks uncompressed")
	fs.StringVar(&cfg.out, "o", "", "output path")
	fs.BoolVar(&cfg.zstd, "zstd", false, "compress the output with zstd")
	fs.BoolVar(&cfg.verbose, "v", false, "log decoder details")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.verbose {
		dds.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer dds.SetLogger(nil)
	}

	var (
		input []byte
		err   error
	)
	switch fs.NArg() {
	case 0:
		input, err = io.ReadAll(stdin)
	case 1:
		input, err = os.ReadFile(fs.Arg(0))
	default:
		return ErrTooManyArgs
	}
	if err != nil {
		return err
	}
	if input, err = inflate(input); err != nil {
		return err
	}

	var out bytes.Buffer
	switch {
	case cfg.decode && !cfg.encode && !cfg.info:
		err = decode(&out, input, cfg.output)
	case cfg.encode && !cfg.decode && !cfg.info:
		err = encode(&out, input, &cfg)
	case cfg.info && !cfg.decode && !cfg.encode:
		err = info(&out, input)
	default:
		return ErrBadMode
	}
	if err != nil {
		return err
	}

	result := out.Bytes()
	if cfg.zstd {
		if result, err = deflate(result); err != nil {
			return err
		}
	}

	if cfg.out != "" {
		return os.WriteFile(cfg.out, result, 0o644)
	}
	_, err = stdout.Write(result)
	return err
}

// inflate undoes zstd framing when data starts with a zstd frame.
func inflate(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}

	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return io.ReadAll(dec)
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeTexture(input []byte) (image.Image, error) {
	r := bytes.NewReader(input)
	if edds.Probe(r) {
		return edds.Decode(r)
	}

	return dds.Decode(r)
}

func decode(w io.Writer, input []byte, output string) error {
	var enc func(io.Writer, image.Image) error
	switch output {
	case "", "png":
		enc = png.Encode
	case "bmp":
		enc = bmp.Encode
	case "tiff":
		enc = func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }
	case "qoi":
		enc = qoi.Encode
	default:
		return ErrBadOutputFlag
	}

	src, err := decodeTexture(input)
	if err != nil {
		return err
	}

	return enc(w, src)
}

func encode(w io.Writer, input []byte, cfg *config) error {
	switch cfg.output {
	case "", "dds", "edds":
	default:
		return ErrBadOutputFlag
	}

	src, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return err
	}

	if cfg.output != "edds" {
		return dds.EncodeImage(w, src)
	}

	format, ok := levelFormats[cfg.format]
	if !ok {
		return fmt.Errorf("%w: %q", ErrBadFormatFlag, cfg.format)
	}

	return edds.Encode(w, src, &edds.WriteOptions{
		Format:     format,
		MaxMipMaps: cfg.mips,
		Compress:   !cfg.noLZ4,
	})
}

func info(w io.Writer, input []byte) error {
	r := bytes.NewReader(input)
	container := "DDS"
	if edds.Probe(r) {
		container = "EDDS"
	}

	h, err := dds.ReadHeader(r)
	if err != nil {
		return err
	}

	width, height, depth, mips := h.Dimensions()
	_, _ = fmt.Fprintf(w, "container: %s\n", container)
	_, _ = fmt.Fprintf(w, "size:      %dx%d\n", width, height)
	_, _ = fmt.Fprintf(w, "depth:     %d\n", depth)
	_, _ = fmt.Fprintf(w, "mipmaps:   %d\n", mips)
	if h.DX10 != nil {
		_, _ = fmt.Fprintf(w, "dxgi:      %d\n", h.DX10.DXGIFormat)
	}

	format, err := h.Format()
	if err != nil {
		_, err = fmt.Fprintf(w, "format:    unsupported (%v)\n", err)
		return err
	}
	size, err := h.PayloadSize()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "format:    %s\n", format)
	_, err = fmt.Fprintf(w, "payload:   %d bytes\n", size)
	return err
}
