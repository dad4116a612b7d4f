package edds

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/woozymasta/bcn"
)

// benchImage builds a deterministic image used by IO benchmarks.
func benchImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Deterministic pattern with mixed low/high frequencies.
			img.Set(x, y, color.NRGBA{
				R: uint8((x*7 + y*3) & 0xff),        //nolint:gosec // bounded by mask
				G: uint8((x*13 + y*5) & 0xff),       //nolint:gosec // bounded by mask
				B: uint8((x ^ y ^ (x >> 2)) & 0xff), //nolint:gosec // bounded by mask
				A: 255,
			})
		}
	}
	return img
}

func benchOptionsDXT5() *WriteOptions {
	return &WriteOptions{
		Format:   bcn.FormatDXT5,
		Compress: true,
		EncodeOptions: &bcn.EncodeOptions{
			QualityLevel: bcn.QualityLevelFast,
		},
	}
}

func benchOptionsBGRA8() *WriteOptions {
	return &WriteOptions{Format: bcn.FormatBGRA8, Compress: true}
}

// benchInput encodes img once for read benchmarks.
func benchInput(b *testing.B, img image.Image, opts *WriteOptions) []byte {
	b.Helper()

	var buf bytes.Buffer
	if err := Encode(&buf, img, opts); err != nil {
		b.Fatalf("prepare input: %v", err)
	}

	return buf.Bytes()
}

func BenchmarkWriteDXT5(b *testing.B) {
	img := benchImage(1024, 1024)
	path := filepath.Join(b.TempDir(), "write_dxt5.edds")
	opts := benchOptionsDXT5()

	b.ReportAllocs()
	b.SetBytes(int64(len(img.Pix)))

	for b.Loop() {
		if err := WriteWithOptions(img, path, opts); err != nil {
			b.Fatalf("write: %v", err)
		}
	}
}

func BenchmarkWriteBGRA8(b *testing.B) {
	img := benchImage(1024, 1024)
	path := filepath.Join(b.TempDir(), "write_bgra8.edds")
	opts := benchOptionsBGRA8()

	b.ReportAllocs()
	b.SetBytes(int64(len(img.Pix)))

	for b.Loop() {
		if err := WriteWithOptions(img, path, opts); err != nil {
			b.Fatalf("write: %v", err)
		}
	}
}

func BenchmarkEncodeBlocks(b *testing.B) {
	img := benchImage(1024, 1024)
	levels, err := encodeLevels(img, bcn.FormatBGRA8, 0, nil)
	if err != nil {
		b.Fatalf("encodeLevels: %v", err)
	}

	var total int64
	for _, l := range levels {
		total += int64(len(l))
	}

	for _, compress := range []bool{false, true} {
		name := "COPY"
		if compress {
			name = "LZ4"
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(total)

			var buf bytes.Buffer
			for b.Loop() {
				buf.Reset()
				if err := encodeBlocks(&buf, bcn.FormatBGRA8, 1024, 1024, levels, compress); err != nil {
					b.Fatalf("encodeBlocks: %v", err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	img := benchImage(1024, 1024)

	for name, opts := range map[string]*WriteOptions{"DXT5": benchOptionsDXT5(), "BGRA8": benchOptionsBGRA8()} {
		data := benchInput(b, img, opts)
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(img.Pix)))

			for b.Loop() {
				if _, err := Decode(bytes.NewReader(data)); err != nil {
					b.Fatalf("decode: %v", err)
				}
			}
		})
	}
}
