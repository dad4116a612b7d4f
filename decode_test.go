package dds

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func testImage(width, height, depth int) *Image {
	img := &Image{Pix: make([]byte, width*height*depth*4), Width: width, Height: height, Depth: depth}
	for i := range img.Pix {
		img.Pix[i] = byte(i*7 + i/4)
	}
	return img
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		img  *Image
	}{
		{name: "1x1", img: testImage(1, 1, 1)},
		{name: "odd", img: testImage(7, 3, 1)},
		{name: "volume", img: testImage(4, 2, 3)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Encode(&buf, tc.img); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			got, err := DecodeImage(&buf)
			if err != nil {
				t.Fatalf("DecodeImage: %v", err)
			}
			if got.Width != tc.img.Width || got.Height != tc.img.Height || got.Depth != tc.img.Depth {
				t.Fatalf("dims=%dx%dx%d, want %dx%dx%d", got.Width, got.Height, got.Depth,
					tc.img.Width, tc.img.Height, tc.img.Depth)
			}
			if !bytes.Equal(got.Pix, tc.img.Pix) {
				t.Fatalf("pixel mismatch")
			}
		})
	}
}

func TestEncodeHeaderFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Encode(&buf, testImage(2, 2, 4)); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	h, err := ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Flags&DDSDDepth == 0 || h.Depth != 4 || h.Caps2&DDSCaps2Volume == 0 || h.Caps&DDSCapsComplex == 0 {
		t.Fatalf("volume flags missing: %+v", h)
	}
	pf := h.PixelFormat
	if pf.Flags != DDPFRGB|DDPFAlphaPixels || pf.RGBBitCount != 32 || pf.RBitMask != 0x00ff0000 || pf.ABitMask != 0xff000000 {
		t.Fatalf("pixel format=%+v", pf)
	}
	if buf.Len() != 2*2*4*4 {
		t.Fatalf("payload=%d bytes", buf.Len())
	}
}

func TestEncodeInvalidImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		img  *Image
	}{
		{name: "nil", img: nil},
		{name: "nil-pix", img: &Image{Width: 1, Height: 1, Depth: 1}},
		{name: "zero-width", img: &Image{Pix: []byte{}, Width: 0, Height: 1, Depth: 1}},
		{name: "short", img: &Image{Pix: make([]byte, 3), Width: 1, Height: 1, Depth: 1}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Encode(&buf, tc.img); !errors.Is(err, ErrInvalidImage) {
				t.Fatalf("err=%v, want ErrInvalidImage", err)
			}
			if buf.Len() != 0 {
				t.Fatalf("wrote %d bytes for an invalid image", buf.Len())
			}
		})
	}
}

func TestEncodeImageConverts(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(10, 10, 13, 12))
	src.Set(10, 10, color.RGBA{R: 128, G: 64, B: 0, A: 128})
	src.Set(12, 11, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	var buf bytes.Buffer
	if err := EncodeImage(&buf, src); err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}

	got, err := DecodeImage(&buf)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if got.Width != 3 || got.Height != 2 {
		t.Fatalf("dims=%dx%d", got.Width, got.Height)
	}
	if p := pixel(got, 0, 0); p != [4]uint8{255, 127, 0, 128} {
		t.Fatalf("unpremultiplied pixel=%v", p)
	}
	if p := pixel(got, 2, 1); p != [4]uint8{1, 2, 3, 255} {
		t.Fatalf("opaque pixel=%v", p)
	}
}

func TestAppendBGRA(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	copy(src.Pix, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	got := AppendBGRA([]byte{0xaa}, src)
	want := []byte{0xaa, 3, 2, 1, 4, 7, 6, 5, 8}
	if !bytes.Equal(got, want) {
		t.Fatalf("AppendBGRA=%v, want %v", got, want)
	}
}

func TestImageDecodeRegistered(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Encode(&buf, testImage(3, 2, 2)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data := buf.Bytes()

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image.DecodeConfig: %v", err)
	}
	if name != "dds" || cfg.Width != 3 || cfg.Height != 4 || cfg.ColorModel != color.NRGBAModel {
		t.Fatalf("config=%+v name=%q", cfg, name)
	}

	m, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image.Decode: %v", err)
	}
	if name != "dds" {
		t.Fatalf("format=%q", name)
	}
	nrgba, ok := m.(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded %T, want *image.NRGBA", m)
	}
	if nrgba.Bounds() != image.Rect(0, 0, 3, 4) {
		t.Fatalf("bounds=%v", nrgba.Bounds())
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	dxt1 := fourCCHeader(8, 8, FourCC('D', 'X', 'T', '1'))

	tests := []struct {
		name    string
		data    []byte
		opts    *DecodeOptions
		wantErr error
	}{
		{name: "truncated-payload", data: ddsFile(t, dxt1, make([]byte, 31)), wantErr: ErrPayloadRead},
		{name: "no-payload", data: ddsFile(t, dxt1, nil), wantErr: ErrPayloadRead},
		{name: "unsupported", data: ddsFile(t, fourCCHeader(4, 4, FourCC('Y', 'U', 'Y', '2')), make([]byte, 32)), wantErr: ErrUnsupportedFormat},
		{name: "payload-limit", data: ddsFile(t, dxt1, make([]byte, 32)), opts: &DecodeOptions{MaxBufferSize: 16}, wantErr: ErrAllocation},
		{name: "output-limit", data: ddsFile(t, dxt1, make([]byte, 32)), opts: &DecodeOptions{MaxBufferSize: 100}, wantErr: ErrAllocation},
		{name: "huge", data: ddsFile(t, fourCCHeader(0xffffffff, 0xffffffff, d3dfmtA32B32G32R32F), nil), wantErr: ErrAllocation},
		{name: "not-dds", data: []byte("BM this is a bitmap header padded out to be long enough......................................................................."), wantErr: ErrMalformedHeader},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			img, err := DecodeImageWithOptions(bytes.NewReader(tc.data), tc.opts)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err=%v, want %v", err, tc.wantErr)
			}
			if img != nil {
				t.Fatalf("image returned with error")
			}
		})
	}
}

func TestDecodeIgnoresTrailingMips(t *testing.T) {
	t.Parallel()

	h := fourCCHeader(4, 4, FourCC('D', 'X', 'T', '1'))
	h.MipMapCount = 3
	payload := append(colorBlock(0xf800, 0, 0), bytes.Repeat([]byte{0xee}, 16)...)

	r := bytes.NewReader(ddsFile(t, h, payload))
	img, err := DecodeImage(r)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if p := pixel(img, 0, 0); p != [4]uint8{255, 0, 0, 255} {
		t.Fatalf("pixel=%v", p)
	}
	if r.Len() != 16 {
		t.Fatalf("remaining=%d, want 16 unread mip bytes", r.Len())
	}
}

func TestDecodePayload(t *testing.T) {
	t.Parallel()

	h := fourCCHeader(4, 4, FourCC('A', 'T', 'I', '1'))
	if _, err := DecodePayload(h, make([]byte, 7)); !errors.Is(err, ErrPayloadRead) {
		t.Fatalf("short payload err=%v", err)
	}

	img, err := DecodePayload(h, append(alphaBlock(9, 9, 0), 1, 2, 3))
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if p := pixel(img, 1, 1); p != [4]uint8{9, 9, 9, 9} {
		t.Fatalf("pixel=%v", p)
	}
}

func TestDecodeDX10(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dxgi    uint32
		payload []byte
		want    [4]uint8
	}{
		{name: "r8g8b8a8", dxgi: 28, payload: []byte{1, 2, 3, 4}, want: [4]uint8{1, 2, 3, 4}},
		{name: "b8g8r8a8", dxgi: 87, payload: []byte{1, 2, 3, 4}, want: [4]uint8{3, 2, 1, 4}},
		{name: "b8g8r8x8", dxgi: 88, payload: []byte{1, 2, 3, 4}, want: [4]uint8{3, 2, 1, 255}},
		{name: "r8", dxgi: 61, payload: []byte{200}, want: [4]uint8{200, 0, 0, 255}},
		{name: "a8", dxgi: 65, payload: []byte{200}, want: [4]uint8{0, 0, 0, 200}},
		{name: "b5g6r5", dxgi: 85, payload: []byte{0x1f, 0x00}, want: [4]uint8{0, 0, 255, 255}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := fourCCHeader(1, 1, fourCCDX10)
			h.DX10 = &HeaderDX10{DXGIFormat: tc.dxgi, ResourceDimension: 3, ArraySize: 1}
			img, err := DecodeImage(bytes.NewReader(ddsFile(t, h, tc.payload)))
			if err != nil {
				t.Fatalf("DecodeImage: %v", err)
			}
			if got := pixel(img, 0, 0); got != tc.want {
				t.Fatalf("pixel=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestFileHelpers(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.dds")
	img := testImage(5, 4, 1)
	if err := Write(path, img); err != nil {
		t.Fatalf("Write: %v", err)
	}

	cfg, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.Width != 5 || cfg.Height != 4 {
		t.Fatalf("config=%+v", cfg)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got.Pix, img.Pix) {
		t.Fatalf("pixel mismatch")
	}

	if _, err := Read(filepath.Join(t.TempDir(), "missing.dds")); !errors.Is(err, ErrOpenFile) {
		t.Fatalf("missing file err=%v", err)
	}
	if err := Write(filepath.Join(t.TempDir(), "no", "such", "dir.dds"), img); !errors.Is(err, ErrCreateFile) {
		t.Fatalf("bad path err=%v", err)
	}
}

// recordHandler collects log messages.
type recordHandler struct {
	msgs *[]string
}

func (h recordHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h recordHandler) Handle(_ context.Context, r slog.Record) error {
	*h.msgs = append(*h.msgs, r.Message)
	return nil
}
func (h recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordHandler) WithGroup(string) slog.Handler      { return h }

// Not parallel: swaps the package logger.
func TestSetLogger(t *testing.T) {
	var msgs []string
	SetLogger(slog.New(recordHandler{msgs: &msgs}))
	defer SetLogger(nil)

	var buf bytes.Buffer
	if err := Encode(&buf, testImage(1, 1, 1)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := DecodeImage(&buf); err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}

	joined := strings.Join(msgs, ",")
	for _, want := range []string{"dds encoded", "dds header", "dds decoded"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("logged %q, missing %q", joined, want)
		}
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("default logger is enabled")
	}
}

func BenchmarkEncodeDecodeRGBA(b *testing.B) {
	img := testImage(512, 512, 1)

	b.ReportAllocs()
	b.SetBytes(int64(len(img.Pix)))

	var buf bytes.Buffer
	for b.Loop() {
		buf.Reset()
		if err := Encode(&buf, img); err != nil {
			b.Fatalf("encode: %v", err)
		}
		if _, err := DecodeImage(&buf); err != nil {
			b.Fatalf("decode: %v", err)
		}
	}
}
