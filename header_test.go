package dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// fourCCHeader builds a single-level header for a FourCC or D3DFMT code.
func fourCCHeader(width, height uint32, code uint32) *Header {
	h := NewHeader(width, height, 1)
	h.PixelFormat = PixelFormat{Size: PixelFormatSize, Flags: DDPFFourCC, FourCC: code}
	return h
}

// maskHeader builds a single-level bitmask header.
func maskHeader(width, height uint32, flags, bitCount, r, g, b, a uint32) *Header {
	h := NewHeader(width, height, 1)
	h.PixelFormat = PixelFormat{
		Size:        PixelFormatSize,
		Flags:       flags,
		RGBBitCount: bitCount,
		RBitMask:    r,
		GBitMask:    g,
		BBitMask:    b,
		ABitMask:    a,
	}
	return h
}

// ddsFile serializes h followed by payload.
func ddsFile(t testing.TB, h *Header, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	buf.Write(payload)
	return buf.Bytes()
}

func TestCheckDDSRestoresOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "dds", data: []byte("DDS \x7c\x00\x00\x00"), want: true},
		{name: "bmp", data: []byte("BM\x00\x00\x00\x00"), want: false},
		{name: "short", data: []byte("DD"), want: false},
		{name: "empty", data: nil, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := bytes.NewReader(tc.data)
			if got := CheckDDS(r); got != tc.want {
				t.Fatalf("CheckDDS=%v, want %v", got, tc.want)
			}
			if pos, _ := r.Seek(0, io.SeekCurrent); pos != 0 {
				t.Fatalf("offset=%d after CheckDDS, want 0", pos)
			}
		})
	}
}

func TestCheckDDSFromMiddle(t *testing.T) {
	t.Parallel()

	r := bytes.NewReader([]byte("xxDDS "))
	if _, err := r.Seek(2, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if !CheckDDS(r) {
		t.Fatal("CheckDDS=false at offset 2")
	}
	if pos, _ := r.Seek(0, io.SeekCurrent); pos != 2 {
		t.Fatalf("offset=%d, want 2", pos)
	}
}

func TestReadHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	h := fourCCHeader(64, 32, FourCC('D', 'X', 'T', '5'))
	h.Flags |= DDSDMipMapCount
	h.MipMapCount = 7
	h.Reserved1[1] = 0x31464e45

	got, err := ReadHeader(bytes.NewReader(ddsFile(t, h, nil)))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if *got != *h {
		t.Fatalf("header mismatch:\n got %+v\nwant %+v", got, h)
	}

	w, hh, d, mips := got.Dimensions()
	if w != 64 || hh != 32 || d != 1 || mips != 7 {
		t.Fatalf("Dimensions=%d,%d,%d,%d", w, hh, d, mips)
	}
}

func TestReadHeaderDX10(t *testing.T) {
	t.Parallel()

	h := fourCCHeader(4, 4, fourCCDX10)
	h.DX10 = &HeaderDX10{DXGIFormat: 71, ResourceDimension: 3, ArraySize: 1}

	got, err := ReadHeader(bytes.NewReader(ddsFile(t, h, nil)))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got.DX10 == nil || *got.DX10 != *h.DX10 {
		t.Fatalf("DX10=%+v, want %+v", got.DX10, h.DX10)
	}
	if f, err := got.Format(); err != nil || f != FormatDXT1 {
		t.Fatalf("Format=%v,%v want DXT1", f, err)
	}
}

func TestReadHeaderErrors(t *testing.T) {
	t.Parallel()

	valid := ddsFile(t, fourCCHeader(4, 4, FourCC('D', 'X', 'T', '1')), nil)

	badSize := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(badSize[4:], 123)

	badMagic := bytes.Clone(valid)
	copy(badMagic, "BM\x00\x00")

	dx10 := ddsFile(t, fourCCHeader(4, 4, fourCCDX10), nil)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "size-123", data: badSize, wantErr: ErrMalformedHeader},
		{name: "bad-magic", data: badMagic, wantErr: ErrMalformedHeader},
		{name: "truncated", data: valid[:60], wantErr: ErrHeaderRead},
		{name: "empty", data: nil, wantErr: ErrHeaderRead},
		{name: "dx10-missing", data: dx10, wantErr: ErrDX10Read},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h, err := ReadHeader(bytes.NewReader(tc.data))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err=%v, want %v", err, tc.wantErr)
			}
			if h != nil {
				t.Fatalf("header=%+v, want nil", h)
			}
		})
	}
}

func TestDimensionsDefaults(t *testing.T) {
	t.Parallel()

	h := &Header{Width: 8, Height: 2, Depth: 5, MipMapCount: 9}
	w, hh, d, mips := h.Dimensions()
	if w != 8 || hh != 2 || d != 1 || mips != 1 {
		t.Fatalf("without flags: %d,%d,%d,%d", w, hh, d, mips)
	}

	h.Flags = DDSDDepth | DDSDMipMapCount
	if _, _, d, mips = h.Dimensions(); d != 5 || mips != 9 {
		t.Fatalf("with flags: depth=%d mips=%d", d, mips)
	}

	h.Depth, h.MipMapCount = 0, 0
	if _, _, d, mips = h.Dimensions(); d != 1 || mips != 1 {
		t.Fatalf("zero fields: depth=%d mips=%d", d, mips)
	}
}

func TestExtensionDefault(t *testing.T) {
	t.Parallel()

	ext := (&Header{}).Extension()
	if ext.DXGIFormat != 0 || ext.ArraySize != 1 {
		t.Fatalf("Extension=%+v", ext)
	}
}

func TestWriteHeaderSize(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteHeader(&buf, NewHeader(1, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 4+HeaderSize {
		t.Fatalf("len=%d, want %d", buf.Len(), 4+HeaderSize)
	}

	buf.Reset()
	h := fourCCHeader(1, 1, fourCCDX10)
	h.DX10 = &HeaderDX10{}
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 4+HeaderSize+HeaderDX10Size {
		t.Fatalf("len=%d with DX10", buf.Len())
	}
}
