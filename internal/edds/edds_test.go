package edds

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/woozymasta/bcn"

	"github.com/woozymasta/basisview/internal/transcoder"
)

func gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / max(width-1, 1)),  //nolint:gosec // bounded
				G: uint8(y * 255 / max(height-1, 1)), //nolint:gosec // bounded
				B: 100,
				A: 255,
			})
		}
	}
	return img
}

func encode(t *testing.T, img image.Image, opts *WriteOptions) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := Write(&buf, img, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.Bytes()
}

func TestPackRoundTrip(t *testing.T) {
	t.Parallel()

	data := make([]byte, 3*ChunkSize+123)
	for i := range data {
		data[i] = byte((i / 7) & 0x0f)
	}

	block, err := packBlock(data)
	if err != nil {
		t.Fatalf("packBlock: %v", err)
	}
	if block.Magic != BlockLZ4 {
		t.Fatalf("expected LZ4 block for repetitive data, got %q", block.Magic)
	}

	out, err := unpackBlock(block, len(data))
	if err != nil {
		t.Fatalf("unpackBlock: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round-trip mismatch")
	}
}

func TestPackSmallIsCopy(t *testing.T) {
	t.Parallel()

	block, err := packBlock(make([]byte, 64))
	if err != nil {
		t.Fatalf("packBlock: %v", err)
	}
	if block.Magic != BlockCOPY || block.Size != 64 {
		t.Fatalf("got %q size %d, want COPY size 64", block.Magic, block.Size)
	}
}

func TestUnpackStreamErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stream  []byte
		want    int
		wantErr error
	}{
		{name: "empty", stream: nil, want: 16, wantErr: ErrChunkStreamTruncated},
		{name: "bad-flags", stream: []byte{1, 0, 0, 0x01, 0}, want: 16, wantErr: ErrUnknownChunkFlags},
		{name: "short-chunk", stream: []byte{9, 0, 0, 0x80, 0}, want: 16, wantErr: ErrChunkStreamTruncated},
		{name: "zero-target", stream: []byte{1, 0, 0, 0x80, 0}, want: 0, wantErr: ErrDecodedSizeMismatch},
		{name: "target-beyond-ratio", stream: []byte{1, 0, 0, 0x80, 0}, want: 16384 * 16384 * 4, wantErr: ErrDecodedSizeMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := unpackStream(tc.stream, tc.want)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestWriteParse(t *testing.T) {
	t.Parallel()

	img := gradient(8, 8)
	c, err := Parse(encode(t, img, nil))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if c.Format != bcn.FormatBGRA8 {
		t.Fatalf("format = %v, want BGRA8", c.Format)
	}
	if c.Levels() != 4 {
		t.Fatalf("levels = %d, want 4", c.Levels())
	}
	if w, h := c.LevelSize(3); w != 1 || h != 1 {
		t.Fatalf("level 3 size = %dx%d, want 1x1", w, h)
	}

	got, err := c.Image(0, nil)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if !bytes.Equal(got.Pix, img.Pix) {
		t.Fatalf("pixel mismatch")
	}
}

func TestWriteCompressedLargeLevel(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(y), G: uint8(x / 64), B: 7, A: 255}) //nolint:gosec // bounded
		}
	}

	data := encode(t, img, &WriteOptions{Format: bcn.FormatBGRA8, MaxMipMaps: 1, Compress: true})
	if len(data) >= len(img.Pix) {
		t.Fatalf("expected compressed container, got %d bytes for %d pixels bytes", len(data), len(img.Pix))
	}

	got, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	nrgba, ok := got.(*image.NRGBA)
	if !ok {
		t.Fatalf("expected *image.NRGBA, got %T", got)
	}
	if !bytes.Equal(nrgba.Pix, img.Pix) {
		t.Fatalf("pixel mismatch")
	}
}

func TestWriteDXT5Config(t *testing.T) {
	t.Parallel()

	data := encode(t, gradient(16, 16), &WriteOptions{
		Format:        bcn.FormatDXT5,
		MaxMipMaps:    1,
		Compress:      true,
		EncodeOptions: &bcn.EncodeOptions{QualityLevel: 8},
	})

	cfg, err := DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 16 || cfg.Height != 16 {
		t.Fatalf("unexpected size: %dx%d", cfg.Width, cfg.Height)
	}

	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Format != bcn.FormatDXT5 || c.Levels() != 1 {
		t.Fatalf("got %v with %d levels", c.Format, c.Levels())
	}
}

func TestWriteFromBlocksValidation(t *testing.T) {
	t.Parallel()

	validDXT1 := make([]byte, 8)

	tests := []struct {
		name    string
		format  bcn.Format
		mips    [][]byte
		wantErr error
	}{
		{name: "empty-mips", format: bcn.FormatDXT1, mips: nil, wantErr: ErrEmptyMipmaps},
		{name: "unknown-format", format: bcn.FormatUnknown, mips: [][]byte{validDXT1}, wantErr: ErrInvalidFormat},
		{name: "size-mismatch", format: bcn.FormatDXT1, mips: [][]byte{make([]byte, 7)}, wantErr: ErrMipmapSizeMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := WriteFromBlocks(&buf, tc.format, 4, 4, tc.mips, true)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSourceFormatTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header *bcn.DDSHeader
		dx10   *bcn.DDSHeaderDX10
		want   bcn.Format
	}{
		{
			name: "fourcc-dxt1",
			header: &bcn.DDSHeader{PixelFormat: bcn.DDSPixelFormat{
				Flags:  bcn.DDSPFFourCC,
				FourCC: fourCC("DXT1"),
			}},
			want: bcn.FormatDXT1,
		},
		{
			name: "fourcc-ati2",
			header: &bcn.DDSHeader{PixelFormat: bcn.DDSPixelFormat{
				Flags:  bcn.DDSPFFourCC,
				FourCC: fourCC("ATI2"),
			}},
			want: bcn.FormatBC5,
		},
		{
			name: "rgb-bgra8",
			header: &bcn.DDSHeader{PixelFormat: bcn.DDSPixelFormat{
				Flags:       bcn.DDSPFRGB | bcn.DDSPFAlphaPixels,
				RGBBitCount: 32,
				RBitMask:    0x00ff0000,
				GBitMask:    0x0000ff00,
				BBitMask:    0x000000ff,
				ABitMask:    0xff000000,
			}},
			want: bcn.FormatBGRA8,
		},
		{
			name: "rgb-24bit",
			header: &bcn.DDSHeader{PixelFormat: bcn.DDSPixelFormat{
				Flags:       bcn.DDSPFRGB,
				RGBBitCount: 24,
			}},
			want: bcn.FormatUnknown,
		},
		{name: "dxgi-dxt5", dx10: &bcn.DDSHeaderDX10{DXGIFormat: 77}, want: bcn.FormatDXT5},
		{name: "dxgi-unknown", dx10: &bcn.DDSHeaderDX10{DXGIFormat: 2}, want: bcn.FormatUnknown},
		{
			name: "fourcc-unknown",
			header: &bcn.DDSHeader{PixelFormat: bcn.DDSPixelFormat{
				Flags:  bcn.DDSPFFourCC,
				FourCC: fourCC("XXXX"),
			}},
			want: bcn.FormatUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := sourceFormat(tc.header, tc.dx10); got != tc.want {
				t.Fatalf("sourceFormat() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPayloadSizeTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format bcn.Format
		w, h   int
		want   int
	}{
		{name: "dxt1-4x4", format: bcn.FormatDXT1, w: 4, h: 4, want: 8},
		{name: "dxt1-5x7", format: bcn.FormatDXT1, w: 5, h: 7, want: 32},
		{name: "dxt5-4x4", format: bcn.FormatDXT5, w: 4, h: 4, want: 16},
		{name: "bgra8-1x1", format: bcn.FormatBGRA8, w: 1, h: 1, want: 4},
		{name: "bgra8-5x7", format: bcn.FormatBGRA8, w: 5, h: 7, want: 140},
		{name: "unknown", format: bcn.FormatUnknown, w: 4, h: 4, want: -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := payloadSize(tc.format, tc.w, tc.h); got != tc.want {
				t.Fatalf("payloadSize(%v,%d,%d) = %d, want %d", tc.format, tc.w, tc.h, got, tc.want)
			}
		})
	}
}

func TestLevelCount(t *testing.T) {
	t.Parallel()

	tests := []struct{ w, h, want int }{
		{1, 1, 1},
		{8, 8, 4},
		{8, 2, 4},
		{4096, 4096, MaxLevels},
	}
	for _, tc := range tests {
		if got := levelCount(tc.w, tc.h); got != tc.want {
			t.Errorf("levelCount(%d,%d) = %d, want %d", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestReadBlockTableErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown-magic", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, _ = buf.WriteString("ABCD")
		_ = binary.Write(&buf, binary.LittleEndian, int32(8))

		_, err := readBlockTable(bytes.NewReader(buf.Bytes()), 1)
		if !errors.Is(err, ErrUnknownBlockMagic) {
			t.Fatalf("expected ErrUnknownBlockMagic, got %v", err)
		}
	})

	t.Run("negative-size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, _ = buf.WriteString(BlockCOPY)
		_ = binary.Write(&buf, binary.LittleEndian, int32(-1))

		_, err := readBlockTable(bytes.NewReader(buf.Bytes()), 1)
		if !errors.Is(err, ErrInvalidBlockSize) {
			t.Fatalf("expected ErrInvalidBlockSize, got %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		_, err := readBlockTable(bytes.NewReader([]byte("COP")), 1)
		if !errors.Is(err, ErrBlockTableRead) {
			t.Fatalf("expected ErrBlockTableRead, got %v", err)
		}
	})
}

func TestParseLegacySingleBlock(t *testing.T) {
	t.Parallel()

	img := gradient(4, 4)
	payload, _, _, err := bcn.EncodeImageWithOptions(img, bcn.FormatBGRA8, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	header, err := newHeader(4, 4, 1, bcn.FormatBGRA8)
	if err != nil {
		t.Fatalf("newHeader: %v", err)
	}

	var buf bytes.Buffer
	if err := bcn.WriteDDSMagic(&buf); err != nil {
		t.Fatalf("magic: %v", err)
	}
	if err := bcn.WriteDDSHeader(&buf, header); err != nil {
		t.Fatalf("header: %v", err)
	}
	buf.Write(payload)

	c, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := c.Payload(0)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("legacy payload mismatch")
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("nope")); !errors.Is(err, ErrHeaderRead) {
		t.Fatalf("expected ErrHeaderRead, got %v", err)
	}

	data := encode(t, gradient(4, 4), &WriteOptions{Format: bcn.FormatBGRA8, MaxMipMaps: 1})
	_, err := Parse(data[:len(data)-5])
	if !errors.Is(err, ErrSingleBlock) {
		t.Fatalf("expected ErrSingleBlock for truncated body, got %v", err)
	}
	if !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("expected ErrInvalidBlockSize for truncated body, got %v", err)
	}
}

func TestParseHugeDeclaredSize(t *testing.T) {
	t.Parallel()

	header, err := newHeader(16384, 16384, 1, bcn.FormatBGRA8)
	if err != nil {
		t.Fatalf("newHeader: %v", err)
	}

	var buf bytes.Buffer
	if err := bcn.WriteDDSMagic(&buf); err != nil {
		t.Fatalf("write magic: %v", err)
	}
	if err := bcn.WriteDDSHeader(&buf, header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	buf.Write([]byte{0xff, 0xff, 0x00, 0x80, 0x00})

	_, err = Parse(buf.Bytes())
	if !errors.Is(err, ErrSingleBlock) || !errors.Is(err, ErrDecodedSizeMismatch) {
		t.Fatalf("expected bounded legacy decode failure, got %v", err)
	}
}

func openSession(t *testing.T, data []byte) transcoder.Session {
	t.Helper()

	factory, err := NewBackend(nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := factory.Open(data)
	t.Cleanup(func() { transcoder.Release(s) })
	return s
}

func TestSessionDescribesContainer(t *testing.T) {
	t.Parallel()

	s := openSession(t, encode(t, gradient(8, 4), nil))

	if !s.StartTranscoding() {
		t.Fatalf("StartTranscoding failed")
	}
	if s.NumImages() != 1 || s.NumLevels(0) != 4 || !s.HasAlpha() {
		t.Fatalf("images=%d levels=%d alpha=%v", s.NumImages(), s.NumLevels(0), s.HasAlpha())
	}
	if s.ImageWidth(0, 0) != 8 || s.ImageHeight(0, 0) != 4 {
		t.Fatalf("level 0 = %dx%d", s.ImageWidth(0, 0), s.ImageHeight(0, 0))
	}
	if s.ImageWidth(0, 1) != 4 || s.ImageHeight(0, 1) != 2 {
		t.Fatalf("level 1 = %dx%d", s.ImageWidth(0, 1), s.ImageHeight(0, 1))
	}
	if s.ImageWidth(1, 0) != 0 || s.ImageWidth(0, 9) != 0 {
		t.Fatalf("out of range image or level reported a width")
	}
}

func TestSessionTranscodeTargets(t *testing.T) {
	t.Parallel()

	img := gradient(8, 8)
	data := encode(t, img, &WriteOptions{Format: bcn.FormatBGRA8, MaxMipMaps: 1})

	tests := []struct {
		format transcoder.Format
		size   int
		ok     bool
	}{
		{format: transcoder.FormatRGBA32, size: 8 * 8 * 4, ok: true},
		{format: transcoder.FormatRGB565, size: 8 * 8 * 2, ok: true},
		{format: transcoder.FormatBC1, size: 4 * 8, ok: true},
		{format: transcoder.FormatBC3, size: 4 * 16, ok: true},
		{format: transcoder.FormatASTC4x4, size: 0, ok: false},
		{format: transcoder.FormatPVRTC1RGB, size: 0, ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.format.String(), func(t *testing.T) {
			t.Parallel()

			s := openSession(t, data)
			if !s.StartTranscoding() {
				t.Fatalf("StartTranscoding failed")
			}

			size := s.TranscodedSize(0, 0, tc.format)
			if size != tc.size {
				t.Fatalf("TranscodedSize = %d, want %d", size, tc.size)
			}

			dst := make([]byte, size)
			if got := s.Transcode(dst, 0, 0, tc.format); got != tc.ok {
				t.Fatalf("Transcode = %v, want %v", got, tc.ok)
			}

			switch tc.format {
			case transcoder.FormatRGBA32:
				if !bytes.Equal(dst, img.Pix) {
					t.Fatalf("RGBA32 output differs from source pixels")
				}
			case transcoder.FormatRGB565:
				// Pixel (7, 0): R=255, G=0, B=100.
				got := binary.LittleEndian.Uint16(dst[7*2:])
				want := uint16(255>>3)<<11 | uint16(100>>3)
				if got != want {
					t.Fatalf("RGB565 pixel = %#04x, want %#04x", got, want)
				}
			}
		})
	}
}

func TestSessionRequiresStart(t *testing.T) {
	t.Parallel()

	s := openSession(t, encode(t, gradient(4, 4), nil))
	dst := make([]byte, s.TranscodedSize(0, 0, transcoder.FormatRGBA32))
	if s.Transcode(dst, 0, 0, transcoder.FormatRGBA32) {
		t.Fatalf("Transcode succeeded before StartTranscoding")
	}
	if !s.StartTranscoding() {
		t.Fatalf("StartTranscoding failed")
	}
	if s.Transcode(dst[:len(dst)-1], 0, 0, transcoder.FormatRGBA32) {
		t.Fatalf("Transcode succeeded into a short buffer")
	}
}

func TestSessionOverGarbage(t *testing.T) {
	t.Parallel()

	s := openSession(t, []byte("definitely not a texture container"))

	if s.StartTranscoding() {
		t.Fatalf("StartTranscoding succeeded on garbage")
	}
	if s.ImageWidth(0, 0) != 0 || s.ImageHeight(0, 0) != 0 {
		t.Fatalf("garbage reported dimensions %dx%d", s.ImageWidth(0, 0), s.ImageHeight(0, 0))
	}
	if s.NumImages() != 0 || s.TranscodedSize(0, 0, transcoder.FormatRGBA32) != 0 {
		t.Fatalf("garbage reported content")
	}
}

func TestSessionClosed(t *testing.T) {
	t.Parallel()

	s := openSession(t, encode(t, gradient(4, 4), nil))
	if !s.StartTranscoding() {
		t.Fatalf("StartTranscoding failed")
	}
	s.Close()

	dst := make([]byte, 64)
	if s.Transcode(dst, 0, 0, transcoder.FormatRGBA32) {
		t.Fatalf("Transcode succeeded after Close")
	}
}

func TestBackendLoadCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewBackend(nil).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
