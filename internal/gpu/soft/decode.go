package soft

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
	"golang.org/x/image/draw"

	"github.com/woozymasta/basisview/internal/gpu"
)

// bcnFormat maps compressed GL formats the device can decode.
func bcnFormat(format uint32) (bcn.Format, int, bool) {
	switch format {
	case gpu.CompressedRGBS3TCDXT1:
		return bcn.FormatDXT1, 8, true
	case gpu.CompressedRGBAS3TCDXT5:
		return bcn.FormatDXT5, 16, true
	default:
		return bcn.FormatUnknown, 0, false
	}
}

func decodeCompressed(format uint32, width, height int, data []byte) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	bf, blockSize, ok := bcnFormat(format)
	if !ok {
		return nil, fmt.Errorf("%w: compressed 0x%04x", ErrUnsupportedFormat, format)
	}

	want := ((width + 3) / 4) * ((height + 3) / 4) * blockSize
	if len(data) != want {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDataSize, want, len(data))
	}

	img, err := bcn.DecodeImageWithOptions(data, width, height, bf, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return toNRGBA(img), nil
}

func decodeRaw(internalFormat, format, pixelType uint32, width, height int, data []byte) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	switch {
	case format == gpu.RGBA && pixelType == gpu.UnsignedByte:
		want := width * height * 4
		if len(data) != want {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrDataSize, want, len(data))
		}
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		copy(img.Pix, data)
		return img, nil

	case format == gpu.RGB && pixelType == gpu.UnsignedShort565:
		want := width * height * 2
		if len(data) != want {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrDataSize, want, len(data))
		}
		return expandRGB565(data, width, height), nil

	default:
		return nil, fmt.Errorf("%w: internal 0x%04x format 0x%04x type 0x%04x",
			ErrUnsupportedFormat, internalFormat, format, pixelType)
	}
}

// expandRGB565 widens little-endian 5:6:5 words to opaque NRGBA.
func expandRGB565(data []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		v := binary.LittleEndian.Uint16(data[i*2:])
		r := uint8(v >> 11 & 0x1f)
		g := uint8(v >> 5 & 0x3f)
		b := uint8(v & 0x1f)

		img.Pix[i*4+0] = r<<3 | r>>2
		img.Pix[i*4+1] = g<<2 | g>>4
		img.Pix[i*4+2] = b<<3 | b>>2
		img.Pix[i*4+3] = 0xff
	}

	return img
}

func toNRGBA(src image.Image) *image.NRGBA {
	if img, ok := src.(*image.NRGBA); ok && img.Bounds().Min == (image.Point{}) {
		return img
	}

	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)

	return img
}
