package edds

import (
	"fmt"
	"io"

	"github.com/woozymasta/bcn"
)

// fourCCFormats maps FourCC codes to bcn formats.
var fourCCFormats = map[string]bcn.Format{
	"DXT1": bcn.FormatDXT1,
	"DXT2": bcn.FormatDXT3,
	"DXT3": bcn.FormatDXT3,
	"DXT4": bcn.FormatDXT5,
	"DXT5": bcn.FormatDXT5,
	"ATI1": bcn.FormatBC4,
	"BC4U": bcn.FormatBC4,
	"BC4S": bcn.FormatBC4,
	"ATI2": bcn.FormatBC5,
	"BC5U": bcn.FormatBC5,
	"BC5S": bcn.FormatBC5,
}

// dxgiFormats maps DX10 DXGI_FORMAT values to bcn formats.
var dxgiFormats = map[uint32]bcn.Format{
	28: bcn.FormatRGBA8,
	71: bcn.FormatDXT1,
	74: bcn.FormatDXT3,
	77: bcn.FormatDXT5,
	80: bcn.FormatBC4,
	83: bcn.FormatBC5,
	87: bcn.FormatBGRA8,
}

// writeFourCC is the FourCC Write emits per compressed format.
var writeFourCC = map[bcn.Format]string{
	bcn.FormatDXT1: "DXT1",
	bcn.FormatDXT3: "DXT3",
	bcn.FormatDXT5: "DXT5",
	bcn.FormatBC4:  "ATI1",
	bcn.FormatBC5:  "ATI2",
}

type channelMasks struct {
	r, g, b, a uint32
}

var (
	rgba8Masks = channelMasks{r: 0x000000ff, g: 0x0000ff00, b: 0x00ff0000, a: 0xff000000}
	bgra8Masks = channelMasks{r: 0x00ff0000, g: 0x0000ff00, b: 0x000000ff, a: 0xff000000}
)

func fourCC(code string) uint32 {
	return uint32(code[0]) | uint32(code[1])<<8 | uint32(code[2])<<16 | uint32(code[3])<<24
}

func fourCCString(v uint32) string {
	return string([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// sourceFormat resolves the stored pixel format of a header.
func sourceFormat(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) bcn.Format {
	if dx10 != nil {
		if f, ok := dxgiFormats[dx10.DXGIFormat]; ok {
			return f
		}
		return bcn.FormatUnknown
	}

	pf := header.PixelFormat
	if pf.Flags&bcn.DDSPFFourCC != 0 {
		if f, ok := fourCCFormats[fourCCString(pf.FourCC)]; ok {
			return f
		}
		return bcn.FormatUnknown
	}

	if pf.Flags&bcn.DDSPFRGB != 0 && pf.Flags&bcn.DDSPFAlphaPixels != 0 && pf.RGBBitCount == 32 {
		masks := channelMasks{r: pf.RBitMask, g: pf.GBitMask, b: pf.BBitMask, a: pf.ABitMask}
		switch masks {
		case rgba8Masks:
			return bcn.FormatRGBA8
		case bgra8Masks:
			return bcn.FormatBGRA8
		}
	}

	return bcn.FormatUnknown
}

// payloadSize returns the byte size of one width x height level, or -1 for
// formats the container cannot hold.
func payloadSize(format bcn.Format, width, height int) int {
	switch format {
	case bcn.FormatDXT1, bcn.FormatBC4:
		return blockCount(width, height) * 8
	case bcn.FormatDXT3, bcn.FormatDXT5, bcn.FormatBC5:
		return blockCount(width, height) * 16
	case bcn.FormatRGBA8, bcn.FormatBGRA8:
		return width * height * 4
	default:
		return -1
	}
}

// hasAlpha reports whether format stores an alpha channel.
func hasAlpha(format bcn.Format) bool {
	switch format {
	case bcn.FormatDXT3, bcn.FormatDXT5, bcn.FormatRGBA8, bcn.FormatBGRA8:
		return true
	default:
		return false
	}
}

// enfusionReserved marks the header as written by an Enfusion tool.
func enfusionReserved() [11]uint32 {
	var r [11]uint32
	r[1] = fourCC("ENF1")
	return r
}

// newHeader builds the DDS header for a levels-deep chain of format.
func newHeader(width, height, levels int, format bcn.Format) (*bcn.DDSHeader, error) {
	w32, err := u32FromInt(width)
	if err != nil {
		return nil, err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return nil, err
	}
	l32, err := u32FromInt(levels)
	if err != nil {
		return nil, err
	}

	hdr := &bcn.DDSHeader{
		Size:        bcn.DDSHeaderSize,
		Flags:       uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat),
		Height:      h32,
		Width:       w32,
		Depth:       1,
		MipMapCount: l32,
		Reserved1:   enfusionReserved(),
		Caps:        uint32(bcn.DDSCapsTexture),
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize

	if levels > 1 {
		hdr.Flags |= bcn.DDSFlagMipmapCount
		hdr.Caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}

	if code, ok := writeFourCC[format]; ok {
		linear, err := u32FromInt(payloadSize(format, width, height))
		if err != nil {
			return nil, err
		}
		hdr.Flags |= bcn.DDSFlagLinearSize
		hdr.PitchOrLinearSize = linear
		hdr.PixelFormat.Flags = bcn.DDSPFFourCC
		hdr.PixelFormat.FourCC = fourCC(code)
		return hdr, nil
	}

	var masks channelMasks
	switch format {
	case bcn.FormatRGBA8:
		masks = rgba8Masks
	case bcn.FormatBGRA8:
		masks = bgra8Masks
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, format)
	}

	hdr.Flags |= bcn.DDSFlagPitch
	hdr.PitchOrLinearSize = w32 * 4
	hdr.PixelFormat.Flags = bcn.DDSPFRGB | bcn.DDSPFAlphaPixels
	hdr.PixelFormat.RGBBitCount = 32
	hdr.PixelFormat.RBitMask = masks.r
	hdr.PixelFormat.GBitMask = masks.g
	hdr.PixelFormat.BBitMask = masks.b
	hdr.PixelFormat.ABitMask = masks.a

	return hdr, nil
}

// readHeaders reads the DDS magic, header and optional DX10 extension.
func readHeaders(r io.Reader) (*bcn.DDSHeader, *bcn.DDSHeaderDX10, error) {
	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrHeaderRead, err)
	}

	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: DX10: %v", ErrHeaderRead, err)
	}

	return header, dx10, nil
}
