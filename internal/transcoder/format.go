package transcoder

import (
	"fmt"
	"strings"
)

// Format is a transcoder target texture format.
type Format int

// Target formats, numbered as the transcoder expects them.
const (
	FormatETC1 Format = iota
	FormatETC2
	FormatBC1
	FormatBC3
	FormatBC4
	FormatBC5
	FormatBC7M6Opaque
	FormatBC7M5
	FormatPVRTC1RGB
	FormatPVRTC1RGBA
	FormatASTC4x4
	FormatATCRGB
	FormatATCRGBA
	FormatRGBA32
	FormatRGB565
	FormatBGR565
	FormatRGBA4444
)

var formatNames = map[Format]string{
	FormatETC1:        "ETC1",
	FormatETC2:        "ETC2",
	FormatBC1:         "BC1",
	FormatBC3:         "BC3",
	FormatBC4:         "BC4",
	FormatBC5:         "BC5",
	FormatBC7M6Opaque: "BC7_M6_OPAQUE",
	FormatBC7M5:       "BC7_M5",
	FormatPVRTC1RGB:   "PVRTC1_4_RGB",
	FormatPVRTC1RGBA:  "PVRTC1_4_RGBA",
	FormatASTC4x4:     "ASTC_4x4",
	FormatATCRGB:      "ATC_RGB",
	FormatATCRGBA:     "ATC_RGBA",
	FormatRGBA32:      "RGBA32",
	FormatRGB565:      "RGB565",
	FormatBGR565:      "BGR565",
	FormatRGBA4444:    "RGBA4444",
}

// String returns the transcoder name of the format.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return fmt.Sprintf("Format(%d)", int(f))
}

// Uncompressed reports whether the format stores plain pixels.
func (f Format) Uncompressed() bool {
	switch f {
	case FormatRGBA32, FormatRGB565, FormatBGR565, FormatRGBA4444:
		return true
	default:
		return false
	}
}

// ParseFormat resolves a transcoder format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(n, name) {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
