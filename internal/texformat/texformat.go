// Package texformat negotiates texture formats between the transcoder and
// the graphics device.
package texformat

import (
	"strings"

	"github.com/woozymasta/basisview/internal/gpu"
	"github.com/woozymasta/basisview/internal/transcoder"
)

// Descriptor pairs a GPU upload format with a transcoder target.
type Descriptor struct {
	// GLFormat is the internal format passed to the upload call.
	GLFormat uint32
	// Target is the transcoder format producing the upload data.
	Target transcoder.Format
	// Name is the label shown in the format selector.
	Name string
	// Compressed selects the block-compressed upload path.
	Compressed bool
}

// Selector labels.
const (
	NameRGBA32    = "RGBA32"
	NameRGB565    = "RGB565"
	NameASTC      = "ASTC"
	NameETC2      = "ETC2"
	NameBC3       = "BC3"
	NameBC1       = "BC1"
	NamePVRTCRGBA = "PVRTC_RGBA"
	NamePVRTCRGB  = "PVRTC_RGB"
	NameETC1      = "ETC1"
)

var catalog = map[transcoder.Format]Descriptor{
	transcoder.FormatRGBA32:     {GLFormat: gpu.RGBA, Target: transcoder.FormatRGBA32, Name: NameRGBA32},
	transcoder.FormatRGB565:     {GLFormat: gpu.RGB565, Target: transcoder.FormatRGB565, Name: NameRGB565},
	transcoder.FormatASTC4x4:    {GLFormat: gpu.CompressedRGBAASTC4x4, Target: transcoder.FormatASTC4x4, Name: NameASTC, Compressed: true},
	transcoder.FormatETC2:       {GLFormat: gpu.CompressedRGBA8ETC2EAC, Target: transcoder.FormatETC2, Name: NameETC2, Compressed: true},
	transcoder.FormatBC3:        {GLFormat: gpu.CompressedRGBAS3TCDXT5, Target: transcoder.FormatBC3, Name: NameBC3, Compressed: true},
	transcoder.FormatBC1:        {GLFormat: gpu.CompressedRGBS3TCDXT1, Target: transcoder.FormatBC1, Name: NameBC1, Compressed: true},
	transcoder.FormatPVRTC1RGBA: {GLFormat: gpu.CompressedRGBAPVRTC4BPPV1, Target: transcoder.FormatPVRTC1RGBA, Name: NamePVRTCRGBA, Compressed: true},
	transcoder.FormatPVRTC1RGB:  {GLFormat: gpu.CompressedRGBPVRTC4BPPV1, Target: transcoder.FormatPVRTC1RGB, Name: NamePVRTCRGB, Compressed: true},
	transcoder.FormatETC1:       {GLFormat: gpu.CompressedRGBETC1, Target: transcoder.FormatETC1, Name: NameETC1, Compressed: true},
}

// DescriptorFor returns the descriptor for a transcoder target, if the
// target has a GPU mapping.
func DescriptorFor(f transcoder.Format) (Descriptor, bool) {
	d, ok := catalog[f]
	return d, ok
}

// Lookup finds the descriptor named name in list.
func Lookup(list []Descriptor, name string) (Descriptor, bool) {
	for _, d := range list {
		if d.Name == name {
			return d, true
		}
	}

	return Descriptor{}, false
}

// Canonical resolves name to a selector label. It accepts labels in any case
// and transcoder target names such as "ASTC_4x4" or "PVRTC1_4_RGBA".
func Canonical(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, d := range catalog {
		if strings.EqualFold(d.Name, name) {
			return d.Name, true
		}
	}

	f, err := transcoder.ParseFormat(name)
	if err != nil {
		return "", false
	}
	d, ok := DescriptorFor(f)
	if !ok {
		return "", false
	}

	return d.Name, true
}

// Names returns the selector labels of list in order.
func Names(list []Descriptor) []string {
	names := make([]string, len(list))
	for i, d := range list {
		names[i] = d.Name
	}

	return names
}
