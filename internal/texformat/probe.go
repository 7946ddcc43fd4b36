package texformat

import (
	"github.com/woozymasta/basisview/internal/gpu"
	"github.com/woozymasta/basisview/internal/transcoder"
)

// ExtensionQuerier reports graphics extensions.
type ExtensionQuerier interface {
	Extension(name string) bool
}

// Capabilities records which compressed families the device supports.
type Capabilities struct {
	ASTC  bool
	ETC1  bool
	ETC2  bool
	DXT   bool
	PVRTC bool
}

// QueryCapabilities asks q for each compressed texture extension. PVRTC is
// available under either of its two extension names.
func QueryCapabilities(q ExtensionQuerier) Capabilities {
	return Capabilities{
		ASTC:  q.Extension(gpu.ExtASTC),
		ETC1:  q.Extension(gpu.ExtETC1),
		ETC2:  q.Extension(gpu.ExtETC),
		DXT:   q.Extension(gpu.ExtS3TC),
		PVRTC: q.Extension(gpu.ExtPVRTC) || q.Extension(gpu.ExtPVRTCWebKit),
	}
}

// Supported returns the format list for caps. Uncompressed formats always
// come first; the order of the rest is fixed and drives default selection.
func (c Capabilities) Supported() []Descriptor {
	order := []struct {
		on     bool
		target transcoder.Format
	}{
		{true, transcoder.FormatRGBA32},
		{true, transcoder.FormatRGB565},
		{c.ASTC, transcoder.FormatASTC4x4},
		{c.ETC2, transcoder.FormatETC2},
		{c.DXT, transcoder.FormatBC3},
		{c.DXT, transcoder.FormatBC1},
		{c.PVRTC, transcoder.FormatPVRTC1RGBA},
		{c.PVRTC, transcoder.FormatPVRTC1RGB},
		{c.ETC1, transcoder.FormatETC1},
	}

	list := make([]Descriptor, 0, len(order))
	for _, o := range order {
		if o.on {
			list = append(list, catalog[o.target])
		}
	}

	return list
}

// Probe queries q and returns the supported format list.
func Probe(q ExtensionQuerier) []Descriptor {
	return QueryCapabilities(q).Supported()
}

// All returns every selectable format in priority order.
func All() []Descriptor {
	return Capabilities{ASTC: true, ETC1: true, ETC2: true, DXT: true, PVRTC: true}.Supported()
}
