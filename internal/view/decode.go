package view

import (
	"errors"

	"go.uber.org/zap"

	"github.com/woozymasta/basisview/internal/gpu"
	"github.com/woozymasta/basisview/internal/texformat"
	"github.com/woozymasta/basisview/internal/transcoder"
)

// decoded is the output of one transcode of image 0, level 0.
type decoded struct {
	desc   texformat.Descriptor
	width  int
	height int
	data   []byte
}

// updateTexture decodes v.data into the format called name and uploads it
// as the view's texture. Failures are logged and leave the view blank.
// Callers hold v.mu and have cleared the previous texture.
func (v *View) updateTexture(name string) {
	out, err := v.transcode(name)
	switch {
	case errors.Is(err, transcoder.ErrNotReady):
		v.log.Error("transcoder not ready")
		v.blank(name, resultNotReady)
		return
	case errors.Is(err, errStartTranscoding):
		v.log.Error("failed to start transcoding", zap.String("src", v.state.Source))
		v.blank(name, resultStartFailed)
		return
	case errors.Is(err, errUnsupported):
		v.log.Debug("format not supported by device", zap.String("format", name))
		v.blank(name, resultUnsupported)
		return
	}

	result := resultOK
	if err != nil {
		// Transcode failures still upload whatever the buffer holds.
		result = resultTranscodeFailed
	}

	if uploadErr := v.upload(out); uploadErr != nil {
		v.log.Warn("failed to upload texture",
			zap.String("format", name),
			zap.Int("width", out.width),
			zap.Int("height", out.height),
			zap.Error(uploadErr))
		result = resultUploadFailed
	}

	v.state.Width = out.width
	v.state.Height = out.height
	v.state.CompressedSize = len(v.data)
	v.state.DecodedSize = len(out.data)
	v.state.Format = name
	if v.tex != 0 && result != resultUploadFailed {
		v.state.Phase = PhaseDecoded
	} else {
		v.state.Phase = PhaseBlank
	}

	v.metrics.Decodes.WithLabelValues(name, result).Inc()
}

// transcode runs one session over v.data. The session is released before
// transcode returns, on every path.
func (v *View) transcode(name string) (decoded, error) {
	var out decoded

	err := transcoder.With(v.sessions, v.data, func(s transcoder.Session) error {
		out.width = s.ImageWidth(0, 0)
		out.height = s.ImageHeight(0, 0)

		if !s.StartTranscoding() {
			return errStartTranscoding
		}

		desc, ok := texformat.Lookup(v.formats, name)
		if !ok {
			return errUnsupported
		}
		out.desc = desc

		size := s.TranscodedSize(0, 0, desc.Target)
		if size < 0 {
			size = 0
		}
		out.data = make([]byte, size)

		if !s.Transcode(out.data, 0, 0, desc.Target) {
			v.log.Error("failed to transcode image",
				zap.String("src", v.state.Source),
				zap.Stringer("target", desc.Target))
			return errTranscode
		}

		return nil
	})

	return out, err
}

// upload creates the view's texture from out.
func (v *View) upload(out decoded) error {
	tex, err := v.dev.CreateTexture()
	if err != nil {
		return err
	}
	v.tex = tex
	v.metrics.Textures.Inc()

	desc := out.desc
	switch {
	case desc.Compressed:
		err = v.dev.CompressedTexImage2D(tex, desc.GLFormat, out.width, out.height, out.data)
	case desc.Target == transcoder.FormatRGBA32:
		err = v.dev.TexImage2D(tex, desc.GLFormat, out.width, out.height, gpu.RGBA, gpu.UnsignedByte, out.data)
	case desc.Target == transcoder.FormatRGB565:
		err = v.dev.TexImage2D(tex, desc.GLFormat, out.width, out.height, gpu.RGB, gpu.UnsignedShort565, out.data)
	}

	v.dev.TexParameter(tex, gpu.TextureMagFilter, gpu.Linear)
	v.dev.TexParameter(tex, gpu.TextureMinFilter, gpu.Linear)
	v.dev.TexParameter(tex, gpu.TextureWrapS, gpu.ClampToEdge)
	v.dev.TexParameter(tex, gpu.TextureWrapT, gpu.ClampToEdge)

	return err
}

// blank records a decode that produced no texture.
func (v *View) blank(format, result string) {
	v.state.Format = format
	v.state.Phase = PhaseBlank
	v.metrics.Decodes.WithLabelValues(format, result).Inc()
}
