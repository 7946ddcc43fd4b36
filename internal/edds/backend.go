package edds

import (
	"context"
	"encoding/binary"
	"image"

	"github.com/woozymasta/bcn"
	"go.uber.org/zap"

	"github.com/woozymasta/basisview/internal/transcoder"
)

// Backend serves EDDS containers as transcoder sessions. It needs no setup,
// so Load returns the backend itself as the factory.
type Backend struct {
	// DecodeOptions are passed to bcn when a level is decoded.
	DecodeOptions *bcn.DecodeOptions
	// EncodeOptions are passed to bcn for BC1 and BC3 targets.
	EncodeOptions *bcn.EncodeOptions

	log *zap.Logger
}

var (
	_ transcoder.Backend = (*Backend)(nil)
	_ transcoder.Factory = (*Backend)(nil)
)

// NewBackend creates a backend. A nil logger disables logging.
func NewBackend(log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}

	return &Backend{log: log}
}

// Load implements transcoder.Backend.
func (b *Backend) Load(ctx context.Context) (transcoder.Factory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}

	return b, nil
}

// Open implements transcoder.Factory. It never returns nil: a container
// that fails to parse yields a session that refuses to start and reports
// zero dimensions.
func (b *Backend) Open(data []byte) transcoder.Session {
	c, err := Parse(data)
	if err != nil {
		b.log.Debug("failed to parse container", zap.Int("bytes", len(data)), zap.Error(err))
	}

	return &session{backend: b, container: c, err: err}
}

type session struct {
	backend   *Backend
	container *Container
	err       error
	started   bool
	closed    bool

	decoded map[int]*image.NRGBA
}

func (s *session) usable() bool {
	return s.err == nil && s.container != nil && !s.closed
}

// level returns the dimensions of image/level, or false when out of range.
func (s *session) level(img, level int) (int, int, bool) {
	if !s.usable() || img != 0 || level < 0 || level >= s.container.Levels() {
		return 0, 0, false
	}

	w, h := s.container.LevelSize(level)
	return w, h, true
}

func (s *session) HasAlpha() bool {
	return s.usable() && hasAlpha(s.container.Format)
}

func (s *session) NumImages() int {
	if !s.usable() {
		return 0
	}
	return 1
}

func (s *session) NumLevels(img int) int {
	if !s.usable() || img != 0 {
		return 0
	}
	return s.container.Levels()
}

func (s *session) ImageWidth(img, level int) int {
	w, _, _ := s.level(img, level)
	return w
}

func (s *session) ImageHeight(img, level int) int {
	_, h, _ := s.level(img, level)
	return h
}

func (s *session) TranscodedSize(img, level int, format transcoder.Format) int {
	w, h, ok := s.level(img, level)
	if !ok {
		return 0
	}

	return targetSize(format, w, h)
}

func (s *session) StartTranscoding() bool {
	if !s.usable() {
		return false
	}

	s.started = true
	return true
}

func (s *session) Transcode(dst []byte, img, level int, format transcoder.Format) bool {
	w, h, ok := s.level(img, level)
	if !ok || !s.started {
		return false
	}

	size := targetSize(format, w, h)
	if size == 0 || len(dst) < size {
		return false
	}

	src, err := s.image(level)
	if err != nil {
		s.backend.log.Debug("failed to decode level", zap.Int("level", level), zap.Error(err))
		return false
	}

	switch format {
	case transcoder.FormatRGBA32:
		copy(dst, src.Pix)
	case transcoder.FormatRGB565:
		packRGB565(dst, src)
	case transcoder.FormatBC1, transcoder.FormatBC3:
		bf := bcn.FormatDXT1
		if format == transcoder.FormatBC3 {
			bf = bcn.FormatDXT5
		}
		data, _, _, err := bcn.EncodeImageWithOptions(src, bf, s.backend.EncodeOptions)
		if err != nil || len(data) > len(dst) {
			s.backend.log.Debug("failed to encode level",
				zap.Stringer("target", format),
				zap.Int("bytes", len(data)),
				zap.Error(err))
			return false
		}
		copy(dst, data)
	}

	return true
}

// image returns level decoded to NRGBA, cached for the session.
func (s *session) image(level int) (*image.NRGBA, error) {
	if img, ok := s.decoded[level]; ok {
		return img, nil
	}

	img, err := s.container.Image(level, s.backend.DecodeOptions)
	if err != nil {
		return nil, err
	}
	if s.decoded == nil {
		s.decoded = make(map[int]*image.NRGBA)
	}
	s.decoded[level] = img

	return img, nil
}

func (s *session) Close() {
	s.closed = true
	s.decoded = nil
}

func (s *session) Delete() {
	s.container = nil
}

// targetSize is the output size of format at w x h, or 0 when the backend
// cannot produce format.
func targetSize(format transcoder.Format, w, h int) int {
	switch format {
	case transcoder.FormatRGBA32:
		return w * h * 4
	case transcoder.FormatRGB565:
		return w * h * 2
	case transcoder.FormatBC1:
		return blockCount(w, h) * 8
	case transcoder.FormatBC3:
		return blockCount(w, h) * 16
	default:
		return 0
	}
}

// packRGB565 writes img as little-endian RGB565 into dst.
func packRGB565(dst []byte, img *image.NRGBA) {
	b := img.Bounds()
	i := 0
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl := row[x*4], row[x*4+1], row[x*4+2]
			v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(bl>>3)
			binary.LittleEndian.PutUint16(dst[i:], v)
			i += 2
		}
	}
}
