package wasmbasis

import (
	"go.uber.org/zap"

	"github.com/woozymasta/basisview/internal/transcoder"
)

// session wraps one guest handle. A zero handle is a container the guest
// never opened.
type session struct {
	m      *Module
	handle uint32
	data   uint32

	closed  bool
	deleted bool
}

func (s *session) live() bool {
	return s.handle != 0 && !s.closed
}

func u64(n int) uint64 {
	return uint64(uint32(n)) // #nosec G115 -- guest ABI is 32-bit.
}

func (s *session) HasAlpha() bool {
	return s.live() && s.m.query(exportHasAlpha, uint64(s.handle)) != 0
}

func (s *session) NumImages() int {
	if !s.live() {
		return 0
	}
	return s.m.query(exportNumImages, uint64(s.handle))
}

func (s *session) NumLevels(image int) int {
	if !s.live() {
		return 0
	}
	return s.m.query(exportNumLevels, uint64(s.handle), u64(image))
}

func (s *session) ImageWidth(image, level int) int {
	if !s.live() {
		return 0
	}
	return s.m.query(exportImageWidth, uint64(s.handle), u64(image), u64(level))
}

func (s *session) ImageHeight(image, level int) int {
	if !s.live() {
		return 0
	}
	return s.m.query(exportImageHeight, uint64(s.handle), u64(image), u64(level))
}

func (s *session) TranscodedSize(image, level int, format transcoder.Format) int {
	if !s.live() {
		return 0
	}
	return s.m.query(exportTranscodedSize, uint64(s.handle), u64(image), u64(level), u64(int(format)))
}

func (s *session) StartTranscoding() bool {
	return s.live() && s.m.query(exportStart, uint64(s.handle)) != 0
}

// Transcode runs the guest transcoder into a scratch guest buffer and
// copies it into dst on success.
func (s *session) Transcode(dst []byte, image, level int, format transcoder.Format) bool {
	if !s.live() || len(dst) == 0 {
		return false
	}

	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	ptr, err := m.malloc(len(dst))
	if err != nil {
		m.log.Warn("failed to allocate transcode buffer", zap.Int("bytes", len(dst)), zap.Error(err))
		return false
	}
	defer m.free(ptr)

	ok, err := m.invoke(exportTranscode,
		uint64(s.handle), uint64(ptr), u64(len(dst)),
		u64(image), u64(level), u64(int(format)), 0, 0)
	if err != nil {
		m.log.Warn("transcode call failed", zap.Stringer("target", format), zap.Error(err))
		return false
	}
	if ok == 0 {
		return false
	}

	out, readOK := m.mod.Memory().Read(ptr, uint32(len(dst))) // #nosec G115 -- bounded by malloc.
	if !readOK {
		m.log.Warn("transcode buffer out of range", zap.Uint32("ptr", ptr), zap.Int("bytes", len(dst)))
		return false
	}
	copy(dst, out)

	return true
}

func (s *session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if s.handle != 0 {
		s.m.query(exportClose, uint64(s.handle))
	}
}

func (s *session) Delete() {
	if s.deleted {
		return
	}
	s.deleted = true

	if s.handle != 0 {
		s.m.query(exportDelete, uint64(s.handle))
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.free(s.data)
}
