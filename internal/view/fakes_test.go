package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/woozymasta/basisview/internal/gpu"
	"github.com/woozymasta/basisview/internal/gpu/soft"
	"github.com/woozymasta/basisview/internal/transcoder"
)

// fakeSession reports fixed dimensions and fills RGBA32 output with fill.
type fakeSession struct {
	mu          sync.Mutex
	width       int
	height      int
	startOK     bool
	transcodeOK bool
	fill        [4]byte

	closes     int
	deletes    int
	transcoded []transcoder.Format
}

func (s *fakeSession) HasAlpha() bool { return false }
func (s *fakeSession) NumImages() int { return 1 }
func (s *fakeSession) NumLevels(int) int { return 1 }
func (s *fakeSession) ImageWidth(_, _ int) int { return s.width }
func (s *fakeSession) ImageHeight(_, _ int) int { return s.height }
func (s *fakeSession) StartTranscoding() bool { return s.startOK }

func (s *fakeSession) TranscodedSize(_, _ int, f transcoder.Format) int {
	blocks := ((s.width + 3) / 4) * ((s.height + 3) / 4)
	switch f {
	case transcoder.FormatRGBA32:
		return s.width * s.height * 4
	case transcoder.FormatRGB565:
		return s.width * s.height * 2
	case transcoder.FormatBC1, transcoder.FormatETC1:
		return blocks * 8
	default:
		return blocks * 16
	}
}

func (s *fakeSession) Transcode(dst []byte, _, _ int, f transcoder.Format) bool {
	s.mu.Lock()
	s.transcoded = append(s.transcoded, f)
	s.mu.Unlock()

	if !s.transcodeOK {
		return false
	}
	if f == transcoder.FormatRGBA32 {
		for i := 0; i+3 < len(dst); i += 4 {
			copy(dst[i:i+4], s.fill[:])
		}
	}
	return true
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
}

func (s *fakeSession) Delete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
}

// fakeSessions opens a new fakeSession from its template per call.
type fakeSessions struct {
	mu       sync.Mutex
	notReady bool
	template fakeSession
	opened   []*fakeSession
	inputs   [][]byte
}

func newFakeSessions(w, h int) *fakeSessions {
	return &fakeSessions{template: fakeSession{
		width:       w,
		height:      h,
		startOK:     true,
		transcodeOK: true,
		fill:        [4]byte{200, 100, 50, 255},
	}}
}

func (f *fakeSessions) CreateSession(data []byte) transcoder.Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.notReady {
		return nil
	}
	s := &fakeSession{
		width:       f.template.width,
		height:      f.template.height,
		startOK:     f.template.startOK,
		transcodeOK: f.template.transcodeOK,
		fill:        f.template.fill,
	}
	f.opened = append(f.opened, s)
	f.inputs = append(f.inputs, data)
	return s
}

func (f *fakeSessions) all() []*fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeSession(nil), f.opened...)
}

// fakeFetcher serves fixed payloads. A gated source blocks until its gate is
// closed or the fetch context ends.
type fakeFetcher struct {
	mu      sync.Mutex
	data    map[string][]byte
	gates   map[string]chan struct{}
	calls   map[string]int
	onFetch func(src string)
}

func newFakeFetcher(data map[string][]byte) *fakeFetcher {
	return &fakeFetcher{
		data:  data,
		gates: make(map[string]chan struct{}),
		calls: make(map[string]int),
	}
}

func (f *fakeFetcher) gate(src string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[src] = ch
	return ch
}

func (f *fakeFetcher) count(src string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[src]
}

func (f *fakeFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	f.mu.Lock()
	f.calls[src]++
	gate := f.gates[src]
	data, ok := f.data[src]
	hook := f.onFetch
	f.mu.Unlock()

	if hook != nil {
		hook(src)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, fmt.Errorf("no such source %q", src)
	}
	return data, nil
}

// trackingDevice records the texture high-water mark.
type trackingDevice struct {
	*soft.Device

	mu      sync.Mutex
	live    int
	maxLive int
	created int
}

func newTrackingDevice(opts ...soft.Option) *trackingDevice {
	return &trackingDevice{Device: soft.New(opts...)}
}

func (d *trackingDevice) CreateTexture() (gpu.Texture, error) {
	tex, err := d.Device.CreateTexture()
	if err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.live++
	d.created++
	d.maxLive = max(d.maxLive, d.live)
	return tex, nil
}

func (d *trackingDevice) DeleteTexture(tex gpu.Texture) {
	d.Device.DeleteTexture(tex)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.live--
}

func (d *trackingDevice) stats() (live, maxLive, created int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live, d.maxLive, d.created
}
