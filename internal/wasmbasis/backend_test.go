package wasmbasis

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/woozymasta/basisview/internal/transcoder"
)

const i32 = 0x7f

// stubFunc is one exported guest function with its raw body expression.
type stubFunc struct {
	name    string
	params  int
	results int
	body    []byte
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func vec(items ...[]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func section(id byte, content []byte) []byte {
	out := append([]byte{id}, uleb(uint32(len(content)))...)
	return append(out, content...)
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

// constBody returns v.
func constBody(v int32) []byte {
	return append(append([]byte{0x41}, sleb(v)...), 0x0b)
}

// localBody returns parameter i.
func localBody(i uint32) []byte {
	return append(append([]byte{0x20}, uleb(i)...), 0x0b)
}

// fillBody fills (param 1, param 2) with b and returns 1.
func fillBody(b int32) []byte {
	body := []byte{0x20, 0x01, 0x41}
	body = append(body, sleb(b)...)
	body = append(body, 0x20, 0x02, 0xfc, 0x0b, 0x00)
	return append(body, constBody(1)...)
}

// buildModule assembles a module exporting one page of memory and funcs.
func buildModule(funcs []stubFunc) []byte {
	var types, indices, exports, codes [][]byte
	for i, f := range funcs {
		params := make([]byte, f.params)
		results := make([]byte, f.results)
		for j := range params {
			params[j] = i32
		}
		for j := range results {
			results[j] = i32
		}
		types = append(types, append(append([]byte{0x60}, vec(bytesOf(params)...)...), vec(bytesOf(results)...)...))
		indices = append(indices, uleb(uint32(i)))
		exports = append(exports, append(append(name(f.name), 0x00), uleb(uint32(i))...))

		code := append([]byte{0x00}, f.body...)
		codes = append(codes, append(uleb(uint32(len(code))), code...))
	}
	exports = append(exports, append(name("memory"), 0x02, 0x00))

	mod := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}
	mod = append(mod, section(1, vec(types...))...)
	mod = append(mod, section(3, vec(indices...))...)
	mod = append(mod, section(5, vec([]byte{0x00, 0x01}))...)
	mod = append(mod, section(7, vec(exports...))...)
	mod = append(mod, section(10, vec(codes...))...)

	return mod
}

func bytesOf(bs []byte) [][]byte {
	out := make([][]byte, len(bs))
	for i, b := range bs {
		out[i] = []byte{b}
	}
	return out
}

// stubTranscoder reports a 4x2 single image with 3 levels and fills
// transcode output with 0xAB. overrides replace bodies by export name.
func stubTranscoder(overrides map[string][]byte, omit ...string) []byte {
	funcs := []stubFunc{
		{name: exportMalloc, params: 1, results: 1, body: constBody(1024)},
		{name: exportFree, params: 1, body: []byte{0x0b}},
		{name: exportInit, body: []byte{0x0b}},
		{name: exportOpen, params: 2, results: 1, body: localBody(1)},
		{name: exportHasAlpha, params: 1, results: 1, body: constBody(1)},
		{name: exportNumImages, params: 1, results: 1, body: constBody(1)},
		{name: exportNumLevels, params: 2, results: 1, body: constBody(3)},
		{name: exportImageWidth, params: 3, results: 1, body: constBody(4)},
		{name: exportImageHeight, params: 3, results: 1, body: constBody(2)},
		{name: exportTranscodedSize, params: 4, results: 1, body: constBody(32)},
		{name: exportStart, params: 1, results: 1, body: constBody(1)},
		{name: exportTranscode, params: 8, results: 1, body: fillBody(0xab)},
		{name: exportClose, params: 1, body: []byte{0x0b}},
		{name: exportDelete, params: 1, body: []byte{0x0b}},
	}

	var kept []stubFunc
	for _, f := range funcs {
		skip := false
		for _, o := range omit {
			skip = skip || o == f.name
		}
		if skip {
			continue
		}
		if body, ok := overrides[f.name]; ok {
			f.body = body
		}
		kept = append(kept, f)
	}

	return buildModule(kept)
}

func load(t *testing.T, wasm []byte) *Module {
	t.Helper()

	ctx := context.Background()
	factory, err := New(wasm).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := factory.(*Module)
	t.Cleanup(func() { _ = m.Close(ctx) })

	return m
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wasm    []byte
		wantErr error
	}{
		{name: "empty", wasm: nil, wantErr: ErrNoModule},
		{name: "garbage", wasm: []byte("not wasm at all"), wantErr: ErrCompile},
		{name: "missing-export", wasm: stubTranscoder(nil, exportTranscode), wantErr: ErrMissingExport},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tc.wasm).Load(context.Background())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSessionOverStub(t *testing.T) {
	t.Parallel()

	m := load(t, stubTranscoder(nil))
	data := []byte("container bytes")

	s := m.Open(data)
	defer transcoder.Release(s)

	if !s.HasAlpha() || s.NumImages() != 1 || s.NumLevels(0) != 3 {
		t.Fatalf("alpha=%v images=%d levels=%d", s.HasAlpha(), s.NumImages(), s.NumLevels(0))
	}
	if s.ImageWidth(0, 0) != 4 || s.ImageHeight(0, 0) != 2 {
		t.Fatalf("size = %dx%d, want 4x2", s.ImageWidth(0, 0), s.ImageHeight(0, 0))
	}
	if !s.StartTranscoding() {
		t.Fatalf("StartTranscoding failed")
	}

	size := s.TranscodedSize(0, 0, transcoder.FormatRGBA32)
	if size != 32 {
		t.Fatalf("TranscodedSize = %d, want 32", size)
	}

	dst := make([]byte, size)
	if !s.Transcode(dst, 0, 0, transcoder.FormatRGBA32) {
		t.Fatalf("Transcode failed")
	}
	if !bytes.Equal(dst, bytes.Repeat([]byte{0xab}, size)) {
		t.Fatalf("unexpected output % x", dst)
	}
}

func TestStartFailure(t *testing.T) {
	t.Parallel()

	m := load(t, stubTranscoder(map[string][]byte{
		exportStart:     constBody(0),
		exportTranscode: constBody(0),
	}))

	s := m.Open([]byte{1, 2, 3})
	defer transcoder.Release(s)

	if s.StartTranscoding() {
		t.Fatalf("StartTranscoding succeeded")
	}
	dst := make([]byte, 8)
	if s.Transcode(dst, 0, 0, transcoder.FormatBC1) {
		t.Fatalf("Transcode succeeded")
	}
	if !bytes.Equal(dst, make([]byte, 8)) {
		t.Fatalf("failed transcode wrote output")
	}
}

func TestOpenFailureYieldsEmptySession(t *testing.T) {
	t.Parallel()

	m := load(t, stubTranscoder(map[string][]byte{exportMalloc: constBody(0)}))

	s := m.Open([]byte{1, 2, 3})
	defer transcoder.Release(s)

	if s.StartTranscoding() || s.ImageWidth(0, 0) != 0 || s.NumImages() != 0 {
		t.Fatalf("session over unopened container reported content")
	}
}

func TestClosedSessionIsInert(t *testing.T) {
	t.Parallel()

	m := load(t, stubTranscoder(nil))

	s := m.Open([]byte{1, 2, 3})
	s.Close()
	s.Close()
	s.Delete()
	s.Delete()

	if s.StartTranscoding() || s.Transcode(make([]byte, 4), 0, 0, transcoder.FormatRGBA32) {
		t.Fatalf("closed session still transcodes")
	}
}

func TestLoaderOverModule(t *testing.T) {
	t.Parallel()

	loader := transcoder.NewLoader(New(stubTranscoder(nil)), nil)
	factory, err := loader.Initialize(context.Background())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = factory.(*Module).Close(context.Background()) })

	err = transcoder.With(loader, []byte("abc"), func(s transcoder.Session) error {
		if s.ImageWidth(0, 0) != 4 {
			t.Errorf("width = %d, want 4", s.ImageWidth(0, 0))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}
