// Package soft implements gpu.Device on the CPU.
//
// Textures are expanded to NRGBA at upload time. BC1 and BC3 data is decoded
// with bcn, so the device advertises S3TC by default; other compressed
// families can be advertised for probing but their uploads fail with
// ErrUnsupportedFormat.
package soft

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"

	"github.com/woozymasta/basisview/internal/gpu"
)

type texture struct {
	img       *image.NRGBA
	magFilter uint32
	minFilter uint32
	wrapS     uint32
	wrapT     uint32
}

// Device is a software gpu.Device with an NRGBA framebuffer.
type Device struct {
	mu         sync.Mutex
	extensions map[string]bool
	textures   map[gpu.Texture]*texture
	programs   map[gpu.Program]struct{}
	buffers    map[gpu.Buffer][]float32
	next       uint32
	frame      *image.NRGBA
	clearColor color.NRGBA
}

var _ gpu.Device = (*Device)(nil)

// Option configures a Device.
type Option func(*Device)

// WithExtensions replaces the advertised extension set.
func WithExtensions(names ...string) Option {
	return func(d *Device) {
		d.extensions = make(map[string]bool, len(names))
		for _, n := range names {
			d.extensions[n] = true
		}
	}
}

// WithClearColor sets the color used by Clear.
func WithClearColor(c color.NRGBA) Option {
	return func(d *Device) { d.clearColor = c }
}

// New creates a device with an empty 0x0 framebuffer.
func New(opts ...Option) *Device {
	d := &Device{
		extensions: map[string]bool{gpu.ExtS3TC: true},
		textures:   make(map[gpu.Texture]*texture),
		programs:   make(map[gpu.Program]struct{}),
		buffers:    make(map[gpu.Buffer][]float32),
		frame:      image.NewNRGBA(image.Rect(0, 0, 0, 0)),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Extension reports whether name is advertised.
func (d *Device) Extension(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.extensions[name]
}

// CreateTexture allocates an empty texture.
func (d *Device) CreateTexture() (gpu.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.next++
	tex := gpu.Texture(d.next)
	d.textures[tex] = &texture{
		magFilter: gpu.Linear,
		minFilter: gpu.Linear,
		wrapS:     gpu.Repeat,
		wrapT:     gpu.Repeat,
	}

	return tex, nil
}

// DeleteTexture frees tex. Unknown handles are ignored.
func (d *Device) DeleteTexture(tex gpu.Texture) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.textures, tex)
}

// LiveTextures returns the number of textures not yet deleted.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.textures)
}

// CompressedTexImage2D decodes block-compressed data into tex.
func (d *Device) CompressedTexImage2D(tex gpu.Texture, format uint32, width, height int, data []byte) error {
	img, err := decodeCompressed(format, width, height, data)
	if err != nil {
		return err
	}

	return d.store(tex, img)
}

// TexImage2D expands raw pixels into tex.
func (d *Device) TexImage2D(tex gpu.Texture, internalFormat uint32, width, height int, format, pixelType uint32, data []byte) error {
	img, err := decodeRaw(internalFormat, format, pixelType, width, height, data)
	if err != nil {
		return err
	}

	return d.store(tex, img)
}

func (d *Device) store(tex gpu.Texture, img *image.NRGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.textures[tex]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, tex)
	}
	t.img = img

	return nil
}

// TexParameter sets a sampler parameter on tex.
func (d *Device) TexParameter(tex gpu.Texture, pname, param uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.textures[tex]
	if !ok {
		return
	}

	switch pname {
	case gpu.TextureMagFilter:
		t.magFilter = param
	case gpu.TextureMinFilter:
		t.minFilter = param
	case gpu.TextureWrapS:
		t.wrapS = param
	case gpu.TextureWrapT:
		t.wrapT = param
	}
}

// CreateProgram accepts any shader pair; the draw path implements the
// passthrough quad program directly.
func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	if vertexSrc == "" || fragmentSrc == "" {
		return 0, ErrEmptyShader
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.next++
	p := gpu.Program(d.next)
	d.programs[p] = struct{}{}

	return p, nil
}

// DeleteProgram frees p.
func (d *Device) DeleteProgram(p gpu.Program) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.programs, p)
}

// CreateBuffer stores a copy of positions.
func (d *Device) CreateBuffer(positions []float32) (gpu.Buffer, error) {
	if len(positions) == 0 || len(positions)%9 != 0 {
		return 0, fmt.Errorf("%w: %d floats", ErrVertexCount, len(positions))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.next++
	b := gpu.Buffer(d.next)
	d.buffers[b] = append([]float32(nil), positions...)

	return b, nil
}

// DeleteBuffer frees b.
func (d *Device) DeleteBuffer(b gpu.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.buffers, b)
}

// Viewport resizes the framebuffer. Contents are kept when the size does not
// change.
func (d *Device) Viewport(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frame.Bounds().Dx() == width && d.frame.Bounds().Dy() == height {
		return
	}
	d.frame = image.NewNRGBA(image.Rect(0, 0, width, height))
}

// Clear fills the framebuffer with the clear color.
func (d *Device) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	draw.Draw(d.frame, d.frame.Bounds(), image.NewUniform(d.clearColor), image.Point{}, draw.Src)
}

// DrawArrays draws the buffer's triangles with tex sampled by
// framebuffer coordinate over resolution. The framebuffer origin is the
// top-left corner.
func (d *Device) DrawArrays(p gpu.Program, b gpu.Buffer, tex gpu.Texture, resolution [2]float32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.programs[p]; !ok {
		return fmt.Errorf("%w: program %d", ErrUnknownHandle, p)
	}
	positions, ok := d.buffers[b]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownHandle, b)
	}
	t, ok := d.textures[tex]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, tex)
	}
	if t.img == nil || resolution[0] <= 0 || resolution[1] <= 0 {
		return nil
	}

	area := coverage(positions, d.frame.Bounds()).Intersect(d.frame.Bounds())
	if area.Empty() {
		return nil
	}

	texArea := image.Rect(0, 0, int(resolution[0]), int(resolution[1]))
	scaled := image.NewNRGBA(texArea)
	interpolator(t).Scale(scaled, texArea, t.img, t.img.Bounds(), draw.Src, nil)

	draw.Draw(d.frame, area.Intersect(texArea), scaled, area.Intersect(texArea).Min, draw.Src)

	return nil
}

// Snapshot returns a copy of the framebuffer.
func (d *Device) Snapshot() *image.NRGBA {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := image.NewNRGBA(d.frame.Bounds())
	copy(out.Pix, d.frame.Pix)

	return out
}

// interpolator picks the scaler for t. Minification and magnification share
// one scaler, so the magnification filter decides.
func interpolator(t *texture) draw.Interpolator {
	if t.magFilter == gpu.Nearest {
		return draw.NearestNeighbor
	}

	return draw.BiLinear
}

// coverage returns the pixel rectangle bounding the clip-space triangles.
func coverage(positions []float32, viewport image.Rectangle) image.Rectangle {
	if len(positions) < 3 {
		return image.Rectangle{}
	}

	w := float32(viewport.Dx())
	h := float32(viewport.Dy())

	minX, minY := float32(1), float32(1)
	maxX, maxY := float32(-1), float32(-1)
	for i := 0; i+2 < len(positions); i += 3 {
		x, y := clamp(positions[i]), clamp(positions[i+1])
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}

	return image.Rect(
		int((minX+1)/2*w),
		int((1-maxY)/2*h),
		int((maxX+1)/2*w),
		int((1-minY)/2*h),
	)
}

func clamp(v float32) float32 {
	return max(-1, min(1, v))
}
