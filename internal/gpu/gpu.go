// Package gpu describes the graphics context used to show textures.
//
// The interface follows the WebGL call surface closely: textures, programs and
// buffers are opaque handles, and uploads take GL format enums. A zero handle
// means "none".
package gpu

// Texture is a texture handle.
type Texture uint32

// Program is a linked shader program handle.
type Program uint32

// Buffer is a vertex buffer handle.
type Buffer uint32

// Compressed texture formats exposed by the compressed texture extensions.
const (
	CompressedRGBAASTC4x4     uint32 = 0x93B0
	CompressedRGBS3TCDXT1     uint32 = 0x83F0
	CompressedRGBAS3TCDXT5    uint32 = 0x83F3
	CompressedRGBETC1         uint32 = 0x8D64
	CompressedRGBA8ETC2EAC    uint32 = 0x9278
	CompressedRGBPVRTC4BPPV1  uint32 = 0x8C00
	CompressedRGBAPVRTC4BPPV1 uint32 = 0x8C02
)

// Uncompressed formats and pixel types.
const (
	RGB              uint32 = 0x1907
	RGBA             uint32 = 0x1908
	RGB565           uint32 = 0x8D62
	UnsignedByte     uint32 = 0x1401
	UnsignedShort565 uint32 = 0x8363
)

// Texture parameters.
const (
	TextureMagFilter uint32 = 0x2800
	TextureMinFilter uint32 = 0x2801
	TextureWrapS     uint32 = 0x2802
	TextureWrapT     uint32 = 0x2803
	Nearest          uint32 = 0x2600
	Linear           uint32 = 0x2601
	ClampToEdge      uint32 = 0x812F
	Repeat           uint32 = 0x2901
)

// Extension names probed for compressed texture support.
const (
	ExtASTC        = "WEBGL_compressed_texture_astc"
	ExtETC1        = "WEBGL_compressed_texture_etc1"
	ExtETC         = "WEBGL_compressed_texture_etc"
	ExtS3TC        = "WEBGL_compressed_texture_s3tc"
	ExtPVRTC       = "WEBGL_compressed_texture_pvrtc"
	ExtPVRTCWebKit = "WEBKIT_WEBGL_compressed_texture_pvrtc"
)

// Device is a graphics context bound to one drawing surface.
//
// Devices are not safe for concurrent use; callers serialize access.
type Device interface {
	// Extension reports whether the named extension is available.
	Extension(name string) bool

	CreateTexture() (Texture, error)
	DeleteTexture(tex Texture)
	// CompressedTexImage2D uploads block-compressed data verbatim.
	CompressedTexImage2D(tex Texture, format uint32, width, height int, data []byte) error
	// TexImage2D uploads raw pixels. For UnsignedShort565 data holds
	// little-endian 16-bit words.
	TexImage2D(tex Texture, internalFormat uint32, width, height int, format, pixelType uint32, data []byte) error
	TexParameter(tex Texture, pname, param uint32)

	CreateProgram(vertexSrc, fragmentSrc string) (Program, error)
	DeleteProgram(p Program)
	// CreateBuffer stores vertex positions as xyz triples.
	CreateBuffer(positions []float32) (Buffer, error)
	DeleteBuffer(b Buffer)

	Viewport(width, height int)
	Clear()
	// DrawArrays draws the triangles in b with tex bound, passing resolution
	// to the fragment stage.
	DrawArrays(p Program, b Buffer, tex Texture, resolution [2]float32) error
}

// VertexShader passes positions through unchanged.
const VertexShader = `
attribute vec3 position;

void main()
{
  gl_Position = vec4(position, 1.0);
}
`

// FragmentShader samples the bound texture by normalized screen coordinate.
const FragmentShader = `
#ifdef GL_ES
precision mediump float;
#endif

uniform vec2 resolution;
uniform sampler2D tex;

void main()
{
  vec2 p = gl_FragCoord.xy / resolution;
  gl_FragColor = texture2D(tex, p);
}
`

// QuadPositions are two triangles covering clip space.
var QuadPositions = []float32{
	-1, -1, 0,
	1, -1, 0,
	-1, 1, 0,
	-1, 1, 0,
	1, -1, 0,
	1, 1, 0,
}
