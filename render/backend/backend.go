// Package backend abstracts the GPU APIs the render pipeline can run on.
// Everything above this package talks to a single GraphicsBackend interface
// and holds resources through opaque handles; no backend-specific type ever
// leaks upward.
package backend

import "errors"

// ErrUnsupported is returned for operations a backend cannot perform,
// such as occlusion queries on WebGPU. Callers treat it as "feature off",
// never as a fatal condition.
var ErrUnsupported = errors.New("backend: operation not supported")

// Handles are backend-local resource ids. Zero is always invalid, which
// lets callers use the zero value as "no resource" without a separate flag.
type (
	BufferHandle  uint64
	TextureHandle uint64
	ShaderHandle  uint64
	TargetHandle  uint64
	QueryHandle   uint64
)

func (h BufferHandle) Valid() bool  { return h != 0 }
func (h TextureHandle) Valid() bool { return h != 0 }
func (h ShaderHandle) Valid() bool  { return h != 0 }
func (h TargetHandle) Valid() bool  { return h != 0 }
func (h QueryHandle) Valid() bool   { return h != 0 }

type BufferUsage uint32

const (
	BufferVertex BufferUsage = 1 << iota
	BufferIndex
	BufferUniform
	BufferStorage
)

type TextureFormat uint32

const (
	TextureRGBA8Unorm TextureFormat = iota
	TextureRGBA16Float
	TextureDepth32Float
)

// TextureDesc describes a 2D or cube texture. MipLevels counts the levels
// actually uploaded; 1 means no mipmapping.
type TextureDesc struct {
	Label     string
	Width     uint32
	Height    uint32
	Format    TextureFormat
	MipLevels uint32
	Cube      bool
}

// TargetDesc describes an offscreen render target (G-buffer attachment,
// shadow map, post-process ping-pong buffer).
type TargetDesc struct {
	Label   string
	Width   uint32
	Height  uint32
	Format  TextureFormat
	Depth   bool
	Samples uint32
}

// Caps reports what the active backend can do. The pipeline gates features
// on these instead of probing backend identity.
type Caps struct {
	MaxTextureSize   uint32
	MaxBufferSize    uint64
	NPOTMipmaps      bool
	OcclusionQueries bool
}

// PassDesc opens a render pass. A zero Target draws to the surface.
type PassDesc struct {
	Label      string
	Target     TargetHandle
	Clear      bool
	ClearColor [4]float32
	ClearDepth bool
}

// Draw is one draw call. Vertices follow the engine-wide interleaved layout
// (see VertexStride); Uniforms is an opaque block bound at group 0.
// A valid Query wraps the draw in an occlusion query.
type Draw struct {
	Shader      ShaderHandle
	Vertices    BufferHandle
	Indices     BufferHandle
	IndexCount  uint32
	Uniforms    []byte
	Textures    []TextureHandle
	Blend       bool
	DepthWrite  bool
	Query       QueryHandle
}

// Engine-wide vertex layout: position float3, normal float3, uv float2,
// tangent float3. All backends compile their pipelines against this.
const (
	VertexFloats = 11
	VertexStride = VertexFloats * 4
)

// GraphicsBackend is the one seam between the pipeline and a GPU API.
// Implementations: webgpu (primary), opengl (legacy fallback), headless
// (no GPU; tests and CI).
//
// All methods must be called from the frame-loop goroutine; backends do
// not lock internally.
type GraphicsBackend interface {
	Name() string
	Caps() Caps

	CreateBuffer(label string, data []byte, usage BufferUsage) (BufferHandle, error)
	WriteBuffer(h BufferHandle, offset uint64, data []byte) error
	DestroyBuffer(h BufferHandle)

	// CreateTexture uploads mip level 0..MipLevels-1 from mips. For cube
	// textures mips holds 6 face images per level, +X -X +Y -Y +Z -Z.
	CreateTexture(desc TextureDesc, mips [][]byte) (TextureHandle, error)
	DestroyTexture(h TextureHandle)

	// CompileShader builds a program from backend-native source. The error
	// carries the backend's diagnostic log verbatim.
	CompileShader(label, source string) (ShaderHandle, error)
	DestroyShader(h ShaderHandle)

	CreateTarget(desc TargetDesc) (TargetHandle, error)
	// TargetTexture exposes a target's attachment (color, or depth for
	// depth-only targets) as a sampleable texture. The returned handle is
	// owned by the target and dies with it.
	TargetTexture(h TargetHandle) TextureHandle
	DestroyTarget(h TargetHandle)

	// Occlusion queries. CreateQuery returns ErrUnsupported when the
	// backend has none. QueryResult is non-blocking: ready reports whether
	// the GPU has produced the result yet.
	CreateQuery() (QueryHandle, error)
	QueryResult(h QueryHandle) (passed, ready bool)
	DestroyQuery(h QueryHandle)

	BeginFrame() error
	BeginPass(desc PassDesc) error
	Submit(d Draw) error
	EndPass() error
	EndFrame() error

	Resize(width, height uint32)
	Dispose()
}
