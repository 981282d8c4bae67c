package backend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// OpenGL is the legacy fallback backend. It is the one backend with
// occlusion query support; query results become available asynchronously,
// usually one or more frames after the query was issued, which is why the
// occlusion culler never assumes same-frame availability.
//
// Mipmap generation is restricted to power-of-two textures here; the
// texture manager checks Caps().NPOTMipmaps before requesting mip chains.
type OpenGL struct {
	width  uint32
	height uint32

	nextID   uint64
	buffers  map[BufferHandle]*glBuffer
	textures map[TextureHandle]*glTexture
	shaders  map[ShaderHandle]uint32
	targets  map[TargetHandle]*glTarget
	queries  map[QueryHandle]*glQuery

	vao        uint32
	inPass     bool
	passTarget TargetHandle
}

type glBuffer struct {
	id     uint32
	target uint32
	size   int
}

type glTexture struct {
	id     uint32
	target uint32
}

type glTarget struct {
	desc      TargetDesc
	fbo       uint32
	colorTex  uint32
	depthTex  uint32
	texHandle TextureHandle
}

type glQuery struct {
	id     uint32
	active bool
}

var _ GraphicsBackend = (*OpenGL)(nil)

// NewOpenGL initializes GL state for an already-current GL context.
// The caller (renderer façade) owns context creation via GLFW.
func NewOpenGL(width, height uint32) (*OpenGL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init failed: %w", err)
	}

	b := &OpenGL{
		width:    width,
		height:   height,
		buffers:  make(map[BufferHandle]*glBuffer),
		textures: make(map[TextureHandle]*glTexture),
		shaders:  make(map[ShaderHandle]uint32),
		targets:  make(map[TargetHandle]*glTarget),
		queries:  make(map[QueryHandle]*glQuery),
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	return b, nil
}

func (b *OpenGL) Name() string { return "opengl" }

func (b *OpenGL) Caps() Caps {
	var maxTex int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxTex)
	if maxTex <= 0 {
		maxTex = 4096
	}
	return Caps{
		MaxTextureSize:   uint32(maxTex),
		MaxBufferSize:    128 * 1024 * 1024,
		NPOTMipmaps:      false,
		OcclusionQueries: true,
	}
}

func (b *OpenGL) id() uint64 {
	b.nextID++
	return b.nextID
}

func (b *OpenGL) CreateBuffer(label string, data []byte, usage BufferUsage) (BufferHandle, error) {
	target := uint32(gl.ARRAY_BUFFER)
	switch {
	case usage&BufferIndex != 0:
		target = gl.ELEMENT_ARRAY_BUFFER
	case usage&BufferUniform != 0:
		target = gl.UNIFORM_BUFFER
	}

	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(target, id)
	if len(data) > 0 {
		gl.BufferData(target, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(target, 0)

	h := BufferHandle(b.id())
	b.buffers[h] = &glBuffer{id: id, target: target, size: len(data)}
	return h, nil
}

func (b *OpenGL) WriteBuffer(h BufferHandle, offset uint64, data []byte) error {
	buf, ok := b.buffers[h]
	if !ok {
		return fmt.Errorf("opengl: write to unknown buffer %d", h)
	}
	gl.BindBuffer(buf.target, buf.id)
	gl.BufferSubData(buf.target, int(offset), len(data), gl.Ptr(data))
	gl.BindBuffer(buf.target, 0)
	return nil
}

func (b *OpenGL) DestroyBuffer(h BufferHandle) {
	if buf, ok := b.buffers[h]; ok {
		gl.DeleteBuffers(1, &buf.id)
		delete(b.buffers, h)
	}
}

func glInternalFormat(f TextureFormat) int32 {
	switch f {
	case TextureRGBA16Float:
		return gl.RGBA16F
	case TextureDepth32Float:
		return gl.DEPTH_COMPONENT32F
	default:
		return gl.RGBA8
	}
}

func (b *OpenGL) CreateTexture(desc TextureDesc, mips [][]byte) (TextureHandle, error) {
	target := uint32(gl.TEXTURE_2D)
	if desc.Cube {
		target = gl.TEXTURE_CUBE_MAP
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(target, id)

	layers := 1
	if desc.Cube {
		layers = 6
	}

	w, h := int32(desc.Width), int32(desc.Height)
	idx := 0
	for level := uint32(0); level < desc.MipLevels; level++ {
		for layer := 0; layer < layers; layer++ {
			if idx >= len(mips) {
				break
			}
			face := target
			if desc.Cube {
				face = uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X + layer)
			}
			gl.TexImage2D(face, int32(level), glInternalFormat(desc.Format),
				w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(mips[idx]))
			idx++
		}
		if w > 1 {
			w /= 2
		}
		if h > 1 {
			h /= 2
		}
	}

	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if desc.MipLevels > 1 {
		gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(target, gl.TEXTURE_MAX_LEVEL, int32(desc.MipLevels-1))
	} else {
		gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.BindTexture(target, 0)

	th := TextureHandle(b.id())
	b.textures[th] = &glTexture{id: id, target: target}
	return th, nil
}

func (b *OpenGL) DestroyTexture(h TextureHandle) {
	if t, ok := b.textures[h]; ok {
		gl.DeleteTextures(1, &t.id)
		delete(b.textures, h)
	}
}

// CompileShader compiles the same source twice, once with VERTEX_SHADER
// defined and once with FRAGMENT_SHADER, then links. The compile and link
// logs are returned verbatim in the error.
func (b *OpenGL) CompileShader(label, source string) (ShaderHandle, error) {
	vert, err := compileStage("#version 410 core\n#define VERTEX_SHADER\n"+source, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("opengl: shader %q vertex stage: %w", label, err)
	}
	frag, err := compileStage("#version 410 core\n#define FRAGMENT_SHADER\n"+source, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("opengl: shader %q fragment stage: %w", label, err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("opengl: shader %q link: %s", label, strings.TrimRight(log, "\x00"))
	}

	h := ShaderHandle(b.id())
	b.shaders[h] = program
	return h, nil
}

func compileStage(source string, stage uint32) (uint32, error) {
	shader := gl.CreateShader(stage)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (b *OpenGL) DestroyShader(h ShaderHandle) {
	if p, ok := b.shaders[h]; ok {
		gl.DeleteProgram(p)
		delete(b.shaders, h)
	}
}

func (b *OpenGL) CreateTarget(desc TargetDesc) (TargetHandle, error) {
	t := &glTarget{desc: desc}
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	w, h := int32(desc.Width), int32(desc.Height)
	if desc.Format != TextureDepth32Float {
		gl.GenTextures(1, &t.colorTex)
		gl.BindTexture(gl.TEXTURE_2D, t.colorTex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, glInternalFormat(desc.Format), w, h, 0, gl.RGBA, gl.FLOAT, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.colorTex, 0)
	} else {
		// depth-only target (shadow map); white border keeps casters
		// outside the map unshadowed
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	if desc.Depth || desc.Format == TextureDepth32Float {
		gl.GenTextures(1, &t.depthTex)
		gl.BindTexture(gl.TEXTURE_2D, t.depthTex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F, w, h, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
		border := []float32{1, 1, 1, 1}
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.depthTex, 0)
	}

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		b.releaseTarget(t)
		return 0, fmt.Errorf("opengl: target %q incomplete: 0x%x", desc.Label, status)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	th := TargetHandle(b.id())
	b.targets[th] = t
	return th, nil
}

func (b *OpenGL) releaseTarget(t *glTarget) {
	if t.colorTex != 0 {
		gl.DeleteTextures(1, &t.colorTex)
	}
	if t.depthTex != 0 {
		gl.DeleteTextures(1, &t.depthTex)
	}
	gl.DeleteFramebuffers(1, &t.fbo)
}

// TargetTexture aliases the target's color attachment (depth for
// depth-only targets) into the texture table so draws can sample it.
func (b *OpenGL) TargetTexture(h TargetHandle) TextureHandle {
	t, ok := b.targets[h]
	if !ok {
		return 0
	}
	if t.texHandle.Valid() {
		return t.texHandle
	}
	id := t.colorTex
	if id == 0 {
		id = t.depthTex
	}
	th := TextureHandle(b.id())
	b.textures[th] = &glTexture{id: id, target: gl.TEXTURE_2D}
	t.texHandle = th
	return th
}

func (b *OpenGL) DestroyTarget(h TargetHandle) {
	if t, ok := b.targets[h]; ok {
		// the alias shares the target's GL texture; drop the map entry only
		if t.texHandle.Valid() {
			delete(b.textures, t.texHandle)
		}
		b.releaseTarget(t)
		delete(b.targets, h)
	}
}

func (b *OpenGL) CreateQuery() (QueryHandle, error) {
	q := &glQuery{}
	gl.GenQueries(1, &q.id)
	h := QueryHandle(b.id())
	b.queries[h] = q
	return h, nil
}

// QueryResult polls GL_QUERY_RESULT_AVAILABLE first so the call never
// stalls the pipeline waiting for the GPU.
func (b *OpenGL) QueryResult(h QueryHandle) (passed, ready bool) {
	q, ok := b.queries[h]
	if !ok || !q.active {
		return false, false
	}
	var available uint32
	gl.GetQueryObjectuiv(q.id, gl.QUERY_RESULT_AVAILABLE, &available)
	if available == 0 {
		return false, false
	}
	var result uint32
	gl.GetQueryObjectuiv(q.id, gl.QUERY_RESULT, &result)
	q.active = false
	return result != 0, true
}

func (b *OpenGL) DestroyQuery(h QueryHandle) {
	if q, ok := b.queries[h]; ok {
		gl.DeleteQueries(1, &q.id)
		delete(b.queries, h)
	}
}

func (b *OpenGL) BeginFrame() error { return nil }

func (b *OpenGL) BeginPass(desc PassDesc) error {
	if desc.Target.Valid() {
		t, ok := b.targets[desc.Target]
		if !ok {
			return fmt.Errorf("opengl: pass %q: unknown target %d", desc.Label, desc.Target)
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
		gl.Viewport(0, 0, int32(t.desc.Width), int32(t.desc.Height))
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(b.width), int32(b.height))
	}

	var mask uint32
	if desc.Clear {
		c := desc.ClearColor
		gl.ClearColor(c[0], c[1], c[2], c[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if desc.ClearDepth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
	b.inPass = true
	b.passTarget = desc.Target
	return nil
}

func (b *OpenGL) Submit(d Draw) error {
	if !b.inPass {
		return fmt.Errorf("opengl: draw outside pass")
	}
	program, ok := b.shaders[d.Shader]
	if !ok {
		return fmt.Errorf("opengl: unknown shader %d", d.Shader)
	}
	vbuf, ok := b.buffers[d.Vertices]
	if !ok {
		return fmt.Errorf("opengl: unknown vertex buffer %d", d.Vertices)
	}
	ibuf, ok := b.buffers[d.Indices]
	if !ok {
		return fmt.Errorf("opengl: unknown index buffer %d", d.Indices)
	}

	gl.UseProgram(program)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbuf.id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ibuf.id)

	// position, normal, uv, tangent; see backend.VertexStride
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, VertexStride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, VertexStride, 12)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, VertexStride, 24)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointerWithOffset(3, 3, gl.FLOAT, false, VertexStride, 32)

	if len(d.Uniforms) > 0 {
		var ubo uint32
		gl.GenBuffers(1, &ubo)
		gl.BindBuffer(gl.UNIFORM_BUFFER, ubo)
		gl.BufferData(gl.UNIFORM_BUFFER, len(d.Uniforms), gl.Ptr(d.Uniforms), gl.DYNAMIC_DRAW)
		gl.BindBufferBase(gl.UNIFORM_BUFFER, 0, ubo)
		defer gl.DeleteBuffers(1, &ubo)
	}

	for i, th := range d.Textures {
		if t, ok := b.textures[th]; ok {
			gl.ActiveTexture(uint32(gl.TEXTURE0 + i))
			gl.BindTexture(t.target, t.id)
			loc := gl.GetUniformLocation(program, gl.Str(fmt.Sprintf("uTex%d\x00", i)))
			if loc >= 0 {
				gl.Uniform1i(loc, int32(i))
			}
		}
	}

	if d.Blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
	gl.DepthMask(d.DepthWrite)

	if q, ok := b.queries[d.Query]; ok {
		gl.BeginQuery(gl.ANY_SAMPLES_PASSED, q.id)
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(d.IndexCount), gl.UNSIGNED_INT, 0)
		gl.EndQuery(gl.ANY_SAMPLES_PASSED)
		q.active = true
	} else {
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(d.IndexCount), gl.UNSIGNED_INT, 0)
	}
	return nil
}

func (b *OpenGL) EndPass() error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.DepthMask(true)
	b.inPass = false
	b.passTarget = 0
	return nil
}

// EndFrame is a no-op; buffer swap belongs to the window owner.
func (b *OpenGL) EndFrame() error { return nil }

func (b *OpenGL) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	b.width = width
	b.height = height
}

func (b *OpenGL) Dispose() {
	for h := range b.buffers {
		b.DestroyBuffer(h)
	}
	for h := range b.textures {
		b.DestroyTexture(h)
	}
	for h := range b.shaders {
		b.DestroyShader(h)
	}
	for h := range b.targets {
		b.DestroyTarget(h)
	}
	for h := range b.queries {
		b.DestroyQuery(h)
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}
