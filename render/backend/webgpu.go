package backend

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WebGPU is the primary backend. Adapter and device are negotiated at
// construction with explicit limits; any failure there is reported to the
// caller so the façade can fall back to the legacy backend.
//
// Occlusion queries are not implemented on this backend; CreateQuery
// returns ErrUnsupported and the culler degrades to frustum-only.
type WebGPU struct {
	instance      *wgpu.Instance
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig wgpu.SurfaceConfiguration
	sampler       *wgpu.Sampler

	nextID    uint64
	buffers   map[BufferHandle]*wgpu.Buffer
	textures  map[TextureHandle]*webgpuTexture
	shaders   map[ShaderHandle]*wgpu.ShaderModule
	targets   map[TargetHandle]*webgpuTarget
	pipelines map[pipelineKey]*wgpu.RenderPipeline

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	// per-frame state
	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView
	encoder      *wgpu.CommandEncoder
	pass         *wgpu.RenderPassEncoder
	passTarget   TargetHandle
	frameGarbage []interface{ Release() }
}

type webgpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

type webgpuTarget struct {
	desc      TargetDesc
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	depthTex  *wgpu.Texture
	depthView *wgpu.TextureView
	texHandle TextureHandle
}

type pipelineKey struct {
	shader     ShaderHandle
	format     wgpu.TextureFormat
	blend      bool
	depthWrite bool
	hasDepth   bool
}

var _ GraphicsBackend = (*WebGPU)(nil)

// NewWebGPU wraps the window into a surface and negotiates adapter and
// device. Errors here are probe failures, not fatal conditions.
func NewWebGPU(win *glfw.Window, width, height uint32) (*WebGPU, error) {
	b := &WebGPU{
		buffers:   make(map[BufferHandle]*wgpu.Buffer),
		textures:  make(map[TextureHandle]*webgpuTexture),
		shaders:   make(map[ShaderHandle]*wgpu.ShaderModule),
		targets:   make(map[TargetHandle]*webgpuTarget),
		pipelines: make(map[pipelineKey]*wgpu.RenderPipeline),
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		b.instance.Release()
		return nil, fmt.Errorf("webgpu: adapter unavailable: %w", err)
	}
	b.adapter = adapter

	limits := wgpu.DefaultLimits()
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "reko device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		b.adapter.Release()
		b.instance.Release()
		return nil, fmt.Errorf("webgpu: device negotiation failed: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	caps := b.surface.GetCapabilities(adapter)
	b.surfaceConfig = wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	b.surface.Configure(adapter, device, &b.surfaceConfig)

	b.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		b.Dispose()
		return nil, fmt.Errorf("webgpu: sampler creation failed: %w", err)
	}

	if err := b.createDepthBuffer(width, height); err != nil {
		b.Dispose()
		return nil, err
	}
	return b, nil
}

func (b *WebGPU) Name() string { return "webgpu" }

func (b *WebGPU) Caps() Caps {
	return Caps{
		MaxTextureSize:   8192,
		MaxBufferSize:    256 * 1024 * 1024,
		NPOTMipmaps:      true,
		OcclusionQueries: false,
	}
}

func (b *WebGPU) id() uint64 {
	b.nextID++
	return b.nextID
}

func (b *WebGPU) createDepthBuffer(width, height uint32) error {
	if b.depthView != nil {
		b.depthView.Release()
		b.depthTexture.Release()
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "surface depth",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("webgpu: depth buffer: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("webgpu: depth view: %w", err)
	}
	b.depthTexture = tex
	b.depthView = view
	return nil
}

func (b *WebGPU) CreateBuffer(label string, data []byte, usage BufferUsage) (BufferHandle, error) {
	var wu wgpu.BufferUsage
	if usage&BufferVertex != 0 {
		wu |= wgpu.BufferUsageVertex
	}
	if usage&BufferIndex != 0 {
		wu |= wgpu.BufferUsageIndex
	}
	if usage&BufferUniform != 0 {
		wu |= wgpu.BufferUsageUniform
	}
	if usage&BufferStorage != 0 {
		wu |= wgpu.BufferUsageStorage
	}
	buf, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: data,
		Usage:    wu | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("webgpu: buffer %q: %w", label, err)
	}
	h := BufferHandle(b.id())
	b.buffers[h] = buf
	return h, nil
}

func (b *WebGPU) WriteBuffer(h BufferHandle, offset uint64, data []byte) error {
	buf, ok := b.buffers[h]
	if !ok {
		return fmt.Errorf("webgpu: write to unknown buffer %d", h)
	}
	return b.queue.WriteBuffer(buf, offset, data)
}

func (b *WebGPU) DestroyBuffer(h BufferHandle) {
	if buf, ok := b.buffers[h]; ok {
		buf.Release()
		delete(b.buffers, h)
	}
}

func wgpuFormat(f TextureFormat) wgpu.TextureFormat {
	switch f {
	case TextureRGBA16Float:
		return wgpu.TextureFormatRGBA16Float
	case TextureDepth32Float:
		return wgpu.TextureFormatDepth32Float
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

func (b *WebGPU) CreateTexture(desc TextureDesc, mips [][]byte) (TextureHandle, error) {
	layers := uint32(1)
	if desc.Cube {
		layers = 6
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         desc.Label,
		Size:          wgpu.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: layers},
		MipLevelCount: desc.MipLevels,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpuFormat(desc.Format),
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("webgpu: texture %q: %w", desc.Label, err)
	}

	// mips holds level-major data; cube textures carry 6 faces per level.
	w, h := desc.Width, desc.Height
	idx := 0
	for level := uint32(0); level < desc.MipLevels; level++ {
		for layer := uint32(0); layer < layers; layer++ {
			if idx >= len(mips) {
				break
			}
			err = b.queue.WriteTexture(
				&wgpu.ImageCopyTexture{
					Aspect:   wgpu.TextureAspectAll,
					Texture:  tex,
					MipLevel: level,
					Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: layer},
				},
				mips[idx],
				&wgpu.TextureDataLayout{
					Offset:       0,
					BytesPerRow:  4 * w,
					RowsPerImage: h,
				},
				&wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
			)
			if err != nil {
				tex.Release()
				return 0, fmt.Errorf("webgpu: texture %q upload: %w", desc.Label, err)
			}
			idx++
		}
		if w > 1 {
			w /= 2
		}
		if h > 1 {
			h /= 2
		}
	}

	viewDesc := &wgpu.TextureViewDescriptor{
		Format:          wgpuFormat(desc.Format),
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    0,
		MipLevelCount:   desc.MipLevels,
		BaseArrayLayer:  0,
		ArrayLayerCount: layers,
		Aspect:          wgpu.TextureAspectAll,
	}
	if desc.Cube {
		viewDesc.Dimension = wgpu.TextureViewDimensionCube
	}
	view, err := tex.CreateView(viewDesc)
	if err != nil {
		tex.Release()
		return 0, fmt.Errorf("webgpu: texture %q view: %w", desc.Label, err)
	}

	th := TextureHandle(b.id())
	b.textures[th] = &webgpuTexture{texture: tex, view: view}
	return th, nil
}

func (b *WebGPU) DestroyTexture(h TextureHandle) {
	if t, ok := b.textures[h]; ok {
		// target aliases carry no texture of their own
		if t.texture != nil {
			t.view.Release()
			t.texture.Release()
		}
		delete(b.textures, h)
	}
}

func (b *WebGPU) CompileShader(label, source string) (ShaderHandle, error) {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return 0, fmt.Errorf("webgpu: shader %q: %w", label, err)
	}
	h := ShaderHandle(b.id())
	b.shaders[h] = module
	return h, nil
}

func (b *WebGPU) DestroyShader(h ShaderHandle) {
	if m, ok := b.shaders[h]; ok {
		m.Release()
		delete(b.shaders, h)
	}
	for key, p := range b.pipelines {
		if key.shader == h {
			p.Release()
			delete(b.pipelines, key)
		}
	}
}

func (b *WebGPU) CreateTarget(desc TargetDesc) (TargetHandle, error) {
	t := &webgpuTarget{desc: desc}
	samples := desc.Samples
	if samples == 0 {
		samples = 1
	}

	if desc.Format != TextureDepth32Float {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         desc.Label,
			Size:          wgpu.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   samples,
			Dimension:     wgpu.TextureDimension2D,
			Format:        wgpuFormat(desc.Format),
			Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		})
		if err != nil {
			return 0, fmt.Errorf("webgpu: target %q: %w", desc.Label, err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return 0, fmt.Errorf("webgpu: target %q view: %w", desc.Label, err)
		}
		t.texture = tex
		t.view = view
	}

	if desc.Depth || desc.Format == TextureDepth32Float {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         desc.Label + " depth",
			Size:          wgpu.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   samples,
			Dimension:     wgpu.TextureDimension2D,
			Format:        wgpu.TextureFormatDepth32Float,
			Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		})
		if err != nil {
			if t.texture != nil {
				t.view.Release()
				t.texture.Release()
			}
			return 0, fmt.Errorf("webgpu: target %q depth: %w", desc.Label, err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return 0, fmt.Errorf("webgpu: target %q depth view: %w", desc.Label, err)
		}
		t.depthTex = tex
		t.depthView = view
	}

	h := TargetHandle(b.id())
	b.targets[h] = t
	return h, nil
}

// TargetTexture aliases the target's color view (depth view for
// depth-only targets) into the texture table. The alias owns nothing;
// the underlying view is released with the target.
func (b *WebGPU) TargetTexture(h TargetHandle) TextureHandle {
	t, ok := b.targets[h]
	if !ok {
		return 0
	}
	if t.texHandle.Valid() {
		return t.texHandle
	}
	view := t.view
	if view == nil {
		view = t.depthView
	}
	th := TextureHandle(b.id())
	b.textures[th] = &webgpuTexture{view: view}
	t.texHandle = th
	return th
}

func (b *WebGPU) DestroyTarget(h TargetHandle) {
	t, ok := b.targets[h]
	if !ok {
		return
	}
	if t.texHandle.Valid() {
		delete(b.textures, t.texHandle)
	}
	if t.view != nil {
		t.view.Release()
		t.texture.Release()
	}
	if t.depthView != nil {
		t.depthView.Release()
		t.depthTex.Release()
	}
	delete(b.targets, h)
}

func (b *WebGPU) CreateQuery() (QueryHandle, error)           { return 0, ErrUnsupported }
func (b *WebGPU) QueryResult(QueryHandle) (bool, bool)        { return false, false }
func (b *WebGPU) DestroyQuery(QueryHandle)                    {}

func (b *WebGPU) BeginFrame() error {
	tex, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("webgpu: acquire surface texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("webgpu: surface view: %w", err)
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		tex.Release()
		return fmt.Errorf("webgpu: command encoder: %w", err)
	}
	b.frameTexture = tex
	b.frameView = view
	b.encoder = encoder
	return nil
}

func (b *WebGPU) BeginPass(desc PassDesc) error {
	if b.encoder == nil {
		return fmt.Errorf("webgpu: pass %q outside frame", desc.Label)
	}

	loadOp := wgpu.LoadOpLoad
	if desc.Clear {
		loadOp = wgpu.LoadOpClear
	}

	var colorView, depthView *wgpu.TextureView
	if desc.Target.Valid() {
		t, ok := b.targets[desc.Target]
		if !ok {
			return fmt.Errorf("webgpu: pass %q: unknown target %d", desc.Label, desc.Target)
		}
		colorView = t.view
		depthView = t.depthView
	} else {
		colorView = b.frameView
		depthView = b.depthView
	}

	rpDesc := &wgpu.RenderPassDescriptor{Label: desc.Label}
	if colorView != nil {
		rpDesc.ColorAttachments = []wgpu.RenderPassColorAttachment{{
			View:    colorView,
			LoadOp:  loadOp,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(desc.ClearColor[0]),
				G: float64(desc.ClearColor[1]),
				B: float64(desc.ClearColor[2]),
				A: float64(desc.ClearColor[3]),
			},
		}}
	}
	if depthView != nil {
		depthLoad := wgpu.LoadOpLoad
		if desc.ClearDepth {
			depthLoad = wgpu.LoadOpClear
		}
		rpDesc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView,
			DepthLoadOp:     depthLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		}
	}

	b.pass = b.encoder.BeginRenderPass(rpDesc)
	b.passTarget = desc.Target
	return nil
}

func (b *WebGPU) passFormat() (wgpu.TextureFormat, bool) {
	if b.passTarget.Valid() {
		t := b.targets[b.passTarget]
		if t.view == nil {
			// depth-only pass (shadow map)
			return wgpu.TextureFormatUndefined, true
		}
		return wgpuFormat(t.desc.Format), t.depthView != nil
	}
	return b.surfaceConfig.Format, true
}

func (b *WebGPU) pipelineFor(d Draw) (*wgpu.RenderPipeline, error) {
	format, hasDepth := b.passFormat()
	key := pipelineKey{shader: d.Shader, format: format, blend: d.Blend, depthWrite: d.DepthWrite, hasDepth: hasDepth}
	if p, ok := b.pipelines[key]; ok {
		return p, nil
	}
	module, ok := b.shaders[d.Shader]
	if !ok {
		return nil, fmt.Errorf("webgpu: unknown shader %d", d.Shader)
	}

	vertexLayout := wgpu.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 1, Offset: 12, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 2, Offset: 24, Format: wgpu.VertexFormatFloat32x2},
			{ShaderLocation: 3, Offset: 32, Format: wgpu.VertexFormatFloat32x3},
		},
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}
	if format != wgpu.TextureFormatUndefined {
		target := wgpu.ColorTargetState{
			Format:    format,
			WriteMask: wgpu.ColorWriteMaskAll,
		}
		if d.Blend {
			target.Blend = &wgpu.BlendState{
				Color: wgpu.BlendComponent{
					SrcFactor: wgpu.BlendFactorSrcAlpha,
					DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					Operation: wgpu.BlendOperationAdd,
				},
				Alpha: wgpu.BlendComponent{
					SrcFactor: wgpu.BlendFactorOne,
					DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					Operation: wgpu.BlendOperationAdd,
				},
			}
		}
		desc.Fragment = &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{target},
		}
	}
	if hasDepth {
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth32Float,
			DepthWriteEnabled: d.DepthWrite,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}

	p, err := b.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("webgpu: pipeline for shader %d: %w", d.Shader, err)
	}
	b.pipelines[key] = p
	return p, nil
}

func (b *WebGPU) Submit(d Draw) error {
	if b.pass == nil {
		return fmt.Errorf("webgpu: draw outside pass")
	}
	pipeline, err := b.pipelineFor(d)
	if err != nil {
		return err
	}
	vbuf, ok := b.buffers[d.Vertices]
	if !ok {
		return fmt.Errorf("webgpu: unknown vertex buffer %d", d.Vertices)
	}
	ibuf, ok := b.buffers[d.Indices]
	if !ok {
		return fmt.Errorf("webgpu: unknown index buffer %d", d.Indices)
	}

	b.pass.SetPipeline(pipeline)
	b.pass.SetVertexBuffer(0, vbuf, 0, wgpu.WholeSize)
	b.pass.SetIndexBuffer(ibuf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)

	if len(d.Uniforms) > 0 {
		ubuf, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "draw uniforms",
			Contents: d.Uniforms,
			Usage:    wgpu.BufferUsageUniform,
		})
		if err != nil {
			return fmt.Errorf("webgpu: draw uniforms: %w", err)
		}
		b.frameGarbage = append(b.frameGarbage, ubuf)

		entries := []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: ubuf, Size: wgpu.WholeSize},
		}
		// depth-only passes have no fragment stage and textureless shaders
		// no sampler binding; the auto layout rejects extra entries
		if format, _ := b.passFormat(); format != wgpu.TextureFormatUndefined && len(d.Textures) > 0 {
			entries = append(entries, wgpu.BindGroupEntry{Binding: 1, Sampler: b.sampler})
			for i, th := range d.Textures {
				if t, ok := b.textures[th]; ok {
					entries = append(entries, wgpu.BindGroupEntry{
						Binding:     uint32(2 + i),
						TextureView: t.view,
						Size:        wgpu.WholeSize,
					})
				}
			}
		}
		layout := pipeline.GetBindGroupLayout(0)
		group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout:  layout,
			Entries: entries,
		})
		layout.Release()
		if err != nil {
			return fmt.Errorf("webgpu: draw bind group: %w", err)
		}
		b.frameGarbage = append(b.frameGarbage, group)
		b.pass.SetBindGroup(0, group, nil)
	}

	b.pass.DrawIndexed(d.IndexCount, 1, 0, 0, 0)
	return nil
}

func (b *WebGPU) EndPass() error {
	if b.pass == nil {
		return nil
	}
	err := b.pass.End()
	b.pass.Release()
	b.pass = nil
	b.passTarget = 0
	if err != nil {
		return fmt.Errorf("webgpu: end pass: %w", err)
	}
	return nil
}

func (b *WebGPU) EndFrame() error {
	if b.encoder == nil {
		return nil
	}
	cmd, err := b.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("webgpu: finish encoder: %w", err)
	}
	b.queue.Submit(cmd)
	cmd.Release()
	b.surface.Present()

	b.encoder.Release()
	b.encoder = nil
	b.frameView.Release()
	b.frameTexture.Release()
	b.frameView = nil
	b.frameTexture = nil

	for _, g := range b.frameGarbage {
		g.Release()
	}
	b.frameGarbage = b.frameGarbage[:0]
	return nil
}

func (b *WebGPU) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	b.surfaceConfig.Width = width
	b.surfaceConfig.Height = height
	b.surface.Configure(b.adapter, b.device, &b.surfaceConfig)
	_ = b.createDepthBuffer(width, height)
}

func (b *WebGPU) Dispose() {
	for h := range b.buffers {
		b.DestroyBuffer(h)
	}
	for h := range b.textures {
		b.DestroyTexture(h)
	}
	for h := range b.targets {
		b.DestroyTarget(h)
	}
	for _, p := range b.pipelines {
		p.Release()
	}
	b.pipelines = make(map[pipelineKey]*wgpu.RenderPipeline)
	for h := range b.shaders {
		b.DestroyShader(h)
	}
	if b.depthView != nil {
		b.depthView.Release()
		b.depthTexture.Release()
	}
	if b.sampler != nil {
		b.sampler.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
