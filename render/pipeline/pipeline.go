// Package pipeline turns a per-frame RenderContext into backend draw
// submissions: frustum cull, occlusion, LOD selection, then an ordered
// pass list (shadow, geometry or g-buffer+lighting, transparent, post).
package pipeline

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/reko3d/reko/render/assets"
	"github.com/reko3d/reko/render/backend"
	"github.com/reko3d/reko/render/core"
	"github.com/reko3d/reko/render/cull"
	"github.com/reko3d/reko/render/lod"
	"github.com/reko3d/reko/render/shadow"
)

type Mode int

const (
	ModeForward Mode = iota
	ModeDeferred
)

func (m Mode) String() string {
	if m == ModeDeferred {
		return "deferred"
	}
	return "forward"
}

// Config selects the pass graph. Zero values mean defaults, fixed up at
// construction.
type Config struct {
	Mode           Mode
	MSAA           uint32
	HDR            bool
	Shadows        bool
	ShadowMapSize  uint32
	ShadowCascades int
	SSAO           bool
	Bloom          bool
	PostProcessing bool
	ClearColor     [4]float32
}

func (c *Config) normalize() {
	if c.MSAA == 0 {
		c.MSAA = 1
	}
	if c.ShadowMapSize == 0 {
		c.ShadowMapSize = shadow.DefaultMapSize
	}
	if c.ShadowCascades == 0 {
		c.ShadowCascades = shadow.DefaultCascadeCount
	}
	if c.ClearColor == ([4]float32{}) {
		c.ClearColor = [4]float32{0.09, 0.09, 0.11, 1}
	}
}

func (c *Config) postEnabled() bool {
	return c.PostProcessing || c.HDR || c.Bloom
}

// Stats are the per-frame counters, reset at the start of every Render.
type Stats struct {
	DrawCalls       int
	Triangles       int
	TotalObjects    int
	VisibleObjects  int
	CulledObjects   int
	OccludedObjects int
	ShadowCasters   int
}

type meshBuffers struct {
	vertices   backend.BufferHandle
	indices    backend.BufferHandle
	indexCount uint32
}

// Pipeline owns the GPU-side render state: built-in shaders, offscreen
// targets, uploaded mesh buffers. It retains no scene references between
// frames; everything scene-related arrives through the RenderContext.
type Pipeline struct {
	backend backend.GraphicsBackend
	log     core.Logger
	cfg     Config

	shaders   *assets.ShaderManager
	sources   map[string]string
	shadow    *shadow.Mapper
	occlusion *cull.OcclusionCuller
	lods      *lod.System

	width  uint32
	height uint32

	meshes   map[*core.Mesh]meshBuffers
	whiteTex backend.TextureHandle
	quad     *core.Mesh

	sceneTarget backend.TargetHandle
	gbufPos     backend.TargetHandle
	gbufNormal  backend.TargetHandle
	gbufAlbedo  backend.TargetHandle

	stats Stats
}

func New(b backend.GraphicsBackend, log core.Logger, cfg Config, width, height uint32) (*Pipeline, error) {
	if log == nil {
		log = core.NewNopLogger()
	}
	cfg.normalize()

	p := &Pipeline{
		backend: b,
		log:     log,
		cfg:     cfg,
		shaders: assets.NewShaderManager(b, log),
		sources: builtinSources(b.Name()),
		lods:    lod.NewSystem(),
		width:   width,
		height:  height,
		meshes:  make(map[*core.Mesh]meshBuffers),
		quad:    fullscreenQuad(),
	}
	p.occlusion = cull.NewOcclusionCuller(b, cull.DefaultCheckInterval)

	white, err := b.CreateTexture(backend.TextureDesc{
		Label: "white 1x1", Width: 1, Height: 1,
		Format: backend.TextureRGBA8Unorm, MipLevels: 1,
	}, [][]byte{{255, 255, 255, 255}})
	if err != nil {
		return nil, fmt.Errorf("pipeline: fallback texture: %w", err)
	}
	p.whiteTex = white

	if cfg.Shadows {
		p.shadow, err = shadow.NewMapper(b, cfg.ShadowCascades, cfg.ShadowMapSize)
		if err != nil {
			p.Dispose()
			return nil, err
		}
	}

	if err := p.createTargets(); err != nil {
		p.Dispose()
		return nil, err
	}

	log.Infof("Pipeline ready: %s mode, %d passes, backend %s",
		cfg.Mode, len(p.PassNames()), b.Name())
	return p, nil
}

// LOD exposes the level-of-detail system so scene code can register groups.
func (p *Pipeline) LOD() *lod.System { return p.lods }

// Occlusion exposes the query scheduler, mainly for diagnostics.
func (p *Pipeline) Occlusion() *cull.OcclusionCuller { return p.occlusion }

func (p *Pipeline) Config() Config { return p.cfg }
func (p *Pipeline) Stats() Stats   { return p.stats }

// PassNames lists the configured pass order.
func (p *Pipeline) PassNames() []string {
	var names []string
	if p.cfg.Shadows {
		names = append(names, "shadow")
	}
	if p.cfg.Mode == ModeDeferred {
		names = append(names, "gbuffer", "lighting")
	} else {
		names = append(names, "geometry")
	}
	names = append(names, "transparent")
	if p.cfg.postEnabled() {
		names = append(names, "post")
	}
	return names
}

func (p *Pipeline) createTargets() error {
	var err error
	if p.cfg.postEnabled() {
		format := backend.TextureRGBA8Unorm
		if p.cfg.HDR {
			format = backend.TextureRGBA16Float
		}
		p.sceneTarget, err = p.backend.CreateTarget(backend.TargetDesc{
			Label: "scene", Width: p.width, Height: p.height,
			Format: format, Depth: true, Samples: p.cfg.MSAA,
		})
		if err != nil {
			return fmt.Errorf("pipeline: scene target: %w", err)
		}
	}
	if p.cfg.Mode == ModeDeferred {
		type tgt struct {
			h      *backend.TargetHandle
			label  string
			format backend.TextureFormat
		}
		for _, t := range []tgt{
			{&p.gbufPos, "gbuffer position", backend.TextureRGBA16Float},
			{&p.gbufNormal, "gbuffer normal", backend.TextureRGBA16Float},
			{&p.gbufAlbedo, "gbuffer albedo", backend.TextureRGBA8Unorm},
		} {
			*t.h, err = p.backend.CreateTarget(backend.TargetDesc{
				Label: t.label, Width: p.width, Height: p.height,
				Format: t.format, Depth: true,
			})
			if err != nil {
				return fmt.Errorf("pipeline: %s: %w", t.label, err)
			}
		}
	}
	return nil
}

func (p *Pipeline) destroyTargets() {
	for _, h := range []*backend.TargetHandle{&p.sceneTarget, &p.gbufPos, &p.gbufNormal, &p.gbufAlbedo} {
		if h.Valid() {
			p.backend.DestroyTarget(*h)
			*h = 0
		}
	}
}

// Resize recreates the size-dependent targets. The caller resizes the
// backend surface; shadow maps are resolution-independent and stay.
func (p *Pipeline) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	p.width = width
	p.height = height
	p.destroyTargets()
	return p.createTargets()
}

func (p *Pipeline) meshBuffers(m *core.Mesh) (meshBuffers, error) {
	if g, ok := p.meshes[m]; ok {
		return g, nil
	}
	vb, err := p.backend.CreateBuffer("mesh vertices", floatBytes(m.Interleave()), backend.BufferVertex)
	if err != nil {
		return meshBuffers{}, fmt.Errorf("pipeline: vertex buffer: %w", err)
	}
	ib, err := p.backend.CreateBuffer("mesh indices", indexBytes(m.Indices), backend.BufferIndex)
	if err != nil {
		p.backend.DestroyBuffer(vb)
		return meshBuffers{}, fmt.Errorf("pipeline: index buffer: %w", err)
	}
	g := meshBuffers{vertices: vb, indices: ib, indexCount: uint32(len(m.Indices))}
	p.meshes[m] = g
	return g, nil
}

// lodState resolves what to draw for an object: the current mesh, the
// outgoing mesh while a cross-fade is running (nil otherwise), and the
// eased blend factor of the incoming level.
func (p *Pipeline) lodState(obj *core.RenderableObject) (current, fading *core.Mesh, blend float32) {
	if g, ok := p.lods.Group(obj.ID); ok {
		current, fading, blend = g.BlendState()
		if current != nil {
			return current, fading, blend
		}
	}
	return obj.Mesh, nil, 1
}

// meshFor is lodState for passes that ignore the cross-fade (shadow,
// g-buffer), where a blended overlay has nothing to contribute.
func (p *Pipeline) meshFor(obj *core.RenderableObject) *core.Mesh {
	current, _, _ := p.lodState(obj)
	return current
}

func mainLight(ctx *core.RenderContext) core.Light {
	for _, l := range ctx.Lights {
		if l.Type == core.LightDirectional {
			return l
		}
	}
	return core.Light{
		Type:      core.LightDirectional,
		Direction: mgl32.Vec3{-0.3, -1, -0.2},
		Color:     [3]float32{1, 1, 1},
		Intensity: 1,
	}
}

func (p *Pipeline) objectUniforms(mvp, model, lightVP mgl32.Mat4, camPos mgl32.Vec3, light core.Light, mat *core.Material) []byte {
	opacity := float32(1)
	if mat != nil && mat.Transparent {
		opacity = mat.Opacity
	}
	return p.litUniforms(mvp, model, lightVP, camPos, light, mat, opacity)
}

// litUniforms is objectUniforms with an explicit opacity, used to fade the
// outgoing mesh of an LOD transition.
func (p *Pipeline) litUniforms(mvp, model, lightVP mgl32.Mat4, camPos mgl32.Vec3, light core.Light, mat *core.Material, opacity float32) []byte {
	if mat == nil {
		mat = core.NewMaterial()
	}
	emissive := math32.Max(mat.Emissive.X(), math32.Max(mat.Emissive.Y(), mat.Emissive.Z()))

	var u uniformBlock
	u.putMat4(mvp)
	u.putMat4(model)
	u.putMat4(lightVP)
	u.putVec4(camPos.Vec4(1))
	u.putVec4(light.Direction.Vec4(0))
	u.putVec4(mgl32.Vec4{
		light.Color[0] * light.Intensity,
		light.Color[1] * light.Intensity,
		light.Color[2] * light.Intensity,
		1,
	})
	u.putVec4(mgl32.Vec4{mat.Albedo.X(), mat.Albedo.Y(), mat.Albedo.Z(), opacity})
	u.putVec4(mgl32.Vec4{mat.Metallic, mat.Roughness, mat.AO, emissive})
	return u.buf
}

func (p *Pipeline) fullscreenUniforms(light core.Light, params mgl32.Vec4) []byte {
	var u uniformBlock
	var zero mgl32.Mat4
	u.putMat4(zero)
	u.putMat4(zero)
	u.putMat4(zero)
	u.putVec4(mgl32.Vec4{})
	u.putVec4(light.Direction.Vec4(0))
	u.putVec4(mgl32.Vec4{
		light.Color[0] * light.Intensity,
		light.Color[1] * light.Intensity,
		light.Color[2] * light.Intensity,
		1,
	})
	u.putVec4(mgl32.Vec4{1, 1, 1, 1})
	u.putVec4(params)
	return u.buf
}

func (p *Pipeline) albedoTexture(mat *core.Material) backend.TextureHandle {
	if mat != nil && mat.AlbedoMap.Valid() {
		return mat.AlbedoMap
	}
	return p.whiteTex
}

// cullHierarchical prunes whole subtrees instead of testing every object.
// Leaf bounds equal the objects' world bounds, so the surviving set matches
// the flat cull; the tree is rebuilt each frame from current transforms.
func (p *Pipeline) cullHierarchical(objects []*core.RenderableObject, planes cull.Frustum) []*core.RenderableObject {
	tracked := make([]*core.RenderableObject, 0, len(objects))
	for _, obj := range objects {
		if obj.Visible {
			tracked = append(tracked, obj)
		} else {
			obj.InFrustum = false
		}
	}

	nodes, roots := cull.BuildHierarchy(tracked)
	hit := cull.CullHierarchical(nodes, roots, planes)

	visible := make([]*core.RenderableObject, 0, len(tracked))
	for _, obj := range tracked {
		obj.InFrustum = hit[obj.ID]
		if obj.InFrustum {
			visible = append(visible, obj)
		}
	}
	return visible
}

type drawItem struct {
	obj      *core.RenderableObject
	distance float32
}

// hierarchyCullThreshold is the scene size at which Render switches from
// the flat per-object cull to a rebuilt-per-frame bounding hierarchy.
const hierarchyCullThreshold = 64

// Render executes the configured pass list for one frame.
func (p *Pipeline) Render(ctx *core.RenderContext) error {
	p.stats = Stats{TotalObjects: len(ctx.Renderables)}
	cam := ctx.Camera
	vp := cam.ViewProjection()

	planes := cull.ExtractFrustum(vp)
	var visible []*core.RenderableObject
	if len(ctx.Renderables) >= hierarchyCullThreshold {
		visible = p.cullHierarchical(ctx.Renderables, planes)
	} else {
		visible = cull.CullObjects(ctx.Renderables, planes)
	}
	p.stats.CulledObjects = p.stats.TotalObjects - len(visible)

	if p.occlusion.Supported() {
		p.occlusion.PollResults()
		kept := make([]*core.RenderableObject, 0, len(visible))
		for _, obj := range visible {
			p.occlusion.Register(obj.ID)
			if p.occlusion.Visible(obj.ID) {
				kept = append(kept, obj)
			} else {
				p.stats.OccludedObjects++
			}
		}
		visible = kept
	}
	p.stats.VisibleObjects = len(visible)

	p.lods.Update(cam, ctx.DeltaTime)

	var opaque, transparent []drawItem
	for _, obj := range visible {
		d := obj.WorldBounds().Center().Sub(cam.Position).Len()
		if obj.Material != nil && obj.Material.Transparent {
			transparent = append(transparent, drawItem{obj, d})
		} else {
			opaque = append(opaque, drawItem{obj, d})
		}
	}
	// opaque front to back for early-z, transparent back to front for blending
	sort.Slice(opaque, func(i, j int) bool { return opaque[i].distance < opaque[j].distance })
	sort.Slice(transparent, func(i, j int) bool { return transparent[i].distance > transparent[j].distance })

	light := mainLight(ctx)

	if err := p.backend.BeginFrame(); err != nil {
		return err
	}
	err := p.runPasses(ctx, vp, light, opaque, transparent)
	if endErr := p.backend.EndFrame(); err == nil {
		err = endErr
	}
	return err
}

func (p *Pipeline) runPasses(ctx *core.RenderContext, vp mgl32.Mat4, light core.Light, opaque, transparent []drawItem) error {
	cam := ctx.Camera

	var lightVP mgl32.Mat4
	if p.cfg.Shadows && p.shadow != nil && light.Shadows {
		p.shadow.UpdateCascades(cam, light)
		lightVP = p.shadow.Cascades()[0].ViewProjection
		if err := p.shadowPass(ctx, light); err != nil {
			return err
		}
	}

	sceneTgt := backend.TargetHandle(0)
	if p.cfg.postEnabled() {
		sceneTgt = p.sceneTarget
	}

	if p.cfg.Mode == ModeDeferred {
		if err := p.gbufferPasses(ctx, vp, light, lightVP, opaque); err != nil {
			return err
		}
		if err := p.lightingPass(sceneTgt, light); err != nil {
			return err
		}
	} else {
		if err := p.geometryPass(ctx, sceneTgt, vp, light, lightVP, opaque); err != nil {
			return err
		}
	}

	if err := p.transparentPass(ctx, sceneTgt, vp, light, lightVP, transparent); err != nil {
		return err
	}

	if p.cfg.postEnabled() {
		if err := p.postPass(light); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) shadowPass(ctx *core.RenderContext, light core.Light) error {
	sh := p.shaders.Load(shaderShadow, p.sources[shaderShadow])
	if !sh.Valid() {
		return nil
	}

	var casters []*core.RenderableObject
	for _, obj := range ctx.Renderables {
		if obj.Visible && obj.CastShadow && (obj.Material == nil || !obj.Material.Transparent) {
			casters = append(casters, obj)
		}
	}
	p.stats.ShadowCasters = len(casters)

	for i, c := range p.shadow.Cascades() {
		if err := p.backend.BeginPass(backend.PassDesc{
			Label:      fmt.Sprintf("shadow cascade %d", i),
			Target:     c.Map,
			ClearDepth: true,
		}); err != nil {
			return err
		}
		for _, obj := range casters {
			mesh := p.meshFor(obj)
			bufs, err := p.meshBuffers(mesh)
			if err != nil {
				return err
			}
			model := obj.Transform.Matrix()
			if err := p.backend.Submit(backend.Draw{
				Shader:     sh,
				Vertices:   bufs.vertices,
				Indices:    bufs.indices,
				IndexCount: bufs.indexCount,
				Uniforms:   p.objectUniforms(c.ViewProjection.Mul4(model), model, c.ViewProjection, ctx.Camera.Position, light, obj.Material),
				DepthWrite: true,
			}); err != nil {
				return err
			}
			p.stats.DrawCalls++
			p.stats.Triangles += int(bufs.indexCount / 3)
		}
		if err := p.backend.EndPass(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) geometryPass(ctx *core.RenderContext, target backend.TargetHandle, vp mgl32.Mat4, light core.Light, lightVP mgl32.Mat4, opaque []drawItem) error {
	sh := p.shaders.Load(shaderGeometry, p.sources[shaderGeometry])
	if err := p.backend.BeginPass(backend.PassDesc{
		Label:      "geometry",
		Target:     target,
		Clear:      true,
		ClearColor: p.cfg.ClearColor,
		ClearDepth: true,
	}); err != nil {
		return err
	}
	for _, item := range opaque {
		if err := p.drawLit(ctx, item.obj, sh, vp, light, lightVP, false); err != nil {
			return err
		}
	}
	return p.backend.EndPass()
}

func (p *Pipeline) transparentPass(ctx *core.RenderContext, target backend.TargetHandle, vp mgl32.Mat4, light core.Light, lightVP mgl32.Mat4, transparent []drawItem) error {
	if len(transparent) == 0 {
		return nil
	}
	sh := p.shaders.Load(shaderGeometry, p.sources[shaderGeometry])
	if err := p.backend.BeginPass(backend.PassDesc{
		Label:  "transparent",
		Target: target,
	}); err != nil {
		return err
	}
	for _, item := range transparent {
		if err := p.drawLit(ctx, item.obj, sh, vp, light, lightVP, true); err != nil {
			return err
		}
	}
	return p.backend.EndPass()
}

// drawLit submits one object with the shared lit-surface uniforms, wiring
// an occlusion query in when this object is due for a re-test. While an
// LOD cross-fade runs, the outgoing mesh is drawn again as a blended
// overlay carrying the remaining opacity.
func (p *Pipeline) drawLit(ctx *core.RenderContext, obj *core.RenderableObject, sh backend.ShaderHandle, vp mgl32.Mat4, light core.Light, lightVP mgl32.Mat4, blend bool) error {
	if !sh.Valid() {
		return nil
	}
	mesh, fading, lodBlend := p.lodState(obj)
	bufs, err := p.meshBuffers(mesh)
	if err != nil {
		return err
	}

	var query backend.QueryHandle
	if !blend && p.occlusion.Supported() && p.occlusion.ShouldTest(obj.ID, ctx.FrameNumber) {
		query = p.occlusion.QueryHandle(obj.ID)
	}

	model := obj.Transform.Matrix()
	if err := p.backend.Submit(backend.Draw{
		Shader:     sh,
		Vertices:   bufs.vertices,
		Indices:    bufs.indices,
		IndexCount: bufs.indexCount,
		Uniforms:   p.objectUniforms(vp.Mul4(model), model, lightVP, ctx.Camera.Position, light, obj.Material),
		Textures:   []backend.TextureHandle{p.albedoTexture(obj.Material)},
		Blend:      blend,
		DepthWrite: !blend,
		Query:      query,
	}); err != nil {
		return err
	}
	if query.Valid() {
		p.occlusion.MarkIssued(obj.ID, ctx.FrameNumber)
	}
	p.stats.DrawCalls++
	p.stats.Triangles += int(bufs.indexCount / 3)

	if fading != nil && fading != mesh && lodBlend < 1 {
		fb, err := p.meshBuffers(fading)
		if err != nil {
			return err
		}
		if err := p.backend.Submit(backend.Draw{
			Shader:     sh,
			Vertices:   fb.vertices,
			Indices:    fb.indices,
			IndexCount: fb.indexCount,
			Uniforms:   p.litUniforms(vp.Mul4(model), model, lightVP, ctx.Camera.Position, light, obj.Material, 1-lodBlend),
			Textures:   []backend.TextureHandle{p.albedoTexture(obj.Material)},
			Blend:      true,
			DepthWrite: false,
		}); err != nil {
			return err
		}
		p.stats.DrawCalls++
		p.stats.Triangles += int(fb.indexCount / 3)
	}
	return nil
}

func (p *Pipeline) gbufferPasses(ctx *core.RenderContext, vp mgl32.Mat4, light core.Light, lightVP mgl32.Mat4, opaque []drawItem) error {
	type sub struct {
		target   backend.TargetHandle
		shaderID string
		textured bool
	}
	for _, s := range []sub{
		{p.gbufPos, shaderGBufferPos, false},
		{p.gbufNormal, shaderGBufferNormal, false},
		{p.gbufAlbedo, shaderGBufferAlbedo, true},
	} {
		sh := p.shaders.Load(s.shaderID, p.sources[s.shaderID])
		if !sh.Valid() {
			continue
		}
		if err := p.backend.BeginPass(backend.PassDesc{
			Label:      s.shaderID,
			Target:     s.target,
			Clear:      true,
			ClearDepth: true,
		}); err != nil {
			return err
		}
		for _, item := range opaque {
			obj := item.obj
			mesh := p.meshFor(obj)
			bufs, err := p.meshBuffers(mesh)
			if err != nil {
				return err
			}
			model := obj.Transform.Matrix()
			d := backend.Draw{
				Shader:     sh,
				Vertices:   bufs.vertices,
				Indices:    bufs.indices,
				IndexCount: bufs.indexCount,
				Uniforms:   p.objectUniforms(vp.Mul4(model), model, lightVP, ctx.Camera.Position, light, obj.Material),
				DepthWrite: true,
			}
			if s.textured {
				d.Textures = []backend.TextureHandle{p.albedoTexture(obj.Material)}
			}
			if err := p.backend.Submit(d); err != nil {
				return err
			}
			p.stats.DrawCalls++
			p.stats.Triangles += int(bufs.indexCount / 3)
		}
		if err := p.backend.EndPass(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) lightingPass(target backend.TargetHandle, light core.Light) error {
	sh := p.shaders.Load(shaderDeferredLight, p.sources[shaderDeferredLight])
	if !sh.Valid() {
		return nil
	}
	bufs, err := p.meshBuffers(p.quad)
	if err != nil {
		return err
	}
	if err := p.backend.BeginPass(backend.PassDesc{
		Label:      "lighting",
		Target:     target,
		Clear:      true,
		ClearColor: p.cfg.ClearColor,
		ClearDepth: true,
	}); err != nil {
		return err
	}
	if err := p.backend.Submit(backend.Draw{
		Shader:     sh,
		Vertices:   bufs.vertices,
		Indices:    bufs.indices,
		IndexCount: bufs.indexCount,
		Uniforms:   p.fullscreenUniforms(light, mgl32.Vec4{}),
		Textures: []backend.TextureHandle{
			p.backend.TargetTexture(p.gbufPos),
			p.backend.TargetTexture(p.gbufNormal),
			p.backend.TargetTexture(p.gbufAlbedo),
		},
	}); err != nil {
		return err
	}
	p.stats.DrawCalls++
	return p.backend.EndPass()
}

func (p *Pipeline) postPass(light core.Light) error {
	sh := p.shaders.Load(shaderPost, p.sources[shaderPost])
	if !sh.Valid() {
		return nil
	}
	bufs, err := p.meshBuffers(p.quad)
	if err != nil {
		return err
	}
	hdrFlag := float32(0)
	if p.cfg.HDR {
		hdrFlag = 1
	}
	if err := p.backend.BeginPass(backend.PassDesc{
		Label: "post",
		Clear: true,
	}); err != nil {
		return err
	}
	if err := p.backend.Submit(backend.Draw{
		Shader:     sh,
		Vertices:   bufs.vertices,
		Indices:    bufs.indices,
		IndexCount: bufs.indexCount,
		Uniforms:   p.fullscreenUniforms(light, mgl32.Vec4{hdrFlag, 0, 0, 0}),
		Textures:   []backend.TextureHandle{p.backend.TargetTexture(p.sceneTarget)},
	}); err != nil {
		return err
	}
	p.stats.DrawCalls++
	return p.backend.EndPass()
}

func fullscreenQuad() *core.Mesh {
	return &core.Mesh{
		Positions: []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       []mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Dispose releases all GPU resources the pipeline created.
func (p *Pipeline) Dispose() {
	for m, bufs := range p.meshes {
		p.backend.DestroyBuffer(bufs.vertices)
		p.backend.DestroyBuffer(bufs.indices)
		delete(p.meshes, m)
	}
	if p.whiteTex.Valid() {
		p.backend.DestroyTexture(p.whiteTex)
		p.whiteTex = 0
	}
	p.destroyTargets()
	if p.shadow != nil {
		p.shadow.Dispose()
		p.shadow = nil
	}
	p.occlusion.Dispose()
	p.shaders.Dispose()
}
