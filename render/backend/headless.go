package backend

import "fmt"

// Headless is a GraphicsBackend with no GPU behind it. Resource creation
// and draws only account bookkeeping, which is exactly what unit tests and
// CI need. Query results are available on the same frame.
type Headless struct {
	nextID uint64

	buffers   map[BufferHandle]int
	textures  map[TextureHandle]int
	shaders   map[ShaderHandle]string
	targets   map[TargetHandle]TargetDesc
	targetTex map[TargetHandle]TextureHandle
	queries   map[QueryHandle]bool

	inFrame bool
	inPass  bool

	// FailShaders makes every CompileShader call fail; lets tests exercise
	// the null-shader path of the shader manager.
	FailShaders bool

	DrawCount int
}

var _ GraphicsBackend = (*Headless)(nil)

func NewHeadless() *Headless {
	return &Headless{
		buffers:   make(map[BufferHandle]int),
		textures:  make(map[TextureHandle]int),
		shaders:   make(map[ShaderHandle]string),
		targets:   make(map[TargetHandle]TargetDesc),
		targetTex: make(map[TargetHandle]TextureHandle),
		queries:   make(map[QueryHandle]bool),
	}
}

func (b *Headless) Name() string { return "headless" }

func (b *Headless) Caps() Caps {
	return Caps{
		MaxTextureSize:   16384,
		MaxBufferSize:    1 << 30,
		NPOTMipmaps:      true,
		OcclusionQueries: true,
	}
}

func (b *Headless) id() uint64 {
	b.nextID++
	return b.nextID
}

func (b *Headless) CreateBuffer(label string, data []byte, usage BufferUsage) (BufferHandle, error) {
	h := BufferHandle(b.id())
	b.buffers[h] = len(data)
	return h, nil
}

func (b *Headless) WriteBuffer(h BufferHandle, offset uint64, data []byte) error {
	if _, ok := b.buffers[h]; !ok {
		return fmt.Errorf("headless: write to unknown buffer %d", h)
	}
	return nil
}

func (b *Headless) DestroyBuffer(h BufferHandle) { delete(b.buffers, h) }

func (b *Headless) CreateTexture(desc TextureDesc, mips [][]byte) (TextureHandle, error) {
	size := 0
	for _, m := range mips {
		size += len(m)
	}
	h := TextureHandle(b.id())
	b.textures[h] = size
	return h, nil
}

func (b *Headless) DestroyTexture(h TextureHandle) { delete(b.textures, h) }

func (b *Headless) CompileShader(label, source string) (ShaderHandle, error) {
	if b.FailShaders || source == "" {
		return 0, fmt.Errorf("headless: shader %q: compilation rejected", label)
	}
	h := ShaderHandle(b.id())
	b.shaders[h] = label
	return h, nil
}

func (b *Headless) DestroyShader(h ShaderHandle) { delete(b.shaders, h) }

func (b *Headless) CreateTarget(desc TargetDesc) (TargetHandle, error) {
	h := TargetHandle(b.id())
	b.targets[h] = desc
	return h, nil
}

func (b *Headless) TargetTexture(h TargetHandle) TextureHandle {
	if _, ok := b.targets[h]; !ok {
		return 0
	}
	if th, ok := b.targetTex[h]; ok {
		return th
	}
	th := TextureHandle(b.id())
	b.textures[th] = 0
	b.targetTex[h] = th
	return th
}

func (b *Headless) DestroyTarget(h TargetHandle) {
	if th, ok := b.targetTex[h]; ok {
		delete(b.textures, th)
		delete(b.targetTex, h)
	}
	delete(b.targets, h)
}

func (b *Headless) CreateQuery() (QueryHandle, error) {
	h := QueryHandle(b.id())
	b.queries[h] = true
	return h, nil
}

func (b *Headless) QueryResult(h QueryHandle) (passed, ready bool) {
	if _, ok := b.queries[h]; !ok {
		return false, false
	}
	return true, true
}

func (b *Headless) DestroyQuery(h QueryHandle) { delete(b.queries, h) }

func (b *Headless) BeginFrame() error {
	b.inFrame = true
	return nil
}

func (b *Headless) BeginPass(desc PassDesc) error {
	if !b.inFrame {
		return fmt.Errorf("headless: pass %q outside frame", desc.Label)
	}
	b.inPass = true
	return nil
}

func (b *Headless) Submit(d Draw) error {
	if !b.inPass {
		return fmt.Errorf("headless: draw outside pass")
	}
	if !d.Shader.Valid() {
		return fmt.Errorf("headless: draw with invalid shader")
	}
	b.DrawCount++
	return nil
}

func (b *Headless) EndPass() error {
	b.inPass = false
	return nil
}

func (b *Headless) EndFrame() error {
	b.inFrame = false
	return nil
}

func (b *Headless) Resize(width, height uint32) {}

// ResourceCounts reports live buffer/texture/query counts, used by tests
// to assert that Dispose paths do not leak.
func (b *Headless) ResourceCounts() (buffers, textures, queries int) {
	return len(b.buffers), len(b.textures), len(b.queries)
}

func (b *Headless) Dispose() {
	b.buffers = make(map[BufferHandle]int)
	b.textures = make(map[TextureHandle]int)
	b.shaders = make(map[ShaderHandle]string)
	b.targets = make(map[TargetHandle]TargetDesc)
	b.targetTex = make(map[TargetHandle]TextureHandle)
	b.queries = make(map[QueryHandle]bool)
}
