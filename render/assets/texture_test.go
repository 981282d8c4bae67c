package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reko3d/reko/render/backend"
)

func pngReader(t *testing.T, w, h int) io.Reader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

// gatedReader blocks the first decode until the gate opens and records
// whether it was ever read, so tests can count decodes across goroutines.
type gatedReader struct {
	gate <-chan struct{}
	r    io.Reader
	read bool
}

func (g *gatedReader) Read(p []byte) (int, error) {
	<-g.gate
	g.read = true
	return g.r.Read(p)
}

func TestTextureLoadDeduplicates(t *testing.T) {
	m := NewTextureManager(backend.NewHeadless(), nil)

	a, err := m.Load("asphalt", pngReader(t, 8, 8), true)
	require.NoError(t, err)

	// the cached path must not read the second source at all
	b, err := m.Load("asphalt", strings.NewReader("not an image"), true)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, m.Count())
}

func TestTextureLoadConcurrentDedup(t *testing.T) {
	b := backend.NewHeadless()
	m := NewTextureManager(b, nil)

	gate := make(chan struct{})
	readers := make([]*gatedReader, 4)
	for i := range readers {
		readers[i] = &gatedReader{gate: gate, r: pngReader(t, 8, 8)}
	}

	var wg sync.WaitGroup
	handles := make([]backend.TextureHandle, len(readers))
	for i := range readers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := m.Load("asphalt", readers[i], true)
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	close(gate)
	wg.Wait()

	decoded := 0
	for _, r := range readers {
		if r.read {
			decoded++
		}
	}
	assert.Equal(t, 1, decoded, "one decode for concurrent loads of one id")
	assert.Equal(t, 1, m.Count())
	_, textures, _ := b.ResourceCounts()
	assert.Equal(t, 1, textures, "one upload for concurrent loads of one id")
	for i := 1; i < len(handles); i++ {
		assert.Equal(t, handles[0], handles[i])
	}
}

func TestTextureLoadFailureRetryable(t *testing.T) {
	m := NewTextureManager(backend.NewHeadless(), nil)

	_, err := m.Load("asphalt", strings.NewReader("garbage"), true)
	require.Error(t, err)
	assert.Equal(t, 0, m.Count(), "failures are not cached")

	h, err := m.Load("asphalt", pngReader(t, 8, 8), true)
	require.NoError(t, err)
	assert.True(t, h.Valid())
}

func TestTextureLoadRejectsOversized(t *testing.T) {
	small := &capsStub{Headless: backend.NewHeadless(), maxSize: 4}
	m := NewTextureManager(small, nil)

	_, err := m.Load("huge", pngReader(t, 8, 8), true)
	assert.Error(t, err)
}

// capsStub shrinks the reported texture limits.
type capsStub struct {
	*backend.Headless
	maxSize     uint32
	noNPOTMips  bool
	lastDesc    backend.TextureDesc
	lastMipsLen int
}

func (s *capsStub) Caps() backend.Caps {
	caps := s.Headless.Caps()
	if s.maxSize > 0 {
		caps.MaxTextureSize = s.maxSize
	}
	if s.noNPOTMips {
		caps.NPOTMipmaps = false
	}
	return caps
}

func (s *capsStub) CreateTexture(desc backend.TextureDesc, mips [][]byte) (backend.TextureHandle, error) {
	s.lastDesc = desc
	s.lastMipsLen = len(mips)
	return s.Headless.CreateTexture(desc, mips)
}

func TestTextureMipChain(t *testing.T) {
	stub := &capsStub{Headless: backend.NewHeadless()}
	m := NewTextureManager(stub, nil)

	_, err := m.Load("asphalt", pngReader(t, 8, 4), true)
	require.NoError(t, err)
	// 8x4 -> 4x2 -> 2x1 -> 1x1
	assert.Equal(t, 4, stub.lastMipsLen)
	assert.Equal(t, uint32(4), stub.lastDesc.MipLevels)
}

func TestTextureMipmapsOptOut(t *testing.T) {
	stub := &capsStub{Headless: backend.NewHeadless()}
	m := NewTextureManager(stub, nil)

	_, err := m.Load("ui overlay", pngReader(t, 8, 8), false)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.lastMipsLen, "chain only generated on request")
	assert.Equal(t, uint32(1), stub.lastDesc.MipLevels)
}

func TestTextureNPOTWithoutMipSupport(t *testing.T) {
	stub := &capsStub{Headless: backend.NewHeadless(), noNPOTMips: true}
	m := NewTextureManager(stub, nil)

	_, err := m.Load("decal", pngReader(t, 6, 10), true)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.lastMipsLen, "non power of two stays single level")

	_, err = m.Load("square", pngReader(t, 16, 16), true)
	require.NoError(t, err)
	assert.Equal(t, 5, stub.lastMipsLen, "power of two still gets a chain")
}

func TestLoadCube(t *testing.T) {
	stub := &capsStub{Headless: backend.NewHeadless()}
	m := NewTextureManager(stub, nil)

	faces := make([]io.Reader, 6)
	for i := range faces {
		faces[i] = pngReader(t, 4, 4)
	}
	h, err := m.LoadCube("sky", faces)
	require.NoError(t, err)
	assert.True(t, h.Valid())
	assert.True(t, stub.lastDesc.Cube)
	assert.Equal(t, uint32(4), stub.lastDesc.Width)
}

func TestLoadCubeConcurrentDedup(t *testing.T) {
	b := backend.NewHeadless()
	m := NewTextureManager(b, nil)

	gate := make(chan struct{})
	sets := make([][]io.Reader, 4)
	gated := make([]*gatedReader, len(sets))
	for i := range sets {
		faces := make([]io.Reader, 6)
		gated[i] = &gatedReader{gate: gate, r: pngReader(t, 4, 4)}
		faces[0] = gated[i]
		for f := 1; f < 6; f++ {
			faces[f] = pngReader(t, 4, 4)
		}
		sets[i] = faces
	}

	var wg sync.WaitGroup
	handles := make([]backend.TextureHandle, len(sets))
	for i := range sets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := m.LoadCube("sky", sets[i])
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	close(gate)
	wg.Wait()

	decoded := 0
	for _, g := range gated {
		if g.read {
			decoded++
		}
	}
	assert.Equal(t, 1, decoded, "one decode for concurrent cube loads of one id")
	assert.Equal(t, 1, m.Count())
	_, textures, _ := b.ResourceCounts()
	assert.Equal(t, 1, textures, "losing loaders must not upload a second texture")
	for i := 1; i < len(handles); i++ {
		assert.Equal(t, handles[0], handles[i])
	}
}

func TestLoadCubeRejectsBadFaces(t *testing.T) {
	m := NewTextureManager(backend.NewHeadless(), nil)

	_, err := m.LoadCube("sky", []io.Reader{pngReader(t, 4, 4)})
	assert.Error(t, err, "needs exactly 6 faces")

	faces := make([]io.Reader, 6)
	for i := range faces {
		faces[i] = pngReader(t, 4, 4)
	}
	faces[3] = pngReader(t, 4, 8)
	_, err = m.LoadCube("sky", faces)
	assert.Error(t, err, "faces must be square")

	for i := range faces {
		faces[i] = pngReader(t, 4, 4)
	}
	faces[5] = pngReader(t, 8, 8)
	_, err = m.LoadCube("sky", faces)
	assert.Error(t, err, "faces must share one size")
}

func TestTextureDispose(t *testing.T) {
	b := backend.NewHeadless()
	m := NewTextureManager(b, nil)

	_, err := m.Load("a", pngReader(t, 4, 4), true)
	require.NoError(t, err)
	_, err = m.Load("b", pngReader(t, 4, 4), true)
	require.NoError(t, err)

	m.Dispose()
	assert.Equal(t, 0, m.Count())
	_, textures, _ := b.ResourceCounts()
	assert.Equal(t, 0, textures)
}
