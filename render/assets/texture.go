package assets

import (
	"fmt"
	"image"
	"io"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/reko3d/reko/render/backend"
	"github.com/reko3d/reko/render/core"
)

// TextureManager decodes images once per id and keeps the GPU handle.
// Mip chains are built on the CPU so all backends receive identical pixel
// data. Unlike shaders, failures are not cached: a bad read is evicted so
// a retry with a good source can succeed.
type TextureManager struct {
	backend backend.GraphicsBackend
	log     core.Logger

	mu       sync.Mutex
	textures map[string]backend.TextureHandle
	inflight map[string]chan struct{}
}

func NewTextureManager(b backend.GraphicsBackend, log core.Logger) *TextureManager {
	if log == nil {
		log = core.NewNopLogger()
	}
	return &TextureManager{
		backend:  b,
		log:      log,
		textures: make(map[string]backend.TextureHandle),
		inflight: make(map[string]chan struct{}),
	}
}

// Load decodes a 2D image and uploads it. When mipmaps is set a full chain
// is generated, provided the backend allows one for its dimensions.
// Concurrent loads of the same id decode once.
func (m *TextureManager) Load(id string, r io.Reader, mipmaps bool) (backend.TextureHandle, error) {
	for {
		m.mu.Lock()
		if h, ok := m.textures[id]; ok {
			m.mu.Unlock()
			return h, nil
		}
		if done, ok := m.inflight[id]; ok {
			m.mu.Unlock()
			<-done
			continue
		}
		done := make(chan struct{})
		m.inflight[id] = done
		m.mu.Unlock()

		h, err := m.upload(id, r, mipmaps)

		m.mu.Lock()
		if err == nil {
			m.textures[id] = h
		}
		delete(m.inflight, id)
		m.mu.Unlock()
		close(done)

		if err != nil {
			m.log.Errorf("texture %q: %v", id, err)
			return 0, err
		}
		return h, nil
	}
}

func (m *TextureManager) upload(id string, r io.Reader, mipmaps bool) (backend.TextureHandle, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	rgba := toRGBA(img)
	w := uint32(rgba.Bounds().Dx())
	h := uint32(rgba.Bounds().Dy())

	caps := m.backend.Caps()
	if w > caps.MaxTextureSize || h > caps.MaxTextureSize {
		return 0, fmt.Errorf("%dx%d exceeds backend max %d", w, h, caps.MaxTextureSize)
	}

	mips := [][]byte{rgba.Pix}
	if mipmaps {
		if caps.NPOTMipmaps || (isPOT(w) && isPOT(h)) {
			mips = buildMipChain(rgba)
		} else {
			m.log.Warnf("texture %q is %dx%d (non power of two); mipmaps disabled on %s",
				id, w, h, m.backend.Name())
		}
	}

	return m.backend.CreateTexture(backend.TextureDesc{
		Label:     id,
		Width:     w,
		Height:    h,
		Format:    backend.TextureRGBA8Unorm,
		MipLevels: uint32(len(mips)),
	}, mips)
}

// LoadCube uploads a cubemap from exactly 6 face images in +X -X +Y -Y
// +Z -Z order. Faces must be square and identically sized; any mismatch
// fails the whole load. Concurrent loads of the same id decode and upload
// once, same as Load.
func (m *TextureManager) LoadCube(id string, faces []io.Reader) (backend.TextureHandle, error) {
	if len(faces) != 6 {
		return 0, fmt.Errorf("assets: cubemap %q needs 6 faces, got %d", id, len(faces))
	}

	for {
		m.mu.Lock()
		if h, ok := m.textures[id]; ok {
			m.mu.Unlock()
			return h, nil
		}
		if done, ok := m.inflight[id]; ok {
			m.mu.Unlock()
			<-done
			continue
		}
		done := make(chan struct{})
		m.inflight[id] = done
		m.mu.Unlock()

		h, err := m.uploadCube(id, faces)

		m.mu.Lock()
		if err == nil {
			m.textures[id] = h
		}
		delete(m.inflight, id)
		m.mu.Unlock()
		close(done)

		if err != nil {
			m.log.Errorf("cubemap %q: %v", id, err)
			return 0, err
		}
		return h, nil
	}
}

func (m *TextureManager) uploadCube(id string, faces []io.Reader) (backend.TextureHandle, error) {
	var size uint32
	data := make([][]byte, 6)
	for i, r := range faces {
		img, _, err := image.Decode(r)
		if err != nil {
			return 0, fmt.Errorf("face %d: %w", i, err)
		}
		rgba := toRGBA(img)
		w := uint32(rgba.Bounds().Dx())
		h := uint32(rgba.Bounds().Dy())
		if w != h {
			return 0, fmt.Errorf("face %d is %dx%d, must be square", i, w, h)
		}
		if i == 0 {
			size = w
		} else if w != size {
			return 0, fmt.Errorf("face %d is %d, expected %d", i, w, size)
		}
		data[i] = rgba.Pix
	}

	return m.backend.CreateTexture(backend.TextureDesc{
		Label:     id,
		Width:     size,
		Height:    size,
		Format:    backend.TextureRGBA8Unorm,
		MipLevels: 1,
		Cube:      true,
	}, data)
}

// Get returns the cached handle without loading anything.
func (m *TextureManager) Get(id string) (backend.TextureHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.textures[id]
	return h, ok
}

func (m *TextureManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.textures)
}

// Dispose destroys every cached texture.
func (m *TextureManager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, h := range m.textures {
		if h.Valid() {
			m.backend.DestroyTexture(h)
		}
		delete(m.textures, id)
	}
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, xdraw.Src)
	return dst
}

// buildMipChain downsamples to 1x1 with a bilinear kernel. Level 0 is the
// source image.
func buildMipChain(base *image.RGBA) [][]byte {
	mips := [][]byte{base.Pix}
	prev := base
	w, h := base.Bounds().Dx(), base.Bounds().Dy()
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		next := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(next, next.Bounds(), prev, prev.Bounds(), xdraw.Src, nil)
		mips = append(mips, next.Pix)
		prev = next
	}
	return mips
}

func isPOT(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}
