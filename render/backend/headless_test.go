package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessFramePassGuards(t *testing.T) {
	b := NewHeadless()

	assert.Error(t, b.BeginPass(PassDesc{Label: "orphan"}), "pass outside frame")
	assert.Error(t, b.Submit(Draw{}), "draw outside pass")

	require.NoError(t, b.BeginFrame())
	require.NoError(t, b.BeginPass(PassDesc{Label: "geometry"}))

	sh, err := b.CompileShader("s", "void main() {}")
	require.NoError(t, err)
	assert.Error(t, b.Submit(Draw{}), "draw needs a shader")
	require.NoError(t, b.Submit(Draw{Shader: sh}))
	assert.Equal(t, 1, b.DrawCount)

	require.NoError(t, b.EndPass())
	require.NoError(t, b.EndFrame())
}

func TestHeadlessTargetTextureAlias(t *testing.T) {
	b := NewHeadless()

	tgt, err := b.CreateTarget(TargetDesc{Label: "scene", Width: 64, Height: 64, Format: TextureRGBA8Unorm})
	require.NoError(t, err)

	tex := b.TargetTexture(tgt)
	assert.True(t, tex.Valid())
	assert.Equal(t, tex, b.TargetTexture(tgt), "alias is stable")

	// the alias dies with the target
	b.DestroyTarget(tgt)
	_, textures, _ := b.ResourceCounts()
	assert.Equal(t, 0, textures)

	assert.False(t, b.TargetTexture(TargetHandle(999)).Valid(), "unknown target has no texture")
}

func TestHeadlessResourceAccounting(t *testing.T) {
	b := NewHeadless()

	buf, err := b.CreateBuffer("vb", make([]byte, 64), BufferVertex)
	require.NoError(t, err)
	require.NoError(t, b.WriteBuffer(buf, 0, []byte{1, 2}))
	assert.Error(t, b.WriteBuffer(BufferHandle(999), 0, nil))

	q, err := b.CreateQuery()
	require.NoError(t, err)
	passed, ready := b.QueryResult(q)
	assert.True(t, passed)
	assert.True(t, ready, "headless queries resolve synchronously")

	buffers, _, queries := b.ResourceCounts()
	assert.Equal(t, 1, buffers)
	assert.Equal(t, 1, queries)

	b.DestroyBuffer(buf)
	b.DestroyQuery(q)
	buffers, _, queries = b.ResourceCounts()
	assert.Zero(t, buffers)
	assert.Zero(t, queries)
}

func TestHandleValidity(t *testing.T) {
	assert.False(t, BufferHandle(0).Valid())
	assert.True(t, BufferHandle(1).Valid())
	assert.False(t, ShaderHandle(0).Valid())
	assert.False(t, TextureHandle(0).Valid())
	assert.False(t, TargetHandle(0).Valid())
	assert.False(t, QueryHandle(0).Valid())
}
