package pipeline

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// uniformBlock packs shader uniforms little-endian. mgl32 matrices are
// column-major, which is what both std140 and WGSL expect, so matrices
// are written element by element with no reordering.
type uniformBlock struct {
	buf []byte
}

func (u *uniformBlock) putF32(f float32) {
	u.buf = binary.LittleEndian.AppendUint32(u.buf, math.Float32bits(f))
}

func (u *uniformBlock) putMat4(m mgl32.Mat4) {
	for _, f := range m {
		u.putF32(f)
	}
}

func (u *uniformBlock) putVec4(v mgl32.Vec4) {
	for _, f := range v {
		u.putF32(f)
	}
}

func floatBytes(data []float32) []byte {
	out := make([]byte, 0, len(data)*4)
	for _, f := range data {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out
}

func indexBytes(data []uint32) []byte {
	out := make([]byte, 0, len(data)*4)
	for _, v := range data {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}
