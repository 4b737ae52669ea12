package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
)

// primitiveMode returns the GL draw mode for t. Every topology has a
// fixed-function equivalent.
func primitiveMode(t g3d.Topology) uint32 {
	switch t {
	case g3d.Points:
		return gl.POINTS
	case g3d.Lines:
		return gl.LINES
	case g3d.LineStrip:
		return gl.LINE_STRIP
	case g3d.LineLoop:
		return gl.LINE_LOOP
	case g3d.Triangles:
		return gl.TRIANGLES
	case g3d.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case g3d.TriangleFan:
		return gl.TRIANGLE_FAN
	case g3d.Quads:
		return gl.QUADS
	case g3d.QuadStrip:
		return gl.QUAD_STRIP
	case g3d.Polygon:
		return gl.POLYGON
	}
	panic(fmt.Sprintf("g3d: opengl: unknown topology %d", t))
}

// bufferUsage returns the buffer data usage hint for a lifetime.
func bufferUsage(l g3d.Lifetime) uint32 {
	switch l {
	case g3d.LifetimeStatic:
		return gl.STATIC_DRAW
	case g3d.LifetimeDynamic:
		return gl.DYNAMIC_DRAW
	case g3d.LifetimeVolatile:
		return gl.STREAM_DRAW
	}
	panic(fmt.Sprintf("g3d: opengl: unknown buffer lifetime %d", l))
}

// elementType returns the component type of a vertex element. Byte4 is
// normalized by the fixed-function pipeline for colors.
func elementType(d g3d.DataType) uint32 {
	if d == g3d.Byte4 {
		return gl.UNSIGNED_BYTE
	}
	return gl.FLOAT
}

func clearMask(f g3d.ClearFlags) uint32 {
	var mask uint32
	if f&g3d.ClearColor != 0 {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if f&g3d.ClearDepth != 0 {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if f&g3d.ClearStencil != 0 {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	return mask
}

func compareFunc(fn gputypes.CompareFunction) uint32 {
	switch fn {
	case gputypes.CompareFunctionNever:
		return gl.NEVER
	case gputypes.CompareFunctionLess:
		return gl.LESS
	case gputypes.CompareFunctionEqual:
		return gl.EQUAL
	case gputypes.CompareFunctionLessEqual:
		return gl.LEQUAL
	case gputypes.CompareFunctionGreater:
		return gl.GREATER
	case gputypes.CompareFunctionNotEqual:
		return gl.NOTEQUAL
	case gputypes.CompareFunctionGreaterEqual:
		return gl.GEQUAL
	case gputypes.CompareFunctionAlways:
		return gl.ALWAYS
	}
	panic(fmt.Sprintf("g3d: opengl: unknown compare function %d", fn))
}

func blendFactor(f gputypes.BlendFactor) uint32 {
	switch f {
	case gputypes.BlendFactorZero:
		return gl.ZERO
	case gputypes.BlendFactorOne:
		return gl.ONE
	case gputypes.BlendFactorSrc:
		return gl.SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return gl.ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return gl.DST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return gl.ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case gputypes.BlendFactorSrcAlphaSaturated:
		return gl.SRC_ALPHA_SATURATE
	case gputypes.BlendFactorConstant:
		return gl.CONSTANT_COLOR
	case gputypes.BlendFactorOneMinusConstant:
		return gl.ONE_MINUS_CONSTANT_COLOR
	}
	panic(fmt.Sprintf("g3d: opengl: unknown blend factor %d", f))
}

func blendEquation(op gputypes.BlendOperation) uint32 {
	switch op {
	case gputypes.BlendOperationAdd, gputypes.BlendOperationUndefined:
		return gl.FUNC_ADD
	case gputypes.BlendOperationSubtract:
		return gl.FUNC_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case gputypes.BlendOperationMin:
		return gl.MIN
	case gputypes.BlendOperationMax:
		return gl.MAX
	}
	panic(fmt.Sprintf("g3d: opengl: unknown blend operation %d", op))
}

// cullFace returns the face to cull, or false when culling is off.
func cullFace(m gputypes.CullMode) (uint32, bool) {
	switch m {
	case gputypes.CullModeFront:
		return gl.FRONT, true
	case gputypes.CullModeBack:
		return gl.BACK, true
	}
	return 0, false
}

func frontFace(f gputypes.FrontFace) uint32 {
	if f == gputypes.FrontFaceCW {
		return gl.CW
	}
	return gl.CCW
}

func indexType(f gputypes.IndexFormat) uint32 {
	if f == gputypes.IndexFormatUint32 {
		return gl.UNSIGNED_INT
	}
	return gl.UNSIGNED_SHORT
}

func colorMask(m gputypes.ColorWriteMask) (r, g, b, a bool) {
	return m&gputypes.ColorWriteMaskRed != 0,
		m&gputypes.ColorWriteMaskGreen != 0,
		m&gputypes.ColorWriteMaskBlue != 0,
		m&gputypes.ColorWriteMaskAlpha != 0
}

// pixelFormat is the TexImage triple of a texture format.
type pixelFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

var pixelFormats = map[gputypes.TextureFormat]pixelFormat{
	gputypes.TextureFormatRGBA8Unorm:           {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatRGBA8UnormSrgb:       {gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatBGRA8Unorm:           {gl.RGBA8, gl.BGRA, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatR8Unorm:              {gl.R8, gl.RED, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatRG8Unorm:             {gl.RG8, gl.RG, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatR32Float:             {gl.R32F, gl.RED, gl.FLOAT},
	gputypes.TextureFormatDepth16Unorm:         {gl.DEPTH_COMPONENT16, gl.DEPTH_COMPONENT, gl.UNSIGNED_SHORT},
	gputypes.TextureFormatDepth24Plus:          {gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT},
	gputypes.TextureFormatDepth24PlusStencil8:  {gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8},
	gputypes.TextureFormatDepth32Float:         {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT},
	gputypes.TextureFormatDepth32FloatStencil8: {gl.DEPTH32F_STENCIL8, gl.DEPTH_STENCIL, gl.FLOAT_32_UNSIGNED_INT_24_8_REV},
}

// textureFormat returns the TexImage triple for f, or false when the
// format has no fixed-function equivalent.
func textureFormat(f gputypes.TextureFormat) (pixelFormat, bool) {
	p, ok := pixelFormats[f]
	return p, ok
}

// depthAttachment returns the framebuffer attachment point of a depth
// texture.
func depthAttachment(f gputypes.TextureFormat) uint32 {
	if f.HasStencil() {
		return gl.DEPTH_STENCIL_ATTACHMENT
	}
	return gl.DEPTH_ATTACHMENT
}
