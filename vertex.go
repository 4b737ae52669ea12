package g3d

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/gputypes"
)

// Meaning is the semantic of a vertex element.
type Meaning uint8

const (
	MeaningPosition Meaning = iota
	MeaningNormal
	MeaningColor
	MeaningTexCoord
)

var meaningNames = [...]string{"position", "normal", "color", "texcoord"}

func (m Meaning) String() string {
	if int(m) < len(meaningNames) {
		return meaningNames[m]
	}
	return "unknown"
}

// DataType is the storage type of a vertex element.
type DataType uint8

const (
	Float1 DataType = iota
	Float2
	Float3
	Float4
	// Byte4 is four normalized unsigned bytes.
	Byte4
)

var dataTypeFormats = [...]gputypes.VertexFormat{
	Float1: gputypes.VertexFormatFloat32,
	Float2: gputypes.VertexFormatFloat32x2,
	Float3: gputypes.VertexFormatFloat32x3,
	Float4: gputypes.VertexFormatFloat32x4,
	Byte4:  gputypes.VertexFormatUnorm8x4,
}

// GPU returns the WebGPU vertex format for the type. It panics on an
// unknown type.
func (d DataType) GPU() gputypes.VertexFormat {
	if int(d) >= len(dataTypeFormats) {
		panic(fmt.Sprintf("g3d: unknown vertex data type %d", d))
	}
	return dataTypeFormats[d]
}

// Size returns the size of the type in bytes.
func (d DataType) Size() int {
	return int(d.GPU().Size())
}

// Components returns the number of components of the type.
func (d DataType) Components() int {
	switch d {
	case Float1:
		return 1
	case Float2:
		return 2
	case Float3:
		return 3
	case Float4, Byte4:
		return 4
	}
	panic(fmt.Sprintf("g3d: unknown vertex data type %d", d))
}

// Element is one attribute of a vertex format.
type Element struct {
	Meaning Meaning
	Type    DataType
	Offset  int // byte offset within the vertex
}

// Shader locations used by Layout. Texture coordinate set i uses
// LocationTexCoord+i.
const (
	LocationPosition = 0
	LocationNormal   = 1
	LocationColor    = 2
	LocationTexCoord = 3
)

// VertexFormat is an ordered list of vertex elements. Elements are
// added before the format backs a buffer; afterwards the format is frozen
// and AddElement panics.
type VertexFormat struct {
	elements  []Element
	size      int
	hasNormal bool
	hasColor  bool
	texCoords int
	frozen    bool
}

// NewVertexFormat returns an empty format.
func NewVertexFormat() *VertexFormat {
	return &VertexFormat{}
}

// AddElement appends an element and returns the format for chaining.
func (f *VertexFormat) AddElement(m Meaning, t DataType) *VertexFormat {
	if f.frozen {
		panic("g3d: AddElement on a vertex format that backs a buffer")
	}
	size := t.Size()
	switch m {
	case MeaningPosition:
	case MeaningNormal:
		f.hasNormal = true
	case MeaningColor:
		f.hasColor = true
	case MeaningTexCoord:
		f.texCoords++
	default:
		panic(fmt.Sprintf("g3d: unknown vertex element meaning %d", m))
	}
	f.elements = append(f.elements, Element{Meaning: m, Type: t, Offset: f.size})
	f.size += size
	return f
}

// Elements returns the elements in insertion order. The slice must not be
// modified.
func (f *VertexFormat) Elements() []Element { return f.elements }

// Size returns the per-vertex stride in bytes.
func (f *VertexFormat) Size() int { return f.size }

func (f *VertexFormat) HasNormal() bool { return f.hasNormal }
func (f *VertexFormat) HasColor() bool  { return f.hasColor }

// TexCoords returns the number of texture coordinate sets.
func (f *VertexFormat) TexCoords() int { return f.texCoords }

// Freeze marks the format as backing a buffer. Backends call it when they
// allocate a vertex buffer.
func (f *VertexFormat) Freeze() { f.frozen = true }

// Frozen reports whether the format backs a buffer.
func (f *VertexFormat) Frozen() bool { return f.frozen }

// Layout describes the format as a single interleaved WebGPU vertex
// buffer using the Location* shader locations.
func (f *VertexFormat) Layout() gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, 0, len(f.elements))
	tex := uint32(0)
	for _, e := range f.elements {
		var loc uint32
		switch e.Meaning {
		case MeaningPosition:
			loc = LocationPosition
		case MeaningNormal:
			loc = LocationNormal
		case MeaningColor:
			loc = LocationColor
		case MeaningTexCoord:
			loc = LocationTexCoord + tex
			tex++
		}
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         e.Type.GPU(),
			Offset:         uint64(e.Offset),
			ShaderLocation: loc,
		})
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(f.size),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

// Find returns the first element with the given meaning.
func (f *VertexFormat) Find(m Meaning) (Element, bool) {
	for _, e := range f.elements {
		if e.Meaning == m {
			return e, true
		}
	}
	return Element{}, false
}

// String lists the elements, e.g. "position:float3,color:byte4".
func (f *VertexFormat) String() string {
	s := ""
	for i, e := range f.elements {
		if i > 0 {
			s += ","
		}
		s += e.Meaning.String() + ":" + e.Type.String()
	}
	return s
}

var dataTypeNames = [...]string{"float1", "float2", "float3", "float4", "byte4"}

// ParseVertexFormat builds a format from its String form, such as
// "position:float3,normal:float3,color:byte4".
func ParseVertexFormat(s string) (*VertexFormat, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("g3d: empty vertex format: %w", ErrInvalidArgument)
	}
	f := NewVertexFormat()
	for _, part := range strings.Split(s, ",") {
		name, typ, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("g3d: vertex element %q is not meaning:type: %w", part, ErrInvalidArgument)
		}
		m := slices.Index(meaningNames[:], strings.ToLower(name))
		if m < 0 {
			return nil, fmt.Errorf("g3d: unknown vertex meaning %q: %w", name, ErrInvalidArgument)
		}
		d := slices.Index(dataTypeNames[:], strings.ToLower(typ))
		if d < 0 {
			return nil, fmt.Errorf("g3d: unknown vertex data type %q: %w", typ, ErrInvalidArgument)
		}
		f.AddElement(Meaning(m), DataType(d))
	}
	return f, nil
}

func (d DataType) String() string {
	if int(d) < len(dataTypeNames) {
		return dataTypeNames[d]
	}
	return "unknown"
}

// Lifetime hints how often a buffer's contents change.
type Lifetime uint8

const (
	// LifetimeStatic buffers are written once.
	LifetimeStatic Lifetime = iota
	// LifetimeDynamic buffers are rewritten occasionally.
	LifetimeDynamic
	// LifetimeVolatile buffers are rewritten for every use.
	LifetimeVolatile
)

var lifetimeNames = [...]string{"static", "dynamic", "volatile"}

func (l Lifetime) String() string {
	if int(l) < len(lifetimeNames) {
		return lifetimeNames[l]
	}
	return "unknown"
}

// StandardFormat names a vertex format the device caches.
type StandardFormat uint8

const (
	// StdPC is position float3 and color float4. Immediate mode draws use it.
	StdPC StandardFormat = iota
	// StdPNC is position float3, normal float3 and color byte4.
	StdPNC
)

// NewStandardFormat builds a fresh copy of a standard format.
func NewStandardFormat(s StandardFormat) *VertexFormat {
	f := NewVertexFormat()
	switch s {
	case StdPC:
		f.AddElement(MeaningPosition, Float3).AddElement(MeaningColor, Float4)
	case StdPNC:
		f.AddElement(MeaningPosition, Float3).
			AddElement(MeaningNormal, Float3).
			AddElement(MeaningColor, Byte4)
	default:
		panic(fmt.Sprintf("g3d: unknown standard format %d", s))
	}
	return f
}
