// renderer/vertex.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

// Vertex is the device-independent form of one quad corner. Which of its
// fields reach the device is determined by the VertexFormat in use.
type Vertex struct {
	// Position[2] holds the item's depth.
	Position [3]float32
	Color    RGBA
	Normal   [3]float32
	UV       [2]float32
}

// All generated geometry faces the viewer.
var defaultNormal = [3]float32{0, 0, 1}

func makeVertex(p [2]float32, depth float32, color RGBA, uv [2]float32) Vertex {
	return Vertex{
		Position: [3]float32{p[0], p[1], depth},
		Color:    color,
		Normal:   defaultNormal,
		UV:       uv,
	}
}

// VertexFormat describes the layout of the interleaved float32 vertex
// data uploaded to the device.
type VertexFormat int

const (
	// x, y, z; r, g, b, a; nx, ny, nz; u, v
	PositionColorNormalTexture VertexFormat = iota
	// x, y; r, g, b, a; u, v
	PositionColorTexture
)

var vertexFormatNames = []string{"PositionColorNormalTexture", "PositionColorTexture"}

func (f VertexFormat) String() string {
	return enumName(vertexFormatNames, int(f))
}

func ParseVertexFormat(s string) (VertexFormat, error) {
	return parseEnum[VertexFormat]("vertex format", vertexFormatNames, s)
}

func (f VertexFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *VertexFormat) UnmarshalText(b []byte) error {
	v, err := ParseVertexFormat(string(b))
	if err == nil {
		*f = v
	}
	return err
}

func (f VertexFormat) Valid() bool {
	return f >= PositionColorNormalTexture && f <= PositionColorTexture
}

// VertexAttribute describes one attribute of a VertexFormat; Offset is
// measured in float32s from the start of the vertex.
type VertexAttribute struct {
	Name       string
	Components int
	Offset     int
}

var (
	pcntAttributes = []VertexAttribute{
		{Name: "inPosition", Components: 3, Offset: 0},
		{Name: "inColor", Components: 4, Offset: 3},
		{Name: "inNormal", Components: 3, Offset: 7},
		{Name: "inUV", Components: 2, Offset: 10},
	}
	pctAttributes = []VertexAttribute{
		{Name: "inPosition", Components: 2, Offset: 0},
		{Name: "inColor", Components: 4, Offset: 2},
		{Name: "inUV", Components: 2, Offset: 6},
	}
)

// Attributes returns the format's attributes in layout order. The
// returned slice must not be modified.
func (f VertexFormat) Attributes() []VertexAttribute {
	if f == PositionColorTexture {
		return pctAttributes
	}
	return pcntAttributes
}

// Stride returns the number of float32s in one vertex.
func (f VertexFormat) Stride() int {
	if f == PositionColorTexture {
		return 8
	}
	return 12
}

// AppendVertex appends v's attributes to buf in the format's layout.
func (f VertexFormat) AppendVertex(buf []float32, v Vertex) []float32 {
	if f == PositionColorTexture {
		return append(buf,
			v.Position[0], v.Position[1],
			v.Color.R, v.Color.G, v.Color.B, v.Color.A,
			v.UV[0], v.UV[1])
	}
	return append(buf,
		v.Position[0], v.Position[1], v.Position[2],
		v.Color.R, v.Color.G, v.Color.B, v.Color.A,
		v.Normal[0], v.Normal[1], v.Normal[2],
		v.UV[0], v.UV[1])
}

// appendQuad appends the quad's vertices in the order expected by the
// static index buffer: BL, BR, TR, TL.
func (f VertexFormat) appendQuad(buf []float32, q *Quad) []float32 {
	buf = f.AppendVertex(buf, q.BL)
	buf = f.AppendVertex(buf, q.BR)
	buf = f.AppendVertex(buf, q.TR)
	return f.AppendVertex(buf, q.TL)
}
