package scene

// Cube returns an indexed cube model of edge size centred on the origin,
// with one flat normal per face.
func Cube(name string, size float32, c Color) *Model {
	h := size / 2
	faces := [6]struct{ n, u, v [3]float32 }{
		{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
		{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
		{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
	}
	m := &Model{
		Name:     name,
		Topology: "triangles",
		Format:   "pnc",
		Color:    &c,
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for _, k := range corners {
			var p [3]float32
			for i := range p {
				p[i] = h * (f.n[i] + k[0]*f.u[i] + k[1]*f.v[i])
			}
			m.Vertices = append(m.Vertices, Vertex{
				Position: p[:],
				Normal:   []float32{f.n[0], f.n[1], f.n[2]},
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Grid returns a line list covering the square of half extent half on the
// y = 0 plane, with a line every step units.
func Grid(name string, half, step float32, c Color) *Model {
	m := &Model{Name: name, Topology: "lines", Format: "pc", Color: &c}
	if step <= 0 || half <= 0 {
		step, half = 1, 1
	}
	for x := -half; x <= half+step/2; x += step {
		m.Vertices = append(m.Vertices,
			Vertex{Position: []float32{x, 0, -half}},
			Vertex{Position: []float32{x, 0, half}},
			Vertex{Position: []float32{-half, 0, x}},
			Vertex{Position: []float32{half, 0, x}},
		)
	}
	return m
}
