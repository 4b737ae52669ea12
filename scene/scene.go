package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
)

// Node places a Drawable in the world.
type Node struct {
	Name      string
	Transform mgl32.Mat4
	Drawable  Drawable
	Hidden    bool
}

// Scene is a flat list of nodes drawn in insertion order. The scene owns
// the drawables added to it.
type Scene struct {
	nodes []*Node

	// version is incremented on each modification
	version uint64
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{nodes: make([]*Node, 0, 8)}
}

// Add appends a node drawing d with transform xf.
func (s *Scene) Add(name string, d Drawable, xf mgl32.Mat4) *Node {
	n := &Node{Name: name, Transform: xf, Drawable: d}
	s.nodes = append(s.nodes, n)
	s.version++
	return n
}

// AddModel builds m on dev and adds it with the model's own transform.
func (s *Scene) AddModel(dev *g3d.Device, m *Model) (*Node, error) {
	d, err := m.Build(dev)
	if err != nil {
		return nil, err
	}
	return s.Add(m.Name, d, m.Transform()), nil
}

// Find returns the first node called name.
func (s *Scene) Find(name string) *Node {
	for _, n := range s.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Remove takes the node out of the scene and releases its drawable.
func (s *Scene) Remove(n *Node) bool {
	for i, m := range s.nodes {
		if m == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			n.Drawable.Release()
			s.version++
			return true
		}
	}
	return false
}

func (s *Scene) Nodes() []*Node  { return s.nodes }
func (s *Scene) Len() int        { return len(s.nodes) }
func (s *Scene) Version() uint64 { return s.version }
func (s *Scene) IsEmpty() bool   { return len(s.nodes) == 0 }

// Draw draws every visible node with its transform pushed onto d's model
// stack. The stack is restored even when a draw fails.
func (s *Scene) Draw(d *g3d.Device) error {
	for _, n := range s.nodes {
		if n.Hidden {
			continue
		}
		if err := drawNode(d, n); err != nil {
			return fmt.Errorf("scene: draw %q: %w", n.Name, err)
		}
	}
	return nil
}

func drawNode(d *g3d.Device, n *Node) error {
	d.PushModelTransform()
	defer d.PopModelTransform()
	d.MulModelTransform(n.Transform)
	return n.Drawable.Draw()
}

// Release releases every drawable and empties the scene.
func (s *Scene) Release() {
	for _, n := range s.nodes {
		n.Drawable.Release()
	}
	s.nodes = s.nodes[:0]
	s.version++
}
