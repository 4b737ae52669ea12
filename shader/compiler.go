package shader

import (
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/cache"
)

// Compiler caches SPIR-V per vertex format. It is safe for concurrent
// use.
type Compiler struct {
	modules *cache.LRU[string, []uint32]
}

// NewCompiler returns a compiler remembering up to capacity formats.
func NewCompiler(capacity int) *Compiler {
	return &Compiler{modules: cache.New[string, []uint32](capacity, nil)}
}

// SPIRV returns the compiled shader for f, compiling it on first use.
// Formats with the same elements share an entry.
func (c *Compiler) SPIRV(f *g3d.VertexFormat) ([]uint32, error) {
	return c.modules.GetOrCreate(f.String(), func() ([]uint32, error) {
		g3d.Logger().Debug("shader: compiling variant", "format", f.String())
		return SPIRV(f)
	})
}

// Stats returns the cache counters.
func (c *Compiler) Stats() cache.Stats { return c.modules.Stats() }
