package wgpu

import "sort"

// graveyard defers resource destruction until the queue has finished the
// submission that last used the resource.
type graveyard struct {
	// generation -> submission index, for submitted but unfinished work
	seals     map[uint64]uint64
	completed uint64 // every generation up to this one is finished
	buried    []grave
}

type grave struct {
	generation uint64
	destroy    func()
}

func newGraveyard() *graveyard {
	return &graveyard{seals: make(map[uint64]uint64)}
}

// bury schedules destroy to run once generation has finished. Generation 0
// is never submitted, so its functions run immediately.
func (g *graveyard) bury(generation uint64, destroy ...func()) {
	for _, fn := range destroy {
		if generation <= g.completed {
			fn()
			continue
		}
		g.buried = append(g.buried, grave{generation: generation, destroy: fn})
	}
}

// seal records the queue submission index of generation.
func (g *graveyard) seal(generation, submission uint64) {
	g.seals[generation] = submission
}

// collect runs the destroy functions of every generation whose submission
// index is at most completed.
func (g *graveyard) collect(completed uint64) {
	done := make([]uint64, 0, len(g.seals))
	for gen, idx := range g.seals {
		if idx <= completed {
			done = append(done, gen)
		}
	}
	if len(done) == 0 {
		return
	}
	sort.Slice(done, func(i, j int) bool { return done[i] < done[j] })
	for _, gen := range done {
		delete(g.seals, gen)
		if gen > g.completed {
			g.completed = gen
		}
	}
	live := g.buried[:0]
	for _, gr := range g.buried {
		if gr.generation <= g.completed {
			gr.destroy()
			continue
		}
		live = append(live, gr)
	}
	g.buried = live
}

// collectAll runs every pending destroy function. The device must be idle.
func (g *graveyard) collectAll() {
	for _, gr := range g.buried {
		gr.destroy()
	}
	g.buried = nil
	clear(g.seals)
}

// pending returns the number of deferred destroy functions.
func (g *graveyard) pending() int { return len(g.buried) }
