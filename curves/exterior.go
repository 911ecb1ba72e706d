package curves

import (
	"math"
	"sort"
)

// maxHealDepth is how many edges a healing walk may relabel to close
// one gap in the exterior boundary.
const maxHealDepth = 3

// allExteriorConnections lists, for every point, the exterior edges
// that can be travelled away from it. Each edge appears forwards from
// its start point and reversed from its end point, so loops can walk an
// edge in either direction.
func (g *GraphPath[L]) allExteriorConnections() [][]EdgeRef {
	conns := make([][]EdgeRef, len(g.points))
	for p := range g.points {
		for e := range g.points[p].forwardEdges {
			edge := &g.points[p].forwardEdges[e]
			if edge.kind != EdgeExterior {
				continue
			}
			conns[p] = append(conns[p], EdgeRef{Point: p, Edge: e})
			conns[edge.endIdx] = append(conns[edge.endIdx], EdgeRef{Point: p, Edge: e, Reversed: true})
		}
	}
	return conns
}

// allConnectionsAt lists every edge leaving a point in either
// direction, regardless of kind. Reverse connections must be up to
// date.
func (g *GraphPath[L]) allConnectionsAt(point int) []EdgeRef {
	var refs []EdgeRef
	for e := range g.points[point].forwardEdges {
		refs = append(refs, EdgeRef{Point: point, Edge: e})
	}
	for _, src := range g.points[point].connectedFrom {
		for e, edge := range g.points[src].forwardEdges {
			if edge.endIdx == point {
				refs = append(refs, EdgeRef{Point: src, Edge: e, Reversed: true})
			}
		}
	}
	return refs
}

// findLoop searches breadth-first for a cycle of exterior edges that
// returns to the start point of the initial edge. Edges whose bit is
// set in used are avoided wherever the walk has another choice.
func (g *GraphPath[L]) findLoop(conns [][]EdgeRef, initial EdgeRef, used []uint64) []EdgeRef {
	target := g.edgeStartIndex(initial)
	first := g.edgeEndIndex(initial)
	if first == target {
		return []EdgeRef{initial}
	}

	type arrival struct {
		prevPoint int
		via       EdgeRef
	}
	arrivals := map[int]arrival{first: {prevPoint: -1, via: initial}}
	visited := make([]uint64, len(g.points))
	queue := []int{first}

	reconstruct := func(last int, final EdgeRef) []EdgeRef {
		loop := []EdgeRef{final}
		for p := last; p >= 0; {
			a := arrivals[p]
			loop = append(loop, a.via)
			p = a.prevPoint
		}
		for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
			loop[i], loop[j] = loop[j], loop[i]
		}
		return loop
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		via := arrivals[cur].via

		for ci, ref := range conns[cur] {
			if visited[cur]&(1<<uint(ci)) != 0 {
				continue
			}
			if sameEdge(ref, via) {
				continue
			}
			if used[ref.Point]&(1<<uint(ref.Edge)) != 0 && len(conns[cur]) > 1 {
				continue
			}
			visited[cur] |= 1 << uint(ci)

			next := g.edgeEndIndex(ref)
			if next == target {
				return reconstruct(cur, ref)
			}
			if _, seen := arrivals[next]; seen {
				continue
			}
			arrivals[next] = arrival{prevPoint: cur, via: ref}
			queue = append(queue, next)
		}
	}
	return nil
}

// generatePath reads a loop of edge refs back out as a closed path.
func (g *GraphPath[L]) generatePath(loop []EdgeRef) *Path {
	if len(loop) == 0 {
		return nil
	}
	start := g.points[g.edgeStartIndex(loop[0])].position
	path := NewPath(start)
	for _, ref := range loop {
		e := g.points[ref.Point].forwardEdges[ref.Edge]
		if ref.Reversed {
			path.CurveTo(e.cp2, e.cp1, g.points[ref.Point].position)
		} else {
			path.CurveTo(e.cp1, e.cp2, g.points[e.endIdx].position)
		}
	}
	return path
}

// ExteriorPaths returns the closed paths traced by the graph's exterior
// edges. Points are visited leftmost first, so outer boundaries are
// discovered before the shapes they enclose; every exterior edge is
// used by at most one path.
func (g *GraphPath[L]) ExteriorPaths() []*Path {
	g.RecalculateReverseConnections()
	conns := g.allExteriorConnections()

	ordered := make([]int, len(g.points))
	for i := range ordered {
		ordered[i] = i
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		pa, pb := g.points[ordered[a]].position, g.points[ordered[b]].position
		if math.Abs(pa.X-pb.X) > 0.01 {
			return pa.X < pb.X
		}
		return pa.Y < pb.Y
	})

	included := make([]uint64, len(g.points))
	var paths []*Path
	for _, p := range ordered {
		for _, ref := range conns[p] {
			if ref.Reversed {
				continue
			}
			if included[ref.Point]&(1<<uint(ref.Edge)) != 0 {
				continue
			}

			loop := g.findLoop(conns, ref, included)
			if loop == nil {
				// The unused edges may not form a loop on their own;
				// allow reuse before giving up on this edge.
				loop = g.findLoop(conns, ref, make([]uint64, len(g.points)))
			}
			if loop == nil {
				continue
			}

			for _, le := range loop {
				included[le.Point] |= 1 << uint(le.Edge)
			}
			paths = append(paths, g.generatePath(loop))
		}
	}
	return paths
}

// edgeHasGap reports whether an exterior edge dead-ends: no other
// exterior edge can be travelled away from its end point.
func (g *GraphPath[L]) edgeHasGap(ref EdgeRef, conns [][]EdgeRef) bool {
	if g.points[ref.Point].forwardEdges[ref.Edge].kind != EdgeExterior {
		return false
	}
	end := g.edgeEndIndex(ref)
	for _, conn := range conns[end] {
		if !sameEdge(conn, ref) {
			return false
		}
	}
	return true
}

// healEdgeWithGap walks outward from a dead-ended exterior edge through
// edges that are not part of the boundary, looking for a point where
// the boundary resumes. On success the walked edges are relabelled
// exterior. Walks longer than maxDepth edges fail.
func (g *GraphPath[L]) healEdgeWithGap(gap EdgeRef, conns [][]EdgeRef, maxDepth int) bool {
	start := g.edgeEndIndex(gap)

	type arrival struct {
		prevPoint int
		via       EdgeRef
		depth     int
	}
	arrivals := map[int]arrival{start: {prevPoint: -1, depth: 0}}
	queue := []int{start}

	relabel := func(last int) {
		for p := last; ; {
			a := arrivals[p]
			if a.prevPoint < 0 {
				return
			}
			g.points[a.via.Point].forwardEdges[a.via.Edge].kind = EdgeExterior
			p = a.prevPoint
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		depth := arrivals[cur].depth
		if depth >= maxDepth {
			continue
		}

		for _, ref := range g.allConnectionsAt(cur) {
			if sameEdge(ref, gap) {
				continue
			}
			kind := g.points[ref.Point].forwardEdges[ref.Edge].kind
			if kind == EdgeExterior && !g.edgeHasGap(ref.Reverse(), conns) {
				// Solid boundary edges are never walked; only another
				// dangling end may be crossed to join two fragments.
				continue
			}

			next := g.edgeEndIndex(ref)
			if _, seen := arrivals[next]; seen {
				continue
			}
			arrivals[next] = arrival{prevPoint: cur, via: ref, depth: depth + 1}

			// The gap is closed if the boundary resumes at this point
			// by some edge other than the one just walked.
			for _, conn := range conns[next] {
				if !sameEdge(conn, gap) && !sameEdge(conn, ref) {
					relabel(next)
					return true
				}
			}
			queue = append(queue, next)
		}
	}
	return false
}

// HealExteriorGaps finds every exterior edge that dead-ends and tries
// to reconnect it by relabelling a short chain of other edges. It
// reports whether the boundary is gap free afterwards.
func (g *GraphPath[L]) HealExteriorGaps() bool {
	g.RecalculateReverseConnections()
	conns := g.allExteriorConnections()

	var gaps []EdgeRef
	for p := range g.points {
		for e := range g.points[p].forwardEdges {
			if g.points[p].forwardEdges[e].kind != EdgeExterior {
				continue
			}
			ref := EdgeRef{Point: p, Edge: e}
			if g.edgeHasGap(ref, conns) {
				gaps = append(gaps, ref)
			}
			if g.edgeHasGap(ref.Reverse(), conns) {
				gaps = append(gaps, ref.Reverse())
			}
		}
	}

	allHealed := true
	for _, gap := range gaps {
		// Healing one gap often closes its partner at the same time;
		// check against the current state before walking.
		current := g.allExteriorConnections()
		if !g.edgeHasGap(gap, current) {
			continue
		}
		if !g.healEdgeWithGap(gap, current, maxHealDepth) {
			allHealed = false
		}
	}
	return allHealed
}
