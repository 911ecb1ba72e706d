package curves

import "sort"

// EdgeKind classifies an edge during path arithmetic.
type EdgeKind uint8

const (
	// EdgeUncategorised is an edge that has not been classified yet.
	EdgeUncategorised EdgeKind = iota

	// EdgeVisited marks an edge a classification pass has seen but not
	// decided on.
	EdgeVisited

	// EdgeExterior edges form the boundary of the result.
	EdgeExterior

	// EdgeInterior edges are inside the result and excluded from it.
	EdgeInterior
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeUncategorised:
		return "uncategorised"
	case EdgeVisited:
		return "visited"
	case EdgeExterior:
		return "exterior"
	case EdgeInterior:
		return "interior"
	}
	return "unknown"
}

// EdgeRef identifies an edge by the index of the point it is stored on
// and its offset in that point's forward edge list. A reversed ref
// describes travelling the same edge from its end to its start.
type EdgeRef struct {
	Point    int
	Edge     int
	Reversed bool
}

// Reverse returns the same edge travelled in the opposite direction.
func (r EdgeRef) Reverse() EdgeRef {
	return EdgeRef{Point: r.Point, Edge: r.Edge, Reversed: !r.Reversed}
}

// sameEdge reports whether two refs address the same stored edge,
// regardless of direction.
func sameEdge(a, b EdgeRef) bool {
	return a.Point == b.Point && a.Edge == b.Edge
}

type graphEdge[L any] struct {
	kind     EdgeKind
	label    L
	cp1, cp2 Coord2
	endIdx   int

	// followingEdgeIdx is the offset, in the end point's forward edge
	// list, of the edge that continues the source path.
	followingEdgeIdx int
}

type graphPoint[L any] struct {
	position      Coord2
	forwardEdges  []graphEdge[L]
	connectedFrom []int
}

// GraphPath is a graph of points connected by bezier edges. It is the
// working representation for path arithmetic: paths are merged into one
// graph, collided so intersections become shared points, classified
// edge by edge and finally read back out as closed paths.
//
// Each edge carries a caller-defined label, which classification passes
// use to remember which source path an edge came from.
type GraphPath[L any] struct {
	points []graphPoint[L]
}

// NewGraphPath returns an empty graph.
func NewGraphPath[L any]() *GraphPath[L] {
	return &GraphPath[L]{}
}

// FromPath builds a graph from a single closed path, labelling every
// edge with label. The path is normalised to clockwise winding first so
// later passes can rely on a consistent edge direction. A path whose
// last point does not reach its start gains a straight closing edge.
func FromPath[L any](path *Path, label L) *GraphPath[L] {
	if !path.IsClockwise() {
		path = path.Reversed()
	}

	g := &GraphPath[L]{}
	start := path.Start
	g.points = append(g.points, graphPoint[L]{position: start})

	last := start
	next := 1
	for _, section := range path.Points {
		// Sections that never leave the snapping radius of the last
		// point add nothing to the graph.
		if section.End.IsNearTo(last, CloseDistance) &&
			section.Cp1.IsNearTo(last, CloseDistance) &&
			section.Cp2.IsNearTo(section.Cp1, CloseDistance) {
			continue
		}

		g.points = append(g.points, graphPoint[L]{position: section.End})
		g.points[next-1].forwardEdges = append(g.points[next-1].forwardEdges, graphEdge[L]{
			kind:   EdgeUncategorised,
			label:  label,
			cp1:    section.Cp1,
			cp2:    section.Cp2,
			endIdx: next,
		})

		last = section.End
		next++
	}

	if last.IsNearTo(start, CloseDistance) {
		// The path already returns to its start: fold the final point
		// into the first one.
		if len(g.points) > 1 {
			g.points = g.points[:len(g.points)-1]
			g.points[next-2].forwardEdges[0].endIdx = 0
		}
	} else {
		v := last.Sub(start)
		g.points[next-1].forwardEdges = append(g.points[next-1].forwardEdges, graphEdge[L]{
			kind:   EdgeUncategorised,
			label:  label,
			cp1:    start.Add(v.Mul(0.33)),
			cp2:    start.Add(v.Mul(0.66)),
			endIdx: 0,
		})
	}

	g.RecalculateReverseConnections()
	return g
}

// Merge appends the points and edges of another graph to this one. The
// other graph's indices are offset by the number of points already
// present; no points are joined.
func (g *GraphPath[L]) Merge(other *GraphPath[L]) *GraphPath[L] {
	offset := len(g.points)
	for _, pt := range other.points {
		merged := graphPoint[L]{
			position:      pt.position,
			forwardEdges:  make([]graphEdge[L], len(pt.forwardEdges)),
			connectedFrom: make([]int, len(pt.connectedFrom)),
		}
		for i, e := range pt.forwardEdges {
			e.endIdx += offset
			merged.forwardEdges[i] = e
		}
		for i, from := range pt.connectedFrom {
			merged.connectedFrom[i] = from + offset
		}
		g.points = append(g.points, merged)
	}
	return g
}

// RecalculateReverseConnections rebuilds every point's list of source
// points from the forward edges.
func (g *GraphPath[L]) RecalculateReverseConnections() {
	for i := range g.points {
		g.points[i].connectedFrom = g.points[i].connectedFrom[:0]
	}
	for i := range g.points {
		for _, e := range g.points[i].forwardEdges {
			pt := &g.points[e.endIdx]
			pt.connectedFrom = append(pt.connectedFrom, i)
		}
	}
	for i := range g.points {
		from := g.points[i].connectedFrom
		sort.Ints(from)
		n := 0
		for j, src := range from {
			if j == 0 || src != from[j-1] {
				from[n] = src
				n++
			}
		}
		g.points[i].connectedFrom = from[:n]
	}
}

// NumPoints returns the number of points in the graph.
func (g *GraphPath[L]) NumPoints() int {
	return len(g.points)
}

// PointPosition returns the position of a point.
func (g *GraphPath[L]) PointPosition(idx int) Coord2 {
	return g.points[idx].position
}

// EdgeInfo is a snapshot of an edge, read in the direction of its ref.
type EdgeInfo[L any] struct {
	Ref        EdgeRef
	Kind       EdgeKind
	Label      L
	Start, End Coord2
	Cp1, Cp2   Coord2
	StartIndex int
	EndIndex   int
}

// Curve returns the edge as a curve in the ref's travel direction.
func (e EdgeInfo[L]) Curve() Curve {
	return Curve{Start: e.Start, Cp1: e.Cp1, Cp2: e.Cp2, End: e.End}
}

// Edge returns a snapshot of the edge addressed by ref. Reversed refs
// produce the edge travelled end to start.
func (g *GraphPath[L]) Edge(ref EdgeRef) EdgeInfo[L] {
	e := g.points[ref.Point].forwardEdges[ref.Edge]
	info := EdgeInfo[L]{
		Ref:        ref,
		Kind:       e.kind,
		Label:      e.label,
		Start:      g.points[ref.Point].position,
		End:        g.points[e.endIdx].position,
		Cp1:        e.cp1,
		Cp2:        e.cp2,
		StartIndex: ref.Point,
		EndIndex:   e.endIdx,
	}
	if ref.Reversed {
		info.Start, info.End = info.End, info.Start
		info.Cp1, info.Cp2 = info.Cp2, info.Cp1
		info.StartIndex, info.EndIndex = info.EndIndex, info.StartIndex
	}
	return info
}

// EdgesForPoint returns refs for the edges leaving a point.
func (g *GraphPath[L]) EdgesForPoint(idx int) []EdgeRef {
	refs := make([]EdgeRef, len(g.points[idx].forwardEdges))
	for e := range refs {
		refs[e] = EdgeRef{Point: idx, Edge: e}
	}
	return refs
}

// ReversedEdgesForPoint returns refs for the edges arriving at a point,
// each travelling away from it.
func (g *GraphPath[L]) ReversedEdgesForPoint(idx int) []EdgeRef {
	var refs []EdgeRef
	for _, src := range g.points[idx].connectedFrom {
		for e, edge := range g.points[src].forwardEdges {
			if edge.endIdx == idx {
				refs = append(refs, EdgeRef{Point: src, Edge: e, Reversed: true})
			}
		}
	}
	return refs
}

// AllEdges returns a snapshot of every edge in the graph, in storage
// order.
func (g *GraphPath[L]) AllEdges() []EdgeInfo[L] {
	var edges []EdgeInfo[L]
	for p := range g.points {
		for e := range g.points[p].forwardEdges {
			edges = append(edges, g.Edge(EdgeRef{Point: p, Edge: e}))
		}
	}
	return edges
}

// NumEdges returns the number of edges in the graph.
func (g *GraphPath[L]) NumEdges() int {
	n := 0
	for p := range g.points {
		n += len(g.points[p].forwardEdges)
	}
	return n
}

// EdgeKindFor returns the classification of an edge.
func (g *GraphPath[L]) EdgeKindFor(ref EdgeRef) EdgeKind {
	return g.points[ref.Point].forwardEdges[ref.Edge].kind
}

// SetEdgeKind classifies a single edge.
func (g *GraphPath[L]) SetEdgeKind(ref EdgeRef, kind EdgeKind) {
	g.points[ref.Point].forwardEdges[ref.Edge].kind = kind
}

// EdgeLabel returns the label attached to an edge.
func (g *GraphPath[L]) EdgeLabel(ref EdgeRef) L {
	return g.points[ref.Point].forwardEdges[ref.Edge].label
}

// SetEdgeLabel replaces the label attached to an edge.
func (g *GraphPath[L]) SetEdgeLabel(ref EdgeRef, label L) {
	g.points[ref.Point].forwardEdges[ref.Edge].label = label
}

// ResetEdgeKinds returns every edge to the uncategorised state.
func (g *GraphPath[L]) ResetEdgeKinds() {
	for p := range g.points {
		for e := range g.points[p].forwardEdges {
			g.points[p].forwardEdges[e].kind = EdgeUncategorised
		}
	}
}

// SetEdgeKindConnected classifies an edge together with every edge that
// unambiguously continues it. The walk follows points with exactly one
// outgoing edge forwards, and points with exactly one incoming edge
// backwards, so junctions stop the spread.
func (g *GraphPath[L]) SetEdgeKindConnected(ref EdgeRef, kind EdgeKind) {
	visited := make([]bool, len(g.points))

	cur := EdgeRef{Point: ref.Point, Edge: ref.Edge}
	for {
		e := &g.points[cur.Point].forwardEdges[cur.Edge]
		e.kind = kind
		end := e.endIdx
		if visited[end] {
			break
		}
		visited[end] = true
		if len(g.points[end].forwardEdges) != 1 {
			break
		}
		cur = EdgeRef{Point: end, Edge: 0}
	}

	for i := range visited {
		visited[i] = false
	}
	point := ref.Point
	for !visited[point] {
		visited[point] = true
		sources := g.points[point].connectedFrom
		if len(sources) != 1 {
			break
		}
		src := sources[0]

		// The source must reach this point by exactly one edge,
		// otherwise the continuation is ambiguous.
		edgeIdx := -1
		for k, e := range g.points[src].forwardEdges {
			if e.endIdx != point {
				continue
			}
			if edgeIdx >= 0 {
				edgeIdx = -1
				break
			}
			edgeIdx = k
		}
		if edgeIdx < 0 {
			break
		}
		g.points[src].forwardEdges[edgeIdx].kind = kind
		point = src
	}
}

// edgeStartIndex and edgeEndIndex resolve a ref's travel endpoints.
func (g *GraphPath[L]) edgeStartIndex(ref EdgeRef) int {
	if ref.Reversed {
		return g.points[ref.Point].forwardEdges[ref.Edge].endIdx
	}
	return ref.Point
}

func (g *GraphPath[L]) edgeEndIndex(ref EdgeRef) int {
	if ref.Reversed {
		return ref.Point
	}
	return g.points[ref.Point].forwardEdges[ref.Edge].endIdx
}

// edgeIsVeryShort reports whether an edge is a degenerate self loop:
// it starts and ends at the same point and its control points stay
// within the snapping radius of it.
func (g *GraphPath[L]) edgeIsVeryShort(pointIdx, edgeIdx int) bool {
	e := g.points[pointIdx].forwardEdges[edgeIdx]
	if e.endIdx != pointIdx {
		return false
	}
	pos := g.points[pointIdx].position
	return e.cp1.IsNearTo(pos, CloseDistance) && e.cp2.IsNearTo(pos, CloseDistance)
}

// removeEdge deletes one edge, fixing the follow-on bookkeeping of the
// edges that arrive at its start point.
func (g *GraphPath[L]) removeEdge(pointIdx, edgeIdx int) {
	removed := g.points[pointIdx].forwardEdges[edgeIdx]
	followOn := removed.followingEdgeIdx
	if followOn > edgeIdx {
		followOn--
	}

	for _, src := range g.points[pointIdx].connectedFrom {
		edges := g.points[src].forwardEdges
		for k := range edges {
			if src == pointIdx && k == edgeIdx {
				continue
			}
			if edges[k].endIdx != pointIdx {
				continue
			}
			if edges[k].followingEdgeIdx == edgeIdx {
				edges[k].followingEdgeIdx = followOn
			} else if edges[k].followingEdgeIdx > edgeIdx {
				edges[k].followingEdgeIdx--
			}
		}
	}

	g.points[pointIdx].forwardEdges = append(
		g.points[pointIdx].forwardEdges[:edgeIdx],
		g.points[pointIdx].forwardEdges[edgeIdx+1:]...)
}

// removeVeryShortEdges drops the degenerate self loops that collisions
// close to an existing point can leave behind.
func (g *GraphPath[L]) removeVeryShortEdges() {
	removedAny := false
	for p := range g.points {
		for e := 0; e < len(g.points[p].forwardEdges); {
			if g.edgeIsVeryShort(p, e) {
				g.removeEdge(p, e)
				removedAny = true
			} else {
				e++
			}
		}
	}
	if removedAny {
		g.RecalculateReverseConnections()
	}
}
