package curves

import "sort"

// Collide merges another graph into this one and splits the edges of
// both wherever they cross, so every intersection becomes a shared
// point. Points from the two graphs that coincide are joined.
func (g *GraphPath[L]) Collide(other *GraphPath[L]) *GraphPath[L] {
	offset := len(g.points)
	g.Merge(other)
	g.detectCollisions(0, offset, offset, len(g.points))
	return g
}

// SelfCollide splits edges wherever the graph crosses itself.
func (g *GraphPath[L]) SelfCollide() {
	n := len(g.points)
	g.detectCollisions(0, n, 0, n)
}

type edgeKey struct {
	point, edge int
}

type splitPoint struct {
	t      float64
	target int
}

// detectCollisions finds the crossings between the edges of two point
// ranges and splits the edges there. Crossings within the snapping
// radius of an existing point reuse that point; other crossings create
// new points, shared between the edges that meet there.
func (g *GraphPath[L]) detectCollisions(aStart, aEnd, bStart, bEnd int) {
	splits := make(map[edgeKey][]splitPoint)
	var newPoints []Coord2

	resolveTarget := func(pos Coord2, candidates ...int) int {
		for _, c := range candidates {
			if pos.IsNearTo(g.points[c].position, CloseDistance) {
				return c
			}
		}
		for i, np := range newPoints {
			if pos.IsNearTo(np, CloseDistance) {
				return len(g.points) + i
			}
		}
		newPoints = append(newPoints, pos)
		return len(g.points) + len(newPoints) - 1
	}

	for aPoint := aStart; aPoint < aEnd; aPoint++ {
		for aEdge := range g.points[aPoint].forwardEdges {
			ka := edgeKey{aPoint, aEdge}
			ea := g.points[aPoint].forwardEdges[aEdge]
			curveA := Curve{
				Start: g.points[aPoint].position,
				Cp1:   ea.cp1,
				Cp2:   ea.cp2,
				End:   g.points[ea.endIdx].position,
			}
			boundsA := curveA.BoundingBox()

			for bPoint := bStart; bPoint < bEnd; bPoint++ {
				for bEdge := range g.points[bPoint].forwardEdges {
					kb := edgeKey{bPoint, bEdge}
					if ka == kb {
						continue
					}
					// Where the ranges overlap, each pair comes up
					// twice; keep only the ordering with a first.
					if aPoint >= bStart && aPoint < bEnd && bPoint >= aStart && bPoint < aEnd {
						if kb.point < ka.point || (kb.point == ka.point && kb.edge < ka.edge) {
							continue
						}
					}

					eb := g.points[bPoint].forwardEdges[bEdge]
					curveB := Curve{
						Start: g.points[bPoint].position,
						Cp1:   eb.cp1,
						Cp2:   eb.cp2,
						End:   g.points[eb.endIdx].position,
					}
					if !boundsA.Overlaps(curveB.BoundingBox()) {
						continue
					}

					for _, ts := range CurveIntersections(curveA, curveB) {
						ta, tb := ts[0], ts[1]
						pos := curveA.PointAt(ta)
						target := resolveTarget(pos, aPoint, ea.endIdx, bPoint, eb.endIdx)

						// Crossings at an edge's own endpoints need no
						// split there; the shared point already exists.
						if ta > smallT && ta < 1-smallT {
							splits[ka] = append(splits[ka], splitPoint{t: ta, target: target})
						}
						if tb > smallT && tb < 1-smallT {
							splits[kb] = append(splits[kb], splitPoint{t: tb, target: target})
						}
					}
				}
			}
		}
	}

	for _, pos := range newPoints {
		g.points = append(g.points, graphPoint[L]{position: pos})
	}

	keys := make([]edgeKey, 0, len(splits))
	for k := range splits {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].point != keys[b].point {
			return keys[a].point < keys[b].point
		}
		return keys[a].edge < keys[b].edge
	})

	for _, k := range keys {
		cuts := splits[k]
		sort.Slice(cuts, func(i, j int) bool { return cuts[i].t < cuts[j].t })

		merged := cuts[:0]
		for i, cut := range cuts {
			if i > 0 {
				prev := merged[len(merged)-1]
				if cut.target == prev.target && cut.t-prev.t < smallT {
					continue
				}
			}
			merged = append(merged, cut)
		}
		g.splitEdge(k.point, k.edge, merged)
	}

	g.combineOverlappingPoints()
	g.removeVeryShortEdges()
}

// splitEdge cuts one edge at the given ascending parameters, routing it
// through the target points. The first section replaces the original
// edge in place, so refs to every other edge stay valid; the remaining
// sections are appended to their start points.
func (g *GraphPath[L]) splitEdge(pointIdx, edgeIdx int, cuts []splitPoint) {
	if len(cuts) == 0 {
		return
	}
	orig := g.points[pointIdx].forwardEdges[edgeIdx]
	remainder := Curve{
		Start: g.points[pointIdx].position,
		Cp1:   orig.cp1,
		Cp2:   orig.cp2,
		End:   g.points[orig.endIdx].position,
	}

	curPoint := pointIdx
	prevT := 0.0
	prevPoint, prevEdge := -1, -1

	place := func(section Curve, endIdx int) (int, int) {
		e := graphEdge[L]{
			kind:   orig.kind,
			label:  orig.label,
			cp1:    section.Cp1,
			cp2:    section.Cp2,
			endIdx: endIdx,
		}
		if prevPoint < 0 {
			g.points[pointIdx].forwardEdges[edgeIdx] = e
			return pointIdx, edgeIdx
		}
		g.points[curPoint].forwardEdges = append(g.points[curPoint].forwardEdges, e)
		return curPoint, len(g.points[curPoint].forwardEdges) - 1
	}

	for _, cut := range cuts {
		localT := (cut.t - prevT) / (1 - prevT)
		var section Curve
		section, remainder = remainder.Subdivide(localT)

		p, e := place(section, cut.target)
		if prevPoint >= 0 {
			g.points[prevPoint].forwardEdges[prevEdge].followingEdgeIdx = e
		}
		prevPoint, prevEdge = p, e
		curPoint = cut.target
		prevT = cut.t
	}

	p, e := place(remainder, orig.endIdx)
	g.points[prevPoint].forwardEdges[prevEdge].followingEdgeIdx = e
	g.points[p].forwardEdges[e].followingEdgeIdx = orig.followingEdgeIdx
}

// combineOverlappingPoints merges points lying within the snapping
// radius of each other, so coincident corners from different source
// paths become one shared vertex.
func (g *GraphPath[L]) combineOverlappingPoints() {
	n := len(g.points)
	remap := make([]int, n)
	for i := range remap {
		remap[i] = i
	}
	merged := false
	for i := 0; i < n; i++ {
		if remap[i] != i {
			continue
		}
		for j := i + 1; j < n; j++ {
			if remap[j] == j && g.points[j].position.IsNearTo(g.points[i].position, CloseDistance) {
				remap[j] = i
				merged = true
			}
		}
	}
	if !merged {
		g.RecalculateReverseConnections()
		return
	}

	// Edges from a merged point are appended after the edges already on
	// the kept point; edgeBase records where each point's edges land so
	// follow-on indices stay correct.
	edgeBase := make([]int, n)
	counts := make([]int, n)
	for i := 0; i < n; i++ {
		if remap[i] == i {
			counts[i] = len(g.points[i].forwardEdges)
		}
	}
	for j := 0; j < n; j++ {
		if remap[j] != j {
			root := remap[j]
			edgeBase[j] = counts[root]
			counts[root] += len(g.points[j].forwardEdges)
		}
	}

	for p := 0; p < n; p++ {
		for e := range g.points[p].forwardEdges {
			edge := &g.points[p].forwardEdges[e]
			edge.followingEdgeIdx += edgeBase[edge.endIdx]
			edge.endIdx = remap[edge.endIdx]
		}
	}

	for j := 0; j < n; j++ {
		if remap[j] == j {
			continue
		}
		root := remap[j]
		g.points[root].forwardEdges = append(g.points[root].forwardEdges, g.points[j].forwardEdges...)
		g.points[j].forwardEdges = nil
	}

	newIdx := make([]int, n)
	kept := 0
	for i := 0; i < n; i++ {
		if remap[i] == i {
			newIdx[i] = kept
			kept++
		}
	}

	packed := make([]graphPoint[L], 0, kept)
	for i := 0; i < n; i++ {
		if remap[i] == i {
			packed = append(packed, g.points[i])
		}
	}
	for p := range packed {
		for e := range packed[p].forwardEdges {
			packed[p].forwardEdges[e].endIdx = newIdx[packed[p].forwardEdges[e].endIdx]
		}
	}
	g.points = packed
	g.RecalculateReverseConnections()
}
