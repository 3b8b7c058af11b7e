package plan

import (
	"math"

	"github.com/asim/quadtree"
)

// freeEndpoint is an endpoint that appears in exactly one segment after
// welding and merging.
type freeEndpoint struct {
	pt     Point2
	segIdx int
}

// CloseGaps finds pairs of free endpoints within closeTolerancePx of each
// other and synthesizes a new segment joining them, modeling a wall run the
// drafter almost closed. Endpoints of the same segment never pair (the
// closure would duplicate it), each endpoint joins at most one closure, and
// closures shorter than minLengthPx are not emitted. Closures carry ID -1;
// the caller assigns handles when committing them. This pass only adds
// segments, never removes.
//
// Free endpoints are matched through a quadtree so the candidate search
// stays local; pairing is greedy in input order, nearest candidate first.
func CloseGaps(segments []Segment, closeTolerancePx, minLengthPx float64) []Segment {
	if closeTolerancePx <= 0 || len(segments) == 0 {
		return nil
	}

	// Endpoint degree count. Welded endpoints are bit-identical, so the
	// point value itself is the key.
	degree := make(map[Point2]int, len(segments)*2)
	for _, s := range segments {
		degree[s.A]++
		degree[s.B]++
	}

	var free []freeEndpoint
	for i, s := range segments {
		if degree[s.A] == 1 {
			free = append(free, freeEndpoint{pt: s.A, segIdx: i})
		}
		if degree[s.B] == 1 {
			free = append(free, freeEndpoint{pt: s.B, segIdx: i})
		}
	}
	if len(free) < 2 {
		return nil
	}

	tree := newEndpointTree(free)

	used := make([]bool, len(free))
	var closures []Segment
	for i := range free {
		if used[i] {
			continue
		}
		j := tree.nearestPartner(free, used, i, closeTolerancePx)
		if j < 0 {
			continue
		}
		length := Distance(free[i].pt, free[j].pt)
		if length < minLengthPx || length <= degenerateEps {
			continue
		}
		used[i] = true
		used[j] = true
		closures = append(closures, Segment{A: free[i].pt, B: free[j].pt, ID: -1})
	}
	return closures
}

// endpointTree wraps a quadtree over free endpoints; each tree point's data
// is the index into the free-endpoint slice.
type endpointTree struct {
	tree *quadtree.QuadTree
}

func newEndpointTree(free []freeEndpoint) *endpointTree {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, f := range free {
		minX = math.Min(minX, f.pt.X)
		minY = math.Min(minY, f.pt.Y)
		maxX = math.Max(maxX, f.pt.X)
		maxY = math.Max(maxY, f.pt.Y)
	}

	midX := (minX + maxX) / 2
	midY := (minY + maxY) / 2
	// Margin keeps boundary endpoints inside the root AABB.
	halfW := (maxX-minX)/2 + 10
	halfH := (maxY-minY)/2 + 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfW, halfH, nil))
	tree := quadtree.New(aabb, 0, nil)
	for i, f := range free {
		tree.Insert(quadtree.NewPoint(f.pt.X, f.pt.Y, i))
	}
	return &endpointTree{tree: tree}
}

// nearestPartner returns the index of the closest unused free endpoint
// within tol of free[i] that belongs to a different segment, or -1.
func (t *endpointTree) nearestPartner(free []freeEndpoint, used []bool, i int, tol float64) int {
	center := quadtree.NewPoint(free[i].pt.X, free[i].pt.Y, nil)
	half := quadtree.NewPoint(tol, tol, nil)
	candidates := t.tree.Search(quadtree.NewAABB(center, half))

	best := -1
	bestD := tol
	for _, c := range candidates {
		j := c.Data().(int)
		if j == i || used[j] || free[j].segIdx == free[i].segIdx {
			continue
		}
		if d := Distance(free[i].pt, free[j].pt); d <= bestD {
			best = j
			bestD = d
		}
	}
	return best
}
