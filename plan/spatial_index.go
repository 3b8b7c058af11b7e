package plan

import "math"

// cellKey addresses one bucket of the endpoint grid.
type cellKey struct {
	CX, CY int64
}

// cluster is a running centroid over the points merged into it. It exists
// only for the duration of one welding pass.
type cluster struct {
	sumX, sumY float64
	count      int
}

func (c *cluster) centroid() Point2 {
	n := float64(c.count)
	return Point2{X: c.sumX / n, Y: c.sumY / n}
}

// SpatialIndex buckets points into grid cells of size max(1, tolerance) and
// clusters points that fall within tolerance of an existing cluster's
// running centroid. A query only inspects the point's own cell and its 8
// neighbors, bounding the candidate set to O(1) expected per lookup.
//
// An index is exclusively owned by one pipeline run; construct a fresh one
// per invocation so no bucket state leaks between calls.
type SpatialIndex struct {
	tolerance float64
	tol2      float64
	cellSize  float64
	buckets   map[cellKey][]int
	clusters  []cluster
}

// NewSpatialIndex creates an index with the given clustering tolerance.
func NewSpatialIndex(tolerance float64) *SpatialIndex {
	cell := tolerance
	if cell < 1.0 {
		cell = 1.0
	}
	return &SpatialIndex{
		tolerance: tolerance,
		tol2:      tolerance * tolerance,
		cellSize:  cell,
		buckets:   make(map[cellKey][]int),
	}
}

func (ix *SpatialIndex) keyOf(p Point2) cellKey {
	return cellKey{
		CX: int64(math.Floor(p.X / ix.cellSize)),
		CY: int64(math.Floor(p.Y / ix.cellSize)),
	}
}

// LookupOrInsert returns the ID of the cluster that absorbs p: an existing
// cluster whose running centroid lies within tolerance (nearest wins), or a
// newly created one. Insertion order decides which cluster absorbs
// borderline points, so reproducible results require a fixed input order.
//
// A cluster stays registered in the cell of its founding point. Its
// centroid can drift as members join, but never by more than the tolerance,
// which is at most one cell, so the 3x3 neighborhood scan still finds it.
func (ix *SpatialIndex) LookupOrInsert(p Point2) int {
	key := ix.keyOf(p)

	best := -1
	bestD2 := ix.tol2
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, id := range ix.buckets[cellKey{key.CX + dx, key.CY + dy}] {
				if d2 := dist2(p, ix.clusters[id].centroid()); d2 <= bestD2 {
					best = id
					bestD2 = d2
				}
			}
		}
	}

	if best >= 0 {
		c := &ix.clusters[best]
		c.sumX += p.X
		c.sumY += p.Y
		c.count++
		return best
	}

	id := len(ix.clusters)
	ix.clusters = append(ix.clusters, cluster{sumX: p.X, sumY: p.Y, count: 1})
	ix.buckets[key] = append(ix.buckets[key], id)
	return id
}

// Centroid returns the current centroid of the given cluster.
func (ix *SpatialIndex) Centroid(id int) Point2 {
	return ix.clusters[id].centroid()
}

// MemberCount returns how many points the cluster has absorbed.
func (ix *SpatialIndex) MemberCount(id int) int {
	return ix.clusters[id].count
}

// Len returns the number of distinct clusters.
func (ix *SpatialIndex) Len() int { return len(ix.clusters) }
