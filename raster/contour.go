package raster

import "image"

// Contour is a closed polygon traced along the edge of a mask region.
// Points are pixel-corner coordinates; consecutive collinear corners are
// merged during tracing. Inner marks a hole boundary. InitialCount is the
// vertex count before simplification.
type Contour struct {
	Points       []image.Point
	Inner        bool
	Label        int
	InitialCount int
}

// directed boundary edge between two pixel corners.
type edge struct {
	from, to image.Point
	used     bool
}

// TraceContours extracts every boundary loop of the mask as a closed
// polygon. Boundary edges are oriented with the region interior on the
// left so that outer boundaries and hole boundaries come out with
// opposite winding; holes are flagged Inner. Labels are assigned in
// discovery order starting at 1.
func TraceContours(m *Mask) []Contour {
	w, h := m.Width, m.Height
	at := func(x, y int) uint8 {
		if x < 0 || x >= w || y < 0 || y >= h {
			return 0
		}
		return m.Data[y*w+x]
	}

	// Collect directed edges wherever a set pixel borders a clear one.
	// Orientation per side keeps the interior on the left when walking
	// with y growing downward.
	var edges []*edge
	outgoing := make(map[image.Point][]*edge)
	add := func(fx, fy, tx, ty int) {
		e := &edge{from: image.Pt(fx, fy), to: image.Pt(tx, ty)}
		edges = append(edges, e)
		outgoing[e.from] = append(outgoing[e.from], e)
	}
	b := m.Bounds
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if at(x, y) == 0 {
				continue
			}
			if at(x, y-1) == 0 {
				add(x, y, x+1, y)
			}
			if at(x+1, y) == 0 {
				add(x+1, y, x+1, y+1)
			}
			if at(x, y+1) == 0 {
				add(x+1, y+1, x, y+1)
			}
			if at(x-1, y) == 0 {
				add(x, y+1, x, y)
			}
		}
	}

	var contours []Contour
	label := 0
	for _, start := range edges {
		if start.used {
			continue
		}
		loop := walkLoop(start, outgoing)
		label++
		pts := compressCollinear(loop)
		contours = append(contours, Contour{
			Points:       pts,
			Inner:        signedArea2(pts) < 0,
			Label:        label,
			InitialCount: len(pts),
		})
	}
	return contours
}

// walkLoop follows directed edges from start until the loop closes.
// At corners where two regions touch diagonally a vertex has two outgoing
// edges; the walk prefers the rightmost turn, which keeps diagonally
// touching regions as separate loops (matching the 4-connected fill).
func walkLoop(start *edge, outgoing map[image.Point][]*edge) []image.Point {
	var pts []image.Point
	cur := start
	for {
		cur.used = true
		pts = append(pts, cur.from)
		if cur.to == start.from {
			return pts
		}
		next := pickNext(cur, outgoing[cur.to])
		if next == nil {
			// Boundary edges always pair up; bail out rather than loop.
			return pts
		}
		cur = next
	}
}

// pickNext selects the unused outgoing edge with the sharpest right turn
// relative to the incoming direction.
func pickNext(in *edge, candidates []*edge) *edge {
	din := image.Pt(in.to.X-in.from.X, in.to.Y-in.from.Y)
	var best *edge
	bestRank := 4
	for _, c := range candidates {
		if c.used {
			continue
		}
		dout := image.Pt(c.to.X-c.from.X, c.to.Y-c.from.Y)
		r := turnRank(din, dout)
		if r < bestRank {
			bestRank = r
			best = c
		}
	}
	return best
}

// turnRank orders outgoing directions: right turn, straight, left turn,
// reversal. Cross product sign decides left vs right in y-down coords.
func turnRank(din, dout image.Point) int {
	cross := din.X*dout.Y - din.Y*dout.X
	switch {
	case cross > 0:
		return 0 // right turn on screen
	case din == dout:
		return 1
	case cross < 0:
		return 2
	default:
		return 3
	}
}

// compressCollinear drops vertices that continue the previous direction.
func compressCollinear(pts []image.Point) []image.Point {
	n := len(pts)
	if n < 3 {
		return pts
	}
	out := pts[:0:0]
	for i := 0; i < n; i++ {
		prev := pts[(i+n-1)%n]
		next := pts[(i+1)%n]
		cur := pts[i]
		d1 := image.Pt(cur.X-prev.X, cur.Y-prev.Y)
		d2 := image.Pt(next.X-cur.X, next.Y-cur.Y)
		if d1.X*d2.Y-d1.Y*d2.X != 0 {
			out = append(out, cur)
		}
	}
	return out
}

// signedArea2 returns twice the shoelace area. Positive means the loop
// runs clockwise on screen (outer boundary), negative marks a hole.
func signedArea2(pts []image.Point) int {
	var sum int
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum
}

// SimplifyContours reduces each contour to at most maxCount vertices.
// Douglas-Peucker with the given tolerance runs first; if a contour is
// still above maxCount its vertices are decimated uniformly. A maxCount
// below 3 is treated as unlimited. InitialCount and flags are preserved.
func SimplifyContours(contours []Contour, tolerance float64, maxCount int) []Contour {
	out := make([]Contour, 0, len(contours))
	for _, c := range contours {
		pts := c.Points
		if tolerance > 0 && len(pts) > 3 {
			pts = douglasPeucker(pts, tolerance)
		}
		if maxCount >= 3 && len(pts) > maxCount {
			pts = decimate(pts, maxCount)
		}
		out = append(out, Contour{
			Points:       pts,
			Inner:        c.Inner,
			Label:        c.Label,
			InitialCount: c.InitialCount,
		})
	}
	return out
}

// douglasPeucker simplifies a closed ring. The ring is split at its two
// mutually farthest-ish anchors (index 0 and the point farthest from it)
// so the open-polyline recursion applies.
func douglasPeucker(pts []image.Point, tolerance float64) []image.Point {
	n := len(pts)
	far, farDist := 0, -1
	for i := 1; i < n; i++ {
		dx := pts[i].X - pts[0].X
		dy := pts[i].Y - pts[0].Y
		if d := dx*dx + dy*dy; d > farDist {
			farDist = d
			far = i
		}
	}
	if far == 0 {
		return pts
	}
	first := dpSegment(pts[:far+1], tolerance)
	wrap := make([]image.Point, 0, n-far+1)
	wrap = append(wrap, pts[far:]...)
	wrap = append(wrap, pts[0])
	second := dpSegment(wrap, tolerance)
	// Both halves contain their endpoints; drop the duplicates.
	out := append(first, second[1:len(second)-1]...)
	if len(out) < 3 {
		return pts
	}
	return out
}

func dpSegment(pts []image.Point, tolerance float64) []image.Point {
	if len(pts) < 3 {
		return pts
	}
	a, b := pts[0], pts[len(pts)-1]
	maxDist, maxIdx := 0.0, 0
	for i := 1; i < len(pts)-1; i++ {
		if d := perpDistSq(pts[i], a, b); d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= tolerance*tolerance {
		return []image.Point{a, b}
	}
	left := dpSegment(pts[:maxIdx+1], tolerance)
	right := dpSegment(pts[maxIdx:], tolerance)
	out := make([]image.Point, 0, len(left)+len(right)-1)
	out = append(out, left[:len(left)-1]...)
	out = append(out, right...)
	return out
}

// perpDistSq is the squared distance from p to segment ab.
func perpDistSq(p, a, b image.Point) float64 {
	abx := float64(b.X - a.X)
	aby := float64(b.Y - a.Y)
	apx := float64(p.X - a.X)
	apy := float64(p.Y - a.Y)
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return apx*apx + apy*apy
	}
	t := (apx*abx + apy*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	dx := apx - t*abx
	dy := apy - t*aby
	return dx*dx + dy*dy
}

// decimate keeps count vertices at a uniform stride.
func decimate(pts []image.Point, count int) []image.Point {
	out := make([]image.Point, 0, count)
	step := float64(len(pts)) / float64(count)
	for i := 0; i < count; i++ {
		out = append(out, pts[int(float64(i)*step)])
	}
	return out
}
